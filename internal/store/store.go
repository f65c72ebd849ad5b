package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"nsxd/internal/models"
	"nsxd/internal/providers"
	"nsxd/internal/structures"
)

// ErrDuplicatePayment is returned when a payment id is inserted twice.
var ErrDuplicatePayment = errors.New("payment already exists")

type ChangeKind int

const (
	ChangeSaved ChangeKind = iota
	ChangeDeleted
)

func (k ChangeKind) String() string {
	if k == ChangeSaved {
		return "saved"
	}
	return "deleted"
}

// ChangeEvent is emitted after a transaction that touched a payment commits.
type ChangeEvent struct {
	PaymentId string
	Kind      ChangeKind
}

type PaymentStoreInterface interface {
	AddIncomingPayment(payment *models.ReceivedPayment, metadata *models.PaymentMetadata, notify bool) error
	GetLightningIncomingPayment(paymentHash string) (*models.ReceivedPayment, error)
	ReceiveLightningPayment(paymentHash string, parts []models.Part, liquidity *models.LiquidityDetails) error
	ListLightningExpiredPayments(fromCreatedAt, toCreatedAt time.Time) ([]*models.ReceivedPayment, error)
	RemoveLightningIncomingPayment(paymentHash string) (bool, error)
	AddAutoLiquidityPayment(payment *models.AutoLiquidityPayment) error
	Changes() <-chan ChangeEvent
	Close() error
}

// PaymentStore persists payments in sqlite. Every mutation runs in a single
// transaction; change events are emitted only after commit.
type PaymentStore struct {
	db      *sql.DB
	codec   *BlobCodec
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	changes chan ChangeEvent

	// Test seam: runs inside the ReceiveLightningPayment transaction after the
	// payment row update and before the liquidity back-fill.
	beforeLiquidityBackfill func() error
}

func NewPaymentStore(conf *structures.Config, codec *BlobCodec, logger providers.Logger, metrics providers.MetricsProviderInterface) (*PaymentStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", conf.Store.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open payment store: %w", err)
	}

	// sqlite serializes writers; a single connection avoids SQLITE_BUSY
	// between our own transactions.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize payment store schema: %w", err)
	}

	logger.Infof(providers.TypeStore, "Payment store opened: %s", conf.Store.Path)

	return &PaymentStore{
		db:      db,
		codec:   codec,
		logger:  logger,
		metrics: metrics,
		changes: make(chan ChangeEvent, 32),
	}, nil
}

// DB exposes the underlying handle for collaborators sharing the same
// database file, such as the pending-notification queue.
func (ps *PaymentStore) DB() *sql.DB {
	return ps.db
}

func (ps *PaymentStore) Changes() <-chan ChangeEvent {
	return ps.changes
}

func (ps *PaymentStore) Close() error {
	return ps.db.Close()
}

// AddIncomingPayment inserts the payment row, the on-chain transaction index
// row if applicable and the metadata row, all in one transaction. With
// notify=false no change event is emitted; used when restoring rows from an
// external backup.
func (ps *PaymentStore) AddIncomingPayment(payment *models.ReceivedPayment, metadata *models.PaymentMetadata, notify bool) error {
	blob, err := ps.codec.Encode(payment)
	if err != nil {
		return fmt.Errorf("encode payment %s: %w", payment.Id, err)
	}

	tx, err := ps.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO payments_incoming (id, payment_hash, tx_id, created_at, received_at, data) VALUES (?, ?, ?, ?, ?, ?)`,
		payment.Id,
		nullString(payment.PaymentHash),
		nullString(payment.TxId),
		payment.CreatedAt.UnixMilli(),
		nullTime(payment.CompletedAt),
		blob,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: id=%s", ErrDuplicatePayment, payment.Id)
		}
		return fmt.Errorf("insert payment %s: %w", payment.Id, err)
	}

	if payment.Origin == models.OriginOnChain || payment.Origin == models.OriginSwapIn {
		_, err = tx.Exec(
			`INSERT INTO on_chain_transactions (payment_id, tx_id) VALUES (?, ?)`,
			payment.Id, payment.TxId,
		)
		if err != nil {
			return fmt.Errorf("insert on-chain index for %s: %w", payment.Id, err)
		}
	}

	if metadata != nil {
		metaBlob, err := ps.codec.Encode(metadata)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", payment.Id, err)
		}
		if _, err := tx.Exec(`INSERT INTO payments_metadata (payment_id, data) VALUES (?, ?)`, payment.Id, metaBlob); err != nil {
			return fmt.Errorf("insert metadata for %s: %w", payment.Id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if notify {
		ps.emit(ChangeEvent{PaymentId: payment.Id, Kind: ChangeSaved})
	}
	return nil
}

func (ps *PaymentStore) GetLightningIncomingPayment(paymentHash string) (*models.ReceivedPayment, error) {
	row := ps.db.QueryRow(`SELECT data FROM payments_incoming WHERE payment_hash = ?`, paymentHash)
	return ps.scanPayment(row)
}

// ReceiveLightningPayment merges newly settled parts into an existing payment
// row and, when a liquidity purchase rode along, back-fills the completion
// time of the matching automatic-liquidity outgoing payment. A missing row is
// an engine contract violation and fails the whole transaction loudly.
func (ps *PaymentStore) ReceiveLightningPayment(paymentHash string, parts []models.Part, liquidity *models.LiquidityDetails) error {
	tx, err := ps.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT data FROM payments_incoming WHERE payment_hash = ?`, paymentHash)
	existing, err := ps.scanPayment(row)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("missing payment for payment_hash=%s", paymentHash)
	}

	updated := existing.WithReceivedParts(parts, liquidity)
	blob, err := ps.codec.Encode(updated)
	if err != nil {
		return fmt.Errorf("encode payment %s: %w", updated.Id, err)
	}

	_, err = tx.Exec(
		`UPDATE payments_incoming SET data = ?, received_at = ?, tx_id = ? WHERE id = ?`,
		blob, nullTime(updated.CompletedAt), nullString(updated.TxId), updated.Id,
	)
	if err != nil {
		return fmt.Errorf("update payment %s: %w", updated.Id, err)
	}

	if ps.beforeLiquidityBackfill != nil {
		if err := ps.beforeLiquidityBackfill(); err != nil {
			return err
		}
	}

	if liquidity != nil {
		if err := ps.backfillAutoLiquidity(tx, liquidity.TxId, updated.CompletedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	ps.emit(ChangeEvent{PaymentId: updated.Id, Kind: ChangeSaved})
	return nil
}

func (ps *PaymentStore) backfillAutoLiquidity(tx *sql.Tx, txId string, receivedAt *time.Time) error {
	row := tx.QueryRow(`SELECT data FROM payments_outgoing WHERE tx_id = ?`, txId)

	var blob []byte
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No auto-liquidity purchase for this tx; nothing to back-fill.
			return nil
		}
		return fmt.Errorf("load outgoing payment for tx %s: %w", txId, err)
	}

	var outgoing models.AutoLiquidityPayment
	if err := ps.codec.Decode(blob, &outgoing); err != nil {
		return fmt.Errorf("decode outgoing payment for tx %s: %w", txId, err)
	}

	outgoing.IncomingReceivedAt = receivedAt
	outgoing.CompletedAt = receivedAt

	updatedBlob, err := ps.codec.Encode(&outgoing)
	if err != nil {
		return fmt.Errorf("encode outgoing payment %s: %w", outgoing.Id, err)
	}
	_, err = tx.Exec(
		`UPDATE payments_outgoing SET data = ?, completed_at = ? WHERE id = ?`,
		updatedBlob, nullTime(receivedAt), outgoing.Id,
	)
	if err != nil {
		return fmt.Errorf("update outgoing payment %s: %w", outgoing.Id, err)
	}
	return nil
}

// ListLightningExpiredPayments scans payments created inside the given window
// and returns the invoices that never settled a single part and whose request
// expired before the window's end. Used by housekeeping, which passes the
// current time as toCreatedAt.
func (ps *PaymentStore) ListLightningExpiredPayments(fromCreatedAt, toCreatedAt time.Time) ([]*models.ReceivedPayment, error) {
	rows, err := ps.db.Query(
		`SELECT data FROM payments_incoming WHERE payment_hash IS NOT NULL AND created_at >= ? AND created_at <= ?`,
		fromCreatedAt.UnixMilli(), toCreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []*models.ReceivedPayment
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var payment models.ReceivedPayment
		if err := ps.codec.Decode(blob, &payment); err != nil {
			return nil, err
		}
		if payment.Origin == models.OriginInvoice && len(payment.Parts) == 0 &&
			!payment.ExpiresAt.IsZero() && payment.ExpiresAt.Before(toCreatedAt) {
			expired = append(expired, &payment)
		}
	}
	return expired, rows.Err()
}

// RemoveLightningIncomingPayment deletes the payment row for the given hash
// and reports whether a row actually existed.
func (ps *PaymentStore) RemoveLightningIncomingPayment(paymentHash string) (bool, error) {
	tx, err := ps.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var paymentId string
	err = tx.QueryRow(`SELECT id FROM payments_incoming WHERE payment_hash = ?`, paymentHash).Scan(&paymentId)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(`DELETE FROM payments_incoming WHERE id = ?`, paymentId); err != nil {
		return false, err
	}
	if _, err := tx.Exec(`DELETE FROM payments_metadata WHERE payment_id = ?`, paymentId); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	ps.emit(ChangeEvent{PaymentId: paymentId, Kind: ChangeDeleted})
	return true, nil
}

// AddAutoLiquidityPayment records an automatic liquidity purchase so a later
// incoming payment can back-fill its completion time.
func (ps *PaymentStore) AddAutoLiquidityPayment(payment *models.AutoLiquidityPayment) error {
	blob, err := ps.codec.Encode(payment)
	if err != nil {
		return fmt.Errorf("encode outgoing payment %s: %w", payment.Id, err)
	}
	_, err = ps.db.Exec(
		`INSERT INTO payments_outgoing (id, tx_id, created_at, completed_at, data) VALUES (?, ?, ?, ?, ?)`,
		payment.Id, nullString(payment.TxId), payment.CreatedAt.UnixMilli(), nullTime(payment.CompletedAt), blob,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: id=%s", ErrDuplicatePayment, payment.Id)
		}
		return fmt.Errorf("insert outgoing payment %s: %w", payment.Id, err)
	}
	return nil
}

func (ps *PaymentStore) scanPayment(row *sql.Row) (*models.ReceivedPayment, error) {
	var blob []byte
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var payment models.ReceivedPayment
	if err := ps.codec.Decode(blob, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (ps *PaymentStore) emit(ev ChangeEvent) {
	ps.metrics.IncStoreChanges(ev.Kind.String())
	select {
	case ps.changes <- ev:
	default:
		ps.logger.Warnf(providers.TypeStore, "change event for %s dropped: no consumer", ev.PaymentId)
	}
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
