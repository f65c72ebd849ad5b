package content

import (
	"database/sql"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"nsxd/internal/models"
	"nsxd/internal/store"
	"time"
)

type PendingQueueInterface interface {
	Enqueue(item *models.PendingNotification) error
	Dequeue() (*models.PendingNotification, error)
	Size() (int, error)
}

// PendingQueue is the durable FIFO of locally-surfaced notifications. Items
// survive process recycling within one notification-delivery burst: a later
// invocation recycles the stored content instead of re-deriving it.
type PendingQueue struct {
	db *sql.DB
}

func NewPendingQueue(paymentStore *store.PaymentStore) PendingQueueInterface {
	return &PendingQueue{db: paymentStore.DB()}
}

func (q *PendingQueue) Enqueue(item *models.PendingNotification) error {
	blob, err := json.Marshal(&item.Content)
	if err != nil {
		return err
	}
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}
	_, err = q.db.Exec(
		`INSERT INTO pending_notifications (identifier, content, enqueued_at) VALUES (?, ?, ?)`,
		item.Identifier, blob, item.EnqueuedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("enqueue pending notification %s: %w", item.Identifier, err)
	}
	return nil
}

// Dequeue pops the oldest item, or nil when the queue is empty. The delete
// and the read happen in one transaction so two racing invocations never
// recycle the same item.
func (q *PendingQueue) Dequeue() (*models.PendingNotification, error) {
	tx, err := q.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		identifier string
		blob       []byte
		enqueuedMs int64
	)
	err = tx.QueryRow(
		`SELECT identifier, content, enqueued_at FROM pending_notifications ORDER BY enqueued_at, identifier LIMIT 1`,
	).Scan(&identifier, &blob, &enqueuedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`DELETE FROM pending_notifications WHERE identifier = ?`, identifier); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	item := &models.PendingNotification{
		Identifier: identifier,
		EnqueuedAt: time.UnixMilli(enqueuedMs),
	}
	if err := json.Unmarshal(blob, &item.Content); err != nil {
		return nil, fmt.Errorf("decode pending notification %s: %w", identifier, err)
	}
	return item, nil
}

func (q *PendingQueue) Size() (int, error) {
	var count int
	err := q.db.QueryRow(`SELECT COUNT(*) FROM pending_notifications`).Scan(&count)
	return count, err
}
