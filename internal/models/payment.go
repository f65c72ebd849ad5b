package models

import "time"

type PaymentOrigin int

const (
	OriginInvoice PaymentOrigin = iota
	OriginOnChain
	OriginOffer
	OriginSwapIn
	OriginKeysend
)

func (o PaymentOrigin) String() string {
	switch o {
	case OriginInvoice:
		return "invoice"
	case OriginOnChain:
		return "onChain"
	case OriginOffer:
		return "offer"
	case OriginSwapIn:
		return "swapIn"
	case OriginKeysend:
		return "keysend"
	default:
		return "unknown"
	}
}

// Part is one settled HTLC of a lightning payment. Multi-part payments
// accumulate several parts before the payment is considered complete.
type Part struct {
	AmountMsat int64     `json:"amountMsat"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// LiquidityDetails describes an on-chain channel-capacity purchase paid for
// automatically alongside an incoming payment.
type LiquidityDetails struct {
	TxId    string `json:"txId"`
	FeeMsat int64  `json:"feeMsat"`
}

// ReceivedPayment is an incoming payment as produced by the wallet engine.
// Read-only to this daemon; the engine owns its contents.
type ReceivedPayment struct {
	Id          string            `json:"id"`
	PaymentHash string            `json:"paymentHash,omitempty"`
	TxId        string            `json:"txId,omitempty"`
	AmountMsat  int64             `json:"amountMsat"`
	Description string            `json:"description,omitempty"`
	Origin      PaymentOrigin     `json:"origin"`
	CreatedAt   time.Time         `json:"createdAt"`
	ExpiresAt   time.Time         `json:"expiresAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	Parts       []Part            `json:"parts,omitempty"`
	Liquidity   *LiquidityDetails `json:"liquidity,omitempty"`
}

func (p *ReceivedPayment) Completed() bool {
	return p.CompletedAt != nil
}

// WithReceivedParts returns a copy of the payment with the new settlement
// parts merged in. The amount is the sum of all settled parts and the
// completion time follows the latest part.
func (p *ReceivedPayment) WithReceivedParts(parts []Part, liquidity *LiquidityDetails) *ReceivedPayment {
	next := *p
	next.Parts = append(append([]Part(nil), p.Parts...), parts...)

	var total int64
	completedAt := time.Time{}
	for _, part := range next.Parts {
		total += part.AmountMsat
		if part.ReceivedAt.After(completedAt) {
			completedAt = part.ReceivedAt
		}
	}
	next.AmountMsat = total
	if !completedAt.IsZero() {
		next.CompletedAt = &completedAt
	}
	if liquidity != nil {
		next.Liquidity = liquidity
		next.TxId = liquidity.TxId
	}
	return &next
}

// PaymentMetadata is descriptive data attached to a payment row in the same
// transaction that inserts the payment.
type PaymentMetadata struct {
	UserDescription string  `json:"userDescription,omitempty"`
	UserNotes       string  `json:"userNotes,omitempty"`
	FiatCurrency    string  `json:"fiatCurrency,omitempty"`
	FiatAmount      float64 `json:"fiatAmount,omitempty"`
}

// AutoLiquidityPayment is the outgoing-payment counterpart of an automatic
// liquidity purchase. When the purchased liquidity finally carries an incoming
// payment, its completion timestamp is back-filled.
type AutoLiquidityPayment struct {
	Id                 string     `json:"id"`
	TxId               string     `json:"txId"`
	FeeMsat            int64      `json:"feeMsat"`
	CreatedAt          time.Time  `json:"createdAt"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	IncomingReceivedAt *time.Time `json:"incomingReceivedAt,omitempty"`
}
