package models

import "time"

// Content is the user-visible result of processing one push notification.
type Content struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Badge    int    `json:"badge,omitempty"`
	TargetId string `json:"targetId,omitempty"`
}

// PendingNotification is a locally-surfaced notification kept durable so a
// later invocation can recycle its content instead of re-deriving it.
type PendingNotification struct {
	Identifier string    `json:"identifier"`
	Content    Content   `json:"content"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// ExchangeRate is the latest known fiat price of one bitcoin.
type ExchangeRate struct {
	FiatCurrency string    `json:"fiatCurrency"`
	Price        float64   `json:"price"`
	Timestamp    time.Time `json:"timestamp"`
}
