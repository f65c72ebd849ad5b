package wallet

import (
	"nsxd/internal/models"
)

// ConnectionState reports whether the wallet engine has an established
// connection to its Lightning peer.
type ConnectionState struct {
	PeerEstablished bool
}

// EngineInterface is the narrow surface the daemon consumes from the wallet
// engine. The engine owns peer connections, channel state and payment
// routing; the daemon only starts it, stops it and observes its streams.
type EngineInterface interface {
	Start() error
	Stop()
	Connections() <-chan ConnectionState
	Payments() <-chan *models.ReceivedPayment
	ExchangeRate(fiatCurrency string) *models.ExchangeRate
}
