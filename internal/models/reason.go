package models

// Reason classifies why a push notification was sent to the wallet.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonIncomingPayment
	ReasonIncomingOnionMessage
	ReasonPendingSettlement
)

func (r Reason) String() string {
	switch r {
	case ReasonIncomingPayment:
		return "incomingPayment"
	case ReasonIncomingOnionMessage:
		return "incomingOnionMessage"
	case ReasonPendingSettlement:
		return "pendingSettlement"
	default:
		return "unknown"
	}
}
