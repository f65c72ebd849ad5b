package lifecycle

import "nsxd/internal/models"

// Vendor distinguishes the two push payload shapes we receive.
type Vendor int

const (
	// VendorCloud payloads carry a string "reason" field with known literal
	// values; the wallet engine is expected to produce matching events.
	VendorCloud Vendor = iota
	// VendorBridge payloads carry a nested structured map and no reason;
	// they are informational only and processing finishes immediately.
	VendorBridge
)

type Classification struct {
	Reason models.Reason
	Vendor Vendor
}

// cloudPayloadKeys identify a cloud-messaging payload. The "reason" key is
// checked too, in case the vendor changes its envelope format.
var cloudPayloadKeys = []string{
	"gcm.message_id",
	"google.c.a.e",
	"google.c.fid",
	"google.c.sender.id",
	"reason",
}

// Classify is the single place that inspects the stringly-typed push payload.
//
// Example cloud payload:
//
//	{"reason": "IncomingPayment", "gcm.message_id": 1676919817341932, ...}
//
// Example bridge payload:
//
//	{"acinq": {"amt": 120000, "h": "d48b...", "t": "invoice", "ts": 1676920273561}}
func Classify(payload map[string]interface{}) Classification {
	if !isCloudPayload(payload) {
		return Classification{Reason: models.ReasonUnknown, Vendor: VendorBridge}
	}

	reason, _ := payload["reason"].(string)
	switch reason {
	case "IncomingPayment":
		return Classification{Reason: models.ReasonIncomingPayment, Vendor: VendorCloud}
	case "IncomingOnionMessage$":
		return Classification{Reason: models.ReasonIncomingOnionMessage, Vendor: VendorCloud}
	case "PendingSettlement":
		return Classification{Reason: models.ReasonPendingSettlement, Vendor: VendorCloud}
	default:
		return Classification{Reason: models.ReasonUnknown, Vendor: VendorCloud}
	}
}

func isCloudPayload(payload map[string]interface{}) bool {
	for _, key := range cloudPayloadKeys {
		if _, ok := payload[key]; ok {
			return true
		}
	}
	return false
}
