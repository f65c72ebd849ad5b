package content

import (
	"nsxd/internal/models"
	"nsxd/internal/prefs"
	"nsxd/internal/providers"
)

// Builder maps (push reason, received payments, recycled pending item) to
// the notification fields the user sees. It consults the shared prefs for
// the discreet-notifications setting and the badge counter, and the rate
// provider for fallback/price content.
type Builder struct {
	prefs  *prefs.Prefs
	rates  RateProviderInterface
	logger providers.Logger
}

func NewBuilder(p *prefs.Prefs, rates RateProviderInterface, logger providers.Logger) *Builder {
	return &Builder{
		prefs:  p,
		rates:  rates,
		logger: logger,
	}
}

// Build produces the final content for the one OS-delivered response.
// A recycled pending item wins over everything else: that work was already
// computed by a prior invocation in this process.
func (b *Builder) Build(reason models.Reason, payment *models.ReceivedPayment, pending *models.PendingNotification) models.Content {
	switch reason {
	case models.ReasonIncomingPayment:
		if pending != nil {
			return pending.Content
		}
		if payment != nil {
			return b.PaymentContent(payment)
		}
		return models.Content{Title: "Missed incoming payment"}

	case models.ReasonIncomingOnionMessage:
		// Probably an incoming Bolt 12 payment, but it could be anything.
		if pending != nil {
			return pending.Content
		}
		if payment != nil {
			return b.PaymentContent(payment)
		}
		return b.unknownContent()

	case models.ReasonPendingSettlement:
		return models.Content{
			Title: "Please start the app",
			Body:  "An incoming settlement is pending.",
		}

	default:
		return b.unknownContent()
	}
}

// PaymentContent renders one received payment, incrementing the persisted
// badge counter. With discreet notifications enabled the body is omitted.
func (b *Builder) PaymentContent(payment *models.ReceivedPayment) models.Content {
	c := models.Content{
		Title:    "Received payment",
		TargetId: payment.Id,
	}

	if !b.prefs.DiscreetNotifications() {
		rate := b.rates.CurrentRate(b.prefs.FiatCurrency())
		amount := FormatAmount(payment.AmountMsat, rate)
		if payment.Description != "" {
			c.Body = amount + ": " + payment.Description
		} else {
			c.Body = amount
		}
	}

	c.Badge = b.prefs.IncrementBadge()
	return c
}

func (b *Builder) unknownContent() models.Content {
	c := models.Content{Title: "Current bitcoin price"}

	rate := b.rates.CurrentRate(b.prefs.FiatCurrency())
	if rate != nil {
		c.Body = FormatFiat(rate)
	} else {
		c.Body = "?"
	}
	return c
}
