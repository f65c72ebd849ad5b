package content

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nsxd/internal/models"
	"nsxd/internal/prefs"
	"nsxd/internal/structures"
	"nsxd/internal/testutil"
)

type fixedRates struct {
	rate *models.ExchangeRate
}

func (f fixedRates) CurrentRate(_ string) *models.ExchangeRate {
	return f.rate
}

func newTestPrefs(t *testing.T) *prefs.Prefs {
	t.Helper()
	return prefs.NewPrefs(&structures.Config{
		Prefs: structures.PrefsConfig{Path: filepath.Join(t.TempDir(), "prefs.json")},
	}, &testutil.MockLogger{})
}

func newTestBuilder(t *testing.T, p *prefs.Prefs, rate *models.ExchangeRate) *Builder {
	t.Helper()
	return NewBuilder(p, fixedRates{rate: rate}, &testutil.MockLogger{})
}

func payment(id string, amountMsat int64, desc string) *models.ReceivedPayment {
	return &models.ReceivedPayment{Id: id, AmountMsat: amountMsat, Description: desc}
}

func TestBuilder_PaymentContent(t *testing.T) {
	p := newTestPrefs(t)
	b := newTestBuilder(t, p, &models.ExchangeRate{FiatCurrency: "USD", Price: 50000})

	c := b.PaymentContent(payment("p1", 120_000_000, "coffee"))
	assert.Equal(t, "Received payment", c.Title)
	assert.Equal(t, "120 000 sat (≈60.00 USD): coffee", c.Body)
	assert.Equal(t, 1, c.Badge)
	assert.Equal(t, "p1", c.TargetId)
}

func TestBuilder_BadgeKeepsIncrementing(t *testing.T) {
	p := newTestPrefs(t)
	b := newTestBuilder(t, p, nil)

	first := b.PaymentContent(payment("p1", 1000, ""))
	second := b.PaymentContent(payment("p2", 1000, ""))
	assert.Equal(t, 1, first.Badge)
	assert.Equal(t, 2, second.Badge)
}

func TestBuilder_DiscreetOmitsBody(t *testing.T) {
	p := newTestPrefs(t)
	p.SetDiscreetNotifications(true)
	b := newTestBuilder(t, p, &models.ExchangeRate{FiatCurrency: "USD", Price: 50000})

	c := b.PaymentContent(payment("p1", 120_000_000, "coffee"))
	assert.Equal(t, "Received payment", c.Title)
	assert.Empty(t, c.Body)
	assert.Equal(t, 1, c.Badge)
}

func TestBuilder_IncomingPaymentPrefersRecycled(t *testing.T) {
	b := newTestBuilder(t, newTestPrefs(t), nil)

	recycled := models.Content{Title: "Received payment", Body: "5 sat", TargetId: "earlier"}
	c := b.Build(models.ReasonIncomingPayment, payment("p1", 1000, ""), &models.PendingNotification{
		Identifier: "x",
		Content:    recycled,
	})
	assert.Equal(t, recycled, c)
}

func TestBuilder_IncomingPaymentWithoutAnything(t *testing.T) {
	b := newTestBuilder(t, newTestPrefs(t), nil)

	c := b.Build(models.ReasonIncomingPayment, nil, nil)
	assert.Equal(t, "Missed incoming payment", c.Title)
	assert.Empty(t, c.Body)
}

func TestBuilder_OnionMessageFallsBackToUnknown(t *testing.T) {
	b := newTestBuilder(t, newTestPrefs(t), &models.ExchangeRate{FiatCurrency: "EUR", Price: 45000})

	c := b.Build(models.ReasonIncomingOnionMessage, nil, nil)
	assert.Equal(t, "Current bitcoin price", c.Title)
	assert.Equal(t, "45000.00 EUR", c.Body)
}

func TestBuilder_OnionMessageWithPayment(t *testing.T) {
	b := newTestBuilder(t, newTestPrefs(t), nil)

	c := b.Build(models.ReasonIncomingOnionMessage, payment("p1", 2_000_000, ""), nil)
	assert.Equal(t, "Received payment", c.Title)
	assert.Equal(t, "2 000 sat", c.Body)
}

func TestBuilder_PendingSettlement(t *testing.T) {
	b := newTestBuilder(t, newTestPrefs(t), nil)

	c := b.Build(models.ReasonPendingSettlement, nil, nil)
	assert.Equal(t, "Please start the app", c.Title)
	assert.Equal(t, "An incoming settlement is pending.", c.Body)
	assert.Zero(t, c.Badge)
}

func TestBuilder_UnknownWithoutRate(t *testing.T) {
	b := newTestBuilder(t, newTestPrefs(t), nil)

	c := b.Build(models.ReasonUnknown, nil, nil)
	assert.Equal(t, "Current bitcoin price", c.Title)
	assert.Equal(t, "?", c.Body)
}

func TestBuilder_BadgePersistsAcrossReload(t *testing.T) {
	conf := &structures.Config{
		Prefs: structures.PrefsConfig{Path: filepath.Join(t.TempDir(), "prefs.json")},
	}
	logger := &testutil.MockLogger{}

	p := prefs.NewPrefs(conf, logger)
	b := newTestBuilder(t, p, nil)
	b.PaymentContent(payment("p1", 1000, ""))
	b.PaymentContent(payment("p2", 1000, ""))

	reloaded := prefs.NewPrefs(conf, logger)
	require.Equal(t, 2, reloaded.BadgeCount())

	b2 := newTestBuilder(t, reloaded, nil)
	c := b2.PaymentContent(payment("p3", 1000, ""))
	assert.Equal(t, 3, c.Badge)
}
