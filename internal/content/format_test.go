package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"nsxd/internal/models"
)

func TestFormatAmount_NoRate(t *testing.T) {
	assert.Equal(t, "0 sat", FormatAmount(0, nil))
	assert.Equal(t, "1 sat", FormatAmount(1999, nil))
	assert.Equal(t, "12 345 sat", FormatAmount(12_345_000, nil))
	assert.Equal(t, "1 234 567 sat", FormatAmount(1_234_567_000, nil))
}

func TestFormatAmount_WithRate(t *testing.T) {
	rate := &models.ExchangeRate{FiatCurrency: "USD", Price: 25000}
	assert.Equal(t, "1 000 000 sat (≈250.00 USD)", FormatAmount(1_000_000_000, rate))
}

func TestFormatAmount_ZeroPriceIgnored(t *testing.T) {
	rate := &models.ExchangeRate{FiatCurrency: "USD", Price: 0}
	assert.Equal(t, "100 sat", FormatAmount(100_000, rate))
}

func TestFormatFiat(t *testing.T) {
	rate := &models.ExchangeRate{FiatCurrency: "CHF", Price: 43210.5}
	assert.Equal(t, "43210.50 CHF", FormatFiat(rate))
}
