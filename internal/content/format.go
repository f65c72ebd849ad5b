package content

import (
	"fmt"
	"nsxd/internal/models"
	"strconv"
)

const msatPerBtc = 100_000_000_000

// FormatAmount renders a millisatoshi amount as a sat string, with an
// approximate fiat value appended when an exchange rate is known.
func FormatAmount(amountMsat int64, rate *models.ExchangeRate) string {
	s := groupDigits(amountMsat/1000) + " sat"
	if rate != nil && rate.Price > 0 {
		fiat := float64(amountMsat) / msatPerBtc * rate.Price
		s += fmt.Sprintf(" (≈%.2f %s)", fiat, rate.FiatCurrency)
	}
	return s
}

// FormatFiat renders a plain fiat price, used by the price-ticker fallback.
func FormatFiat(rate *models.ExchangeRate) string {
	return fmt.Sprintf("%.2f %s", rate.Price, rate.FiatCurrency)
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	return string(out)
}
