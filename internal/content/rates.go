package content

import (
	json "github.com/goccy/go-json"
	"nsxd/internal/models"
	"nsxd/internal/providers"
	"nsxd/internal/wallet"
)

type RateProviderInterface interface {
	CurrentRate(fiatCurrency string) *models.ExchangeRate
}

// CachedRates serves exchange rates from the cache first, falling back to the
// wallet engine. The cache keeps the last known rate usable for fallback
// content even when no engine is running.
type CachedRates struct {
	cache   providers.CacheProviderInterface
	manager wallet.ManagerInterface
	logger  providers.Logger
}

func NewCachedRates(cache providers.CacheProviderInterface, manager wallet.ManagerInterface, logger providers.Logger) RateProviderInterface {
	return &CachedRates{
		cache:   cache,
		manager: manager,
		logger:  logger,
	}
}

func (cr *CachedRates) CurrentRate(fiatCurrency string) *models.ExchangeRate {
	if data, ok := cr.cache.Get("rate:" + fiatCurrency); ok {
		var rate models.ExchangeRate
		if err := json.Unmarshal(data, &rate); err == nil {
			return &rate
		}
	}

	rate := cr.manager.ExchangeRate(fiatCurrency)
	if rate == nil {
		return nil
	}

	if data, err := json.Marshal(rate); err == nil {
		cr.cache.Set("rate:"+fiatCurrency, data)
	}
	return rate
}
