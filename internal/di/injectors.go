//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"nsxd/internal"
	"nsxd/internal/content"
	"nsxd/internal/controllers"
	"nsxd/internal/housekeeping"
	"nsxd/internal/lifecycle"
	"nsxd/internal/prefs"
	"nsxd/internal/presence"
	"nsxd/internal/providers"
	"nsxd/internal/services"
	"nsxd/internal/store"
	"nsxd/internal/structures"
	"nsxd/internal/wallet"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewZstdCompressor,
		store.NewBlobCodec,
		store.NewPaymentStore,

		presence.NewChannelID,
		presence.NewNatsChannel,
		presence.NewCoordinator,

		wallet.NewManager,
		prefs.NewPrefs,
		content.NewCachedRates,
		content.NewPendingQueue,
		content.NewBuilder,

		lifecycle.NewClock,
		lifecycle.NewSharedContext,

		services.NewNotificationService,
		housekeeping.NewScheduler,
		controllers.NewPushController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
