//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"goodsync/internal"
	"goodsync/internal/controllers"
	"goodsync/internal/enka"
	"goodsync/internal/lookup"
	"goodsync/internal/poller"
	"goodsync/internal/providers"
	"goodsync/internal/services"
	"goodsync/internal/storage"
	"goodsync/internal/storage/interfaces"
	"goodsync/internal/structures"
	"goodsync/internal/translate"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewFileManager,
		wire.Bind(new(interfaces.CollectionStoreInterface), new(*storage.FileManager)),
		lookup.NewTablesProvider,
		wire.Bind(new(translate.Tables), new(*lookup.Tables)),
		translate.NewTranslator,
		enka.NewHTTPFetcher,
		services.NewSyncService,
		poller.NewClock,
		poller.NewPoller,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
