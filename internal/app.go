package internal

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"goodsync/internal/controllers"
	"goodsync/internal/poller/interfaces"
	"goodsync/internal/providers"
	storageInterfaces "goodsync/internal/storage/interfaces"
	"goodsync/internal/structures"
)

type App struct {
	WebServer  *http.Server
	conf       *structures.Config
	logger     providers.Logger
	poller     interfaces.PollerInterface
	compressor storageInterfaces.CompressorInterface
}

func NewApp(apiController *controllers.ApiController, healthController *controllers.HealthController, poller interfaces.PollerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, compressor storageInterfaces.CompressorInterface) *App {
	app := &App{
		conf:       conf,
		logger:     logger,
		poller:     poller,
		compressor: compressor,
	}
	if !conf.WebServer.Enabled || conf.Once {
		return app
	}

	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, router.Endpoints(), apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	app.WebServer = &http.Server{
		Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return app
}

// Run polls until a shutdown signal arrives or a cycle fails. In once mode a
// single cycle is run.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Infof(providers.TypeApp, "Starting %s %s for account %s", a.conf.AppName, structures.AppVersion, a.conf.Account.UID)

	serverErr := make(chan error, 1)
	if a.WebServer != nil {
		go func() {
			a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
			if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErr <- err
			}
		}()
	}

	pollErr := make(chan error, 1)
	go func() {
		if a.conf.Once {
			pollErr <- a.poller.Once(ctx)
			return
		}
		pollErr <- a.poller.Run(ctx)
	}()

	var err error
	select {
	case err = <-pollErr:
	case err = <-serverErr:
		err = fmt.Errorf("server error: %w", err)
		stop()
		<-pollErr
	}
	if ctx.Err() != nil {
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	}

	if a.WebServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := a.WebServer.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}
	if err != nil {
		return err
	}

	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}

// Fatalf reports an unrecoverable error with its full context and exits.
func (a *App) Fatalf(format string, args ...interface{}) {
	a.logger.Fatalf(providers.TypeApp, format, args...)
}

// Close releases the shared zstd coders and flushes the log files.
func (a *App) Close() {
	a.compressor.Close()
	a.logger.Close()
}
