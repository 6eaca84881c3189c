package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"event-calendar/core"
	"event-calendar/pkg/resources"
	"event-calendar/pkg/servers"
)

func main() {
	var err error

	name, version := "event-calendar", "1.0"

	// 1. Config (Logger base included)
	ctx := resources.Configure(context.Background(), name, version)
	settings := resources.LoadSettings()

	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 2. Telemetry (traces/metrics/logs) + zerolog -> OTel logs bridge
	if settings.OtelEnabled {
		stopFn, err := resources.Observe(ctx, name, version, settings.Env, settings.OtelEndpoint)
		if err != nil {
			shutdownLogger.Fatal().Err(err).Msg(fmt.Sprintf("unable to setup otel telemetry: %v", err))
		}
		defer stopFn(ctx, 15*time.Second)

		log.Logger = log.Logger.Hook(resources.NewOtelHook(name, version))
		ctx = log.Logger.WithContext(ctx)
	}

	// 3. Storage backend
	persistence, closables, stopFn, err := createPersistence(ctx, settings)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg(fmt.Sprintf("unable to create %s storage: %v", settings.Backend, err))
	}
	defer stopFn(ctx, 15*time.Second)

	// 4. Wiring
	store := core.NewEventStore(persistence)

	outcome, err := store.Load(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to load events")
	}
	startupLogger.Info().Str("backend", settings.Backend).Str("outcome", outcome.String()).Int("events", len(store.Events())).Msg("events loaded")

	projector := core.NewProjector(core.ParseWeekStart(settings.WeekStart))
	handlers := core.NewHandlers(store, projector, settings.UpcomingLimit)

	// 5. Daemons/servers setup

	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.New()
	restHandler.Use(gin.Recovery())
	restHandler.Use(resources.LoggerMiddleware())
	restHandler.Use(otelgin.Middleware(name))
	restHandler.Use(resources.NewHTTPMetrics(name).Middleware())

	restHandler.GET("/health", func(gctx *gin.Context) { gctx.String(http.StatusOK, "OK") })
	core.RegisterRoutes(restHandler, handlers)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 6. Daemons/servers lifecycle

	errChan := make(chan error, 16)

	stopFn, err = servers.Manage(ctx, "base-server", servers.NewBaseServer("base-server", closables...), errChan)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build base server")
	}
	defer stopFn(ctx, 15*time.Second)

	debugServer := servers.NewServer(ctx, settings.HttpHost, settings.DebugPort, debugHandler)
	stopFn, err = servers.Manage(ctx, "debug-server", servers.NewHttpServer("debug-server", debugServer), errChan)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build debug server")
	}
	defer stopFn(ctx, 15*time.Second)

	restServer := servers.NewServer(ctx, settings.HttpHost, settings.HttpPort, restHandler)
	stopFn, err = servers.Manage(ctx, "rest-server", servers.NewHttpServer("rest-server", restServer), errChan)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build rest server")
	}
	defer stopFn(ctx, 15*time.Second)

	if settings.IcsExportCron != "" {
		scheduler := cron.New()

		_, err = scheduler.AddJob(settings.IcsExportCron, core.NewICSSnapshot(store, core.NewFilePersistence(settings.IcsExportPath)))
		if err != nil {
			shutdownLogger.Fatal().Err(err).Str("schedule", settings.IcsExportCron).Msg("invalid ics export schedule")
		}

		stopFn, err = servers.Manage(ctx, "cron-server", servers.NewCronServer("cron-server", scheduler), errChan)
		if err != nil {
			shutdownLogger.Fatal().Err(err).Msg("unable to build cron server")
		}
		defer stopFn(ctx, 15*time.Second)
	}

	startupLogger.Info().Msg("application running")

	// 7. Wait for shutdown signal

	notifyCtx, cancelNotifyFn := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelNotifyFn()

	select {
	case <-notifyCtx.Done():
		startupLogger.Info().Msg("application shutdown requested")
	case runErr := <-errChan:
		shutdownLogger.Error().Err(runErr).Msg("runtime error")
	}
}

func createPersistence(ctx context.Context, settings resources.Settings) (core.Persistence, []resources.Closable, resources.StopFn, error) {
	noop := func(context.Context, time.Duration) {}

	switch settings.Backend {
	case "memory":
		return core.NewMemoryPersistence(nil), nil, noop, nil
	case "file", "":
		return core.NewFilePersistence(settings.StoragePath), nil, noop, nil
	case "sqlite":
		persistence, err := core.OpenSQLitePersistence(ctx, settings.SQLitePath, settings.StorageKey)
		if err != nil {
			return nil, nil, noop, err
		}

		return persistence, []resources.Closable{persistence}, noop, nil
	case "postgres":
		pool, stopFn, err := resources.CreateDatabaseConnectionPool(ctx)
		if err != nil {
			return nil, nil, noop, err
		}

		persistence := core.NewPostgresPersistence(pool, settings.StorageKey)

		err = persistence.EnsureSchema(ctx)
		if err != nil {
			stopFn(ctx, 15*time.Second)
			return nil, nil, noop, err
		}

		return persistence, nil, stopFn, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown storage backend %q", settings.Backend)
	}
}
