package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"log/slog"

	"github.com/fairway-club/round-engine/api"
	handicapservice "github.com/fairway-club/round-engine/app/modules/handicap/application"
	handicapdb "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories"
	roundservice "github.com/fairway-club/round-engine/app/modules/round/application"
	roundqueue "github.com/fairway-club/round-engine/app/modules/round/infrastructure/queue"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	statsservice "github.com/fairway-club/round-engine/app/modules/statistics/application"
	statsdb "github.com/fairway-club/round-engine/app/modules/statistics/infrastructure/repositories"
	statssubscribers "github.com/fairway-club/round-engine/app/modules/statistics/infrastructure/subscribers"
	"github.com/fairway-club/round-engine/config"
	"github.com/fairway-club/round-engine/internal/eventbus"
	"github.com/fairway-club/round-engine/internal/observability"
	"github.com/fairway-club/round-engine/pkg/jwt"
)

// App wires the engine's modules together and owns their lifecycles.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	DB       *bun.DB
	Bus      eventbus.EventBus
	Queue    *roundqueue.Service
	Rounds   roundservice.Service
	Handicap handicapservice.Service
	Stats    statsservice.Service

	httpServer *http.Server
	obs        *observability.Provider
}

// NewApp builds the full dependency graph: database, event bus, job queue,
// services, subscribers, and HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Provider) (*App, error) {
	logger := obs.Logger

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())

	var bus eventbus.EventBus
	if cfg.NATS.URL != "" {
		jsBus, err := eventbus.NewJetStreamBus(cfg.NATS.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event bus: %w", err)
		}
		bus = jsBus
	} else {
		logger.Warn("NATS URL not configured, using in-memory event bus")
		bus = eventbus.NewInMemoryBus(logger)
	}

	roundRepo := &rounddb.RoundDBImpl{DB: db}
	handicapRepo := &handicapdb.HandicapDBImpl{DB: db}
	statsCache := &statsdb.StatsCacheImpl{DB: db}

	handicapSvc := handicapservice.NewHandicapService(
		roundRepo,
		handicapRepo,
		bus,
		logger,
		observability.NewOperationMetrics(obs.Registry, "handicap"),
		obs.Tracer("handicap"),
	)

	queue, err := roundqueue.NewService(
		ctx,
		cfg.Postgres.DSN,
		cfg.Queue.MaxWorkers,
		handicapSvc,
		logger,
		observability.NewOperationMetrics(obs.Registry, "queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build job queue: %w", err)
	}

	roundSvc := roundservice.NewRoundService(
		roundRepo,
		bus,
		queue,
		logger,
		observability.NewOperationMetrics(obs.Registry, "round"),
		obs.Tracer("round"),
	)

	statsSvc := statsservice.NewStatisticsService(
		roundRepo,
		statsCache,
		logger,
		observability.NewOperationMetrics(obs.Registry, "statistics"),
		obs.Tracer("statistics"),
	)

	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL)
	router := api.NewRouter(api.RouterConfig{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	}, tokens, roundSvc, handicapSvc, statsSvc)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Bus:      bus,
		Queue:    queue,
		Rounds:   roundSvc,
		Handicap: handicapSvc,
		Stats:    statsSvc,
		obs:      obs,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	subscribers := statssubscribers.NewStatisticsSubscribers(bus, statsSvc, logger)
	if err := subscribers.Subscribe(ctx); err != nil {
		return nil, fmt.Errorf("failed to wire statistics subscribers: %w", err)
	}

	return a, nil
}

// Run starts the job queue and serves HTTP until the listener fails or Stop
// is called.
func (a *App) Run(ctx context.Context) error {
	if err := a.Queue.Start(ctx); err != nil {
		return err
	}

	a.Logger.Info("HTTP server listening", slog.String("address", a.Config.HTTP.Address))
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop shuts the app down in dependency order: stop accepting requests, drain
// the queue, close the bus and database, flush telemetry.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.Logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if err := a.Queue.Stop(ctx); err != nil {
		a.Logger.Error("Job queue shutdown failed", slog.Any("error", err))
	}
	if err := a.Bus.Close(); err != nil {
		a.Logger.Error("Event bus close failed", slog.Any("error", err))
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close failed", slog.Any("error", err))
	}
	if err := a.obs.Shutdown(ctx); err != nil {
		a.Logger.Error("Telemetry shutdown failed", slog.Any("error", err))
	}
}
