package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/freight-pricing/internal/api"
	"github.com/99minutos/freight-pricing/internal/api/handler"
	"github.com/99minutos/freight-pricing/internal/api/metrics"
	"github.com/99minutos/freight-pricing/internal/core/ports"
	"github.com/99minutos/freight-pricing/internal/core/service"
	redisdb "github.com/99minutos/freight-pricing/internal/infrastructure/db/redis"
	"github.com/99minutos/freight-pricing/internal/infrastructure/export"
	"github.com/99minutos/freight-pricing/internal/infrastructure/queue"
	"github.com/99minutos/freight-pricing/pkg/ttlcache"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; every bearer token will be rejected")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
		return err
	}
	defer func() { _ = st.close(context.Background()) }()
	log.Info().Str("driver", cfg.StoreDriver).Msg("price store connected")

	readiness := []handler.DependencyCheck{st.check}

	// --- Scope locks: Redis when reachable, otherwise process-local ---
	var locker ports.ScopeLocker = service.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, scope locks are local to this process")
		} else {
			defer rdb.Close()
			locker = redisdb.NewScopeLocker(rdb, cfg.Pricing.ScopeLockTTL)
			readiness = append(readiness, handler.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}})
		}
	}

	// --- Query cache ---
	cache := ttlcache.New[*ports.PriceQueryResult](cfg.Pricing.QueryCacheTTL)
	go cache.RunJanitor(ctx, cfg.Pricing.CacheSweepInterval, func(removed int) {
		metrics.CacheSwept(removed)
		log.Debug().Int("removed", removed).Msg("query cache swept")
	})

	// --- History ---
	history := queue.NewHistoryDispatcher(cfg.Pricing.HistoryWorkers, st.history, log)
	history.Start(ctx)
	metrics.RegisterHistoryQueue(history.Pending)

	// --- Core services ---
	recorder := metrics.Recorder{}
	queries := service.NewQueryService(st.prices, st.regions, cache, recorder, log)
	prices := service.NewPriceService(service.PriceServiceDeps{
		Repo:     st.prices,
		Resolver: service.NewConflictResolver(st.prices, st.regions),
		Locker:   locker,
		History:  history,
		Cache:    queries,
		Metrics:  recorder,
		Logger:   log,
	})

	e := api.NewRouter(api.Dependencies{
		Prices:    prices,
		Queries:   queries,
		Exporter:  export.NewXLSXExporter(queries, cfg.Pricing.ExportMaxRows),
		Readiness: readiness,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("pricing api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	history.Stop()
	log.Info().Msg("history drained")
	return nil
}
