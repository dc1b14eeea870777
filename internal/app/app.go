package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/config"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/inventory"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/postgres"
	redisx "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/redis"
	postgresrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/postgres"
	redisrepo "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/repository/redis"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/booking"
	"github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/service/query"
	httpgin "github.com/Nesma-Osama/Egyptian-Premier-League-Match-Reservation-System/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pubsub     *redisrepo.MatchesPubSub
	cache      *redisrepo.Cache
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewMatchesPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(
		rdb,
		"rl",
		cfg.Booking.RateLimit,
		time.Duration(cfg.Booking.RateLimitWindow)*time.Second,
	)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Initialize services
	services := service.NewServices(store, cache, pubsub, limiter, service.Config{
		Booking: booking.Config{},
		Query:   query.Config{},
		Pricing: inventory.Pricing{
			TierOneCents:  cfg.Pricing.TierOneCents,
			StandardCents: cfg.Pricing.StandardCents,
		},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		pubsub: pubsub,
		cache:  cache,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Drop locally cached match views when another instance changes a
	// match's inventory.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, matchID int64) {
			if err := a.cache.InvalidateMatch(ctx, matchID); err != nil {
				a.logger.Warn("cache invalidation failed", "match_id", matchID, "error", err)
			}
		})
		if err != nil && err != context.Canceled {
			return fmt.Errorf("pubsub subscription failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
