// Package app wires configuration into a running service and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/imrishuroy/receipt-points/internal/aws"
	"github.com/imrishuroy/receipt-points/internal/cache"
	"github.com/imrishuroy/receipt-points/internal/config"
	"github.com/imrishuroy/receipt-points/internal/handlers"
	"github.com/imrishuroy/receipt-points/internal/logging"
	"github.com/imrishuroy/receipt-points/internal/metrics"
	"github.com/imrishuroy/receipt-points/internal/store"
)

// App holds the store, cache and router for one server lifetime.
type App struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Store   store.Store
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Router  *gin.Engine

	clients *aws.AWSClients
}

// Option customizes New.
type Option func(*App)

// WithAWSClients supplies AWS clients instead of loading them from the environment.
func WithAWSClients(c *aws.AWSClients) Option {
	return func(a *App) { a.clients = c }
}

// New initializes the store and cache selected by cfg and builds the API router.
func New(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, opts ...Option) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}
	for _, opt := range opts {
		opt(a)
	}

	if cfg.UsesAWS() && a.clients == nil {
		clients, err := aws.NewAWSClients(ctx)
		if err != nil {
			return nil, fmt.Errorf("init aws clients: %w", err)
		}
		a.clients = clients
	}

	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		a.Store = store.NewDynamoStore(a.clients.DynamoDB, cfg.ReceiptsTable, nil)
	default:
		a.Store = store.NewMemoryStore(nil)
	}

	switch cfg.CacheBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddress, err)
		}
		a.Cache = cache.NewRedisCache(client, cfg.PointsCacheTTL)
	default:
		a.Cache = cache.NewMemoryCache(cfg.PointsCacheTTL)
	}

	hc := handlers.HandlerConfig{
		Store:   a.Store,
		Cache:   a.Cache,
		Metrics: a.Metrics,
		Logger:  logger,
	}
	if cfg.QueueURL != "" {
		hc.Publisher = aws.NewPublisher(a.clients.SQS, cfg.QueueURL)
	}

	a.Router = handlers.SetupRouter(hc, logging.RequestLogger(logger), a.Metrics.Middleware())

	logger.Infow("app initialized",
		"store", cfg.StoreBackend,
		"cache", cfg.CacheBackend,
		"cache_ttl", cfg.PointsCacheTTL,
		"events", cfg.QueueURL != "",
	)
	return a, nil
}

// OpsHandler serves /health and /metrics, kept off the API router.
func (a *App) OpsHandler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	return r
}

// Close clears the points cache and releases the store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Cache.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear cache: %w", err))
	}
	if closer, ok := a.Cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
