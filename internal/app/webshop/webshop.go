// Package webshop собирает приложение магазина: хранилище, кеш,
// брокер событий, сервисы и HTTP-сервер с graceful shutdown.
package webshop

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/dkovalevv/webshop/internal/cache"
	"github.com/dkovalevv/webshop/internal/config"
	"github.com/dkovalevv/webshop/internal/lib/jwt"
	"github.com/dkovalevv/webshop/internal/lib/rabbitmq"
	"github.com/dkovalevv/webshop/internal/lib/sl"
	"github.com/dkovalevv/webshop/internal/metrics"
	"github.com/dkovalevv/webshop/internal/migrations"
	"github.com/dkovalevv/webshop/internal/session"
	authservice "github.com/dkovalevv/webshop/internal/services/auth"
	cartservice "github.com/dkovalevv/webshop/internal/services/cart"
	catalogservice "github.com/dkovalevv/webshop/internal/services/catalog"
	orderservice "github.com/dkovalevv/webshop/internal/services/order"
	"github.com/dkovalevv/webshop/internal/storage/repository"
)

// App объединяет HTTP-сервер и внешние подключения магазина.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New инициализирует все подключения и собирает приложение.
// Недоступный RabbitMQ не мешает запуску: события заказов тогда
// не публикуются, об этом пишется в лог.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqp.Connection
	var publisher rabbitmq.Publisher
	amqpConn, err = rabbitmq.Connect(cfg.RabbitConnection, 3, 2*time.Second)
	if err != nil {
		logger.Warn("rabbitmq unavailable, order events disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetOrderQueues())
		if err != nil {
			return nil, err
		}
		publisher = ch
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RefreshTTL)
	sessions := session.NewStore(cacheRedis, cfg.RefreshTTL)
	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	authService := authservice.NewAuthService(db, jwtMaker, sessions)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger, cfg.PhotoDir)
	cartService := cartservice.NewCartService(db, logger).WithMetrics(collector)
	orderService := orderservice.NewOrderService(db, publisher, logger).WithMetrics(collector)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:     authService,
		Catalog:  catalogService,
		Cart:     cartService,
		Order:    orderService,
		JWT:      jwtMaker,
		Sessions: sessions,
		Metrics:  collector,
	}, cfg.PhotoDir)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		return err
	}
}
