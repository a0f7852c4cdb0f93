package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/service/catalog"
	"github.com/vladislavdragonenkov/ims/internal/service/orchestrator"
	"github.com/vladislavdragonenkov/ims/internal/service/reconciler"
	"github.com/vladislavdragonenkov/ims/internal/service/reservation"
	"github.com/vladislavdragonenkov/ims/internal/storage/memory"
	"github.com/vladislavdragonenkov/ims/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/ims/internal/storage/redis"
)

// Dependencies содержит собранный граф зависимостей приложения.
type Dependencies struct {
	Cache  domain.StockCache
	Ledger domain.StockLedger
	Orders domain.OrderRepository

	Engine       reservation.Engine
	Reconciler   reconciler.Reconciler
	Orchestrator orchestrator.Service

	Logger *log.Entry

	store       *postgres.Store
	redisClient *goredis.Client
}

// NewDependencies создаёт зависимости по конфигурации: память для локального
// запуска, Redis/PostgreSQL для production-развёртывания.
// NOTE: каталог пока заглушка; в production его заменяет клиент product-сервиса.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry, publisher domain.EventPublisher) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	switch cfg.CacheDriver {
	case CacheDriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		deps.redisClient = client
		deps.Cache = redisstore.NewStockCache(client)
		logger.WithField("addr", cfg.RedisAddr).Info("redis stock cache initialized")
	default:
		deps.Cache = memory.NewStockCache()
		logger.Info("in-memory stock cache initialized")
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			deps.closePartial()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		deps.store = store
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				deps.closePartial()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		deps.Ledger = postgres.NewStockLedger(store)
		deps.Orders = postgres.NewOrderRepository(store)
		logger.Info("postgres storage initialized")
	default:
		deps.Ledger = memory.NewStockLedger()
		deps.Orders = memory.NewOrderRepository()
		logger.Info("in-memory storage initialized")
	}

	deps.Engine = reservation.NewEngine(deps.Cache, logger.WithField("component", "reservation"))
	deps.Reconciler = reconciler.New(deps.Cache, deps.Ledger, logger.WithField("component", "reconciler"))
	deps.Orchestrator = orchestrator.New(
		deps.Orders,
		catalog.NewMockValidator(),
		deps.Engine,
		publisher,
		logger.WithField("component", "orchestrator"),
	)

	return deps, nil
}

// Close освобождает внешние подключения.
func (d *Dependencies) Close() {
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close redis client")
		}
	}
}

func (d *Dependencies) closePartial() {
	if d.redisClient != nil {
		_ = d.redisClient.Close()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
}

// HealthCheckers возвращает проверки для внешних подключений.
func (d *Dependencies) HealthCheckers(ctx context.Context) map[string]func() error {
	checkers := make(map[string]func() error)
	if d.store != nil {
		checkers["postgres"] = func() error { return d.store.Ping(ctx) }
	}
	if d.redisClient != nil {
		checkers["redis"] = func() error { return d.redisClient.Ping(ctx).Err() }
	}
	return checkers
}
