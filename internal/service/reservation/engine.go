package reservation

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
)

// Engine описывает интерфейс атомарного резервирования стока.
type Engine interface {
	// Reserve атомарно резервирует весь батч либо не трогает сток вообще.
	Reserve(ctx context.Context, items []domain.ReservationItem) error
	// Release возвращает ранее зарезервированные количества (компенсация).
	Release(ctx context.Context, items []domain.ReservationItem) error
}

// engine проверяет запрос, схлопывает дубли SKU и делегирует кэшу стока.
type engine struct {
	cache   domain.StockCache
	logger  *log.Entry
	metrics *metrics.InventoryMetrics
}

// NewEngine создаёт рабочий экземпляр движка резервирования.
func NewEngine(cache domain.StockCache, logger *log.Entry) Engine {
	if logger == nil {
		logger = log.New().WithField("component", "reservation")
	}
	return &engine{
		cache:   cache,
		logger:  logger,
		metrics: metrics.NewInventoryMetrics(),
	}
}

// NewEngineWithoutMetrics создаёт движок без метрик (для тестов).
func NewEngineWithoutMetrics(cache domain.StockCache, logger *log.Entry) Engine {
	if logger == nil {
		logger = log.New().WithField("component", "reservation")
	}
	return &engine{
		cache:  cache,
		logger: logger,
	}
}

func (e *engine) Reserve(ctx context.Context, items []domain.ReservationItem) error {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordReserveDuration(time.Since(start))
		}
	}()

	if err := validateItems(items); err != nil {
		if e.metrics != nil {
			e.metrics.RecordReservation(metrics.ReserveResultInvalid)
		}
		return err
	}

	normalized := domain.NormalizeReservation(items)

	if err := e.cache.Reserve(ctx, normalized); err != nil {
		if domain.IsOutOfStock(err) {
			e.logger.WithError(err).Debug("reservation rejected: insufficient stock")
			if e.metrics != nil {
				e.metrics.RecordReservation(metrics.ReserveResultOutOfStock)
			}
			return err
		}
		e.logger.WithError(err).WithField("items", len(normalized)).Warn("reservation failed")
		if e.metrics != nil {
			e.metrics.RecordReservation(metrics.ReserveResultError)
		}
		return err
	}

	if e.metrics != nil {
		e.metrics.RecordReservation(metrics.ReserveResultOK)
	}
	return nil
}

func (e *engine) Release(ctx context.Context, items []domain.ReservationItem) error {
	if err := validateItems(items); err != nil {
		return err
	}

	normalized := domain.NormalizeReservation(items)

	if err := e.cache.Credit(ctx, normalized); err != nil {
		e.logger.WithError(err).WithField("items", len(normalized)).Error("stock credit failed")
		return err
	}

	if e.metrics != nil {
		e.metrics.RecordCredit()
	}
	return nil
}

func validateItems(items []domain.ReservationItem) error {
	if len(items) == 0 {
		return domain.ErrItemsRequired
	}

	var errs []error
	for _, item := range items {
		errs = append(errs, item.Validate()...)
	}
	return errors.Join(errs...)
}

var _ Engine = (*engine)(nil)
