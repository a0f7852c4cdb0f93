package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
	"github.com/vladislavdragonenkov/ims/internal/service/reservation"
)

// CreateOrderItem — одна позиция запроса на создание заказа.
type CreateOrderItem struct {
	ProductID    string
	SKUID        string
	SKUCode      string
	ProductName  string
	ProductImage string
	Qty          int64
	PriceMinor   int64
}

// CreateOrderRequest — типизированный запрос на создание заказа.
// Итоговая сумма заказа всегда вычисляется сервером и от клиента не принимается.
type CreateOrderRequest struct {
	UserID           string
	Items            []CreateOrderItem
	ShippingFeeMinor int64
	DiscountMinor    int64
	PaymentMethod    string
	Note             string
	ReceiverName     string
	ReceiverPhone    string
	Address          string
	Ward             string
	District         string
	City             string
}

// Service описывает операции оркестрации заказов.
type Service interface {
	// CreateOrder проводит заказ через валидацию, резервирование и сохранение.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error)
	// GetOrder возвращает заказ по идентификатору.
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	// ListOrdersByUser возвращает заказы пользователя, свежие первыми.
	ListOrdersByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

// service выполняет шаги создания заказа строго последовательно:
// проверка входа → каталог → резерв → сохранение → анонс.
type service struct {
	orders    domain.OrderRepository
	catalog   domain.CatalogValidator
	engine    reservation.Engine
	publisher domain.EventPublisher // опциональный анонс order.created
	logger    *log.Entry
	metrics   *metrics.InventoryMetrics
}

// New создаёт рабочий экземпляр оркестратора заказов.
func New(
	orders domain.OrderRepository,
	catalog domain.CatalogValidator,
	engine reservation.Engine,
	publisher domain.EventPublisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orchestrator")
	}
	return &service{
		orders:    orders,
		catalog:   catalog,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics.NewInventoryMetrics(),
	}
}

// NewWithoutMetrics создаёт оркестратор без метрик (для тестов).
func NewWithoutMetrics(
	orders domain.OrderRepository,
	catalog domain.CatalogValidator,
	engine reservation.Engine,
	publisher domain.EventPublisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orchestrator")
	}
	return &service{
		orders:    orders,
		catalog:   catalog,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

const (
	persistMaxRetries = 3
	persistBaseDelay  = 100 * time.Millisecond
)

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordOrderInFlightStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOrderCreateDuration(time.Since(start))
			s.metrics.RecordOrderInFlightFinished()
		}
	}()

	if err := validateRequest(req); err != nil {
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, err
	}

	if err := s.validateCatalog(ctx, req); err != nil {
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, err
	}

	reserveItems := reservationItems(req)
	if err := s.engine.Reserve(ctx, reserveItems); err != nil {
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, err
	}

	order := buildOrder(req)

	if err := s.persistWithRetry(ctx, order); err != nil {
		// Резерв уже снят со стока: возвращаем его перед возвратом ошибки.
		if creditErr := s.engine.Release(ctx, reserveItems); creditErr != nil {
			s.logger.WithError(creditErr).WithField("order_id", order.ID).
				Error("failed to credit stock back after persistence failure")
		}
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, err
	}

	s.announceOrderCreated(ctx, order)

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"code":     order.Code,
		"user_id":  order.UserID,
		"items":    len(order.Items),
	}).Info("order created")

	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return s.orders.Get(ctx, id)
}

func (s *service) ListOrdersByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrUserRequired
	}
	return s.orders.ListByUser(ctx, userID, limit)
}

func (s *service) validateCatalog(ctx context.Context, req CreateOrderRequest) error {
	refs := make([]domain.SKURef, 0, len(req.Items))
	for _, item := range req.Items {
		refs = append(refs, domain.SKURef{
			ProductID: item.ProductID,
			SKUID:     item.SKUID,
			SKUCode:   item.SKUCode,
		})
	}

	result, err := s.catalog.ValidateSKUs(ctx, refs)
	if err != nil {
		return fmt.Errorf("validate skus: %w", err)
	}
	if !result.Valid {
		return &domain.InvalidSKUError{SKUCodes: result.InvalidSKUCodes}
	}
	return nil
}

func (s *service) persistWithRetry(ctx context.Context, order domain.Order) error {
	var lastErr error
	for attempt := 0; attempt < persistMaxRetries; attempt++ {
		if attempt > 0 {
			delay := persistBaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrOrderPersistFailed, ctx.Err())
			}
		}

		lastErr = s.orders.Create(ctx, order)
		if lastErr == nil {
			return nil
		}
		s.logger.WithError(lastErr).WithFields(log.Fields{
			"order_id": order.ID,
			"attempt":  attempt + 1,
		}).Warn("order persistence failed")
	}

	return fmt.Errorf("%w: %v", domain.ErrOrderPersistFailed, lastErr)
}

func (s *service) announceOrderCreated(ctx context.Context, order domain.Order) {
	if s.publisher == nil {
		return
	}

	// Анонс best-effort: сохранённый заказ из-за него не откатывается.
	if err := s.publisher.PublishOrderCreated(ctx, order.ID, order.SKUCodes()); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to announce order.created")
		if s.metrics != nil {
			s.metrics.RecordPublishFailed()
		}
	}
}

func validateRequest(req CreateOrderRequest) error {
	var errs []error

	if req.UserID == "" {
		errs = append(errs, domain.ErrUserRequired)
	}
	if len(req.Items) == 0 {
		errs = append(errs, domain.ErrItemsRequired)
	}
	for _, item := range req.Items {
		if item.SKUCode == "" {
			errs = append(errs, domain.ErrSKUCodeRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, domain.ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, domain.ErrItemPriceInvalid)
		}
	}

	return errors.Join(errs...)
}

func reservationItems(req CreateOrderRequest) []domain.ReservationItem {
	items := make([]domain.ReservationItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.ReservationItem{SKUCode: item.SKUCode, Qty: item.Qty})
	}
	return items
}

func buildOrder(req CreateOrderRequest) domain.Order {
	now := time.Now().UTC()
	orderID := uuid.NewString()

	items := make([]domain.OrderItem, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		lineTotal := item.PriceMinor * item.Qty
		total += lineTotal
		items = append(items, domain.OrderItem{
			ID:           uuid.NewString(),
			SKUID:        item.SKUID,
			SKUCode:      item.SKUCode,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Qty:          item.Qty,
			PriceMinor:   item.PriceMinor,
			TotalMinor:   lineTotal,
			CreatedAt:    now,
		})
	}

	return domain.Order{
		ID:               orderID,
		Code:             "ORD-" + orderID,
		UserID:           req.UserID,
		Status:           domain.OrderStatusPending,
		PaymentStatus:    domain.PaymentStatusUnpaid,
		TotalAmountMinor: total,
		ShippingFeeMinor: req.ShippingFeeMinor,
		DiscountMinor:    req.DiscountMinor,
		PaymentMethod:    req.PaymentMethod,
		Note:             req.Note,
		ReceiverName:     req.ReceiverName,
		ReceiverPhone:    req.ReceiverPhone,
		Address:          req.Address,
		Ward:             req.Ward,
		District:         req.District,
		City:             req.City,
		Items:            items,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

var _ Service = (*service)(nil)
