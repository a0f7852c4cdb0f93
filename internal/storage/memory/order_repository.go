package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// OrderRepository — простая in-memory реализация domain.OrderRepository.
type OrderRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Order

	// failNext позволяет тестам эмулировать отказ хранилища на ближайших
	// failNext вызовах Create.
	failNext int
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		items: make(map[string]domain.Order),
	}
}

// FailNextCreates настраивает эмуляцию отказа на ближайших n вызовах Create.
func (r *OrderRepository) FailNextCreates(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = n
}

// Create сохраняет новый заказ вместе с позициями, если ID ещё не занят.
func (r *OrderRepository) Create(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNext > 0 {
		r.failNext--
		return fmt.Errorf("simulated storage failure: %w", domain.ErrOrderPersistFailed)
	}

	if _, exists := r.items[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	stored := order
	stored.Items = append([]domain.OrderItem(nil), order.Items...)
	r.items[order.ID] = stored
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *OrderRepository) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByUser возвращает заказы пользователя, ограничивая выборку limit (если >0).
func (r *OrderRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if order.UserID != userID {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
