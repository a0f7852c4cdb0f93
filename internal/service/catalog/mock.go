package catalog

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// MockValidator — конфигурируемая заглушка CatalogValidator.
// Используется в тестах и в локальном запуске вместо внешнего
// сервиса каталога. Пустой набор known-троек означает «валидно всё».
type MockValidator struct {
	mu sync.Mutex

	// ValidateErr возвращается вместо результата, если задана.
	ValidateErr error
	// known хранит допустимые тройки; ключ — SKU-код.
	known map[string]domain.SKURef

	ValidateCalls int
	LastRefs      []domain.SKURef
}

// NewMockValidator возвращает mock, принимающий любые тройки.
func NewMockValidator() *MockValidator {
	return &MockValidator{}
}

// Allow регистрирует допустимую тройку; после первого вызова
// все незарегистрированные SKU-коды считаются невалидными.
func (m *MockValidator) Allow(ref domain.SKURef) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.known == nil {
		m.known = make(map[string]domain.SKURef)
	}
	m.known[ref.SKUCode] = ref
}

// ValidateSKUs проверяет весь набор троек и перечисляет все отклонённые коды.
func (m *MockValidator) ValidateSKUs(_ context.Context, refs []domain.SKURef) (domain.SKUValidation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ValidateCalls++
	m.LastRefs = append([]domain.SKURef(nil), refs...)

	if m.ValidateErr != nil {
		return domain.SKUValidation{}, m.ValidateErr
	}
	if m.known == nil {
		return domain.SKUValidation{Valid: true}, nil
	}

	var invalid []string
	for _, ref := range refs {
		want, ok := m.known[ref.SKUCode]
		if !ok || want.SKUID != ref.SKUID || want.ProductID != ref.ProductID {
			invalid = append(invalid, ref.SKUCode)
		}
	}
	if len(invalid) > 0 {
		return domain.SKUValidation{Valid: false, InvalidSKUCodes: invalid}, nil
	}

	return domain.SKUValidation{Valid: true}, nil
}

var _ domain.CatalogValidator = (*MockValidator)(nil)
