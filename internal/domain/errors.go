package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отсутствующего SKU-кода в позиции или резерве.
	ErrSKUCodeRequired = errors.New("sku code is required")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total does not match items sum")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStockNotCached — в кэше нет записи по SKU. Это не «ноль на складе»:
	// вызывающий обязан уйти в fallback к авторитетному хранилищу.
	ErrStockNotCached = errors.New("stock entry is not cached")
	// ErrStockEntryNotFound — авторитетное хранилище не знает такой SKU.
	ErrStockEntryNotFound = errors.New("stock entry not found in ledger")
	// ErrOutOfStock — бизнес-ошибка резервирования: стока не хватает.
	// Конкретный SKU несёт OutOfStockError.
	ErrOutOfStock = errors.New("insufficient stock")
	// ErrSKUInvalid — каталог отклонил комбинацию (product, skuId, skuCode).
	// Конкретные коды несёт InvalidSKUError.
	ErrSKUInvalid = errors.New("invalid sku")
	// ErrCacheUnavailable — инфраструктурная ошибка кэша стока; можно повторить,
	// но нельзя трактовать ни как успех, ни как отсутствие стока.
	ErrCacheUnavailable = errors.New("stock cache unavailable")
	// ErrLedgerUnavailable — инфраструктурная ошибка авторитетного хранилища.
	ErrLedgerUnavailable = errors.New("stock ledger unavailable")
	// ErrOrderPersistFailed — заказ не удалось сохранить после всех повторов.
	ErrOrderPersistFailed = errors.New("order persistence failed")
)

// OutOfStockError указывает первый SKU из батча, которому не хватило стока.
type OutOfStockError struct {
	SKUCode string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock for sku %s", e.SKUCode)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrOutOfStock).
func (e *OutOfStockError) Unwrap() error {
	return ErrOutOfStock
}

// InvalidSKUError перечисляет все SKU-коды, отклонённые каталогом.
type InvalidSKUError struct {
	SKUCodes []string
}

func (e *InvalidSKUError) Error() string {
	return fmt.Sprintf("invalid sku(s): %s", strings.Join(e.SKUCodes, ", "))
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrSKUInvalid).
func (e *InvalidSKUError) Unwrap() error {
	return ErrSKUInvalid
}

// IsOutOfStock проверяет, является ли ошибка нехваткой стока.
func IsOutOfStock(err error) bool {
	return errors.Is(err, ErrOutOfStock)
}

// IsInvalidSKU проверяет, отклонил ли каталог часть SKU.
func IsInvalidSKU(err error) bool {
	return errors.Is(err, ErrSKUInvalid)
}

// IsRetryable сообщает, имеет ли смысл повторить операцию позже.
// Валидационные ошибки и нехватка стока повтором не лечатся.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCacheUnavailable) ||
		errors.Is(err, ErrLedgerUnavailable) ||
		errors.Is(err, ErrOrderPersistFailed)
}
