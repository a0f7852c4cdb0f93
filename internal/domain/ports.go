package domain

import "context"

// StockCache описывает низколатентный кэш стока — единственный разделяемый
// мутабельный ресурс ядра. Reserve и Credit — единственные пути записи,
// уменьшающие/возвращающие сток; читать-потом-писать в обход них нельзя.
type StockCache interface {
	// GetStock возвращает закэшированное количество или ErrStockNotCached,
	// если записи нет. Отсутствие записи не означает нулевой сток.
	GetStock(ctx context.Context, skuCode string) (int64, error)
	// MGetStock выполняет единый multi-get; коды без записи в кэше
	// отсутствуют в результате.
	MGetStock(ctx context.Context, skuCodes []string) (map[string]int64, error)
	// SetStock идемпотентно перезаписывает запись SKU; используется реконсайлером.
	SetStock(ctx context.Context, skuCode, skuID string, stock int64) error
	// Reserve атомарно уменьшает сток по всему батчу либо не делает ничего.
	// При нехватке возвращает OutOfStockError с первым отказавшим SKU-кодом.
	Reserve(ctx context.Context, items []ReservationItem) error
	// Credit возвращает зарезервированные количества обратно (компенсация).
	// Коды, исчезнувшие из кэша, пропускаются.
	Credit(ctx context.Context, items []ReservationItem) error
}

// StockLedger — авторитетное транзакционное хранилище стока.
// Из этого ядра оно только читается: записи порождаются внешними сервисами.
type StockLedger interface {
	// GetStock возвращает авторитетную запись или ErrStockEntryNotFound.
	GetStock(ctx context.Context, skuCode string) (StockEntry, error)
	// BatchGetStock возвращает записи по известным кодам; неизвестные коды
	// просто отсутствуют в результате.
	BatchGetStock(ctx context.Context, skuCodes []string) ([]StockEntry, error)
}

// OrderRepository описывает требования к долговечному хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями одной транзакцией.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// ListByUser возвращает заказы пользователя, свежие первыми,
	// с опциональным ограничением на количество.
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
}

// SKURef — тройка, которую каталог проверяет на валидность.
type SKURef struct {
	ProductID string
	SKUID     string
	SKUCode   string
}

// SKUValidation — результат проверки каталогом.
type SKUValidation struct {
	Valid           bool
	InvalidSKUCodes []string
}

// CatalogValidator описывает взаимодействие с внешним сервисом каталога.
type CatalogValidator interface {
	// ValidateSKUs проверяет весь набор троек; частичного принятия нет.
	ValidateSKUs(ctx context.Context, refs []SKURef) (SKUValidation, error)
}

// EventPublisher анонсирует событие создания заказа.
// Публикация best-effort: её отказ не откатывает уже сохранённый заказ.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, orderID string, skuCodes []string) error
}
