package kafka

import "time"

// Topics для Kafka
const (
	// TopicOrderCreated — анонс успешно созданного заказа.
	TopicOrderCreated = "order.created"
	// TopicSyncTrigger — запрос на синхронизацию кэша стока по списку SKU.
	TopicSyncTrigger = "inventory.sync.trigger"
	// TopicDeadLetterQueue — Dead Letter Queue для failed messages.
	TopicDeadLetterQueue = "ims.dlq"
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// Источники событий синхронизации.
const (
	SourceOrderService     = "order-service"
	SourceInventoryService = "inventory-service"
)

// SyncEvent — событие inventory.sync.trigger: запрос пересинхронизировать
// перечисленные SKU-коды из авторитетного хранилища в кэш.
type SyncEvent struct {
	Source   string   `json:"source"`
	Reason   string   `json:"reason"`
	SKUCodes []string `json:"skuCodes"`
}

// OrderCreatedEvent — событие order.created. Несёт только идентификатор
// заказа и затронутые SKU-коды; подписчики дочитывают детали сами.
type OrderCreatedEvent struct {
	OrderID   string    `json:"orderId"`
	SKUCodes  []string  `json:"skuCodes"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSyncEvent создаёт событие синхронизации стока.
func NewSyncEvent(source, reason string, skuCodes []string) *SyncEvent {
	return &SyncEvent{
		Source:   source,
		Reason:   reason,
		SKUCodes: skuCodes,
	}
}

// NewOrderCreatedEvent создаёт событие созданного заказа.
func NewOrderCreatedEvent(orderID string, skuCodes []string) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		OrderID:   orderID,
		SKUCodes:  skuCodes,
		Timestamp: time.Now().UTC(),
	}
}
