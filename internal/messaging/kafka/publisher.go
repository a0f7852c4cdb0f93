package kafka

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// EventPublisher публикует доменные события в Kafka.
// Реализует domain.EventPublisher поверх синхронного продюсера.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher создаёт Kafka-паблишер доменных событий.
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated анонсирует созданный заказ в topic order.created.
// Ключом служит идентификатор заказа: события одного заказа попадают
// в одну партицию и сохраняют порядок.
func (p *EventPublisher) PublishOrderCreated(_ context.Context, orderID string, skuCodes []string) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka event publisher is not initialized")
	}
	return p.producer.PublishEvent(TopicOrderCreated, orderID, NewOrderCreatedEvent(orderID, skuCodes))
}

// PublishSyncTrigger запрашивает пересинхронизацию стока по SKU-кодам.
func (p *EventPublisher) PublishSyncTrigger(_ context.Context, source, reason string, skuCodes []string) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka event publisher is not initialized")
	}

	key := source
	if key == "" {
		key = SourceInventoryService
	}
	return p.producer.PublishEvent(TopicSyncTrigger, key, NewSyncEvent(source, reason, skuCodes))
}

var _ domain.EventPublisher = (*EventPublisher)(nil)
