package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/service/reconciler"
)

// SyncListener переводит события Kafka в вызовы реконсайлера стока.
// Слушает inventory.sync.trigger и order.created: оба несут SKU-коды,
// которые нужно пересинхронизировать из авторитетного хранилища в кэш.
type SyncListener struct {
	reconciler reconciler.Reconciler
	logger     *log.Entry
}

// NewSyncListener создаёт обработчик событий синхронизации.
func NewSyncListener(rec reconciler.Reconciler, logger *log.Entry) *SyncListener {
	if logger == nil {
		logger = log.New().WithField("component", "sync-listener")
	}
	return &SyncListener{
		reconciler: rec,
		logger:     logger,
	}
}

// Topics возвращает список topic-ов, которые слушает обработчик.
func (l *SyncListener) Topics() []string {
	return []string{TopicSyncTrigger, TopicOrderCreated}
}

// Handle — MessageHandler для Consumer. Битые payload-ы логируются и
// пропускаются: повторная доставка их не исправит. Ошибки синхронизации
// возвращаются наружу и уходят в retry/DLQ-логику consumer-а.
func (l *SyncListener) Handle(ctx context.Context, message *sarama.ConsumerMessage) error {
	skuCodes, fields, err := l.extractSKUCodes(message)
	if err != nil {
		l.logger.WithError(err).WithField("topic", message.Topic).Warn("malformed event payload, skipping")
		return nil
	}
	if len(skuCodes) == 0 {
		l.logger.WithFields(fields).Debug("event carries no sku codes, nothing to sync")
		return nil
	}

	synced, err := l.reconciler.Sync(ctx, skuCodes)
	if err != nil {
		l.logger.WithError(err).WithFields(fields).Error("stock sync triggered by event failed")
		return fmt.Errorf("sync stock for %s: %w", message.Topic, err)
	}

	l.logger.WithFields(fields).WithField("synced", len(synced)).Info("stock sync triggered by event")
	return nil
}

func (l *SyncListener) extractSKUCodes(message *sarama.ConsumerMessage) ([]string, log.Fields, error) {
	switch message.Topic {
	case TopicOrderCreated:
		event, err := ParseOrderCreatedEvent(message)
		if err != nil {
			return nil, nil, err
		}
		return event.SKUCodes, log.Fields{
			"topic":    message.Topic,
			"order_id": event.OrderID,
		}, nil
	case TopicSyncTrigger:
		event, err := ParseSyncEvent(message)
		if err != nil {
			return nil, nil, err
		}
		return event.SKUCodes, log.Fields{
			"topic":  message.Topic,
			"source": event.Source,
			"reason": event.Reason,
		}, nil
	default:
		return nil, nil, fmt.Errorf("unexpected topic %q", message.Topic)
	}
}
