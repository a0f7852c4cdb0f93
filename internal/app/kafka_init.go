package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ims/internal/service/reconciler"
)

// initKafkaProducer инициализирует Kafka producer если brokers не пустой.
// Возвращает nil, nil если brokers пустой.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// initSyncConsumer создаёт consumer событий синхронизации стока.
// Failed messages после retry уходят в DLQ через тот же producer.
func initSyncConsumer(cfg Config, rec reconciler.Reconciler, dlqProducer *kafka.Producer, logger *log.Entry) (*kafka.Consumer, error) {
	brokers := cfg.KafkaBrokerList()
	if len(brokers) == 0 {
		return nil, nil
	}

	listener := kafka.NewSyncListener(rec, logger.WithField("component", "sync-listener"))
	consumer, err := kafka.NewConsumerWithDLQ(
		brokers,
		cfg.KafkaGroupID,
		listener.Topics(),
		listener.Handle,
		dlqProducer,
		cfg.SyncMaxRetries,
	)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka consumer, continuing without sync events")
		return nil, err
	}

	logger.WithFields(log.Fields{
		"group_id": cfg.KafkaGroupID,
		"topics":   listener.Topics(),
	}).Info("kafka sync consumer initialized")
	return consumer, nil
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
