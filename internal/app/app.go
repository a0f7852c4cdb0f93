package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/ims/internal/health"
	"github.com/vladislavdragonenkov/ims/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ims/internal/version"
)

// Run собирает зависимости и держит сервис до отмены контекста:
// HTTP-сервер с /metrics и health-пробами плюс Kafka consumer
// событий синхронизации стока.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Kafka опционален: без брокеров сервис работает, но не анонсирует
	// заказы и не принимает sync-триггеры.
	var publisher domain.EventPublisher
	kafkaProducer, err := initKafkaProducer(cfg.KafkaBrokerList(), logger)
	if err == nil && kafkaProducer != nil {
		publisher = kafka.NewEventPublisher(kafkaProducer)
	}

	deps, err := NewDependencies(ctx, cfg, logger, publisher)
	if err != nil {
		closeKafka(kafkaProducer, logger)
		return err
	}
	defer deps.Close()
	defer closeKafka(kafkaProducer, logger)

	syncConsumer, err := initSyncConsumer(cfg, deps.Reconciler, kafkaProducer, logger)
	if err == nil && syncConsumer != nil {
		if err := syncConsumer.Start(ctx); err != nil {
			logger.WithError(err).Warn("failed to start sync consumer")
		} else {
			defer func() {
				if err := syncConsumer.Stop(); err != nil {
					logger.WithError(err).Warn("failed to stop sync consumer")
				}
			}()
		}
	}

	healthHandler := healthcheck.NewHandler(version.String())
	for name, checkFn := range deps.HealthCheckers(ctx) {
		healthHandler.RegisterChecker(name, healthcheck.NewSimpleChecker(name, checkFn))
	}

	srv := startMetricsServer(cfg.MetricsAddr, logger, healthHandler)

	logger.WithField("metrics_addr", cfg.MetricsAddr).Info("сервис инвентаря запущен")

	<-ctx.Done()
	logger.Info("получен сигнал остановки, останавливаем сервис")
	shutdownHTTP(srv, logger)

	return ctx.Err()
}

// startMetricsServer запускает HTTP-обработчик /metrics и health-пробы.
func startMetricsServer(addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
