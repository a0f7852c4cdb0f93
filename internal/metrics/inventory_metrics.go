package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты резервирования для метки result.
const (
	ReserveResultOK         = "ok"
	ReserveResultOutOfStock = "out_of_stock"
	ReserveResultInvalid    = "invalid"
	ReserveResultError      = "error"
)

// InventoryMetrics содержит метрики резервирования стока и создания заказов.
type InventoryMetrics struct {
	// Счётчики операций
	reservations   *prometheus.CounterVec
	credits        prometheus.Counter
	syncedEntries  prometheus.Counter
	syncSkipped    prometheus.Counter
	checkFallbacks prometheus.Counter
	ordersCreated  prometheus.Counter
	ordersFailed   prometheus.Counter
	publishFailed  prometheus.Counter

	// Гистограммы времени выполнения
	reserveDuration     prometheus.Histogram
	orderCreateDuration prometheus.Histogram

	// Gauge для заказов в процессе создания
	inFlightOrders prometheus.Gauge
}

// NewInventoryMetrics создаёт новый экземпляр метрик инвентаря.
func NewInventoryMetrics() *InventoryMetrics {
	return newInventoryMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newInventoryMetricsWithRegisterer(registerer prometheus.Registerer) *InventoryMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &InventoryMetrics{
		reservations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ims_reservations_total",
			Help: "Total number of stock reservation attempts by result",
		}, []string{"result"}),
		credits: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_credits_total",
			Help: "Total number of compensating stock credits",
		}),
		syncedEntries: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_stock_synced_entries_total",
			Help: "Total number of stock entries written to the cache by sync",
		}),
		syncSkipped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_stock_sync_skipped_total",
			Help: "Total number of SKU codes skipped during sync because the ledger has no entry",
		}),
		checkFallbacks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_check_stock_fallbacks_total",
			Help: "Total number of checkStock cache misses served from the ledger",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_orders_created_total",
			Help: "Total number of orders created successfully",
		}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_orders_failed_total",
			Help: "Total number of order creation attempts that failed",
		}),
		publishFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_order_publish_failed_total",
			Help: "Total number of order.created announcements that failed",
		}),
		reserveDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "ims_reserve_duration_seconds",
			Help:    "Duration of atomic reservation attempts in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		orderCreateDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "ims_order_create_duration_seconds",
			Help:    "Duration of the full order creation flow in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		inFlightOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "ims_in_flight_order_creations",
			Help: "Number of order creation flows currently in progress",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordReservation увеличивает счётчик попыток резервирования с данным результатом.
func (m *InventoryMetrics) RecordReservation(result string) {
	m.reservations.WithLabelValues(result).Inc()
}

// RecordCredit увеличивает счётчик компенсирующих возвратов стока.
func (m *InventoryMetrics) RecordCredit() {
	m.credits.Inc()
}

// RecordSyncedEntries увеличивает счётчик записей, синхронизированных в кэш.
func (m *InventoryMetrics) RecordSyncedEntries(n int) {
	m.syncedEntries.Add(float64(n))
}

// RecordSyncSkipped увеличивает счётчик кодов, пропущенных при синхронизации.
func (m *InventoryMetrics) RecordSyncSkipped(n int) {
	m.syncSkipped.Add(float64(n))
}

// RecordCheckStockFallback увеличивает счётчик чтений стока из ledger при промахе кэша.
func (m *InventoryMetrics) RecordCheckStockFallback() {
	m.checkFallbacks.Inc()
}

// RecordOrderCreated увеличивает счётчик успешно созданных заказов.
func (m *InventoryMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderFailed увеличивает счётчик неудачных попыток создания заказа.
func (m *InventoryMetrics) RecordOrderFailed() {
	m.ordersFailed.Inc()
}

// RecordPublishFailed увеличивает счётчик неудачных публикаций order.created.
func (m *InventoryMetrics) RecordPublishFailed() {
	m.publishFailed.Inc()
}

// RecordReserveDuration записывает время попытки резервирования.
func (m *InventoryMetrics) RecordReserveDuration(duration time.Duration) {
	m.reserveDuration.Observe(duration.Seconds())
}

// RecordOrderCreateDuration записывает время полного цикла создания заказа.
func (m *InventoryMetrics) RecordOrderCreateDuration(duration time.Duration) {
	m.orderCreateDuration.Observe(duration.Seconds())
}

// RecordOrderInFlightStarted увеличивает количество создаваемых заказов.
func (m *InventoryMetrics) RecordOrderInFlightStarted() {
	m.inFlightOrders.Inc()
}

// RecordOrderInFlightFinished уменьшает количество создаваемых заказов.
func (m *InventoryMetrics) RecordOrderInFlightFinished() {
	m.inFlightOrders.Dec()
}
