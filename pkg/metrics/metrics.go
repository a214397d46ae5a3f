package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены в конфиге,
// в компоненты передается nil и вызовы становятся no-op
type Metrics struct {
	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// База данных
	dbQueryDuration   *prometheus.HistogramVec
	dbQueryErrors     *prometheus.CounterVec
	dbOpenConnections *prometheus.GaugeVec
	dbInUse           *prometheus.GaugeVec
	dbIdle            *prometheus.GaugeVec
	dbWaitCount       *prometheus.GaugeVec

	// Жизненный цикл бронирований
	transitions     *prometheus.CounterVec
	conflicts       *prometheus.CounterVec
	alreadyResolved *prometheus.CounterVec
	txRetries       *prometheus.CounterVec
	sweepAffected   *prometheus.CounterVec
	notifyFailures  *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
// Используется в тестах, чтобы не конфликтовать с глобальным реестром
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		dbInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		dbIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking lifecycle events by kind",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Date range acquisitions rejected because of an overlapping booking",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		alreadyResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_decisions_already_resolved_total",
			Help:        "Decisions that arrived after the booking left the decidable state",
			ConstLabels: constLabels,
		}, []string{"decision"}),
		txRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_tx_retries_total",
			Help:        "Transaction retries by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		sweepAffected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweeper_affected_total",
			Help:        "Bookings affected by sweeper runs",
			ConstLabels: constLabels,
		}, []string{"sweep"}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notify_failures_total",
			Help:        "Notifications that could not be handed off",
			ConstLabels: constLabels,
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConnections,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitCount,
		m.transitions,
		m.conflicts,
		m.alreadyResolved,
		m.txRetries,
		m.sweepAffected,
		m.notifyFailures,
	)

	return m
}

// ObserveHTTPRequest записывает результат HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.WithLabelValues().Set(float64(open))
	m.dbInUse.WithLabelValues().Set(float64(inUse))
	m.dbIdle.WithLabelValues().Set(float64(idle))
	m.dbWaitCount.WithLabelValues().Set(float64(waitCount))
}

// IncTransition увеличивает счетчик событий жизненного цикла
func (m *Metrics) IncTransition(kind string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind).Inc()
}

// IncConflict увеличивает счетчик конфликтов дат
func (m *Metrics) IncConflict(operation string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(operation).Inc()
}

// IncAlreadyResolved увеличивает счетчик запоздавших решений
func (m *Metrics) IncAlreadyResolved(decision string) {
	if m == nil {
		return
	}
	m.alreadyResolved.WithLabelValues(decision).Inc()
}

// IncTxRetry увеличивает счетчик повторов транзакций
func (m *Metrics) IncTxRetry(reason string) {
	if m == nil {
		return
	}
	m.txRetries.WithLabelValues(reason).Inc()
}

// AddSweepAffected добавляет количество обработанных свипером записей
func (m *Metrics) AddSweepAffected(sweep string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sweepAffected.WithLabelValues(sweep).Add(float64(n))
}

// IncNotifyFailure увеличивает счетчик неотправленных уведомлений
func (m *Metrics) IncNotifyFailure(kind string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(kind).Inc()
}
