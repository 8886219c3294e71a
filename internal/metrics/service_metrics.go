package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServiceMetrics содержит метрики HTTP-слоя, аутентификации и заказов.
type ServiceMetrics struct {
	// HTTP
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	// Аутентификация
	authSuccesses prometheus.Counter
	authFailures  prometheus.Counter

	// Заказы
	ordersCreated  prometheus.Counter
	ordersFailed   prometheus.Counter
	orderItemsSold prometheus.Counter
	orderRevenue   prometheus.Counter

	// Gauge активных сессий
	activeSessions prometheus.Gauge
}

// NewServiceMetrics создаёт метрики, зарегистрированные в default registry.
func NewServiceMetrics() *ServiceMetrics {
	return newServiceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newServiceMetricsWithRegisterer(registerer prometheus.Registerer) *ServiceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ServiceMetrics{
		httpRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pizzeria_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "pizzeria_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),
		authSuccesses: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_auth_success_total",
			Help: "Total number of successful authentications",
		}),
		authFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_auth_failure_total",
			Help: "Total number of failed authentications",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_orders_failed_total",
			Help: "Total number of order creation failures",
		}),
		orderItemsSold: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_order_items_sold_total",
			Help: "Total number of pizzas sold",
		}),
		orderRevenue: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pizzeria_order_revenue_total",
			Help: "Total revenue of created orders",
		}),
		activeSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "pizzeria_active_sessions",
			Help: "Number of currently open sessions",
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

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordHTTPRequest записывает завершённый HTTP-запрос.
func (m *ServiceMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthSuccess увеличивает счётчик успешных аутентификаций.
func (m *ServiceMetrics) RecordAuthSuccess() {
	m.authSuccesses.Inc()
}

// RecordAuthFailure увеличивает счётчик неудачных аутентификаций.
func (m *ServiceMetrics) RecordAuthFailure() {
	m.authFailures.Inc()
}

// RecordOrderCreated записывает успешный заказ: количество пицц и выручку.
func (m *ServiceMetrics) RecordOrderCreated(items int, total float64) {
	m.ordersCreated.Inc()
	m.orderItemsSold.Add(float64(items))
	m.orderRevenue.Add(total)
}

// RecordOrderFailed увеличивает счётчик неудачных заказов.
func (m *ServiceMetrics) RecordOrderFailed() {
	m.ordersFailed.Inc()
}

// RecordSessionOpened увеличивает количество активных сессий.
func (m *ServiceMetrics) RecordSessionOpened() {
	m.activeSessions.Inc()
}

// RecordSessionClosed уменьшает количество активных сессий.
func (m *ServiceMetrics) RecordSessionClosed() {
	m.activeSessions.Dec()
}
