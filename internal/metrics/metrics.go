// Package metrics собирает метрики Prometheus: счётчики и латентность
// HTTP-запросов плюс доменные счётчики заказов.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector регистрирует и обновляет метрики магазина.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	ordersCreated prometheus.Counter
	statusChanges *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webshop_http_requests_total",
			Help: "Количество HTTP-запросов по методу, маршруту и коду ответа",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webshop_http_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запросов",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webshop_orders_created_total",
			Help: "Количество оформленных заказов",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webshop_order_status_changes_total",
			Help: "Количество смен статуса заказа по новому статусу",
		}, []string{"new_status"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.ordersCreated,
		c.statusChanges,
	)

	return c
}

// RecordOrderCreated учитывает оформленный заказ.
func (c *Collector) RecordOrderCreated() {
	c.ordersCreated.Inc()
}

// RecordStatusChange учитывает смену статуса заказа.
func (c *Collector) RecordStatusChange(newStatus string) {
	c.statusChanges.WithLabelValues(newStatus).Inc()
}

// Middleware возвращает HTTP middleware, записывающий счётчик и латентность
// каждого запроса. Маршрут берётся из шаблона chi, а не из сырого URL,
// чтобы не раздувать кардинальность метрик.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		c.httpLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
