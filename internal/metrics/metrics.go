// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"inventory-billing/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics holds every collector on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	salesTotal          prometheus.Counter
	saleRejectionsTotal *prometheus.CounterVec
	salesAmountTotal    prometheus.Counter

	productStock     *prometheus.GaugeVec
	lowStockProducts prometheus.Gauge
}

// New creates the collectors, prefixing every metric name with prefix.
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		salesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_sales_total",
				Help: "Total number of completed sales",
			},
		),
		saleRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_sale_rejections_total",
				Help: "Total number of rejected sales by error kind",
			},
			[]string{"kind"},
		),
		salesAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_sales_amount_total",
				Help: "Sum of completed sale totals",
			},
		),
		productStock: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_stock",
				Help: "Current stock level per product",
			},
			[]string{"product_id", "product_name"},
		),
		lowStockProducts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_low_stock_products",
				Help: "Number of products below the low stock threshold",
			},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSale counts a committed sale and adds its total.
func (m *Metrics) RecordSale(total decimal.Decimal) {
	m.salesTotal.Inc()
	m.salesAmountTotal.Add(total.InexactFloat64())
}

// RecordSaleRejection counts a sale rejected with the given error kind.
func (m *Metrics) RecordSaleRejection(kind string) {
	m.saleRejectionsTotal.WithLabelValues(kind).Inc()
}

// SetStockLevels replaces the stock gauges with a snapshot of products.
// Deleted products disappear from the gauge on the next snapshot.
func (m *Metrics) SetStockLevels(products []model.Product) {
	m.productStock.Reset()

	low := 0
	for _, p := range products {
		m.productStock.WithLabelValues(p.ID, p.Name).Set(float64(p.Stock))
		if p.Stock < model.LowStockThreshold {
			low++
		}
	}
	m.lowStockProducts.Set(float64(low))
}
