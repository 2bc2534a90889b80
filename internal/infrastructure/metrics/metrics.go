package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	invoicesClosed     *prometheus.CounterVec
	revenue            prometheus.Counter
	stockConfirmations *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		invoicesClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_invoices_closed_total",
				Help: "Invoices leaving the open state, by outcome",
			},
			[]string{"status"},
		),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_revenue_total",
			Help: "Sum of grand totals of paid invoices",
		}),
		stockConfirmations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_stock_confirmations_total",
				Help: "Confirmed stock documents, by kind",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.invoicesClosed,
		m.revenue,
		m.stockConfirmations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest is called by the HTTP middleware once per request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if path == "" {
		path = "undefined"
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

func (m *Metrics) InvoicePaid(grandTotal int64) {
	if m == nil {
		return
	}
	m.invoicesClosed.WithLabelValues("paid").Inc()
	m.revenue.Add(float64(grandTotal))
}

func (m *Metrics) InvoiceCancelled() {
	if m == nil {
		return
	}
	m.invoicesClosed.WithLabelValues("cancelled").Inc()
}

// StockConfirmed counts a confirmed stock document; kind is "stock_in" or "stock_out".
func (m *Metrics) StockConfirmed(kind string) {
	if m == nil {
		return
	}
	m.stockConfirmations.WithLabelValues(kind).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
