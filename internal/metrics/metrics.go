package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	VisitorsCreated prometheus.Counter
	VisitorsUpdated prometheus.Counter
	VisitorsDeleted prometheus.Counter
	PhotosUploaded  prometheus.Counter
	Logins          *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a registry with the Go and process collectors and registers
// all application metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		VisitorsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitorlog_visitors_created_total",
			Help: "Total number of visitor records created",
		}),
		VisitorsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitorlog_visitors_updated_total",
			Help: "Total number of visitor records updated",
		}),
		VisitorsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitorlog_visitors_deleted_total",
			Help: "Total number of visitor records deleted",
		}),
		PhotosUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "visitorlog_visitor_photos_uploaded_total",
			Help: "Total number of visitor photos stored",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "visitorlog_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visitorlog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// IncrementVisitorsCreated records a successful visitor creation.
func (m *Metrics) IncrementVisitorsCreated() {
	m.VisitorsCreated.Inc()
}

// IncrementVisitorsUpdated records a successful visitor update.
func (m *Metrics) IncrementVisitorsUpdated() {
	m.VisitorsUpdated.Inc()
}

// IncrementVisitorsDeleted records a successful visitor deletion.
func (m *Metrics) IncrementVisitorsDeleted() {
	m.VisitorsDeleted.Inc()
}

// IncrementPhotosUploaded records a stored visitor photo.
func (m *Metrics) IncrementPhotosUploaded() {
	m.PhotosUploaded.Inc()
}

// ObserveLogin records a login attempt; result is "success" or "failure".
func (m *Metrics) ObserveLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.Logins.WithLabelValues(result).Inc()
}

// Middleware records request durations labelled by the matched chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
