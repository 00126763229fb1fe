package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_emails_sent_total",
			Help: "Outgoing emails by outcome",
		},
		[]string{"status"},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"result"},
	)

	proposalsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_proposals_sent_total",
			Help: "Proposals sent by channel",
		},
		[]string{"via"},
	)
)

// Metrics records request counts and latency. The path label is the chi
// route pattern so IDs do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordEmail(status string) {
	emailsSent.WithLabelValues(status).Inc()
}

func RecordLogin(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	logins.WithLabelValues(result).Inc()
}

func RecordProposal(via string) {
	proposalsSent.WithLabelValues(via).Inc()
}
