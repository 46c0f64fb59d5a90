// Package metrics exposes Prometheus counters for the authorization and
// throttling decisions. Labels stay low-cardinality: decision reasons
// and scope names only, never identities or paths.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg     *prometheus.Registry
	handler http.Handler

	reqTotal *prometheus.CounterVec
	reqDur   *prometheus.HistogramVec

	authzDeniedTotal     *prometheus.CounterVec
	ratelimitDeniedTotal *prometheus.CounterVec
	guardFailOpenTotal   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		reg: reg,
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		authzDeniedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Authorization rejections by kind",
		}, []string{"kind"}),
		ratelimitDeniedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_denied_total",
			Help: "Requests rejected by the rate guard, by scope",
		}, []string{"scope"}),
		guardFailOpenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ratelimit_fail_open_total",
			Help: "Rate guard checks allowed because the counter store failed",
		}),
	}

	reg.MustRegister(m.reqTotal, m.reqDur, m.authzDeniedTotal, m.ratelimitDeniedTotal, m.guardFailOpenTotal)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler { return m.handler }

func (m *Metrics) ObserveAuthzDenied(kind string) {
	m.authzDeniedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRateLimited(scope string) {
	m.ratelimitDeniedTotal.WithLabelValues(scope).Inc()
}

func (m *Metrics) ObserveGuardFailOpen() {
	m.guardFailOpenTotal.Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

// Middleware records request totals and latency. The route label is the
// registered pattern, not the raw URL, to keep cardinality bounded.
func (m *Metrics) Middleware(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		m.reqTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.reqDur.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}
