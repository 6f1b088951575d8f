// Package metrics exposes Prometheus instrumentation for the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clipshare_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clipshare_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	uploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clipshare_video_uploads_total",
		Help: "Total number of accepted video uploads",
	})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, uploadsTotal)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// UploadAccepted increments the upload counter.
func UploadAccepted() {
	uploadsTotal.Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latencies. The raw URL path is used
// as the label; the route surface here is small and fixed enough that
// cardinality stays manageable.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   routeLabel(r.URL.Path),
			"status": strconv.Itoa(sw.status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}

// routeLabel collapses parameterized paths so each route yields one label value.
func routeLabel(path string) string {
	switch {
	case len(path) >= 7 && path[:7] == "/video/":
		return "/video/{id}"
	case len(path) >= 9 && path[:9] == "/profile/":
		return "/profile/{username}"
	case len(path) >= 7 && path[:7] == "/media/":
		return "/media/"
	}
	return path
}
