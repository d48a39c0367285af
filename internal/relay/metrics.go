package relay

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yadom_relay_requests_total",
			Help: "Relayed requests by relay, method and status code.",
		},
		[]string{"relay", "method", "code"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yadom_relay_request_duration_seconds",
			Help:    "Time spent relaying a request, including the upstream call.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"relay"},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RequestDuration)
}

func instrument(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestCounter.WithLabelValues(name, r.Method, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	})
}
