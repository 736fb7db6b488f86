package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpDuration   *prometheus.HistogramVec
	segmentsTotal  prometheus.Counter
	segmentsFailed prometheus.Counter
	chunksProduced prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "traceroad",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
		segmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traceroad",
			Name:      "segments_total",
			Help:      "Total trace segments submitted for cleaning.",
		}),
		segmentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traceroad",
			Name:      "segments_failed_total",
			Help:      "Segments that could not be matched to the road graph.",
		}),
		chunksProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "traceroad",
			Name:      "chunks_produced_total",
			Help:      "Continuous stitched chunks produced.",
		}),
	}
	reg.MustRegister(m.httpDuration, m.segmentsTotal, m.segmentsFailed, m.chunksProduced)
	return m
}

func (m *Metrics) ObserveRun(segments, failed, chunks int) {
	m.segmentsTotal.Add(float64(segments))
	m.segmentsFailed.Add(float64(failed))
	m.chunksProduced.Add(float64(chunks))
}

// PromeHttpMiddleware records request duration per path/method/status.
func PromeHttpMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			m.httpDuration.WithLabelValues(
				r.URL.Path, r.Method, strconv.Itoa(ww.Status()),
			).Observe(time.Since(start).Seconds())
		})
	}
}
