package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. All methods are safe on a nil
// receiver so callers can run without instrumentation.
type Metrics struct {
	assessmentsTotal  *prometheus.CounterVec
	bandsTotal        *prometheus.CounterVec
	analyzerDuration  prometheus.Histogram
	analyzerErrors    *prometheus.CounterVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	retentionDeleted  prometheus.Counter
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		assessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrofit_assessments_total",
			Help: "Assessments produced, by source.",
		}, []string{"source"}),
		bandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrofit_assessment_bands_total",
			Help: "Assessments produced, by rating band.",
		}, []string{"band"}),
		analyzerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "retrofit_analyzer_duration_seconds",
			Help:    "Remote analyzer call latency.",
			Buckets: prometheus.DefBuckets,
		}),
		analyzerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrofit_analyzer_errors_total",
			Help: "Remote analyzer failures, by kind.",
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retrofit_cache_hits_total",
			Help: "Analyzer result cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retrofit_cache_misses_total",
			Help: "Analyzer result cache misses.",
		}),
		retentionDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retrofit_retention_deleted_total",
			Help: "Assessments removed by the retention sweep.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrofit_http_requests_total",
			Help: "HTTP requests processed, by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "retrofit_http_request_duration_seconds",
			Help:    "HTTP request durations, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.assessmentsTotal,
		m.bandsTotal,
		m.analyzerDuration,
		m.analyzerErrors,
		m.cacheHits,
		m.cacheMisses,
		m.retentionDeleted,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) AssessmentRecorded(source, band string) {
	if m == nil {
		return
	}
	m.assessmentsTotal.WithLabelValues(source).Inc()
	m.bandsTotal.WithLabelValues(band).Inc()
}

func (m *Metrics) AnalyzerRequest(d time.Duration, errKind string) {
	if m == nil {
		return
	}
	m.analyzerDuration.Observe(d.Seconds())
	if errKind != "" {
		m.analyzerErrors.WithLabelValues(errKind).Inc()
	}
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) RetentionSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.retentionDeleted.Add(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latency labelled with the chi
// route pattern, so ids in the path do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
