package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	CollaboratorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaborator_requests_total",
			Help: "Total number of collaborator requests by service and outcome",
		},
		[]string{"service", "operation", "outcome"},
	)
	CollaboratorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collaborator_request_duration_seconds",
			Help:    "Collaborator request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service", "operation"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total number of candidate analyses by outcome",
		},
		[]string{"outcome"},
	)

	// Analysis outcome distributions
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_overall_score",
			Help:    "Distribution of overall candidate scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	SkillMatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_skill_match_score",
			Help:    "Distribution of skill match scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	SkillsExtractedHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_skills_extracted",
			Help:    "Distribution of skill counts extracted per analysis",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(CollaboratorRequestsTotal)
	prometheus.MustRegister(CollaboratorRequestDuration)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(OverallScoreHistogram)
	prometheus.MustRegister(SkillMatchScoreHistogram)
	prometheus.MustRegister(SkillsExtractedHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			// fallback when route pattern is unavailable
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveCollaborator records one collaborator call.
func ObserveCollaborator(service, operation, outcome string, dur time.Duration) {
	CollaboratorRequestsTotal.WithLabelValues(service, operation, outcome).Inc()
	CollaboratorRequestDuration.WithLabelValues(service, operation).Observe(dur.Seconds())
}

// ObserveAnalysis records the scores of one completed analysis.
func ObserveAnalysis(overallScore, skillMatchScore, skillsExtracted int) {
	AnalysesTotal.WithLabelValues("success").Inc()
	if overallScore >= 0 && overallScore <= 100 {
		OverallScoreHistogram.Observe(float64(overallScore))
	}
	if skillMatchScore >= 0 && skillMatchScore <= 100 {
		SkillMatchScoreHistogram.Observe(float64(skillMatchScore))
	}
	SkillsExtractedHistogram.Observe(float64(skillsExtracted))
}

// FailAnalysis records a failed analysis.
func FailAnalysis() {
	AnalysesTotal.WithLabelValues("failure").Inc()
}
