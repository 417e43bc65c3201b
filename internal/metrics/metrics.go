package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalysesTotal counts /analyze requests by outcome (success, rejected).
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agriassist",
		Subsystem: "pipeline",
		Name:      "analyses_total",
		Help:      "Total number of analysis requests, labeled by result.",
	}, []string{"result"})

	// AnalysisDurationSeconds is end-to-end orchestration time per request.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agriassist",
		Subsystem: "pipeline",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end time to orchestrate one analysis request.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"result"})

	// DiagnosesTotal counts image diagnoses by fired condition, or "failed".
	DiagnosesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agriassist",
		Subsystem: "analyzer",
		Name:      "diagnoses_total",
		Help:      "Total number of image diagnoses, labeled by condition.",
	}, []string{"condition"})

	// HealthScore observes the plant health score of each diagnosed image.
	HealthScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agriassist",
		Subsystem: "analyzer",
		Name:      "health_score",
		Help:      "Plant health score of diagnosed images.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	// CompletionFailuresTotal counts failed completion calls by generator.
	CompletionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agriassist",
		Subsystem: "completion",
		Name:      "failures_total",
		Help:      "Total number of failed text-completion calls, labeled by generator.",
	}, []string{"generator"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDurationSeconds,
			DiagnosesTotal,
			HealthScore,
			CompletionFailuresTotal,
		)
	})
}

// RegisterPoolGauges exposes worker pool counters read on every scrape.
// Returns an error when the gauges are already registered.
func RegisterPoolGauges(reg prometheus.Registerer, active, completed func() float64) error {
	activeGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "agriassist",
		Subsystem: "analyzer",
		Name:      "active_workers",
		Help:      "Current number of analyzer workers processing image strips.",
	}, active)
	completedCounter := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "agriassist",
		Subsystem: "analyzer",
		Name:      "strip_jobs_completed_total",
		Help:      "Total number of image strips processed by the worker pool.",
	}, completed)

	if err := reg.Register(activeGauge); err != nil {
		return err
	}
	return reg.Register(completedCounter)
}
