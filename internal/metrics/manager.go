package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workout outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Manager struct {
	gatherer prometheus.Gatherer

	// counters
	CounterRequests           *prometheus.CounterVec
	CounterWorkoutOutcomes    *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
	HistPlanDuration    prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("workout_planner", "test", prometheus.NewRegistry(), nil)
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("workout_planner", "test", reg, nil), reg
}

// NewManager registers all collectors on reg. constLabels, which may be nil,
// are attached to every metric the manager owns.
func NewManager(namespace, subsystem string, reg *prometheus.Registry, constLabels prometheus.Labels) *Manager {
	factory := promauto.With(prometheus.WrapRegistererWith(constLabels, reg))

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "The total number of incoming requests",
	}, []string{"method", "path", "status"})
	counterWorkoutOutcomes := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workout_plans_total",
		Help:      "The total number of workout plan requests by outcome",
	}, []string{"outcome"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		},
		[]string{"path"},
	)
	histPlanDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			Name:      "workout_plan_duration_seconds",
			Help:      "Duration of a single workout plan generation in seconds",
		},
	)

	return &Manager{
		gatherer:                  reg,
		CounterRequests:           counterRequests,
		CounterWorkoutOutcomes:    counterWorkoutOutcomes,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		GaugeRequests:             gaugeRequests,
		HistRequestDuration:       histReqDuration,
		HistPlanDuration:          histPlanDuration,
	}
}

// ObserveWorkout records the outcome and duration of one workout plan request
func (m *Manager) ObserveWorkout(outcome string, seconds float64) {
	m.CounterWorkoutOutcomes.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.HistPlanDuration.Observe(seconds)
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
