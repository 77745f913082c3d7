package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the responder's collectors. A nil *Metrics is valid and
// records nothing, so components can be built without instrumentation.
type Metrics struct {
	Registry *prometheus.Registry

	// RepliesTotal counts replies by sentiment category and intensity bucket
	RepliesTotal *prometheus.CounterVec

	// RepeatedRepliesTotal counts replies drawn after every template was used recently
	RepeatedRepliesTotal *prometheus.CounterVec

	// AnalysisSourceTotal counts analyses by origin (classifier or precomputed)
	AnalysisSourceTotal *prometheus.CounterVec

	// ActiveConversations tracks sessions currently held in memory
	ActiveConversations prometheus.Gauge

	// ConversationResetsTotal counts explicit conversation resets
	ConversationResetsTotal prometheus.Counter

	// EncouragementsTotal counts encouragement requests by tone and outcome
	EncouragementsTotal *prometheus.CounterVec

	// GraphRunDuration tracks end-to-end latency of one responder graph run
	GraphRunDuration prometheus.Histogram
}

// New registers all collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RepliesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "responder_replies_total",
				Help: "Total replies by sentiment and intensity",
			},
			[]string{"sentiment", "intensity"},
		),
		RepeatedRepliesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "responder_repeated_replies_total",
				Help: "Replies that reused a recently issued template because all were exhausted",
			},
			[]string{"sentiment", "intensity"},
		),
		AnalysisSourceTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "responder_analysis_source_total",
				Help: "Analyses by source (classifier or precomputed)",
			},
			[]string{"source"},
		),
		ActiveConversations: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "responder_active_conversations",
				Help: "Number of conversation sessions held in memory",
			},
		),
		ConversationResetsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "responder_conversation_resets_total",
				Help: "Total explicit conversation resets",
			},
		),
		EncouragementsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "encouragement_requests_total",
				Help: "Encouragement requests by tone and outcome (sent or skipped)",
			},
			[]string{"tone", "outcome"},
		),
		GraphRunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "responder_graph_run_duration_seconds",
				Help:    "Duration of one responder graph run in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
			},
		),
	}
}

func (m *Metrics) ObserveReply(sentiment, intensity string, repeated bool) {
	if m == nil {
		return
	}
	m.RepliesTotal.WithLabelValues(sentiment, intensity).Inc()
	if repeated {
		m.RepeatedRepliesTotal.WithLabelValues(sentiment, intensity).Inc()
	}
}

func (m *Metrics) ObserveAnalysisSource(source string) {
	if m == nil {
		return
	}
	m.AnalysisSourceTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) SetActiveConversations(n int) {
	if m == nil {
		return
	}
	m.ActiveConversations.Set(float64(n))
}

func (m *Metrics) IncConversationResets() {
	if m == nil {
		return
	}
	m.ConversationResetsTotal.Inc()
}

func (m *Metrics) ObserveEncouragement(tone, outcome string) {
	if m == nil {
		return
	}
	m.EncouragementsTotal.WithLabelValues(tone, outcome).Inc()
}

func (m *Metrics) ObserveGraphRun(seconds float64) {
	if m == nil {
		return
	}
	m.GraphRunDuration.Observe(seconds)
}
