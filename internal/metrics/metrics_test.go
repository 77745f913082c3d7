package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	m := New()
	m.ObserveReply("anxiety", "medium", false)
	m.ObserveAnalysisSource("classifier")
	m.ObserveEncouragement("supportive", "sent")

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"responder_replies_total",
		"responder_analysis_source_total",
		"responder_active_conversations",
		"responder_conversation_resets_total",
		"encouragement_requests_total",
		"go_goroutines",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestObserveReply(t *testing.T) {
	m := New()
	m.ObserveReply("grief", "high", false)
	m.ObserveReply("grief", "high", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RepliesTotal.WithLabelValues("grief", "high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RepeatedRepliesTotal.WithLabelValues("grief", "high")))
}

func TestGaugeAndCounters(t *testing.T) {
	m := New()
	m.SetActiveConversations(4)
	m.IncConversationResets()
	m.IncConversationResets()

	assert.Equal(t, 4.0, testutil.ToFloat64(m.ActiveConversations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConversationResetsTotal))

	expected := `
# HELP responder_conversation_resets_total Total explicit conversation resets
# TYPE responder_conversation_resets_total counter
responder_conversation_resets_total 2
`
	require.NoError(t, testutil.CollectAndCompare(m.ConversationResetsTotal, strings.NewReader(expected)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReply("neutral", "low", true)
		m.ObserveAnalysisSource("precomputed")
		m.SetActiveConversations(1)
		m.IncConversationResets()
		m.ObserveEncouragement("positive", "skipped")
		m.ObserveGraphRun(0.01)
	})
}
