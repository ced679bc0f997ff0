package match

import (
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph(t *testing.T) *domain.ScriptGraph {
	t.Helper()
	g, err := domain.NewScriptGraph(
		domain.ScriptNode{
			ID:       "margin-breakdown",
			Triggers: []string{"show margins", "margin breakdown"},
			Response: domain.Response{Text: "Here is the margin breakdown."},
		},
		domain.ScriptNode{
			ID:       "stock-check",
			Triggers: []string{"check stock", "stock levels"},
			Response: domain.Response{Text: "Stock levels follow."},
		},
		domain.ScriptNode{
			ID:       "discount-applied",
			Triggers: nil, // reachable only via explicit target
			Response: domain.Response{Text: "Change applied."},
		},
	)
	require.NoError(t, err)
	return g
}

func TestResolve_ExactTrigger(t *testing.T) {
	r := NewResolver(testGraph(t))

	for _, trigger := range []string{"show margins", "Margin Breakdown", "  CHECK STOCK  "} {
		m, ok := r.Resolve(trigger)
		require.True(t, ok, "trigger %q must resolve", trigger)
		assert.Equal(t, 1.0, m.Confidence)
	}

	m, ok := r.Resolve("show margins")
	require.True(t, ok)
	assert.Equal(t, "margin-breakdown", m.NodeID)
}

func TestResolve_Containment(t *testing.T) {
	r := NewResolver(testGraph(t))

	m, ok := r.Resolve("please show margins now")
	require.True(t, ok)
	assert.Equal(t, "margin-breakdown", m.NodeID)
	assert.Equal(t, ContainmentScore, m.Confidence)

	// Substring of a trigger, the other direction.
	m, ok = r.Resolve("stock level")
	require.True(t, ok)
	assert.Equal(t, "stock-check", m.NodeID)
	assert.Equal(t, ContainmentScore, m.Confidence)
}

func TestResolve_TrigramFallback(t *testing.T) {
	r := NewResolver(testGraph(t))

	m, ok := r.Resolve("margins breakdown")
	require.True(t, ok)
	assert.Equal(t, "margin-breakdown", m.NodeID)
	assert.Less(t, m.Confidence, 1.0)
	assert.GreaterOrEqual(t, m.Confidence, Threshold)
}

func TestResolve_EmptyInput(t *testing.T) {
	r := NewResolver(testGraph(t))

	_, ok := r.Resolve("")
	assert.False(t, ok)
	_, ok = r.Resolve("   ")
	assert.False(t, ok)
}

func TestResolve_BelowThreshold(t *testing.T) {
	r := NewResolver(testGraph(t))

	_, ok := r.Resolve("what colour is the sky")
	assert.False(t, ok)
}

func TestResolve_SkipsEmptyTriggerNodes(t *testing.T) {
	r := NewResolver(testGraph(t))

	// The target-only node must never win a free-text resolution.
	m, ok := r.Resolve("change applied")
	if ok {
		assert.NotEqual(t, "discount-applied", m.NodeID)
	}
}
