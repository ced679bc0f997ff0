package script

import (
	"strings"
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `
nodes:
  - id: margin-breakdown
    triggers:
      - show margins
      - margin breakdown
    response:
      text: "Here is the margin breakdown for this order."
      components:
        - type: chart
          chart_kind: bar
          title: Margin by line
          data_key: order-lines
        - type: insight
          severity: warning
          title: Low margin
          body: Line 3 is under 10%.
      actions:
        - label: Apply 5% discount
          target_node: discount-applied
          style: primary
        - label: Not now
          style: secondary
      follow_ups:
        - Check stock
  - id: discount-applied
    response:
      text: "Done. The discount has been applied."
`

func TestLoad(t *testing.T) {
	graph, err := Load(strings.NewReader(sampleScript))
	require.NoError(t, err)
	require.Equal(t, 2, graph.Len())

	node, ok := graph.Node("margin-breakdown")
	require.True(t, ok)
	assert.Equal(t, []string{"show margins", "margin breakdown"}, node.Triggers)
	require.Len(t, node.Response.Components, 2)

	chart, ok := node.Response.Components[0].(domain.ChartDirective)
	require.True(t, ok, "first component must decode as a chart")
	assert.Equal(t, "bar", chart.ChartKind)
	assert.Equal(t, "order-lines", chart.DataKey)

	insight, ok := node.Response.Components[1].(domain.InsightDirective)
	require.True(t, ok, "second component must decode as an insight")
	assert.Equal(t, domain.SeverityWarning, insight.Severity)

	require.Len(t, node.Response.Actions, 2)
	assert.Equal(t, "discount-applied", node.Response.Actions[0].TargetNode)
}

func TestLoad_UnknownDirective(t *testing.T) {
	doc := `
nodes:
  - id: a
    triggers: [hello]
    response:
      text: hi
      components:
        - type: hologram
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownDirective)
}

func TestLoad_UnresolvableTarget(t *testing.T) {
	doc := `
nodes:
  - id: a
    triggers: [hello]
    response:
      text: hi
      actions:
        - label: Go
          target_node: nowhere
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node")
}

func TestLoad_OrphanNode(t *testing.T) {
	doc := `
nodes:
  - id: a
    triggers: [hello]
    response:
      text: hi
  - id: unreachable
    response:
      text: never shown
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never referenced")
}

func TestBuilder(t *testing.T) {
	b := New()
	b.Node("greet").
		Triggers("hello", "hi").
		Text("Hello! How can I help?").
		FollowUps("Show margins")
	b.Node("margins").
		Triggers("show margins").
		Text("Margins follow.").
		Component(domain.ChartDirective{ChartKind: "bar", Title: "Margins", DataKey: "lines"}).
		Action(domain.Action{Label: "Apply discount", TargetNode: "applied", Style: domain.ActionPrimary})
	b.Node("applied").
		Text("Applied.")

	graph, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, graph.Len())

	// Authoring order is preserved for resolution tie-breaks.
	assert.Equal(t, "greet", graph.Nodes()[0].ID)
}

func TestBuilder_DuplicateTriggerlessOrphan(t *testing.T) {
	b := New()
	b.Node("a").Triggers("x").Text("x")
	b.Node("orphan").Text("unreachable")
	_, err := b.Build()
	assert.Error(t, err)
}
