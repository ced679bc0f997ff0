package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parley/pkg/domain"
)

// Each erased terminal line emits the erase-line control sequence, so
// counting it pins the clear arithmetic between repaints.
const eraseLine = "\x1b[2K"

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, wrap("alpha beta gamma delta", 11))
	assert.Equal(t, []string{"one", "two"}, wrap("one\ntwo", 80))
	assert.Equal(t, []string{"first", "", "second"}, wrap("first\n\nsecond", 80))
	assert.Equal(t, []string{"unbreakablelongword"}, wrap("unbreakablelongword", 5),
		"a word wider than the view stays on its own line")
}

func TestStreamView_RepaintClearsPreviousFrame(t *testing.T) {
	var buf bytes.Buffer
	v := NewStreamView(&buf, 11)

	v.Observe(domain.Event{Type: domain.EventTypingStarted})
	v.Observe(domain.Event{Type: domain.EventStreamChunk, Chunk: "alpha beta gamma delta"})
	v.Observe(domain.Event{
		Type: domain.EventMessageCommitted,
		Message: &domain.Message{
			Role:      domain.RoleAssistant,
			Text:      "alpha beta gamma delta",
			Actions:   []domain.Action{{Label: "Apply it"}},
			FollowUps: []string{"and then?"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "assistant is typing...")
	assert.Contains(t, out, "alpha beta")
	assert.Contains(t, out, "gamma delta")
	assert.Contains(t, out, "[Apply it]")
	assert.Contains(t, out, "try: and then?")

	// One line erased before the chunk repaint, two (the wrapped chunk)
	// before the committed paint.
	assert.Equal(t, 3, strings.Count(out, eraseLine))
}

func TestStreamView_CommittedComponents(t *testing.T) {
	var buf bytes.Buffer
	v := NewStreamView(&buf, 80)

	v.Observe(domain.Event{
		Type: domain.EventMessageCommitted,
		Message: &domain.Message{
			Role: domain.RoleAssistant,
			Text: "Here is the breakdown.",
			Components: domain.DirectiveList{
				domain.ChartDirective{Title: "Margin by order line"},
				domain.InsightDirective{Severity: domain.SeverityWarning, Title: "Two lines below floor", Body: "Lines 3 and 5."},
			},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "▦ Margin by order line")
	assert.Contains(t, out, "• Two lines below floor")
	assert.Contains(t, out, "Lines 3 and 5.")
}

func TestStreamView_ChecklistFrames(t *testing.T) {
	var buf bytes.Buffer
	v := NewStreamView(&buf, 80)

	frame := func(a, b domain.ChecklistStatus) []domain.ChecklistItem {
		return []domain.ChecklistItem{
			{Label: "Scanning photo", Status: a},
			{Label: "Extracting items", Status: b},
		}
	}

	v.Observe(domain.Event{Type: domain.EventChecklist, Checklist: frame(domain.ChecklistPending, domain.ChecklistPending)})
	v.Observe(domain.Event{Type: domain.EventChecklist, Checklist: frame(domain.ChecklistSpinning, domain.ChecklistPending)})
	v.Observe(domain.Event{Type: domain.EventChecklist, Checklist: frame(domain.ChecklistChecked, domain.ChecklistChecked)})

	out := buf.String()
	assert.Contains(t, out, "· Scanning photo")
	assert.Contains(t, out, "◌ Scanning photo")
	assert.Contains(t, out, "✓ Extracting items")
	// Two two-line frames erased before their successors.
	require.Equal(t, 4, strings.Count(out, eraseLine))

	// The all-checked frame stays on screen: the next event must not
	// erase it.
	before := buf.Len()
	v.Observe(domain.Event{Type: domain.EventTypingStarted})
	assert.NotContains(t, buf.String()[before:], eraseLine)
}
