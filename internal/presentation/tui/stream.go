package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/aretw0/parley/pkg/domain"
)

// StreamView paints conversation events live: a typing indicator while
// the assistant thinks, then the streamed text rewritten in place as
// each prefix arrives, and finally the committed message with its
// components and actions.
type StreamView struct {
	out   *termenv.Output
	width int

	mu    sync.Mutex
	lines int
}

// NewStreamView creates a view writing to w, wrapping at width columns.
func NewStreamView(w io.Writer, width int) *StreamView {
	if width <= 0 {
		width = 80
	}
	return &StreamView{
		out:   termenv.NewOutput(w),
		width: width,
	}
}

// Observe is the event hook to register on the engine.
func (v *StreamView) Observe(e domain.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e.Type {
	case domain.EventTypingStarted:
		v.clear()
		indicator := termenv.String("assistant is typing...").Faint()
		fmt.Fprintln(v.out, indicator)
		v.lines = 1
	case domain.EventStreamChunk:
		v.clear()
		v.lines = v.paint(e.Chunk)
	case domain.EventMessageCommitted:
		v.clear()
		v.paint(e.Message.Text)
		v.lines = 0
		v.printExtras(e.Message)
		fmt.Fprintln(v.out)
	case domain.EventChecklist:
		v.clear()
		v.lines = v.paintChecklist(e.Checklist)
		if checklistDone(e.Checklist) {
			v.lines = 0
		}
	case domain.EventReset:
		v.clear()
		v.lines = 0
	}
}

// paintChecklist redraws the processing checklist in place. The final
// all-checked frame is left on screen.
func (v *StreamView) paintChecklist(items []domain.ChecklistItem) int {
	for _, item := range items {
		var line termenv.Style
		switch item.Status {
		case domain.ChecklistChecked:
			line = termenv.String("  ✓ " + item.Label).Foreground(v.out.ColorProfile().Color("#34d399"))
		case domain.ChecklistSpinning:
			line = termenv.String("  ◌ " + item.Label)
		default:
			line = termenv.String("  · " + item.Label).Faint()
		}
		fmt.Fprintln(v.out, line)
	}
	return len(items)
}

func checklistDone(items []domain.ChecklistItem) bool {
	for _, item := range items {
		if item.Status != domain.ChecklistChecked {
			return false
		}
	}
	return true
}

// clear erases the lines of the previous in-flight paint.
func (v *StreamView) clear() {
	for i := 0; i < v.lines; i++ {
		v.out.CursorPrevLine(1)
		v.out.ClearLine()
	}
	v.lines = 0
}

// paint writes text wrapped to the view width and returns the number of
// terminal lines it occupied.
func (v *StreamView) paint(text string) int {
	lines := wrap(text, v.width)
	for _, line := range lines {
		fmt.Fprintln(v.out, line)
	}
	return len(lines)
}

func (v *StreamView) printExtras(msg *domain.Message) {
	p := v.out.ColorProfile()
	for _, c := range msg.Components {
		switch d := c.(type) {
		case domain.ChartDirective:
			fmt.Fprintln(v.out, termenv.String("  ▦ "+d.Title).Foreground(p.Color("#818cf8")))
		case domain.TableDirective:
			fmt.Fprintln(v.out, termenv.String("  ☰ "+d.Title).Foreground(p.Color("#a78bfa")))
		case domain.ConfirmationCardDirective:
			fmt.Fprintln(v.out, termenv.String("  ? "+d.Title).Foreground(p.Color("#fbbf24")))
			for _, f := range d.Fields {
				fmt.Fprintf(v.out, "      %s: %s -> %s\n", f.Label, f.Before, f.After)
			}
		case domain.InsightDirective:
			color := "#60a5fa"
			switch d.Severity {
			case domain.SeverityWarning:
				color = "#fbbf24"
			case domain.SeverityCritical:
				color = "#f87171"
			}
			fmt.Fprintln(v.out, termenv.String("  • "+d.Title).Foreground(p.Color(color)))
			if d.Body != "" {
				fmt.Fprintln(v.out, termenv.String("    "+d.Body).Faint())
			}
		}
	}
	if len(msg.Actions) > 0 {
		var labels []string
		for _, a := range msg.Actions {
			labels = append(labels, "["+a.Label+"]")
		}
		fmt.Fprintln(v.out, termenv.String("  "+strings.Join(labels, " ")).Faint())
	}
	if len(msg.FollowUps) > 0 {
		fmt.Fprintln(v.out, termenv.String("  try: "+strings.Join(msg.FollowUps, " · ")).Faint())
	}
}

// wrap splits text into lines no wider than width, breaking on spaces.
func wrap(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) > width {
				lines = append(lines, current)
				current = word
				continue
			}
			current += " " + word
		}
		lines = append(lines, current)
	}
	return lines
}
