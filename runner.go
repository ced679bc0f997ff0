package parley

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/parley/pkg/conversation"
	"github.com/aretw0/parley/pkg/domain"
)

// Runner drives a conversation engine over plain line-based IO. This
// keeps the core loop testable; richer frontends (streaming TUI, HTTP)
// live in their own adapters.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms assistant text before it is written, so a
// frontend can render markdown to ANSI without coupling this package to
// a terminal library.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run
// (use os.Stdin and os.Stdout for an interactive session).
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the conversation loop until EOF or an exit command.
// Each submitted line becomes one turn; the runner waits for the turn
// to settle and prints the committed reply.
func (r *Runner) Run(ctx context.Context, eng *conversation.Controller) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	// Print whatever the transcript already holds (the seed, or a
	// restored conversation).
	for _, msg := range eng.Messages() {
		r.printMessage(msg)
	}

	for {
		fmt.Fprint(r.Output, "> ")
		text, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)

		switch input {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(r.Output, "Bye!")
			return nil
		case "/reset":
			if err := eng.Reset(ctx); err != nil {
				return fmt.Errorf("reset error: %w", err)
			}
			for _, msg := range eng.Messages() {
				r.printMessage(msg)
			}
			continue
		}

		if err := eng.SendMessage(ctx, input); err != nil {
			return fmt.Errorf("send error: %w", err)
		}
		if err := eng.Flush(ctx); err != nil {
			return fmt.Errorf("turn error: %w", err)
		}

		msgs := eng.Messages()
		if len(msgs) > 0 {
			r.printMessage(msgs[len(msgs)-1])
		}
	}
	return nil
}

func (r *Runner) printMessage(msg domain.Message) {
	if msg.Role != domain.RoleAssistant {
		return
	}
	output := msg.Text
	if r.Renderer != nil {
		if rendered, err := r.Renderer(output); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))

	for _, c := range msg.Components {
		r.printComponent(c)
	}
	if len(msg.Actions) > 0 && !r.Headless {
		var labels []string
		for _, a := range msg.Actions {
			labels = append(labels, "["+a.Label+"]")
		}
		fmt.Fprintln(r.Output, strings.Join(labels, " "))
	}
}

func (r *Runner) printComponent(d domain.Directive) {
	switch c := d.(type) {
	case domain.ChartDirective:
		fmt.Fprintf(r.Output, "  (chart: %s)\n", c.Title)
	case domain.TableDirective:
		fmt.Fprintf(r.Output, "  (table: %s)\n", c.Title)
	case domain.ConfirmationCardDirective:
		fmt.Fprintf(r.Output, "  (confirm: %s)\n", c.Title)
	case domain.InsightDirective:
		fmt.Fprintf(r.Output, "  * %s\n", c.Title)
	}
}
