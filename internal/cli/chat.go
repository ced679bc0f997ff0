package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/aretw0/parley/pkg/conversation"
	"github.com/aretw0/parley/pkg/demo"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/script"
)

// ChatConfig parameterizes an interactive chat session.
type ChatConfig struct {
	ScriptPath string // empty: the built-in demo corpus
	Store      StoreConfig
	SessionKey string
	Plain      bool // force the line-based runner even on a TTY
}

func loadGraph(path string) (*domain.ScriptGraph, error) {
	if path == "" {
		return demo.SO436Graph()
	}
	return script.LoadFile(path)
}

// RunChat starts an interactive session on stdin/stdout. On a terminal
// it paints turns live (typing indicator, streamed text); piped IO
// falls back to the plain runner.
func RunChat(cfg ChatConfig) error {
	graph, err := loadGraph(cfg.ScriptPath)
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}
	store, err := BuildStore(cfg.Store)
	if err != nil {
		return err
	}
	key := cfg.SessionKey
	if key == "" {
		key = demo.SO436StorageKey
	}

	opts := []conversation.Option{
		conversation.WithStore(store, key),
	}

	if cfg.Plain || !tui.IsTTY() {
		eng, err := parley.NewFromGraph(graph, opts...)
		if err != nil {
			return err
		}
		runner := parley.NewRunner()
		runner.Input = os.Stdin
		runner.Output = os.Stdout
		return runner.Run(context.Background(), eng)
	}

	view := tui.NewStreamView(os.Stdout, tui.Width())
	eng, err := parley.NewFromGraph(graph, append(opts, conversation.WithObserver(view.Observe))...)
	if err != nil {
		return err
	}

	tui.PrintBanner(parley.Version)
	render := tui.NewRenderer()
	for _, msg := range eng.Messages() {
		if msg.Role != domain.RoleAssistant {
			continue
		}
		if out, err := render(msg.Text); err == nil {
			fmt.Print(strings.TrimRight(out, "\n") + "\n\n")
		} else {
			fmt.Println(msg.Text)
		}
	}

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(line)

		switch input {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "/reset":
			if err := eng.Reset(ctx); err != nil {
				return err
			}
			fmt.Println("Conversation reset.")
			continue
		}

		if err := eng.SendMessage(ctx, input); err != nil {
			fmt.Printf("(%v)\n", err)
			continue
		}
		// The stream view paints the turn as its events arrive; Flush
		// just blocks until the reply has committed.
		if err := eng.Flush(ctx); err != nil {
			return err
		}
	}
}
