package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/aretw0/parley/pkg/demo"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/workflow"
)

// RunFlow drives the guided product-matching flow interactively on the
// demo catalogue, printing checklist animations as their events arrive.
func RunFlow() error {
	var collected []domain.OrderLine

	view := tui.NewStreamView(os.Stdout, tui.Width())
	f, err := workflow.New(workflow.Config{
		Items:     demo.ExtractedItems(),
		Match:     demo.MatchCatalog,
		CrossSell: demo.CrossSellOffers(),
		OnAddLines: func(lines []domain.OrderLine) {
			collected = append(collected, lines...)
		},
	}, workflow.WithObserver(view.Observe))
	if err != nil {
		return err
	}

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	printLast := func() {
		msgs := f.Messages()
		if len(msgs) == 0 {
			return
		}
		last := msgs[len(msgs)-1]
		if last.Role != domain.RoleAssistant {
			return
		}
		fmt.Println(last.Text)
		for _, a := range last.Actions {
			fmt.Printf("  [%s]\n", a.Label)
		}
	}

	printLast()
	for f.Step() != workflow.StepDone {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		input := strings.TrimSpace(line)
		if input == "quit" || input == "exit" {
			return nil
		}

		if err := step(ctx, f, input); err != nil {
			fmt.Printf("(%v)\n", err)
			continue
		}
		printLast()
	}

	fmt.Printf("\n%d lines added to the quote:\n", len(collected))
	for _, l := range collected {
		marker := " "
		if l.CrossSell {
			marker = "+"
		}
		fmt.Printf(" %s %2d  %-8s %-40s x%-4d £%8.2f\n", marker, l.Line, l.SKU, l.Description, l.Qty, l.LineTotal)
	}
	return nil
}

// step maps one line of input onto the transition the current step
// permits. Review grids accept simple "verb index" commands.
func step(ctx context.Context, f *workflow.Flow, input string) error {
	switch f.Step() {
	case workflow.StepGreeting:
		return f.ChooseStarter("Help me find products")
	case workflow.StepOpenQuestion:
		return f.Reply(input)
	case workflow.StepUploadPrompt:
		return f.Upload(ctx)
	case workflow.StepItemReview:
		if cmd, idx, ok := indexedCommand(input); ok && cmd == "remove" {
			return f.RemoveItem(idx)
		}
		return f.ConfirmItems(ctx)
	case workflow.StepMatchReview:
		if cmd, idx, ok := indexedCommand(input); ok && cmd == "alt" {
			return f.SelectAlternative(idx, 1)
		}
		return f.ConfirmMatches()
	case workflow.StepConfirmOrder:
		if input == "back" {
			return f.Back()
		}
		return f.ConfirmOrder(ctx)
	case workflow.StepCrossSellOffer:
		if input == "skip" {
			return f.SkipCrossSell()
		}
		if cmd, idx, ok := indexedCommand(input); ok && cmd == "pick" {
			return f.ToggleOffer(idx)
		}
		return f.ConfirmCrossSell()
	case workflow.StepCrossSellConfirm:
		if input == "back" {
			return f.CancelCrossSell()
		}
		return f.ConfirmCrossSellOrder(ctx)
	default:
		return fmt.Errorf("no input expected at %s", f.Step())
	}
}

func indexedCommand(input string) (string, int, bool) {
	parts := strings.Fields(input)
	if len(parts) != 2 {
		return "", 0, false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, false
	}
	return parts[0], idx, true
}
