// Package demo ships the authored fixtures the sample ERP dashboard
// runs on: the SO-436 sales-order script corpus and the catalogue
// behind the guided product-matching flow. Tests and the CLI use the
// same data.
package demo

import (
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/script"
)

// SO436StorageKey scopes persisted conversations to the demo order.
const SO436StorageKey = "so-436"

// SO436Graph builds the script corpus for sales order SO-436.
func SO436Graph() (*domain.ScriptGraph, error) {
	b := script.New()

	b.Node("greeting").
		Triggers("hi", "hello", "hey", "good morning").
		Text("Hello! I'm the assistant for order SO-436. Ask me about margins, stock, or delivery.").
		FollowUps("Show me the margin breakdown", "Check stock levels", "What's the delivery status?")

	b.Node("margin-breakdown").
		Triggers(
			"show me the margin breakdown",
			"margin breakdown",
			"show margins",
			"margins",
			"how are the margins",
		).
		Text("Here's the margin breakdown for SO-436. Overall the order sits at 18.4% gross margin, with line 3 dragging the average down.").
		Component(domain.ChartDirective{ChartKind: "bar", Title: "Margin by order line", DataKey: "so436-lines"}).
		Component(domain.InsightDirective{
			Severity: domain.SeverityWarning,
			Title:    "Line 3 margin below target",
			Body:     "Galvanised brackets are quoted at 6.2% margin against a 12% floor.",
		}).
		Component(domain.InsightDirective{
			Severity: domain.SeverityInfo,
			Title:    "Volume discount unused",
			Body:     "The customer qualifies for the 250+ unit bracket on line 1 but isn't using it.",
		}).
		Action(domain.Action{Label: "Offer a discount", TargetNode: "discount-offer", Style: domain.ActionPrimary}).
		Action(domain.Action{Label: "Check stock levels", Style: domain.ActionSecondary})

	b.Node("stock-check").
		Triggers("check stock levels", "check stock", "stock levels", "stock", "is it in stock").
		Text("Stock looks healthy for every line except the brackets, which are down to 40 units across branches.").
		Component(domain.TableDirective{Title: "Stock by branch", DataKey: "so436-stock", Columns: []string{"Branch", "SKU", "On hand", "Reserved"}}).
		FollowUps("Show me the margin breakdown", "What's the delivery status?")

	b.Node("delivery-status").
		Triggers("what's the delivery status", "delivery status", "when will it ship", "delivery", "shipping").
		Text("SO-436 is scheduled to ship Thursday from the Leeds branch. Two lines are picking now; the brackets wait on a transfer.").
		Component(domain.InsightDirective{
			Severity: domain.SeverityInfo,
			Title:    "Transfer in progress",
			Body:     "60 brackets are moving from Manchester, due Wednesday evening.",
		}).
		FollowUps("Check stock levels")

	b.Node("revenue-overview").
		Triggers("branch revenue", "revenue overview", "how is revenue", "revenue").
		Text("Branch revenue this quarter is led by Leeds, with Manchester closing the gap in the last four weeks.").
		Component(domain.ChartDirective{ChartKind: "donut", Title: "Revenue by branch", DataKey: "branch-revenue"})

	b.Node("discount-offer").
		Triggers("offer a discount", "apply a discount", "discount").
		Text("I can apply a 5% line discount to the brackets. That trades 1.1 points of margin for a much stronger reorder story. Want me to apply it?").
		Component(domain.ConfirmationCardDirective{
			Title:     "Apply 5% discount to line 3",
			ApplyNode: "discount-applied",
			Fields: []domain.FieldDiff{
				{Label: "Unit price", Before: "£4.85", After: "£4.61"},
				{Label: "Line total", Before: "£1,164.00", After: "£1,106.40"},
				{Label: "Order margin", Before: "18.4%", After: "17.3%"},
			},
		})

	// Reachable only through the confirmation card's apply callback.
	b.Node("discount-applied").
		Text("Done. Line 3 now carries the 5% discount and the quote PDF has been regenerated.").
		FollowUps("Show me the margin breakdown")

	return b.Build()
}

// MustSO436Graph is SO436Graph for wiring code where the corpus is
// known-good.
func MustSO436Graph() *domain.ScriptGraph {
	g, err := SO436Graph()
	if err != nil {
		panic(err)
	}
	return g
}
