package workflow_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/parley/pkg/demo"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineCollector struct {
	mu    sync.Mutex
	calls [][]domain.OrderLine
}

func (lc *lineCollector) add(lines []domain.OrderLine) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.calls = append(lc.calls, lines)
}

func (lc *lineCollector) all() []domain.OrderLine {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	var out []domain.OrderLine
	for _, call := range lc.calls {
		out = append(out, call...)
	}
	return out
}

func newFlow(t *testing.T, lc *lineCollector, opts ...workflow.Option) *workflow.Flow {
	t.Helper()
	cfg := workflow.Config{
		Items:      demo.ExtractedItems(),
		Match:      demo.MatchCatalog,
		CrossSell:  demo.CrossSellOffers(),
		OnAddLines: lc.add,
	}
	base := []workflow.Option{workflow.WithSleeper(ports.NopSleeper())}
	f, err := workflow.New(cfg, append(base, opts...)...)
	require.NoError(t, err)
	return f
}

// driveToItemReview walks a fresh flow through greeting, classification
// and the simulated upload.
func driveToItemReview(t *testing.T, f *workflow.Flow) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.ChooseStarter("Help me find products"))
	require.NoError(t, f.Reply("I have a handwritten list I can photograph"))
	require.Equal(t, workflow.StepUploadPrompt, f.Step())
	require.NoError(t, f.Upload(ctx))
	require.Equal(t, workflow.StepItemReview, f.Step())
}

func driveToConfirm(t *testing.T, f *workflow.Flow) {
	t.Helper()
	driveToItemReview(t, f)
	require.NoError(t, f.ConfirmItems(context.Background()))
	require.Equal(t, workflow.StepMatchReview, f.Step())
	require.NoError(t, f.ConfirmMatches())
	require.Equal(t, workflow.StepConfirmOrder, f.Step())
}

func TestStep2_KeywordClassification(t *testing.T) {
	t.Run("keyword advances to upload prompt", func(t *testing.T) {
		f := newFlow(t, &lineCollector{})
		require.NoError(t, f.ChooseStarter("Help me find products"))
		require.NoError(t, f.Reply("I've got a list to upload"))
		assert.Equal(t, workflow.StepUploadPrompt, f.Step())
	})

	t.Run("no keyword re-prompts and stays put", func(t *testing.T) {
		f := newFlow(t, &lineCollector{})
		require.NoError(t, f.ChooseStarter("Help me find products"))
		require.NoError(t, f.Reply("what colour is the sky"))
		assert.Equal(t, workflow.StepOpenQuestion, f.Step())

		msgs := f.Messages()
		redirect := msgs[len(msgs)-1]
		assert.Equal(t, domain.RoleAssistant, redirect.Role)
		assert.Contains(t, redirect.Text, "photo", "redirect steers back to the upload path")

		// A second, keyworded reply still advances.
		require.NoError(t, f.Reply("ok here's a photo of it"))
		assert.Equal(t, workflow.StepUploadPrompt, f.Step())
	})
}

func TestHappyPath_SixLinesSkippingCrossSell(t *testing.T) {
	lc := &lineCollector{}
	f := newFlow(t, lc)
	driveToConfirm(t, f)

	require.NoError(t, f.ConfirmOrder(context.Background()))
	require.Equal(t, workflow.StepCrossSellOffer, f.Step())
	require.NoError(t, f.SkipCrossSell())
	assert.Equal(t, workflow.StepDone, f.Step())

	lines := lc.all()
	require.Len(t, lines, 6, "all six demo items match the catalogue")
	for i, line := range lines {
		assert.Equal(t, i+1, line.Line, "lines are renumbered sequentially")
		assert.InDelta(t, float64(line.Qty)*line.UnitPrice, line.LineTotal, 1e-9)
		assert.False(t, line.CrossSell)
	}

	// Terminal message carries disabled follow-up suggestions.
	msgs := f.Messages()
	last := msgs[len(msgs)-1]
	require.NotEmpty(t, last.Actions)
	for _, a := range last.Actions {
		assert.True(t, a.FollowUp)
	}
}

func TestItemReview_Editing(t *testing.T) {
	f := newFlow(t, &lineCollector{})
	driveToItemReview(t, f)

	n := len(f.Items())
	require.NoError(t, f.AddItem(workflow.ExtractedItem{Description: "M8 washers", Qty: 200}))
	require.NoError(t, f.RemoveItem(0))
	require.NoError(t, f.UpdateItem(0, workflow.ExtractedItem{Description: "M8 nyloc nuts", Qty: 150}))

	items := f.Items()
	assert.Len(t, items, n)
	assert.Equal(t, 150, items[0].Qty)

	assert.Error(t, f.RemoveItem(99))
}

func TestMatchReview_AlternativesAndSpecs(t *testing.T) {
	f := newFlow(t, &lineCollector{})
	driveToItemReview(t, f)
	require.NoError(t, f.ConfirmItems(context.Background()))

	matches := f.Matches()
	require.NotEmpty(t, matches)

	// Row 0 (bolts) has an alternative and specs on its first option.
	require.NoError(t, f.SelectAlternative(0, 1))
	assert.Equal(t, 1, f.Matches()[0].Selected)
	assert.Empty(t, f.Matches()[0].Spec, "alternative without specs clears the disambiguation")

	require.NoError(t, f.SelectAlternative(0, 0))
	require.NoError(t, f.SelectSpec(0, "Galvanised"))
	assert.Equal(t, "Galvanised", f.Matches()[0].Spec)

	assert.Error(t, f.SelectSpec(0, "Chrome"), "unknown spec is rejected")
}

func TestBackEdge_ConfirmToReview(t *testing.T) {
	f := newFlow(t, &lineCollector{})
	driveToConfirm(t, f)

	confirmCount := len(f.Messages())
	require.NoError(t, f.Back())
	assert.Equal(t, workflow.StepMatchReview, f.Step())
	assert.Len(t, f.Messages(), confirmCount-1, "the confirmation message is trimmed from the transcript")

	// Forward again still works.
	require.NoError(t, f.ConfirmMatches())
	assert.Equal(t, workflow.StepConfirmOrder, f.Step())
}

func TestBackEdge_CrossSellCancel(t *testing.T) {
	f := newFlow(t, &lineCollector{})
	driveToConfirm(t, f)
	require.NoError(t, f.ConfirmOrder(context.Background()))

	require.NoError(t, f.ToggleOffer(0))
	require.NoError(t, f.ConfirmCrossSell())
	require.Equal(t, workflow.StepCrossSellConfirm, f.Step())

	msgCount := len(f.Messages())
	require.NoError(t, f.CancelCrossSell())
	assert.Equal(t, workflow.StepCrossSellOffer, f.Step())
	assert.Len(t, f.Messages(), msgCount, "cancel rewinds state without trimming the transcript")
}

func TestCrossSell_LinesFlaggedAndRenumbered(t *testing.T) {
	lc := &lineCollector{}
	f := newFlow(t, lc)
	driveToConfirm(t, f)
	require.NoError(t, f.ConfirmOrder(context.Background()))

	require.NoError(t, f.ToggleOffer(0))
	require.NoError(t, f.ToggleOffer(2))
	require.NoError(t, f.ConfirmCrossSell())
	require.NoError(t, f.SetOfferQuantity(0, 20))
	require.NoError(t, f.ConfirmCrossSellOrder(context.Background()))
	assert.Equal(t, workflow.StepDone, f.Step())

	lines := lc.all()
	require.Len(t, lines, 8, "6 primary lines plus 2 cross-sell lines")

	cross := lines[6:]
	assert.Equal(t, 7, cross[0].Line, "cross-sell numbering continues after primary lines")
	assert.Equal(t, 8, cross[1].Line)
	for _, line := range cross {
		assert.True(t, line.CrossSell)
		assert.InDelta(t, float64(line.Qty)*line.UnitPrice, line.LineTotal, 1e-9)
	}
	assert.Equal(t, 20, cross[0].Qty)
}

func TestQuantityEdits(t *testing.T) {
	lc := &lineCollector{}
	f := newFlow(t, lc)
	driveToConfirm(t, f)

	require.NoError(t, f.SetQuantity(0, 250))
	assert.Error(t, f.SetQuantity(0, 0))
	require.NoError(t, f.ConfirmOrder(context.Background()))

	lines := lc.all()
	assert.Equal(t, 250, lines[0].Qty)
	assert.InDelta(t, 250*lines[0].UnitPrice, lines[0].LineTotal, 1e-9)
}

func TestChecklist_EmitsPacedTransitions(t *testing.T) {
	var mu sync.Mutex
	var events [][]domain.ChecklistItem
	obs := func(e domain.Event) {
		if e.Type == domain.EventChecklist {
			mu.Lock()
			events = append(events, e.Checklist)
			mu.Unlock()
		}
	}

	f := newFlow(t, &lineCollector{}, workflow.WithObserver(obs))
	driveToItemReview(t, f)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, events)

	first := events[0]
	for _, item := range first {
		assert.Equal(t, domain.ChecklistPending, item.Status, "checklist starts all-pending")
	}

	last := events[len(events)-1]
	for _, item := range last {
		assert.Equal(t, domain.ChecklistChecked, item.Status, "checklist ends all-checked")
	}

	// Each item passes through spinning before checked.
	sawSpinning := false
	for _, snapshot := range events {
		for _, item := range snapshot {
			if item.Status == domain.ChecklistSpinning {
				sawSpinning = true
			}
		}
	}
	assert.True(t, sawSpinning)
}

func TestStepGating(t *testing.T) {
	f := newFlow(t, &lineCollector{})

	assert.ErrorIs(t, f.Reply("a list"), domain.ErrStep)
	assert.ErrorIs(t, f.Upload(context.Background()), domain.ErrStep)
	assert.ErrorIs(t, f.Back(), domain.ErrStep)
	assert.ErrorIs(t, f.SkipCrossSell(), domain.ErrStep)
}

func TestReset(t *testing.T) {
	f := newFlow(t, &lineCollector{})
	driveToItemReview(t, f)

	f.Reset()
	assert.Equal(t, workflow.StepGreeting, f.Step())
	assert.Empty(t, f.Items())
	require.Len(t, f.Messages(), 1)
}
