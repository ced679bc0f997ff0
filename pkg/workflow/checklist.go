package workflow

import (
	"context"
	"time"

	"github.com/aretw0/parley/pkg/domain"
)

// Checklist pacing. Items reveal one at a time; completion of the last
// item is followed by a short trailing pause before the next real
// transition. This is cosmetic, not real asynchronous work, but the
// timing is part of the UX contract.
const (
	DefaultItemDelay     = 350 * time.Millisecond
	DefaultTrailingPause = 400 * time.Millisecond
)

// runChecklist animates a list of labeled operations, emitting the full
// checklist state after every item transition pending -> spinning ->
// checked. It blocks for the duration of the animation.
func (f *Flow) runChecklist(ctx context.Context, labels []string) error {
	items := make([]domain.ChecklistItem, len(labels))
	for i, label := range labels {
		items[i] = domain.ChecklistItem{Label: label, Status: domain.ChecklistPending}
	}
	f.emitChecklist(items)

	for i := range items {
		items[i].Status = domain.ChecklistSpinning
		f.emitChecklist(items)
		if err := f.sleeper.Sleep(ctx, f.itemDelay); err != nil {
			return err
		}
		items[i].Status = domain.ChecklistChecked
		f.emitChecklist(items)
	}

	return f.sleeper.Sleep(ctx, f.trailingPause)
}

func (f *Flow) emitChecklist(items []domain.ChecklistItem) {
	snapshot := make([]domain.ChecklistItem, len(items))
	copy(snapshot, items)
	f.emit(domain.Event{Type: domain.EventChecklist, Checklist: snapshot})
}
