package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Flow is the guided product-matching state machine. It is driven by
// explicit transition calls rather than fuzzy matching; the only free
// text it interprets is the step-2 reply, via a keyword classifier.
//
// Mutating calls are rejected with domain.ErrStep outside the steps
// that permit them. Processing steps (upload, catalogue search, adding
// to quote) block the calling goroutine for the duration of their
// checklist animation.
type Flow struct {
	cfg           Config
	logger        *slog.Logger
	sleeper       ports.Sleeper
	itemDelay     time.Duration
	trailingPause time.Duration
	observers     []domain.Observer

	mu       sync.Mutex
	step     Step
	messages []domain.Message
	items    []ExtractedItem
	matches  []MatchCandidate
	offers   []CrossSellOffer
	nextLine int
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger configures the internal logger. Defaults to a no-op.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) { f.logger = logger }
}

// WithSleeper injects the timing primitive for checklist animations.
func WithSleeper(s ports.Sleeper) Option {
	return func(f *Flow) { f.sleeper = s }
}

// WithPacing overrides the per-item delay and trailing pause of the
// processing animations.
func WithPacing(item, trailing time.Duration) Option {
	return func(f *Flow) {
		f.itemDelay = item
		f.trailingPause = trailing
	}
}

// WithObserver registers an event observer, invoked synchronously.
func WithObserver(obs domain.Observer) Option {
	return func(f *Flow) { f.observers = append(f.observers, obs) }
}

// New creates a Flow at the greeting step.
func New(cfg Config, opts ...Option) (*Flow, error) {
	if cfg.Match == nil {
		return nil, errors.New("workflow: Config.Match is required")
	}
	if cfg.OnAddLines == nil {
		return nil, errors.New("workflow: Config.OnAddLines is required")
	}
	if cfg.StartLine <= 0 {
		cfg.StartLine = 1
	}

	f := &Flow{
		cfg:           cfg,
		logger:        logging.NewNop(),
		sleeper:       ports.RealSleeper(),
		itemDelay:     DefaultItemDelay,
		trailingPause: DefaultTrailingPause,
		nextLine:      cfg.StartLine,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.seed()
	return f, nil
}

func (f *Flow) seed() {
	f.step = StepGreeting
	f.messages = nil
	f.items = nil
	f.matches = nil
	f.offers = nil
	f.nextLine = f.cfg.StartLine
	f.appendAssistant(
		"Hi! I can help you turn a handwritten stock list into quote lines. What would you like to do?",
		domain.Action{Label: "Help me find products", Style: domain.ActionPrimary},
		domain.Action{Label: "Just browsing", Style: domain.ActionSecondary},
	)
}

// ChooseStarter accepts a starter choice at the greeting and opens the
// free-text question.
func (f *Flow) ChooseStarter(label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepGreeting {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.appendUser(label)
	f.step = StepOpenQuestion
	f.appendAssistant("Great. How do you have the products you need? For example, a handwritten list you can photograph, or a file to upload.")
	return nil
}

// Reply classifies the step-2 free text. A reply mentioning a list,
// scan, photo or upload advances to the upload prompt; anything else
// re-prompts and the flow stays at the open question.
func (f *Flow) Reply(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepOpenQuestion {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.appendUser(text)
	if !wantsUpload(text) {
		f.appendAssistant("I can work fastest from a photo of your list. Snap a picture or upload a file and I'll read it for you.")
		return nil
	}
	f.step = StepUploadPrompt
	f.appendAssistant("Perfect. Upload the photo of your list and I'll extract the items.")
	return nil
}

// Upload simulates the upload and OCR pass, then presents the extracted
// items for review. It blocks through the processing animation.
func (f *Flow) Upload(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepUploadPrompt {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.step = StepProcessingUpload
	f.mu.Unlock()

	if err := f.runChecklist(ctx, []string{
		"Uploading photo",
		"Reading handwriting",
		"Extracting items",
	}); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]ExtractedItem(nil), f.cfg.Items...)
	f.step = StepItemReview
	f.appendAssistant(fmt.Sprintf("I read %d items from your list. Check them over, fix anything I misread, then confirm.", len(f.items)))
	return nil
}

// Items returns a copy of the extracted rows under review.
func (f *Flow) Items() []ExtractedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExtractedItem(nil), f.items...)
}

// AddItem appends a row to the review grid.
func (f *Flow) AddItem(item ExtractedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepItemReview {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.items = append(f.items, item)
	return nil
}

// RemoveItem deletes a row from the review grid.
func (f *Flow) RemoveItem(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepItemReview {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if i < 0 || i >= len(f.items) {
		return fmt.Errorf("item index %d out of range", i)
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	return nil
}

// UpdateItem replaces a row in the review grid.
func (f *Flow) UpdateItem(i int, item ExtractedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepItemReview {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if i < 0 || i >= len(f.items) {
		return fmt.Errorf("item index %d out of range", i)
	}
	f.items[i] = item
	return nil
}

// ConfirmItems runs the catalogue search over the reviewed rows and
// presents the match candidates. It blocks through the processing
// animation.
func (f *Flow) ConfirmItems(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepItemReview {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if len(f.items) == 0 {
		f.mu.Unlock()
		return errors.New("no items to match")
	}
	items := append([]ExtractedItem(nil), f.items...)
	f.step = StepSearchingCatalog
	f.mu.Unlock()

	if err := f.runChecklist(ctx, []string{
		"Searching catalogue",
		"Scoring matches",
		"Preparing review",
	}); err != nil {
		return err
	}

	var matches []MatchCandidate
	for _, item := range items {
		options := f.cfg.Match(item)
		if len(options) == 0 {
			f.logger.Warn("no catalogue match for item", "description", item.Description)
			continue
		}
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		m := MatchCandidate{Item: item, Options: options, Qty: qty}
		if specs := options[0].Specs; len(specs) > 0 {
			m.Spec = specs[0]
		}
		matches = append(matches, m)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches = matches
	f.step = StepMatchReview
	f.appendAssistant(fmt.Sprintf("I matched %d of %d items against the catalogue. Pick alternatives or adjust specifications where needed.", len(matches), len(items)))
	return nil
}

// Matches returns a copy of the match candidates under review.
func (f *Flow) Matches() []MatchCandidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MatchCandidate(nil), f.matches...)
}

// SelectAlternative picks a different catalogue option for one row.
func (f *Flow) SelectAlternative(row, option int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepMatchReview {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if row < 0 || row >= len(f.matches) {
		return fmt.Errorf("match row %d out of range", row)
	}
	if option < 0 || option >= len(f.matches[row].Options) {
		return fmt.Errorf("option %d out of range for row %d", option, row)
	}
	f.matches[row].Selected = option
	if specs := f.matches[row].Chosen().Specs; len(specs) > 0 {
		f.matches[row].Spec = specs[0]
	} else {
		f.matches[row].Spec = ""
	}
	return nil
}

// SelectSpec disambiguates the specification of one row's chosen
// product.
func (f *Flow) SelectSpec(row int, spec string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepMatchReview {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if row < 0 || row >= len(f.matches) {
		return fmt.Errorf("match row %d out of range", row)
	}
	for _, s := range f.matches[row].Chosen().Specs {
		if s == spec {
			f.matches[row].Spec = spec
			return nil
		}
	}
	return fmt.Errorf("product %s has no spec %q", f.matches[row].Chosen().SKU, spec)
}

// ConfirmMatches moves to the confirmation table, where quantities can
// still be edited.
func (f *Flow) ConfirmMatches() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepMatchReview {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if len(f.matches) == 0 {
		return errors.New("no matched products to confirm")
	}
	f.step = StepConfirmOrder
	f.appendAssistant("Here's what I'll add to the quote. Adjust quantities if needed, then confirm.")
	return nil
}

// SetQuantity edits a row's quantity on the confirmation table.
func (f *Flow) SetQuantity(row, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepConfirmOrder {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if row < 0 || row >= len(f.matches) {
		return fmt.Errorf("match row %d out of range", row)
	}
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	f.matches[row].Qty = qty
	return nil
}

// Back returns from the confirmation table to match review, discarding
// the confirmation message from the transcript.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepConfirmOrder {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.trimLastAssistant()
	f.step = StepMatchReview
	return nil
}

// ConfirmOrder adds the confirmed matches to the quote and opens the
// cross-sell offer. It blocks through the processing animation and
// invokes OnAddLines exactly once.
func (f *Flow) ConfirmOrder(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepConfirmOrder {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.step = StepAddingToQuote
	f.mu.Unlock()

	if err := f.runChecklist(ctx, []string{
		"Checking stock",
		"Pricing lines",
		"Adding to quote",
	}); err != nil {
		return err
	}

	f.mu.Lock()
	lines := make([]domain.OrderLine, 0, len(f.matches))
	for _, m := range f.matches {
		p := m.Chosen()
		desc := p.Name
		if m.Spec != "" {
			desc = desc + " (" + m.Spec + ")"
		}
		lines = append(lines, domain.OrderLine{
			Line:        f.nextLine,
			SKU:         p.SKU,
			Description: desc,
			Qty:         m.Qty,
			UnitPrice:   p.UnitPrice,
			LineTotal:   float64(m.Qty) * p.UnitPrice,
		})
		f.nextLine++
	}
	f.offers = append([]CrossSellOffer(nil), f.cfg.CrossSell...)
	f.step = StepCrossSellOffer
	f.appendAssistant(fmt.Sprintf("Done, %d lines are on the quote. Customers buying these often add the following. Interested?", len(lines)))
	f.mu.Unlock()

	f.cfg.OnAddLines(lines)

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.offers) == 0 {
		// Nothing to offer; land on the terminal step directly.
		f.step = StepDone
		f.appendDone()
	}
	return nil
}

// Offers returns a copy of the cross-sell cards.
func (f *Flow) Offers() []CrossSellOffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CrossSellOffer(nil), f.offers...)
}

// ToggleOffer flips the selection of one cross-sell card.
func (f *Flow) ToggleOffer(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepCrossSellOffer {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if i < 0 || i >= len(f.offers) {
		return fmt.Errorf("offer index %d out of range", i)
	}
	f.offers[i].Selected = !f.offers[i].Selected
	return nil
}

// ConfirmCrossSell moves the selected offers to their confirmation
// table.
func (f *Flow) ConfirmCrossSell() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepCrossSellOffer {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if f.selectedOfferCount() == 0 {
		return errors.New("no cross-sell offers selected")
	}
	f.step = StepCrossSellConfirm
	f.appendAssistant("Good picks. Adjust quantities if needed, then confirm and I'll add them too.")
	return nil
}

// SetOfferQuantity edits an offer's quantity on its confirmation table.
func (f *Flow) SetOfferQuantity(i, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepCrossSellConfirm {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	if i < 0 || i >= len(f.offers) {
		return fmt.Errorf("offer index %d out of range", i)
	}
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	f.offers[i].Qty = qty
	return nil
}

// CancelCrossSell rewinds from the cross-sell confirmation back to the
// offer cards. Unlike Back, no transcript trimming happens here.
func (f *Flow) CancelCrossSell() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepCrossSellConfirm {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.step = StepCrossSellOffer
	return nil
}

// ConfirmCrossSellOrder adds the selected offers as cross-sell lines
// and finishes the flow. It blocks through the processing animation
// and invokes OnAddLines exactly once.
func (f *Flow) ConfirmCrossSellOrder(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepCrossSellConfirm {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.step = StepAddingToQuote
	f.mu.Unlock()

	if err := f.runChecklist(ctx, []string{
		"Pricing lines",
		"Adding to quote",
	}); err != nil {
		return err
	}

	f.mu.Lock()
	var lines []domain.OrderLine
	for _, o := range f.offers {
		if !o.Selected {
			continue
		}
		qty := o.Qty
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, domain.OrderLine{
			Line:        f.nextLine,
			SKU:         o.Product.SKU,
			Description: o.Product.Name,
			Qty:         qty,
			UnitPrice:   o.Product.UnitPrice,
			LineTotal:   float64(qty) * o.Product.UnitPrice,
			CrossSell:   true,
		})
		f.nextLine++
	}
	f.step = StepDone
	f.appendDone()
	f.mu.Unlock()

	f.cfg.OnAddLines(lines)
	return nil
}

// SkipCrossSell declines the offer cards and finishes the flow.
func (f *Flow) SkipCrossSell() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepCrossSellOffer {
		return fmt.Errorf("%w: %s", domain.ErrStep, f.step)
	}
	f.step = StepDone
	f.appendDone()
	return nil
}

// Reset returns the flow to the greeting with all derived state
// discarded.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seed()
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Messages returns a copy of the flow transcript.
func (f *Flow) Messages() []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *Flow) selectedOfferCount() int {
	n := 0
	for _, o := range f.offers {
		if o.Selected {
			n++
		}
	}
	return n
}

func (f *Flow) appendDone() {
	f.appendAssistant(
		"All set! The lines are on your quote. Anything else can wait for a new conversation.",
		domain.Action{Label: "Start another list", Style: domain.ActionSecondary, FollowUp: true},
		domain.Action{Label: "Review the quote", Style: domain.ActionSecondary, FollowUp: true},
	)
}

// trimLastAssistant drops the most recent assistant message and
// anything after it, used by the confirm-table back edge.
func (f *Flow) trimLastAssistant() {
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].Role == domain.RoleAssistant {
			f.messages = f.messages[:i]
			return
		}
	}
}

func (f *Flow) appendUser(text string) {
	f.messages = append(f.messages, domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Text:      strings.TrimSpace(text),
		Timestamp: time.Now().UTC(),
	})
}

func (f *Flow) appendAssistant(text string, actions ...domain.Action) {
	f.messages = append(f.messages, domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Actions:   actions,
	})
}

func (f *Flow) emit(e domain.Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	for _, obs := range f.observers {
		obs(e)
	}
}
