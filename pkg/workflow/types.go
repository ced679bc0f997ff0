package workflow

import "github.com/aretw0/parley/pkg/domain"

// ExtractedItem is one row read off the uploaded handwritten list.
type ExtractedItem struct {
	Description string `json:"description"`
	Qty         int    `json:"qty"`
}

// Product is a catalogue entry a list row can be matched to.
type Product struct {
	SKU       string   `json:"sku"`
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unit_price"`
	Specs     []string `json:"specs,omitempty"`
}

// MatchCandidate pairs an extracted row with its catalogue options.
// Selected indexes Options; Spec disambiguates when the chosen product
// comes in several specifications.
type MatchCandidate struct {
	Item     ExtractedItem `json:"item"`
	Options  []Product     `json:"options"`
	Selected int           `json:"selected"`
	Spec     string        `json:"spec,omitempty"`
	Qty      int           `json:"qty"`
}

// Chosen returns the currently selected catalogue option.
func (m MatchCandidate) Chosen() Product {
	return m.Options[m.Selected]
}

// CrossSellOffer is one card on the cross-sell step.
type CrossSellOffer struct {
	Product  Product `json:"product"`
	Reason   string  `json:"reason"`
	Qty      int     `json:"qty"`
	Selected bool    `json:"selected"`
}

// Config carries the fixtures and host callbacks a Flow is built from.
// The flow owns all of its state; nothing here is shared or mutated by
// the flow beyond the OnAddLines invocations.
type Config struct {
	// Items is what the simulated OCR pass extracts from the upload.
	Items []ExtractedItem

	// Match returns the catalogue candidates for one extracted row,
	// best first. Rows with no candidates are dropped from review.
	Match func(ExtractedItem) []Product

	// CrossSell is the fixed set of offer cards shown after the primary
	// lines are added.
	CrossSell []CrossSellOffer

	// StartLine is the first quote line number to assign; lines continue
	// sequentially after any the host has already added.
	StartLine int

	// OnAddLines receives the renumbered, priced lines once per confirm
	// transition.
	OnAddLines func([]domain.OrderLine)
}
