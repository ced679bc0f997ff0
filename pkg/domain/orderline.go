package domain

// OrderLine is a priced quote line produced by the guided workflow.
// Line numbers are sequential, continuing after any lines the host has
// already added. CrossSell distinguishes lines originating from the
// cross-sell offer from primary catalogue matches.
type OrderLine struct {
	Line        int     `json:"line"`
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
	CrossSell   bool    `json:"cross_sell,omitempty"`
}
