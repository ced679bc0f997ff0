package demo

import (
	"strings"

	"github.com/aretw0/parley/pkg/workflow"
)

// ExtractedItems is what the simulated OCR pass reads off the demo
// handwritten list.
func ExtractedItems() []workflow.ExtractedItem {
	return []workflow.ExtractedItem{
		{Description: "M8 hex bolts 40mm", Qty: 200},
		{Description: "M8 nyloc nuts", Qty: 200},
		{Description: "galv brackets 90deg", Qty: 60},
		{Description: "wood screws 5x80", Qty: 500},
		{Description: "angle grinder discs 115", Qty: 25},
		{Description: "ear defenders", Qty: 10},
	}
}

var catalog = map[string][]workflow.Product{
	"bolt": {
		{SKU: "FAS-1840", Name: "Hex bolt M8 x 40mm, zinc", UnitPrice: 0.14, Specs: []string{"Zinc", "A2 stainless", "Galvanised"}},
		{SKU: "FAS-1845", Name: "Hex bolt M8 x 45mm, zinc", UnitPrice: 0.16},
	},
	"nut": {
		{SKU: "FAS-2208", Name: "Nyloc nut M8, zinc", UnitPrice: 0.06},
		{SKU: "FAS-2209", Name: "Nyloc nut M8, A2 stainless", UnitPrice: 0.11},
	},
	"bracket": {
		{SKU: "BRK-0090", Name: "Angle bracket 90°, galvanised", UnitPrice: 4.85, Specs: []string{"60x60", "90x90"}},
		{SKU: "BRK-0091", Name: "Heavy duty bracket 90°, galvanised", UnitPrice: 7.20},
	},
	"screw": {
		{SKU: "FAS-5580", Name: "Wood screw 5.0 x 80mm, yellow zinc", UnitPrice: 0.04},
	},
	"disc": {
		{SKU: "ABR-0115", Name: "Cutting disc 115mm, inox", UnitPrice: 0.89, Specs: []string{"Cutting", "Grinding"}},
	},
	"defender": {
		{SKU: "PPE-3310", Name: "Ear defenders SNR 27", UnitPrice: 8.95},
	},
}

// MatchCatalog is the demo catalogue lookup for the guided flow. It is
// a fixture: a keyword scan standing in for a real product search.
func MatchCatalog(item workflow.ExtractedItem) []workflow.Product {
	lower := strings.ToLower(item.Description)
	for keyword, products := range catalog {
		if strings.Contains(lower, keyword) {
			out := make([]workflow.Product, len(products))
			copy(out, products)
			return out
		}
	}
	return nil
}

// CrossSellOffers are the cards shown once the primary lines are on the
// quote.
func CrossSellOffers() []workflow.CrossSellOffer {
	return []workflow.CrossSellOffer{
		{
			Product: workflow.Product{SKU: "PPE-1020", Name: "Safety glasses, clear", UnitPrice: 2.40},
			Reason:  "Usually bought with grinding discs",
			Qty:     10,
		},
		{
			Product: workflow.Product{SKU: "ABR-0116", Name: "Flap disc 115mm, 60 grit", UnitPrice: 1.35},
			Reason:  "Pairs with your cutting discs",
			Qty:     25,
		},
		{
			Product: workflow.Product{SKU: "FAS-9005", Name: "Thread locker, medium strength 10ml", UnitPrice: 6.80},
			Reason:  "Recommended for vibration-prone bolt sets",
			Qty:     2,
		},
	}
}
