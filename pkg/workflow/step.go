// Package workflow implements the guided product-matching flow: a
// linear pipeline from a handwritten list photo to priced quote lines,
// with two permitted backward edges and cosmetic processing pacing.
package workflow

// Step numbers the states of the guided flow. Transitions move
// monotonically forward except for the two correction edges
// (StepConfirmOrder back to StepMatchReview, StepCrossSellConfirm back
// to StepCrossSellOffer).
type Step int

const (
	StepGreeting Step = iota + 1
	StepOpenQuestion
	StepUploadPrompt
	StepProcessingUpload
	StepItemReview
	StepSearchingCatalog
	StepMatchReview
	StepConfirmOrder
	StepAddingToQuote
	StepCrossSellOffer
	StepCrossSellConfirm
	StepDone
)

var stepNames = map[Step]string{
	StepGreeting:         "greeting",
	StepOpenQuestion:     "open-question",
	StepUploadPrompt:     "upload-prompt",
	StepProcessingUpload: "processing-upload",
	StepItemReview:       "item-review",
	StepSearchingCatalog: "searching-catalog",
	StepMatchReview:      "match-review",
	StepConfirmOrder:     "confirm-order",
	StepAddingToQuote:    "adding-to-quote",
	StepCrossSellOffer:   "cross-sell-offer",
	StepCrossSellConfirm: "cross-sell-confirm",
	StepDone:             "done",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}
