package workflow

import "strings"

// uploadKeywords classifies the step-2 free-text reply. Presence of any
// keyword advances the flow to the upload prompt; anything else gets a
// redirect while the flow stays put.
var uploadKeywords = []string{
	"list",
	"scan",
	"upload",
	"photo",
	"picture",
	"image",
	"attach",
	"file",
	"handwritten",
}

func wantsUpload(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range uploadKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
