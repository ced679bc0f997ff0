package match

import (
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// Scoring constants. These are tuned against the authored trigger
// corpus; change them and existing scripts re-route.
const (
	// ContainmentScore is awarded when the normalized input contains a
	// trigger or vice versa.
	ContainmentScore = 0.85
	// Threshold is the minimum confidence for a match to be accepted.
	Threshold = 0.45
)

// Match is a resolved script node with its confidence score.
type Match struct {
	NodeID     string
	Confidence float64
}

// Resolver selects the best-matching script node for free text.
type Resolver struct {
	graph *domain.ScriptGraph
}

// NewResolver creates a resolver over a static script graph.
func NewResolver(graph *domain.ScriptGraph) *Resolver {
	return &Resolver{graph: graph}
}

// Resolve scores input against every trigger of every node and returns
// the best match, or ok=false when nothing clears the threshold.
//
// Per trigger, in priority order: an exact match (case-insensitive,
// trimmed) scores 1.0 and short-circuits the whole search, with node
// authoring order as tie-break; containment in either direction scores
// a fixed ContainmentScore; otherwise the trigram similarity is used.
// A candidate only replaces the running best if strictly greater.
func (r *Resolver) Resolve(input string) (Match, bool) {
	norm := normalize(input)
	if norm == "" {
		return Match{}, false
	}

	var best Match
	for _, node := range r.graph.Nodes() {
		for _, trigger := range node.Triggers {
			t := normalize(trigger)
			if t == "" {
				continue
			}
			if norm == t {
				return Match{NodeID: node.ID, Confidence: 1.0}, true
			}

			var score float64
			if strings.Contains(norm, t) || strings.Contains(t, norm) {
				score = ContainmentScore
			} else {
				score = Similarity(norm, t)
			}
			if score > best.Confidence {
				best = Match{NodeID: node.ID, Confidence: score}
			}
		}
	}

	if best.Confidence >= Threshold {
		return best, true
	}
	return Match{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
