package script

import (
	"fmt"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

// Validate checks graph invariants that the type system cannot:
//
//   - every action or confirmation card referencing a target node must
//     point at a node present in the graph;
//   - free-text reachable nodes must have at least one non-blank
//     trigger (nodes with no triggers are legal, but only reachable
//     through an explicit target reference).
func Validate(graph *domain.ScriptGraph) error {
	var errs []string

	referenced := make(map[string]bool)
	for _, node := range graph.Nodes() {
		for _, a := range node.Response.Actions {
			if a.TargetNode != "" {
				referenced[a.TargetNode] = true
				if _, ok := graph.Node(a.TargetNode); !ok {
					errs = append(errs, fmt.Sprintf("node %q: action %q targets unknown node %q", node.ID, a.Label, a.TargetNode))
				}
			}
		}
		for _, c := range node.Response.Components {
			card, ok := c.(domain.ConfirmationCardDirective)
			if !ok {
				continue
			}
			if card.ApplyNode == "" {
				errs = append(errs, fmt.Sprintf("node %q: confirmation card %q has no apply node", node.ID, card.Title))
				continue
			}
			referenced[card.ApplyNode] = true
			if _, ok := graph.Node(card.ApplyNode); !ok {
				errs = append(errs, fmt.Sprintf("node %q: confirmation card targets unknown node %q", node.ID, card.ApplyNode))
			}
		}

		for _, trig := range node.Triggers {
			if strings.TrimSpace(trig) == "" {
				errs = append(errs, fmt.Sprintf("node %q has a blank trigger", node.ID))
			}
		}
	}

	// Trigger-less nodes are fine when referenced; orphans are authoring
	// mistakes that free text can never reach.
	for _, node := range graph.Nodes() {
		if len(node.Triggers) == 0 && !referenced[node.ID] {
			errs = append(errs, fmt.Sprintf("node %q has no triggers and is never referenced", node.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid script graph:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
