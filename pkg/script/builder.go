// Package script authors and loads script graphs: the static corpus of
// trigger phrases mapped to pre-authored response bundles that drives
// the conversation engine.
package script

import (
	"fmt"

	"github.com/aretw0/parley/pkg/domain"
)

// Builder provides a fluent API for constructing a script graph
// programmatically, useful for tests and generated corpora.
type Builder struct {
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Node creates (or returns) the node with the given ID.
func (b *Builder) Node(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.ScriptNode{ID: id},
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles and validates the graph.
func (b *Builder) Build() (*domain.ScriptGraph, error) {
	nodes := make([]domain.ScriptNode, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].node)
	}
	graph, err := domain.NewScriptGraph(nodes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build script graph: %w", err)
	}
	if err := Validate(graph); err != nil {
		return nil, err
	}
	return graph, nil
}

// NodeBuilder configures one script node.
type NodeBuilder struct {
	node domain.ScriptNode
}

// Triggers sets the exemplar phrases that route free text to this node.
func (n *NodeBuilder) Triggers(phrases ...string) *NodeBuilder {
	n.node.Triggers = append(n.node.Triggers, phrases...)
	return n
}

// Text sets the response text.
func (n *NodeBuilder) Text(text string) *NodeBuilder {
	n.node.Response.Text = text
	return n
}

// Component attaches a directive to the response bundle.
func (n *NodeBuilder) Component(d domain.Directive) *NodeBuilder {
	n.node.Response.Components = append(n.node.Response.Components, d)
	return n
}

// Action attaches an action button to the response bundle.
func (n *NodeBuilder) Action(a domain.Action) *NodeBuilder {
	n.node.Response.Actions = append(n.node.Response.Actions, a)
	return n
}

// FollowUps sets the follow-up suggestions shown after the response.
func (n *NodeBuilder) FollowUps(suggestions ...string) *NodeBuilder {
	n.node.Response.FollowUps = append(n.node.Response.FollowUps, suggestions...)
	return n
}
