package domain

import "fmt"

// Response is the pre-authored bundle a script node replies with.
type Response struct {
	Text       string        `json:"text" yaml:"text"`
	Components DirectiveList `json:"components,omitempty" yaml:"-"`
	Actions    []Action      `json:"actions,omitempty" yaml:"actions"`
	FollowUps  []string      `json:"follow_ups,omitempty" yaml:"follow_ups"`
}

// ScriptNode maps exemplar trigger phrases to a response bundle.
// Triggers are examples, not a grammar. Nodes are static configuration
// and are never mutated at runtime. A node with no triggers is only
// reachable through an explicit TargetNode reference.
type ScriptNode struct {
	ID       string   `json:"id" yaml:"id"`
	Triggers []string `json:"triggers,omitempty" yaml:"triggers"`
	Response Response `json:"response" yaml:"response"`
}

// ScriptGraph is an immutable, ordered corpus of script nodes.
// Iteration order is the authoring order, which acts as the tie-break
// for exact-match resolution.
type ScriptGraph struct {
	nodes []ScriptNode
	index map[string]int
}

// NewScriptGraph builds a graph, rejecting duplicate node IDs.
func NewScriptGraph(nodes ...ScriptNode) (*ScriptGraph, error) {
	g := &ScriptGraph{
		nodes: make([]ScriptNode, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	copy(g.nodes, nodes)
	for i, n := range g.nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("script node %d has no id", i)
		}
		if _, dup := g.index[n.ID]; dup {
			return nil, fmt.Errorf("duplicate script node id %q", n.ID)
		}
		g.index[n.ID] = i
	}
	return g, nil
}

// Node returns the node with the given ID.
func (g *ScriptGraph) Node(id string) (ScriptNode, bool) {
	i, ok := g.index[id]
	if !ok {
		return ScriptNode{}, false
	}
	return g.nodes[i], true
}

// Nodes returns the nodes in authoring order. Callers must not mutate
// the returned slice.
func (g *ScriptGraph) Nodes() []ScriptNode {
	return g.nodes
}

// Len returns the number of nodes in the graph.
func (g *ScriptGraph) Len() int {
	return len(g.nodes)
}
