package parley

import (
	"fmt"

	"github.com/aretw0/parley/pkg/conversation"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/script"
)

// Version of the library.
const Version = "0.1.0"

// New loads a script from a YAML file and builds a conversation engine
// for it. Options pass straight through to the engine.
func New(path string, opts ...conversation.Option) (*conversation.Controller, error) {
	graph, err := script.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return conversation.New(graph, opts...)
}

// NewFromGraph builds a conversation engine from an in-memory script
// graph, typically assembled with the script package's builder.
func NewFromGraph(graph *domain.ScriptGraph, opts ...conversation.Option) (*conversation.Controller, error) {
	return conversation.New(graph, opts...)
}
