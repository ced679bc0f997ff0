package script

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/parley/pkg/domain"
)

// yamlNode mirrors the on-disk script document. Component payloads stay
// as raw maps here; decoding into the directive union happens after the
// discriminant is known.
type yamlNode struct {
	ID       string   `yaml:"id"`
	Triggers []string `yaml:"triggers"`
	Response struct {
		Text       string           `yaml:"text"`
		Components []map[string]any `yaml:"components"`
		Actions    []yamlAction     `yaml:"actions"`
		FollowUps  []string         `yaml:"follow_ups"`
	} `yaml:"response"`
}

type yamlAction struct {
	Label      string `yaml:"label"`
	TargetNode string `yaml:"target_node"`
	Style      string `yaml:"style"`
	FollowUp   bool   `yaml:"follow_up"`
}

type yamlDocument struct {
	Nodes []yamlNode `yaml:"nodes"`
}

// Load parses and validates a script graph from a YAML document.
func Load(r io.Reader) (*domain.ScriptGraph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script document: %w", err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse script document: %w", err)
	}

	nodes := make([]domain.ScriptNode, 0, len(doc.Nodes))
	for _, yn := range doc.Nodes {
		node := domain.ScriptNode{
			ID:       yn.ID,
			Triggers: yn.Triggers,
		}
		node.Response.Text = yn.Response.Text
		node.Response.FollowUps = yn.Response.FollowUps
		for _, ya := range yn.Response.Actions {
			node.Response.Actions = append(node.Response.Actions, domain.Action{
				Label:      ya.Label,
				TargetNode: ya.TargetNode,
				Style:      domain.ActionStyle(ya.Style),
				FollowUp:   ya.FollowUp,
			})
		}
		for i, raw := range yn.Response.Components {
			d, err := decodeDirective(raw)
			if err != nil {
				return nil, fmt.Errorf("node %q component %d: %w", yn.ID, i, err)
			}
			node.Response.Components = append(node.Response.Components, d)
		}
		nodes = append(nodes, node)
	}

	graph, err := domain.NewScriptGraph(nodes...)
	if err != nil {
		return nil, err
	}
	if err := Validate(graph); err != nil {
		return nil, err
	}
	return graph, nil
}

// LoadFile loads a script graph from a YAML file on disk.
func LoadFile(path string) (*domain.ScriptGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// decodeDirective maps a raw YAML component onto its union variant,
// selected by the "type" discriminant.
func decodeDirective(raw map[string]any) (domain.Directive, error) {
	kind, _ := raw["type"].(string)
	target, err := domain.NewDirective(kind)
	if err != nil {
		return nil, err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build directive decoder: %w", err)
	}
	delete(raw, "type")
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode %q directive: %w", kind, err)
	}

	switch v := target.(type) {
	case *domain.ChartDirective:
		return *v, nil
	case *domain.TableDirective:
		return *v, nil
	case *domain.ConfirmationCardDirective:
		return *v, nil
	case *domain.InsightDirective:
		return *v, nil
	default:
		return target, nil
	}
}
