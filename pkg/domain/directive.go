package domain

import (
	"encoding/json"
	"fmt"
)

// Directive kinds. The set is closed: the engine never inspects a
// directive beyond this discriminant, but hosts switch on it to pick
// a widget.
const (
	DirectiveChart        = "chart"
	DirectiveTable        = "table"
	DirectiveConfirmation = "confirmation"
	DirectiveInsight      = "insight"
)

// Directive describes a non-text UI element rendered with a message.
// Implementations form a closed tagged union; the engine passes them
// through untouched.
type Directive interface {
	Kind() string
	directive()
}

// ChartDirective asks the host to render a chart over an externally
// supplied dataset identified by DataKey.
type ChartDirective struct {
	ChartKind string `json:"chart_kind" mapstructure:"chart_kind"`
	Title     string `json:"title" mapstructure:"title"`
	DataKey   string `json:"data_key" mapstructure:"data_key"`
}

func (ChartDirective) Kind() string { return DirectiveChart }
func (ChartDirective) directive()   {}

// TableDirective asks the host to render a table over an externally
// supplied dataset identified by DataKey.
type TableDirective struct {
	Title   string   `json:"title" mapstructure:"title"`
	DataKey string   `json:"data_key" mapstructure:"data_key"`
	Columns []string `json:"columns,omitempty" mapstructure:"columns"`
}

func (TableDirective) Kind() string { return DirectiveTable }
func (TableDirective) directive()   {}

// FieldDiff is one before/after row on a confirmation card.
type FieldDiff struct {
	Label  string `json:"label" mapstructure:"label"`
	Before string `json:"before" mapstructure:"before"`
	After  string `json:"after" mapstructure:"after"`
}

// ConfirmationCardDirective asks the host to render an apply/cancel
// card. ApplyNode names the script node the apply callback jumps to.
type ConfirmationCardDirective struct {
	Title     string      `json:"title" mapstructure:"title"`
	ApplyNode string      `json:"apply_node" mapstructure:"apply_node"`
	Fields    []FieldDiff `json:"fields,omitempty" mapstructure:"fields"`
}

func (ConfirmationCardDirective) Kind() string { return DirectiveConfirmation }
func (ConfirmationCardDirective) directive()   {}

// Insight severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// InsightDirective asks the host to render a callout.
type InsightDirective struct {
	Severity string `json:"severity" mapstructure:"severity"`
	Title    string `json:"title" mapstructure:"title"`
	Body     string `json:"body" mapstructure:"body"`
}

func (InsightDirective) Kind() string { return DirectiveInsight }
func (InsightDirective) directive()   {}

// DirectiveList carries directives through JSON with a "type" tag so
// snapshots round-trip the union without the host losing the variant.
type DirectiveList []Directive

// MarshalJSON flattens each directive with its discriminant.
func (l DirectiveList) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(l))
	for _, d := range l {
		body, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		m := map[string]any{}
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		m["type"] = d.Kind()
		out = append(out, m)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the concrete variants from the "type" tag.
func (l *DirectiveList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	list := make(DirectiveList, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return err
		}
		d, err := NewDirective(head.Type)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, d); err != nil {
			return err
		}
		list = append(list, deref(d))
	}
	*l = list
	return nil
}

// NewDirective returns a pointer to a zero value of the variant named
// by kind, for decoders (JSON, mapstructure) to fill in.
func NewDirective(kind string) (Directive, error) {
	switch kind {
	case DirectiveChart:
		return &ChartDirective{}, nil
	case DirectiveTable:
		return &TableDirective{}, nil
	case DirectiveConfirmation:
		return &ConfirmationCardDirective{}, nil
	case DirectiveInsight:
		return &InsightDirective{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDirective, kind)
	}
}

func deref(d Directive) Directive {
	switch v := d.(type) {
	case *ChartDirective:
		return *v
	case *TableDirective:
		return *v
	case *ConfirmationCardDirective:
		return *v
	case *InsightDirective:
		return *v
	default:
		return d
	}
}
