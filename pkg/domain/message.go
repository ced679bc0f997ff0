package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source records how an assistant response was selected.
type Source string

const (
	// SourceScript means the response came from a matched script node.
	SourceScript Source = "script"
	// SourceFallback means no node cleared the acceptance threshold.
	SourceFallback Source = "fallback"
)

// Metadata describes the resolution that produced an assistant message.
type Metadata struct {
	NodeID     string  `json:"node_id,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Source     Source  `json:"source"`
}

// Message is one entry in the conversation transcript.
// Messages are immutable once appended; the in-flight assistant message
// is held outside the transcript until its text has fully streamed.
type Message struct {
	ID         string        `json:"id"`
	Role       Role          `json:"role"`
	Text       string        `json:"text"`
	Timestamp  time.Time     `json:"timestamp"`
	Components DirectiveList `json:"components,omitempty"`
	Actions    []Action      `json:"actions,omitempty"`
	FollowUps  []string      `json:"follow_ups,omitempty"`
	Metadata   *Metadata     `json:"metadata,omitempty"`
}

// ActionStyle controls how the host renders an action button.
type ActionStyle string

const (
	ActionPrimary   ActionStyle = "primary"
	ActionSecondary ActionStyle = "secondary"
	ActionDanger    ActionStyle = "danger"
)

// Action is a button attached to an assistant message. Clicking one
// re-enters the conversation as if the user had typed its label.
// TargetNode, when set, forces resolution to a specific script node by
// identifier, bypassing matching (used for confirm/cancel callbacks).
type Action struct {
	Label      string      `json:"label"`
	TargetNode string      `json:"target_node,omitempty"`
	Style      ActionStyle `json:"style,omitempty"`
	FollowUp   bool        `json:"follow_up,omitempty"`
}
