package domain

import "time"

// EventType defines the category of a conversation event.
type EventType string

const (
	// EventUserMessage fires when a user message is appended.
	EventUserMessage EventType = "user_message"
	// EventTypingStarted fires when the simulated thinking delay begins.
	EventTypingStarted EventType = "typing_started"
	// EventStreamChunk fires for each revealed prefix of the in-flight
	// assistant text.
	EventStreamChunk EventType = "stream_chunk"
	// EventMessageCommitted fires when a fully streamed assistant
	// message is appended to the transcript.
	EventMessageCommitted EventType = "message_committed"
	// EventReset fires when the conversation is reset to its seed.
	EventReset EventType = "reset"
	// EventChecklist fires when a guided-workflow processing checklist
	// changes state.
	EventChecklist EventType = "checklist"
)

// ChecklistStatus tracks one item of a processing animation.
type ChecklistStatus string

const (
	ChecklistPending  ChecklistStatus = "pending"
	ChecklistSpinning ChecklistStatus = "spinning"
	ChecklistChecked  ChecklistStatus = "checked"
)

// ChecklistItem is one labeled operation in a processing animation.
type ChecklistItem struct {
	Label  string          `json:"label"`
	Status ChecklistStatus `json:"status"`
}

// Event is delivered to conversation observers. Fields beyond Type are
// populated per event kind.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// Message is set for user_message and message_committed.
	Message *Message
	// Index is the transcript index of Message, or the index the
	// in-flight assistant message will occupy for stream_chunk.
	Index int
	// Chunk is the revealed text prefix for stream_chunk.
	Chunk string
	// Checklist is the current checklist state for checklist events.
	Checklist []ChecklistItem
}

// Observer receives conversation events. Observers are invoked
// synchronously from the engine's turn and must not block.
type Observer func(Event)
