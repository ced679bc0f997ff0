package domain

// Snapshot is the unit of conversation persistence, keyed by a storage
// key. It is overwritten after every committed message and deleted on
// explicit reset.
type Snapshot struct {
	Messages    []Message `json:"messages"`
	StepCounter int       `json:"step_counter"`
}

// Clone returns a deep-enough copy: the message slice is copied so the
// caller cannot mutate a stored snapshot's ordering, while messages
// themselves are treated as immutable once appended.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Messages:    make([]Message, len(s.Messages)),
		StepCounter: s.StepCounter,
	}
	copy(out.Messages, s.Messages)
	return out
}
