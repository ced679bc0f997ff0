// Package conversation orchestrates scripted conversation turns: free
// text in, a thinking pause, a word-by-word streamed response out, and
// a committed transcript persisted after every message.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/match"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/stream"
)

// Controller runs one conversation against a static script graph.
//
// A turn moves through idle -> thinking -> streaming -> idle. The user
// message is appended synchronously before SendMessage returns; the
// assistant message is committed atomically once its text has fully
// streamed. Sends that arrive mid-turn are rejected with
// domain.ErrBusy rather than racing.
type Controller struct {
	graph    *domain.ScriptGraph
	resolver *match.Resolver
	revealer *stream.Revealer
	store    ports.SnapshotStore
	key      string
	logger   *slog.Logger
	sleeper  ports.Sleeper
	rng      *rand.Rand

	thinkMin    time.Duration
	thinkMax    time.Duration
	streamDelay time.Duration
	seedText    string
	fallback    domain.Response
	cancelText  string
	observers   []domain.Observer

	mu             sync.Mutex
	seed           domain.Message
	messages       []domain.Message
	stepCounter    int
	typing         bool
	streaming      bool
	streamedText   string
	showComponents bool
	turnCancel     context.CancelFunc
	turnDone       chan struct{}
}

// response plans what a turn will stream once the thinking delay ends.
type response struct {
	bundle domain.Response
	meta   *domain.Metadata
}

// New creates a Controller over a script graph. If a store and key are
// configured and a non-empty snapshot exists, the transcript is
// restored from it; any persistence failure degrades to the seeded
// initial message.
func New(graph *domain.ScriptGraph, opts ...Option) (*Controller, error) {
	if graph == nil {
		return nil, errors.New("conversation: script graph is required")
	}

	c := &Controller{
		graph:          graph,
		resolver:       match.NewResolver(graph),
		logger:         logging.NewNop(),
		sleeper:        ports.RealSleeper(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		thinkMin:       DefaultThinkMin,
		thinkMax:       DefaultThinkMax,
		streamDelay:    stream.DefaultDelay,
		seedText:       "Hi! I'm your order assistant. Ask me about margins, stock, or delivery.",
		cancelText:     "No problem, I've cancelled that. Nothing was changed.",
		showComponents: true,
		fallback: domain.Response{
			Text:      "Sorry, I didn't quite get that. Here are some things I can help with:",
			FollowUps: []string{"Show me the margin breakdown", "Check stock levels", "What's the delivery status?"},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.revealer = stream.NewRevealer(
		stream.WithDelay(c.streamDelay),
		stream.WithSleeper(c.sleeper),
	)

	c.seed = c.newMessage(domain.RoleAssistant, c.seedText)
	c.messages = []domain.Message{c.seed}

	if c.store != nil && c.key != "" {
		snap, err := c.store.Load(context.Background(), c.key)
		switch {
		case err == nil && len(snap.Messages) > 0:
			c.messages = snap.Messages
			c.stepCounter = snap.StepCounter
			// Keep the restored greeting as the seed so a later reset
			// rewinds to the conversation's original first message.
			if snap.Messages[0].Role == domain.RoleAssistant {
				c.seed = snap.Messages[0]
			}
		case err != nil && !errors.Is(err, domain.ErrSnapshotNotFound):
			c.logger.Warn("snapshot unavailable, starting fresh", "key", c.key, "err", err)
		}
	}

	return c, nil
}

// SendMessage runs one free-text turn. Blank input is a no-op. The user
// message is appended and persisted before SendMessage returns; the
// response resolves, streams, and commits asynchronously (Flush waits
// for it). Returns domain.ErrBusy while a previous turn is in flight.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return c.startTurn(ctx, trimmed, func() response {
		if m, ok := c.resolver.Resolve(trimmed); ok {
			node, _ := c.graph.Node(m.NodeID)
			return response{
				bundle: node.Response,
				meta:   &domain.Metadata{NodeID: m.NodeID, Confidence: m.Confidence, Source: domain.SourceScript},
			}
		}
		return response{bundle: c.fallback, meta: &domain.Metadata{Source: domain.SourceFallback}}
	})
}

// SendAction re-enters the conversation as if the user had typed the
// action's label. When the action carries a target node, resolution is
// bypassed and the turn jumps straight to that node; an unknown target
// is an authoring defect and leaves the conversation untouched.
func (c *Controller) SendAction(ctx context.Context, action domain.Action) error {
	if action.TargetNode == "" {
		return c.SendMessage(ctx, action.Label)
	}

	node, ok := c.graph.Node(action.TargetNode)
	if !ok {
		c.logger.Warn("action references unknown node", "label", action.Label, "target", action.TargetNode)
		return domain.ErrUnknownNode
	}
	label := strings.TrimSpace(action.Label)
	if label == "" {
		label = action.TargetNode
	}
	return c.startTurn(ctx, label, func() response {
		return response{
			bundle: node.Response,
			meta:   &domain.Metadata{NodeID: node.ID, Confidence: 1.0, Source: domain.SourceScript},
		}
	})
}

// Apply jumps straight to a named node's response, bypassing matching.
// Confirmation cards use it for their apply callback. An unknown node
// leaves the conversation untouched.
func (c *Controller) Apply(ctx context.Context, nodeID string) error {
	node, ok := c.graph.Node(nodeID)
	if !ok {
		c.logger.Warn("apply references unknown node", "node", nodeID)
		return domain.ErrUnknownNode
	}
	return c.startTurn(ctx, "", func() response {
		return response{
			bundle: node.Response,
			meta:   &domain.Metadata{NodeID: node.ID, Confidence: 1.0, Source: domain.SourceScript},
		}
	})
}

// Cancel streams the fixed change-cancelled message. Confirmation cards
// use it for their cancel callback.
func (c *Controller) Cancel(ctx context.Context) error {
	return c.startTurn(ctx, "", func() response {
		return response{bundle: domain.Response{Text: c.cancelText}}
	})
}

// Reset cancels any in-flight turn, restores the transcript to the
// seeded initial message, and clears the persisted snapshot.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.turnCancel != nil {
		c.turnCancel()
		c.turnCancel = nil
	}
	c.revealer.Cancel()
	c.turnDone = nil
	c.typing = false
	c.streaming = false
	c.streamedText = ""
	c.showComponents = true
	c.messages = []domain.Message{c.seed}
	c.stepCounter = 0
	// Clearing the store inside the critical section keeps it ordered
	// with turn commits: a racing turn either loses the lock and skips
	// its stale persist, or its snapshot is deleted here after it.
	if c.store != nil && c.key != "" {
		if err := c.store.Delete(ctx, c.key); err != nil {
			c.logger.Warn("failed to clear snapshot", "key", c.key, "err", err)
		}
	}
	c.mu.Unlock()

	c.emit(domain.Event{Type: domain.EventReset})
	return nil
}

// Flush blocks until no turn is in flight. It is a convenience for
// hosts (and tests) that want the settled transcript.
func (c *Controller) Flush(ctx context.Context) error {
	for {
		c.mu.Lock()
		busy := c.typing || c.streaming
		done := c.turnDone
		c.mu.Unlock()

		if !busy || done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Messages returns a copy of the committed transcript.
func (c *Controller) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// IsTyping reports whether the simulated thinking delay is running.
func (c *Controller) IsTyping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// IsStreaming reports whether a response text is being revealed.
func (c *Controller) IsStreaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// StreamedText returns the last revealed prefix of the in-flight
// assistant message.
func (c *Controller) StreamedText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streamedText
}

// StreamingIndex returns the transcript index the in-flight assistant
// message will occupy, or -1 when nothing is streaming.
func (c *Controller) StreamingIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.streaming {
		return -1
	}
	return len(c.messages)
}

// ShowComponents reports whether directives and action buttons of the
// latest assistant message may render. It is false from turn start
// until the text reveal finishes, so a chart never pops in
// mid-sentence.
func (c *Controller) ShowComponents() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showComponents
}

// Busy reports whether a turn is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing || c.streaming
}

// StorageKey returns the configured persistence key, if any.
func (c *Controller) StorageKey() string {
	return c.key
}

// startTurn appends the optional user message, arms the turn machinery
// and spawns the asynchronous thinking/streaming/commit sequence.
func (c *Controller) startTurn(ctx context.Context, userText string, respond func() response) error {
	c.mu.Lock()
	if c.typing || c.streaming {
		c.mu.Unlock()
		return domain.ErrBusy
	}

	var userMsg *domain.Message
	if userText != "" {
		m := c.newMessage(domain.RoleUser, userText)
		c.messages = append(c.messages, m)
		c.stepCounter++
		userMsg = &m
	}
	userIdx := len(c.messages) - 1

	c.typing = true
	c.showComponents = false
	c.streamedText = ""

	turnCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.turnCancel = cancel
	c.turnDone = done
	delay := c.thinkingDelay()
	if userMsg != nil {
		c.persist(ctx, c.snapshotLocked())
	}
	c.mu.Unlock()

	if userMsg != nil {
		c.emit(domain.Event{Type: domain.EventUserMessage, Message: userMsg, Index: userIdx})
	}

	go c.runTurn(turnCtx, cancel, done, delay, respond)
	return nil
}

// runTurn is the body of one asynchronous turn.
func (c *Controller) runTurn(ctx context.Context, cancel context.CancelFunc, done chan struct{}, delay time.Duration, respond func() response) {
	defer close(done)
	defer cancel()

	c.emit(domain.Event{Type: domain.EventTypingStarted})
	if err := c.sleeper.Sleep(ctx, delay); err != nil {
		c.abandon(done)
		return
	}

	r := respond()

	c.mu.Lock()
	if c.turnDone != done {
		c.mu.Unlock()
		return
	}
	c.typing = false
	c.streaming = true
	idx := len(c.messages)
	c.mu.Unlock()

	err := c.revealer.Reveal(ctx, r.bundle.Text, func(prefix string) {
		c.mu.Lock()
		c.streamedText = prefix
		c.mu.Unlock()
		c.emit(domain.Event{Type: domain.EventStreamChunk, Chunk: prefix, Index: idx})
	})
	if err != nil {
		c.abandon(done)
		return
	}

	msg := c.newMessage(domain.RoleAssistant, r.bundle.Text)
	msg.Components = r.bundle.Components
	msg.Actions = r.bundle.Actions
	msg.FollowUps = r.bundle.FollowUps
	msg.Metadata = r.meta

	c.mu.Lock()
	if c.turnDone != done {
		// Reset raced the commit; the turn is already discarded.
		c.mu.Unlock()
		return
	}
	c.messages = append(c.messages, msg)
	c.stepCounter++
	c.streaming = false
	c.streamedText = ""
	c.showComponents = true
	c.turnCancel = nil
	// Persist before releasing the lock so a reset cannot slot in
	// between the commit and the save and be overwritten by it.
	c.persist(ctx, c.snapshotLocked())
	c.mu.Unlock()

	c.emit(domain.Event{Type: domain.EventMessageCommitted, Message: &msg, Index: idx})
}

// abandon clears the in-flight flags of a cancelled turn, unless a
// newer turn or a reset already took over.
func (c *Controller) abandon(done chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.turnDone != done {
		return
	}
	c.typing = false
	c.streaming = false
	c.streamedText = ""
	c.showComponents = true
	c.turnCancel = nil
}

func (c *Controller) thinkingDelay() time.Duration {
	if c.thinkMax <= c.thinkMin {
		return c.thinkMin
	}
	return c.thinkMin + time.Duration(c.rng.Int63n(int64(c.thinkMax-c.thinkMin)))
}

func (c *Controller) snapshotLocked() *domain.Snapshot {
	snap := &domain.Snapshot{
		Messages:    make([]domain.Message, len(c.messages)),
		StepCounter: c.stepCounter,
	}
	copy(snap.Messages, c.messages)
	return snap
}

func (c *Controller) persist(ctx context.Context, snap *domain.Snapshot) {
	if c.store == nil || c.key == "" {
		return
	}
	if err := c.store.Save(ctx, c.key, snap); err != nil {
		c.logger.Warn("failed to persist snapshot", "key", c.key, "err", err)
	}
}

func (c *Controller) emit(e domain.Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	for _, obs := range c.observers {
		obs(e)
	}
}

func (c *Controller) newMessage(role domain.Role, text string) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}
