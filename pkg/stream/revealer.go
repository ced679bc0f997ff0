// Package stream simulates the progressive, word-by-word disclosure of
// a response string. It is cosmetic pacing: no real work happens
// between emissions, but the timing contract is part of the UX.
package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/parley/pkg/ports"
)

// DefaultDelay is the pause between word emissions.
const DefaultDelay = 18 * time.Millisecond

// Revealer emits successively longer prefixes of a text, each ending at
// a word boundary, with the final emission equal to the full string.
//
// A Revealer owns a single logical stream: starting a new Reveal
// invalidates any prior in-flight one. Cancellation is cooperative; a
// cancelled reveal stops before its next tick, leaving the last emitted
// prefix as final state.
type Revealer struct {
	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	delay   time.Duration
	sleeper ports.Sleeper
}

// Option configures a Revealer.
type Option func(*Revealer)

// WithDelay overrides the per-word delay.
func WithDelay(d time.Duration) Option {
	return func(r *Revealer) {
		r.delay = d
	}
}

// WithSleeper injects the timing primitive. Tests use ports.NopSleeper.
func WithSleeper(s ports.Sleeper) Option {
	return func(r *Revealer) {
		r.sleeper = s
	}
}

// NewRevealer creates a Revealer with the default pacing.
func NewRevealer(opts ...Option) *Revealer {
	r := &Revealer{
		delay:   DefaultDelay,
		sleeper: ports.RealSleeper(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reveal streams text to emit, one whole word at a time. Each call to
// emit receives a strict prefix of text ending at a space boundary,
// except the last, which is text itself. Reveal blocks until the text
// is fully emitted or the reveal is cancelled, returning ctx.Err() in
// the latter case.
func (r *Revealer) Reveal(ctx context.Context, text string, emit func(prefix string)) error {
	ctx, gen := r.begin(ctx)

	for _, cut := range wordBoundaries(text) {
		if err := r.sleeper.Sleep(ctx, r.delay); err != nil {
			return err
		}
		if r.stale(gen) {
			return context.Canceled
		}
		emit(text[:cut])
	}

	if err := r.sleeper.Sleep(ctx, r.delay); err != nil {
		return err
	}
	if r.stale(gen) {
		return context.Canceled
	}
	emit(text)
	return nil
}

// Cancel stops any in-flight reveal. It is safe to call concurrently
// with Reveal and when nothing is streaming.
func (r *Revealer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
}

// begin supersedes any prior reveal and returns the derived context
// along with this reveal's generation stamp.
func (r *Revealer) begin(parent context.Context) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.gen++
	return ctx, r.gen
}

func (r *Revealer) stale(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen != gen
}

// wordBoundaries returns the cut offsets of the strict word-boundary
// prefixes of text: every index of a space that follows a non-space.
// The full-text emission is handled by the caller.
func wordBoundaries(text string) []int {
	var cuts []int
	start := 0
	for {
		i := strings.IndexByte(text[start:], ' ')
		if i < 0 {
			return cuts
		}
		cut := start + i
		if cut > 0 && text[cut-1] != ' ' {
			cuts = append(cuts, cut)
		}
		start = cut + 1
		if start >= len(text) {
			return cuts
		}
	}
}
