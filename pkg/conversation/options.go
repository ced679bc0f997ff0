package conversation

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Defaults for the pacing band of the simulated thinking delay.
const (
	DefaultThinkMin = 600 * time.Millisecond
	DefaultThinkMax = 1400 * time.Millisecond
)

// Option configures a Controller.
type Option func(*Controller)

// WithStore enables snapshot persistence under the given storage key.
// An existing non-empty snapshot is restored on construction.
func WithStore(store ports.SnapshotStore, key string) Option {
	return func(c *Controller) {
		c.store = store
		c.key = key
	}
}

// WithLogger configures the internal logger. Defaults to a no-op.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSleeper injects the timing primitive for the thinking delay.
// Tests use ports.NopSleeper.
func WithSleeper(s ports.Sleeper) Option {
	return func(c *Controller) {
		c.sleeper = s
	}
}

// WithThinkingDelay overrides the randomized thinking band.
func WithThinkingDelay(min, max time.Duration) Option {
	return func(c *Controller) {
		c.thinkMin = min
		c.thinkMax = max
	}
}

// WithStreamDelay overrides the per-word streaming delay.
func WithStreamDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.streamDelay = d
	}
}

// WithSeedText replaces the initial assistant greeting.
func WithSeedText(text string) Option {
	return func(c *Controller) {
		c.seedText = text
	}
}

// WithFallback replaces the response used when no node clears the
// acceptance threshold.
func WithFallback(resp domain.Response) Option {
	return func(c *Controller) {
		c.fallback = resp
	}
}

// WithCancelText replaces the fixed message streamed when a pending
// change is cancelled.
func WithCancelText(text string) Option {
	return func(c *Controller) {
		c.cancelText = text
	}
}

// WithObserver registers an event observer. Observers are invoked
// synchronously and must not block.
func WithObserver(obs domain.Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, obs)
	}
}

// WithRandSource makes the thinking delay deterministic, for tests.
func WithRandSource(src rand.Source) Option {
	return func(c *Controller) {
		c.rng = rand.New(src)
	}
}
