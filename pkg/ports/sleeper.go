package ports

import (
	"context"
	"time"
)

// Sleeper abstracts the timing primitive behind pacing delays (thinking
// pause, per-word streaming, checklist animation). Implementations must
// return early with ctx.Err() when the context is cancelled.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealSleeper returns a Sleeper backed by time.Timer.
func RealSleeper() Sleeper {
	return realSleeper{}
}

type nopSleeper struct{}

func (nopSleeper) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

// NopSleeper returns a Sleeper that only observes cancellation. It is
// intended for tests, where pacing is noise.
func NopSleeper() Sleeper {
	return nopSleeper{}
}
