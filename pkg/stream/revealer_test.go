package stream

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/parley/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, text string) []string {
	t.Helper()
	r := NewRevealer(WithSleeper(ports.NopSleeper()))
	var got []string
	err := r.Reveal(context.Background(), text, func(prefix string) {
		got = append(got, prefix)
	})
	require.NoError(t, err)
	return got
}

func TestReveal_FinalEmissionIsExactText(t *testing.T) {
	text := "Hello world foo"
	got := collect(t, text)
	require.NotEmpty(t, got)
	assert.Equal(t, text, got[len(got)-1])
}

func TestReveal_WordBoundaries(t *testing.T) {
	text := "Hello world foo"
	got := collect(t, text)
	require.Equal(t, []string{"Hello", "Hello world", "Hello world foo"}, got)

	// Every intermediate emission is a prefix ending at a space boundary.
	for _, p := range got[:len(got)-1] {
		assert.True(t, strings.HasPrefix(text, p))
		assert.Equal(t, byte(' '), text[len(p)], "prefix %q must end at a space boundary", p)
	}
}

func TestReveal_SingleWord(t *testing.T) {
	got := collect(t, "Hello")
	assert.Equal(t, []string{"Hello"}, got)
}

func TestReveal_EmptyText(t *testing.T) {
	got := collect(t, "")
	assert.Equal(t, []string{""}, got)
}

func TestReveal_Cancel(t *testing.T) {
	r := NewRevealer(WithDelay(5 * time.Millisecond))

	var mu strings.Builder
	done := make(chan error, 1)
	go func() {
		done <- r.Reveal(context.Background(), "one two three four five six seven", func(prefix string) {
			mu.Reset()
			mu.WriteString(prefix)
		})
	}()

	time.Sleep(12 * time.Millisecond)
	r.Cancel()

	err := <-done
	require.Error(t, err)
	// No further emissions after cancellation; whatever was last emitted
	// is a stable prefix, never a partial word.
	last := mu.String()
	assert.NotEqual(t, "one two three four five six seven", last)
}

func TestReveal_NewRevealSupersedesPrior(t *testing.T) {
	r := NewRevealer(WithDelay(5 * time.Millisecond))

	first := make(chan error, 1)
	go func() {
		first <- r.Reveal(context.Background(), "a b c d e f g h", func(string) {})
	}()
	time.Sleep(8 * time.Millisecond)

	var got []string
	err := r.Reveal(context.Background(), "x y", func(p string) { got = append(got, p) })
	require.NoError(t, err)
	assert.Equal(t, "x y", got[len(got)-1])

	assert.Error(t, <-first, "the superseded reveal must resolve with an error")
}

func TestReveal_ContextCancellation(t *testing.T) {
	r := NewRevealer(WithDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Reveal(ctx, "slow text here", func(string) {})
	}()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("reveal did not observe context cancellation")
	}
}
