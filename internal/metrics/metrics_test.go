package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parley/pkg/domain"
)

func TestObserverCounters(t *testing.T) {
	m := New()
	obs := m.Observer()

	start := time.Now()
	obs(domain.Event{Type: domain.EventUserMessage, Timestamp: start})
	obs(domain.Event{Type: domain.EventTypingStarted, Timestamp: start})
	obs(domain.Event{Type: domain.EventStreamChunk, Chunk: "Margins", Timestamp: start})
	obs(domain.Event{Type: domain.EventStreamChunk, Chunk: "Margins are", Timestamp: start})
	obs(domain.Event{
		Type:      domain.EventMessageCommitted,
		Timestamp: start.Add(900 * time.Millisecond),
		Message: &domain.Message{
			Role:     domain.RoleAssistant,
			Metadata: &domain.Metadata{NodeID: "margin-breakdown", Confidence: 0.85, Source: domain.SourceScript},
		},
	})
	obs(domain.Event{Type: domain.EventReset, Timestamp: start})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messages.WithLabelValues("assistant")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.chunks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("script")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resets))
}

func TestFallbackResolution(t *testing.T) {
	m := New()
	m.Observer()(domain.Event{
		Type:      domain.EventMessageCommitted,
		Timestamp: time.Now(),
		Message: &domain.Message{
			Role:     domain.RoleAssistant,
			Metadata: &domain.Metadata{Source: domain.SourceFallback},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("fallback")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.resolutions.WithLabelValues("script")))
}

func TestHandlerExposition(t *testing.T) {
	m := New()
	m.Observer()(domain.Event{Type: domain.EventUserMessage, Timestamp: time.Now()})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "parley_messages_total")
}
