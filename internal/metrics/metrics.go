// Package metrics exposes Prometheus instrumentation for conversation
// engines. Metrics hook in as a regular event observer, so any surface
// that speaks domain.Observer (the conversation controller, the guided
// flow) can be instrumented without knowing about Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/parley/pkg/domain"
)

// Metrics owns a private registry so embedding hosts never collide with
// the default one.
type Metrics struct {
	registry *prometheus.Registry

	messages     *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	resets       prometheus.Counter
	chunks       prometheus.Counter
	confidence   prometheus.Histogram
	turnDuration prometheus.Histogram

	mu        sync.Mutex
	turnStart time.Time
}

// New creates a Metrics with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_messages_total",
				Help: "Messages appended to the transcript, by role.",
			},
			[]string{"role"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_resolutions_total",
				Help: "Assistant responses committed, by resolution source.",
			},
			[]string{"source"},
		),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parley_resets_total",
			Help: "Conversation resets.",
		}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parley_stream_chunks_total",
			Help: "Streamed text prefixes emitted.",
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parley_match_confidence",
			Help:    "Confidence of scripted resolutions.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parley_turn_duration_seconds",
			Help:    "Time from typing start to the committed message.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.messages,
		m.resolutions,
		m.resets,
		m.chunks,
		m.confidence,
		m.turnDuration,
	)
	return m
}

// Registry exposes the underlying registry for hosts that gather from
// several sources.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observer returns the event hook that feeds the collectors.
func (m *Metrics) Observer() domain.Observer {
	return m.observe
}

func (m *Metrics) observe(e domain.Event) {
	switch e.Type {
	case domain.EventUserMessage:
		m.messages.WithLabelValues(string(domain.RoleUser)).Inc()
	case domain.EventTypingStarted:
		// The engine runs at most one turn at a time, so a single
		// pending start suffices.
		m.mu.Lock()
		m.turnStart = e.Timestamp
		m.mu.Unlock()
	case domain.EventStreamChunk:
		m.chunks.Inc()
	case domain.EventMessageCommitted:
		m.messages.WithLabelValues(string(domain.RoleAssistant)).Inc()
		if md := e.Message.Metadata; md != nil {
			m.resolutions.WithLabelValues(string(md.Source)).Inc()
			if md.Source == domain.SourceScript {
				m.confidence.Observe(md.Confidence)
			}
		}
		m.mu.Lock()
		if !m.turnStart.IsZero() {
			m.turnDuration.Observe(e.Timestamp.Sub(m.turnStart).Seconds())
			m.turnStart = time.Time{}
		}
		m.mu.Unlock()
	case domain.EventReset:
		m.resets.Inc()
		m.mu.Lock()
		m.turnStart = time.Time{}
		m.mu.Unlock()
	}
}
