// Package http exposes conversation engines over a JSON API. Each
// session owns one engine; events stream to subscribers over SSE.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/conversation"
	"github.com/aretw0/parley/pkg/domain"
)

// NewEngine builds the engine backing one session. Implementations must
// register obs on the engine they return; it is how the server fans the
// session's events out to SSE subscribers.
type NewEngine func(sessionID string, obs domain.Observer) (*conversation.Controller, error)

// Server manages session engines and their event streams.
type Server struct {
	newEngine NewEngine
	logger    *slog.Logger
	metrics   http.Handler
	streams   *StreamManager

	mu       sync.Mutex
	sessions map[string]*conversation.Controller
}

// Option configures a Server.
type Option func(*Server)

// WithLogger configures the server's logger. Defaults to a no-op.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetricsHandler mounts the given handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates a Server that builds session engines on demand.
func NewServer(newEngine NewEngine, opts ...Option) *Server {
	s := &Server{
		newEngine: newEngine,
		logger:    logging.NewNop(),
		streams:   NewStreamManager(),
		sessions:  make(map[string]*conversation.Controller),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.getSession)
		r.Delete("/", s.deleteSession)
		r.Get("/events", s.subscribeEvents)
		r.Post("/messages", s.postMessage)
		r.Post("/actions", s.postAction)
		r.Post("/apply", s.postApply)
		r.Post("/cancel", s.postCancel)
		r.Post("/reset", s.postReset)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// engine returns the session's engine, creating it on first touch.
func (s *Server) engine(id string) (*conversation.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eng, ok := s.sessions[id]; ok {
		return eng, nil
	}
	eng, err := s.newEngine(id, s.broadcaster(id))
	if err != nil {
		return nil, err
	}
	s.sessions[id] = eng
	return eng, nil
}

// broadcaster fans one session's events out as SSE payloads.
func (s *Server) broadcaster(id string) domain.Observer {
	return func(e domain.Event) {
		payload := eventPayload{
			Type:      string(e.Type),
			Timestamp: e.Timestamp,
			Index:     e.Index,
			Chunk:     e.Chunk,
			Message:   e.Message,
		}
		bytes, err := json.Marshal(payload)
		if err != nil {
			s.logger.Error("event encode failed", "session_id", id, "err", err)
			return
		}
		s.streams.Broadcast(id, string(bytes))
	}
}

type messageRequest struct {
	Text string `json:"text"`
}

type actionRequest struct {
	Label      string `json:"label"`
	TargetNode string `json:"target_node,omitempty"`
}

type applyRequest struct {
	Node string `json:"node"`
}

type sessionState struct {
	ID             string           `json:"id"`
	Messages       []domain.Message `json:"messages"`
	Typing         bool             `json:"typing"`
	Streaming      bool             `json:"streaming"`
	StreamedText   string           `json:"streamed_text,omitempty"`
	StreamingIndex int              `json:"streaming_index"`
	ShowComponents bool             `json:"show_components"`
}

type eventPayload struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Index     int             `json:"index"`
	Chunk     string          `json:"chunk,omitempty"`
	Message   *domain.Message `json:"message,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	eng, err := s.engine(id)
	if err != nil {
		s.fail(w, "session create failed", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionState{
		ID:             id,
		Messages:       eng.Messages(),
		Typing:         eng.IsTyping(),
		Streaming:      eng.IsStreaming(),
		StreamedText:   eng.StreamedText(),
		StreamingIndex: eng.StreamingIndex(),
		ShowComponents: eng.ShowComponents(),
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	eng, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		if err := eng.Reset(r.Context()); err != nil {
			s.logger.Warn("session reset on delete failed", "session_id", id, "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var body messageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, func(eng *conversation.Controller) error {
		return eng.SendMessage(r.Context(), body.Text)
	})
}

func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	var body actionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Label == "" && body.TargetNode == "" {
		http.Error(w, "label or target_node is required", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, func(eng *conversation.Controller) error {
		return eng.SendAction(r.Context(), domain.Action{Label: body.Label, TargetNode: body.TargetNode})
	})
}

func (s *Server) postApply(w http.ResponseWriter, r *http.Request) {
	var body applyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, func(eng *conversation.Controller) error {
		return eng.Apply(r.Context(), body.Node)
	})
}

func (s *Server) postCancel(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, func(eng *conversation.Controller) error {
		return eng.Cancel(r.Context())
	})
}

func (s *Server) postReset(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, func(eng *conversation.Controller) error {
		return eng.Reset(r.Context())
	})
}

// dispatch routes one engine call and maps domain errors onto statuses.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, call func(*conversation.Controller) error) {
	id := chi.URLParam(r, "id")
	eng, err := s.engine(id)
	if err != nil {
		s.fail(w, "session create failed", err)
		return
	}
	if err := call(eng); err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			http.Error(w, "a turn is already in flight", http.StatusConflict)
		case errors.Is(err, domain.ErrUnknownNode):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			s.fail(w, "engine call failed", err)
		}
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "err", err)
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusInternalServerError)
}

// subscribeEvents streams the session's events over SSE.
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.engine(id); err != nil {
		s.fail(w, "session create failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
