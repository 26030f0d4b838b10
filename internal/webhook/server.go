// Package webhook exposes the voice pipeline's HTTP surface: the webhook
// that receives final transcripts and returns speakable replies, plus the
// session authorization and health endpoints.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voxdo/voxdo/internal/assistant"
	"github.com/voxdo/voxdo/internal/intent"
)

// Request is the payload the voice pipeline posts for each turn. The
// session and turn identifiers are opaque to us.
type Request struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	TurnID    string `json:"turn_id"`
}

// Response carries the speakable message plus the refreshed task list for
// any listening UI.
type Response struct {
	Message   string   `json:"message"`
	Type      string   `json:"type,omitempty"`
	Todos     []string `json:"todos,omitempty"`
	Action    string   `json:"action,omitempty"`
	Timestamp string   `json:"timestamp"`
}

type authorizeResponse struct {
	ClientSessionKey string `json:"client_session_key"`
	SessionID        string `json:"session_id"`
}

// Server handles voice webhook traffic. Intent parsing tries the primary
// parser first and falls back to the keyword parser when it fails.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
	greeting   string
	engine     *assistant.Engine
	parser     intent.Parser
	fallback   intent.Parser
	log        zerolog.Logger
}

// New creates a webhook server. parser may be nil, in which case only the
// fallback parser is used.
func New(addr, greeting string, engine *assistant.Engine, parser, fallback intent.Parser, log zerolog.Logger) *Server {
	s := &Server{
		addr:     addr,
		greeting: greeting,
		engine:   engine,
		parser:   parser,
		fallback: fallback,
		log:      log.With().Str("component", "webhook").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("POST /api/authorize", s.handleAuthorize)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{Handler: mux}
	return s
}

// Start begins serving in the background. It returns an error if the
// listener cannot be created or the server dies immediately.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("create listener: %w", err)
	}
	s.listener = listener

	s.log.Info().Str("addr", listener.Addr().String()).Msg("starting webhook server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("webhook server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down webhook server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Warn().Err(err).Msg("malformed webhook payload")
		writeJSON(w, http.StatusBadRequest, Response{
			Message:   "Sorry, I encountered an error processing that request.",
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	if req.Type == "SESSION_START" {
		writeJSON(w, http.StatusOK, Response{
			Message:   s.greeting,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusOK, Response{
			Message:   "I didn't catch that. Could you please repeat?",
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	s.log.Info().Str("session", req.SessionID).Str("turn", req.TurnID).Str("text", req.Text).Msg("processing voice command")

	result, action := s.process(r.Context(), req.Text)

	todos := s.currentTasks(r.Context())
	writeJSON(w, http.StatusOK, Response{
		Message:   assistant.Speech(result),
		Type:      "todos_updated",
		Todos:     todos,
		Action:    action,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// process parses the transcript and dispatches the intent, degrading to the
// keyword parser when the primary one errors.
func (s *Server) process(ctx context.Context, text string) (assistant.Result, string) {
	tasks := s.currentTasks(ctx)

	it, err := s.parseIntent(ctx, text, tasks)
	if err != nil {
		s.log.Warn().Err(err).Msg("intent parser failed, using fallback")
		it, _ = s.fallback.ParseIntent(ctx, text, tasks)
	}

	return s.engine.Dispatch(ctx, it), it.Function
}

func (s *Server) parseIntent(ctx context.Context, text string, tasks []string) (intent.Intent, error) {
	if s.parser == nil {
		return s.fallback.ParseIntent(ctx, text, tasks)
	}
	return s.parser.ParseIntent(ctx, text, tasks)
}

func (s *Server) currentTasks(ctx context.Context) []string {
	infos, err := s.engine.GetActiveTasks(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read active tasks")
		return nil
	}

	lines := make([]string, 0, len(infos))
	for _, info := range infos {
		lines = append(lines, info.FullLine)
	}
	return lines
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	resp := authorizeResponse{
		ClientSessionKey: "session_" + uuid.NewString(),
		SessionID:        "sess_" + uuid.NewString(),
	}

	s.log.Debug().Str("session", resp.SessionID).Msg("authorized client session")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
