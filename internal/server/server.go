// Package server exposes the match service over HTTP with a websocket
// event stream per client.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/match"
)

const (
	maxJSONBodyBytes int64 = 1 << 20
	wsWriteTimeout         = 5 * time.Second
)

// Server wires HTTP handlers to a match.Service.
type Server struct {
	svc            *match.Service
	hub            *Hub
	logger         *zap.Logger
	originPatterns []string

	srvMu sync.Mutex
	srv   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOriginPatterns allows websocket connections from other origins.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) { s.originPatterns = patterns }
}

// New returns a server for svc. hub must be the Notifier svc was built with.
func New(svc *match.Service, hub *Hub, opts ...Option) *Server {
	s := &Server{svc: svc, hub: hub, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /queue", s.withJSON(s.handleJoin))
	mux.HandleFunc("DELETE /queue/{clientID}", s.withJSON(s.handleLeave))
	mux.HandleFunc("GET /matches/{matchID}", s.withJSON(s.handleSnapshot))
	mux.HandleFunc("POST /matches/{matchID}/moves", s.withJSON(s.handleMove))
	mux.HandleFunc("POST /matches/{matchID}/resign", s.withJSON(s.handleResign))
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}

// Listen serves on addr until Close is called.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.logger.Info("http_listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is needed by websocket.Accept.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, errors.ErrNotYourTurn), errors.Is(err, errors.ErrAlreadyQueued):
		return http.StatusConflict
	case errors.Is(err, errors.ErrUnparsableMove), errors.Is(err, errors.ErrIllegalMove),
		errors.Is(err, errors.ErrGameOver):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}

// ---- API: queue ----

type joinRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Elo      string `json:"elo"`
}

type joinResponse struct {
	ClientID string `json:"client_id"`
	Queued   bool   `json:"queued"`
	MatchID  string `json:"match_id,omitempty"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ClientID == "" {
		req.ClientID = uuid.NewString()
	}
	if req.Name == "" {
		req.Name = req.ClientID
	}

	m, err := s.svc.Join(r.Context(), match.Client{ID: req.ClientID, Name: req.Name, Elo: req.Elo})
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := joinResponse{ClientID: req.ClientID, Queued: m == nil}
	if m != nil {
		resp.MatchID = m.ID
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Leave(r.Context(), r.PathValue("clientID")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- API: matches ----

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context(), r.PathValue("matchID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type moveRequest struct {
	ClientID string `json:"client_id"`
	Move     string `json:"move"`
}

type moveResponse struct {
	Move   string       `json:"move"`
	Colour chess.Colour `json:"colour"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := s.svc.MakeMove(r.Context(), r.PathValue("matchID"), req.ClientID, req.Move)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Move: rec.Format(false), Colour: rec.Colour()})
}

type resignRequest struct {
	ClientID string `json:"client_id"`
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	var req resignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.svc.Resign(r.Context(), r.PathValue("matchID"), req.ClientID); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- websocket ----

// handleWS streams the client's match events until the socket closes.
// Closing the last socket of a client counts as a disconnect.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "client query parameter required")
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.originPatterns})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.String("client_id", clientID), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	sub := s.hub.subscribe(clientID)
	s.logger.Info("client_connected", zap.String("client_id", clientID))
	defer func() {
		if s.hub.unsubscribe(clientID, sub) {
			s.logger.Info("client_disconnected", zap.String("client_id", clientID))
			if err := s.svc.Disconnect(context.Background(), clientID); err != nil {
				s.logger.Warn("disconnect failed", zap.String("client_id", clientID), zap.Error(err))
			}
		}
	}()

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sub.events:
			wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
