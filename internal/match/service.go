package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/parser"
)

// Service owns the running matches.
type Service struct {
	queue       Queue
	notifier    Notifier
	logger      *zap.Logger
	engineOpts  []engine.Option
	autoPromote bool
	newID       func() string

	mu       sync.RWMutex
	matches  map[string]*Match
	byClient map[string]string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngineOptions passes opts to every game the service creates.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Service) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithAutoPromotion controls whether a promotion without "=X" becomes a
// Queen. When off such moves are rejected.
func WithAutoPromotion(on bool) Option {
	return func(s *Service) { s.autoPromote = on }
}

// WithIDGenerator replaces the UUID match IDs.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// NewService returns a service pairing clients from q. n may be nil.
func NewService(q Queue, n Notifier, opts ...Option) *Service {
	if n == nil {
		n = NotifierFunc(func(string, Event) {})
	}
	s := &Service{
		queue:       q,
		notifier:    n,
		logger:      zap.NewNop(),
		autoPromote: true,
		newID:       uuid.NewString,
		matches:     make(map[string]*Match),
		byClient:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Join queues c. When an opponent is waiting the match starts at once and
// is returned; otherwise the result is nil.
func (s *Service) Join(ctx context.Context, c Client) (*Match, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("client id required")
	}
	if _, ok := s.MatchOf(c.ID); ok {
		return nil, errors.ErrAlreadyQueued
	}
	s.logger.Info("client_queued", zap.String("client_id", c.ID), zap.String("name", c.Name))

	p, err := s.queue.Join(ctx, c)
	if err != nil || p == nil {
		return nil, err
	}
	return s.start(*p), nil
}

// Leave takes a client off the queue.
func (s *Service) Leave(ctx context.Context, clientID string) error {
	return s.queue.Leave(ctx, clientID)
}

func (s *Service) start(p Pairing) *Match {
	m := newMatch(s.newID(), p)
	m.game = engine.New(append(s.engineOpts,
		engine.WithLogger(s.logger.With(zap.String("match_id", m.ID))),
		engine.WithListener(engine.ListenerFuncs{
			OnMove: func(rec chess.MoveRecord) { s.relayMove(m, rec) },
			OnOver: func(o engine.Outcome) { s.end(m, o) },
		}),
	)...)

	s.mu.Lock()
	s.matches[m.ID] = m
	s.byClient[p.White.ID] = m.ID
	s.byClient[p.Black.ID] = m.ID
	s.mu.Unlock()

	s.logger.Info("match_started",
		zap.String("match_id", m.ID),
		zap.String("white", p.White.Name),
		zap.String("black", p.Black.Name),
	)
	s.notifier.Notify(p.White.ID, Event{Type: EventMatchStarted, MatchID: m.ID, Match: m.info(chess.White)})
	s.notifier.Notify(p.Black.ID, Event{Type: EventMatchStarted, MatchID: m.ID, Match: m.info(chess.Black)})
	return m
}

func (s *Service) relayMove(m *Match, rec chess.MoveRecord) {
	ev := Event{Type: EventMoveMade, MatchID: m.ID, Move: &MoveMade{Move: rec.Format(false), Colour: rec.Colour()}}
	for _, id := range m.clientIDs() {
		s.notifier.Notify(id, ev)
	}
}

// end runs inside the game-over notification, so m is already locked.
func (s *Service) end(m *Match, o engine.Outcome) {
	m.ended = true

	s.mu.Lock()
	delete(s.matches, m.ID)
	for _, id := range m.clientIDs() {
		if s.byClient[id] == m.ID {
			delete(s.byClient, id)
		}
	}
	s.mu.Unlock()

	s.logger.Info("match_over",
		zap.String("match_id", m.ID),
		zap.Stringer("outcome", o),
		zap.Duration("duration", time.Since(m.StartedAt)),
	)
	ev := endEvent(m.ID, o)
	for _, id := range m.clientIDs() {
		s.notifier.Notify(id, ev)
	}
}

// acquire finds and locks a running match.
func (s *Service) acquire(ctx context.Context, matchID string) (*Match, error) {
	s.mu.RLock()
	m, ok := s.matches[matchID]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.ErrMatchNotFound
	}
	if err := m.lock(ctx); err != nil {
		return nil, err
	}
	if m.ended {
		m.unlock()
		return nil, errors.ErrMatchNotFound
	}
	return m, nil
}

// MakeMove plays san for clientID. The returned error wraps ErrMatchNotFound,
// ErrNotParticipant, ErrNotYourTurn, ErrUnparsableMove or ErrIllegalMove.
func (s *Service) MakeMove(ctx context.Context, matchID, clientID, san string) (chess.MoveRecord, error) {
	m, err := s.acquire(ctx, matchID)
	if err != nil {
		return chess.MoveRecord{}, &errors.MoveError{Err: err, MatchID: matchID, MoveText: san}
	}
	defer m.unlock()

	ply := len(m.game.MoveHistory()) + 1
	reject := func(err error) (chess.MoveRecord, error) {
		s.logger.Info("match_move_rejected",
			zap.String("match_id", m.ID),
			zap.String("client_id", clientID),
			zap.String("move", san),
			zap.Error(err),
		)
		return chess.MoveRecord{}, &errors.MoveError{Err: err, MatchID: m.ID, Ply: ply, MoveText: san}
	}

	colour, ok := m.ColourOf(clientID)
	if !ok {
		return reject(errors.ErrNotParticipant)
	}
	if colour != m.game.SideToMove() {
		return reject(errors.ErrNotYourTurn)
	}
	pm, ok := parser.ParseSAN(san, m.game.Board(), colour)
	if !ok {
		return reject(errors.ErrUnparsableMove)
	}
	if !s.autoPromote && pm.Promotion == chess.NoKind && isPromotion(pm) {
		return reject(fmt.Errorf("promotion piece required: %w", errors.ErrIllegalMove))
	}
	if !m.game.IsMoveValid(pm.Piece, pm.To) || !m.game.ExecuteMove(pm, false) {
		return reject(errors.ErrIllegalMove)
	}

	rec, _ := m.game.LastMove()
	s.logger.Info("match_move",
		zap.String("match_id", m.ID),
		zap.Stringer("colour", colour),
		zap.String("move", rec.Format(false)),
		zap.Int("ply", ply),
	)
	return rec, nil
}

func isPromotion(pm chess.PendingMove) bool {
	return pm.Piece.Kind == chess.Pawn && pm.To.Rank == pm.Piece.PromotionRank()
}

// Resign ends the match in favour of clientID's opponent.
func (s *Service) Resign(ctx context.Context, matchID, clientID string) error {
	m, err := s.acquire(ctx, matchID)
	if err != nil {
		return err
	}
	defer m.unlock()

	colour, ok := m.ColourOf(clientID)
	if !ok {
		return errors.ErrNotParticipant
	}
	s.logger.Info("match_resign", zap.String("match_id", m.ID), zap.Stringer("colour", colour))
	m.game.Resign(colour)
	return nil
}

// Disconnect removes clientID from the queue and forfeits its match, if any.
func (s *Service) Disconnect(ctx context.Context, clientID string) error {
	if err := s.queue.Leave(ctx, clientID); err != nil {
		s.logger.Warn("queue leave failed", zap.String("client_id", clientID), zap.Error(err))
	}
	matchID, ok := s.MatchOf(clientID)
	if !ok {
		return nil
	}
	m, err := s.acquire(ctx, matchID)
	if errors.Is(err, errors.ErrMatchNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	defer m.unlock()

	if colour, ok := m.ColourOf(clientID); ok {
		s.logger.Info("match_disconnect", zap.String("match_id", m.ID), zap.String("client_id", clientID))
		m.game.Abandon(colour)
	}
	return nil
}

// MatchOf returns the running match clientID plays in.
func (s *Service) MatchOf(clientID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byClient[clientID]
	return id, ok
}

// Snapshot returns the current state of a running match.
func (s *Service) Snapshot(ctx context.Context, matchID string) (Snapshot, error) {
	m, err := s.acquire(ctx, matchID)
	if err != nil {
		return Snapshot{}, err
	}
	defer m.unlock()
	return m.snapshot(), nil
}

// Running returns the number of matches in progress.
func (s *Service) Running() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}
