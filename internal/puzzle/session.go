package puzzle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/parser"
)

// Status is the state of a puzzle attempt.
type Status int

const (
	Playing Status = iota
	Solved
	Failed
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Failed:
		return "failed"
	}
	return "playing"
}

// Session is one attempt at a puzzle. Like engine.Game it is not safe for
// concurrent use.
type Session struct {
	puzzle     Puzzle
	game       *engine.Game
	listener   engine.Listener
	logger     *zap.Logger
	playSound  bool
	engineOpts []engine.Option
	next       int
	status     Status
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSounds turns sound cues on or off. They are on by default.
func WithSounds(enabled bool) SessionOption {
	return func(s *Session) { s.playSound = enabled }
}

// WithEngineOptions passes options to the session's game.
func WithEngineOptions(opts ...engine.Option) SessionOption {
	return func(s *Session) { s.engineOpts = append(s.engineOpts, opts...) }
}

// NewSession loads p into a fresh game. listener (may be nil) receives the
// game's notifications plus the puzzle cues.
func NewSession(p Puzzle, listener engine.Listener, opts ...SessionOption) (*Session, error) {
	s := &Session{
		puzzle:    p,
		listener:  listener,
		logger:    zap.NewNop(),
		playSound: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	engineOpts := append(s.engineOpts, engine.WithLogger(s.logger))
	if listener != nil {
		engineOpts = append(engineOpts, engine.WithListener(listener))
	}
	s.game = engine.New(engineOpts...)
	s.logger = s.logger.With(zap.String("puzzle", p.Name))
	if err := s.Retry(); err != nil {
		return nil, err
	}
	return s, nil
}

// Retry restores the starting layout.
func (s *Session) Retry() error {
	layout, err := s.puzzle.Layout()
	if err != nil {
		return err
	}
	if err := s.game.LoadPuzzle(layout, s.puzzle.ToMove); err != nil {
		return errors.Wrapf(err, "puzzle %q", s.puzzle.Name)
	}
	s.next = 0
	s.status = Playing
	return nil
}

// Game exposes the underlying game for rendering.
func (s *Session) Game() *engine.Game { return s.game }

// Status reports whether the attempt is still running.
func (s *Session) Status() Status { return s.status }

// Puzzle returns the puzzle being attempted.
func (s *Session) Puzzle() Puzzle { return s.puzzle }

// PlaySAN parses text for the side to move and plays it.
func (s *Session) PlaySAN(text string) (Status, error) {
	if s.status != Playing {
		return s.status, errors.ErrGameOver
	}
	m, ok := parser.ParseSAN(text, s.game.Board(), s.game.SideToMove())
	if !ok {
		return s.status, fmt.Errorf("%q: %w", text, errors.ErrUnparsableMove)
	}
	return s.Play(m)
}

// Play executes the solver's move. An illegal move returns ErrIllegalMove
// and changes nothing. A legal move that differs from the solution fails
// the attempt; a matching one is answered by the scripted reply.
func (s *Session) Play(m chess.PendingMove) (Status, error) {
	if s.status != Playing {
		return s.status, errors.ErrGameOver
	}
	if !s.game.ExecuteMove(m, s.playSound) {
		return s.status, &errors.MoveError{Err: errors.ErrIllegalMove, Ply: s.next + 1, MoveText: m.String()}
	}
	last, _ := s.game.LastMove()
	if got, want := last.Format(false), s.puzzle.Solution[s.next]; got != want {
		s.logger.Info("puzzle failed", zap.String("played", got), zap.String("expected", want))
		return s.finish(Failed, engine.SoundPuzzleFail), nil
	}
	s.next++

	if s.next < len(s.puzzle.Solution) {
		reply := s.puzzle.Solution[s.next]
		rm, ok := parser.ParseSAN(reply, s.game.Board(), s.game.SideToMove())
		if !ok || !s.game.ExecuteMove(rm, s.playSound) {
			return s.status, &errors.MoveError{Err: errors.ErrIllegalMove, Ply: s.next + 1, MoveText: reply}
		}
		s.next++
	}
	if s.next >= len(s.puzzle.Solution) {
		s.logger.Info("puzzle solved", zap.Int("plies", s.next))
		return s.finish(Solved, engine.SoundPuzzleSolved), nil
	}
	return s.status, nil
}

func (s *Session) finish(status Status, cue engine.SoundKind) Status {
	s.status = status
	if s.listener != nil && s.playSound {
		s.listener.SoundCue(cue)
	}
	return status
}
