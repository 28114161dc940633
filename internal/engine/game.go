// Package engine implements the rules of chess on top of the chess package:
// move legality, move execution, and game termination.
//
// A Game is not safe for concurrent use. Callers that share one Game between
// goroutines must serialise every call, including validate-then-execute pairs.
package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
)

// DefaultCheckmateCueDelay separates the move cue from the checkmate cue.
const DefaultCheckmateCueDelay = 500 * time.Millisecond

// Game is the chess state machine: board, history, side to move and result.
type Game struct {
	board       *chess.Board
	moves       []chess.MoveRecord
	positions   []hashing.Snapshot
	repetitions *hashing.RepetitionTable
	toMove      chess.Colour
	castled     [2]bool

	over    bool
	outcome Outcome

	logger   *zap.Logger
	cueDelay time.Duration

	// mu guards the listener registry only; it lets the delayed checkmate
	// cue read listeners from its timer goroutine.
	mu           sync.RWMutex
	listeners    map[int]Listener
	nextListener int
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for rejected moves and terminations.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithCheckmateCueDelay sets how long after the move cue the checkmate cue fires.
func WithCheckmateCueDelay(d time.Duration) Option {
	return func(g *Game) {
		if d >= 0 {
			g.cueDelay = d
		}
	}
}

// WithListener subscribes l for the lifetime of the game.
func WithListener(l Listener) Option {
	return func(g *Game) {
		g.Subscribe(l)
	}
}

// New creates a game in the standard starting position.
func New(opts ...Option) *Game {
	g := &Game{
		logger:    zap.NewNop(),
		cueDelay:  DefaultCheckmateCueDelay,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.StartNewGame()
	return g
}

// StartNewGame discards all state and sets up the standard opening array.
func (g *Game) StartNewGame() {
	g.reset(chess.NewInitialBoard(), chess.White)
}

// LoadPuzzle replaces the board with layout and hands the move to toMove.
// History is cleared. The layout must hold exactly one King per colour.
func (g *Game) LoadPuzzle(layout []*chess.Piece, toMove chess.Colour) error {
	kings := [2]int{}
	for _, p := range layout {
		if p.Kind == chess.King {
			kings[p.Colour]++
		}
	}
	for _, c := range []chess.Colour{chess.White, chess.Black} {
		if kings[c] != 1 {
			return fmt.Errorf("%s has %d kings: %w", c, kings[c], errors.ErrMissingKing)
		}
	}
	g.reset(chess.NewBoardWithPieces(layout), toMove)
	return nil
}

func (g *Game) reset(b *chess.Board, toMove chess.Colour) {
	g.board = b
	g.moves = nil
	g.positions = nil
	g.repetitions = hashing.NewRepetitionTable()
	g.toMove = toMove
	g.castled = [2]bool{}
	g.over = false
	g.outcome = Outcome{}
}

// Board returns the live board. Callers must not mutate it.
func (g *Game) Board() *chess.Board {
	return g.board
}

// SideToMove returns the colour whose turn it is. A move that ends the game
// by checkmate or stalemate does not pass the turn, so afterwards this is
// the side that delivered it; see ActiveColour.
func (g *Game) SideToMove() chess.Colour {
	return g.toMove
}

// ActiveColour returns the side to move in the current position, the
// opponent of the last mover once checkmate or stalemate has ended the game.
func (g *Game) ActiveColour() chess.Colour {
	if last, ok := g.LastMove(); ok && (last.Checkmate || last.Stalemate) {
		return last.Colour().Opposite()
	}
	return g.toMove
}

// MoveHistory returns a copy of the executed moves, oldest first.
func (g *Game) MoveHistory() []chess.MoveRecord {
	out := make([]chess.MoveRecord, len(g.moves))
	copy(out, g.moves)
	return out
}

// LastMove returns the most recent move, if any.
func (g *Game) LastMove() (chess.MoveRecord, bool) {
	if len(g.moves) == 0 {
		return chess.MoveRecord{}, false
	}
	return g.moves[len(g.moves)-1], true
}

// Positions returns a copy of the snapshot recorded after each non-final move.
func (g *Game) Positions() []hashing.Snapshot {
	out := make([]hashing.Snapshot, len(g.positions))
	copy(out, g.positions)
	return out
}

// IsGameOver reports whether the game has ended.
func (g *Game) IsGameOver() bool {
	return g.over
}

// Outcome returns how the game ended; ok is false while it is in progress.
func (g *Game) Outcome() (outcome Outcome, ok bool) {
	return g.outcome, g.over
}

// HasCastled reports whether colour has castled this game.
func (g *Game) HasCastled(colour chess.Colour) bool {
	return g.castled[colour]
}

// String renders the board.
func (g *Game) String() string {
	return g.board.String()
}
