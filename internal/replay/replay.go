// Package replay plays SAN move lists through a fresh game.
package replay

import (
	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
	"github.com/lgbarn/chess-rules-go/internal/parser"
)

// Result describes a replayed game.
type Result struct {
	Records []chess.MoveRecord
	// Declared is the result token found in the text ("1-0", "*", or "").
	Declared string
	Outcome  engine.Outcome
	Over     bool
	FEN      string
	// LayoutHash identifies the final placement of pieces.
	LayoutHash uint64
}

// Score is the PGN score of the replayed game, "*" while unfinished.
func (r Result) Score() string {
	if !r.Over {
		return "*"
	}
	return r.Outcome.Score()
}

// Play tokenises text and executes every move from the opening array.
// On the first failing move it returns the partial result and a
// *errors.MoveError wrapping ErrUnparsableMove, ErrIllegalMove or
// ErrGameOver.
func Play(text string, opts ...engine.Option) (Result, error) {
	mt, err := parser.SplitMovetext(text)
	if err != nil {
		return Result{}, err
	}
	return PlayMoves(mt.Moves, mt.Result, opts...)
}

// PlayMoves replays already tokenised SAN moves.
func PlayMoves(moves []string, declared string, opts ...engine.Option) (Result, error) {
	g := engine.New(opts...)
	var failure error
	for i, san := range moves {
		if err := playOne(g, san); err != nil {
			failure = &errors.MoveError{Err: err, Ply: i + 1, MoveText: san}
			break
		}
	}

	outcome, over := g.Outcome()
	return Result{
		Records:    g.MoveHistory(),
		Declared:   declared,
		Outcome:    outcome,
		Over:       over,
		FEN:        g.FEN(),
		LayoutHash: hashing.LayoutHash(g.Board()),
	}, failure
}

func playOne(g *engine.Game, san string) error {
	if g.IsGameOver() {
		return errors.ErrGameOver
	}
	m, ok := parser.ParseSAN(san, g.Board(), g.SideToMove())
	if !ok {
		return errors.ErrUnparsableMove
	}
	if !g.ExecuteMove(m, false) {
		return errors.ErrIllegalMove
	}
	return nil
}
