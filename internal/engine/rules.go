package engine

import (
	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// FiftyMovePlies is the number of half-moves without a capture or pawn move
// that ends the game.
const FiftyMovePlies = 100

// IsCheck reports whether colour's King is attacked.
func (g *Game) IsCheck(colour chess.Colour) bool {
	return g.board.IsInCheck(colour)
}

// IsCheckmate reports whether colour is in check with no legal move.
func (g *Game) IsCheckmate(colour chess.Colour) bool {
	return g.IsCheck(colour) && !g.hasLegalMove(colour)
}

// IsStalemate reports whether colour is not in check but has no legal move.
func (g *Game) IsStalemate(colour chess.Colour) bool {
	return !g.IsCheck(colour) && !g.hasLegalMove(colour)
}

// HasInsufficientMaterial returns true if the position has insufficient
// mating material for either side. With no pawns on the board that is:
// - K vs K
// - K+B vs K or K+N vs K
// - K+B vs K+B with both bishops on the same square colour
func (g *Game) HasInsufficientMaterial() bool {
	pieces := g.board.Pieces()
	var whiteBishop, blackBishop *chess.Piece

	for _, p := range pieces {
		switch p.Kind {
		case chess.Pawn, chess.Rook, chess.Queen:
			return false
		case chess.Bishop:
			if p.Colour == chess.White {
				whiteBishop = p
			} else {
				blackBishop = p
			}
		}
	}

	switch len(pieces) {
	case 2:
		return true
	case 3:
		for _, p := range pieces {
			if p.Kind == chess.Bishop || p.Kind == chess.Knight {
				return true
			}
		}
	case 4:
		if whiteBishop != nil && blackBishop != nil {
			return whiteBishop.Square.IsLight() == blackBishop.Square.IsLight()
		}
	}
	return false
}

// isFiftyMoveDraw reports whether the last FiftyMovePlies moves contain no
// capture and no pawn move.
func (g *Game) isFiftyMoveDraw() bool {
	if len(g.moves) < FiftyMovePlies {
		return false
	}
	for _, m := range g.moves[len(g.moves)-FiftyMovePlies:] {
		if m.Capture || m.IsPawnMove() {
			return false
		}
	}
	return true
}

// PliesSinceProgress counts half-moves since the last capture or pawn move.
func (g *Game) PliesSinceProgress() int {
	n := 0
	for i := len(g.moves) - 1; i >= 0; i-- {
		if g.moves[i].Capture || g.moves[i].IsPawnMove() {
			break
		}
		n++
	}
	return n
}

// Resign ends the game in favour of colour's opponent. It does nothing if
// the game is already over.
func (g *Game) Resign(colour chess.Colour) {
	g.forfeit(colour, Resignation)
}

// Abandon ends the game because colour left it.
func (g *Game) Abandon(colour chess.Colour) {
	g.forfeit(colour, Disconnected)
}

// TimeOut ends the game because colour ran out of time on an external clock.
func (g *Game) TimeOut(colour chess.Colour) {
	g.forfeit(colour, TimeOver)
}

func (g *Game) forfeit(loser chess.Colour, result Result) {
	if g.over {
		return
	}
	outcome := Outcome{Result: result, Winner: loser.Opposite(), Decisive: true}
	g.finish(outcome)
	g.notifyOver(outcome)
}

// finish marks the game over. Listeners are notified by the caller.
func (g *Game) finish(outcome Outcome) {
	g.over = true
	g.outcome = outcome
	g.logger.Info("game over",
		zap.Stringer("result", outcome.Result),
		zap.String("score", outcome.Score()),
		zap.Int("plies", len(g.moves)),
	)
}
