package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
)

// ExecuteMove validates and plays m. It returns false, leaving the game
// untouched, if the game is over or the move is illegal. A pawn reaching the
// last rank without a valid promotion choice becomes a Queen.
func (g *Game) ExecuteMove(m chess.PendingMove, playSound bool) bool {
	if g.over || m.Piece == nil {
		g.logger.Debug("move rejected", zap.String("move", m.String()), zap.Bool("game_over", g.over))
		return false
	}
	p := g.board.Counterpart(m.Piece)
	if p == nil || !g.IsMoveValid(p, m.To) {
		g.logger.Debug("move rejected", zap.String("move", m.String()), zap.Stringer("to_move", g.toMove))
		return false
	}

	colour := p.Colour
	rec := chess.MoveRecord{
		From:  p.Square,
		To:    m.To,
		Piece: *p,
		Count: len(g.moves) + 1,
	}
	var cue SoundKind

	switch {
	case p.Kind == chess.Pawn && m.To.Rank == p.PromotionRank():
		kind := m.Promotion
		if !kind.IsPromotionTarget() {
			kind = chess.Queen
		}
		rec.Capture = g.board.Move(p, m.To) != nil
		g.board.Promote(p, kind)
		rec.Promotion = kind
		cue = moveCue(rec.Capture)

	case g.isEnPassant(p, m.To):
		victim := g.board.PieceAt(chess.Square{File: m.To.File, Rank: p.Square.Rank})
		g.board.CapturePiece(victim)
		p.Square = m.To
		rec.Capture = true
		rec.EnPassant = true
		cue = SoundCapture

	case p.Kind == chess.King && (m.To.File-p.Square.File == 2 || p.Square.File-m.To.File == 2):
		geo := castleGeometry(colour, castleSideFor(colour, m.To))
		rook := g.board.PieceAt(geo.rook)
		p.Square = geo.kingTo
		rook.Square = geo.rookTo
		g.castled[colour] = true
		rec.Castle = geo.side
		cue = SoundCastle

	default:
		if victim := g.board.PieceAt(m.To); victim != nil && p.Kind != chess.Pawn && p.Kind != chess.King {
			rec.Disambiguation = g.disambiguation(p, m.To)
		}
		rec.Capture = g.board.Move(p, m.To) != nil
		cue = moveCue(rec.Capture)
	}

	opponent := colour.Opposite()
	rec.Check = g.board.IsInCheck(opponent)
	// The record joins the history first: an en passant reply depends on it.
	g.moves = append(g.moves, rec)
	if !g.hasLegalMove(opponent) {
		last := &g.moves[len(g.moves)-1]
		if rec.Check {
			last.Checkmate = true
		} else {
			last.Stalemate = true
		}
		rec = *last
	}

	if rec.Checkmate || rec.Stalemate {
		outcome := Outcome{Result: Stalemate}
		if rec.Checkmate {
			outcome = Outcome{Result: Checkmate, Winner: colour, Decisive: true}
		}
		g.finish(outcome)
		g.notifyMove(rec)
		if playSound {
			if rec.Checkmate {
				g.notifySound(SoundMove)
				g.scheduleSound(SoundCheckmate, g.cueDelay)
			} else {
				g.notifySound(SoundStalemate)
			}
		}
		g.notifyOver(outcome)
		return true
	}

	g.toMove = opponent
	snap := hashing.NewSnapshot(g.board, g.toMove, g.castlingRights(), g.enPassantTarget())
	g.positions = append(g.positions, snap)
	repeats := g.repetitions.Record(snap.Hash())

	var draw *Outcome
	switch {
	case g.HasInsufficientMaterial():
		draw = &Outcome{Result: InsufficientMaterial}
	case g.isFiftyMoveDraw():
		draw = &Outcome{Result: FiftyMoveRule}
	case repeats >= 3:
		draw = &Outcome{Result: ThreefoldRepetition}
	}
	if draw != nil {
		g.finish(*draw)
	}

	g.notifyMove(rec)
	if playSound {
		if !rec.Check || rec.EnPassant || rec.IsCastle() {
			g.notifySound(cue)
		}
		if rec.Check {
			g.notifySound(SoundCheck)
		}
	}
	if draw != nil {
		g.notifyOver(*draw)
	}
	return true
}

func moveCue(capture bool) SoundKind {
	if capture {
		return SoundCapture
	}
	return SoundMove
}

// disambiguation returns the SAN fragment distinguishing p from other like
// pieces that could also legally reach target: the file if unique, else the
// rank if unique, else both.
func (g *Game) disambiguation(p *chess.Piece, target chess.Square) string {
	sameFile, sameRank, found := false, false, false
	for _, other := range g.board.PiecesOf(p.Colour) {
		if other == p || other.Kind != p.Kind {
			continue
		}
		if !other.CanReach(g.board, target) || g.board.LeavesKingInCheck(other, target) {
			continue
		}
		found = true
		if other.Square.File == p.Square.File {
			sameFile = true
		}
		if other.Square.Rank == p.Square.Rank {
			sameRank = true
		}
	}
	switch {
	case !found:
		return ""
	case !sameFile:
		return string(p.Square.FileChar())
	case !sameRank:
		return string(p.Square.RankChar())
	default:
		return p.Square.String()
	}
}

// scheduleSound fires a cue after delay on a timer goroutine. It cannot be
// cancelled.
func (g *Game) scheduleSound(kind SoundKind, delay time.Duration) {
	time.AfterFunc(delay, func() {
		g.notifySound(kind)
	})
}
