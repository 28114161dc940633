package engine

import (
	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/hashing"
)

// Move is one legal (piece, destination) pair.
type Move struct {
	Piece *chess.Piece
	To    chess.Square
}

// String renders the move in coordinate form.
func (m Move) String() string {
	return m.Piece.Square.String() + m.To.String()
}

// IsMoveValid reports whether piece may move to target now.
// piece may belong to a clone of the board; it is matched by square, kind and colour.
func (g *Game) IsMoveValid(piece *chess.Piece, target chess.Square) bool {
	if piece == nil || piece.Colour != g.toMove {
		return false
	}
	p := g.board.Counterpart(piece)
	if p == nil {
		return false
	}
	return g.canMove(p, target)
}

// canMove is the legality test without the turn check.
func (g *Game) canMove(p *chess.Piece, target chess.Square) bool {
	if !target.IsValid() || target == p.Square {
		return false
	}
	if occupant := g.board.PieceAt(target); occupant != nil {
		if occupant.Colour == p.Colour || occupant.Kind == chess.King {
			return false
		}
	}
	if p.Kind == chess.King && g.CanCastle(p.Colour, target) {
		return true
	}
	if g.isEnPassant(p, target) {
		return !g.board.LeavesKingInCheck(p, target)
	}
	return p.CanReach(g.board, target) && !g.board.LeavesKingInCheck(p, target)
}

// legalTargets lists every square p may legally move to, ignoring whose turn it is.
func (g *Game) legalTargets(p *chess.Piece) []chess.Square {
	var out []chess.Square
	for _, sq := range p.CandidateMoves(g.board) {
		if target := g.board.PieceAt(sq); target != nil && target.Kind == chess.King {
			continue
		}
		if !g.board.LeavesKingInCheck(p, sq) {
			out = append(out, sq)
		}
	}
	switch p.Kind {
	case chess.Pawn:
		for _, df := range []int{-1, 1} {
			if sq, ok := p.Square.Offset(df, p.Colour.Forward()); ok && g.isEnPassant(p, sq) && !g.board.LeavesKingInCheck(p, sq) {
				out = append(out, sq)
			}
		}
	case chess.King:
		for _, file := range []int{3, 7} {
			sq := chess.Square{File: file, Rank: p.Colour.HomeRank()}
			if g.CanCastle(p.Colour, sq) {
				out = append(out, sq)
			}
		}
	}
	return out
}

// LegalMoves lists every legal move for colour, including castling and
// en passant, whether or not it is that colour's turn.
func (g *Game) LegalMoves(colour chess.Colour) []Move {
	var out []Move
	for _, p := range g.board.PiecesOf(colour) {
		for _, sq := range g.legalTargets(p) {
			out = append(out, Move{Piece: p, To: sq})
		}
	}
	return out
}

func (g *Game) hasLegalMove(colour chess.Colour) bool {
	for _, p := range g.board.PiecesOf(colour) {
		if len(g.legalTargets(p)) > 0 {
			return true
		}
	}
	return false
}

// isEnPassant reports whether pawn p capturing onto target would be en
// passant. It is derived from the last move alone.
func (g *Game) isEnPassant(p *chess.Piece, target chess.Square) bool {
	if p.Kind != chess.Pawn {
		return false
	}
	last, ok := g.LastMove()
	if !ok || last.Colour() == p.Colour || !last.IsTwoSquarePawnPush() {
		return false
	}
	captureRank := 5
	if p.Colour == chess.Black {
		captureRank = 4
	}
	if p.Square.Rank != captureRank || last.To.Rank != captureRank {
		return false
	}
	if last.To.File != target.File || target.Rank != p.Square.Rank+p.Colour.Forward() {
		return false
	}
	if g.board.PieceAt(target) != nil {
		return false
	}
	df := last.To.File - p.Square.File
	return df == 1 || df == -1
}

// hasMovedFrom reports whether any move in the history started on sq.
func (g *Game) hasMovedFrom(sq chess.Square) bool {
	for _, m := range g.moves {
		if m.From == sq {
			return true
		}
	}
	return false
}

// castleSquares describes one castling move for one colour.
type castleSquares struct {
	side     chess.CastleSide
	king     chess.Square
	kingTo   chess.Square
	rook     chess.Square
	rookTo   chess.Square
	between  []chess.Square
	crossing []chess.Square
}

func castleGeometry(colour chess.Colour, side chess.CastleSide) castleSquares {
	r := colour.HomeRank()
	sq := func(file int) chess.Square { return chess.Square{File: file, Rank: r} }
	if side == chess.KingSide {
		return castleSquares{
			side: side, king: sq(5), kingTo: sq(7), rook: sq(8), rookTo: sq(6),
			between:  []chess.Square{sq(6), sq(7)},
			crossing: []chess.Square{sq(6), sq(7)},
		}
	}
	return castleSquares{
		side: side, king: sq(5), kingTo: sq(3), rook: sq(1), rookTo: sq(4),
		between:  []chess.Square{sq(2), sq(3), sq(4)},
		crossing: []chess.Square{sq(4), sq(3)},
	}
}

// castleSideFor maps a King destination to a castling side.
func castleSideFor(colour chess.Colour, target chess.Square) chess.CastleSide {
	if target.Rank != colour.HomeRank() {
		return chess.NoCastle
	}
	switch target.File {
	case 7:
		return chess.KingSide
	case 3:
		return chess.QueenSide
	}
	return chess.NoCastle
}

// hasCastlingRight checks the history-derived part of castling legality:
// not castled yet, King and Rook unmoved and still on their home squares.
func (g *Game) hasCastlingRight(colour chess.Colour, side chess.CastleSide) bool {
	if side == chess.NoCastle || g.castled[colour] {
		return false
	}
	geo := castleGeometry(colour, side)
	if k := g.board.PieceAt(geo.king); k == nil || !k.Is(chess.King, colour) {
		return false
	}
	if r := g.board.PieceAt(geo.rook); r == nil || !r.Is(chess.Rook, colour) {
		return false
	}
	return !g.hasMovedFrom(geo.king) && !g.hasMovedFrom(geo.rook)
}

// CanCastle reports whether colour's King may castle onto target.
func (g *Game) CanCastle(colour chess.Colour, target chess.Square) bool {
	side := castleSideFor(colour, target)
	if !g.hasCastlingRight(colour, side) {
		return false
	}
	if g.board.IsInCheck(colour) {
		return false
	}
	geo := castleGeometry(colour, side)
	for _, sq := range geo.between {
		if g.board.PieceAt(sq) != nil {
			return false
		}
	}
	king := g.board.PieceAt(geo.king)
	for _, sq := range geo.crossing {
		if g.board.LeavesKingInCheck(king, sq) {
			return false
		}
	}
	return true
}

// castlingRights reports the four rights for position snapshots.
func (g *Game) castlingRights() hashing.CastlingRights {
	return hashing.CastlingRights{
		WhiteKingSide:  g.hasCastlingRight(chess.White, chess.KingSide),
		WhiteQueenSide: g.hasCastlingRight(chess.White, chess.QueenSide),
		BlackKingSide:  g.hasCastlingRight(chess.Black, chess.KingSide),
		BlackQueenSide: g.hasCastlingRight(chess.Black, chess.QueenSide),
	}
}

// enPassantTarget returns the square skipped by a two-square pawn push on
// the last move, or the zero Square.
func (g *Game) enPassantTarget() chess.Square {
	last, ok := g.LastMove()
	if !ok || !last.IsTwoSquarePawnPush() {
		return chess.Square{}
	}
	return chess.Square{File: last.From.File, Rank: (last.From.Rank + last.To.Rank) / 2}
}
