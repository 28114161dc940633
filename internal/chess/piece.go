package chess

import (
	"fmt"
	"strings"
)

// Piece is one chess man on a board.
type Piece struct {
	Kind   Kind
	Colour Colour
	Square Square
}

// NewPiece creates a piece of the given kind and colour at sq.
func NewPiece(kind Kind, colour Colour, sq Square) *Piece {
	return &Piece{Kind: kind, Colour: colour, Square: sq}
}

// Movement directions as (file, rank) steps.
var (
	rookDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	royalDirs  = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJump = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// Value returns the piece's material value.
func (p *Piece) Value() int {
	return p.Kind.Value()
}

// Clone returns an independent copy of the piece.
func (p *Piece) Clone() *Piece {
	c := *p
	return &c
}

// Letter returns the SAN letter, uppercase for White and lowercase for Black.
// Pawns render as P/p.
func (p *Piece) Letter() string {
	l := p.Kind.Letter()
	if p.Kind == Pawn {
		l = "P"
	}
	if p.Colour == Black {
		return strings.ToLower(l)
	}
	return l
}

// Symbol returns the Unicode chess glyph for the piece.
func (p *Piece) Symbol() string {
	white := [...]string{Pawn: "♙", Knight: "♘", Bishop: "♗", Rook: "♖", Queen: "♕", King: "♔"}
	black := [...]string{Pawn: "♟", Knight: "♞", Bishop: "♝", Rook: "♜", Queen: "♛", King: "♚"}
	if p.Kind < Pawn || p.Kind > King {
		return "?"
	}
	if p.Colour == White {
		return white[p.Kind]
	}
	return black[p.Kind]
}

// String returns a short description such as "White Knight g1".
func (p *Piece) String() string {
	return fmt.Sprintf("%s %s %s", p.Colour, p.Kind, p.Square)
}

// Is reports whether p matches kind and colour.
func (p *Piece) Is(kind Kind, colour Colour) bool {
	return p.Kind == kind && p.Colour == colour
}

// StartRank returns the rank a pawn of this colour begins on.
func (p *Piece) StartRank() int {
	if p.Colour == White {
		return 2
	}
	return 7
}

// PromotionRank returns the rank on which a pawn of this colour promotes.
func (p *Piece) PromotionRank() int {
	if p.Colour == White {
		return 8
	}
	return 1
}

// CandidateMoves returns the pseudo-legal destinations of the piece on b:
// geometry and blocking are respected, check is not.
func (p *Piece) CandidateMoves(b *Board) []Square {
	switch p.Kind {
	case Pawn:
		return p.pawnMoves(b)
	case Knight:
		return p.stepMoves(b, knightJump)
	case Bishop:
		return p.slideMoves(b, bishopDirs)
	case Rook:
		return p.slideMoves(b, rookDirs)
	case Queen:
		return p.slideMoves(b, royalDirs)
	case King:
		return p.kingMoves(b)
	}
	panic(fmt.Sprintf("chess: unknown piece kind %d", p.Kind))
}

// CanReach reports whether target is among the piece's candidate moves.
func (p *Piece) CanReach(b *Board, target Square) bool {
	for _, sq := range p.CandidateMoves(b) {
		if sq == target {
			return true
		}
	}
	return false
}

func (p *Piece) pawnMoves(b *Board) []Square {
	var moves []Square
	dir := p.Colour.Forward()

	if one, ok := p.Square.Offset(0, dir); ok && b.PieceAt(one) == nil {
		moves = append(moves, one)
		if p.Square.Rank == p.StartRank() {
			if two, ok := p.Square.Offset(0, 2*dir); ok && b.PieceAt(two) == nil {
				moves = append(moves, two)
			}
		}
	}

	for _, df := range []int{-1, 1} {
		diag, ok := p.Square.Offset(df, dir)
		if !ok {
			continue
		}
		if target := b.PieceAt(diag); target != nil && target.Colour != p.Colour {
			moves = append(moves, diag)
		}
	}
	return moves
}

// stepMoves handles fixed-offset movers.
func (p *Piece) stepMoves(b *Board, offsets [][2]int) []Square {
	var moves []Square
	for _, d := range offsets {
		sq, ok := p.Square.Offset(d[0], d[1])
		if !ok {
			continue
		}
		if other := b.PieceAt(sq); other != nil && other.Colour == p.Colour {
			continue
		}
		moves = append(moves, sq)
	}
	return moves
}

// slideMoves casts a ray per direction, stopping at the edge, before an own
// piece, or on an enemy piece.
func (p *Piece) slideMoves(b *Board, dirs [][2]int) []Square {
	var moves []Square
	for _, d := range dirs {
		sq := p.Square
		for {
			next, ok := sq.Offset(d[0], d[1])
			if !ok {
				break
			}
			sq = next
			other := b.PieceAt(sq)
			if other == nil {
				moves = append(moves, sq)
				continue
			}
			if other.Colour != p.Colour {
				moves = append(moves, sq)
			}
			break
		}
	}
	return moves
}

// kingMoves excludes squares touching the enemy King. Other attacked squares
// are left for the legality check to reject.
func (p *Piece) kingMoves(b *Board) []Square {
	enemy := b.findKing(p.Colour.Opposite())
	var moves []Square
	for _, sq := range p.stepMoves(b, royalDirs) {
		if enemy != nil && sq.IsAdjacent(enemy.Square) {
			continue
		}
		moves = append(moves, sq)
	}
	return moves
}
