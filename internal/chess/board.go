package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// Board owns the pieces of one game: the active set, pieces captured so far,
// and pieces created by promotion (which are also active).
type Board struct {
	pieces   []*Piece
	captured []*Piece
	promoted []*Piece
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// NewInitialBoard creates a board set up in the standard starting position.
func NewInitialBoard() *Board {
	b := NewBoard()
	b.Reset()
	return b
}

// NewBoardWithPieces creates a board holding copies of the given pieces.
func NewBoardWithPieces(pieces []*Piece) *Board {
	b := NewBoard()
	for _, p := range pieces {
		b.pieces = append(b.pieces, p.Clone())
	}
	return b
}

// Reset clears the board and places the standard 32 pieces.
func (b *Board) Reset() {
	b.pieces = b.pieces[:0]
	b.captured = nil
	b.promoted = nil

	backRank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 1; file <= BoardSize; file++ {
		b.pieces = append(b.pieces,
			NewPiece(backRank[file-1], White, Square{file, 1}),
			NewPiece(Pawn, White, Square{file, 2}),
			NewPiece(Pawn, Black, Square{file, 7}),
			NewPiece(backRank[file-1], Black, Square{file, 8}),
		)
	}
}

// PieceAt returns the active piece on sq, or nil.
func (b *Board) PieceAt(sq Square) *Piece {
	for _, p := range b.pieces {
		if p.Square == sq {
			return p
		}
	}
	return nil
}

// Pieces returns the active pieces. The slice is a copy; the pieces are not.
func (b *Board) Pieces() []*Piece {
	out := make([]*Piece, len(b.pieces))
	copy(out, b.pieces)
	return out
}

// PiecesOf returns the active pieces of one colour.
func (b *Board) PiecesOf(colour Colour) []*Piece {
	var out []*Piece
	for _, p := range b.pieces {
		if p.Colour == colour {
			out = append(out, p)
		}
	}
	return out
}

// Captured returns the pieces removed from play.
func (b *Board) Captured() []*Piece {
	out := make([]*Piece, len(b.captured))
	copy(out, b.captured)
	return out
}

// Promoted returns the pieces created by pawn promotion.
func (b *Board) Promoted() []*Piece {
	out := make([]*Piece, len(b.promoted))
	copy(out, b.promoted)
	return out
}

// Add places a piece on the board.
func (b *Board) Add(p *Piece) {
	b.pieces = append(b.pieces, p)
}

// Remove takes a piece off the board without recording a capture.
func (b *Board) Remove(p *Piece) {
	for i, q := range b.pieces {
		if q == p {
			b.pieces = append(b.pieces[:i], b.pieces[i+1:]...)
			return
		}
	}
}

// CapturePiece moves p from the active set to the captured set.
func (b *Board) CapturePiece(p *Piece) {
	for i, q := range b.pieces {
		if q == p {
			b.pieces = append(b.pieces[:i], b.pieces[i+1:]...)
			b.captured = append(b.captured, p)
			return
		}
	}
}

// Promote replaces pawn with a new piece of kind on the same square and
// records it as promoted.
func (b *Board) Promote(pawn *Piece, kind Kind) *Piece {
	promoted := NewPiece(kind, pawn.Colour, pawn.Square)
	b.Remove(pawn)
	b.pieces = append(b.pieces, promoted)
	b.promoted = append(b.promoted, promoted)
	return promoted
}

// Move relocates p to target, capturing whatever stands there.
// It returns the captured piece, if any.
func (b *Board) Move(p *Piece, target Square) *Piece {
	victim := b.PieceAt(target)
	if victim != nil {
		b.CapturePiece(victim)
	}
	p.Square = target
	return victim
}

func (b *Board) findKing(colour Colour) *Piece {
	for _, p := range b.pieces {
		if p.Kind == King && p.Colour == colour {
			return p
		}
	}
	return nil
}

// King returns the King of the given colour. A board without one is corrupt,
// so this panics rather than returning nil.
func (b *Board) King(colour Colour) *Piece {
	k := b.findKing(colour)
	if k == nil {
		panic(fmt.Errorf("%s: %w", colour, errors.ErrMissingKing))
	}
	return k
}

// IsInCheck reports whether any enemy non-King piece can reach colour's King.
func (b *Board) IsInCheck(colour Colour) bool {
	return b.IsAttacked(b.King(colour).Square, colour.Opposite())
}

// IsAttacked reports whether a non-King piece of colour by can reach sq.
// Pawns only count when sq is occupied, matching their capture geometry.
func (b *Board) IsAttacked(sq Square, by Colour) bool {
	for _, p := range b.pieces {
		if p.Colour != by || p.Kind == King {
			continue
		}
		if p.CanReach(b, sq) {
			return true
		}
	}
	return false
}

// Clone deep-copies the board. The copy shares no pieces with b.
func (b *Board) Clone() *Board {
	c := &Board{
		pieces:   make([]*Piece, 0, len(b.pieces)),
		captured: make([]*Piece, 0, len(b.captured)),
	}
	for _, p := range b.pieces {
		cp := p.Clone()
		c.pieces = append(c.pieces, cp)
		for _, pr := range b.promoted {
			if pr == p {
				c.promoted = append(c.promoted, cp)
			}
		}
	}
	for _, p := range b.captured {
		c.captured = append(c.captured, p.Clone())
	}
	return c
}

// LeavesKingInCheck plays p to target on a clone and reports whether p's own
// King is then in check. A pawn moving diagonally onto an empty square is
// treated as an en passant capture of the pawn beside it. b is not modified.
func (b *Board) LeavesKingInCheck(p *Piece, target Square) bool {
	c := b.Clone()
	cp := c.Counterpart(p)
	if cp == nil {
		return true
	}
	if victim := c.PieceAt(target); victim != nil {
		c.CapturePiece(victim)
	} else if cp.Kind == Pawn && target.File != cp.Square.File {
		if victim := c.PieceAt(Square{target.File, cp.Square.Rank}); victim != nil && victim.Colour != cp.Colour {
			c.CapturePiece(victim)
		}
	}
	cp.Square = target
	return c.IsInCheck(cp.Colour)
}

// Counterpart returns the piece on b standing where p stands with the same
// kind and colour. It is how a piece is located on a cloned board.
func (b *Board) Counterpart(p *Piece) *Piece {
	q := b.PieceAt(p.Square)
	if q == nil || q.Kind != p.Kind || q.Colour != p.Colour {
		return nil
	}
	return q
}

// HasPawns reports whether any pawn remains on the board.
func (b *Board) HasPawns() bool {
	for _, p := range b.pieces {
		if p.Kind == Pawn {
			return true
		}
	}
	return false
}

// String renders the board as an 8x8 diagram, rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := MaxCoord; rank >= MinCoord; rank-- {
		fmt.Fprintf(&sb, "%d ", rank)
		for file := MinCoord; file <= MaxCoord; file++ {
			if p := b.PieceAt(Square{file, rank}); p != nil {
				sb.WriteString(p.Letter())
			} else {
				sb.WriteByte('.')
			}
			if file < MaxCoord {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
