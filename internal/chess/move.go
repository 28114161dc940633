package chess

import (
	"fmt"
	"strings"
)

// SAN suffixes.
const (
	CheckMarker     = "+"
	CheckmateMarker = "#"
	StalemateMarker = "$"
)

// PendingMove is a move intent: which piece goes where, and what a pawn
// promotes to. Promotion is NoKind when unspecified.
type PendingMove struct {
	Piece     *Piece
	To        Square
	Promotion Kind
}

// String renders the intent in coordinate form, e.g. "e7e8q".
func (m PendingMove) String() string {
	if m.Piece == nil {
		return "-"
	}
	s := m.Piece.Square.String() + m.To.String()
	if m.Promotion != NoKind {
		s += strings.ToLower(m.Promotion.Letter())
	}
	return s
}

// MoveRecord is the immutable record of one executed move.
type MoveRecord struct {
	From Square
	To   Square

	// The moving piece as it stood before the move.
	Piece Piece

	Capture   bool
	EnPassant bool
	Castle    CastleSide

	// Promotion is NoKind unless a pawn promoted.
	Promotion Kind

	Check     bool
	Checkmate bool
	Stalemate bool

	// Disambiguation is the SAN fragment ("", a file letter, a rank digit,
	// or both) distinguishing the mover from like pieces.
	Disambiguation string

	// Count is the 1-based ply number of the move.
	Count int
}

// IsPawnMove reports whether a pawn moved.
func (r MoveRecord) IsPawnMove() bool {
	return r.Piece.Kind == Pawn
}

// IsCastle reports whether the move was a castle.
func (r MoveRecord) IsCastle() bool {
	return r.Castle != NoCastle
}

// IsTwoSquarePawnPush reports whether a pawn advanced two ranks.
func (r MoveRecord) IsTwoSquarePawnPush() bool {
	return r.IsPawnMove() && r.From.File == r.To.File && abs(r.To.Rank-r.From.Rank) == 2
}

// Colour returns the colour of the side that moved.
func (r MoveRecord) Colour() Colour {
	return r.Piece.Colour
}

// Format renders the move in SAN. With useSymbols, piece letters are
// replaced by Unicode glyphs.
func (r MoveRecord) Format(useSymbols bool) string {
	var sb strings.Builder

	switch r.Castle {
	case KingSide:
		sb.WriteString("O-O")
	case QueenSide:
		sb.WriteString("O-O-O")
	}
	if r.IsCastle() {
		if r.Checkmate {
			sb.WriteString(CheckmateMarker)
		} else if r.Check {
			sb.WriteString(CheckMarker)
		}
		return sb.String()
	}

	if r.Piece.Kind != Pawn {
		sb.WriteString(pieceLabel(r.Piece.Kind, r.Piece.Colour, useSymbols))
	}
	sb.WriteString(r.Disambiguation)
	if r.Capture {
		if r.Piece.Kind == Pawn {
			sb.WriteByte(r.From.FileChar())
		}
		sb.WriteByte('x')
	}
	sb.WriteString(r.To.String())
	if r.Promotion != NoKind {
		sb.WriteByte('=')
		sb.WriteString(pieceLabel(r.Promotion, r.Piece.Colour, useSymbols))
	}

	switch {
	case r.Checkmate:
		sb.WriteString(CheckmateMarker)
	case r.Check:
		sb.WriteString(CheckMarker)
	case r.Stalemate:
		sb.WriteString(StalemateMarker)
	}
	return sb.String()
}

// String returns the plain SAN form.
func (r MoveRecord) String() string {
	return r.Format(false)
}

// UCI returns the move in coordinate notation ("e2e4", "e7e8q").
func (r MoveRecord) UCI() string {
	s := r.From.String() + r.To.String()
	if r.Promotion != NoKind {
		s += strings.ToLower(r.Promotion.Letter())
	}
	return s
}

// GoString is used by %#v in test failures.
func (r MoveRecord) GoString() string {
	return fmt.Sprintf("MoveRecord{%d %s %s}", r.Count, r.Colour(), r.Format(false))
}

func pieceLabel(kind Kind, colour Colour, useSymbols bool) string {
	if useSymbols {
		return (&Piece{Kind: kind, Colour: colour}).Symbol()
	}
	return kind.Letter()
}
