// Package chess provides core chess types and operations.
package chess

import "fmt"

// Colour represents the colour of a piece or player.
type Colour int

const (
	White Colour = iota
	Black
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// Forward returns the rank direction pawns of this colour advance in.
func (c Colour) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// HomeRank returns the back rank of this colour.
func (c Colour) HomeRank() int {
	if c == White {
		return 1
	}
	return 8
}

// ParseColour converts "white"/"black" (any case, or w/b) into a Colour.
func ParseColour(s string) (Colour, error) {
	switch s {
	case "white", "White", "WHITE", "w", "W":
		return White, nil
	case "black", "Black", "BLACK", "b", "B":
		return Black, nil
	}
	return White, fmt.Errorf("unknown colour %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Colour) MarshalText() ([]byte, error) {
	if c == White {
		return []byte("white"), nil
	}
	return []byte("black"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Colour) UnmarshalText(b []byte) error {
	v, err := ParseColour(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Kind represents a chess piece type.
type Kind int

const (
	NoKind Kind = iota // Absent promotion choice
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Kinds lists the six piece kinds in ascending value order.
var Kinds = [...]Kind{Pawn, Knight, Bishop, Rook, Queen, King}

// KingValue stands in for the King's unbounded material value.
const KingValue = 1000

// String returns the string representation of a piece kind.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	}
	return "None"
}

// Letter returns the SAN letter of a piece kind. Pawns have none.
func (k Kind) Letter() string {
	switch k {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

// Value returns the material value of a piece kind.
func (k Kind) Value() int {
	switch k {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	case King:
		return KingValue
	}
	return 0
}

// IsPromotionTarget reports whether a pawn may promote to this kind.
func (k Kind) IsPromotionTarget() bool {
	switch k {
	case Knight, Bishop, Rook, Queen:
		return true
	}
	return false
}

// KindFromLetter maps an uppercase SAN letter to a piece kind.
// P maps to Pawn; anything unknown maps to NoKind.
func KindFromLetter(c byte) Kind {
	switch c {
	case 'P':
		return Pawn
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	}
	return NoKind
}

// CastleSide distinguishes the two castling moves.
type CastleSide int

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

// Board geometry.
const (
	BoardSize = 8
	MinCoord  = 1
	MaxCoord  = BoardSize
)
