package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// ParsePlacement parses a piece placement such as "Qg3" (White queen on g3)
// or "kg8" (Black king on g8). The letter case selects the colour.
func ParsePlacement(text string) (*Piece, error) {
	if len(text) != 3 {
		return nil, fmt.Errorf("placement %q: want letter and square", text)
	}
	colour := White
	letter := text[0]
	if letter >= 'a' && letter <= 'z' {
		colour = Black
		letter -= 'a' - 'A'
	}
	kind := KindFromLetter(letter)
	if kind == NoKind {
		return nil, fmt.Errorf("placement %q: unknown piece letter %q", text, text[0])
	}
	sq, err := ParseSquare(text[1:])
	if err != nil {
		return nil, errors.Wrapf(err, "placement %q", text)
	}
	return NewPiece(kind, colour, sq), nil
}

// ParseLayout parses a list of placements, rejecting two pieces on one square.
func ParseLayout(placements []string) ([]*Piece, error) {
	seen := make(map[Square]bool, len(placements))
	pieces := make([]*Piece, 0, len(placements))
	for _, text := range placements {
		p, err := ParsePlacement(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}
		if seen[p.Square] {
			return nil, fmt.Errorf("placement %q: square %s already occupied", text, p.Square)
		}
		seen[p.Square] = true
		pieces = append(pieces, p)
	}
	return pieces, nil
}

// MustLayout is like ParseLayout but panics on error.
func MustLayout(placements ...string) []*Piece {
	pieces, err := ParseLayout(placements)
	if err != nil {
		panic(err)
	}
	return pieces
}

// Placement is the inverse of ParsePlacement.
func (p *Piece) Placement() string {
	return p.Letter() + p.Square.String()
}
