package chess

import (
	"fmt"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// Square is an immutable board coordinate. File and Rank are both 1..8,
// file 1 being the a-file.
type Square struct {
	File int
	Rank int
}

// NewSquare builds a square, failing if either coordinate is off the board.
func NewSquare(file, rank int) (Square, error) {
	if !inBounds(file, rank) {
		return Square{}, fmt.Errorf("file %d, rank %d: %w", file, rank, errors.ErrInvalidSquare)
	}
	return Square{File: file, Rank: rank}, nil
}

// MustSquare is like ParseSquare but panics on malformed input.
// Intended for fixed layouts and tests.
func MustSquare(text string) Square {
	sq, err := ParseSquare(text)
	if err != nil {
		panic(err)
	}
	return sq
}

// ParseSquare parses algebraic text such as "e4".
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 || !IsFileChar(text[0]) || !IsRankChar(text[1]) {
		return Square{}, fmt.Errorf("%q: %w", text, errors.ErrInvalidSquare)
	}
	return Square{File: int(text[0]-'a') + 1, Rank: int(text[1] - '0')}, nil
}

// IsFileChar reports whether c is a file letter a-h.
func IsFileChar(c byte) bool {
	return c >= 'a' && c <= 'h'
}

// IsRankChar reports whether c is a rank digit 1-8.
func IsRankChar(c byte) bool {
	return c >= '1' && c <= '8'
}

func inBounds(file, rank int) bool {
	return file >= MinCoord && file <= MaxCoord && rank >= MinCoord && rank <= MaxCoord
}

// IsValid reports whether the square lies on the board.
// The zero Square is not valid.
func (s Square) IsValid() bool {
	return inBounds(s.File, s.Rank)
}

// FileChar returns the file letter.
func (s Square) FileChar() byte {
	return byte('a' + s.File - 1)
}

// RankChar returns the rank digit.
func (s Square) RankChar() byte {
	return byte('0' + s.Rank)
}

// String returns the algebraic form of the square.
func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return string([]byte{s.FileChar(), s.RankChar()})
}

// Mirror flips the square vertically (rank -> 9-rank).
func (s Square) Mirror() Square {
	return Square{File: s.File, Rank: MaxCoord + 1 - s.Rank}
}

// Offset returns the square shifted by (df, dr), or false if it leaves the board.
func (s Square) Offset(df, dr int) (Square, bool) {
	f, r := s.File+df, s.Rank+dr
	if !inBounds(f, r) {
		return Square{}, false
	}
	return Square{File: f, Rank: r}, true
}

// IsLight reports whether the square is a light square (h1 is light).
func (s Square) IsLight() bool {
	return (s.File+s.Rank)%2 == 1
}

// IsAdjacent reports whether o is one of the eight neighbours of s.
func (s Square) IsAdjacent(o Square) bool {
	df, dr := abs(s.File-o.File), abs(s.Rank-o.Rank)
	return df <= 1 && dr <= 1 && (df|dr) != 0
}

// MarshalText implements encoding.TextMarshaler.
func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Square) UnmarshalText(b []byte) error {
	sq, err := ParseSquare(string(b))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
