// Package hashing provides position hashing and repetition counting.
package hashing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// CastlingRights holds the four castling-availability flags.
type CastlingRights struct {
	WhiteKingSide  bool
	WhiteQueenSide bool
	BlackKingSide  bool
	BlackQueenSide bool
}

// Snapshot identifies a position for repetition purposes.
type Snapshot struct {
	SideToMove chess.Colour
	Castling   CastlingRights
	// EnPassant is the zero Square when no en passant target exists.
	EnPassant chess.Square
	Layout    uint64
}

// NewSnapshot captures board, side to move, rights and en passant target.
func NewSnapshot(b *chess.Board, toMove chess.Colour, rights CastlingRights, ep chess.Square) Snapshot {
	return Snapshot{
		SideToMove: toMove,
		Castling:   rights,
		EnPassant:  ep,
		Layout:     LayoutHash(b),
	}
}

// Hash returns the 64-bit identity of the snapshot.
func (s Snapshot) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(s.Layout >> (8 * i))
	}
	_, _ = d.Write(buf[:])

	flags := []bool{
		s.SideToMove == chess.White,
		s.Castling.WhiteKingSide,
		s.Castling.WhiteQueenSide,
		s.Castling.BlackKingSide,
		s.Castling.BlackQueenSide,
	}
	for _, f := range flags {
		if f {
			_, _ = d.WriteString("1")
		} else {
			_, _ = d.WriteString("0")
		}
	}
	_, _ = d.WriteString(s.EnPassant.String())
	return d.Sum64()
}

// LayoutHash hashes the active pieces independent of their order on b.
func LayoutHash(b *chess.Board) uint64 {
	pieces := b.Pieces()
	keys := make([]string, len(pieces))
	for i, p := range pieces {
		keys[i] = strconv.Itoa(int(p.Kind)) + "-" + strconv.Itoa(int(p.Colour)) + "-" + p.Square.String()
	}
	sort.Strings(keys)
	return xxhash.Sum64String(strings.Join(keys, "|"))
}

// RepetitionTable counts how often each position hash has been seen.
type RepetitionTable struct {
	counts map[uint64]int
}

// NewRepetitionTable creates an empty table.
func NewRepetitionTable() *RepetitionTable {
	return &RepetitionTable{counts: make(map[uint64]int)}
}

// Record adds one occurrence of hash and returns its new count.
func (t *RepetitionTable) Record(hash uint64) int {
	t.counts[hash]++
	return t.counts[hash]
}

// Count returns how often hash has been recorded.
func (t *RepetitionTable) Count(hash uint64) int {
	return t.counts[hash]
}

// Len returns the number of distinct hashes.
func (t *RepetitionTable) Len() int {
	return len(t.counts)
}
