package engine

import (
	"strconv"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// PlayerInfo summarises material won by each side.
type PlayerInfo struct {
	// Captured lists the enemy pieces each colour has taken.
	Captured [2][]chess.Piece
	// Material is the value of captured pieces plus, per promotion, the
	// promoted piece's value less the pawn it replaced.
	Material [2]int
}

// PlayerInfo computes the material balance of the game so far.
func (g *Game) PlayerInfo() PlayerInfo {
	var info PlayerInfo
	for _, p := range g.board.Captured() {
		taker := p.Colour.Opposite()
		info.Captured[taker] = append(info.Captured[taker], *p)
		info.Material[taker] += p.Value()
	}
	for _, p := range g.board.Promoted() {
		info.Material[p.Colour] += p.Value() - chess.Pawn.Value()
	}
	return info
}

// Advantage returns colour's material lead (zero if behind or level).
func (pi PlayerInfo) Advantage(colour chess.Colour) int {
	diff := pi.Material[colour] - pi.Material[colour.Opposite()]
	if diff < 0 {
		return 0
	}
	return diff
}

// Summary renders colour's captured pieces as glyphs followed by "(+N)"
// when colour is ahead.
func (pi PlayerInfo) Summary(colour chess.Colour) string {
	var sb strings.Builder
	for i := range pi.Captured[colour] {
		sb.WriteString(pi.Captured[colour][i].Symbol())
	}
	if adv := pi.Advantage(colour); adv > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("(+" + strconv.Itoa(adv) + ")")
	}
	return sb.String()
}
