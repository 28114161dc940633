package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// InitialFEN is the FEN of the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN describes the current position in Forsyth-Edwards Notation.
// Castling rights are the structural rights: neither King nor Rook moved.
func (g *Game) FEN() string {
	var sb strings.Builder

	writePiecePositions(&sb, g.board)
	sb.WriteByte(' ')
	if g.ActiveColour() == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	writeCastlingRights(&sb, g)
	sb.WriteByte(' ')
	sb.WriteString(g.enPassantTarget().String())
	sb.WriteByte(' ')
	fmt.Fprintf(&sb, "%d %d", g.PliesSinceProgress(), g.fullMoveNumber())

	return sb.String()
}

func (g *Game) fullMoveNumber() int {
	plies := len(g.moves)
	if len(g.moves) > 0 && g.moves[0].Colour() == chess.Black {
		plies++
	}
	return plies/2 + 1
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for rank := chess.MaxCoord; rank >= chess.MinCoord; rank-- {
		emptyCount := 0
		for file := chess.MinCoord; file <= chess.MaxCoord; file++ {
			p := board.PieceAt(chess.Square{File: file, Rank: rank})
			if p == nil {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteString(p.Letter())
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > chess.MinCoord {
			sb.WriteByte('/')
		}
	}
}

// writeCastlingRights writes the castling availability to the builder.
func writeCastlingRights(sb *strings.Builder, g *Game) {
	rights := g.castlingRights()
	start := sb.Len()
	if rights.WhiteKingSide {
		sb.WriteByte('K')
	}
	if rights.WhiteQueenSide {
		sb.WriteByte('Q')
	}
	if rights.BlackKingSide {
		sb.WriteByte('k')
	}
	if rights.BlackQueenSide {
		sb.WriteByte('q')
	}
	if sb.Len() == start {
		sb.WriteByte('-')
	}
}
