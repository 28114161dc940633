// Package parser turns move text into move intents the engine can execute.
package parser

import (
	"strings"
	"unicode"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// isCapture returns true if c is a capture marker.
func isCapture(c byte) bool {
	return c == 'x' || c == 'X' || c == ':'
}

// isCastlingChar returns true if c is a castling character.
func isCastlingChar(c byte) bool {
	return c == 'O' || c == '0' || c == 'o'
}

// isSuffix returns true if c is a check, mate, stalemate or annotation mark.
func isSuffix(c byte) bool {
	return c == '+' || c == '#' || c == '$' || c == '!' || c == '?'
}

// ParseSAN resolves SAN text against board for the given colour. It returns
// false when the text is malformed or does not identify exactly one piece.
func ParseSAN(text string, board *chess.Board, colour chess.Colour) (chess.PendingMove, bool) {
	move := strings.TrimSpace(text)
	for len(move) > 0 && isSuffix(move[len(move)-1]) {
		move = move[:len(move)-1]
	}
	if move == "" {
		return chess.PendingMove{}, false
	}

	if isCastlingChar(move[0]) {
		return parseCastle(move, board, colour)
	}

	promotion := chess.NoKind
	if idx := strings.IndexByte(move, '='); idx >= 0 {
		if idx != len(move)-2 {
			return chess.PendingMove{}, false
		}
		promotion = chess.KindFromLetter(byte(unicode.ToUpper(rune(move[idx+1]))))
		if !promotion.IsPromotionTarget() {
			return chess.PendingMove{}, false
		}
		move = move[:idx]
	}

	if len(move) < 2 {
		return chess.PendingMove{}, false
	}
	dest, err := chess.ParseSquare(move[len(move)-2:])
	if err != nil {
		return chess.PendingMove{}, false
	}

	pos := 0
	core := move[:len(move)-2]
	currentChar := func() byte {
		if pos >= len(core) {
			return 0
		}
		return core[pos]
	}
	advance := func() {
		if pos < len(core) {
			pos++
		}
	}

	kind := chess.Pawn
	if c := currentChar(); c >= 'A' && c <= 'Z' {
		if kind = chess.KindFromLetter(c); kind == chess.NoKind {
			return chess.PendingMove{}, false
		}
		advance()
	}

	// At most one file and one rank for disambiguation; the capture marker
	// may appear anywhere among them.
	var fromFile, fromRank byte
	capture := false
	for pos < len(core) {
		c := currentChar()
		switch {
		case isCapture(c):
			capture = true
		case chess.IsFileChar(c) && fromFile == 0:
			fromFile = c
		case chess.IsRankChar(c) && fromRank == 0:
			fromRank = c
		default:
			return chess.PendingMove{}, false
		}
		advance()
	}

	var candidates []*chess.Piece
	for _, p := range board.PiecesOf(colour) {
		if p.Kind != kind {
			continue
		}
		if fromFile != 0 && p.Square.FileChar() != fromFile {
			continue
		}
		if fromRank != 0 && p.Square.RankChar() != fromRank {
			continue
		}
		if p.CanReach(board, dest) || (capture && isEnPassantShape(p, dest, board)) {
			candidates = append(candidates, p)
		}
	}

	// Pinned pieces cannot be the intended mover.
	if len(candidates) > 1 {
		legal := candidates[:0:0]
		for _, p := range candidates {
			if !board.LeavesKingInCheck(p, dest) {
				legal = append(legal, p)
			}
		}
		candidates = legal
	}

	if len(candidates) != 1 {
		return chess.PendingMove{}, false
	}
	return chess.PendingMove{Piece: candidates[0], To: dest, Promotion: promotion}, true
}

// isEnPassantShape reports whether a pawn capture onto dest would have to be
// en passant: one step diagonally forward onto an empty square.
func isEnPassantShape(p *chess.Piece, dest chess.Square, board *chess.Board) bool {
	if p.Kind != chess.Pawn || board.PieceAt(dest) != nil {
		return false
	}
	df := dest.File - p.Square.File
	return (df == 1 || df == -1) && dest.Rank-p.Square.Rank == p.Colour.Forward()
}

// parseCastle handles O-O and O-O-O (zeros and lowercase accepted).
func parseCastle(move string, board *chess.Board, colour chess.Colour) (chess.PendingMove, bool) {
	count := 0
	for i := 0; i < len(move); i++ {
		switch {
		case isCastlingChar(move[i]):
			count++
		case move[i] == '-':
		default:
			return chess.PendingMove{}, false
		}
	}

	var file int
	switch count {
	case 2:
		file = 7
	case 3:
		file = 3
	default:
		return chess.PendingMove{}, false
	}

	for _, p := range board.PiecesOf(colour) {
		if p.Kind == chess.King {
			return chess.PendingMove{Piece: p, To: chess.Square{File: file, Rank: colour.HomeRank()}}, true
		}
	}
	return chess.PendingMove{}, false
}
