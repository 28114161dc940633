package parser

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// Game results recognised at the end of movetext.
var results = map[string]bool{"1-0": true, "0-1": true, "1/2-1/2": true, "*": true}

// Movetext is a tokenised move list.
type Movetext struct {
	Moves  []string
	Result string
}

// movetextLexer walks a movetext string one byte at a time.
type movetextLexer struct {
	text     string
	pos      int
	ravLevel int
}

func (l *movetextLexer) currentChar() byte {
	if l.pos >= len(l.text) {
		return 0
	}
	return l.text[l.pos]
}

func (l *movetextLexer) advance() {
	if l.pos < len(l.text) {
		l.pos++
	}
}

// skipUntil advances past the next occurrence of end, reporting whether it was found.
func (l *movetextLexer) skipUntil(end byte) bool {
	for l.pos < len(l.text) {
		c := l.currentChar()
		l.advance()
		if c == end {
			return true
		}
	}
	return false
}

// word gathers characters up to whitespace or a structural delimiter.
func (l *movetextLexer) word() string {
	start := l.pos
	for l.pos < len(l.text) {
		switch l.currentChar() {
		case ' ', '\t', '\r', '\n', '{', '}', '(', ')', ';':
			return l.text[start:l.pos]
		}
		l.advance()
	}
	return l.text[start:]
}

// SplitMovetext extracts the SAN moves of the main line from PGN-style
// movetext. Move numbers, comments, NAGs and variations are dropped.
func SplitMovetext(text string) (Movetext, error) {
	var mt Movetext
	l := &movetextLexer{text: text}

	for l.pos < len(l.text) {
		switch c := l.currentChar(); c {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '{':
			if !l.skipUntil('}') {
				return mt, fmt.Errorf("unterminated comment: %w", errors.ErrUnparsableMove)
			}
		case ';':
			l.skipUntil('\n')
		case '(':
			l.ravLevel++
			l.advance()
		case ')':
			if l.ravLevel == 0 {
				return mt, fmt.Errorf("unbalanced ')': %w", errors.ErrUnparsableMove)
			}
			l.ravLevel--
			l.advance()
		case '}':
			return mt, fmt.Errorf("unbalanced '}': %w", errors.ErrUnparsableMove)
		default:
			w := l.word()
			if l.ravLevel > 0 {
				continue
			}
			if results[w] {
				mt.Result = w
				continue
			}
			if san := stripMoveNumber(w); san != "" && san[0] != '$' {
				mt.Moves = append(mt.Moves, san)
			}
		}
	}
	if l.ravLevel != 0 {
		return mt, fmt.Errorf("unterminated variation: %w", errors.ErrUnparsableMove)
	}
	return mt, nil
}

// stripMoveNumber removes a leading "12." or "12..." from w.
func stripMoveNumber(w string) string {
	i := 0
	for i < len(w) && w[i] >= '0' && w[i] <= '9' {
		i++
	}
	if i == 0 || i == len(w) || w[i] != '.' {
		return w
	}
	return strings.TrimLeft(w[i:], ".")
}
