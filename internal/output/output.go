// Package output writes replayed games as PGN or JSON.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/replay"
)

// Notation selects how moves are written.
type Notation int

const (
	SAN  Notation = iota // Standard Algebraic Notation
	LALG                 // Long algebraic (e2e4)
	HALG                 // Hyphenated long algebraic (e2-e4, e4xd5)
	UCI                  // UCI (e7e8q)
)

// ParseNotation converts a -W style name into a Notation.
func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(s) {
	case "", "san":
		return SAN, nil
	case "lalg":
		return LALG, nil
	case "halg":
		return HALG, nil
	case "uci":
		return UCI, nil
	}
	return SAN, fmt.Errorf("unknown notation %q", s)
}

// SevenTagRoster lists the mandatory PGN tags in order.
var SevenTagRoster = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// Game is a finished or abandoned replay ready for output.
type Game struct {
	Tags    map[string]string
	Records []chess.MoveRecord
	Result  string
	// Termination names how the game ended, empty if it did not.
	Termination string
	FinalFEN    string
}

// FromReplay builds a Game named after its source.
func FromReplay(source string, res replay.Result) *Game {
	g := &Game{
		Tags:     map[string]string{"Event": source},
		Records:  res.Records,
		Result:   res.Score(),
		FinalFEN: res.FEN,
	}
	if res.Over {
		g.Termination = res.Outcome.Result.String()
		g.Tags["Termination"] = g.Termination
	}
	g.Tags["Result"] = g.Result
	return g
}

// Options controls PGN layout.
type Options struct {
	Notation      Notation
	MaxLineLength int
	SevenTagOnly  bool
}

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = 80
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a string, adding a space separator if needed.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		// Check if we need a new line
		if o.lineLength+1+len(s) > o.maxLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
			o.needsSpace = false
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}

	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	fmt.Fprintln(o.w)
	o.lineLength = 0
	o.needsSpace = false
}

// WritePGN writes one game followed by a blank line.
func WritePGN(w io.Writer, g *Game, opts Options) {
	writeTags(w, g, opts.SevenTagOnly)
	fmt.Fprintln(w)
	writeMoves(w, g, opts)
	fmt.Fprintln(w)
}

func writeTags(w io.Writer, g *Game, sevenOnly bool) {
	for _, tag := range SevenTagRoster {
		value := g.Tags[tag]
		if value == "" {
			value = "?"
		}
		fmt.Fprintf(w, "[%s \"%s\"]\n", tag, escapeTagValue(value))
	}
	if sevenOnly {
		return
	}
	for _, tag := range extraTags(g.Tags) {
		fmt.Fprintf(w, "[%s \"%s\"]\n", tag, escapeTagValue(g.Tags[tag]))
	}
}

// extraTags returns the non-roster tags in a stable order.
func extraTags(tags map[string]string) []string {
	var out []string
	for tag := range tags {
		if !isSevenTagRosterTag(tag) {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

func isSevenTagRosterTag(tag string) bool {
	for _, t := range SevenTagRoster {
		if t == tag {
			return true
		}
	}
	return false
}

// escapeTagValue escapes special characters in tag values.
func escapeTagValue(s string) string {
	// Fast path: if no escaping needed, return original string
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

func writeMoves(w io.Writer, g *Game, opts Options) {
	ow := NewOutputWriter(w, opts.MaxLineLength)

	for i, rec := range g.Records {
		white := rec.Colour() == chess.White
		if white {
			ow.Write(fmt.Sprintf("%d.", moveNumber(g.Records, i)))
		} else if i == 0 {
			// Black to move at start
			ow.Write(fmt.Sprintf("%d...", moveNumber(g.Records, i)))
		}
		ow.Write(FormatMove(rec, opts.Notation))
	}

	result := g.Result
	if result == "" {
		result = "*"
	}
	ow.Write(result)
	ow.NewLine()
}

// moveNumber is the full-move number of records[i].
func moveNumber(records []chess.MoveRecord, i int) int {
	plies := i
	if records[0].Colour() == chess.Black {
		plies++
	}
	return plies/2 + 1
}

// FormatMove formats a move in the given notation.
func FormatMove(rec chess.MoveRecord, n Notation) string {
	switch n {
	case LALG:
		return formatLongAlgebraic(rec, false)
	case HALG:
		return formatLongAlgebraic(rec, true)
	case UCI:
		return rec.UCI()
	default:
		return rec.Format(false)
	}
}

// formatLongAlgebraic formats a move in long algebraic notation.
func formatLongAlgebraic(rec chess.MoveRecord, hyphenated bool) string {
	switch rec.Castle {
	case chess.KingSide:
		return "O-O"
	case chess.QueenSide:
		return "O-O-O"
	}

	var sb strings.Builder
	sb.WriteString(rec.From.String())
	if hyphenated {
		if rec.Capture {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('-')
		}
	}
	sb.WriteString(rec.To.String())
	if rec.Promotion != chess.NoKind {
		sb.WriteByte('=')
		sb.WriteString(rec.Promotion.Letter())
	}
	return sb.String()
}
