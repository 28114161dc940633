package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/replay"
)

func replayGame(t *testing.T, source, text string) *Game {
	t.Helper()
	res, err := replay.Play(text)
	if err != nil {
		t.Fatalf("replay.Play(%q) error = %v", text, err)
	}
	return FromReplay(source, res)
}

func TestParseNotation(t *testing.T) {
	tests := []struct {
		in      string
		want    Notation
		wantErr bool
	}{
		{"", SAN, false},
		{"san", SAN, false},
		{"LALG", LALG, false},
		{"halg", HALG, false},
		{"uci", UCI, false},
		{"figurine", SAN, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNotation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNotation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseNotation(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromReplay(t *testing.T) {
	g := replayGame(t, "fools.txt", "1. f3 e5 2. g4 Qh4# 0-1")

	if g.Result != "0-1" {
		t.Errorf("Result = %q, want %q", g.Result, "0-1")
	}
	if g.Termination != "checkmate" {
		t.Errorf("Termination = %q, want %q", g.Termination, "checkmate")
	}
	if g.Tags["Event"] != "fools.txt" {
		t.Errorf("Event tag = %q, want %q", g.Tags["Event"], "fools.txt")
	}
	if len(g.Records) != 4 {
		t.Errorf("len(Records) = %d, want 4", len(g.Records))
	}
}

func TestFromReplay_Unfinished(t *testing.T) {
	g := replayGame(t, "open", "1. e4 e5")
	if g.Result != "*" {
		t.Errorf("Result = %q, want %q", g.Result, "*")
	}
	if _, ok := g.Tags["Termination"]; ok {
		t.Error("unfinished game should have no Termination tag")
	}
}

func TestFormatMove(t *testing.T) {
	g := replayGame(t, "t", "1. e4 d5 2. exd5 Qxd5 3. Nc3 Qa5 4. Nf3 Nf6 5. Be2 Bg4 6. O-O")
	tests := []struct {
		name     string
		ply      int
		notation Notation
		want     string
	}{
		{"san push", 0, SAN, "e4"},
		{"lalg push", 0, LALG, "e2e4"},
		{"halg push", 0, HALG, "e2-e4"},
		{"halg capture", 2, HALG, "e4xd5"},
		{"uci capture", 3, UCI, "d8d5"},
		{"lalg castle", 10, LALG, "O-O"},
		{"uci castle", 10, UCI, "e1g1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMove(g.Records[tt.ply], tt.notation); got != tt.want {
				t.Errorf("FormatMove() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMove_Promotion(t *testing.T) {
	rec := chess.MoveRecord{
		From:      chess.MustSquare("b7"),
		To:        chess.MustSquare("b8"),
		Piece:     chess.Piece{Kind: chess.Pawn, Colour: chess.White},
		Promotion: chess.Knight,
	}
	tests := []struct {
		notation Notation
		want     string
	}{
		{SAN, "b8=N"},
		{LALG, "b7b8=N"},
		{HALG, "b7-b8=N"},
		{UCI, "b7b8n"},
	}
	for _, tt := range tests {
		if got := FormatMove(rec, tt.notation); got != tt.want {
			t.Errorf("FormatMove(%v) = %q, want %q", tt.notation, got, tt.want)
		}
	}
}

func TestPGNWriter_WriteGame(t *testing.T) {
	g := replayGame(t, "fools.txt", "1. f3 e5 2. g4 Qh4# 0-1")

	var buf bytes.Buffer
	w := NewPGNWriter(&buf, Options{})
	if err := w.WriteGame(g); err != nil {
		t.Fatalf("WriteGame() error = %v", err)
	}

	want := `[Event "fools.txt"]
[Site "?"]
[Date "?"]
[Round "?"]
[White "?"]
[Black "?"]
[Result "0-1"]
[Termination "checkmate"]

1. f3 e5 2. g4 Qh4# 0-1

`
	if got := buf.String(); got != want {
		t.Errorf("WriteGame() =\n%s\nwant\n%s", got, want)
	}
}

func TestPGNWriter_SevenTagOnly(t *testing.T) {
	g := replayGame(t, "fools.txt", "1. f3 e5 2. g4 Qh4# 0-1")

	var buf bytes.Buffer
	w := NewPGNWriter(&buf, Options{SevenTagOnly: true, Notation: UCI})
	if err := w.WriteGame(g); err != nil {
		t.Fatalf("WriteGame() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Termination") {
		t.Error("seven tag output should not contain Termination")
	}
	if !strings.Contains(out, "1. f2f3 e7e5 2. g2g4 d8h4 0-1") {
		t.Errorf("missing UCI movetext in:\n%s", out)
	}
}

func TestPGNWriter_LineLength(t *testing.T) {
	g := replayGame(t, "t", "1. Nf3 Nf6 2. Ng1 Ng8 3. Nf3 Nf6 4. Ng1 Ng8")

	var buf bytes.Buffer
	WritePGN(&buf, g, Options{MaxLineLength: 20, SevenTagOnly: true})

	for _, line := range strings.Split(buf.String(), "\n") {
		if len(line) > 20 {
			t.Errorf("line %q longer than 20", line)
		}
	}
}

func TestWritePGN_BlackStarts(t *testing.T) {
	g := &Game{
		Records: []chess.MoveRecord{{
			From:  chess.MustSquare("e7"),
			To:    chess.MustSquare("e5"),
			Piece: chess.Piece{Kind: chess.Pawn, Colour: chess.Black},
		}},
	}
	var buf bytes.Buffer
	WritePGN(&buf, g, Options{})
	if !strings.Contains(buf.String(), "1... e5 *") {
		t.Errorf("movetext missing black start:\n%s", buf.String())
	}
}

func TestEscapeTagValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`say "hi"`, `say \"hi\"`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := escapeTagValue(tt.in); got != tt.want {
			t.Errorf("escapeTagValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONWriter_Batch(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf, true)
	if err := w.WriteGame(replayGame(t, "a", "1. f3 e5 2. g4 Qh4# 0-1")); err != nil {
		t.Fatalf("WriteGame() error = %v", err)
	}
	if err := w.WriteGame(replayGame(t, "b", "1. e4")); err != nil {
		t.Fatalf("WriteGame() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("batch writer wrote before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(out.Games) != 2 {
		t.Fatalf("len(Games) = %d, want 2", len(out.Games))
	}
	first := out.Games[0]
	if first.Result != "0-1" || first.PlyCount != 4 || first.Termination != "checkmate" {
		t.Errorf("first game = %+v", first)
	}
	if first.FinalFEN == "" {
		t.Error("FinalFEN should be set")
	}
	last := first.Moves[3]
	if last.SAN != "Qh4#" || last.UCI != "d8h4" || last.Color != chess.Black || last.MoveNumber != 2 {
		t.Errorf("last move = %+v", last)
	}
	if out.Games[1].Result != "*" {
		t.Errorf("second Result = %q, want %q", out.Games[1].Result, "*")
	}
}

func TestJSONWriter_Single(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriterSingle(&buf, false)
	if err := w.WriteGame(replayGame(t, "a", "1. e4 e5")); err != nil {
		t.Fatalf("WriteGame() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("single writer should write immediately")
	}

	var jg JSONGame
	if err := json.Unmarshal(buf.Bytes(), &jg); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if jg.FinalFEN != "" {
		t.Error("FinalFEN should be omitted")
	}
	if jg.Tags["Site"] != "?" {
		t.Errorf("Site = %q, want %q", jg.Tags["Site"], "?")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
