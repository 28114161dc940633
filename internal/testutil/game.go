package testutil

import (
	"sync"
	"testing"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/parser"
)

// NewPuzzleGame creates a game from placements such as "Ke1", "ke8".
// It calls t.Fatal if the layout is rejected.
func NewPuzzleGame(t *testing.T, toMove chess.Colour, placements ...string) *engine.Game {
	t.Helper()
	layout, err := chess.ParseLayout(placements)
	if err != nil {
		t.Fatalf("bad layout: %v", err)
	}
	g := engine.New()
	if err := g.LoadPuzzle(layout, toMove); err != nil {
		t.Fatalf("LoadPuzzle() error = %v", err)
	}
	return g
}

// TryPlay parses san for the side to move and executes it without sound.
func TryPlay(g *engine.Game, san string) bool {
	m, ok := parser.ParseSAN(san, g.Board(), g.SideToMove())
	if !ok {
		return false
	}
	return g.ExecuteMove(m, false)
}

// MustPlay plays each SAN move in turn and returns the records produced.
// It calls t.Fatal on the first move that fails to parse or is rejected.
func MustPlay(t *testing.T, g *engine.Game, sans ...string) []chess.MoveRecord {
	t.Helper()
	start := len(g.MoveHistory())
	for i, san := range sans {
		m, ok := parser.ParseSAN(san, g.Board(), g.SideToMove())
		if !ok {
			t.Fatalf("move %d %q: parse failed\n%s", i+1, san, g.Board())
		}
		if !g.ExecuteMove(m, false) {
			t.Fatalf("move %d %q: rejected\n%s", i+1, san, g.Board())
		}
	}
	return g.MoveHistory()[start:]
}

// MustMove executes a coordinate move such as "e2", "e4" with no promotion choice.
func MustMove(t *testing.T, g *engine.Game, from, to string) chess.MoveRecord {
	t.Helper()
	p := g.Board().PieceAt(chess.MustSquare(from))
	if p == nil {
		t.Fatalf("no piece on %s", from)
	}
	if !g.ExecuteMove(chess.PendingMove{Piece: p, To: chess.MustSquare(to)}, false) {
		t.Fatalf("move %s-%s rejected\n%s", from, to, g.Board())
	}
	last, _ := g.LastMove()
	return last
}

// SANs formats records in plain SAN.
func SANs(records []chess.MoveRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Format(false)
	}
	return out
}

// Recorder is an engine.Listener that stores every notification.
// It is safe for use from the delayed cue goroutine.
type Recorder struct {
	mu       sync.Mutex
	moves    []chess.MoveRecord
	sounds   []engine.SoundKind
	outcomes []engine.Outcome
}

// MoveCompleted implements engine.Listener.
func (r *Recorder) MoveCompleted(rec chess.MoveRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, rec)
}

// SoundCue implements engine.Listener.
func (r *Recorder) SoundCue(kind engine.SoundKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sounds = append(r.sounds, kind)
}

// GameOver implements engine.Listener.
func (r *Recorder) GameOver(o engine.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Moves returns the recorded moves.
func (r *Recorder) Moves() []chess.MoveRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]chess.MoveRecord(nil), r.moves...)
}

// Sounds returns the recorded cues.
func (r *Recorder) Sounds() []engine.SoundKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.SoundKind(nil), r.sounds...)
}

// Outcomes returns the recorded game-over notifications.
func (r *Recorder) Outcomes() []engine.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Outcome(nil), r.outcomes...)
}
