package testutil

import (
	"testing"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
)

func TestMustPlayReturnsNewRecords(t *testing.T) {
	g := engine.New()
	MustPlay(t, g, "e4")
	recs := MustPlay(t, g, "e5", "Nf3")

	AssertEqual(t, SANs(recs), []string{"e5", "Nf3"})
}

func TestTryPlayRejects(t *testing.T) {
	g := engine.New()
	AssertFalse(t, TryPlay(g, "e5"), "white cannot play e5")
	AssertFalse(t, TryPlay(g, "Qh5"), "queen is blocked")
	AssertTrue(t, TryPlay(g, "d4"))
}

func TestNewPuzzleGame(t *testing.T) {
	g := NewPuzzleGame(t, chess.Black, "Ke1", "ke8", "ra8")
	AssertEqual(t, g.SideToMove(), chess.Black)
	AssertEqual(t, len(g.Board().Pieces()), 3)

	rec := MustMove(t, g, "a8", "a1")
	AssertEqual(t, rec.Format(false), "Ra1+")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	g := engine.New(engine.WithListener(r))
	MustPlay(t, g, "e4")
	g.Resign(chess.Black)

	AssertEqual(t, len(r.Moves()), 1)
	AssertEqual(t, r.Outcomes(), []engine.Outcome{{Result: engine.Resignation, Winner: chess.White, Decisive: true}})
}
