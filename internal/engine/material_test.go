package engine_test

import (
	"strings"
	"testing"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/testutil"
)

func TestPlayerInfo(t *testing.T) {
	tests := []struct {
		name          string
		moves         []string
		wantMaterial  [2]int
		wantAdvantage [2]int
	}{
		{"no captures", []string{"e4", "e5"}, [2]int{0, 0}, [2]int{0, 0}},
		{"pawn each", []string{"e4", "d5", "exd5", "Qxd5"}, [2]int{1, 1}, [2]int{0, 0}},
		{"black a pawn up", []string{"e4", "d5", "exd5", "Qxd5", "Nc3", "Qxg2"}, [2]int{1, 2}, [2]int{0, 1}},
		{"white wins the queen", []string{"e4", "d5", "exd5", "Qxd5", "Nc3", "Qxg2", "Bxg2"}, [2]int{10, 2}, [2]int{8, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := engine.New()
			testutil.MustPlay(t, g, tt.moves...)
			info := g.PlayerInfo()

			testutil.AssertEqual(t, info.Material, tt.wantMaterial)
			for _, c := range []chess.Colour{chess.White, chess.Black} {
				if got := info.Advantage(c); got != tt.wantAdvantage[c] {
					t.Errorf("Advantage(%v) = %d, want %d", c, got, tt.wantAdvantage[c])
				}
			}
		})
	}
}

func TestPlayerInfo_Summary(t *testing.T) {
	g := engine.New()
	testutil.MustPlay(t, g, "e4", "d5", "exd5", "Qxd5", "Nc3", "Qxg2")
	info := g.PlayerInfo()

	if got := len(info.Captured[chess.Black]); got != 2 {
		t.Fatalf("len(Captured[Black]) = %d, want 2", got)
	}
	if got := info.Summary(chess.Black); !strings.HasSuffix(got, " (+1)") {
		t.Errorf("Summary(Black) = %q, want suffix %q", got, " (+1)")
	}
	if got := info.Summary(chess.White); strings.Contains(got, "+") {
		t.Errorf("Summary(White) = %q, want no advantage marker", got)
	}
}

func TestPlayerInfo_Promotion(t *testing.T) {
	g := testutil.NewPuzzleGame(t, chess.White, "Ke1", "Pb7", "kh8")
	testutil.MustMove(t, g, "b7", "b8")

	info := g.PlayerInfo()
	if got, want := info.Material[chess.White], chess.Queen.Value()-chess.Pawn.Value(); got != want {
		t.Errorf("Material[White] = %d, want %d", got, want)
	}
}
