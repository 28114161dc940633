package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/config"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/puzzle"
	"github.com/lgbarn/chess-rules-go/internal/testutil"
)

func engineConfig(sounds bool) config.EngineConfig {
	return config.EngineConfig{PlaySounds: sounds, CheckmateCueDelay: time.Hour}
}

func TestPick(t *testing.T) {
	c := puzzle.Builtin()

	p, err := pick(c, "")
	testutil.AssertNoError(t, err)
	if p.Name != c.Names()[0] {
		t.Errorf("pick(\"\") = %q, want %q", p.Name, c.Names()[0])
	}

	_, err = pick(c, "No Such Puzzle")
	testutil.AssertErrorIs(t, err, errors.ErrUnknownPuzzle)
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		sounds     bool
		wantStatus puzzle.Status
		wantOut    []string
		notOut     []string
	}{
		{
			name:       "solved with sounds",
			input:      "Qxg7#\n",
			sounds:     true,
			wantStatus: puzzle.Solved,
			wantOut:    []string{"Silent Square: White to move", "1. Qxg7#", "[puzzle_solved]", "solved"},
		},
		{
			name:       "solved muted",
			input:      "Qxg7\n",
			sounds:     false,
			wantStatus: puzzle.Solved,
			wantOut:    []string{"1. Qxg7#", "solved"},
			notOut:     []string{"["},
		},
		{
			name:       "bad text then solution",
			input:      "Zz9\n\nQxg7\n",
			sounds:     false,
			wantStatus: puzzle.Solved,
			wantOut:    []string{"unparsable move", "solved"},
		},
		{
			name:       "wrong move then retry",
			input:      "Nf3\nretry\nQxg7\n",
			sounds:     false,
			wantStatus: puzzle.Solved,
			wantOut:    []string{"failed", "solved"},
		},
		{
			name:       "quit",
			input:      "quit\nQxg7\n",
			sounds:     false,
			wantStatus: puzzle.Playing,
			notOut:     []string{"solved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := puzzle.Builtin().Get("Silent Square")
			testutil.AssertNoError(t, err)

			var out bytes.Buffer
			status, err := play(p, engineConfig(tt.sounds), zap.NewNop(), strings.NewReader(tt.input), &out)
			testutil.AssertNoError(t, err)
			if status != tt.wantStatus {
				t.Errorf("play() status = %v, want %v", status, tt.wantStatus)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
			for _, bad := range tt.notOut {
				if strings.Contains(out.String(), bad) {
					t.Errorf("output contains %q:\n%s", bad, out.String())
				}
			}
		})
	}
}
