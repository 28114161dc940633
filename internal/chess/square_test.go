package chess

import (
	"errors"
	"testing"

	chesserrors "github.com/lgbarn/chess-rules-go/internal/errors"
)

func TestNewSquare(t *testing.T) {
	tests := []struct {
		name       string
		file, rank int
		wantErr    bool
	}{
		{"a1", 1, 1, false},
		{"h8", 8, 8, false},
		{"file zero", 0, 4, true},
		{"rank nine", 4, 9, true},
		{"negative", -1, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sq, err := NewSquare(tt.file, tt.rank)
			if tt.wantErr {
				if !errors.Is(err, chesserrors.ErrInvalidSquare) {
					t.Errorf("NewSquare(%d, %d) error = %v, want ErrInvalidSquare", tt.file, tt.rank, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSquare(%d, %d) unexpected error: %v", tt.file, tt.rank, err)
			}
			if sq.File != tt.file || sq.Rank != tt.rank {
				t.Errorf("NewSquare() = %+v", sq)
			}
		})
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		text    string
		want    Square
		wantErr bool
	}{
		{"a1", Square{1, 1}, false},
		{"e4", Square{5, 4}, false},
		{"h8", Square{8, 8}, false},
		{"i1", Square{}, true},
		{"a9", Square{}, true},
		{"a0", Square{}, true},
		{"E4", Square{}, true},
		{"e", Square{}, true},
		{"e44", Square{}, true},
		{"", Square{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseSquare(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSquare(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSquare(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSquareStringRoundTrip(t *testing.T) {
	for file := 1; file <= 8; file++ {
		for rank := 1; rank <= 8; rank++ {
			sq := Square{file, rank}
			got, err := ParseSquare(sq.String())
			if err != nil || got != sq {
				t.Errorf("ParseSquare(%q) = %v, %v; want %v", sq.String(), got, err, sq)
			}
		}
	}
}

func TestSquareMirror(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a1", "a8"},
		{"e4", "e5"},
		{"h8", "h1"},
	}
	for _, tt := range tests {
		if got := MustSquare(tt.in).Mirror(); got != MustSquare(tt.want) {
			t.Errorf("%s.Mirror() = %v, want %s", tt.in, got, tt.want)
		}
	}
	if sq := MustSquare("c6"); sq.Mirror().Mirror() != sq {
		t.Error("Mirror() is not an involution")
	}
}

func TestSquareHelpers(t *testing.T) {
	if !MustSquare("h1").IsLight() || MustSquare("a1").IsLight() {
		t.Error("IsLight() wrong for a1/h1")
	}
	if !MustSquare("e4").IsAdjacent(MustSquare("f5")) {
		t.Error("e4 should be adjacent to f5")
	}
	if MustSquare("e4").IsAdjacent(MustSquare("e4")) {
		t.Error("a square is not adjacent to itself")
	}
	if _, ok := MustSquare("h8").Offset(1, 0); ok {
		t.Error("Offset() off the board should fail")
	}
	if (Square{}).IsValid() {
		t.Error("zero Square should be invalid")
	}
}
