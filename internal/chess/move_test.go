package chess

import "testing"

func TestMoveRecordFormat(t *testing.T) {
	white := func(k Kind, sq string) Piece { return Piece{Kind: k, Colour: White, Square: MustSquare(sq)} }

	tests := []struct {
		name string
		rec  MoveRecord
		want string
	}{
		{
			name: "pawn push",
			rec:  MoveRecord{From: MustSquare("e2"), To: MustSquare("e4"), Piece: white(Pawn, "e2")},
			want: "e4",
		},
		{
			name: "pawn capture uses source file",
			rec:  MoveRecord{From: MustSquare("e4"), To: MustSquare("d5"), Piece: white(Pawn, "e4"), Capture: true},
			want: "exd5",
		},
		{
			name: "knight move",
			rec:  MoveRecord{From: MustSquare("g1"), To: MustSquare("f3"), Piece: white(Knight, "g1")},
			want: "Nf3",
		},
		{
			name: "disambiguated capture with check",
			rec: MoveRecord{From: MustSquare("a1"), To: MustSquare("d1"), Piece: white(Rook, "a1"),
				Capture: true, Disambiguation: "a", Check: true},
			want: "Raxd1+",
		},
		{
			name: "promotion capture mate",
			rec: MoveRecord{From: MustSquare("g7"), To: MustSquare("h8"), Piece: white(Pawn, "g7"),
				Capture: true, Promotion: Queen, Check: true, Checkmate: true},
			want: "gxh8=Q#",
		},
		{
			name: "stalemate marker",
			rec:  MoveRecord{From: MustSquare("d1"), To: MustSquare("d7"), Piece: white(Queen, "d1"), Stalemate: true},
			want: "Qd7$",
		},
		{
			name: "short castle",
			rec:  MoveRecord{From: MustSquare("e1"), To: MustSquare("g1"), Piece: white(King, "e1"), Castle: KingSide},
			want: "O-O",
		},
		{
			name: "long castle with check",
			rec:  MoveRecord{From: MustSquare("e1"), To: MustSquare("c1"), Piece: white(King, "e1"), Castle: QueenSide, Check: true},
			want: "O-O-O+",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Format(false); got != tt.want {
				t.Errorf("Format(false) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveRecordFormatSymbols(t *testing.T) {
	rec := MoveRecord{
		From:  MustSquare("b8"),
		To:    MustSquare("c6"),
		Piece: Piece{Kind: Knight, Colour: Black, Square: MustSquare("b8")},
	}
	if got := rec.Format(true); got != "♞c6" {
		t.Errorf("Format(true) = %q, want %q", got, "♞c6")
	}
}

func TestMoveRecordPredicates(t *testing.T) {
	push := MoveRecord{From: MustSquare("d7"), To: MustSquare("d5"), Piece: Piece{Kind: Pawn, Colour: Black}}
	if !push.IsTwoSquarePawnPush() {
		t.Error("d7-d5 should be a two-square push")
	}
	if push.Colour() != Black {
		t.Errorf("Colour() = %v", push.Colour())
	}
	if push.UCI() != "d7d5" {
		t.Errorf("UCI() = %q", push.UCI())
	}
	single := MoveRecord{From: MustSquare("d6"), To: MustSquare("d5"), Piece: Piece{Kind: Pawn, Colour: Black}}
	if single.IsTwoSquarePawnPush() {
		t.Error("d6-d5 is not a two-square push")
	}
}

func TestPendingMoveString(t *testing.T) {
	m := PendingMove{Piece: NewPiece(Pawn, White, MustSquare("e7")), To: MustSquare("e8"), Promotion: Knight}
	if got := m.String(); got != "e7e8n" {
		t.Errorf("String() = %q, want e7e8n", got)
	}
}
