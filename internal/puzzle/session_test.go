package puzzle

import (
	"testing"
	"time"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/testutil"
)

func newSession(t *testing.T, name string) (*Session, *testutil.Recorder) {
	t.Helper()
	p, err := Builtin().Get(name)
	if err != nil {
		t.Fatal(err)
	}
	rec := &testutil.Recorder{}
	s, err := NewSession(p, rec, WithEngineOptions(engine.WithCheckmateCueDelay(time.Hour)))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s, rec
}

func TestSession_SilentSquare(t *testing.T) {
	s, rec := newSession(t, "Silent Square")

	status, err := s.PlaySAN("Qxg7")
	testutil.AssertNoError(t, err)

	if status != Solved {
		t.Errorf("status = %v, want %v", status, Solved)
	}
	testutil.AssertEqual(t, rec.Sounds(), []engine.SoundKind{engine.SoundMove, engine.SoundPuzzleSolved})
	if !s.Game().IsCheckmate(chess.Black) {
		t.Error("final position is not checkmate")
	}
}

func TestSession_LastLight(t *testing.T) {
	s, rec := newSession(t, "Last Light")

	status, err := s.PlaySAN("Bh6")
	testutil.AssertNoError(t, err)
	if status != Playing {
		t.Fatalf("status after first move = %v, want %v", status, Playing)
	}
	// The scripted reply has been played for Black.
	last, _ := s.Game().LastMove()
	if got := last.Format(false); got != "Kxh6" {
		t.Errorf("reply = %q, want %q", got, "Kxh6")
	}
	if got := s.Game().SideToMove(); got != chess.White {
		t.Errorf("SideToMove() = %v, want White", got)
	}

	status, err = s.PlaySAN("Qf8")
	testutil.AssertNoError(t, err)
	if status != Solved {
		t.Errorf("status = %v, want %v", status, Solved)
	}
	testutil.AssertEqual(t, testutil.SANs(rec.Moves()), []string{"Bh6+", "Kxh6", "Qf8#"})
}

func TestSession_WrongMove(t *testing.T) {
	s, rec := newSession(t, "Silent Square")

	status, err := s.PlaySAN("Nf3")
	testutil.AssertNoError(t, err)
	if status != Failed {
		t.Errorf("status = %v, want %v", status, Failed)
	}
	sounds := rec.Sounds()
	if len(sounds) == 0 || sounds[len(sounds)-1] != engine.SoundPuzzleFail {
		t.Errorf("Sounds() = %v, want puzzle_fail last", sounds)
	}

	status, err = s.PlaySAN("Qxg7")
	testutil.AssertErrorIs(t, err, errors.ErrGameOver)
	if status != Failed {
		t.Errorf("status = %v, want %v", status, Failed)
	}
}

func TestSession_PlayAfterSolved(t *testing.T) {
	s, _ := newSession(t, "Silent Square")
	if status, err := s.PlaySAN("Qxg7#"); err != nil || status != Solved {
		t.Fatalf("PlaySAN() = %v, %v, want %v", status, err, Solved)
	}

	// Finished sessions reject moves before parsing them.
	status, err := s.PlaySAN("Kxg7")
	testutil.AssertErrorIs(t, err, errors.ErrGameOver)
	if status != Solved {
		t.Errorf("status = %v, want %v", status, Solved)
	}
}

func TestSession_WithoutSounds(t *testing.T) {
	p, err := Builtin().Get("Silent Square")
	testutil.AssertNoError(t, err)
	rec := &testutil.Recorder{}
	s, err := NewSession(p, rec, WithSounds(false))
	testutil.AssertNoError(t, err)

	status, err := s.PlaySAN("Qxg7#")
	testutil.AssertNoError(t, err)
	if status != Solved {
		t.Errorf("status = %v, want %v", status, Solved)
	}
	if got := rec.Sounds(); len(got) != 0 {
		t.Errorf("Sounds() = %v, want none", got)
	}
	if got := len(rec.Moves()); got != 1 {
		t.Errorf("len(Moves()) = %d, want 1", got)
	}
}

func TestSession_IllegalMoveKeepsPlaying(t *testing.T) {
	s, _ := newSession(t, "Silent Square")

	_, err := s.PlaySAN("Qxg8")
	testutil.AssertErrorIs(t, err, errors.ErrUnparsableMove)

	queen := s.Game().Board().PieceAt(chess.MustSquare("g3"))
	status, err := s.Play(chess.PendingMove{Piece: queen, To: chess.MustSquare("a3")})
	testutil.AssertErrorIs(t, err, errors.ErrIllegalMove)
	if status != Playing {
		t.Errorf("status = %v, want %v", status, Playing)
	}

	status, err = s.PlaySAN("Qxg7#")
	testutil.AssertNoError(t, err)
	if status != Solved {
		t.Errorf("status = %v, want %v", status, Solved)
	}
}

func TestSession_Retry(t *testing.T) {
	s, _ := newSession(t, "Silent Square")
	if _, err := s.PlaySAN("Nf3"); err != nil {
		t.Fatal(err)
	}

	testutil.AssertNoError(t, s.Retry())

	if s.Status() != Playing {
		t.Errorf("Status() = %v, want %v", s.Status(), Playing)
	}
	if got := len(s.Game().MoveHistory()); got != 0 {
		t.Errorf("len(MoveHistory()) = %d, want 0", got)
	}
	status, err := s.PlaySAN("Qxg7#")
	testutil.AssertNoError(t, err)
	if status != Solved {
		t.Errorf("status = %v, want %v", status, Solved)
	}
}

func TestSession_BrokenScript(t *testing.T) {
	p := Puzzle{
		Name:     "Broken",
		ToMove:   chess.White,
		Solution: []string{"Ra7", "Qa1"},
		Pieces:   []string{"Ke1", "Ra1", "kh8"},
	}
	s, err := NewSession(p, nil)
	testutil.AssertNoError(t, err)

	_, err = s.PlaySAN("Ra7")
	testutil.AssertErrorIs(t, err, errors.ErrIllegalMove)
}

func TestStatus_String(t *testing.T) {
	for status, want := range map[Status]string{Playing: "playing", Solved: "solved", Failed: "failed"} {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
