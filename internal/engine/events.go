package engine

import (
	"fmt"

	"github.com/lgbarn/chess-rules-go/internal/chess"
)

// SoundKind names an audible cue requested by the engine.
type SoundKind int

const (
	SoundMove SoundKind = iota
	SoundCapture
	SoundCastle
	SoundCheck
	SoundCheckmate
	SoundStalemate
	SoundPuzzleFail
	SoundPuzzleSolved
)

// String returns the name of the cue.
func (s SoundKind) String() string {
	names := []string{"move", "capture", "castle", "check", "checkmate", "stalemate", "puzzle_fail", "puzzle_solved"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Result is the reason a game ended.
type Result int

const (
	Checkmate Result = iota
	Stalemate
	Resignation
	TimeOver
	FiftyMoveRule
	ThreefoldRepetition
	InsufficientMaterial
	Disconnected
)

var resultNames = []string{"checkmate", "stalemate", "resignation", "time_over", "fifty_move_rule",
	"threefold_repetition", "insufficient_material", "disconnected"}

// String returns the name of the result.
func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "unknown"
}

// IsDraw reports whether the result ends the game without a winner.
func (r Result) IsDraw() bool {
	switch r {
	case Stalemate, FiftyMoveRule, ThreefoldRepetition, InsufficientMaterial:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Result) UnmarshalText(text []byte) error {
	for i, name := range resultNames {
		if name == string(text) {
			*r = Result(i)
			return nil
		}
	}
	return fmt.Errorf("unknown result %q", text)
}

// Outcome describes how a game ended. Winner is meaningful only when
// Decisive is true.
type Outcome struct {
	Result   Result
	Winner   chess.Colour
	Decisive bool
}

// String renders the outcome, e.g. "checkmate (White wins)".
func (o Outcome) String() string {
	if o.Decisive {
		return o.Result.String() + " (" + o.Winner.String() + " wins)"
	}
	return o.Result.String() + " (draw)"
}

// Score returns the PGN result string.
func (o Outcome) Score() string {
	switch {
	case !o.Decisive:
		return "1/2-1/2"
	case o.Winner == chess.White:
		return "1-0"
	default:
		return "0-1"
	}
}

// Listener receives notifications after the game state has changed.
// Callbacks run on the caller's goroutine, except the delayed checkmate
// cue which runs on a timer goroutine.
type Listener interface {
	MoveCompleted(rec chess.MoveRecord)
	SoundCue(kind SoundKind)
	GameOver(outcome Outcome)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnMove  func(rec chess.MoveRecord)
	OnSound func(kind SoundKind)
	OnOver  func(outcome Outcome)
}

// MoveCompleted implements Listener.
func (f ListenerFuncs) MoveCompleted(rec chess.MoveRecord) {
	if f.OnMove != nil {
		f.OnMove(rec)
	}
}

// SoundCue implements Listener.
func (f ListenerFuncs) SoundCue(kind SoundKind) {
	if f.OnSound != nil {
		f.OnSound(kind)
	}
}

// GameOver implements Listener.
func (f ListenerFuncs) GameOver(outcome Outcome) {
	if f.OnOver != nil {
		f.OnOver(outcome)
	}
}

// Subscribe registers l and returns a function that removes it.
func (g *Game) Subscribe(l Listener) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextListener
	g.nextListener++
	g.listeners[id] = l
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

// snapshotListeners returns the registered listeners in subscription order.
func (g *Game) snapshotListeners() []Listener {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Listener, 0, len(g.listeners))
	for id := 0; id < g.nextListener; id++ {
		if l, ok := g.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (g *Game) notifyMove(rec chess.MoveRecord) {
	for _, l := range g.snapshotListeners() {
		l.MoveCompleted(rec)
	}
}

func (g *Game) notifySound(kind SoundKind) {
	for _, l := range g.snapshotListeners() {
		l.SoundCue(kind)
	}
}

func (g *Game) notifyOver(outcome Outcome) {
	for _, l := range g.snapshotListeners() {
		l.GameOver(outcome)
	}
}
