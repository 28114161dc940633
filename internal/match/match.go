package match

import (
	"context"
	"time"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
)

// Match is a game in progress between two clients.
type Match struct {
	ID        string
	White     Client
	Black     Client
	StartedAt time.Time

	// gate serialises every validate-then-execute pair on game.
	gate  chan struct{}
	game  *engine.Game
	ended bool
}

func newMatch(id string, p Pairing) *Match {
	return &Match{
		ID:        id,
		White:     p.White,
		Black:     p.Black,
		StartedAt: time.Now(),
		gate:      make(chan struct{}, 1),
	}
}

// lock waits for the gate or for ctx to end.
func (m *Match) lock(ctx context.Context) error {
	select {
	case m.gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Match) unlock() { <-m.gate }

// ColourOf returns the colour clientID plays.
func (m *Match) ColourOf(clientID string) (chess.Colour, bool) {
	switch clientID {
	case m.White.ID:
		return chess.White, true
	case m.Black.ID:
		return chess.Black, true
	}
	return chess.White, false
}

func (m *Match) clientIDs() [2]string {
	return [2]string{m.White.ID, m.Black.ID}
}

func (m *Match) info(c chess.Colour) *MatchInfo {
	opp := m.Black
	if c == chess.Black {
		opp = m.White
	}
	return &MatchInfo{
		MatchID:        m.ID,
		OpponentName:   opp.Name,
		OpponentElo:    opp.Elo,
		ClientColour:   c,
		OpponentColour: c.Opposite(),
	}
}

// Snapshot is a read-only view of a match.
type Snapshot struct {
	ID         string       `json:"match_id"`
	White      string       `json:"white"`
	Black      string       `json:"black"`
	FEN        string       `json:"fen"`
	Moves      []string     `json:"moves"`
	SideToMove chess.Colour `json:"side_to_move"`
	Check      bool         `json:"check"`
	Over       bool         `json:"over"`
	Result     string       `json:"result,omitempty"`
	Score      string       `json:"score"`
}

func (m *Match) snapshot() Snapshot {
	s := Snapshot{
		ID:         m.ID,
		White:      m.White.Name,
		Black:      m.Black.Name,
		FEN:        m.game.FEN(),
		SideToMove: m.game.ActiveColour(),
		Check:      m.game.IsCheck(m.game.ActiveColour()),
		Score:      "*",
	}
	for _, rec := range m.game.MoveHistory() {
		s.Moves = append(s.Moves, rec.Format(false))
	}
	if o, ok := m.game.Outcome(); ok {
		s.Over = true
		s.Result = o.Result.String()
		s.Score = o.Score()
	}
	return s
}
