package match

import (
	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
)

// EventType names an event sent to a client.
type EventType string

const (
	EventMatchStarted EventType = "match_started"
	EventMoveMade     EventType = "move_made"
	EventMatchOver    EventType = "match_over"
)

// MatchInfo tells a client who it plays and with which colour.
type MatchInfo struct {
	MatchID        string       `json:"match_id"`
	OpponentName   string       `json:"opponent_name"`
	OpponentElo    string       `json:"opponent_elo,omitempty"`
	ClientColour   chess.Colour `json:"colour"`
	OpponentColour chess.Colour `json:"opponent_colour"`
}

// MoveMade relays a move in plain SAN.
type MoveMade struct {
	Move   string       `json:"move"`
	Colour chess.Colour `json:"colour"`
}

// MatchEnd reports the result. Winner is nil for draws.
type MatchEnd struct {
	Winner *chess.Colour `json:"winner"`
	Result engine.Result `json:"result"`
}

// Event is one message for a client. Exactly one payload field is set.
type Event struct {
	Type    EventType  `json:"type"`
	MatchID string     `json:"match_id"`
	Match   *MatchInfo `json:"match,omitempty"`
	Move    *MoveMade  `json:"move,omitempty"`
	End     *MatchEnd  `json:"end,omitempty"`
}

// Notifier delivers events to connected clients. Notify must not block
// for long; it is called while the match is locked.
type Notifier interface {
	Notify(clientID string, ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(clientID string, ev Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(clientID string, ev Event) { f(clientID, ev) }

func endEvent(matchID string, o engine.Outcome) Event {
	end := &MatchEnd{Result: o.Result}
	if o.Decisive {
		w := o.Winner
		end.Winner = &w
	}
	return Event{Type: EventMatchOver, MatchID: matchID, End: end}
}
