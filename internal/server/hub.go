package server

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lgbarn/chess-rules-go/internal/match"
)

const subscriberBuffer = 32

type subscriber struct {
	events chan match.Event
}

// Hub fans match events out to the websocket connections of each client.
// A client may hold several connections.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	logger *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{subs: make(map[string]map[*subscriber]struct{}), logger: logger}
}

// Notify implements match.Notifier. Events for a subscriber whose buffer
// is full are dropped.
func (h *Hub) Notify(clientID string, ev match.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[clientID] {
		select {
		case sub.events <- ev:
		default:
			h.logger.Warn("event dropped",
				zap.String("client_id", clientID),
				zap.String("type", string(ev.Type)),
				zap.String("match_id", ev.MatchID),
			)
		}
	}
}

func (h *Hub) subscribe(clientID string) *subscriber {
	sub := &subscriber{events: make(chan match.Event, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[clientID] == nil {
		h.subs[clientID] = make(map[*subscriber]struct{})
	}
	h.subs[clientID][sub] = struct{}{}
	return sub
}

// unsubscribe reports whether sub was the client's last connection.
func (h *Hub) unsubscribe(clientID string, sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[clientID], sub)
	if len(h.subs[clientID]) > 0 {
		return false
	}
	delete(h.subs, clientID)
	return true
}

// Connected returns the number of open connections for clientID.
func (h *Hub) Connected(clientID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[clientID])
}
