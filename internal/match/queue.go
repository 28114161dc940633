// Package match runs online games between two remote clients: a
// matchmaking queue pairs them, and a Service relays their moves through
// one engine.Game per match.
package match

import (
	"context"
	"sync"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// Client is a player waiting for or playing a match.
type Client struct {
	ID   string `json:"client_id"`
	Name string `json:"name"`
	Elo  string `json:"elo,omitempty"`
}

// Pairing is two clients taken off the queue. The first joiner plays White.
type Pairing struct {
	White Client
	Black Client
}

// Queue pairs waiting clients in arrival order.
type Queue interface {
	// Join adds c. It returns a Pairing once two clients are waiting and
	// nil while c waits. A client already waiting gets ErrAlreadyQueued.
	Join(ctx context.Context, c Client) (*Pairing, error)
	// Leave removes a waiting client. Unknown IDs are ignored.
	Leave(ctx context.Context, clientID string) error
	// Len returns the number of waiting clients.
	Len(ctx context.Context) (int, error)
}

// MemoryQueue is a Queue for a single process.
type MemoryQueue struct {
	mu      sync.Mutex
	waiting []Client
}

// NewMemoryQueue returns an empty in-process queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Join implements Queue.
func (q *MemoryQueue) Join(_ context.Context, c Client) (*Pairing, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, w := range q.waiting {
		if w.ID == c.ID {
			return nil, errors.ErrAlreadyQueued
		}
	}
	q.waiting = append(q.waiting, c)
	if len(q.waiting) < 2 {
		return nil, nil
	}
	p := &Pairing{White: q.waiting[0], Black: q.waiting[1]}
	q.waiting = append(q.waiting[:0], q.waiting[2:]...)
	return p, nil
}

// Leave implements Queue.
func (q *MemoryQueue) Leave(_ context.Context, clientID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, w := range q.waiting {
		if w.ID == clientID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return nil
		}
	}
	return nil
}

// Len implements Queue.
func (q *MemoryQueue) Len(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting), nil
}
