package match

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/chess-rules-go/internal/chess"
	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// inbox records the events sent to each client.
type inbox struct {
	mu     sync.Mutex
	events map[string][]Event
}

func newInbox() *inbox {
	return &inbox{events: make(map[string][]Event)}
}

func (b *inbox) Notify(clientID string, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[clientID] = append(b.events[clientID], ev)
}

func (b *inbox) of(clientID string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events[clientID]...)
}

func (b *inbox) types(clientID string) []EventType {
	var out []EventType
	for _, ev := range b.of(clientID) {
		out = append(out, ev.Type)
	}
	return out
}

// startMatch pairs alice (White) and bob (Black).
func startMatch(t *testing.T, opts ...Option) (*Service, *Match, *inbox) {
	t.Helper()
	box := newInbox()
	svc := NewService(NewMemoryQueue(), box, opts...)
	ctx := context.Background()

	m, err := svc.Join(ctx, alice)
	require.NoError(t, err)
	require.Nil(t, m)
	m, err = svc.Join(ctx, bob)
	require.NoError(t, err)
	require.NotNil(t, m)
	return svc, m, box
}

func play(t *testing.T, svc *Service, matchID string, moves ...string) {
	t.Helper()
	players := []string{alice.ID, bob.ID}
	for i, san := range moves {
		_, err := svc.MakeMove(context.Background(), matchID, players[i%2], san)
		require.NoError(t, err, "move %d %q", i+1, san)
	}
}

func TestService_Join(t *testing.T) {
	svc, m, box := startMatch(t, WithIDGenerator(func() string { return "m-1" }))

	assert.Equal(t, "m-1", m.ID)
	assert.Equal(t, 1, svc.Running())

	white := box.of(alice.ID)
	require.Len(t, white, 1)
	assert.Equal(t, EventMatchStarted, white[0].Type)
	assert.Equal(t, &MatchInfo{
		MatchID: "m-1", OpponentName: "Bob", ClientColour: chess.White, OpponentColour: chess.Black,
	}, white[0].Match)

	black := box.of(bob.ID)
	require.Len(t, black, 1)
	assert.Equal(t, chess.Black, black[0].Match.ClientColour)
	assert.Equal(t, "Alice", black[0].Match.OpponentName)
	assert.Equal(t, "1500", black[0].Match.OpponentElo)

	id, ok := svc.MatchOf(bob.ID)
	assert.True(t, ok)
	assert.Equal(t, "m-1", id)
}

func TestService_JoinWhilePlaying(t *testing.T) {
	svc, _, _ := startMatch(t)

	_, err := svc.Join(context.Background(), alice)
	assert.ErrorIs(t, err, errors.ErrAlreadyQueued)

	_, err = svc.Join(context.Background(), Client{})
	assert.Error(t, err)
}

func TestService_UUIDMatchIDs(t *testing.T) {
	_, m, _ := startMatch(t)
	assert.Len(t, m.ID, 36)
}

func TestService_MakeMove(t *testing.T) {
	svc, m, box := startMatch(t)

	rec, err := svc.MakeMove(context.Background(), m.ID, alice.ID, "e4")
	require.NoError(t, err)
	assert.Equal(t, "e4", rec.Format(false))

	for _, id := range []string{alice.ID, bob.ID} {
		evs := box.of(id)
		require.Len(t, evs, 2)
		assert.Equal(t, &MoveMade{Move: "e4", Colour: chess.White}, evs[1].Move)
	}
}

func TestService_MakeMoveRejections(t *testing.T) {
	tests := []struct {
		name     string
		matchID  string
		clientID string
		san      string
		want     error
	}{
		{"unknown match", "nope", alice.ID, "e4", errors.ErrMatchNotFound},
		{"stranger", "", carol.ID, "e4", errors.ErrNotParticipant},
		{"wrong colour", "", bob.ID, "e5", errors.ErrNotYourTurn},
		{"unparsable", "", alice.ID, "Qz9", errors.ErrUnparsableMove},
		{"no such piece move", "", alice.ID, "Ke2", errors.ErrUnparsableMove},
		{"castle through pieces", "", alice.ID, "O-O", errors.ErrIllegalMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, box := startMatch(t)
			matchID := tt.matchID
			if matchID == "" {
				matchID = m.ID
			}

			_, err := svc.MakeMove(context.Background(), matchID, tt.clientID, tt.san)
			assert.ErrorIs(t, err, tt.want)

			var me *errors.MoveError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.san, me.MoveText)

			snap, err := svc.Snapshot(context.Background(), m.ID)
			require.NoError(t, err)
			assert.Equal(t, engine.InitialFEN, snap.FEN)
			assert.Len(t, box.of(alice.ID), 1, "only match_started")
		})
	}
}

func TestService_MakeMoveIllegal(t *testing.T) {
	svc, m, _ := startMatch(t)
	play(t, svc, m.ID, "e4", "e5", "d4", "Bb4+")

	// a3 does not answer the check.
	_, err := svc.MakeMove(context.Background(), m.ID, alice.ID, "a3")
	assert.ErrorIs(t, err, errors.ErrIllegalMove)

	var me *errors.MoveError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 5, me.Ply)
	assert.Equal(t, m.ID, me.MatchID)

	snap, err := svc.Snapshot(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Len(t, snap.Moves, 4)
	assert.True(t, snap.Check)

	_, err = svc.MakeMove(context.Background(), m.ID, alice.ID, "c3")
	require.NoError(t, err)
}

func TestService_FoolsMate(t *testing.T) {
	svc, m, box := startMatch(t)
	play(t, svc, m.ID, "f3", "e5", "g4", "Qh4#")

	for _, id := range []string{alice.ID, bob.ID} {
		assert.Equal(t, []EventType{
			EventMatchStarted, EventMoveMade, EventMoveMade, EventMoveMade, EventMoveMade, EventMatchOver,
		}, box.types(id))
		evs := box.of(id)
		end := evs[len(evs)-1].End
		require.NotNil(t, end.Winner)
		assert.Equal(t, chess.Black, *end.Winner)
		assert.Equal(t, engine.Checkmate, end.Result)
	}

	assert.Zero(t, svc.Running())
	_, ok := svc.MatchOf(alice.ID)
	assert.False(t, ok)

	_, err := svc.MakeMove(context.Background(), m.ID, alice.ID, "e4")
	assert.ErrorIs(t, err, errors.ErrMatchNotFound)
}

func TestService_Resign(t *testing.T) {
	svc, m, box := startMatch(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Resign(ctx, m.ID, carol.ID), errors.ErrNotParticipant)
	require.NoError(t, svc.Resign(ctx, m.ID, alice.ID))

	evs := box.of(bob.ID)
	end := evs[len(evs)-1]
	assert.Equal(t, EventMatchOver, end.Type)
	assert.Equal(t, engine.Resignation, end.End.Result)
	assert.Equal(t, chess.Black, *end.End.Winner)

	assert.ErrorIs(t, svc.Resign(ctx, m.ID, bob.ID), errors.ErrMatchNotFound)
}

func TestService_Disconnect(t *testing.T) {
	svc, m, box := startMatch(t)
	ctx := context.Background()

	require.NoError(t, svc.Disconnect(ctx, bob.ID))

	evs := box.of(alice.ID)
	end := evs[len(evs)-1].End
	require.NotNil(t, end)
	assert.Equal(t, engine.Disconnected, end.Result)
	assert.Equal(t, chess.White, *end.Winner)
	assert.Zero(t, svc.Running())

	// Second disconnect and unknown clients are no-ops.
	require.NoError(t, svc.Disconnect(ctx, bob.ID))
	require.NoError(t, svc.Disconnect(ctx, "ghost"))
	_, err := svc.Snapshot(ctx, m.ID)
	assert.ErrorIs(t, err, errors.ErrMatchNotFound)
}

func TestService_DisconnectLeavesQueue(t *testing.T) {
	q := NewMemoryQueue()
	svc := NewService(q, nil)
	ctx := context.Background()

	_, err := svc.Join(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect(ctx, alice.ID))

	n, _ := q.Len(ctx)
	assert.Zero(t, n)
}

func TestService_Snapshot(t *testing.T) {
	svc, m, _ := startMatch(t)
	play(t, svc, m.ID, "e4", "e5", "Qh5")

	snap, err := svc.Snapshot(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Qh5"}, snap.Moves)
	assert.Equal(t, chess.Black, snap.SideToMove)
	assert.Equal(t, "Alice", snap.White)
	assert.False(t, snap.Over)
	assert.Equal(t, "*", snap.Score)
}

func TestService_PromotionChoiceRequired(t *testing.T) {
	tests := []struct {
		name        string
		autoPromote bool
		san         string
		wantErr     error
		wantSAN     string
	}{
		{"auto queen", true, "b8", nil, "b8=Q+"},
		{"no choice rejected", false, "b8", errors.ErrIllegalMove, ""},
		{"explicit choice", false, "b8=N", nil, "b8=N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, _ := startMatch(t, WithAutoPromotion(tt.autoPromote))
			layout, err := chess.ParseLayout([]string{"Ke1", "Pb7", "kh8"})
			require.NoError(t, err)
			require.NoError(t, m.game.LoadPuzzle(layout, chess.White))

			rec, err := svc.MakeMove(context.Background(), m.ID, alice.ID, tt.san)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSAN, rec.Format(false))
		})
	}
}

func TestService_ConcurrentMovesSerialised(t *testing.T) {
	svc, m, box := startMatch(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.MakeMove(context.Background(), m.ID, alice.ID, "e4")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, errors.ErrNotYourTurn)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, box.of(bob.ID), 2)
}

func TestService_GateHonoursContext(t *testing.T) {
	svc, m, _ := startMatch(t)
	require.NoError(t, m.lock(context.Background()))
	defer m.unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.MakeMove(ctx, m.ID, alice.ID, "e4")
	assert.ErrorIs(t, err, context.Canceled)
}
