package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/high-society/auction-server-go/internal/game"
	"github.com/high-society/auction-server-go/internal/repository"
)

func newTestManager(t *testing.T) (*game.Manager, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return game.NewManager(store, zap.NewNop()), store
}

func TestManagerStartGame(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	require.NoError(t, mgr.StartGameWithSeed(ctx, "room-1", []string{"alice", "bob"}, 1))

	ended, err := mgr.GameEnded(ctx, "room-1")
	require.NoError(t, err)
	assert.False(t, ended)

	// Starting twice for the same room is an error.
	err = mgr.StartGameWithSeed(ctx, "room-1", []string{"alice", "bob"}, 1)
	assert.ErrorContains(t, err, "already active")

	// No players is an error and leaves nothing behind.
	err = mgr.StartGameWithSeed(ctx, "room-2", nil, 1)
	assert.ErrorIs(t, err, game.ErrNoPlayers)
}

func TestManagerActionsAndViews(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.StartGameWithSeed(ctx, "room-1", []string{"alice", "bob"}, 1))

	observer, err := mgr.ObserverView(ctx, "room-1")
	require.NoError(t, err)
	require.NotNil(t, observer.Round)
	bidder := observer.Round.CurrentBidderID

	outcome, err := mgr.PlaceBid(ctx, "room-1", bidder, []int{6})
	require.NoError(t, err)
	require.True(t, outcome.Success)

	view, err := mgr.ParticipantView(ctx, "room-1", bidder)
	require.NoError(t, err)
	require.NotNil(t, view.My)
	assert.NotContains(t, view.My.Hand, 6)
	require.NotNil(t, view.Round)
	require.NotNil(t, view.Round.MyBid)
	assert.Equal(t, []int{6}, view.Round.MyBid.Cards)

	// Engine rejections come back as outcomes, not errors.
	outcome, err = mgr.PlaceBid(ctx, "room-1", bidder, []int{8})
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, game.ReasonNotYourTurn, outcome.Code)

	// Acting on an unknown room is an infrastructure error.
	_, err = mgr.PlaceBid(ctx, "room-404", "alice", []int{4})
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestManagerFinalScoresRequireTerminalGame(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.StartGameWithSeed(ctx, "room-1", []string{"alice", "bob"}, 1))

	_, err := mgr.FinalScores(ctx, "room-1", nil)
	assert.ErrorContains(t, err, "has not ended")
}

func TestManagerPlaysGameToCompletion(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.StartGameWithSeed(ctx, "room-1", []string{"alice", "bob", "carol"}, 5))

	for i := 0; i < 200; i++ {
		ended, err := mgr.GameEnded(ctx, "room-1")
		require.NoError(t, err)
		if ended {
			break
		}
		observer, err := mgr.ObserverView(ctx, "room-1")
		require.NoError(t, err)
		outcome, err := mgr.Pass(ctx, "room-1", observer.Round.CurrentBidderID)
		require.NoError(t, err)
		require.True(t, outcome.Success)
	}

	ended, err := mgr.GameEnded(ctx, "room-1")
	require.NoError(t, err)
	require.True(t, ended)

	result, err := mgr.FinalScores(ctx, "room-1", map[string]string{"alice": "Alice"})
	require.NoError(t, err)
	assert.Len(t, result.Rankings, 3-len(result.Eliminated))
	assert.NotEmpty(t, result.Eliminated)

	replay := mgr.Replay("room-1")
	require.NotNil(t, replay)
	rebuilt, err := replay.Rebuild()
	require.NoError(t, err)
	assert.True(t, rebuilt.GameEnded)
}

func TestManagerRecoversStateFromStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	mgr := game.NewManager(store, zap.NewNop())
	require.NoError(t, mgr.StartGameWithSeed(ctx, "room-1", []string{"alice", "bob"}, 9))

	observer, err := mgr.ObserverView(ctx, "room-1")
	require.NoError(t, err)
	bidder := observer.Round.CurrentBidderID
	outcome, err := mgr.PlaceBid(ctx, "room-1", bidder, []int{4})
	require.NoError(t, err)
	require.True(t, outcome.Success)

	// A fresh manager over the same store picks the game up where it was.
	recovered := game.NewManager(store, zap.NewNop())
	view, err := recovered.ParticipantView(ctx, "room-1", bidder)
	require.NoError(t, err)
	require.NotNil(t, view.Round)
	require.NotNil(t, view.Round.MyBid)
	assert.Equal(t, []int{4}, view.Round.MyBid.Cards)
	assert.Equal(t, 4, view.Round.CurrentHighest)

	// The replay log does not survive a restart.
	assert.Nil(t, recovered.Replay("room-1"))
}

func TestManagerEndGameClearsStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	mgr := game.NewManager(store, zap.NewNop())
	require.NoError(t, mgr.StartGameWithSeed(ctx, "room-1", []string{"alice", "bob"}, 1))

	require.NoError(t, mgr.EndGame(ctx, "room-1"))

	_, err := store.Load(ctx, "room-1")
	assert.ErrorIs(t, err, game.ErrNotFound)
	_, err = mgr.ObserverView(ctx, "room-1")
	assert.ErrorIs(t, err, game.ErrNotFound)

	// Ending an already-ended game is harmless.
	assert.NoError(t, mgr.EndGame(ctx, "room-1"))
}
