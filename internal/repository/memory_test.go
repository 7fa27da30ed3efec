package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/high-society/auction-server-go/internal/game"
)

func TestMemoryStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, "room-1", []byte("payload")))

	data, err := store.Load(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	// Saves overwrite.
	require.NoError(t, store.Save(ctx, "room-1", []byte("newer")))
	data, err = store.Load(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), data)
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), "room-404")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, "room-1", []byte("payload")))
	require.NoError(t, store.Delete(ctx, "room-1"))

	_, err := store.Load(ctx, "room-1")
	assert.ErrorIs(t, err, game.ErrNotFound)

	// Deleting a missing room is not an error.
	assert.NoError(t, store.Delete(ctx, "room-404"))
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := []byte("payload")
	require.NoError(t, store.Save(ctx, "room-1", original))
	original[0] = 'X'

	data, err := store.Load(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	// Mutating a loaded copy must not poison later loads.
	data[0] = 'X'
	again, err := store.Load(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), again)
}
