package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/models"
	"github.com/zaqqye/room_backend_v1/internal/repository"
)

func TestSeedDemoRooms_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	require.NoError(t, SeedDemoRooms(ctx, store, zap.NewNop()))

	rooms, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, len(demoRooms))
	for _, r := range rooms {
		assert.Equal(t, r.Capacity, r.RemainingCapacity)
		assert.False(t, r.IsOccupied)
	}
}

func TestSeedDemoRooms_SkipsWhenPopulated(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Create(ctx, &models.Room{RoomNo: "A1", Capacity: 1}))

	require.NoError(t, SeedDemoRooms(ctx, store, zap.NewNop()))

	rooms, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}
