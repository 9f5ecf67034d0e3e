package database

import (
	"context"

	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/models"
)

// RoomCreator is the subset of a room store needed for seeding.
type RoomCreator interface {
	Create(ctx context.Context, room *models.Room) error
	List(ctx context.Context) ([]models.Room, error)
}

var demoRooms = []models.Room{
	{RoomNo: "101", Capacity: 4, HasAC: true, HasAttachedWashroom: false},
	{RoomNo: "102", Capacity: 2, HasAC: false, HasAttachedWashroom: true},
	{RoomNo: "201", Capacity: 6, HasAC: true, HasAttachedWashroom: true},
	{RoomNo: "202", Capacity: 3, HasAC: false, HasAttachedWashroom: false},
}

// SeedDemoRooms fills an empty store with a handful of rooms. It does nothing
// when any room already exists.
func SeedDemoRooms(ctx context.Context, store RoomCreator, log *zap.Logger) error {
	existing, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, r := range demoRooms {
		room := r
		if err := store.Create(ctx, &room); err != nil {
			return err
		}
	}
	log.Info("seeded demo rooms", zap.Int("count", len(demoRooms)))
	return nil
}
