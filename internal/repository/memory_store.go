package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zaqqye/room_backend_v1/internal/models"
)

// MemoryStore keeps rooms in process. DecrementCapacity holds the write lock
// across the re-check and the update, which gives the same guarantee as the
// conditional UPDATE in RoomRepo.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]models.Room),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(_ context.Context, room *models.Room) error {
	room.RoomNo = strings.TrimSpace(room.RoomNo)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.RoomNo]; ok {
		return ErrDuplicateKey
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := s.now()
	room.RemainingCapacity = room.Capacity
	room.IsOccupied = false
	room.CreatedAt = now
	room.UpdatedAt = now
	s.rooms[room.RoomNo] = *room
	return nil
}

func (s *MemoryStore) Get(_ context.Context, roomNo string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomNo]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Room, error) {
	out := s.collect(func(models.Room) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNo < out[j].RoomNo })
	return out, nil
}

func (s *MemoryStore) Search(_ context.Context, f SearchFilter) ([]models.Room, error) {
	out := s.collect(func(r models.Room) bool {
		if f.MinCapacity != nil && r.RemainingCapacity < *f.MinCapacity {
			return false
		}
		if f.HasAC != nil && r.HasAC != *f.HasAC {
			return false
		}
		if f.HasAttachedWashroom != nil && r.HasAttachedWashroom != *f.HasAttachedWashroom {
			return false
		}
		return true
	})
	sortByCapacity(out)
	return out, nil
}

func (s *MemoryStore) FindBestFit(_ context.Context, students int, needsAC, needsWashroom bool) (*models.Room, error) {
	out := s.collect(func(r models.Room) bool { return r.Fits(students, needsAC, needsWashroom) })
	if len(out) == 0 {
		return nil, nil
	}
	sortByCapacity(out)
	return &out[0], nil
}

func (s *MemoryStore) DecrementCapacity(_ context.Context, roomNo string, seats int) (*models.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomNo]
	if !ok || room.RemainingCapacity < seats {
		return nil, false, nil
	}
	room.RemainingCapacity -= seats
	room.IsOccupied = room.RemainingCapacity <= 0
	room.UpdatedAt = s.now()
	s.rooms[roomNo] = room
	return &room, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, roomNo string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomNo]; !ok {
		return false, nil
	}
	delete(s.rooms, roomNo)
	return true, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) collect(keep func(models.Room) bool) []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortByCapacity(rooms []models.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Capacity != rooms[j].Capacity {
			return rooms[i].Capacity < rooms[j].Capacity
		}
		return rooms[i].RoomNo < rooms[j].RoomNo
	})
}
