package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/models"
	"github.com/zaqqye/room_backend_v1/internal/repository"
)

// RoomStore is the persistence the engine needs. DecrementCapacity must be
// the only way remaining capacity changes.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	Get(ctx context.Context, roomNo string) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
	Search(ctx context.Context, f repository.SearchFilter) ([]models.Room, error)
	FindBestFit(ctx context.Context, students int, needsAC, needsWashroom bool) (*models.Room, error)
	DecrementCapacity(ctx context.Context, roomNo string, seats int) (*models.Room, bool, error)
	Delete(ctx context.Context, roomNo string) (bool, error)
}

// RoomEvents receives rooms after they change. Implementations must not block.
type RoomEvents interface {
	RoomChanged(kind string, room models.Room)
}

// AllocationRecorder observes allocation outcomes.
type AllocationRecorder interface {
	ObserveAllocation(outcome string, seats int)
}

const (
	EventCreated   = "room_created"
	EventAllocated = "room_allocated"
	EventDeleted   = "room_deleted"

	OutcomeAllocated = "allocated"
	OutcomeNoRoom    = "no_room"
	OutcomeConflict  = "conflict"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

type CreateRoomInput struct {
	RoomNo              string
	Capacity            int
	HasAC               bool
	HasAttachedWashroom bool
}

type AllocationRequest struct {
	Students      int
	NeedsAC       bool
	NeedsWashroom bool
}

// AllocationResult is NoRoomAvailable when Allocated is false. Room carries
// the remaining capacity after the deduction.
type AllocationResult struct {
	Allocated bool
	Room      *models.Room
}

type RoomService struct {
	store    RoomStore
	log      *zap.Logger
	events   RoomEvents
	recorder AllocationRecorder
}

type Option func(*RoomService)

func WithEvents(e RoomEvents) Option {
	return func(s *RoomService) { s.events = e }
}

func WithRecorder(r AllocationRecorder) Option {
	return func(s *RoomService) { s.recorder = r }
}

func NewRoomService(store RoomStore, log *zap.Logger, opts ...Option) *RoomService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &RoomService{store: store, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	roomNo := strings.TrimSpace(in.RoomNo)
	if roomNo == "" {
		return nil, fmt.Errorf("%w: room number is required", ErrInvalidArgument)
	}
	if in.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be a positive number", ErrInvalidArgument)
	}
	room := &models.Room{
		RoomNo:              roomNo,
		Capacity:            in.Capacity,
		HasAC:               in.HasAC,
		HasAttachedWashroom: in.HasAttachedWashroom,
	}
	if err := s.store.Create(ctx, room); err != nil {
		return nil, classify("create room", err)
	}
	s.log.Info("room created", zap.String("room_no", room.RoomNo), zap.Int("capacity", room.Capacity))
	s.publish(EventCreated, *room)
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, roomNo string) (*models.Room, error) {
	room, err := s.store.Get(ctx, strings.TrimSpace(roomNo))
	if err != nil {
		return nil, classify("get room", err)
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.store.List(ctx)
	if err != nil {
		return nil, classify("list rooms", err)
	}
	return rooms, nil
}

// Search filters rooms for display. MinCapacity applies to the seats that are
// still free, not the nominal capacity.
func (s *RoomService) Search(ctx context.Context, f repository.SearchFilter) ([]models.Room, error) {
	if f.MinCapacity != nil && *f.MinCapacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be a positive number", ErrInvalidArgument)
	}
	rooms, err := s.store.Search(ctx, f)
	if err != nil {
		return nil, classify("search rooms", err)
	}
	return rooms, nil
}

// Allocate places the whole group in the smallest room that fits and commits
// the deduction with a single conditional update. A lost race on commit is
// reported as no room available; there is no retry against other candidates.
func (s *RoomService) Allocate(ctx context.Context, req AllocationRequest) (AllocationResult, error) {
	if req.Students <= 0 {
		s.observe(OutcomeInvalid, 0)
		return AllocationResult{}, fmt.Errorf("%w: students must be a positive number", ErrInvalidArgument)
	}
	log := s.log.With(
		zap.Int("students", req.Students),
		zap.Bool("needs_ac", req.NeedsAC),
		zap.Bool("needs_washroom", req.NeedsWashroom),
	)

	candidate, err := s.store.FindBestFit(ctx, req.Students, req.NeedsAC, req.NeedsWashroom)
	if err != nil {
		s.observe(OutcomeError, 0)
		return AllocationResult{}, classify("find room", err)
	}
	if candidate == nil {
		log.Debug("no room available")
		s.observe(OutcomeNoRoom, 0)
		return AllocationResult{}, nil
	}

	room, ok, err := s.store.DecrementCapacity(ctx, candidate.RoomNo, req.Students)
	if err != nil {
		s.observe(OutcomeError, 0)
		return AllocationResult{}, classify("commit allocation", err)
	}
	if !ok {
		log.Info("allocation lost commit race", zap.String("room_no", candidate.RoomNo))
		s.observe(OutcomeConflict, 0)
		return AllocationResult{}, nil
	}

	log.Info("room allocated",
		zap.String("room_no", room.RoomNo),
		zap.Int("remaining_capacity", room.RemainingCapacity),
	)
	s.observe(OutcomeAllocated, req.Students)
	s.publish(EventAllocated, *room)
	return AllocationResult{Allocated: true, Room: room}, nil
}

// Delete returns ErrNotFound when nothing was removed.
func (s *RoomService) Delete(ctx context.Context, roomNo string) error {
	roomNo = strings.TrimSpace(roomNo)
	if roomNo == "" {
		return fmt.Errorf("%w: room number is required", ErrInvalidArgument)
	}
	deleted, err := s.store.Delete(ctx, roomNo)
	if err != nil {
		return classify("delete room", err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info("room deleted", zap.String("room_no", roomNo))
	s.publish(EventDeleted, models.Room{RoomNo: roomNo})
	return nil
}

func (s *RoomService) publish(kind string, room models.Room) {
	if s.events != nil {
		s.events.RoomChanged(kind, room)
	}
}

func (s *RoomService) observe(outcome string, seats int) {
	if s.recorder != nil {
		s.recorder.ObserveAllocation(outcome, seats)
	}
}

// classify keeps the store sentinels and folds everything else into
// ErrStorageUnavailable, keeping the cause in the chain.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
}
