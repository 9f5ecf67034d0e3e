package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/zaqqye/room_backend_v1/internal/models"
)

const uniqueViolation = "23505"

// decrementSQL is the only statement that mutates remaining_capacity. The
// WHERE clause re-checks the seats at commit time, so two requests that both
// selected the same room cannot overdraw it.
const decrementSQL = `UPDATE rooms
SET remaining_capacity = remaining_capacity - ?,
    is_occupied = (remaining_capacity - ? <= 0),
    updated_at = NOW()
WHERE room_no = ? AND remaining_capacity >= ?
RETURNING id, room_no, capacity, remaining_capacity, has_ac, has_attached_washroom, is_occupied, created_at, updated_at`

type RoomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

func (r *RoomRepo) Migrate() error {
	return r.db.AutoMigrate(&models.Room{})
}

func (r *RoomRepo) Create(ctx context.Context, room *models.Room) error {
	room.RoomNo = strings.TrimSpace(room.RoomNo)
	room.RemainingCapacity = room.Capacity
	room.IsOccupied = false
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *RoomRepo) Get(ctx context.Context, roomNo string) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Where("room_no = ?", roomNo).Take(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepo) List(ctx context.Context) ([]models.Room, error) {
	out := []models.Room{}
	if err := r.db.WithContext(ctx).Order("room_no ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RoomRepo) Search(ctx context.Context, f SearchFilter) ([]models.Room, error) {
	qb := r.db.WithContext(ctx).Model(&models.Room{})
	if f.MinCapacity != nil {
		qb = qb.Where("remaining_capacity >= ?", *f.MinCapacity)
	}
	if f.HasAC != nil {
		qb = qb.Where("has_ac = ?", *f.HasAC)
	}
	if f.HasAttachedWashroom != nil {
		qb = qb.Where("has_attached_washroom = ?", *f.HasAttachedWashroom)
	}
	out := []models.Room{}
	if err := qb.Order("capacity ASC, room_no ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindBestFit returns the smallest-capacity room that can take the request,
// or nil when nothing fits.
func (r *RoomRepo) FindBestFit(ctx context.Context, students int, needsAC, needsWashroom bool) (*models.Room, error) {
	qb := r.db.WithContext(ctx).Where("remaining_capacity >= ?", students)
	if needsAC {
		qb = qb.Where("has_ac = ?", true)
	}
	if needsWashroom {
		qb = qb.Where("has_attached_washroom = ?", true)
	}
	var room models.Room
	if err := qb.Order("capacity ASC, room_no ASC").Take(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// DecrementCapacity takes seats from roomNo if they are still free. It
// reports false, with no write, when the room no longer has enough seats.
func (r *RoomRepo) DecrementCapacity(ctx context.Context, roomNo string, seats int) (*models.Room, bool, error) {
	var rows []models.Room
	res := r.db.WithContext(ctx).Raw(decrementSQL, seats, seats, roomNo, seats).Scan(&rows)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return &rows[0], true, nil
}

func (r *RoomRepo) Delete(ctx context.Context, roomNo string) (bool, error) {
	res := r.db.WithContext(ctx).Where("room_no = ?", roomNo).Delete(&models.Room{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *RoomRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
