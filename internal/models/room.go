package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a physical room with a fixed seat capacity. RemainingCapacity only
// ever decreases, and IsOccupied is rewritten in the same statement.
type Room struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"-"`
	RoomNo              string    `gorm:"uniqueIndex;not null" json:"roomNo"`
	Capacity            int       `gorm:"not null;check:chk_rooms_capacity,capacity > 0" json:"capacity"`
	RemainingCapacity   int       `gorm:"not null;check:chk_rooms_remaining,remaining_capacity >= 0 AND remaining_capacity <= capacity" json:"remainingCapacity"`
	HasAC               bool      `gorm:"column:has_ac;not null" json:"hasAC"`
	HasAttachedWashroom bool      `gorm:"not null" json:"hasAttachedWashroom"`
	IsOccupied          bool      `gorm:"not null;index" json:"isOccupied"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Fits reports whether the room can take students seats with the given amenities.
func (r Room) Fits(students int, needsAC, needsWashroom bool) bool {
	if r.RemainingCapacity < students {
		return false
	}
	if needsAC && !r.HasAC {
		return false
	}
	if needsWashroom && !r.HasAttachedWashroom {
		return false
	}
	return true
}
