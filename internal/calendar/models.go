package calendar

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange     = errors.New("invalid slot range")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
)

// Slot is a bookable date + time-range instance with finite capacity.
// Capacity and the time range are immutable after creation; IssuedCount is
// the single authoritative counter for all tickets (online and manual)
// issued against this slot.
type Slot struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	StartTime   string    `json:"start_time" gorm:"size:5;not null"`
	EndTime     string    `json:"end_time" gorm:"size:5;not null"`
	Capacity    int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	IssuedCount int       `json:"issued_count" gorm:"not null;default:0;check:issued_count >= 0"`

	// Position preserves creation order within a day for stable listing.
	Position  int       `json:"-" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type SlotResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	TimeRange   string `json:"time_range"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int    `json:"capacity"`
	IssuedCount int    `json:"issued_count"`
	Remaining   int    `json:"remaining"`
}

type CreateSlotsRequest struct {
	StartDate   time.Time `json:"start_date" binding:"required"`
	Days        int       `json:"days" binding:"required"`
	SlotsPerDay int       `json:"slots_per_day" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,min=1"`

	// OpeningHour and SlotMinutes control the generated time ranges.
	// Defaults: doors at 10:00, two-hour visits. OpeningHour is a pointer
	// so a midnight opening stays distinct from "unset".
	OpeningHour *int `json:"opening_hour" binding:"omitempty,min=0,max=23"`
	SlotMinutes int  `json:"slot_minutes" binding:"omitempty,min=15"`
}

func (s *Slot) Remaining() int {
	remaining := s.Capacity - s.IssuedCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (s *Slot) ToResponse() SlotResponse {
	return SlotResponse{
		ID:          s.ID.String(),
		Date:        s.Date.Format("2006-01-02"),
		TimeRange:   s.StartTime + " - " + s.EndTime,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Capacity:    s.Capacity,
		IssuedCount: s.IssuedCount,
		Remaining:   s.Remaining(),
	}
}

// TableName specifies the table name for GORM
func (Slot) TableName() string {
	return "slots"
}
