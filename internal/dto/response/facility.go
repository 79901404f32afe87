package response

import (
	"time"

	"github.com/google/uuid"
)

type BlockResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    string    `json:"room_id"`
	Date      string    `json:"date"`
	EndDate   string    `json:"end_date,omitempty"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ScheduleResponse struct {
	ID            uuid.UUID `json:"id"`
	RoomID        string    `json:"room_id"`
	DayOfWeek     int       `json:"day_of_week"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Title         string    `json:"title"`
	EffectiveFrom string    `json:"effective_from,omitempty"`
	EffectiveTo   string    `json:"effective_to,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ConflictDetail identifies the record a write collided with.
type ConflictDetail struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}
