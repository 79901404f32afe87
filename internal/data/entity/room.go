package entity

import (
	"fmt"
	"strings"
)

type RoomCategory int

const (
	CategoryLecture RoomCategory = iota + 1
	CategoryStudio
	CategoryGallery
)

func (c RoomCategory) String() string {
	switch c {
	case CategoryLecture:
		return "lecture"
	case CategoryStudio:
		return "studio"
	case CategoryGallery:
		return "gallery"
	default:
		return "unknown"
	}
}

func ParseRoomCategory(s string) (RoomCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lecture":
		return CategoryLecture, nil
	case "studio":
		return CategoryStudio, nil
	case "gallery":
		return CategoryGallery, nil
	default:
		return 0, fmt.Errorf("invalid room category %q", s)
	}
}

// Room is reference data loaded once at start and never mutated.
type Room struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	Category  RoomCategory `db:"category"`
	HourlyFee int64        `db:"hourly_fee"` // KRW, 0 when negotiated
	Capacity  int          `db:"capacity"`
	Floor     string       `db:"floor"`
}

func (r *Room) IsGallery() bool {
	return r.Category == CategoryGallery
}
