package usecase

import (
	"context"
	"sort"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/data/repository"

	"go.uber.org/zap"
)

// DefaultRooms is the catalog used when the rooms table is empty or unreachable.
func DefaultRooms() []*entity.Room {
	return []*entity.Room{
		{ID: "lecture-1", Name: "Lecture Room 1", Category: entity.CategoryLecture, HourlyFee: 30000, Capacity: 40, Floor: "3F"},
		{ID: "lecture-2", Name: "Lecture Room 2", Category: entity.CategoryLecture, HourlyFee: 30000, Capacity: 40, Floor: "3F"},
		{ID: "studio-1", Name: "Recording Studio", Category: entity.CategoryStudio, HourlyFee: 50000, Capacity: 10, Floor: "4F"},
		{ID: "gallery", Name: "Gallery", Category: entity.CategoryGallery, Capacity: 80, Floor: "1F"},
	}
}

// RoomCatalog is read-only after construction and safe to share.
type RoomCatalog struct {
	rooms map[string]*entity.Room
	order []*entity.Room
}

func NewRoomCatalog(rooms []*entity.Room) *RoomCatalog {
	c := &RoomCatalog{rooms: make(map[string]*entity.Room, len(rooms))}
	for _, r := range rooms {
		c.rooms[r.ID] = r
		c.order = append(c.order, r)
	}
	sort.SliceStable(c.order, func(i, j int) bool { return c.order[i].ID < c.order[j].ID })
	return c
}

// LoadRoomCatalog reads the rooms table once, falling back to DefaultRooms.
func LoadRoomCatalog(ctx context.Context, repo repository.RoomRepository, log *zap.Logger) *RoomCatalog {
	rooms, err := repo.FindAll(ctx)
	if err != nil {
		log.Warn("Using default room catalog, rooms table unavailable", zap.Error(err))
		return NewRoomCatalog(DefaultRooms())
	}
	if len(rooms) == 0 {
		log.Info("Using default room catalog, rooms table is empty")
		return NewRoomCatalog(DefaultRooms())
	}
	return NewRoomCatalog(rooms)
}

func (c *RoomCatalog) Room(id string) (*entity.Room, bool) {
	r, ok := c.rooms[id]
	return r, ok
}

func (c *RoomCatalog) All() []*entity.Room {
	return c.order
}

// Gallery returns the first gallery room.
func (c *RoomCatalog) Gallery() (*entity.Room, bool) {
	for _, r := range c.order {
		if r.IsGallery() {
			return r, true
		}
	}
	return nil, false
}
