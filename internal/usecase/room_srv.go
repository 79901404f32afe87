package usecase

import (
	"context"
	"fmt"

	"facility-rental/internal/dto/response"

	"go.uber.org/zap"
)

type RoomService interface {
	List(ctx context.Context) []response.RoomResponse
	Get(ctx context.Context, id string) (*response.RoomResponse, error)
}

type roomService struct {
	engines *Engines
	log     *zap.Logger
}

func NewRoomService(engines *Engines, log *zap.Logger) RoomService {
	return &roomService{
		engines: engines,
		log:     log.With(zap.String("service", "room")),
	}
}

func (s *roomService) List(ctx context.Context) []response.RoomResponse {
	rooms := s.engines.Catalog.All()
	out := make([]response.RoomResponse, len(rooms))
	for i, r := range rooms {
		out[i] = s.engines.roomResponse(r)
	}
	return out
}

func (s *roomService) Get(ctx context.Context, id string) (*response.RoomResponse, error) {
	room, ok := s.engines.Catalog.Room(id)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	res := s.engines.roomResponse(room)
	return &res, nil
}
