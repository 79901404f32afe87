package adaptor

import (
	"facility-rental/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Room     *RoomHandler
	Rental   *RentalHandler
	Admin    *AdminHandler
	Block    *BlockHandler
	Schedule *ScheduleHandler
	Auth     *AuthHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Room:     NewRoomHandler(service.Room, service.Availability, log),
		Rental:   NewRentalHandler(service.Rental, log),
		Admin:    NewAdminHandler(service.Admin, log),
		Block:    NewBlockHandler(service.Block, log),
		Schedule: NewScheduleHandler(service.Schedule, log),
		Auth:     NewAuthHandler(service.Auth, log),
	}
}
