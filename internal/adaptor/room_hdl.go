package adaptor

import (
	"net/http"

	"facility-rental/internal/usecase"
	"facility-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RoomHandler struct {
	rooms        usecase.RoomService
	availability usecase.AvailabilityService
	log          *zap.Logger
}

func NewRoomHandler(rooms usecase.RoomService, availability usecase.AvailabilityService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:        rooms,
		availability: availability,
		log:          log.With(zap.String("handler", "room")),
	}
}

// GetRooms handles GET /api/rooms
func (h *RoomHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.rooms.List(r.Context()))
}

// GetRoom handles GET /api/rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get room")
		return
	}

	utils.ResponseSuccess(w, "success", room)
}

// GetAvailability handles GET /api/rooms/{id}/availability?date=YYYY-MM-DD
func (h *RoomHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date is required", nil)
		return
	}

	result, err := h.availability.Day(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetCalendar handles GET /api/rooms/{id}/calendar?month=YYYY-MM
func (h *RoomHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		utils.ResponseBadRequest(w, "month is required", nil)
		return
	}

	days, err := h.availability.Month(r.Context(), chi.URLParam(r, "id"), month)
	if err != nil {
		handleServiceError(w, h.log, err, "get calendar")
		return
	}

	utils.ResponseSuccess(w, "success", days)
}
