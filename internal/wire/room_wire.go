package wire

import (
	"facility-rental/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRoom(r chi.Router, roomHandler *adaptor.RoomHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/rooms", func(r chi.Router) {
		// GET /api/rooms - List rentable rooms
		r.Get("/", roomHandler.GetRooms)

		// GET /api/rooms/{id} - Room details with equipment prices
		r.Get("/{id}", roomHandler.GetRoom)

		// GET /api/rooms/{id}/availability?date= - Slot grid for one day
		r.Get("/{id}/availability", roomHandler.GetAvailability)

		// GET /api/rooms/{id}/calendar?month= - Day verdicts for a month
		r.Get("/{id}/calendar", roomHandler.GetCalendar)
	})
}
