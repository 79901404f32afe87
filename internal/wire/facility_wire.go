package wire

import (
	"facility-rental/internal/adaptor"
	"facility-rental/pkg/middleware"
	"facility-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireFacility(
	r chi.Router,
	blockHandler *adaptor.BlockHandler,
	scheduleHandler *adaptor.ScheduleHandler,
	tokens *utils.TokenManager,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/blocks", func(r chi.Router) {
		r.Use(middleware.StaffAuth(tokens, log))

		// POST /api/admin/blocks - Block a room (or every room) for a time range
		r.Post("/", blockHandler.CreateBlock)

		// GET /api/admin/blocks - List blocks
		r.Get("/", blockHandler.GetBlocks)

		// DELETE /api/admin/blocks/{id} - Lift a block
		r.Delete("/{id}", blockHandler.DeleteBlock)
	})

	r.Route("/api/admin/schedules", func(r chi.Router) {
		r.Use(middleware.StaffAuth(tokens, log))

		// POST /api/admin/schedules - Add a weekly class
		r.Post("/", scheduleHandler.CreateSchedule)

		// GET /api/admin/schedules - List weekly classes
		r.Get("/", scheduleHandler.GetSchedules)

		// DELETE /api/admin/schedules/{id} - Remove a weekly class
		r.Delete("/{id}", scheduleHandler.DeleteSchedule)
	})
}
