package wire

import (
	"facility-rental/internal/adaptor"
	"facility-rental/pkg/middleware"
	"facility-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	tokens *utils.TokenManager,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/rentals", func(r chi.Router) {
		r.Use(middleware.StaffAuth(tokens, log))

		// GET /api/admin/rentals - Requests grouped by bundle, filterable
		r.Get("/", adminHandler.GetRentals)

		// GET /api/admin/rentals/{id} - Any request with its bundle
		r.Get("/{id}", adminHandler.GetRental)

		// GET /api/admin/rentals/{id}/fees - Fees including discount
		r.Get("/{id}/fees", adminHandler.GetFees)

		// PUT /api/admin/rentals/{id}/discount - Set or clear a discount
		r.Put("/{id}/discount", adminHandler.SetDiscount)

		// PUT /api/admin/rentals/{id}/{action} - review, approve, reject or cancel one session
		r.Put("/{id}/{action}", adminHandler.ChangeStatus)
	})

	r.Route("/api/admin/bundles", func(r chi.Router) {
		r.Use(middleware.StaffAuth(tokens, log))

		// PUT /api/admin/bundles/{batchId}/{action} - approve or reject a whole bundle
		r.Put("/{batchId}/{action}", adminHandler.ChangeBundleStatus)
	})
}
