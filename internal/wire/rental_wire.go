package wire

import (
	"facility-rental/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRental(r chi.Router, rentalHandler *adaptor.RentalHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/rentals", func(r chi.Router) {
		// POST /api/rentals - Submit an hourly rental request
		r.Post("/", rentalHandler.CreateRental)

		// POST /api/rentals/gallery - Submit a gallery exhibition
		r.Post("/gallery", rentalHandler.CreateGalleryRental)

		// Applicant routes below require the PIN set at submission
		// GET /api/rentals/{id} - Request details (X-Rental-Pin header)
		r.Get("/{id}", rentalHandler.GetRental)

		// GET /api/rentals/{id}/fees - Payable fees (X-Rental-Pin header)
		r.Get("/{id}/fees", rentalHandler.GetFees)

		// POST /api/rentals/{id}/cancel - Cancel a request or its whole bundle
		r.Post("/{id}/cancel", rentalHandler.CancelRental)
	})

	// GET /api/gallery/quote?start=&end= - Preview exhibition sessions and fees
	r.Get("/api/gallery/quote", rentalHandler.GetGalleryQuote)
}
