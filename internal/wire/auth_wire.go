package wire

import (
	"facility-rental/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// POST /api/admin/login - Exchange staff credentials for a bearer token
	r.Post("/api/admin/login", authHandler.Login)
}
