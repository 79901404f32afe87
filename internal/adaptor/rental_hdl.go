package adaptor

import (
	"net/http"

	"facility-rental/internal/dto/request"
	"facility-rental/internal/usecase"
	"facility-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PinHeader carries the applicant PIN on read-only lookups.
const PinHeader = "X-Rental-Pin"

type RentalHandler struct {
	service usecase.RentalService
	log     *zap.Logger
}

func NewRentalHandler(service usecase.RentalService, log *zap.Logger) *RentalHandler {
	return &RentalHandler{
		service: service,
		log:     log.With(zap.String("handler", "rental")),
	}
}

// CreateRental handles POST /api/rentals
func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRentalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rental, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit rental")
		return
	}

	utils.ResponseCreated(w, "Rental request received", rental)
}

// CreateGalleryRental handles POST /api/rentals/gallery
func (h *RentalHandler) CreateGalleryRental(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGalleryRentalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	res, err := h.service.SubmitGallery(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit gallery rental")
		return
	}

	utils.ResponseCreated(w, "Gallery rental received", res)
}

// GetRental handles GET /api/rentals/{id}
func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), r.Header.Get(PinHeader))
	if err != nil {
		handleServiceError(w, h.log, err, "get rental")
		return
	}

	utils.ResponseSuccess(w, "success", rental)
}

// GetFees handles GET /api/rentals/{id}/fees
func (h *RentalHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	fees, err := h.service.Fees(r.Context(), chi.URLParam(r, "id"), r.Header.Get(PinHeader))
	if err != nil {
		handleServiceError(w, h.log, err, "get fees")
		return
	}

	utils.ResponseSuccess(w, "success", fees)
}

// CancelRental handles POST /api/rentals/{id}/cancel
func (h *RentalHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	var req request.PinRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	res, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel rental")
		return
	}

	utils.ResponseSuccess(w, "Rental cancelled", res)
}

// GetGalleryQuote handles GET /api/gallery/quote?start=&end=
func (h *RentalHandler) GetGalleryQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, end := query.Get("start"), query.Get("end")
	if start == "" || end == "" {
		utils.ResponseBadRequest(w, "start and end are required", nil)
		return
	}

	quote, err := h.service.Quote(r.Context(), start, end)
	if err != nil {
		handleServiceError(w, h.log, err, "quote gallery")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}
