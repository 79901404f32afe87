package adaptor

import (
	"net/http"

	"facility-rental/internal/dto/request"
	"facility-rental/internal/usecase"
	"facility-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// GetRentals handles GET /api/admin/rentals
func (h *AdminHandler) GetRentals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListRentalsRequest{
		Status: query.Get("status"),
		RoomID: query.Get("room"),
		From:   query.Get("from"),
		To:     query.Get("to"),
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 20),
		},
	}

	rentals, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list rentals")
		return
	}

	utils.ResponseSuccess(w, "success", rentals)
}

// GetRental handles GET /api/admin/rentals/{id}
func (h *AdminHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get rental")
		return
	}

	utils.ResponseSuccess(w, "success", rental)
}

// GetFees handles GET /api/admin/rentals/{id}/fees
func (h *AdminHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	fees, err := h.service.Fees(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get fees")
		return
	}

	utils.ResponseSuccess(w, "success", fees)
}

// ChangeStatus handles PUT /api/admin/rentals/{id}/{action}
func (h *AdminHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	action, ok := usecase.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		utils.ResponseNotFound(w, "unknown action")
		return
	}

	var req request.StatusChangeRequest
	if err := decodeOptional(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	res, err := h.service.Transition(r.Context(), chi.URLParam(r, "id"), action, &req)
	if err != nil {
		handleServiceError(w, h.log, err, string(action)+" rental")
		return
	}

	h.log.Info("Staff decision recorded",
		staffField(r),
		zap.String("rental_id", chi.URLParam(r, "id")),
		zap.String("action", string(action)))

	utils.ResponseSuccess(w, "success", res)
}

// ChangeBundleStatus handles PUT /api/admin/bundles/{batchId}/{action}
func (h *AdminHandler) ChangeBundleStatus(w http.ResponseWriter, r *http.Request) {
	action, ok := usecase.ParseAction(chi.URLParam(r, "action"))
	if !ok || (action != usecase.ActionApprove && action != usecase.ActionReject) {
		utils.ResponseNotFound(w, "unknown action")
		return
	}

	var req request.StatusChangeRequest
	if err := decodeOptional(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	res, err := h.service.TransitionBundle(r.Context(), chi.URLParam(r, "batchId"), action, &req)
	if err != nil {
		handleServiceError(w, h.log, err, string(action)+" bundle")
		return
	}

	h.log.Info("Staff bundle decision recorded",
		staffField(r),
		zap.String("batch_id", chi.URLParam(r, "batchId")),
		zap.String("action", string(action)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("skipped", res.Skipped))

	utils.ResponseSuccess(w, "success", res)
}

// SetDiscount handles PUT /api/admin/rentals/{id}/discount
func (h *AdminHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req request.DiscountRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rental, err := h.service.SetDiscount(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set discount")
		return
	}

	h.log.Info("Staff discount recorded", staffField(r), zap.String("rental_id", chi.URLParam(r, "id")))

	utils.ResponseSuccess(w, "Discount applied", rental)
}

// staffField names the staff member behind a request for the audit log.
func staffField(r *http.Request) zap.Field {
	staff, _ := utils.GetStaffFromContext(r.Context())
	return zap.String("staff", staff)
}
