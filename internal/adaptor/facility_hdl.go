package adaptor

import (
	"net/http"

	"facility-rental/internal/dto/request"
	"facility-rental/internal/usecase"
	"facility-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BlockHandler struct {
	service usecase.BlockService
	log     *zap.Logger
}

func NewBlockHandler(service usecase.BlockService, log *zap.Logger) *BlockHandler {
	return &BlockHandler{
		service: service,
		log:     log.With(zap.String("handler", "block")),
	}
}

// CreateBlock handles POST /api/admin/blocks
func (h *BlockHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBlockRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	block, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create block")
		return
	}

	utils.ResponseCreated(w, "Block created", block)
}

// GetBlocks handles GET /api/admin/blocks
func (h *BlockHandler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list blocks")
		return
	}

	utils.ResponseSuccess(w, "success", blocks)
}

// DeleteBlock handles DELETE /api/admin/blocks/{id}
func (h *BlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete block")
		return
	}

	utils.ResponseSuccess(w, "Block deleted", nil)
}

type ScheduleHandler struct {
	service usecase.ScheduleService
	log     *zap.Logger
}

func NewScheduleHandler(service usecase.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log.With(zap.String("handler", "schedule")),
	}
}

// CreateSchedule handles POST /api/admin/schedules
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.CreateScheduleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	schedule, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create schedule")
		return
	}

	utils.ResponseCreated(w, "Schedule created", schedule)
}

// GetSchedules handles GET /api/admin/schedules
func (h *ScheduleHandler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list schedules")
		return
	}

	utils.ResponseSuccess(w, "success", schedules)
}

// DeleteSchedule handles DELETE /api/admin/schedules/{id}
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete schedule")
		return
	}

	utils.ResponseSuccess(w, "Schedule deleted", nil)
}
