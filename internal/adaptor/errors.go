package adaptor

import (
	"errors"
	"io"
	"net/http"

	"facility-rental/internal/dto/response"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/conflict"
	"facility-rental/internal/engine/gallery"
	"facility-rental/internal/engine/hours"
	"facility-rental/internal/usecase"
	"facility-rental/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps a service failure onto an HTTP response.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		formatErr   *calendar.FormatError
		hoursErr    *hours.OutOfHoursError
		conflictErr *conflict.ConflictError
	)

	switch {
	case errors.As(err, &conflictErr):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", string(conflictErr.Kind)))
		utils.ResponseConflict(w, conflictErr.Message, response.ConflictDetail{
			Kind: string(conflictErr.Kind),
			ID:   conflictErr.ID,
		})

	case errors.As(err, &hoursErr):
		log.Warn(operation+" failed - outside operating hours",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequestCode(w, utils.CodeOutOfHours, hoursErr.Reason)

	case errors.As(err, &formatErr),
		errors.Is(err, gallery.ErrInvalidPeriod),
		errors.Is(err, usecase.ErrValidation):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrDiscountNotAllowed):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrRateLimited):
		log.Warn(operation+" failed - rate limited",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseTooManyRequests(w, err.Error())

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeOptional decodes a body that callers may leave out.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := utils.DecodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
