package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/immunet/immunet-backend/internal/domain"
)

// errorResponse is the JSON body for every non-2xx answer.
type errorResponse struct {
	Error  string               `json:"error"`
	Fields []fieldErrorResponse `json:"fields,omitempty"`
}

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps domain errors to HTTP statuses. Every handler funnels its
// service errors through here so one taxonomy produces one wire format.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		refErr        *domain.InvalidReferenceError
		slotErr       *domain.DuplicateSlotError
		blockedErr    *domain.BlockedError
	)

	switch {
	case errors.As(err, &refErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid reference",
			Fields: []fieldErrorResponse{{Field: refErr.Field, Message: "does not resolve to an existing record"}},
		})
	case errors.As(err, &slotErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "duplicate guardian slot",
			Fields: []fieldErrorResponse{{Field: "guardians", Message: "slot " + slotErr.Slot.String() + " is claimed twice"}},
		})
	case errors.As(err, &validationErr):
		fields := make([]fieldErrorResponse, 0, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			fields = append(fields, fieldErrorResponse{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock")
	case errors.As(err, &blockedErr):
		writeError(w, http.StatusConflict, blockedErr.Error())
	case errors.Is(err, domain.ErrHasDependents):
		writeError(w, http.StatusConflict, "has dependent records")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrTransientStore):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, retry")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
