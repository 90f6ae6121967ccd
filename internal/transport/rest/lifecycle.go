package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// lifecycleService defines the minimal interface needed by LifecycleHandler.
type lifecycleService interface {
	DeactivateOrDelete(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (domain.LifecycleOutcome, error)
}

// LifecycleHandler serves the entity removal endpoint. Whether a request ends
// in a hard delete, a deactivation, or a refusal is decided by the service
// from the entity's live dependents, not by the route.
type LifecycleHandler struct {
	svc lifecycleService
	log *slog.Logger
}

// NewLifecycleHandler creates a LifecycleHandler.
func NewLifecycleHandler(svc lifecycleService, logger *slog.Logger) *LifecycleHandler {
	return &LifecycleHandler{svc: svc, log: logger.With("handler", "lifecycle")}
}

type lifecycleResponse struct {
	Outcome string `json:"outcome"`
}

// Remove handles DELETE /api/v1/entities/{type}/{id}.
// Responds 200 with {"outcome":"DELETED"} or {"outcome":"DEACTIVATED"}, and
// 409 with {"outcome":"BLOCKED"} when dependents forbid both.
func (h *LifecycleHandler) Remove(w http.ResponseWriter, r *http.Request) {
	entityType := domain.EntityType(strings.ToUpper(r.PathValue("type")))

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.svc.DeactivateOrDelete(r.Context(), entityType, id)
	if err != nil {
		var blocked *domain.BlockedError
		if errors.As(err, &blocked) {
			writeJSON(w, http.StatusConflict, lifecycleResponse{Outcome: outcome.String()})
			return
		}
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, lifecycleResponse{Outcome: outcome.String()})
}
