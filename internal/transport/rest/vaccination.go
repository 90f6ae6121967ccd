package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/internal/service/vaccination"
)

// vaccinationService defines the minimal interface needed by VaccinationHandler.
type vaccinationService interface {
	Register(ctx context.Context, in vaccination.RegisterInput) (*domain.VaccinationEvent, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*domain.VaccinationEvent, error)
	History(ctx context.Context, in vaccination.HistoryInput) ([]domain.VaccinationEvent, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

// VaccinationHandler serves the vaccination ledger REST endpoints.
type VaccinationHandler struct {
	svc vaccinationService
	log *slog.Logger
}

// NewVaccinationHandler creates a VaccinationHandler.
func NewVaccinationHandler(svc vaccinationService, logger *slog.Logger) *VaccinationHandler {
	return &VaccinationHandler{svc: svc, log: logger.With("handler", "vaccination")}
}

type registerVaccinationRequest struct {
	ChildID        uuid.UUID  `json:"childId"`
	LotID          uuid.UUID  `json:"lotId"`
	StaffID        uuid.UUID  `json:"staffId"`
	CenterID       *uuid.UUID `json:"centerId,omitempty"`
	AdministeredAt time.Time  `json:"administeredAt"`
	DoseNumber     int        `json:"doseNumber"`
	InjectionSite  *string    `json:"injectionSite,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

type vaccinationEventResponse struct {
	ID             string     `json:"id"`
	ChildID        string     `json:"childId"`
	LotID          string     `json:"lotId"`
	StaffID        string     `json:"staffId"`
	CenterID       *string    `json:"centerId,omitempty"`
	AdministeredAt time.Time  `json:"administeredAt"`
	DoseNumber     int        `json:"doseNumber"`
	InjectionSite  *string    `json:"injectionSite,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Register handles POST /api/v1/vaccinations.
// The event insert and the dose decrement on the lot succeed or fail as one
// unit; an exhausted lot yields 409 and no event.
func (h *VaccinationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerVaccinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.svc.Register(r.Context(), vaccination.RegisterInput{
		ChildID:        req.ChildID,
		LotID:          req.LotID,
		StaffID:        req.StaffID,
		CenterID:       req.CenterID,
		AdministeredAt: req.AdministeredAt,
		DoseNumber:     req.DoseNumber,
		InjectionSite:  req.InjectionSite,
		Notes:          req.Notes,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVaccinationEventResponse(event))
}

// Get handles GET /api/v1/vaccinations/{id}.
func (h *VaccinationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.svc.GetEvent(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toVaccinationEventResponse(event))
}

// History handles GET /api/v1/vaccinations.
// Filters: childId, lotId, staffId, centerId, from, to, limit, offset.
func (h *VaccinationHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := vaccination.HistoryInput{}
	var err error
	if in.ChildID, err = queryUUID(q, "childId"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.LotID, err = queryUUID(q, "lotId"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.StaffID, err = queryUUID(q, "staffId"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.CenterID, err = queryUUID(q, "centerId"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.From, err = queryTime(q, "from"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.To, err = queryTime(q, "to"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Limit, err = queryInt(q, "limit"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Offset, err = queryInt(q, "offset"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.svc.History(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]vaccinationEventResponse, 0, len(events))
	for i := range events {
		out = append(out, toVaccinationEventResponse(&events[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/v1/vaccinations/{id}.
// Removal is a data correction; the consumed dose stays consumed.
func (h *VaccinationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toVaccinationEventResponse(e *domain.VaccinationEvent) vaccinationEventResponse {
	resp := vaccinationEventResponse{
		ID:             e.ID.String(),
		ChildID:        e.ChildID.String(),
		LotID:          e.LotID.String(),
		StaffID:        e.StaffID.String(),
		AdministeredAt: e.AdministeredAt,
		DoseNumber:     e.DoseNumber,
		InjectionSite:  e.InjectionSite,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
	}
	if e.CenterID != nil {
		s := e.CenterID.String()
		resp.CenterID = &s
	}
	return resp
}
