package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/internal/service/patient"
)

// patientService defines the minimal interface needed by PatientHandler.
type patientService interface {
	CreateChild(ctx context.Context, in patient.CreateChildInput) (*domain.Child, error)
	GetChild(ctx context.Context, id uuid.UUID) (*domain.Child, error)
	UpdateChild(ctx context.Context, in patient.UpdateChildInput) (*domain.Child, error)
	FindChildren(ctx context.Context, in patient.FindChildrenInput) ([]domain.Child, error)
}

// PatientHandler serves the child registry REST endpoints.
type PatientHandler struct {
	svc patientService
	log *slog.Logger
}

// NewPatientHandler creates a PatientHandler.
func NewPatientHandler(svc patientService, logger *slog.Logger) *PatientHandler {
	return &PatientHandler{svc: svc, log: logger.With("handler", "patient")}
}

type guardianRequest struct {
	FullName      string    `json:"fullName"`
	Relationship  string    `json:"relationship"`
	Slot          string    `json:"slot,omitempty"`
	NationalityID uuid.UUID `json:"nationalityId"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
}

type createChildRequest struct {
	FullName       string            `json:"fullName"`
	NationalID     string            `json:"nationalId"`
	NationalityID  uuid.UUID         `json:"nationalityId"`
	BirthCountryID uuid.UUID         `json:"birthCountryId"`
	BirthDate      time.Time         `json:"birthDate"`
	Gender         string            `json:"gender"`
	AddressLine    *string           `json:"addressLine,omitempty"`
	City           *string           `json:"city,omitempty"`
	HealthCenterID *uuid.UUID        `json:"healthCenterId,omitempty"`
	Guardians      []guardianRequest `json:"guardians,omitempty"`
}

// updateChildRequest is a full-record update. Guardians, when present,
// replace the existing set; when omitted the set is kept.
type updateChildRequest struct {
	FullName       string            `json:"fullName"`
	NationalID     string            `json:"nationalId"`
	NationalityID  uuid.UUID         `json:"nationalityId"`
	BirthCountryID uuid.UUID         `json:"birthCountryId"`
	BirthDate      time.Time         `json:"birthDate"`
	Gender         string            `json:"gender"`
	AddressLine    *string           `json:"addressLine,omitempty"`
	City           *string           `json:"city,omitempty"`
	HealthCenterID *uuid.UUID        `json:"healthCenterId,omitempty"`
	Guardians      []guardianRequest `json:"guardians,omitempty"`
}

type guardianResponse struct {
	ID            string  `json:"id"`
	FullName      string  `json:"fullName"`
	Relationship  string  `json:"relationship"`
	Slot          string  `json:"slot"`
	NationalityID string  `json:"nationalityId"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
}

type childResponse struct {
	ID             string             `json:"id"`
	FullName       string             `json:"fullName"`
	NationalID     string             `json:"nationalId"`
	NationalityID  string             `json:"nationalityId"`
	BirthCountryID string             `json:"birthCountryId"`
	BirthDate      time.Time          `json:"birthDate"`
	Gender         string             `json:"gender"`
	AddressLine    *string            `json:"addressLine,omitempty"`
	City           *string            `json:"city,omitempty"`
	HealthCenterID *string            `json:"healthCenterId,omitempty"`
	State          string             `json:"state"`
	Guardians      []guardianResponse `json:"guardians"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// Create handles POST /api/v1/children.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	child, err := h.svc.CreateChild(r.Context(), patient.CreateChildInput{
		FullName:       req.FullName,
		NationalID:     req.NationalID,
		NationalityID:  req.NationalityID,
		BirthCountryID: req.BirthCountryID,
		BirthDate:      req.BirthDate,
		Gender:         domain.Gender(req.Gender),
		AddressLine:    req.AddressLine,
		City:           req.City,
		HealthCenterID: req.HealthCenterID,
		Guardians:      toGuardianInputs(req.Guardians),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toChildResponse(child))
}

// Get handles GET /api/v1/children/{id}.
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	child, err := h.svc.GetChild(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChildResponse(child))
}

// Update handles PUT /api/v1/children/{id}.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	child, err := h.svc.UpdateChild(r.Context(), patient.UpdateChildInput{
		ChildID:        id,
		FullName:       req.FullName,
		NationalID:     req.NationalID,
		NationalityID:  req.NationalityID,
		BirthCountryID: req.BirthCountryID,
		BirthDate:      req.BirthDate,
		Gender:         domain.Gender(req.Gender),
		AddressLine:    req.AddressLine,
		City:           req.City,
		HealthCenterID: req.HealthCenterID,
		Guardians:      toGuardianInputs(req.Guardians),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toChildResponse(child))
}

// Find handles GET /api/v1/children.
// Filters: nationalId, healthCenterId, state, name, limit, offset.
func (h *PatientHandler) Find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := patient.FindChildrenInput{
		NationalID: queryString(q, "nationalId"),
		NameLike:   queryString(q, "name"),
	}
	if raw := q.Get("state"); raw != "" {
		state := domain.EntityState(raw)
		in.State = &state
	}
	var err error
	if in.HealthCenterID, err = queryUUID(q, "healthCenterId"); err != nil {
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

	children, err := h.svc.FindChildren(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]childResponse, 0, len(children))
	for i := range children {
		out = append(out, toChildResponse(&children[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func toGuardianInputs(reqs []guardianRequest) []patient.GuardianInput {
	if reqs == nil {
		return nil
	}
	out := make([]patient.GuardianInput, 0, len(reqs))
	for _, g := range reqs {
		out = append(out, patient.GuardianInput{
			FullName:      g.FullName,
			Relationship:  domain.GuardianRelationship(g.Relationship),
			Slot:          domain.RelationshipSlot(g.Slot),
			NationalityID: g.NationalityID,
			Phone:         g.Phone,
			Email:         g.Email,
		})
	}
	return out
}

func toChildResponse(c *domain.Child) childResponse {
	resp := childResponse{
		ID:             c.ID.String(),
		FullName:       c.FullName,
		NationalID:     c.NationalID,
		NationalityID:  c.NationalityID.String(),
		BirthCountryID: c.BirthCountryID.String(),
		BirthDate:      c.BirthDate,
		Gender:         c.Gender.String(),
		AddressLine:    c.AddressLine,
		City:           c.City,
		State:          c.State.String(),
		Guardians:      make([]guardianResponse, 0, len(c.Guardians)),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.HealthCenterID != nil {
		s := c.HealthCenterID.String()
		resp.HealthCenterID = &s
	}
	for _, g := range c.Guardians {
		resp.Guardians = append(resp.Guardians, guardianResponse{
			ID:            g.ID.String(),
			FullName:      g.FullName,
			Relationship:  g.Relationship.String(),
			Slot:          g.Slot.String(),
			NationalityID: g.NationalityID.String(),
			Phone:         g.Phone,
			Email:         g.Email,
		})
	}
	return resp
}
