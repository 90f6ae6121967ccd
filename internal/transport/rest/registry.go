package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/internal/service/registry"
)

// registryService defines the minimal interface needed by RegistryHandler.
type registryService interface {
	CreateCountry(ctx context.Context, in registry.CreateCountryInput) (*domain.Country, error)
	CreateCenter(ctx context.Context, in registry.CreateCenterInput) (*domain.Center, error)
	CreateVaccine(ctx context.Context, in registry.CreateVaccineInput) (*domain.Vaccine, error)
	CreateStaff(ctx context.Context, in registry.CreateStaffInput) (*domain.Staff, error)
	CreateUser(ctx context.Context, in registry.CreateUserInput) (*domain.User, error)
	CreateCampaign(ctx context.Context, in registry.CreateCampaignInput) (*domain.Campaign, error)
	GetCountry(ctx context.Context, id uuid.UUID) (*domain.Country, error)
	GetCenter(ctx context.Context, id uuid.UUID) (*domain.Center, error)
	GetVaccine(ctx context.Context, id uuid.UUID) (*domain.Vaccine, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
}

// RegistryHandler serves the reference entity REST endpoints.
type RegistryHandler struct {
	svc registryService
	log *slog.Logger
}

// NewRegistryHandler creates a RegistryHandler.
func NewRegistryHandler(svc registryService, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{svc: svc, log: logger.With("handler", "registry")}
}

type createCountryRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type createCenterRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

type createVaccineRequest struct {
	Name         string  `json:"name"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	DiseaseTag   *string `json:"diseaseTag,omitempty"`
	DosesTotal   int     `json:"dosesTotal"`
}

type createStaffRequest struct {
	FullName string     `json:"fullName"`
	Role     string     `json:"role"`
	CenterID *uuid.UUID `json:"centerId,omitempty"`
}

type createUserRequest struct {
	Email    string     `json:"email"`
	FullName string     `json:"fullName"`
	Password string     `json:"password"`
	Role     string     `json:"role"`
	CenterID *uuid.UUID `json:"centerId,omitempty"`
}

type createCampaignRequest struct {
	Name      string     `json:"name"`
	VaccineID uuid.UUID  `json:"vaccineId"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
}

type countryResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type centerResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	State   string  `json:"state"`
}

type vaccineResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	DiseaseTag   *string `json:"diseaseTag,omitempty"`
	DosesTotal   int     `json:"dosesTotal"`
}

type staffResponse struct {
	ID       string  `json:"id"`
	FullName string  `json:"fullName"`
	Role     string  `json:"role"`
	CenterID *string `json:"centerId,omitempty"`
}

// accountResponse never carries the password hash.
type accountResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Role     string  `json:"role"`
	CenterID *string `json:"centerId,omitempty"`
}

type campaignResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	VaccineID string     `json:"vaccineId"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
}

// CreateCountry handles POST /api/v1/countries.
func (h *RegistryHandler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var req createCountryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	country, err := h.svc.CreateCountry(r.Context(), registry.CreateCountryInput{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCountryResponse(country))
}

// GetCountry handles GET /api/v1/countries/{id}.
func (h *RegistryHandler) GetCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	country, err := h.svc.GetCountry(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toCountryResponse(country))
}

// CreateCenter handles POST /api/v1/centers.
func (h *RegistryHandler) CreateCenter(w http.ResponseWriter, r *http.Request) {
	var req createCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	center, err := h.svc.CreateCenter(r.Context(), registry.CreateCenterInput{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCenterResponse(center))
}

// GetCenter handles GET /api/v1/centers/{id}.
func (h *RegistryHandler) GetCenter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	center, err := h.svc.GetCenter(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toCenterResponse(center))
}

// CreateVaccine handles POST /api/v1/vaccines.
func (h *RegistryHandler) CreateVaccine(w http.ResponseWriter, r *http.Request) {
	var req createVaccineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vaccine, err := h.svc.CreateVaccine(r.Context(), registry.CreateVaccineInput{
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		DiseaseTag:   req.DiseaseTag,
		DosesTotal:   req.DosesTotal,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVaccineResponse(vaccine))
}

// GetVaccine handles GET /api/v1/vaccines/{id}.
func (h *RegistryHandler) GetVaccine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vaccine, err := h.svc.GetVaccine(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toVaccineResponse(vaccine))
}

// CreateStaff handles POST /api/v1/staff.
func (h *RegistryHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	staff, err := h.svc.CreateStaff(r.Context(), registry.CreateStaffInput{
		FullName: req.FullName,
		Role:     req.Role,
		CenterID: req.CenterID,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStaffResponse(staff))
}

// GetStaff handles GET /api/v1/staff/{id}.
func (h *RegistryHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	staff, err := h.svc.GetStaff(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toStaffResponse(staff))
}

// CreateUser handles POST /api/v1/users.
func (h *RegistryHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.CreateUser(r.Context(), registry.CreateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
		CenterID: req.CenterID,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(user))
}

// GetUser handles GET /api/v1/users/{id}.
func (h *RegistryHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(user))
}

// CreateCampaign handles POST /api/v1/campaigns.
func (h *RegistryHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	campaign, err := h.svc.CreateCampaign(r.Context(), registry.CreateCampaignInput{
		Name:      req.Name,
		VaccineID: req.VaccineID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCampaignResponse(campaign))
}

// GetCampaign handles GET /api/v1/campaigns/{id}.
func (h *RegistryHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.svc.GetCampaign(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toCampaignResponse(campaign))
}

func toCountryResponse(c *domain.Country) countryResponse {
	return countryResponse{ID: c.ID.String(), Code: c.Code, Name: c.Name}
}

func toCenterResponse(c *domain.Center) centerResponse {
	return centerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Address: c.Address,
		City:    c.City,
		Phone:   c.Phone,
		State:   c.State.String(),
	}
}

func toVaccineResponse(v *domain.Vaccine) vaccineResponse {
	return vaccineResponse{
		ID:           v.ID.String(),
		Name:         v.Name,
		Manufacturer: v.Manufacturer,
		DiseaseTag:   v.DiseaseTag,
		DosesTotal:   v.DosesTotal,
	}
}

func toStaffResponse(s *domain.Staff) staffResponse {
	resp := staffResponse{
		ID:       s.ID.String(),
		FullName: s.FullName,
		Role:     s.Role,
	}
	if s.CenterID != nil {
		v := s.CenterID.String()
		resp.CenterID = &v
	}
	return resp
}

func toAccountResponse(u *domain.User) accountResponse {
	resp := accountResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
	if u.CenterID != nil {
		v := u.CenterID.String()
		resp.CenterID = &v
	}
	return resp
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		VaccineID: c.VaccineID.String(),
		StartsAt:  c.StartsAt,
		EndsAt:    c.EndsAt,
	}
}
