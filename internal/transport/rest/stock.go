package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/internal/service/stock"
)

// stockService defines the minimal interface needed by StockHandler.
type stockService interface {
	CreateLot(ctx context.Context, in stock.CreateLotInput) (*domain.VaccineLot, error)
	GetLotDetail(ctx context.Context, id uuid.UUID) (*stock.LotDetail, error)
	ListLots(ctx context.Context, in stock.ListLotsInput) ([]domain.VaccineLot, error)
	Replenish(ctx context.Context, in stock.ReplenishInput) (*domain.VaccineLot, error)
}

// StockHandler serves the vaccine lot REST endpoints.
type StockHandler struct {
	svc stockService
	log *slog.Logger
}

// NewStockHandler creates a StockHandler.
func NewStockHandler(svc stockService, logger *slog.Logger) *StockHandler {
	return &StockHandler{svc: svc, log: logger.With("handler", "stock")}
}

type createLotRequest struct {
	VaccineID         uuid.UUID `json:"vaccineId"`
	LotNumber         string    `json:"lotNumber"`
	TotalQuantity     int       `json:"totalQuantity"`
	ManufactureDate   time.Time `json:"manufactureDate"`
	ExpiryDate        time.Time `json:"expiryDate"`
	CenterID          uuid.UUID `json:"centerId"`
	StorageConditions *string   `json:"storageConditions,omitempty"`
}

type replenishRequest struct {
	Quantity int `json:"quantity"`
}

type lotDetailResponse struct {
	lotResponse
	DosesRecorded int `json:"dosesRecorded"`
}

type lotResponse struct {
	ID                string    `json:"id"`
	VaccineID         string    `json:"vaccineId"`
	LotNumber         string    `json:"lotNumber"`
	TotalQuantity     int       `json:"totalQuantity"`
	AvailableQuantity int       `json:"availableQuantity"`
	ManufactureDate   time.Time `json:"manufactureDate"`
	ExpiryDate        time.Time `json:"expiryDate"`
	CenterID          string    `json:"centerId"`
	StorageConditions *string   `json:"storageConditions,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateLot handles POST /api/v1/lots.
func (h *StockHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req createLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lot, err := h.svc.CreateLot(r.Context(), stock.CreateLotInput{
		VaccineID:         req.VaccineID,
		LotNumber:         req.LotNumber,
		TotalQuantity:     req.TotalQuantity,
		ManufactureDate:   req.ManufactureDate,
		ExpiryDate:        req.ExpiryDate,
		CenterID:          req.CenterID,
		StorageConditions: req.StorageConditions,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLotResponse(lot))
}

// Get handles GET /api/v1/lots/{id}. The detail view includes how many
// vaccination events reference the lot.
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.svc.GetLotDetail(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, lotDetailResponse{
		lotResponse:   toLotResponse(detail.Lot),
		DosesRecorded: detail.DosesRecorded,
	})
}

// List handles GET /api/v1/lots.
// Filters: centerId, vaccineId, onlyAvailable, limit, offset.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := stock.ListLotsInput{
		OnlyAvailable: q.Get("onlyAvailable") == "true",
	}
	var err error
	if in.CenterID, err = queryUUID(q, "centerId"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.VaccineID, err = queryUUID(q, "vaccineId"); err != nil {
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

	lots, err := h.svc.ListLots(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]lotResponse, 0, len(lots))
	for i := range lots {
		out = append(out, toLotResponse(&lots[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Replenish handles POST /api/v1/lots/{id}/replenish.
func (h *StockHandler) Replenish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req replenishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lot, err := h.svc.Replenish(r.Context(), stock.ReplenishInput{
		LotID:    id,
		Quantity: req.Quantity,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toLotResponse(lot))
}

func toLotResponse(l *domain.VaccineLot) lotResponse {
	return lotResponse{
		ID:                l.ID.String(),
		VaccineID:         l.VaccineID.String(),
		LotNumber:         l.LotNumber,
		TotalQuantity:     l.TotalQuantity,
		AvailableQuantity: l.AvailableQuantity,
		ManufactureDate:   l.ManufactureDate,
		ExpiryDate:        l.ExpiryDate,
		CenterID:          l.CenterID.String(),
		StorageConditions: l.StorageConditions,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}
