package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// LotDetail pairs a lot with the number of vaccination events that reference
// it. The count is the reconciliation view against the dose counters: events
// recorded versus doses drawn.
type LotDetail struct {
	Lot           *domain.VaccineLot
	DosesRecorded int
}

// GetLot returns a lot by id.
func (s *Service) GetLot(ctx context.Context, lotID uuid.UUID) (*domain.VaccineLot, error) {
	if lotID == uuid.Nil {
		return nil, domain.NewValidationError("lot_id", "required")
	}

	lot, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// GetLotDetail returns a lot together with its recorded event count.
func (s *Service) GetLotDetail(ctx context.Context, lotID uuid.UUID) (*LotDetail, error) {
	lot, err := s.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	count, err := s.usage.CountByLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("count lot usage: %w", err)
	}
	return &LotDetail{Lot: lot, DosesRecorded: count}, nil
}

// ListLots returns lots matching the filter.
func (s *Service) ListLots(ctx context.Context, input ListLotsInput) ([]domain.VaccineLot, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.limits.DefaultPageSize
	}

	lots, err := s.lots.List(ctx, domain.LotFilter{
		CenterID:      input.CenterID,
		VaccineID:     input.VaccineID,
		OnlyAvailable: input.OnlyAvailable,
		Limit:         limit,
		Offset:        input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}
