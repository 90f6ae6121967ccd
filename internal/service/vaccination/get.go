package vaccination

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// GetEvent returns a single history record by id.
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*domain.VaccinationEvent, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "is required")
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// History lists vaccination events matching the filter, most recent first.
func (s *Service) History(ctx context.Context, in HistoryInput) ([]domain.VaccinationEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit == 0 {
		limit = 100
	}

	events, err := s.events.List(ctx, domain.HistoryFilter{
		ChildID:  in.ChildID,
		LotID:    in.LotID,
		StaffID:  in.StaffID,
		CenterID: in.CenterID,
		From:     in.From,
		To:       in.To,
		Limit:    limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
