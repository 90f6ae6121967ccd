package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// GetChild returns a child with their guardian set.
func (s *Service) GetChild(ctx context.Context, childID uuid.UUID) (*domain.Child, error) {
	if childID == uuid.Nil {
		return nil, domain.NewValidationError("child_id", "required")
	}

	child, err := s.children.GetByID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}

	guardians, err := s.children.GetGuardians(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("get guardians: %w", err)
	}
	child.Guardians = guardians

	return child, nil
}

// FindChildren lists children matching the filter, without guardians.
func (s *Service) FindChildren(ctx context.Context, in FindChildrenInput) ([]domain.Child, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit == 0 {
		limit = 100
	}

	children, err := s.children.Find(ctx, domain.ChildFilter{
		NationalID:     in.NationalID,
		HealthCenterID: in.HealthCenterID,
		State:          in.State,
		NameLike:       in.NameLike,
		Limit:          limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	return children, nil
}
