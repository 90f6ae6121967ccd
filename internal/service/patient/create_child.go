package patient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// CreateChild registers a child together with their guardian set. The child
// row and all guardian rows are written in one transaction.
func (s *Service) CreateChild(ctx context.Context, in CreateChildInput) (*domain.Child, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	guardians, err := ValidateGuardianSet(in.Guardians)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, in.NationalityID, in.BirthCountryID, in.HealthCenterID); err != nil {
		return nil, err
	}
	if err := s.checkGuardianRefs(ctx, guardians); err != nil {
		return nil, err
	}

	var child *domain.Child
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		child, createErr = s.children.Create(txCtx, &domain.Child{
			FullName:       in.FullName,
			NationalID:     in.NationalID,
			NationalityID:  in.NationalityID,
			BirthCountryID: in.BirthCountryID,
			BirthDate:      in.BirthDate,
			Gender:         in.Gender,
			AddressLine:    in.AddressLine,
			City:           in.City,
			HealthCenterID: in.HealthCenterID,
		})
		if createErr != nil {
			return fmt.Errorf("create child: %w", createErr)
		}

		if len(guardians) == 0 {
			return nil
		}

		set := make([]domain.Guardian, len(guardians))
		for i, g := range guardians {
			set[i] = domain.Guardian{
				ChildID:       child.ID,
				FullName:      g.FullName,
				Relationship:  g.Relationship,
				Slot:          g.Slot,
				NationalityID: g.NationalityID,
				Phone:         g.Phone,
				Email:         g.Email,
			}
		}
		written, repErr := s.children.ReplaceGuardians(txCtx, child.ID, set)
		if repErr != nil {
			return fmt.Errorf("write guardians: %w", repErr)
		}
		child.Guardians = written
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeChild,
		EntityID:   &child.ID,
		Action:     domain.AuditActionCreate,
		Changes: map[string]any{
			"national_id": child.NationalID,
			"guardians":   len(child.Guardians),
		},
	})

	s.log.InfoContext(ctx, "child registered",
		slog.String("child_id", child.ID.String()),
		slog.Int("guardians", len(child.Guardians)),
	)

	return child, nil
}
