package patient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// UpdateChild rewrites a child's record. A non-nil guardian slice replaces
// the stored set wholesale; nil leaves the existing guardians untouched.
func (s *Service) UpdateChild(ctx context.Context, in UpdateChildInput) (*domain.Child, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	var guardians []GuardianInput
	if in.Guardians != nil {
		var err error
		guardians, err = ValidateGuardianSet(in.Guardians)
		if err != nil {
			return nil, err
		}
	}

	if err := s.checkReferences(ctx, in.NationalityID, in.BirthCountryID, in.HealthCenterID); err != nil {
		return nil, err
	}
	if err := s.checkGuardianRefs(ctx, guardians); err != nil {
		return nil, err
	}

	current, err := s.children.GetByID(ctx, in.ChildID)
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}

	var child *domain.Child
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updErr error
		child, updErr = s.children.Update(txCtx, &domain.Child{
			ID:             in.ChildID,
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
		if updErr != nil {
			return fmt.Errorf("update child: %w", updErr)
		}

		if in.Guardians == nil {
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
			return fmt.Errorf("replace guardians: %w", repErr)
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
		Action:     domain.AuditActionUpdate,
		Changes: map[string]any{
			"full_name": map[string]any{"old": current.FullName, "new": child.FullName},
		},
	})

	s.log.InfoContext(ctx, "child updated",
		slog.String("child_id", child.ID.String()),
	)

	return child, nil
}
