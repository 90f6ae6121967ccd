package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// DeactivateOrDelete removes an entity under the dependency policy:
//
//   - no dependents: the row is hard-deleted;
//   - dependents and a state column: the row is deactivated in place;
//   - dependents and no state column: the request is refused with a
//     BlockedError, nothing changes.
//
// The dependency probe and the write run in one transaction so a reference
// created mid-decision cannot be orphaned; the RESTRICT constraints back the
// probe up at the database level.
func (s *Service) DeactivateOrDelete(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (domain.LifecycleOutcome, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}

	if !entityType.IsValid() {
		return "", domain.NewValidationError("entity_type", "unknown entity type")
	}
	if id == uuid.Nil {
		return "", domain.NewValidationError("id", "required")
	}

	exists, err := s.registry.Exists(ctx, entityType, id)
	if err != nil {
		return "", fmt.Errorf("check entity: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%s %s: %w", entityType, id, domain.ErrNotFound)
	}

	var outcome domain.LifecycleOutcome
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		dependents, err := s.repo.HasDependents(txCtx, entityType, id)
		if err != nil {
			return fmt.Errorf("probe dependents: %w", err)
		}

		if !dependents {
			if err := s.repo.HardDelete(txCtx, entityType, id); err != nil {
				return fmt.Errorf("hard delete: %w", err)
			}
			outcome = domain.OutcomeDeleted
			return nil
		}

		deactivatable, err := s.repo.SupportsDeactivation(entityType)
		if err != nil {
			return err
		}
		if !deactivatable {
			return &domain.BlockedError{
				EntityType: entityType,
				Reason:     "referenced by dependent records",
			}
		}

		if err := s.repo.Deactivate(txCtx, entityType, id); err != nil {
			return fmt.Errorf("deactivate: %w", err)
		}
		outcome = domain.OutcomeDeactivated
		return nil
	})
	if err != nil {
		var blocked *domain.BlockedError
		if errors.As(err, &blocked) {
			return domain.OutcomeBlocked, err
		}
		return "", err
	}

	action := domain.AuditActionDelete
	if outcome == domain.OutcomeDeactivated {
		action = domain.AuditActionDeactivate
	}
	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   &id,
		Action:     action,
		Changes: map[string]any{
			"outcome": outcome.String(),
		},
	})

	s.log.InfoContext(ctx, "entity removed",
		slog.String("entity_type", entityType.String()),
		slog.String("id", id.String()),
		slog.String("outcome", outcome.String()),
	)

	return outcome, nil
}
