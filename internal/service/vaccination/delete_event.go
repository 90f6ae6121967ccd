package vaccination

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// DeleteEvent removes a history record. This is a data correction, not a
// reversal of the administration: the consumed dose is not returned to the
// lot, because the physical dose left the vial regardless of bookkeeping.
func (s *Service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if id == uuid.Nil {
		return domain.NewValidationError("id", "is required")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.events.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeVaccinationEvent,
		EntityID:   &id,
		Action:     domain.AuditActionDelete,
	})

	s.log.InfoContext(ctx, "vaccination event deleted",
		slog.String("event_id", id.String()),
	)

	return nil
}
