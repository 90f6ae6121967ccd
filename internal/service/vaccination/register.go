package vaccination

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// Register records one administered dose. The event insert and the stock
// decrement happen in a single transaction: if the lot has no available
// doses the whole unit of work rolls back and no history row is written.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.VaccinationEvent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	// References are checked up front so a bogus lot id surfaces as an
	// invalid reference rather than as an out-of-stock lot.
	refs := []struct {
		entityType domain.EntityType
		id         *uuid.UUID
		field      string
	}{
		{domain.EntityTypeLot, &in.LotID, "lot_id"},
		{domain.EntityTypeChild, &in.ChildID, "child_id"},
		{domain.EntityTypeStaff, &in.StaffID, "staff_id"},
		{domain.EntityTypeCenter, in.CenterID, "center_id"},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		exists, err := s.registry.Exists(ctx, ref.entityType, *ref.id)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", ref.field, err)
		}
		if !exists {
			return nil, domain.NewInvalidReference(ref.field)
		}
	}

	event := &domain.VaccinationEvent{
		ChildID:        in.ChildID,
		LotID:          in.LotID,
		StaffID:        in.StaffID,
		CenterID:       in.CenterID,
		AdministeredAt: in.AdministeredAt,
		DoseNumber:     in.DoseNumber,
		InjectionSite:  in.InjectionSite,
		Notes:          in.Notes,
	}

	var created *domain.VaccinationEvent
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.events.Create(ctx, event)
		if err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		if err := s.stock.ConsumeDose(ctx, in.LotID); err != nil {
			return fmt.Errorf("consume dose: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeVaccinationEvent,
		EntityID:   &created.ID,
		Action:     domain.AuditActionCreate,
		Changes: map[string]any{
			"child_id":    created.ChildID.String(),
			"lot_id":      created.LotID.String(),
			"dose_number": created.DoseNumber,
		},
	})

	s.log.InfoContext(ctx, "vaccination registered",
		slog.String("event_id", created.ID.String()),
		slog.String("child_id", created.ChildID.String()),
		slog.String("lot_id", created.LotID.String()),
	)

	return created, nil
}
