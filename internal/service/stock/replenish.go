package stock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// Replenish adds doses back to a lot through the guarded increment. It is the
// only path that raises available_quantity; deleting a vaccination event
// deliberately does not come here.
func (s *Service) Replenish(ctx context.Context, input ReplenishInput) (*domain.VaccineLot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var lot *domain.VaccineLot
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var repErr error
		lot, repErr = s.lots.Replenish(txCtx, input.LotID, input.Quantity)
		if repErr != nil {
			return fmt.Errorf("replenish lot: %w", repErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeLot,
		EntityID:   &lot.ID,
		Action:     domain.AuditActionReplenish,
		Changes: map[string]any{
			"quantity":           map[string]any{"added": input.Quantity},
			"available_quantity": map[string]any{"new": lot.AvailableQuantity},
		},
	})

	s.log.InfoContext(ctx, "lot replenished",
		slog.String("lot_id", lot.ID.String()),
		slog.Int("added", input.Quantity),
		slog.Int("available", lot.AvailableQuantity),
	)

	return lot, nil
}
