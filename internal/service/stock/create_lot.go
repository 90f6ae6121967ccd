package stock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// CreateLot registers a new vaccine lot with its full dose count available.
func (s *Service) CreateLot(ctx context.Context, input CreateLotInput) (*domain.VaccineLot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.TotalQuantity > s.limits.MaxLotQuantity {
		return nil, domain.NewValidationError("total_quantity",
			fmt.Sprintf("max %d", s.limits.MaxLotQuantity))
	}

	exists, err := s.registry.Exists(ctx, domain.EntityTypeVaccine, input.VaccineID)
	if err != nil {
		return nil, fmt.Errorf("check vaccine: %w", err)
	}
	if !exists {
		return nil, domain.NewInvalidReference("vaccine_id")
	}

	exists, err = s.registry.Exists(ctx, domain.EntityTypeCenter, input.CenterID)
	if err != nil {
		return nil, fmt.Errorf("check center: %w", err)
	}
	if !exists {
		return nil, domain.NewInvalidReference("center_id")
	}

	var lot *domain.VaccineLot
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		lot, createErr = s.lots.Create(txCtx, &domain.VaccineLot{
			VaccineID:         input.VaccineID,
			LotNumber:         input.LotNumber,
			TotalQuantity:     input.TotalQuantity,
			AvailableQuantity: input.TotalQuantity,
			ManufactureDate:   input.ManufactureDate,
			ExpiryDate:        input.ExpiryDate,
			CenterID:          input.CenterID,
			StorageConditions: input.StorageConditions,
		})
		if createErr != nil {
			return fmt.Errorf("create lot: %w", createErr)
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
		Action:     domain.AuditActionCreate,
		Changes: map[string]any{
			"lot_number":     map[string]any{"new": lot.LotNumber},
			"total_quantity": map[string]any{"new": lot.TotalQuantity},
		},
	})

	s.log.InfoContext(ctx, "lot created",
		slog.String("lot_id", lot.ID.String()),
		slog.String("lot_number", lot.LotNumber),
		slog.Int("total_quantity", lot.TotalQuantity),
	)

	return lot, nil
}
