// Package patient manages child records and their guardian sets. Guardian
// writes always replace the full set for one child so the per-slot
// cardinality rule holds atomically.
package patient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

type childRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Child, error)
	Create(ctx context.Context, c *domain.Child) (*domain.Child, error)
	Update(ctx context.Context, c *domain.Child) (*domain.Child, error)
	Find(ctx context.Context, filter domain.ChildFilter) ([]domain.Child, error)
	GetGuardians(ctx context.Context, childID uuid.UUID) ([]domain.Guardian, error)
	ReplaceGuardians(ctx context.Context, childID uuid.UUID, guardians []domain.Guardian) ([]domain.Guardian, error)
}

type existenceChecker interface {
	Exists(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides patient registration and lookup.
type Service struct {
	children childRepo
	registry existenceChecker
	audit    auditLogger
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new patient service.
func NewService(
	log *slog.Logger,
	children childRepo,
	registry existenceChecker,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		children: children,
		registry: registry,
		audit:    audit,
		tx:       tx,
		log:      log.With("service", "patient"),
	}
}

func (s *Service) logAudit(ctx context.Context, record domain.AuditRecord) {
	if err := s.audit.Log(ctx, record); err != nil {
		s.log.ErrorContext(ctx, "audit write failed",
			slog.String("entity_type", record.EntityType.String()),
			slog.String("action", record.Action.String()),
			slog.String("error", err.Error()),
		)
	}
}

// checkReferences verifies nationality, birth country and the optional
// health center against the identity registry.
func (s *Service) checkReferences(ctx context.Context, nationalityID, birthCountryID uuid.UUID, centerID *uuid.UUID) error {
	refs := []struct {
		entityType domain.EntityType
		id         *uuid.UUID
		field      string
	}{
		{domain.EntityTypeCountry, &nationalityID, "nationality_id"},
		{domain.EntityTypeCountry, &birthCountryID, "birth_country_id"},
		{domain.EntityTypeCenter, centerID, "health_center_id"},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		exists, err := s.registry.Exists(ctx, ref.entityType, *ref.id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewInvalidReference(ref.field)
		}
	}
	return nil
}

// checkGuardianRefs verifies every guardian's nationality against the
// identity registry, attributing failures to the guardian's index.
func (s *Service) checkGuardianRefs(ctx context.Context, guardians []GuardianInput) error {
	for i, g := range guardians {
		exists, err := s.registry.Exists(ctx, domain.EntityTypeCountry, g.NationalityID)
		if err != nil {
			return fmt.Errorf("check guardian nationality: %w", err)
		}
		if !exists {
			return domain.NewInvalidReference(guardianField(i) + ".nationality_id")
		}
	}
	return nil
}
