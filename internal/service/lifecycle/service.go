// Package lifecycle applies the dependency-aware removal policy: entities
// with dependents are deactivated when they carry a state column and blocked
// when they don't; only dependent-free entities are hard-deleted. The policy
// itself is data driven, one code path for every entity type.
package lifecycle

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

type lifecycleRepo interface {
	HasDependents(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error)
	SupportsDeactivation(entityType domain.EntityType) (bool, error)
	Deactivate(ctx context.Context, entityType domain.EntityType, id uuid.UUID) error
	HardDelete(ctx context.Context, entityType domain.EntityType, id uuid.UUID) error
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

// Service applies the removal policy across all entity types.
type Service struct {
	repo     lifecycleRepo
	registry existenceChecker
	audit    auditLogger
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new lifecycle service.
func NewService(
	log *slog.Logger,
	repo lifecycleRepo,
	registry existenceChecker,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		audit:    audit,
		tx:       tx,
		log:      log.With("service", "lifecycle"),
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
