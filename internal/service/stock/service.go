// Package stock is the stock ledger: it owns vaccine lot records and every
// change to their available dose counts. Consumption happens through the
// repository's conditional decrement; this service adds the lot CRUD and the
// explicit replenishment path around it.
package stock

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

type lotRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VaccineLot, error)
	List(ctx context.Context, filter domain.LotFilter) ([]domain.VaccineLot, error)
	Create(ctx context.Context, l *domain.VaccineLot) (*domain.VaccineLot, error)
	Replenish(ctx context.Context, lotID uuid.UUID, quantity int) (*domain.VaccineLot, error)
}

type existenceChecker interface {
	Exists(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error)
}

type usageCounter interface {
	CountByLot(ctx context.Context, lotID uuid.UUID) (int, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Limits carries the operator-tunable bounds for the stock ledger.
type Limits struct {
	MaxLotQuantity  int
	DefaultPageSize int
}

// Service provides lot management on top of the stock ledger primitives.
type Service struct {
	lots     lotRepo
	usage    usageCounter
	registry existenceChecker
	audit    auditLogger
	tx       txManager
	limits   Limits
	log      *slog.Logger
}

// NewService creates a new stock service. Zero-valued limits fall back to
// safe defaults.
func NewService(
	log *slog.Logger,
	lots lotRepo,
	usage usageCounter,
	registry existenceChecker,
	audit auditLogger,
	tx txManager,
	limits Limits,
) *Service {
	if limits.MaxLotQuantity <= 0 {
		limits.MaxLotQuantity = 100000
	}
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = 100
	}
	return &Service{
		lots:     lots,
		usage:    usage,
		registry: registry,
		audit:    audit,
		tx:       tx,
		limits:   limits,
		log:      log.With("service", "stock"),
	}
}

// logAudit writes an audit record best-effort, after the business transaction
// has committed. Failures are logged, never propagated: audit must not undo
// or block a completed mutation.
func (s *Service) logAudit(ctx context.Context, record domain.AuditRecord) {
	if err := s.audit.Log(ctx, record); err != nil {
		s.log.ErrorContext(ctx, "audit write failed",
			slog.String("entity_type", record.EntityType.String()),
			slog.String("action", record.Action.String()),
			slog.String("error", err.Error()),
		)
	}
}
