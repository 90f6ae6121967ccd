// Package vaccination records administered doses. Registration couples the
// history insert to the stock ledger's conditional decrement inside one
// transaction, so an event row can never outlive the dose it consumed.
package vaccination

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

type eventRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VaccinationEvent, error)
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.VaccinationEvent, error)
	Create(ctx context.Context, e *domain.VaccinationEvent) (*domain.VaccinationEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// doseConsumer is the one stock ledger primitive the recorder needs. The
// recorder never reads or writes available_quantity itself.
type doseConsumer interface {
	ConsumeDose(ctx context.Context, lotID uuid.UUID) error
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

// Service provides vaccination history operations.
type Service struct {
	events   eventRepo
	stock    doseConsumer
	registry existenceChecker
	audit    auditLogger
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new vaccination service.
func NewService(
	log *slog.Logger,
	events eventRepo,
	stock doseConsumer,
	registry existenceChecker,
	audit auditLogger,
	tx txManager,
) *Service {
	return &Service{
		events:   events,
		stock:    stock,
		registry: registry,
		audit:    audit,
		tx:       tx,
		log:      log.With("service", "vaccination"),
	}
}

// logAudit writes an audit record best-effort after commit; failures are
// logged and swallowed.
func (s *Service) logAudit(ctx context.Context, record domain.AuditRecord) {
	if err := s.audit.Log(ctx, record); err != nil {
		s.log.ErrorContext(ctx, "audit write failed",
			slog.String("entity_type", record.EntityType.String()),
			slog.String("action", record.Action.String()),
			slog.String("error", err.Error()),
		)
	}
}
