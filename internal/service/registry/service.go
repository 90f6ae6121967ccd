// Package registry manages the reference entities every other module points
// at: countries, centers, vaccines, staff, users and campaigns. It also
// exposes the existence probe the other services use to validate foreign
// references before writing.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

type registryRepo interface {
	Exists(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error)
	CreateCountry(ctx context.Context, c *domain.Country) (*domain.Country, error)
	GetCountry(ctx context.Context, id uuid.UUID) (*domain.Country, error)
	CreateCenter(ctx context.Context, c *domain.Center) (*domain.Center, error)
	GetCenter(ctx context.Context, id uuid.UUID) (*domain.Center, error)
	CreateVaccine(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error)
	GetVaccine(ctx context.Context, id uuid.UUID) (*domain.Vaccine, error)
	CreateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	CreateUser(ctx context.Context, u *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateCampaign(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Service provides reference data management.
type Service struct {
	repo   registryRepo
	audit  auditLogger
	tx     txManager
	hasher passwordHasher
	log    *slog.Logger
}

// NewService creates a new registry service.
func NewService(
	log *slog.Logger,
	repo registryRepo,
	audit auditLogger,
	tx txManager,
	hasher passwordHasher,
) *Service {
	return &Service{
		repo:   repo,
		audit:  audit,
		tx:     tx,
		hasher: hasher,
		log:    log.With("service", "registry"),
	}
}

// Exists reports whether an entity of the given type exists. Services use it
// to turn dangling foreign ids into InvalidReferenceError before writing.
func (s *Service) Exists(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	if !entityType.IsValid() {
		return false, domain.NewValidationError("entity_type", "unknown entity type")
	}
	if id == uuid.Nil {
		return false, nil
	}
	exists, err := s.repo.Exists(ctx, entityType, id)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", entityType, err)
	}
	return exists, nil
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
