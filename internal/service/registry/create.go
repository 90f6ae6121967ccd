package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// CreateCountry adds a country to the registry.
func (s *Service) CreateCountry(ctx context.Context, in CreateCountryInput) (*domain.Country, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var country *domain.Country
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		country, createErr = s.repo.CreateCountry(txCtx, &domain.Country{
			Code: strings.ToUpper(strings.TrimSpace(in.Code)),
			Name: strings.TrimSpace(in.Name),
		})
		if createErr != nil {
			return fmt.Errorf("create country: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeCountry,
		EntityID:   &country.ID,
		Action:     domain.AuditActionCreate,
		Changes:    map[string]any{"code": country.Code},
	})

	s.log.InfoContext(ctx, "country created", slog.String("code", country.Code))
	return country, nil
}

// CreateCenter adds a health center to the registry.
func (s *Service) CreateCenter(ctx context.Context, in CreateCenterInput) (*domain.Center, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var center *domain.Center
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		center, createErr = s.repo.CreateCenter(txCtx, &domain.Center{
			Name:    strings.TrimSpace(in.Name),
			Address: in.Address,
			City:    in.City,
			Phone:   in.Phone,
		})
		if createErr != nil {
			return fmt.Errorf("create center: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeCenter,
		EntityID:   &center.ID,
		Action:     domain.AuditActionCreate,
		Changes:    map[string]any{"name": center.Name},
	})

	s.log.InfoContext(ctx, "center created", slog.String("center_id", center.ID.String()))
	return center, nil
}

// CreateVaccine adds a vaccine product to the registry.
func (s *Service) CreateVaccine(ctx context.Context, in CreateVaccineInput) (*domain.Vaccine, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var vaccine *domain.Vaccine
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		vaccine, createErr = s.repo.CreateVaccine(txCtx, &domain.Vaccine{
			Name:         strings.TrimSpace(in.Name),
			Manufacturer: in.Manufacturer,
			DiseaseTag:   in.DiseaseTag,
			DosesTotal:   in.DosesTotal,
		})
		if createErr != nil {
			return fmt.Errorf("create vaccine: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeVaccine,
		EntityID:   &vaccine.ID,
		Action:     domain.AuditActionCreate,
		Changes:    map[string]any{"name": vaccine.Name},
	})

	s.log.InfoContext(ctx, "vaccine created", slog.String("vaccine_id", vaccine.ID.String()))
	return vaccine, nil
}

// CreateStaff adds a clinician to the registry.
func (s *Service) CreateStaff(ctx context.Context, in CreateStaffInput) (*domain.Staff, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.CenterID != nil {
		exists, err := s.repo.Exists(ctx, domain.EntityTypeCenter, *in.CenterID)
		if err != nil {
			return nil, fmt.Errorf("check center: %w", err)
		}
		if !exists {
			return nil, domain.NewInvalidReference("center_id")
		}
	}

	var staff *domain.Staff
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		staff, createErr = s.repo.CreateStaff(txCtx, &domain.Staff{
			FullName: strings.TrimSpace(in.FullName),
			Role:     in.Role,
			CenterID: in.CenterID,
		})
		if createErr != nil {
			return fmt.Errorf("create staff: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeStaff,
		EntityID:   &staff.ID,
		Action:     domain.AuditActionCreate,
		Changes:    map[string]any{"role": staff.Role},
	})

	s.log.InfoContext(ctx, "staff created", slog.String("staff_id", staff.ID.String()))
	return staff, nil
}

// CreateUser adds a backoffice account. The password is bcrypt-hashed before
// it reaches the repository; the plaintext never leaves this function.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.CenterID != nil {
		exists, err := s.repo.Exists(ctx, domain.EntityTypeCenter, *in.CenterID)
		if err != nil {
			return nil, fmt.Errorf("check center: %w", err)
		}
		if !exists {
			return nil, domain.NewInvalidReference("center_id")
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *domain.User
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		user, createErr = s.repo.CreateUser(txCtx, &domain.User{
			Email:        strings.ToLower(strings.TrimSpace(in.Email)),
			FullName:     strings.TrimSpace(in.FullName),
			PasswordHash: hash,
			Role:         in.Role,
			CenterID:     in.CenterID,
		})
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeUser,
		EntityID:   &user.ID,
		Action:     domain.AuditActionCreate,
		Changes:    map[string]any{"email": user.Email, "role": user.Role},
	})

	s.log.InfoContext(ctx, "user created", slog.String("user_id", user.ID.String()))
	return user, nil
}

// CreateCampaign adds a vaccination campaign to the registry.
func (s *Service) CreateCampaign(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, domain.EntityTypeVaccine, in.VaccineID)
	if err != nil {
		return nil, fmt.Errorf("check vaccine: %w", err)
	}
	if !exists {
		return nil, domain.NewInvalidReference("vaccine_id")
	}

	var campaign *domain.Campaign
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		campaign, createErr = s.repo.CreateCampaign(txCtx, &domain.Campaign{
			Name:      strings.TrimSpace(in.Name),
			VaccineID: in.VaccineID,
			StartsAt:  in.StartsAt,
			EndsAt:    in.EndsAt,
		})
		if createErr != nil {
			return fmt.Errorf("create campaign: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.AuditRecord{
		UserID:     userID,
		EntityType: domain.EntityTypeCampaign,
		EntityID:   &campaign.ID,
		Action:     domain.AuditActionCreate,
		Changes:    map[string]any{"name": campaign.Name},
	})

	s.log.InfoContext(ctx, "campaign created", slog.String("campaign_id", campaign.ID.String()))
	return campaign, nil
}
