package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// GetCountry returns a country by id.
func (s *Service) GetCountry(ctx context.Context, id uuid.UUID) (*domain.Country, error) {
	c, err := s.repo.GetCountry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get country: %w", err)
	}
	return c, nil
}

// GetCenter returns a health center by id.
func (s *Service) GetCenter(ctx context.Context, id uuid.UUID) (*domain.Center, error) {
	c, err := s.repo.GetCenter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get center: %w", err)
	}
	return c, nil
}

// GetVaccine returns a vaccine by id.
func (s *Service) GetVaccine(ctx context.Context, id uuid.UUID) (*domain.Vaccine, error) {
	v, err := s.repo.GetVaccine(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get vaccine: %w", err)
	}
	return v, nil
}

// GetStaff returns a staff member by id.
func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	st, err := s.repo.GetStaff(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return st, nil
}

// GetUser returns a backoffice account by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetCampaign returns a campaign by id.
func (s *Service) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}
