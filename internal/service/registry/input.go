package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// CreateCountryInput holds the parameters for a new country row.
type CreateCountryInput struct {
	Code string
	Name string
}

func (i CreateCountryInput) Validate() error {
	var errs []domain.FieldError

	code := strings.ToUpper(strings.TrimSpace(i.Code))
	if len(code) != 2 {
		errs = append(errs, domain.FieldError{Field: "code", Message: "must be a two-letter code"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateCenterInput holds the parameters for a new health center.
type CreateCenterInput struct {
	Name    string
	Address *string
	City    *string
	Phone   *string
}

func (i CreateCenterInput) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return domain.NewValidationError("name", "required")
	}
	return nil
}

// CreateVaccineInput holds the parameters for a new vaccine product.
type CreateVaccineInput struct {
	Name         string
	Manufacturer *string
	DiseaseTag   *string
	DosesTotal   int
}

func (i CreateVaccineInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if i.DosesTotal < 1 {
		errs = append(errs, domain.FieldError{Field: "doses_total", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateStaffInput holds the parameters for a new staff member.
type CreateStaffInput struct {
	FullName string
	Role     string
	CenterID *uuid.UUID
}

func (i CreateStaffInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.FullName) == "" {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "required"})
	}
	if strings.TrimSpace(i.Role) == "" {
		errs = append(errs, domain.FieldError{Field: "role", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateUserInput holds the parameters for a new backoffice account.
type CreateUserInput struct {
	Email    string
	FullName string
	Password string
	Role     string
	CenterID *uuid.UUID
}

func (i CreateUserInput) Validate() error {
	var errs []domain.FieldError

	if !strings.Contains(i.Email, "@") {
		errs = append(errs, domain.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if strings.TrimSpace(i.FullName) == "" {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "required"})
	}
	if len(i.Password) < 8 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if strings.TrimSpace(i.Role) == "" {
		errs = append(errs, domain.FieldError{Field: "role", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateCampaignInput holds the parameters for a new campaign.
type CreateCampaignInput struct {
	Name      string
	VaccineID uuid.UUID
	StartsAt  time.Time
	EndsAt    *time.Time
}

func (i CreateCampaignInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if i.VaccineID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "vaccine_id", Message: "required"})
	}
	if i.StartsAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "starts_at", Message: "required"})
	}
	if i.EndsAt != nil && !i.EndsAt.After(i.StartsAt) {
		errs = append(errs, domain.FieldError{Field: "ends_at", Message: "must be after starts_at"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
