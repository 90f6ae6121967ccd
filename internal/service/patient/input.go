package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// GuardianInput describes one guardian in a child's guardian set. Slot may be
// left empty, in which case it defaults to the LEGAL_GUARDIAN slot.
type GuardianInput struct {
	FullName      string
	Relationship  domain.GuardianRelationship
	Slot          domain.RelationshipSlot
	NationalityID uuid.UUID
	Phone         *string
	Email         *string
}

func (g GuardianInput) validate(prefix string) []domain.FieldError {
	var errs []domain.FieldError

	if g.FullName == "" {
		errs = append(errs, domain.FieldError{Field: prefix + ".full_name", Message: "required"})
	}
	if !g.Relationship.IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + ".relationship", Message: "unknown relationship"})
	}
	if g.Slot != "" && !g.Slot.IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + ".slot", Message: "unknown slot"})
	}
	if g.NationalityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: prefix + ".nationality_id", Message: "required"})
	}

	return errs
}

// CreateChildInput holds the parameters for registering a child.
type CreateChildInput struct {
	FullName       string
	NationalID     string
	NationalityID  uuid.UUID
	BirthCountryID uuid.UUID
	BirthDate      time.Time
	Gender         domain.Gender
	AddressLine    *string
	City           *string
	HealthCenterID *uuid.UUID
	Guardians      []GuardianInput
}

// Validate checks all fields and collects all errors.
func (i CreateChildInput) Validate() error {
	var errs []domain.FieldError

	if i.FullName == "" {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "required"})
	}
	if i.NationalID == "" {
		errs = append(errs, domain.FieldError{Field: "national_id", Message: "required"})
	}
	if i.NationalityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "nationality_id", Message: "required"})
	}
	if i.BirthCountryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "birth_country_id", Message: "required"})
	}
	if i.BirthDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "birth_date", Message: "required"})
	}
	if !i.Gender.IsValid() {
		errs = append(errs, domain.FieldError{Field: "gender", Message: "unknown gender"})
	}
	for idx, g := range i.Guardians {
		errs = append(errs, g.validate(guardianField(idx))...)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateChildInput holds the parameters for updating a child's record.
// Guardians, when non-nil, replace the existing set entirely.
type UpdateChildInput struct {
	ChildID        uuid.UUID
	FullName       string
	NationalID     string
	NationalityID  uuid.UUID
	BirthCountryID uuid.UUID
	BirthDate      time.Time
	Gender         domain.Gender
	AddressLine    *string
	City           *string
	HealthCenterID *uuid.UUID
	Guardians      []GuardianInput
}

// Validate checks all fields and collects all errors.
func (i UpdateChildInput) Validate() error {
	var errs []domain.FieldError

	if i.ChildID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "child_id", Message: "required"})
	}
	if i.FullName == "" {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "required"})
	}
	if i.NationalID == "" {
		errs = append(errs, domain.FieldError{Field: "national_id", Message: "required"})
	}
	if i.NationalityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "nationality_id", Message: "required"})
	}
	if i.BirthCountryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "birth_country_id", Message: "required"})
	}
	if i.BirthDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "birth_date", Message: "required"})
	}
	if !i.Gender.IsValid() {
		errs = append(errs, domain.FieldError{Field: "gender", Message: "unknown gender"})
	}
	for idx, g := range i.Guardians {
		errs = append(errs, g.validate(guardianField(idx))...)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func guardianField(idx int) string {
	return fmt.Sprintf("guardians[%d]", idx)
}

// FindChildrenInput narrows child listings.
type FindChildrenInput struct {
	NationalID     *string
	HealthCenterID *uuid.UUID
	State          *domain.EntityState
	NameLike       *string
	Limit          int
	Offset         int
}

// Validate checks all fields and collects all errors.
func (i FindChildrenInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be >= 0"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}
	if i.State != nil && !i.State.IsValid() {
		errs = append(errs, domain.FieldError{Field: "state", Message: "unknown state"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
