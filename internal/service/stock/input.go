package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// CreateLotInput holds the parameters for registering a new vaccine lot.
type CreateLotInput struct {
	VaccineID         uuid.UUID
	LotNumber         string
	TotalQuantity     int
	ManufactureDate   time.Time
	ExpiryDate        time.Time
	CenterID          uuid.UUID
	StorageConditions *string
}

// Validate checks all fields and collects all errors.
func (i CreateLotInput) Validate() error {
	var errs []domain.FieldError

	if i.VaccineID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "vaccine_id", Message: "required"})
	}
	if i.CenterID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "center_id", Message: "required"})
	}
	if i.LotNumber == "" {
		errs = append(errs, domain.FieldError{Field: "lot_number", Message: "required"})
	}
	if i.TotalQuantity < 0 {
		errs = append(errs, domain.FieldError{Field: "total_quantity", Message: "must be >= 0"})
	}
	if i.ManufactureDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "manufacture_date", Message: "required"})
	}
	if i.ExpiryDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "expiry_date", Message: "required"})
	}
	if !i.ManufactureDate.IsZero() && !i.ExpiryDate.IsZero() && !i.ExpiryDate.After(i.ManufactureDate) {
		errs = append(errs, domain.FieldError{Field: "expiry_date", Message: "must be after manufacture_date"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ReplenishInput holds the parameters for restocking a lot.
type ReplenishInput struct {
	LotID    uuid.UUID
	Quantity int
}

// Validate checks all fields and collects all errors.
func (i ReplenishInput) Validate() error {
	var errs []domain.FieldError

	if i.LotID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "lot_id", Message: "required"})
	}
	if i.Quantity <= 0 {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must be > 0"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListLotsInput holds the parameters for listing lots.
type ListLotsInput struct {
	CenterID      *uuid.UUID
	VaccineID     *uuid.UUID
	OnlyAvailable bool
	Limit         int
	Offset        int
}

// Validate checks all fields and collects all errors.
func (i ListLotsInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be >= 0"})
	}
	if i.Limit > 500 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "max 500"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
