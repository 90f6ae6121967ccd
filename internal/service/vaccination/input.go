package vaccination

import (
	"time"

	"github.com/google/uuid"

	"github.com/immunet/immunet-backend/internal/domain"
)

// RegisterInput carries everything needed to record one administered dose.
type RegisterInput struct {
	ChildID        uuid.UUID
	LotID          uuid.UUID
	StaffID        uuid.UUID
	CenterID       *uuid.UUID
	AdministeredAt time.Time
	DoseNumber     int
	InjectionSite  *string
	Notes          *string
}

func (in RegisterInput) Validate() error {
	var fields []domain.FieldError

	if in.ChildID == uuid.Nil {
		fields = append(fields, domain.FieldError{Field: "child_id", Message: "is required"})
	}
	if in.LotID == uuid.Nil {
		fields = append(fields, domain.FieldError{Field: "lot_id", Message: "is required"})
	}
	if in.StaffID == uuid.Nil {
		fields = append(fields, domain.FieldError{Field: "staff_id", Message: "is required"})
	}
	if in.AdministeredAt.IsZero() {
		fields = append(fields, domain.FieldError{Field: "administered_at", Message: "is required"})
	}
	if in.DoseNumber < 1 {
		fields = append(fields, domain.FieldError{Field: "dose_number", Message: "must be at least 1"})
	}
	if in.Notes != nil && len(*in.Notes) > 2000 {
		fields = append(fields, domain.FieldError{Field: "notes", Message: "must be at most 2000 characters"})
	}

	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

// HistoryInput filters a child's (or lot's) vaccination history.
type HistoryInput struct {
	ChildID  *uuid.UUID
	LotID    *uuid.UUID
	StaffID  *uuid.UUID
	CenterID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

func (in HistoryInput) Validate() error {
	var fields []domain.FieldError

	if in.Limit < 0 {
		fields = append(fields, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	if in.Offset < 0 {
		fields = append(fields, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		fields = append(fields, domain.FieldError{Field: "to", Message: "must not be before from"})
	}

	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}
