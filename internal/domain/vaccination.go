package domain

import (
	"time"

	"github.com/google/uuid"
)

// VaccinationEvent is an immutable history record of one administered dose.
// It is created atomically with the stock decrement on its lot and keeps its
// lot reference even after the lot is deactivated. Deleting an event is a
// data correction and does not restock the lot.
type VaccinationEvent struct {
	ID             uuid.UUID
	ChildID        uuid.UUID
	LotID          uuid.UUID
	StaffID        uuid.UUID
	CenterID       *uuid.UUID
	AdministeredAt time.Time
	DoseNumber     int
	InjectionSite  *string
	Notes          *string
	CreatedAt      time.Time
}

// HistoryFilter narrows vaccination history listings.
type HistoryFilter struct {
	ChildID  *uuid.UUID
	LotID    *uuid.UUID
	StaffID  *uuid.UUID
	CenterID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
