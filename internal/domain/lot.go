package domain

import (
	"time"

	"github.com/google/uuid"
)

// VaccineLot is a manufactured batch of a vaccine with a finite dose count.
// AvailableQuantity is the only hot shared field in the system: it is mutated
// exclusively through the stock ledger's conditional decrement/increment, so
// 0 <= AvailableQuantity <= TotalQuantity holds under any interleaving.
type VaccineLot struct {
	ID                uuid.UUID
	VaccineID         uuid.UUID
	LotNumber         string
	TotalQuantity     int
	AvailableQuantity int
	ManufactureDate   time.Time
	ExpiryDate        time.Time
	CenterID          uuid.UUID
	StorageConditions *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LotFilter narrows lot listings.
type LotFilter struct {
	CenterID      *uuid.UUID
	VaccineID     *uuid.UUID
	OnlyAvailable bool
	Limit         int
	Offset        int
}

// IsExpired reports whether the lot's expiry date has passed at the given time.
func (l *VaccineLot) IsExpired(now time.Time) bool {
	return now.After(l.ExpiryDate)
}

// IsExhausted reports whether the lot has no doses left.
func (l *VaccineLot) IsExhausted() bool {
	return l.AvailableQuantity <= 0
}
