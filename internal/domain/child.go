package domain

import (
	"time"

	"github.com/google/uuid"
)

// Child is a registered patient of the immunization program.
// Children are soft-deactivated, never hard-deleted, once vaccination
// history or other dependents reference them.
type Child struct {
	ID             uuid.UUID
	FullName       string
	NationalID     string
	NationalityID  uuid.UUID
	BirthCountryID uuid.UUID
	BirthDate      time.Time
	Gender         Gender
	AddressLine    *string
	City           *string
	HealthCenterID *uuid.UUID
	State          EntityState
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Guardians []Guardian
}

// ChildFilter narrows child listings.
type ChildFilter struct {
	NationalID     *string
	HealthCenterID *uuid.UUID
	State          *EntityState
	NameLike       *string
	Limit          int
	Offset         int
}

// IsActive reports whether the child has not been soft-deactivated.
func (c *Child) IsActive() bool {
	return c.State == EntityStateActive
}

// Guardian is a parent or legal guardian attached to a child's record.
// The (ChildID, Slot) pair is unique: one guardian per relationship slot.
type Guardian struct {
	ID            uuid.UUID
	ChildID       uuid.UUID
	FullName      string
	Relationship  GuardianRelationship
	Slot          RelationshipSlot
	NationalityID uuid.UUID
	Phone         *string
	Email         *string
	CreatedAt     time.Time
}
