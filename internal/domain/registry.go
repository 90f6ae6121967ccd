package domain

import (
	"time"

	"github.com/google/uuid"
)

// Country is a lookup row referenced by children (nationality, birth country)
// and guardians.
type Country struct {
	ID        uuid.UUID
	Code      string
	Name      string
	CreatedAt time.Time
}

// Center is a health center administering vaccinations and storing lots.
type Center struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	City      *string
	Phone     *string
	State     EntityState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vaccine is a vaccine product; lots are batches of a vaccine.
type Vaccine struct {
	ID           uuid.UUID
	Name         string
	Manufacturer *string
	DiseaseTag   *string
	DosesTotal   int
	CreatedAt    time.Time
}

// Staff is a clinician authorized to administer doses.
type Staff struct {
	ID        uuid.UUID
	FullName  string
	Role      string
	CenterID  *uuid.UUID
	CreatedAt time.Time
}

// User is a backoffice account; its id attributes audit records.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	CenterID     *uuid.UUID
	CreatedAt    time.Time
}

// Campaign is a vaccination campaign grouping center assignments.
type Campaign struct {
	ID        uuid.UUID
	Name      string
	VaccineID uuid.UUID
	StartsAt  time.Time
	EndsAt    *time.Time
	CreatedAt time.Time
}

// Supply is a non-vaccine consumable tracked per center.
type Supply struct {
	ID        uuid.UUID
	CenterID  uuid.UUID
	Name      string
	Quantity  int
	CreatedAt time.Time
}
