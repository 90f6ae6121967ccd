package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is an append-only log entry for one mutation. Records are
// written best-effort after the business transaction commits; a failed audit
// write never rolls the mutation back.
type AuditRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	EntityType EntityType
	EntityID   *uuid.UUID
	Action     AuditAction
	Changes    map[string]any
	CreatedAt  time.Time
}
