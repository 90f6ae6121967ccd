// Package audit implements the audit log repository using PostgreSQL.
// It provides append-only operations; audit rows are never updated.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/immunet/immunet-backend/internal/adapter/postgres"
	"github.com/immunet/immunet-backend/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const auditColumns = `id, user_id, entity_type, entity_id, action, changes, created_at`

const createSQL = `
INSERT INTO audit_log (id, user_id, entity_type, entity_id, action, changes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + auditColumns

const getByEntitySQL = `
SELECT ` + auditColumns + `
FROM audit_log
WHERE entity_type = $1 AND entity_id = $2
ORDER BY created_at DESC
LIMIT $3`

// Create inserts a new audit record and returns the persisted domain.AuditRecord.
func (r *Repo) Create(ctx context.Context, record domain.AuditRecord) (domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := record.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	changesJSON, err := json.Marshal(record.Changes)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("audit_record marshal changes: %w", err)
	}

	row := q.QueryRow(ctx, createSQL,
		id, record.UserID, record.EntityType, record.EntityID, record.Action, changesJSON,
	)

	created, err := scanRecord(row)
	if err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", id)
	}
	return created, nil
}

// Log creates an audit record without returning it. It is the sink the
// services call after their business transaction commits.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	_, err := r.Create(ctx, record)
	return err
}

// GetByEntity returns the change history for a specific entity, newest first,
// limited to `limit` records.
func (r *Repo) GetByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getByEntitySQL, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("get audit_records by entity: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit_record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get audit_records by entity: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.AuditRecord, error) {
	var (
		rec         domain.AuditRecord
		changesJSON []byte
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.EntityType, &rec.EntityID,
		&rec.Action, &changesJSON, &rec.CreatedAt)
	if err != nil {
		return domain.AuditRecord{}, err
	}

	if len(changesJSON) > 0 {
		changes := make(map[string]any)
		if err := json.Unmarshal(changesJSON, &changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record %s unmarshal changes: %w", rec.ID, err)
		}
		rec.Changes = changes
	}

	return rec, nil
}
