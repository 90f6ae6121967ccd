// Package lifecycle implements the storage primitives behind the
// dependency-aware delete/deactivate policy. One repository serves every
// entity type: the per-type differences live entirely in the static schema
// tables, not in code.
package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/immunet/immunet-backend/internal/adapter/postgres"
	"github.com/immunet/immunet-backend/internal/domain"
)

// Repo provides dependency probes and generic delete/deactivate statements.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lifecycle repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// HasDependents probes every table holding a foreign key to the entity type
// and reports whether any row references the given id. The probe is a single
// round trip: one SELECT ORing an EXISTS per edge.
func (r *Repo) HasDependents(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	deps, ok := postgres.DependenciesFor(entityType)
	if !ok {
		return false, fmt.Errorf("unknown entity type %q", entityType)
	}
	if len(deps) == 0 {
		return false, nil
	}

	// Table and column names come from the static dependency index only.
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = fmt.Sprintf("EXISTS(SELECT 1 FROM %s WHERE %s = $1)", d.Table, d.Column)
	}
	sql := "SELECT " + strings.Join(parts, " OR ")

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, sql, id).Scan(&exists); err != nil {
		return false, postgres.MapError(err, string(entityType), id)
	}
	return exists, nil
}

// SupportsDeactivation reports whether the entity type carries a state column.
func (r *Repo) SupportsDeactivation(entityType domain.EntityType) (bool, error) {
	et, ok := postgres.EntityTableFor(entityType)
	if !ok {
		return false, fmt.Errorf("unknown entity type %q", entityType)
	}
	return et.HasState, nil
}

// Deactivate flips the entity's state to INACTIVE. The row stays queryable.
func (r *Repo) Deactivate(ctx context.Context, entityType domain.EntityType, id uuid.UUID) error {
	et, ok := postgres.EntityTableFor(entityType)
	if !ok {
		return fmt.Errorf("unknown entity type %q", entityType)
	}
	if !et.HasState {
		return fmt.Errorf("entity type %q has no state column", entityType)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql := fmt.Sprintf(`UPDATE %s SET state = $2, updated_at = now() WHERE id = $1`, et.Table)
	tag, err := q.Exec(ctx, sql, id, domain.EntityStateInactive)
	if err != nil {
		return postgres.MapError(err, et.Table, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", et.Table, id, domain.ErrNotFound)
	}
	return nil
}

// HardDelete removes the entity row. The database's RESTRICT constraints are
// the last line of defense if a dependent row appeared between the probe and
// the delete; MapError turns that violation into domain.ErrHasDependents.
func (r *Repo) HardDelete(ctx context.Context, entityType domain.EntityType, id uuid.UUID) error {
	et, ok := postgres.EntityTableFor(entityType)
	if !ok {
		return fmt.Errorf("unknown entity type %q", entityType)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, et.Table)
	tag, err := q.Exec(ctx, sql, id)
	if err != nil {
		return postgres.MapError(err, et.Table, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", et.Table, id, domain.ErrNotFound)
	}
	return nil
}
