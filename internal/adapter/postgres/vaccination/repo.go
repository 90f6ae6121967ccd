// Package vaccination implements the vaccination event repository using
// PostgreSQL. Event rows are append-and-delete only: history records are
// never updated in place.
package vaccination

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/immunet/immunet-backend/internal/adapter/postgres"
	"github.com/immunet/immunet-backend/internal/domain"
)

// Repo provides vaccination event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vaccination event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const eventColumns = `id, child_id, lot_id, staff_id, center_id, administered_at,
       dose_number, injection_site, notes, created_at`

const getByIDSQL = `
SELECT ` + eventColumns + `
FROM vaccination_events
WHERE id = $1`

const createSQL = `
INSERT INTO vaccination_events (id, child_id, lot_id, staff_id, center_id,
       administered_at, dose_number, injection_site, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + eventColumns

const deleteSQL = `DELETE FROM vaccination_events WHERE id = $1`

const countByLotSQL = `SELECT count(*) FROM vaccination_events WHERE lot_id = $1`

// GetByID returns an event by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VaccinationEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIDSQL, id)
	e, err := scanEvent(row)
	if err != nil {
		return nil, postgres.MapError(err, "vaccination_event", id)
	}
	return e, nil
}

// List returns history records matching the filter, most recent first.
func (r *Repo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.VaccinationEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.Select("id", "child_id", "lot_id", "staff_id", "center_id",
		"administered_at", "dose_number", "injection_site", "notes", "created_at").
		From("vaccination_events").
		OrderBy("administered_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.ChildID != nil {
		builder = builder.Where(sq.Eq{"child_id": *filter.ChildID})
	}
	if filter.LotID != nil {
		builder = builder.Where(sq.Eq{"lot_id": *filter.LotID})
	}
	if filter.StaffID != nil {
		builder = builder.Where(sq.Eq{"staff_id": *filter.StaffID})
	}
	if filter.CenterID != nil {
		builder = builder.Where(sq.Eq{"center_id": *filter.CenterID})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"administered_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"administered_at": *filter.To})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list vaccination events: %w", err)
	}
	defer rows.Close()

	var events []domain.VaccinationEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vaccination event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vaccination events: %w", err)
	}

	return events, nil
}

// CountByLot returns the number of events referencing the given lot.
func (r *Repo) CountByLot(ctx context.Context, lotID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countByLotSQL, lotID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events by lot: %w", err)
	}
	return count, nil
}

// Create inserts a new event and returns the persisted record.
func (r *Repo) Create(ctx context.Context, e *domain.VaccinationEvent) (*domain.VaccinationEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := q.QueryRow(ctx, createSQL,
		id, e.ChildID, e.LotID, e.StaffID, e.CenterID,
		e.AdministeredAt, e.DoseNumber, e.InjectionSite, e.Notes,
	)
	created, err := scanEvent(row)
	if err != nil {
		return nil, postgres.MapError(err, "vaccination_event", id)
	}
	return created, nil
}

// Delete removes an event row. The lot's stock is deliberately untouched:
// event deletion is a data correction, not a dose reversal.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "vaccination_event", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vaccination_event %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanEvent(row pgx.Row) (*domain.VaccinationEvent, error) {
	var e domain.VaccinationEvent
	err := row.Scan(
		&e.ID, &e.ChildID, &e.LotID, &e.StaffID, &e.CenterID,
		&e.AdministeredAt, &e.DoseNumber, &e.InjectionSite, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
