// Package lot implements the vaccine lot repository using PostgreSQL.
// It owns every mutation of available_quantity: the conditional decrement
// and increment below are the only statements in the codebase that touch
// the column, which is what keeps 0 <= available <= total under concurrency.
package lot

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/immunet/immunet-backend/internal/adapter/postgres"
	"github.com/immunet/immunet-backend/internal/domain"
)

// Repo provides vaccine lot persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lot repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const lotColumns = `id, vaccine_id, lot_number, total_quantity, available_quantity,
       manufacture_date, expiry_date, center_id, storage_conditions, created_at, updated_at`

const getByIDSQL = `
SELECT ` + lotColumns + `
FROM vaccine_lots
WHERE id = $1`

const createSQL = `
INSERT INTO vaccine_lots (id, vaccine_id, lot_number, total_quantity, available_quantity,
       manufacture_date, expiry_date, center_id, storage_conditions)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + lotColumns

// consumeDoseSQL decrements exactly one dose, and only while stock remains.
// Two concurrent callers racing for the last dose cannot both match the
// WHERE clause: row-level locking serializes them and the loser sees zero
// affected rows.
const consumeDoseSQL = `
UPDATE vaccine_lots
SET available_quantity = available_quantity - 1, updated_at = now()
WHERE id = $1 AND available_quantity > 0`

// replenishSQL is the explicit restock path. The guard keeps available
// from ever exceeding total.
const replenishSQL = `
UPDATE vaccine_lots
SET available_quantity = available_quantity + $2, updated_at = now()
WHERE id = $1 AND available_quantity + $2 <= total_quantity
RETURNING ` + lotColumns

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a lot by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VaccineLot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIDSQL, id)
	l, err := scanLot(row)
	if err != nil {
		return nil, postgres.MapError(err, "vaccine_lot", id)
	}
	return l, nil
}

// List returns lots matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter domain.LotFilter) ([]domain.VaccineLot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.Select("id", "vaccine_id", "lot_number", "total_quantity", "available_quantity",
		"manufacture_date", "expiry_date", "center_id", "storage_conditions", "created_at", "updated_at").
		From("vaccine_lots").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.CenterID != nil {
		builder = builder.Where(sq.Eq{"center_id": *filter.CenterID})
	}
	if filter.VaccineID != nil {
		builder = builder.Where(sq.Eq{"vaccine_id": *filter.VaccineID})
	}
	if filter.OnlyAvailable {
		builder = builder.Where(sq.Gt{"available_quantity": 0})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lots query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []domain.VaccineLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}

	return lots, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new lot and returns the persisted domain.VaccineLot.
func (r *Repo) Create(ctx context.Context, l *domain.VaccineLot) (*domain.VaccineLot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := l.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := q.QueryRow(ctx, createSQL,
		id, l.VaccineID, l.LotNumber, l.TotalQuantity, l.AvailableQuantity,
		l.ManufactureDate, l.ExpiryDate, l.CenterID, l.StorageConditions,
	)
	created, err := scanLot(row)
	if err != nil {
		return nil, postgres.MapError(err, "vaccine_lot", id)
	}
	return created, nil
}

// ConsumeDose atomically decrements available_quantity by one.
// Returns domain.ErrInsufficientStock when the conditional update matches no
// row: the lot is either exhausted or missing. Callers wanting to tell the
// two apart must existence-check the lot first.
func (r *Repo) ConsumeDose(ctx context.Context, lotID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, consumeDoseSQL, lotID)
	if err != nil {
		return postgres.MapError(err, "vaccine_lot", lotID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vaccine_lot %s: %w", lotID, domain.ErrInsufficientStock)
	}
	return nil
}

// Replenish atomically increments available_quantity by quantity, refusing
// to exceed total_quantity. Returns the updated lot.
func (r *Repo) Replenish(ctx context.Context, lotID uuid.UUID, quantity int) (*domain.VaccineLot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, replenishSQL, lotID, quantity)
	l, err := scanLot(row)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "vaccine_lot", lotID)
	}

	// Zero rows: either the lot is missing or the increment would overflow
	// total_quantity. Re-read to attribute the failure.
	if _, getErr := r.GetByID(ctx, lotID); getErr != nil {
		return nil, getErr
	}
	return nil, domain.NewValidationError("quantity", "replenishment would exceed total_quantity")
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanLot(row pgx.Row) (*domain.VaccineLot, error) {
	var l domain.VaccineLot
	err := row.Scan(
		&l.ID, &l.VaccineID, &l.LotNumber, &l.TotalQuantity, &l.AvailableQuantity,
		&l.ManufactureDate, &l.ExpiryDate, &l.CenterID, &l.StorageConditions,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
