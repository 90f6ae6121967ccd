// Package child implements the child and guardian repositories using
// PostgreSQL. Guardian rows are always written as a full set for one child,
// under the service's transaction, so the per-slot uniqueness constraint can
// never half-apply.
package child

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

// Repo provides child and guardian persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new child repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const childColumns = `id, full_name, national_id, nationality_id, birth_country_id,
       birth_date, gender, address_line, city, health_center_id, state, created_at, updated_at`

const getChildSQL = `
SELECT ` + childColumns + `
FROM children
WHERE id = $1`

const createChildSQL = `
INSERT INTO children (id, full_name, national_id, nationality_id, birth_country_id,
       birth_date, gender, address_line, city, health_center_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + childColumns

const updateChildSQL = `
UPDATE children
SET full_name = $2, national_id = $3, nationality_id = $4, birth_country_id = $5,
    birth_date = $6, gender = $7, address_line = $8, city = $9,
    health_center_id = $10, updated_at = now()
WHERE id = $1
RETURNING ` + childColumns

const guardianColumns = `id, child_id, full_name, relationship, relationship_slot,
       nationality_id, phone, email, created_at`

const getGuardiansSQL = `
SELECT ` + guardianColumns + `
FROM guardians
WHERE child_id = $1
ORDER BY relationship_slot`

const insertGuardianSQL = `
INSERT INTO guardians (id, child_id, full_name, relationship, relationship_slot,
       nationality_id, phone, email)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + guardianColumns

const deleteGuardiansSQL = `DELETE FROM guardians WHERE child_id = $1`

// ---------------------------------------------------------------------------
// Child operations
// ---------------------------------------------------------------------------

// GetByID returns a child by primary key, without guardians.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Child, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getChildSQL, id)
	c, err := scanChild(row)
	if err != nil {
		return nil, postgres.MapError(err, "child", id)
	}
	return c, nil
}

// Create inserts a new child in the active state.
func (r *Repo) Create(ctx context.Context, c *domain.Child) (*domain.Child, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := q.QueryRow(ctx, createChildSQL,
		id, c.FullName, c.NationalID, c.NationalityID, c.BirthCountryID,
		c.BirthDate, c.Gender, c.AddressLine, c.City, c.HealthCenterID,
	)
	created, err := scanChild(row)
	if err != nil {
		return nil, postgres.MapError(err, "child", id)
	}
	return created, nil
}

// Update rewrites a child's mutable fields.
func (r *Repo) Update(ctx context.Context, c *domain.Child) (*domain.Child, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, updateChildSQL,
		c.ID, c.FullName, c.NationalID, c.NationalityID, c.BirthCountryID,
		c.BirthDate, c.Gender, c.AddressLine, c.City, c.HealthCenterID,
	)
	updated, err := scanChild(row)
	if err != nil {
		return nil, postgres.MapError(err, "child", c.ID)
	}
	return updated, nil
}

// Find returns children matching the filter.
func (r *Repo) Find(ctx context.Context, filter domain.ChildFilter) ([]domain.Child, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.Select("id", "full_name", "national_id", "nationality_id", "birth_country_id",
		"birth_date", "gender", "address_line", "city", "health_center_id",
		"state", "created_at", "updated_at").
		From("children").
		OrderBy("full_name").
		PlaceholderFormat(sq.Dollar)

	if filter.NationalID != nil {
		builder = builder.Where(sq.Eq{"national_id": *filter.NationalID})
	}
	if filter.HealthCenterID != nil {
		builder = builder.Where(sq.Eq{"health_center_id": *filter.HealthCenterID})
	}
	if filter.State != nil {
		builder = builder.Where(sq.Eq{"state": *filter.State})
	}
	if filter.NameLike != nil {
		builder = builder.Where(sq.ILike{"full_name": "%" + *filter.NameLike + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find children query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	defer rows.Close()

	var children []domain.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}

	return children, nil
}

// ---------------------------------------------------------------------------
// Guardian operations
// ---------------------------------------------------------------------------

// GetGuardians returns a child's guardians ordered by slot.
func (r *Repo) GetGuardians(ctx context.Context, childID uuid.UUID) ([]domain.Guardian, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getGuardiansSQL, childID)
	if err != nil {
		return nil, fmt.Errorf("get guardians: %w", err)
	}
	defer rows.Close()

	var guardians []domain.Guardian
	for rows.Next() {
		g, err := scanGuardian(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guardian: %w", err)
		}
		guardians = append(guardians, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get guardians: %w", err)
	}

	return guardians, nil
}

// ReplaceGuardians deletes a child's guardian set and inserts the new one.
// Meant to run inside the service's transaction so the swap is atomic. The
// UNIQUE (child_id, relationship_slot) constraint backs up the service-level
// cardinality check.
func (r *Repo) ReplaceGuardians(ctx context.Context, childID uuid.UUID, guardians []domain.Guardian) ([]domain.Guardian, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteGuardiansSQL, childID); err != nil {
		return nil, postgres.MapError(err, "guardian", childID)
	}

	inserted := make([]domain.Guardian, 0, len(guardians))
	for _, g := range guardians {
		id := g.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		row := q.QueryRow(ctx, insertGuardianSQL,
			id, childID, g.FullName, g.Relationship, g.Slot,
			g.NationalityID, g.Phone, g.Email,
		)
		created, err := scanGuardian(row)
		if err != nil {
			return nil, postgres.MapError(err, "guardian", id)
		}
		inserted = append(inserted, *created)
	}

	return inserted, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanChild(row pgx.Row) (*domain.Child, error) {
	var c domain.Child
	err := row.Scan(
		&c.ID, &c.FullName, &c.NationalID, &c.NationalityID, &c.BirthCountryID,
		&c.BirthDate, &c.Gender, &c.AddressLine, &c.City, &c.HealthCenterID,
		&c.State, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanGuardian(row pgx.Row) (*domain.Guardian, error) {
	var g domain.Guardian
	err := row.Scan(
		&g.ID, &g.ChildID, &g.FullName, &g.Relationship, &g.Slot,
		&g.NationalityID, &g.Phone, &g.Email, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
