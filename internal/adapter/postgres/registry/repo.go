// Package registry implements persistence for the reference entities:
// countries, centers, vaccines, staff, users and campaigns. It also provides
// the generic existence probe the services use to turn bad foreign keys into
// field-attributed errors before a database constraint fires.
package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/immunet/immunet-backend/internal/adapter/postgres"
	"github.com/immunet/immunet-backend/internal/domain"
)

// Repo provides reference entity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new registry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Existence probe
// ---------------------------------------------------------------------------

// Exists reports whether a row of the given entity type exists. The table
// name comes from the static entity table, never from caller input.
func (r *Repo) Exists(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	et, ok := postgres.EntityTableFor(entityType)
	if !ok {
		return false, fmt.Errorf("unknown entity type %q", entityType)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	sql := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, et.Table)
	if err := q.QueryRow(ctx, sql, id).Scan(&exists); err != nil {
		return false, postgres.MapError(err, et.Table, id)
	}
	return exists, nil
}

// ---------------------------------------------------------------------------
// Countries
// ---------------------------------------------------------------------------

const countryColumns = `id, code, name, created_at`

// CreateCountry inserts a new country.
func (r *Repo) CreateCountry(ctx context.Context, c *domain.Country) (*domain.Country, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := orNewID(c.ID)
	row := q.QueryRow(ctx,
		`INSERT INTO countries (id, code, name) VALUES ($1, $2, $3) RETURNING `+countryColumns,
		id, c.Code, c.Name,
	)

	var created domain.Country
	if err := row.Scan(&created.ID, &created.Code, &created.Name, &created.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "country", id)
	}
	return &created, nil
}

// GetCountry returns a country by primary key.
func (r *Repo) GetCountry(ctx context.Context, id uuid.UUID) (*domain.Country, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+countryColumns+` FROM countries WHERE id = $1`, id)

	var c domain.Country
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "country", id)
	}
	return &c, nil
}

// ---------------------------------------------------------------------------
// Centers
// ---------------------------------------------------------------------------

const centerColumns = `id, name, address, city, phone, state, created_at, updated_at`

// CreateCenter inserts a new health center in the active state.
func (r *Repo) CreateCenter(ctx context.Context, c *domain.Center) (*domain.Center, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := orNewID(c.ID)
	row := q.QueryRow(ctx,
		`INSERT INTO health_centers (id, name, address, city, phone)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+centerColumns,
		id, c.Name, c.Address, c.City, c.Phone,
	)
	return scanCenter(row, id)
}

// GetCenter returns a center by primary key, whatever its state.
func (r *Repo) GetCenter(ctx context.Context, id uuid.UUID) (*domain.Center, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+centerColumns+` FROM health_centers WHERE id = $1`, id)
	return scanCenter(row, id)
}

func scanCenter(row pgx.Row, id uuid.UUID) (*domain.Center, error) {
	var c domain.Center
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Phone, &c.State, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "health_center", id)
	}
	return &c, nil
}

// ---------------------------------------------------------------------------
// Vaccines
// ---------------------------------------------------------------------------

const vaccineColumns = `id, name, manufacturer, disease_tag, doses_total, created_at`

// CreateVaccine inserts a new vaccine product.
func (r *Repo) CreateVaccine(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := orNewID(v.ID)
	row := q.QueryRow(ctx,
		`INSERT INTO vaccines (id, name, manufacturer, disease_tag, doses_total)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+vaccineColumns,
		id, v.Name, v.Manufacturer, v.DiseaseTag, v.DosesTotal,
	)

	var created domain.Vaccine
	err := row.Scan(&created.ID, &created.Name, &created.Manufacturer,
		&created.DiseaseTag, &created.DosesTotal, &created.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "vaccine", id)
	}
	return &created, nil
}

// GetVaccine returns a vaccine by primary key.
func (r *Repo) GetVaccine(ctx context.Context, id uuid.UUID) (*domain.Vaccine, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+vaccineColumns+` FROM vaccines WHERE id = $1`, id)

	var v domain.Vaccine
	err := row.Scan(&v.ID, &v.Name, &v.Manufacturer, &v.DiseaseTag, &v.DosesTotal, &v.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "vaccine", id)
	}
	return &v, nil
}

// ---------------------------------------------------------------------------
// Staff
// ---------------------------------------------------------------------------

const staffColumns = `id, full_name, role, center_id, created_at`

// CreateStaff inserts a new staff member.
func (r *Repo) CreateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := orNewID(s.ID)
	row := q.QueryRow(ctx,
		`INSERT INTO staff (id, full_name, role, center_id)
		 VALUES ($1, $2, $3, $4) RETURNING `+staffColumns,
		id, s.FullName, s.Role, s.CenterID,
	)

	var created domain.Staff
	err := row.Scan(&created.ID, &created.FullName, &created.Role, &created.CenterID, &created.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "staff", id)
	}
	return &created, nil
}

// GetStaff returns a staff member by primary key.
func (r *Repo) GetStaff(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id)

	var s domain.Staff
	err := row.Scan(&s.ID, &s.FullName, &s.Role, &s.CenterID, &s.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "staff", id)
	}
	return &s, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

const userColumns = `id, email, full_name, password_hash, role, center_id, created_at`

// CreateUser inserts a new backoffice user. The password is already hashed
// by the service layer.
func (r *Repo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := orNewID(u.ID)
	row := q.QueryRow(ctx,
		`INSERT INTO users (id, email, full_name, password_hash, role, center_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+userColumns,
		id, u.Email, u.FullName, u.PasswordHash, u.Role, u.CenterID,
	)
	return scanUser(row, id)
}

// GetUser returns a user by primary key.
func (r *Repo) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, id)
}

// GetUserByEmail returns a user by email.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row, uuid.Nil)
}

func scanUser(row pgx.Row, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.CenterID, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return &u, nil
}

// ---------------------------------------------------------------------------
// Campaigns
// ---------------------------------------------------------------------------

const campaignColumns = `id, name, vaccine_id, starts_at, ends_at, created_at`

// CreateCampaign inserts a new campaign.
func (r *Repo) CreateCampaign(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	id := orNewID(c.ID)
	row := q.QueryRow(ctx,
		`INSERT INTO campaigns (id, name, vaccine_id, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+campaignColumns,
		id, c.Name, c.VaccineID, c.StartsAt, c.EndsAt,
	)

	var created domain.Campaign
	err := row.Scan(&created.ID, &created.Name, &created.VaccineID,
		&created.StartsAt, &created.EndsAt, &created.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "campaign", id)
	}
	return &created, nil
}

// GetCampaign returns a campaign by primary key.
func (r *Repo) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)

	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.VaccineID, &c.StartsAt, &c.EndsAt, &c.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "campaign", id)
	}
	return &c, nil
}

func orNewID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
