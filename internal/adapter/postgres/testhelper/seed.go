package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed helpers insert prerequisite rows directly, bypassing the repositories,
// so a repo test only exercises the code path it is about.

func seedExec(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, sql, args...); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// SeedCountry inserts a country with a random two-letter code and returns its id.
func SeedCountry(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	for {
		id := uuid.New()
		code := fmt.Sprintf("%c%c", 'A'+id[0]%26, 'A'+id[1]%26)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		tag, err := pool.Exec(ctx,
			`INSERT INTO countries (id, code, name) VALUES ($1, $2, $3)
			 ON CONFLICT (code) DO NOTHING`,
			id, code, "Country "+id.String()[:8])
		cancel()
		if err != nil {
			t.Fatalf("seed country: %v", err)
		}
		if tag.RowsAffected() == 1 {
			return id
		}
		// Code collision with a concurrent test; retry with a fresh one.
	}
}

// SeedCenter inserts an active health center and returns its id.
func SeedCenter(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	seedExec(t, pool,
		`INSERT INTO health_centers (id, name) VALUES ($1, $2)`,
		id, "Center "+id.String()[:8])
	return id
}

// SeedVaccine inserts a vaccine product and returns its id.
func SeedVaccine(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	seedExec(t, pool,
		`INSERT INTO vaccines (id, name, doses_total) VALUES ($1, $2, 3)`,
		id, "Vaccine "+id.String()[:8])
	return id
}

// SeedStaff inserts a staff member at the given center and returns its id.
func SeedStaff(t *testing.T, pool *pgxpool.Pool, centerID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	seedExec(t, pool,
		`INSERT INTO staff (id, full_name, role, center_id) VALUES ($1, $2, 'nurse', $3)`,
		id, "Staff "+id.String()[:8], centerID)
	return id
}

// SeedUser inserts a backoffice account and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	seedExec(t, pool,
		`INSERT INTO users (id, email, full_name, password_hash, role)
		 VALUES ($1, $2, $3, 'x', 'admin')`,
		id, id.String()[:8]+"@example.org", "User "+id.String()[:8])
	return id
}

// SeedChild inserts an active child and returns its id.
func SeedChild(t *testing.T, pool *pgxpool.Pool, countryID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	seedExec(t, pool,
		`INSERT INTO children (id, full_name, national_id, nationality_id,
		        birth_country_id, birth_date, gender)
		 VALUES ($1, $2, $3, $4, $4, '2024-03-01', 'FEMALE')`,
		id, "Child "+id.String()[:8], id.String(), countryID)
	return id
}

// SeedLot inserts a vaccine lot with the given quantities and returns its id.
func SeedLot(t *testing.T, pool *pgxpool.Pool, vaccineID, centerID uuid.UUID, total, available int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	seedExec(t, pool,
		`INSERT INTO vaccine_lots (id, vaccine_id, lot_number, total_quantity,
		        available_quantity, manufacture_date, expiry_date, center_id)
		 VALUES ($1, $2, $3, $4, $5, '2025-01-01', '2027-01-01', $6)`,
		id, vaccineID, "LOT-"+id.String()[:8], total, available, centerID)
	return id
}
