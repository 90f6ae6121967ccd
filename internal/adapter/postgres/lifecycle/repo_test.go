package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/immunet/immunet-backend/internal/adapter/postgres/lifecycle"
	"github.com/immunet/immunet-backend/internal/adapter/postgres/testhelper"
	"github.com/immunet/immunet-backend/internal/domain"
)

func newRepo(t *testing.T) (*lifecycle.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return lifecycle.New(pool), pool
}

// ---------------------------------------------------------------------------
// HasDependents
// ---------------------------------------------------------------------------

func TestRepo_HasDependents_FreshCenter(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	centerID := testhelper.SeedCenter(t, pool)

	got, err := repo.HasDependents(context.Background(), domain.EntityTypeCenter, centerID)
	if err != nil {
		t.Fatalf("HasDependents: unexpected error: %v", err)
	}
	if got {
		t.Error("a fresh center must have no dependents")
	}
}

func TestRepo_HasDependents_CenterWithStaff(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	centerID := testhelper.SeedCenter(t, pool)
	testhelper.SeedStaff(t, pool, centerID)

	got, err := repo.HasDependents(context.Background(), domain.EntityTypeCenter, centerID)
	if err != nil {
		t.Fatalf("HasDependents: unexpected error: %v", err)
	}
	if !got {
		t.Error("a center with staff must report dependents")
	}
}

func TestRepo_HasDependents_LotWithHistory(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	countryID := testhelper.SeedCountry(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	vaccineID := testhelper.SeedVaccine(t, pool)
	childID := testhelper.SeedChild(t, pool, countryID)
	staffID := testhelper.SeedStaff(t, pool, centerID)
	lotID := testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 9)

	if _, err := pool.Exec(ctx,
		`INSERT INTO vaccination_events (id, child_id, lot_id, staff_id, administered_at, dose_number)
		 VALUES ($1, $2, $3, $4, now(), 1)`,
		uuid.New(), childID, lotID, staffID); err != nil {
		t.Fatalf("insert event: %v", err)
	}

	got, err := repo.HasDependents(ctx, domain.EntityTypeLot, lotID)
	if err != nil {
		t.Fatalf("HasDependents: unexpected error: %v", err)
	}
	if !got {
		t.Error("a lot with vaccination history must report dependents")
	}
}

func TestRepo_HasDependents_UnknownType(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.HasDependents(context.Background(), domain.EntityType("WIDGET"), uuid.New())
	if err == nil {
		t.Fatal("expected an error for an unknown entity type")
	}
}

// ---------------------------------------------------------------------------
// SupportsDeactivation
// ---------------------------------------------------------------------------

func TestRepo_SupportsDeactivation(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	tests := []struct {
		entityType domain.EntityType
		want       bool
	}{
		{domain.EntityTypeCenter, true},
		{domain.EntityTypeChild, true},
		{domain.EntityTypeCountry, false},
		{domain.EntityTypeVaccine, false},
		{domain.EntityTypeStaff, false},
	}

	for _, tt := range tests {
		got, err := repo.SupportsDeactivation(tt.entityType)
		if err != nil {
			t.Fatalf("SupportsDeactivation(%s): unexpected error: %v", tt.entityType, err)
		}
		if got != tt.want {
			t.Errorf("SupportsDeactivation(%s) = %v, want %v", tt.entityType, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Deactivate / HardDelete
// ---------------------------------------------------------------------------

func TestRepo_Deactivate_FlipsState(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	centerID := testhelper.SeedCenter(t, pool)

	if err := repo.Deactivate(ctx, domain.EntityTypeCenter, centerID); err != nil {
		t.Fatalf("Deactivate: unexpected error: %v", err)
	}

	var state string
	if err := pool.QueryRow(ctx,
		`SELECT state FROM health_centers WHERE id = $1`, centerID).Scan(&state); err != nil {
		t.Fatalf("read state: %v", err)
	}
	if state != "INACTIVE" {
		t.Errorf("state mismatch: got %s, want INACTIVE", state)
	}
}

func TestRepo_Deactivate_StatelessType(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	countryID := testhelper.SeedCountry(t, pool)

	err := repo.Deactivate(context.Background(), domain.EntityTypeCountry, countryID)
	if err == nil {
		t.Fatal("expected an error for a type without a state column")
	}
}

func TestRepo_HardDelete_RemovesRow(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)

	if err := repo.HardDelete(ctx, domain.EntityTypeVaccine, vaccineID); err != nil {
		t.Fatalf("HardDelete: unexpected error: %v", err)
	}

	var exists bool
	if err := pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vaccines WHERE id = $1)`, vaccineID).Scan(&exists); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if exists {
		t.Error("row must be gone after HardDelete")
	}
}

func TestRepo_HardDelete_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.HardDelete(context.Background(), domain.EntityTypeVaccine, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// The database constraint catches a dependent row that appeared after the
// probe; the violation must surface as ErrHasDependents.
func TestRepo_HardDelete_RestrictViolation(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	centerID := testhelper.SeedCenter(t, pool)
	vaccineID := testhelper.SeedVaccine(t, pool)
	testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 10)

	err := repo.HardDelete(ctx, domain.EntityTypeVaccine, vaccineID)
	if !errors.Is(err, domain.ErrHasDependents) {
		t.Fatalf("expected ErrHasDependents, got %v", err)
	}
}
