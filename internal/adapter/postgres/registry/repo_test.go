package registry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/immunet/immunet-backend/internal/adapter/postgres/registry"
	"github.com/immunet/immunet-backend/internal/adapter/postgres/testhelper"
	"github.com/immunet/immunet-backend/internal/domain"
)

func newRepo(t *testing.T) (*registry.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return registry.New(pool), pool
}

// ---------------------------------------------------------------------------
// Exists
// ---------------------------------------------------------------------------

func TestRepo_Exists(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	centerID := testhelper.SeedCenter(t, pool)

	got, err := repo.Exists(ctx, domain.EntityTypeCenter, centerID)
	if err != nil {
		t.Fatalf("Exists: unexpected error: %v", err)
	}
	if !got {
		t.Error("seeded center must exist")
	}

	got, err = repo.Exists(ctx, domain.EntityTypeCenter, uuid.New())
	if err != nil {
		t.Fatalf("Exists: unexpected error: %v", err)
	}
	if got {
		t.Error("random id must not exist")
	}
}

func TestRepo_Exists_UnknownType(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Exists(context.Background(), domain.EntityType("WIDGET"), uuid.New())
	if err == nil {
		t.Fatal("expected an error for an unknown entity type")
	}
}

// ---------------------------------------------------------------------------
// Countries
// ---------------------------------------------------------------------------

func TestRepo_CreateCountry_Duplicate(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	code := "Z" + uuid.New().String()[:1]
	if _, err := repo.CreateCountry(ctx, &domain.Country{Code: code, Name: "First"}); err != nil {
		t.Fatalf("CreateCountry[1]: unexpected error: %v", err)
	}

	_, err := repo.CreateCountry(ctx, &domain.Country{Code: code, Name: "Second"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestRepo_CreateUser_AndGetByEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := uuid.New().String()[:8] + "@clinic.example"
	created, err := repo.CreateUser(ctx, &domain.User{
		Email:        email,
		FullName:     "Nadia Osman",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         "admin",
	})
	if err != nil {
		t.Fatalf("CreateUser: unexpected error: %v", err)
	}

	got, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetUserByEmail: unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, created.ID)
	}
	if got.PasswordHash != created.PasswordHash {
		t.Error("PasswordHash must round-trip")
	}
}

func TestRepo_GetUserByEmail_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@clinic.example")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Campaigns
// ---------------------------------------------------------------------------

func TestRepo_CreateCampaign_AndGet(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	ends := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	created, err := repo.CreateCampaign(ctx, &domain.Campaign{
		Name:      "Winter catch-up",
		VaccineID: vaccineID,
		StartsAt:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:    &ends,
	})
	if err != nil {
		t.Fatalf("CreateCampaign: unexpected error: %v", err)
	}

	got, err := repo.GetCampaign(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCampaign: unexpected error: %v", err)
	}
	if got.Name != "Winter catch-up" {
		t.Errorf("Name mismatch: got %s", got.Name)
	}
	if got.EndsAt == nil || !got.EndsAt.Equal(ends) {
		t.Errorf("EndsAt mismatch: got %v", got.EndsAt)
	}
}

func TestRepo_CreateCampaign_DanglingVaccine(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.CreateCampaign(context.Background(), &domain.Campaign{
		Name:      "Ghost campaign",
		VaccineID: uuid.New(),
		StartsAt:  time.Now(),
	})
	if err == nil {
		t.Fatal("expected a foreign key failure for a dangling vaccine id")
	}
}
