package child_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/immunet/immunet-backend/internal/adapter/postgres/child"
	"github.com/immunet/immunet-backend/internal/adapter/postgres/testhelper"
	"github.com/immunet/immunet-backend/internal/domain"
)

func newRepo(t *testing.T) (*child.Repo, *pgxpool.Pool, uuid.UUID) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	countryID := testhelper.SeedCountry(t, pool)
	return child.New(pool), pool, countryID
}

func newChild(countryID uuid.UUID) *domain.Child {
	return &domain.Child{
		FullName:       "Amina Haddad",
		NationalID:     uuid.New().String(),
		NationalityID:  countryID,
		BirthCountryID: countryID,
		BirthDate:      time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Gender:         domain.GenderFemale,
	}
}

func newGuardian(childID, countryID uuid.UUID, slot domain.RelationshipSlot) domain.Guardian {
	return domain.Guardian{
		ChildID:       childID,
		FullName:      "Guardian " + uuid.New().String()[:8],
		Relationship:  domain.RelationshipMother,
		Slot:          slot,
		NationalityID: countryID,
	}
}

// ---------------------------------------------------------------------------
// Create + GetByID + Update
// ---------------------------------------------------------------------------

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, _, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.State != domain.EntityStateActive {
		t.Errorf("expected new child to be ACTIVE, got %s", created.State)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.FullName != "Amina Haddad" {
		t.Errorf("FullName mismatch: got %s", got.FullName)
	}
}

func TestRepo_Update_FullRecord(t *testing.T) {
	t.Parallel()
	repo, _, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	created.FullName = "Amina H. Haddad"
	city := "Aleppo"
	created.City = &city

	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if updated.FullName != "Amina H. Haddad" {
		t.Errorf("FullName mismatch: got %s", updated.FullName)
	}
	if updated.City == nil || *updated.City != "Aleppo" {
		t.Errorf("City mismatch: got %v", updated.City)
	}
	if !updated.UpdatedAt.After(created.CreatedAt) {
		t.Error("expected updated_at to move forward")
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Guardians
// ---------------------------------------------------------------------------

func TestRepo_ReplaceGuardians_InstallsSet(t *testing.T) {
	t.Parallel()
	repo, _, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	set := []domain.Guardian{
		newGuardian(created.ID, countryID, domain.SlotParent1),
		newGuardian(created.ID, countryID, domain.SlotLegalGuardian),
	}

	installed, err := repo.ReplaceGuardians(ctx, created.ID, set)
	if err != nil {
		t.Fatalf("ReplaceGuardians: unexpected error: %v", err)
	}
	if len(installed) != 2 {
		t.Fatalf("expected 2 guardians, got %d", len(installed))
	}

	got, err := repo.GetGuardians(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetGuardians: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 persisted guardians, got %d", len(got))
	}
}

func TestRepo_ReplaceGuardians_ReplacesWholesale(t *testing.T) {
	t.Parallel()
	repo, _, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	first := []domain.Guardian{newGuardian(created.ID, countryID, domain.SlotParent1)}
	if _, err := repo.ReplaceGuardians(ctx, created.ID, first); err != nil {
		t.Fatalf("ReplaceGuardians[1]: unexpected error: %v", err)
	}

	second := []domain.Guardian{newGuardian(created.ID, countryID, domain.SlotParent2)}
	if _, err := repo.ReplaceGuardians(ctx, created.ID, second); err != nil {
		t.Fatalf("ReplaceGuardians[2]: unexpected error: %v", err)
	}

	got, err := repo.GetGuardians(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetGuardians: unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the old set to be gone, got %d guardians", len(got))
	}
	if got[0].Slot != domain.SlotParent2 {
		t.Errorf("Slot mismatch: got %s, want %s", got[0].Slot, domain.SlotParent2)
	}
}

func TestRepo_ReplaceGuardians_EmptySetClears(t *testing.T) {
	t.Parallel()
	repo, _, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	set := []domain.Guardian{newGuardian(created.ID, countryID, domain.SlotParent1)}
	if _, err := repo.ReplaceGuardians(ctx, created.ID, set); err != nil {
		t.Fatalf("ReplaceGuardians[1]: unexpected error: %v", err)
	}

	if _, err := repo.ReplaceGuardians(ctx, created.ID, nil); err != nil {
		t.Fatalf("ReplaceGuardians[2]: unexpected error: %v", err)
	}

	got, err := repo.GetGuardians(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetGuardians: unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected an empty guardian set, got %d", len(got))
	}
}

// The UNIQUE (child_id, relationship_slot) constraint is the storage-level
// backstop behind the slot validator.
func TestRepo_ReplaceGuardians_DuplicateSlotRejected(t *testing.T) {
	t.Parallel()
	repo, _, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	set := []domain.Guardian{
		newGuardian(created.ID, countryID, domain.SlotParent1),
		newGuardian(created.ID, countryID, domain.SlotParent1),
	}

	_, err = repo.ReplaceGuardians(ctx, created.ID, set)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists from the unique constraint, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Find
// ---------------------------------------------------------------------------

func TestRepo_Find_ByNationalID(t *testing.T) {
	t.Parallel()
	repo, _, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	found, err := repo.Find(ctx, domain.ChildFilter{NationalID: &created.NationalID})
	if err != nil {
		t.Fatalf("Find: unexpected error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 child, got %d", len(found))
	}
	if found[0].ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", found[0].ID, created.ID)
	}
}

func TestRepo_Find_ByState(t *testing.T) {
	t.Parallel()
	repo, pool, countryID := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newChild(countryID))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`UPDATE children SET state = 'INACTIVE' WHERE id = $1`, created.ID); err != nil {
		t.Fatalf("deactivate child: %v", err)
	}

	inactive := domain.EntityStateInactive
	found, err := repo.Find(ctx, domain.ChildFilter{NationalID: &created.NationalID, State: &inactive})
	if err != nil {
		t.Fatalf("Find: unexpected error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 inactive child, got %d", len(found))
	}

	active := domain.EntityStateActive
	found, err = repo.Find(ctx, domain.ChildFilter{NationalID: &created.NationalID, State: &active})
	if err != nil {
		t.Fatalf("Find: unexpected error: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("expected no active match, got %d", len(found))
	}
}
