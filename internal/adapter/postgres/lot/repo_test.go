package lot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/immunet/immunet-backend/internal/adapter/postgres/lot"
	"github.com/immunet/immunet-backend/internal/adapter/postgres/testhelper"
	"github.com/immunet/immunet-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*lot.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return lot.New(pool), pool
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// ---------------------------------------------------------------------------
// Create + GetByID
// ---------------------------------------------------------------------------

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)

	in := &domain.VaccineLot{
		VaccineID:         vaccineID,
		LotNumber:         "LN-" + uuid.New().String()[:8],
		TotalQuantity:     50,
		AvailableQuantity: 50,
		ManufactureDate:   mustDate(t, "2025-01-10"),
		ExpiryDate:        mustDate(t, "2027-01-10"),
		CenterID:          centerID,
	}

	created, err := repo.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("Create: expected generated id")
	}
	if created.AvailableQuantity != 50 {
		t.Errorf("AvailableQuantity mismatch: got %d, want 50", created.AvailableQuantity)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.LotNumber != in.LotNumber {
		t.Errorf("LotNumber mismatch: got %s, want %s", got.LotNumber, in.LotNumber)
	}
}

func TestRepo_Create_DuplicateLotNumber(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)

	in := &domain.VaccineLot{
		VaccineID:         vaccineID,
		LotNumber:         "DUP-" + uuid.New().String()[:8],
		TotalQuantity:     10,
		AvailableQuantity: 10,
		ManufactureDate:   mustDate(t, "2025-01-10"),
		ExpiryDate:        mustDate(t, "2027-01-10"),
		CenterID:          centerID,
	}

	if _, err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create[1]: unexpected error: %v", err)
	}

	in.ID = uuid.Nil
	_, err := repo.Create(ctx, in)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ConsumeDose
// ---------------------------------------------------------------------------

func TestRepo_ConsumeDose_Decrements(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	lotID := testhelper.SeedLot(t, pool, vaccineID, centerID, 5, 5)

	if err := repo.ConsumeDose(ctx, lotID); err != nil {
		t.Fatalf("ConsumeDose: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, lotID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.AvailableQuantity != 4 {
		t.Errorf("AvailableQuantity mismatch: got %d, want 4", got.AvailableQuantity)
	}
	if got.TotalQuantity != 5 {
		t.Errorf("TotalQuantity must not change: got %d, want 5", got.TotalQuantity)
	}
}

func TestRepo_ConsumeDose_Exhausted(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	lotID := testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 0)

	err := repo.ConsumeDose(ctx, lotID)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	got, getErr := repo.GetByID(ctx, lotID)
	if getErr != nil {
		t.Fatalf("GetByID: unexpected error: %v", getErr)
	}
	if got.AvailableQuantity != 0 {
		t.Errorf("AvailableQuantity must stay 0, got %d", got.AvailableQuantity)
	}
}

func TestRepo_ConsumeDose_MissingLot(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.ConsumeDose(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock for a missing lot, got %v", err)
	}
}

// TestRepo_ConsumeDose_LastDoseRace pits two concurrent callers against a lot
// holding a single dose. Exactly one may win.
func TestRepo_ConsumeDose_LastDoseRace(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	lotID := testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 1)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.ConsumeDose(ctx, lotID)
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrInsufficientStock):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner and one loser, got %d wins %d losses", wins, losses)
	}

	got, err := repo.GetByID(ctx, lotID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.AvailableQuantity != 0 {
		t.Errorf("AvailableQuantity mismatch: got %d, want 0", got.AvailableQuantity)
	}
}

// TestRepo_ConsumeDose_NeverOversells hammers a k-dose lot with more callers
// than doses; exactly k must succeed and the counter must end at zero.
func TestRepo_ConsumeDose_NeverOversells(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	const doses = 7
	const callers = 20

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	lotID := testhelper.SeedLot(t, pool, vaccineID, centerID, doses, doses)

	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.ConsumeDose(ctx, lotID)
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
		} else if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != doses {
		t.Fatalf("expected exactly %d successful decrements, got %d", doses, wins)
	}

	got, err := repo.GetByID(ctx, lotID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.AvailableQuantity != 0 {
		t.Errorf("AvailableQuantity mismatch: got %d, want 0", got.AvailableQuantity)
	}
}

// ---------------------------------------------------------------------------
// Replenish
// ---------------------------------------------------------------------------

func TestRepo_Replenish_Increments(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	lotID := testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 2)

	got, err := repo.Replenish(ctx, lotID, 5)
	if err != nil {
		t.Fatalf("Replenish: unexpected error: %v", err)
	}
	if got.AvailableQuantity != 7 {
		t.Errorf("AvailableQuantity mismatch: got %d, want 7", got.AvailableQuantity)
	}
}

func TestRepo_Replenish_RefusesOverflow(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	lotID := testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 8)

	_, err := repo.Replenish(ctx, lotID, 5)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, getErr := repo.GetByID(ctx, lotID)
	if getErr != nil {
		t.Fatalf("GetByID: unexpected error: %v", getErr)
	}
	if got.AvailableQuantity != 8 {
		t.Errorf("AvailableQuantity must be unchanged: got %d, want 8", got.AvailableQuantity)
	}
}

func TestRepo_Replenish_MissingLot(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Replenish(context.Background(), uuid.New(), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestRepo_List_OnlyAvailable(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerID := testhelper.SeedCenter(t, pool)
	testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 10)
	testhelper.SeedLot(t, pool, vaccineID, centerID, 10, 0)

	lots, err := repo.List(ctx, domain.LotFilter{CenterID: &centerID, OnlyAvailable: true})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(lots) != 1 {
		t.Fatalf("expected 1 available lot, got %d", len(lots))
	}
	if lots[0].AvailableQuantity == 0 {
		t.Error("exhausted lot leaked into OnlyAvailable listing")
	}
}

func TestRepo_List_ByCenter(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	vaccineID := testhelper.SeedVaccine(t, pool)
	centerA := testhelper.SeedCenter(t, pool)
	centerB := testhelper.SeedCenter(t, pool)
	testhelper.SeedLot(t, pool, vaccineID, centerA, 10, 10)
	testhelper.SeedLot(t, pool, vaccineID, centerB, 10, 10)

	lots, err := repo.List(ctx, domain.LotFilter{CenterID: &centerA})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(lots) != 1 {
		t.Fatalf("expected 1 lot for center, got %d", len(lots))
	}
	if lots[0].CenterID != centerA {
		t.Errorf("CenterID mismatch: got %s, want %s", lots[0].CenterID, centerA)
	}
}
