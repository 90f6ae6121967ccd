package registry

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immunet/immunet-backend/internal/domain"
	"github.com/immunet/immunet-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockRegistryRepo struct {
	ExistsFunc         func(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error)
	CreateCountryFunc  func(ctx context.Context, c *domain.Country) (*domain.Country, error)
	GetCountryFunc     func(ctx context.Context, id uuid.UUID) (*domain.Country, error)
	CreateCenterFunc   func(ctx context.Context, c *domain.Center) (*domain.Center, error)
	GetCenterFunc      func(ctx context.Context, id uuid.UUID) (*domain.Center, error)
	CreateVaccineFunc  func(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error)
	GetVaccineFunc     func(ctx context.Context, id uuid.UUID) (*domain.Vaccine, error)
	CreateStaffFunc    func(ctx context.Context, s *domain.Staff) (*domain.Staff, error)
	GetStaffFunc       func(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	CreateUserFunc     func(ctx context.Context, u *domain.User) (*domain.User, error)
	GetUserFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	CreateCampaignFunc func(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	GetCampaignFunc    func(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
}

func (m *mockRegistryRepo) Exists(ctx context.Context, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, entityType, id)
	}
	return true, nil
}

func (m *mockRegistryRepo) CreateCountry(ctx context.Context, c *domain.Country) (*domain.Country, error) {
	if m.CreateCountryFunc != nil {
		return m.CreateCountryFunc(ctx, c)
	}
	out := *c
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockRegistryRepo) GetCountry(ctx context.Context, id uuid.UUID) (*domain.Country, error) {
	if m.GetCountryFunc != nil {
		return m.GetCountryFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryRepo) CreateCenter(ctx context.Context, c *domain.Center) (*domain.Center, error) {
	if m.CreateCenterFunc != nil {
		return m.CreateCenterFunc(ctx, c)
	}
	out := *c
	out.ID = uuid.New()
	out.State = domain.EntityStateActive
	return &out, nil
}

func (m *mockRegistryRepo) GetCenter(ctx context.Context, id uuid.UUID) (*domain.Center, error) {
	if m.GetCenterFunc != nil {
		return m.GetCenterFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryRepo) CreateVaccine(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error) {
	if m.CreateVaccineFunc != nil {
		return m.CreateVaccineFunc(ctx, v)
	}
	out := *v
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockRegistryRepo) GetVaccine(ctx context.Context, id uuid.UUID) (*domain.Vaccine, error) {
	if m.GetVaccineFunc != nil {
		return m.GetVaccineFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryRepo) CreateStaff(ctx context.Context, s *domain.Staff) (*domain.Staff, error) {
	if m.CreateStaffFunc != nil {
		return m.CreateStaffFunc(ctx, s)
	}
	out := *s
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockRegistryRepo) GetStaff(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	if m.GetStaffFunc != nil {
		return m.GetStaffFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryRepo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, u)
	}
	out := *u
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockRegistryRepo) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistryRepo) CreateCampaign(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	if m.CreateCampaignFunc != nil {
		return m.CreateCampaignFunc(ctx, c)
	}
	out := *c
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockRegistryRepo) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	if m.GetCampaignFunc != nil {
		return m.GetCampaignFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

type mockAuditSink struct {
	LogFunc func(ctx context.Context, record domain.AuditRecord) error
}

func (m *mockAuditSink) Log(ctx context.Context, record domain.AuditRecord) error {
	if m.LogFunc != nil {
		return m.LogFunc(ctx, record)
	}
	return nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockHasher struct {
	HashFunc func(password string) (string, error)
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

// ===========================================================================
// Helpers
// ===========================================================================

type testDeps struct {
	repo   *mockRegistryRepo
	audit  *mockAuditSink
	tx     *mockTxManager
	hasher *mockHasher
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		repo:   &mockRegistryRepo{},
		audit:  &mockAuditSink{},
		tx:     &mockTxManager{},
		hasher: &mockHasher{},
	}
	svc := NewService(slog.Default(), deps.repo, deps.audit, deps.tx, deps.hasher)
	return svc, deps
}

func authCtx() (context.Context, uuid.UUID) {
	userID := uuid.New()
	return ctxutil.WithUserID(context.Background(), userID), userID
}

// ===========================================================================
// Exists tests
// ===========================================================================

func TestService_Exists_NilIDFalse(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()

	probed := false
	deps.repo.ExistsFunc = func(_ context.Context, _ domain.EntityType, _ uuid.UUID) (bool, error) {
		probed = true
		return true, nil
	}

	exists, err := svc.Exists(context.Background(), domain.EntityTypeVaccine, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.False(t, probed, "nil id never hits the store")
}

func TestService_Exists_UnknownType(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.Exists(context.Background(), domain.EntityType("GADGET"), uuid.New())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestService_Exists_Probes(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	id := uuid.New()

	deps.repo.ExistsFunc = func(_ context.Context, et domain.EntityType, gotID uuid.UUID) (bool, error) {
		assert.Equal(t, domain.EntityTypeChild, et)
		assert.Equal(t, id, gotID)
		return true, nil
	}

	exists, err := svc.Exists(context.Background(), domain.EntityTypeChild, id)
	require.NoError(t, err)
	assert.True(t, exists)
}

// ===========================================================================
// Create tests
// ===========================================================================

func TestService_CreateCountry_NormalizesCode(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	var capturedCode string
	deps.repo.CreateCountryFunc = func(_ context.Context, c *domain.Country) (*domain.Country, error) {
		capturedCode = c.Code
		out := *c
		out.ID = uuid.New()
		return &out, nil
	}

	_, err := svc.CreateCountry(ctx, CreateCountryInput{Code: " sy ", Name: "Syria"})
	require.NoError(t, err)
	assert.Equal(t, "SY", capturedCode)
}

func TestService_CreateCountry_BadCode(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.CreateCountry(ctx, CreateCountryInput{Code: "SYR", Name: "Syria"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "code", ve.Errors[0].Field)
}

func TestService_CreateCountry_Duplicate(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	deps.repo.CreateCountryFunc = func(_ context.Context, _ *domain.Country) (*domain.Country, error) {
		return nil, domain.ErrAlreadyExists
	}

	_, err := svc.CreateCountry(ctx, CreateCountryInput{Code: "SY", Name: "Syria"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_CreateUser_HashesPassword(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	var storedHash string
	deps.repo.CreateUserFunc = func(_ context.Context, u *domain.User) (*domain.User, error) {
		storedHash = u.PasswordHash
		out := *u
		out.ID = uuid.New()
		return &out, nil
	}

	_, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "Nurse@Clinic.example",
		FullName: "Rana Aziz",
		Password: "correct horse battery",
		Role:     "nurse",
	})
	require.NoError(t, err)
	assert.Equal(t, "hashed:correct horse battery", storedHash)
}

func TestService_CreateUser_LowercasesEmail(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	var storedEmail string
	deps.repo.CreateUserFunc = func(_ context.Context, u *domain.User) (*domain.User, error) {
		storedEmail = u.Email
		out := *u
		out.ID = uuid.New()
		return &out, nil
	}

	_, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "Nurse@Clinic.example",
		FullName: "Rana Aziz",
		Password: "longenough",
		Role:     "nurse",
	})
	require.NoError(t, err)
	assert.Equal(t, "nurse@clinic.example", storedEmail)
}

func TestService_CreateUser_ShortPassword(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "a@b.example",
		FullName: "A",
		Password: "short",
		Role:     "nurse",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Errors[0].Field)
}

func TestService_CreateUser_HashFailure(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	hashErr := errors.New("cost out of range")
	deps.hasher.HashFunc = func(_ string) (string, error) {
		return "", hashErr
	}

	_, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "a@b.example",
		FullName: "A",
		Password: "longenough",
		Role:     "nurse",
	})
	require.ErrorIs(t, err, hashErr)
}

func TestService_CreateStaff_UnknownCenter(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()
	centerID := uuid.New()

	deps.repo.ExistsFunc = func(_ context.Context, _ domain.EntityType, _ uuid.UUID) (bool, error) {
		return false, nil
	}

	_, err := svc.CreateStaff(ctx, CreateStaffInput{
		FullName: "Dr Sami",
		Role:     "physician",
		CenterID: &centerID,
	})
	var refErr *domain.InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "center_id", refErr.Field)
}

func TestService_CreateCampaign_UnknownVaccine(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	deps.repo.ExistsFunc = func(_ context.Context, _ domain.EntityType, _ uuid.UUID) (bool, error) {
		return false, nil
	}

	_, err := svc.CreateCampaign(ctx, CreateCampaignInput{
		Name:      "Measles catch-up",
		VaccineID: uuid.New(),
		StartsAt:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	var refErr *domain.InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "vaccine_id", refErr.Field)
}

func TestService_CreateCampaign_EndsBeforeStarts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	starts := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	ends := starts.AddDate(0, 0, -1)

	_, err := svc.CreateCampaign(ctx, CreateCampaignInput{
		Name:      "Measles catch-up",
		VaccineID: uuid.New(),
		StartsAt:  starts,
		EndsAt:    &ends,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ends_at", ve.Errors[0].Field)
}

func TestService_CreateCenter_NoAuth(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.CreateCenter(context.Background(), CreateCenterInput{Name: "Al-Midan PHC"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ===========================================================================
// Get tests
// ===========================================================================

func TestService_GetVaccine_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.GetVaccine(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetCenter_Found(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	id := uuid.New()

	deps.repo.GetCenterFunc = func(_ context.Context, gotID uuid.UUID) (*domain.Center, error) {
		assert.Equal(t, id, gotID)
		return &domain.Center{ID: id, Name: "Al-Midan PHC", State: domain.EntityStateActive}, nil
	}

	center, err := svc.GetCenter(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Al-Midan PHC", center.Name)
}
