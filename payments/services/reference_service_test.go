package services

import (
	"context"
	"testing"
	"time"

	"forems-backend/config"
	"forems-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	config.Logger = zap.NewNop()
}

// fakePaymentStore implements RegistryStore and ReconciliationStore over a
// single in-memory application, mirroring the conditional-write contract of
// the real repository.
type fakePaymentStore struct {
	app              *models.Application
	saveCalls        int
	successCalls     int
	nonSuccessCalls  int
	interceptSave    func() // runs before the conditional check, to simulate races
	interceptSuccess func()
}

func newFakePaymentStore(requiresContract bool) *fakePaymentStore {
	currency := "NGN"
	return &fakePaymentStore{
		app: &models.Application{
			ID:         uuid.New(),
			PropertyID: uuid.New(),
			TenantID:   uuid.New(),
			Status:     models.PendingApplication,
			Property: models.Property{
				RequiresTenancyContract: requiresContract,
				RentCurrency:            currency,
			},
		},
	}
}

func (f *fakePaymentStore) GetApplicationForPayment(ctx context.Context, applicationID uuid.UUID) (*models.Application, error) {
	if f.app == nil || f.app.ID != applicationID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.app
	return &copied, nil
}

func (f *fakePaymentStore) SaveNewPaymentCycle(ctx context.Context, applicationID uuid.UUID, info models.ContractPaymentInfo) (bool, error) {
	f.saveCalls++
	if f.interceptSave != nil {
		f.interceptSave()
		f.interceptSave = nil
	}
	if f.app.ContractPayment.Status == models.SuccessfulContractPayment {
		return false, nil
	}
	if f.app.ContractPayment.Status == models.PendingContractPayment && f.app.ContractPayment.Reference != nil {
		return false, nil
	}
	f.app.ContractPayment = info
	return true, nil
}

func (f *fakePaymentStore) FindApplicationByReference(ctx context.Context, reference string) (*models.Application, error) {
	if f.app == nil || f.app.ContractPayment.Reference == nil || *f.app.ContractPayment.Reference != reference {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.app
	return &copied, nil
}

func (f *fakePaymentStore) ApplySuccess(ctx context.Context, applicationID uuid.UUID, metadata datatypes.JSON, paidAt time.Time) (bool, *models.Application, error) {
	f.successCalls++
	if f.interceptSuccess != nil {
		f.interceptSuccess()
		f.interceptSuccess = nil
	}
	if f.app.ContractPayment.Status == models.SuccessfulContractPayment {
		return false, nil, nil
	}
	f.app.ContractPayment.Status = models.SuccessfulContractPayment
	f.app.ContractPayment.PaidAt = &paidAt
	f.app.ContractPayment.Metadata = metadata
	if f.app.Status != models.ApprovedApplication {
		f.app.Status = models.ApprovedApplication
	}
	copied := *f.app
	return true, &copied, nil
}

func (f *fakePaymentStore) ApplyNonSuccess(ctx context.Context, applicationID uuid.UUID, status models.ContractPaymentStatus, metadata datatypes.JSON) (bool, error) {
	f.nonSuccessCalls++
	if f.app.ContractPayment.Status == models.SuccessfulContractPayment {
		return false, nil
	}
	f.app.ContractPayment.Status = status
	f.app.ContractPayment.Metadata = metadata
	return true, nil
}

func TestInitiateMintsReference(t *testing.T) {
	store := newFakePaymentStore(true)
	svc := NewReferenceService(store)

	ref, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	require.NoError(t, err)

	assert.Len(t, ref, 36) // "FRM-" + 32 hex chars
	assert.Equal(t, "FRM-", ref[:4])
	assert.Equal(t, models.PendingContractPayment, store.app.ContractPayment.Status)
	require.NotNil(t, store.app.ContractPayment.Reference)
	assert.Equal(t, ref, *store.app.ContractPayment.Reference)
	require.NotNil(t, store.app.ContractPayment.Currency)
	assert.Equal(t, "NGN", *store.app.ContractPayment.Currency)
}

func TestInitiateReturnsSameReferenceWhilePending(t *testing.T) {
	store := newFakePaymentStore(true)
	svc := NewReferenceService(store)

	first, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	require.NoError(t, err)

	second, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.saveCalls)
}

func TestInitiateFreshReferenceAfterFailure(t *testing.T) {
	store := newFakePaymentStore(true)
	svc := NewReferenceService(store)

	first, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	require.NoError(t, err)

	store.app.ContractPayment.Status = models.FailedContractPayment

	second, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, models.PendingContractPayment, store.app.ContractPayment.Status)
}

func TestInitiateRejectsWhenAlreadyPaid(t *testing.T) {
	store := newFakePaymentStore(true)
	store.app.ContractPayment.Status = models.SuccessfulContractPayment
	svc := NewReferenceService(store)

	_, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Zero(t, store.saveCalls)
}

func TestInitiateRejectsWhenContractNotRequired(t *testing.T) {
	store := newFakePaymentStore(false)
	svc := NewReferenceService(store)

	_, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	assert.ErrorIs(t, err, ErrContractNotRequired)
}

func TestInitiateLosingRaceResumesWinner(t *testing.T) {
	store := newFakePaymentStore(true)
	svc := NewReferenceService(store)

	// Between our read and the conditional write, a concurrent initiation
	// lands its own cycle. Ours must yield to the winner's reference.
	winner := "FRM-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	store.interceptSave = func() {
		store.app.ContractPayment.Status = models.PendingContractPayment
		store.app.ContractPayment.Reference = &winner
	}

	ref, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	require.NoError(t, err)
	assert.Equal(t, winner, ref)
}

func TestInitiateLosingRaceToSuccessfulPayment(t *testing.T) {
	store := newFakePaymentStore(true)
	svc := NewReferenceService(store)

	store.interceptSave = func() {
		store.app.ContractPayment.Status = models.SuccessfulContractPayment
	}

	_, err := svc.Initiate(context.Background(), store.app.ID, decimal.NewFromInt(250000))
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestNewPaymentReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := NewPaymentReference()
		require.NoError(t, err)
		assert.False(t, seen[ref])
		seen[ref] = true
	}
}
