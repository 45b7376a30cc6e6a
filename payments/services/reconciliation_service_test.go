package services

import (
	"context"
	"errors"
	"testing"

	"forems-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	enqueued []uuid.UUID
	fail     bool
}

func (f *fakeDispatcher) EnqueueContractGeneration(applicationID uuid.UUID) error {
	if f.fail {
		return errors.New("queue unavailable")
	}
	f.enqueued = append(f.enqueued, applicationID)
	return nil
}

type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) BroadcastApplicationEvent(eventType string, payload interface{}) {
	f.events = append(f.events, eventType)
}

func seedPendingPayment(store *fakePaymentStore) string {
	ref := "FRM-0123456789abcdef0123456789abcdef"
	store.app.ContractPayment.Status = models.PendingContractPayment
	store.app.ContractPayment.Reference = &ref
	return ref
}

func TestMapProviderStatus(t *testing.T) {
	assert.Equal(t, models.SuccessfulContractPayment, MapProviderStatus("paid"))
	assert.Equal(t, models.SuccessfulContractPayment, MapProviderStatus(" PAID "))
	assert.Equal(t, models.FailedContractPayment, MapProviderStatus("failed"))
	assert.Equal(t, models.CancelledContractPayment, MapProviderStatus("cancelled"))
	assert.Equal(t, models.PendingContractPayment, MapProviderStatus("processing"))
	assert.Equal(t, models.PendingContractPayment, MapProviderStatus(""))
}

func TestReconcileSuccessfulPayment(t *testing.T) {
	store := newFakePaymentStore(true)
	ref := seedPendingPayment(store)
	dispatcher := &fakeDispatcher{}
	broadcaster := &fakeBroadcaster{}
	svc := NewReconciliationService(store, dispatcher, broadcaster)

	outcome, err := svc.Reconcile(context.Background(), ref, "paid", []byte(`{"pay_status":"paid"}`))
	require.NoError(t, err)

	assert.True(t, outcome.Applied)
	assert.False(t, outcome.AlreadyReconciled)
	assert.Equal(t, models.SuccessfulContractPayment, outcome.Status)
	assert.Equal(t, models.SuccessfulContractPayment, store.app.ContractPayment.Status)
	assert.Equal(t, models.ApprovedApplication, store.app.Status)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, store.app.ID, dispatcher.enqueued[0])
	assert.Contains(t, broadcaster.events, "PAYMENT_STATUS")
	assert.Contains(t, broadcaster.events, "APPLICATION_STATUS")
}

func TestReconcileDuplicateSuccessIsNoOp(t *testing.T) {
	store := newFakePaymentStore(true)
	ref := seedPendingPayment(store)
	dispatcher := &fakeDispatcher{}
	svc := NewReconciliationService(store, dispatcher, &fakeBroadcaster{})

	first, err := svc.Reconcile(context.Background(), ref, "paid", []byte(`{}`))
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := svc.Reconcile(context.Background(), ref, "paid", []byte(`{}`))
	require.NoError(t, err)

	assert.False(t, second.Applied)
	assert.True(t, second.AlreadyReconciled)
	assert.Equal(t, models.SuccessfulContractPayment, second.Status)
	// The cascade ran exactly once.
	assert.Equal(t, 1, store.successCalls)
	assert.Len(t, dispatcher.enqueued, 1)
}

func TestReconcileFailedAfterSuccessKeepsSuccess(t *testing.T) {
	store := newFakePaymentStore(true)
	ref := seedPendingPayment(store)
	svc := NewReconciliationService(store, &fakeDispatcher{}, &fakeBroadcaster{})

	_, err := svc.Reconcile(context.Background(), ref, "paid", []byte(`{}`))
	require.NoError(t, err)

	outcome, err := svc.Reconcile(context.Background(), ref, "failed", []byte(`{}`))
	require.NoError(t, err)

	assert.False(t, outcome.Applied)
	assert.True(t, outcome.AlreadyReconciled)
	assert.Equal(t, models.SuccessfulContractPayment, store.app.ContractPayment.Status)
}

func TestReconcileFailedPayment(t *testing.T) {
	store := newFakePaymentStore(true)
	ref := seedPendingPayment(store)
	dispatcher := &fakeDispatcher{}
	svc := NewReconciliationService(store, dispatcher, &fakeBroadcaster{})

	outcome, err := svc.Reconcile(context.Background(), ref, "failed", []byte(`{"pay_status":"failed"}`))
	require.NoError(t, err)

	assert.True(t, outcome.Applied)
	assert.Equal(t, models.FailedContractPayment, outcome.Status)
	assert.Equal(t, models.FailedContractPayment, store.app.ContractPayment.Status)
	assert.Empty(t, dispatcher.enqueued)
	// Failure never touches the application workflow status.
	assert.Equal(t, models.PendingApplication, store.app.Status)
}

func TestReconcileUnknownStatusMapsToPending(t *testing.T) {
	store := newFakePaymentStore(true)
	ref := seedPendingPayment(store)
	svc := NewReconciliationService(store, &fakeDispatcher{}, &fakeBroadcaster{})

	outcome, err := svc.Reconcile(context.Background(), ref, "settlement_in_progress", []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, models.PendingContractPayment, outcome.Status)
	assert.Equal(t, models.PendingContractPayment, store.app.ContractPayment.Status)
}

func TestReconcileUnknownReference(t *testing.T) {
	store := newFakePaymentStore(true)
	seedPendingPayment(store)
	svc := NewReconciliationService(store, &fakeDispatcher{}, &fakeBroadcaster{})

	_, err := svc.Reconcile(context.Background(), "FRM-ffffffffffffffffffffffffffffffff", "paid", []byte(`{}`))
	assert.ErrorIs(t, err, ErrReferenceNotFound)
	assert.Equal(t, models.PendingContractPayment, store.app.ContractPayment.Status)
}

func TestReconcileEmptyReference(t *testing.T) {
	svc := NewReconciliationService(newFakePaymentStore(true), &fakeDispatcher{}, &fakeBroadcaster{})

	_, err := svc.Reconcile(context.Background(), "", "paid", []byte(`{}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReconcileRaceBetweenReadAndWrite(t *testing.T) {
	store := newFakePaymentStore(true)
	ref := seedPendingPayment(store)
	dispatcher := &fakeDispatcher{}
	svc := NewReconciliationService(store, dispatcher, &fakeBroadcaster{})

	// A concurrent delivery settles the payment between our read and the
	// conditional write. The loser must not re-run side effects.
	store.interceptSuccess = func() {
		store.app.ContractPayment.Status = models.SuccessfulContractPayment
	}

	outcome, err := svc.Reconcile(context.Background(), ref, "paid", []byte(`{}`))
	require.NoError(t, err)

	assert.False(t, outcome.Applied)
	assert.True(t, outcome.AlreadyReconciled)
	assert.Empty(t, dispatcher.enqueued)
}

func TestReconcileDispatchFailureDoesNotFailReconciliation(t *testing.T) {
	store := newFakePaymentStore(true)
	ref := seedPendingPayment(store)
	svc := NewReconciliationService(store, &fakeDispatcher{fail: true}, &fakeBroadcaster{})

	outcome, err := svc.Reconcile(context.Background(), ref, "paid", []byte(`{}`))
	require.NoError(t, err)

	assert.True(t, outcome.Applied)
	assert.Equal(t, models.SuccessfulContractPayment, store.app.ContractPayment.Status)
}
