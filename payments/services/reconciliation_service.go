package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"forems-backend/config"
	"forems-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReconciliationStore is the persistence surface for applying webhook
// outcomes. Both mutating methods are conditional writes guarded on the
// current status not being SUCCESSFUL, so duplicate and out-of-order
// deliveries cannot downgrade state or repeat the success cascade.
type ReconciliationStore interface {
	// FindApplicationByReference resolves the correlation token.
	// Returns ErrReferenceNotFound (wrapped or direct) when unknown.
	FindApplicationByReference(ctx context.Context, reference string) (*models.Application, error)

	// ApplySuccess marks the payment SUCCESSFUL and, in the same
	// transaction, runs the success cascade (approve + audit, tenant
	// active-tenancy flag, property membership). Reports whether the
	// conditional write applied; false means another delivery won.
	ApplySuccess(ctx context.Context, applicationID uuid.UUID, metadata datatypes.JSON, paidAt time.Time) (bool, *models.Application, error)

	// ApplyNonSuccess records a failed/cancelled/pending outcome with
	// the raw provider payload, unless the payment is already SUCCESSFUL.
	ApplyNonSuccess(ctx context.Context, applicationID uuid.UUID, status models.ContractPaymentStatus, metadata datatypes.JSON) (bool, error)
}

// ContractDispatcher hands a paid application to the contract artifact
// pipeline. Best-effort: failures are logged, never propagated.
type ContractDispatcher interface {
	EnqueueContractGeneration(applicationID uuid.UUID) error
}

// StatusBroadcaster pushes status events to connected dashboards.
type StatusBroadcaster interface {
	BroadcastApplicationEvent(eventType string, payload interface{})
}

// ReconcileOutcome reports what a webhook delivery did.
type ReconcileOutcome struct {
	Status            models.ContractPaymentStatus
	Applied           bool // false when the idempotency guard short-circuited
	AlreadyReconciled bool
	Application       *models.Application
}

// ReconciliationService applies provider webhook callbacks to local
// application state. Deliveries are at-least-once and may arrive out of
// order; correctness rests on the store's conditional writes, not locks.
type ReconciliationService struct {
	store       ReconciliationStore
	contracts   ContractDispatcher
	broadcaster StatusBroadcaster
}

func NewReconciliationService(store ReconciliationStore, contracts ContractDispatcher, broadcaster StatusBroadcaster) *ReconciliationService {
	return &ReconciliationService{
		store:       store,
		contracts:   contracts,
		broadcaster: broadcaster,
	}
}

// MapProviderStatus translates the provider's open string enum into the
// internal vocabulary. Unknown or missing values map to PENDING rather
// than erroring or passing through.
func MapProviderStatus(providerStatus string) models.ContractPaymentStatus {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case "paid":
		return models.SuccessfulContractPayment
	case "failed":
		return models.FailedContractPayment
	case "cancelled":
		return models.CancelledContractPayment
	default:
		return models.PendingContractPayment
	}
}

// Reconcile validates the correlation, maps the provider status and
// applies the transition. Re-delivery of an already-successful payment is
// a no-op that still reports success, so the provider stops retrying.
func (s *ReconciliationService) Reconcile(ctx context.Context, reference string, providerStatus string, rawPayload []byte) (*ReconcileOutcome, error) {
	if reference == "" {
		return nil, ErrValidation
	}

	app, err := s.store.FindApplicationByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceNotFound
		}
		return nil, err
	}

	mapped := MapProviderStatus(providerStatus)

	// Idempotency short-circuit: once successful, nothing may downgrade
	// the status and the cascade must not run again.
	if app.ContractPayment.Status == models.SuccessfulContractPayment {
		config.Logger.Info("Webhook re-delivery for settled payment ignored",
			zap.String("reference", reference),
			zap.String("provider_status", providerStatus),
		)
		return &ReconcileOutcome{
			Status:            models.SuccessfulContractPayment,
			AlreadyReconciled: true,
			Application:       app,
		}, nil
	}

	metadata := datatypes.JSON(rawPayload)

	if mapped == models.SuccessfulContractPayment {
		applied, updated, err := s.store.ApplySuccess(ctx, app.ID, metadata, time.Now())
		if err != nil {
			return nil, err
		}
		if !applied {
			// A concurrent delivery performed the cascade between our
			// read and the conditional write.
			return &ReconcileOutcome{
				Status:            models.SuccessfulContractPayment,
				AlreadyReconciled: true,
				Application:       app,
			}, nil
		}

		s.dispatchSuccessSideEffects(updated)

		config.Logger.Info("Contract payment reconciled as successful",
			zap.String("reference", reference),
			zap.String("applicationID", updated.ID.String()),
		)
		return &ReconcileOutcome{
			Status:      models.SuccessfulContractPayment,
			Applied:     true,
			Application: updated,
		}, nil
	}

	applied, err := s.store.ApplyNonSuccess(ctx, app.ID, mapped, metadata)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Out-of-order delivery after success: keep SUCCESSFUL.
		return &ReconcileOutcome{
			Status:            models.SuccessfulContractPayment,
			AlreadyReconciled: true,
			Application:       app,
		}, nil
	}

	config.Logger.Info("Contract payment outcome recorded",
		zap.String("reference", reference),
		zap.String("status", string(mapped)),
	)
	return &ReconcileOutcome{
		Status:      mapped,
		Applied:     true,
		Application: app,
	}, nil
}

// dispatchSuccessSideEffects hands off contract generation and dashboard
// events. Both are best-effort side channels: a failure here must not
// roll back or block the committed payment transition.
func (s *ReconciliationService) dispatchSuccessSideEffects(app *models.Application) {
	if s.contracts != nil {
		if err := s.contracts.EnqueueContractGeneration(app.ID); err != nil {
			config.Logger.Error("Failed to enqueue contract generation",
				zap.String("applicationID", app.ID.String()),
				zap.Error(err),
			)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastApplicationEvent("PAYMENT_STATUS", map[string]interface{}{
			"application_id": app.ID,
			"property_id":    app.PropertyID,
			"status":         models.SuccessfulContractPayment,
		})
		s.broadcaster.BroadcastApplicationEvent("APPLICATION_STATUS", map[string]interface{}{
			"application_id": app.ID,
			"property_id":    app.PropertyID,
			"status":         app.Status,
		})
	}
}
