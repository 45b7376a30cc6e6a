package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"forems-backend/config"
	"forems-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RegistryStore is the persistence surface the reference registry needs.
// The conditional write in SaveNewPaymentCycle is what keeps at most one
// active reference per application under concurrent initiations.
type RegistryStore interface {
	// GetApplicationForPayment loads the application with its property.
	GetApplicationForPayment(ctx context.Context, applicationID uuid.UUID) (*models.Application, error)

	// SaveNewPaymentCycle persists a freshly minted payment cycle. It
	// must only apply when no successful payment exists and no pending
	// reference is already in flight; reports whether it applied.
	SaveNewPaymentCycle(ctx context.Context, applicationID uuid.UUID, info models.ContractPaymentInfo) (bool, error)
}

// ReferenceService mints and reuses the payment reference correlating an
// application to a provider-side transaction.
type ReferenceService struct {
	store RegistryStore
}

func NewReferenceService(store RegistryStore) *ReferenceService {
	return &ReferenceService{store: store}
}

// NewPaymentReference returns a collision-resistant reference token.
func NewPaymentReference() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate payment reference: %w", err)
	}
	return "FRM-" + hex.EncodeToString(buf), nil
}

// Initiate starts (or resumes) a contract payment cycle and returns the
// reference the client should hand to the payment provider.
//
//   - already SUCCESSFUL            -> ErrAlreadyPaid, no mutation
//   - PENDING with a reference      -> same reference returned (resume)
//   - anything else                 -> fresh reference, status PENDING
func (s *ReferenceService) Initiate(ctx context.Context, applicationID uuid.UUID, amount decimal.Decimal) (string, error) {
	app, err := s.store.GetApplicationForPayment(ctx, applicationID)
	if err != nil {
		return "", err
	}

	if !app.Property.RequiresTenancyContract {
		return "", ErrContractNotRequired
	}

	if app.ContractPayment.Status == models.SuccessfulContractPayment {
		return "", ErrAlreadyPaid
	}

	if app.ContractPayment.Status == models.PendingContractPayment && app.ContractPayment.Reference != nil {
		// Client retry/resume: hand back the in-flight reference instead
		// of creating a duplicate payment intent.
		return *app.ContractPayment.Reference, nil
	}

	reference, err := NewPaymentReference()
	if err != nil {
		return "", err
	}

	now := time.Now()
	currency := app.Property.RentCurrency
	info := models.ContractPaymentInfo{
		Reference:   &reference,
		Amount:      &amount,
		Currency:    &currency,
		Status:      models.PendingContractPayment,
		InitiatedAt: &now,
	}

	applied, err := s.store.SaveNewPaymentCycle(ctx, applicationID, info)
	if err != nil {
		return "", err
	}
	if !applied {
		// Lost a race with a concurrent initiation or webhook. Re-read
		// and fall back on whatever cycle won.
		current, err := s.store.GetApplicationForPayment(ctx, applicationID)
		if err != nil {
			return "", err
		}
		if current.ContractPayment.Status == models.SuccessfulContractPayment {
			return "", ErrAlreadyPaid
		}
		if current.ContractPayment.Reference != nil {
			return *current.ContractPayment.Reference, nil
		}
		return "", fmt.Errorf("payment initiation conflict for application %s", applicationID)
	}

	config.Logger.Info("Contract payment cycle initiated",
		zap.String("applicationID", applicationID.String()),
		zap.String("reference", reference),
		zap.String("amount", amount.String()),
	)
	return reference, nil
}
