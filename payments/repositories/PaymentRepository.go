package repositories

import (
	"context"
	"fmt"
	"time"

	"forems-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentRepository owns all contract-payment persistence. It backs both
// the reference registry and the reconciliation service; every mutating
// method is a conditional write so concurrent webhook deliveries and
// initiations settle on exactly one winner.
type PaymentRepository interface {
	GetApplicationForPayment(ctx context.Context, applicationID uuid.UUID) (*models.Application, error)
	SaveNewPaymentCycle(ctx context.Context, applicationID uuid.UUID, info models.ContractPaymentInfo) (bool, error)
	FindApplicationByReference(ctx context.Context, reference string) (*models.Application, error)
	ApplySuccess(ctx context.Context, applicationID uuid.UUID, metadata datatypes.JSON, paidAt time.Time) (bool, *models.Application, error)
	ApplyNonSuccess(ctx context.Context, applicationID uuid.UUID, status models.ContractPaymentStatus, metadata datatypes.JSON) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetApplicationForPayment loads an application with the property whose
// flags gate the payment branch.
func (r *paymentRepository) GetApplicationForPayment(ctx context.Context, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("Property").
		First(&application, "id = ?", applicationID).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// SaveNewPaymentCycle persists a fresh reference and PENDING status. The
// guard refuses to overwrite a successful payment or an in-flight
// pending reference, which keeps at most one active reference per
// application even when initiations race.
func (r *paymentRepository) SaveNewPaymentCycle(ctx context.Context, applicationID uuid.UUID, info models.ContractPaymentInfo) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", applicationID).
		Where("contract_payment_status IS NULL OR contract_payment_status <> ?", models.SuccessfulContractPayment).
		Where("NOT (contract_payment_status = ? AND contract_payment_reference IS NOT NULL)", models.PendingContractPayment).
		Updates(map[string]interface{}{
			"contract_payment_reference":    info.Reference,
			"contract_payment_amount":       info.Amount,
			"contract_payment_currency":     info.Currency,
			"contract_payment_status":       info.Status,
			"contract_payment_initiated_at": info.InitiatedAt,
			"contract_payment_paid_at":      nil,
			"contract_payment_metadata":     nil,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to save payment cycle: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FindApplicationByReference resolves the webhook correlation token.
func (r *paymentRepository) FindApplicationByReference(ctx context.Context, reference string) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Tenant").
		First(&application, "contract_payment_reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// ApplySuccess performs the decisive move to SUCCESSFUL and the success
// cascade in one transaction. The conditional update keyed on the prior
// status is the idempotency mechanism: of two concurrent deliveries only
// one sees RowsAffected > 0, and only that one cascades.
func (r *paymentRepository) ApplySuccess(ctx context.Context, applicationID uuid.UUID, metadata datatypes.JSON, paidAt time.Time) (bool, *models.Application, error) {
	var applied bool
	var application models.Application

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).
			Where("id = ? AND (contract_payment_status IS NULL OR contract_payment_status <> ?)", applicationID, models.SuccessfulContractPayment).
			Updates(map[string]interface{}{
				"contract_payment_status":   models.SuccessfulContractPayment,
				"contract_payment_paid_at":  paidAt,
				"contract_payment_metadata": metadata,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark payment successful: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Another delivery already settled this payment.
			return nil
		}
		applied = true

		if err := tx.Preload("Property").Preload("Tenant").
			First(&application, "id = ?", applicationID).Error; err != nil {
			return fmt.Errorf("failed to reload application: %w", err)
		}

		// Auto-approve unless an approver already did.
		if application.Status != models.ApprovedApplication {
			if err := tx.Model(&models.Application{}).
				Where("id = ?", applicationID).
				Update("status", models.ApprovedApplication).Error; err != nil {
				return fmt.Errorf("failed to approve application: %w", err)
			}
			application.Status = models.ApprovedApplication

			auditLog := models.ApplicationAuditLog{
				ApplicationID: applicationID,
				Action:        "AUTO_APPROVED",
				Note:          "Application approved on successful contract payment",
			}
			if err := tx.Create(&auditLog).Error; err != nil {
				return fmt.Errorf("failed to create audit log: %w", err)
			}
		}

		// Tenant now has an active tenancy.
		if err := tx.Model(&models.User{}).
			Where("id = ?", application.TenantID).
			Update("has_active_tenancy", true).Error; err != nil {
			return fmt.Errorf("failed to flag tenant active tenancy: %w", err)
		}

		// Set-like insert into the property's tenant membership; the
		// composite unique index backs this up at the schema level.
		membership := models.PropertyTenant{
			PropertyID: application.PropertyID,
			TenantID:   application.TenantID,
		}
		if err := tx.Where("property_id = ? AND tenant_id = ?", application.PropertyID, application.TenantID).
			FirstOrCreate(&membership).Error; err != nil {
			return fmt.Errorf("failed to add tenant to property: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, nil, err
	}
	if !applied {
		return false, nil, nil
	}
	return true, &application, nil
}

// ApplyNonSuccess records failed/cancelled/pending outcomes together with
// the raw provider payload. Refuses to downgrade a successful payment.
func (r *paymentRepository) ApplyNonSuccess(ctx context.Context, applicationID uuid.UUID, status models.ContractPaymentStatus, metadata datatypes.JSON) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND (contract_payment_status IS NULL OR contract_payment_status <> ?)", applicationID, models.SuccessfulContractPayment).
		Updates(map[string]interface{}{
			"contract_payment_status":   status,
			"contract_payment_metadata": metadata,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to record payment outcome: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
