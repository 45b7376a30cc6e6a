package repositories

import (
	"errors"
	"fmt"

	"forems-backend/config"
	"forems-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("tenant already has an open application for this property")
	ErrNotAuthorized        = errors.New("user is not an approver for this property")
	ErrTerminalStatus       = errors.New("application already in a terminal status")
	ErrContractRequired     = errors.New("contract payment must complete before approval")
)

type ApplicationRepository interface {
	CreateApplication(tx *gorm.DB, application *models.Application) (*models.Application, error)
	GetApplicationByID(applicationID uuid.UUID) (*models.Application, error)
	GetApplicationsByProperty(propertyID uuid.UUID) ([]models.Application, error)
	GetApplicationsByTenant(tenantID uuid.UUID) ([]models.Application, error)
	GetAllApplications() ([]models.Application, error)
	ProcessApplicationApproval(applicationID, reviewerID uuid.UUID, note string) (*models.Application, error)
	ProcessApplicationRejection(applicationID, reviewerID uuid.UUID, note string) (*models.Application, error)
}

type applicationRepository struct {
	DB *gorm.DB
}

// NewApplicationRepository initializes a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{DB: db}
}

func (ar *applicationRepository) CreateApplication(tx *gorm.DB, application *models.Application) (*models.Application, error) {
	// One open (pending or approved) application per tenant and property.
	var open int64
	err := tx.Model(&models.Application{}).
		Where("tenant_id = ? AND property_id = ? AND status IN ?",
			application.TenantID, application.PropertyID,
			[]models.ApplicationStatus{models.PendingApplication, models.ApprovedApplication}).
		Count(&open).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check open applications: %w", err)
	}
	if open > 0 {
		return nil, ErrDuplicateApplication
	}

	if application.Status == "" {
		application.Status = models.PendingApplication
	}

	if err := tx.Create(application).Error; err != nil {
		config.Logger.Error("Failed to create application",
			zap.Error(err),
			zap.String("tenantID", application.TenantID.String()),
			zap.String("propertyID", application.PropertyID.String()))
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	auditLog := models.ApplicationAuditLog{
		ApplicationID: application.ID,
		Action:        "SUBMITTED",
		ActorID:       &application.TenantID,
	}
	if err := tx.Create(&auditLog).Error; err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", err)
	}

	if err := tx.Preload("Property").Preload("Tenant").
		First(application, "id = ?", application.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load application relationships: %w", err)
	}

	return application, nil
}

func (ar *applicationRepository) GetApplicationByID(applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := ar.DB.Preload("Property").Preload("Tenant").Preload("AuditLogs").
		First(&application, "id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

// GetApplicationsByProperty returns every application for a property in
// submission order, the stable input the ranking pass relies on.
func (ar *applicationRepository) GetApplicationsByProperty(propertyID uuid.UUID) ([]models.Application, error) {
	var applications []models.Application
	err := ar.DB.Preload("Tenant").
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		config.Logger.Error("Failed to get applications for property",
			zap.Error(err),
			zap.String("propertyID", propertyID.String()))
		return nil, fmt.Errorf("failed to get applications for property: %w", err)
	}
	return applications, nil
}

func (ar *applicationRepository) GetApplicationsByTenant(tenantID uuid.UUID) ([]models.Application, error) {
	var applications []models.Application
	err := ar.DB.Preload("Property").
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get applications for tenant: %w", err)
	}
	return applications, nil
}

func (ar *applicationRepository) GetAllApplications() ([]models.Application, error) {
	var applications []models.Application
	if err := ar.DB.Preload("Property").Preload("Tenant").
		Order("created_at ASC").Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to get all applications: %w", err)
	}
	return applications, nil
}

// ProcessApplicationApproval moves PENDING -> APPROVED on behalf of the
// property's landlord or manager. When the property gates approval behind
// a tenancy contract, the contract payment must already be SUCCESSFUL;
// otherwise approval happens through reconciliation, not here.
func (ar *applicationRepository) ProcessApplicationApproval(applicationID, reviewerID uuid.UUID, note string) (*models.Application, error) {
	var application models.Application

	err := ar.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Property").
			First(&application, "id = ?", applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		if !application.Property.IsApprover(reviewerID) {
			return ErrNotAuthorized
		}
		if application.IsTerminal() {
			return ErrTerminalStatus
		}
		if application.Property.RequiresTenancyContract &&
			application.ContractPayment.Status != models.SuccessfulContractPayment {
			return ErrContractRequired
		}

		res := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", applicationID, models.PendingApplication).
			Updates(map[string]interface{}{
				"status":         models.ApprovedApplication,
				"reviewed_by_id": reviewerID,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to approve application: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTerminalStatus
		}
		application.Status = models.ApprovedApplication
		application.ReviewedByID = &reviewerID

		auditLog := models.ApplicationAuditLog{
			ApplicationID: applicationID,
			Action:        "APPROVED",
			ActorID:       &reviewerID,
			Note:          note,
		}
		if err := tx.Create(&auditLog).Error; err != nil {
			return fmt.Errorf("failed to create audit log: %w", err)
		}

		// Approval grants tenancy membership the same way reconciliation does.
		if err := tx.Model(&models.User{}).
			Where("id = ?", application.TenantID).
			Update("has_active_tenancy", true).Error; err != nil {
			return fmt.Errorf("failed to flag tenant active tenancy: %w", err)
		}

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
		return nil, err
	}

	config.Logger.Info("Application approved",
		zap.String("applicationID", applicationID.String()),
		zap.String("reviewerID", reviewerID.String()))
	return &application, nil
}

// ProcessApplicationRejection moves PENDING -> REJECTED. Terminal states
// never change again, including rejection of an already-approved application.
func (ar *applicationRepository) ProcessApplicationRejection(applicationID, reviewerID uuid.UUID, note string) (*models.Application, error) {
	var application models.Application

	err := ar.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Property").
			First(&application, "id = ?", applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		if !application.Property.IsApprover(reviewerID) {
			return ErrNotAuthorized
		}
		if application.IsTerminal() {
			return ErrTerminalStatus
		}

		res := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", applicationID, models.PendingApplication).
			Updates(map[string]interface{}{
				"status":         models.RejectedApplication,
				"reviewed_by_id": reviewerID,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to reject application: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTerminalStatus
		}
		application.Status = models.RejectedApplication
		application.ReviewedByID = &reviewerID

		auditLog := models.ApplicationAuditLog{
			ApplicationID: applicationID,
			Action:        "REJECTED",
			ActorID:       &reviewerID,
			Note:          note,
		}
		if err := tx.Create(&auditLog).Error; err != nil {
			return fmt.Errorf("failed to create audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Application rejected",
		zap.String("applicationID", applicationID.String()),
		zap.String("reviewerID", reviewerID.String()))
	return &application, nil
}
