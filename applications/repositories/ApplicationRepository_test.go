package repositories

import (
	"testing"

	"forems-backend/config"
	"forems-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	config.Logger = zap.NewNop()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection so every session sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyTenant{},
		&models.Application{},
		&models.ApplicationAuditLog{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	seed := uuid.New().String()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     seed + "@example.com",
		Phone:     seed,
		Role:      role,
		Active:    true,
		CreatedBy: "test",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestProperty(t *testing.T, db *gorm.DB, landlordID uuid.UUID, requiresContract bool) *models.Property {
	t.Helper()

	property := models.Property{
		Title:                   "Flat " + uuid.New().String(),
		Address:                 "1 Test Close",
		City:                    "Lagos",
		State:                   "Lagos",
		RentAmount:              decimal.NewFromInt(1200000),
		RentCurrency:            "NGN",
		RequiresTenancyContract: requiresContract,
		LandlordID:              landlordID,
		CreatedBy:               "test",
	}
	require.NoError(t, db.Create(&property).Error)
	return &property
}

func submitTestApplication(t *testing.T, db *gorm.DB, repo ApplicationRepository, tenant *models.User, property *models.Property) *models.Application {
	t.Helper()

	application := models.Application{
		TenantID:           tenant.ID,
		PropertyID:         property.ID,
		TenantNameSnapshot: tenant.FullName(),
		IdentityPhotoURL:   "/uploads/id/tenant.jpg",
	}
	created, err := repo.CreateApplication(db, &application)
	require.NoError(t, err)
	return created
}

func auditActions(t *testing.T, db *gorm.DB, applicationID uuid.UUID) []string {
	t.Helper()

	var logs []models.ApplicationAuditLog
	require.NoError(t, db.Where("application_id = ?", applicationID).
		Order("created_at ASC").Find(&logs).Error)

	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}

func TestCreateApplicationDuplicateGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	tenant := createTestUser(t, db, models.TenantRole)
	property := createTestProperty(t, db, landlord.ID, false)

	created := submitTestApplication(t, db, repo, tenant, property)
	assert.Equal(t, models.PendingApplication, created.Status)
	assert.Equal(t, []string{"SUBMITTED"}, auditActions(t, db, created.ID))

	// Second open application for the same tenant and property is refused.
	duplicate := models.Application{
		TenantID:           tenant.ID,
		PropertyID:         property.ID,
		TenantNameSnapshot: tenant.FullName(),
		IdentityPhotoURL:   "/uploads/id/tenant.jpg",
	}
	_, err := repo.CreateApplication(db, &duplicate)
	assert.ErrorIs(t, err, ErrDuplicateApplication)

	// A different property is fine.
	other := createTestProperty(t, db, landlord.ID, false)
	fresh := submitTestApplication(t, db, repo, tenant, other)
	assert.Equal(t, models.PendingApplication, fresh.Status)
}

func TestCreateApplicationAllowedAfterRejection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	tenant := createTestUser(t, db, models.TenantRole)
	property := createTestProperty(t, db, landlord.ID, false)

	first := submitTestApplication(t, db, repo, tenant, property)
	_, err := repo.ProcessApplicationRejection(first.ID, landlord.ID, "incomplete documents")
	require.NoError(t, err)

	// A rejected application no longer blocks a resubmission.
	second := submitTestApplication(t, db, repo, tenant, property)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.PendingApplication, second.Status)
}

func TestApproveApplicationWithoutContractRequirement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	tenant := createTestUser(t, db, models.TenantRole)
	property := createTestProperty(t, db, landlord.ID, false)
	application := submitTestApplication(t, db, repo, tenant, property)

	approved, err := repo.ProcessApplicationApproval(application.ID, landlord.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovedApplication, approved.Status)
	require.NotNil(t, approved.ReviewedByID)
	assert.Equal(t, landlord.ID, *approved.ReviewedByID)

	assert.Equal(t, []string{"SUBMITTED", "APPROVED"}, auditActions(t, db, application.ID))

	var updatedTenant models.User
	require.NoError(t, db.First(&updatedTenant, "id = ?", tenant.ID).Error)
	assert.True(t, updatedTenant.HasActiveTenancy)

	var membership int64
	require.NoError(t, db.Model(&models.PropertyTenant{}).
		Where("property_id = ? AND tenant_id = ?", property.ID, tenant.ID).
		Count(&membership).Error)
	assert.Equal(t, int64(1), membership)
}

func TestApproveApplicationByManager(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	manager := createTestUser(t, db, models.PropertyManagerRole)
	tenant := createTestUser(t, db, models.TenantRole)

	property := createTestProperty(t, db, landlord.ID, false)
	property.ManagerID = &manager.ID
	require.NoError(t, db.Save(property).Error)

	application := submitTestApplication(t, db, repo, tenant, property)

	approved, err := repo.ProcessApplicationApproval(application.ID, manager.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovedApplication, approved.Status)
}

func TestApproveApplicationNotAuthorized(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	tenant := createTestUser(t, db, models.TenantRole)
	stranger := createTestUser(t, db, models.AgentRole)
	property := createTestProperty(t, db, landlord.ID, false)
	application := submitTestApplication(t, db, repo, tenant, property)

	_, err := repo.ProcessApplicationApproval(application.ID, stranger.ID, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = repo.ProcessApplicationRejection(application.ID, stranger.ID, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// The tenant itself may not review either.
	_, err = repo.ProcessApplicationApproval(application.ID, tenant.ID, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	reloaded, err := repo.GetApplicationByID(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PendingApplication, reloaded.Status)
}

func TestReviewTerminalApplication(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	tenant := createTestUser(t, db, models.TenantRole)
	property := createTestProperty(t, db, landlord.ID, false)
	application := submitTestApplication(t, db, repo, tenant, property)

	_, err := repo.ProcessApplicationApproval(application.ID, landlord.ID, "")
	require.NoError(t, err)

	// Terminal states never change again.
	_, err = repo.ProcessApplicationApproval(application.ID, landlord.ID, "")
	assert.ErrorIs(t, err, ErrTerminalStatus)

	_, err = repo.ProcessApplicationRejection(application.ID, landlord.ID, "")
	assert.ErrorIs(t, err, ErrTerminalStatus)

	reloaded, err := repo.GetApplicationByID(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovedApplication, reloaded.Status)
	assert.Equal(t, []string{"SUBMITTED", "APPROVED"}, auditActions(t, db, application.ID))
}

func TestApproveApplicationContractGate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	tenant := createTestUser(t, db, models.TenantRole)
	property := createTestProperty(t, db, landlord.ID, true)
	application := submitTestApplication(t, db, repo, tenant, property)

	// No settled contract payment yet.
	_, err := repo.ProcessApplicationApproval(application.ID, landlord.ID, "")
	assert.ErrorIs(t, err, ErrContractRequired)

	require.NoError(t, db.Model(&models.Application{}).
		Where("id = ?", application.ID).
		Update("contract_payment_status", models.PendingContractPayment).Error)
	_, err = repo.ProcessApplicationApproval(application.ID, landlord.ID, "")
	assert.ErrorIs(t, err, ErrContractRequired)

	// Once the payment settles, manual approval goes through.
	require.NoError(t, db.Model(&models.Application{}).
		Where("id = ?", application.ID).
		Update("contract_payment_status", models.SuccessfulContractPayment).Error)

	approved, err := repo.ProcessApplicationApproval(application.ID, landlord.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovedApplication, approved.Status)
}

func TestRejectApplication(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)
	tenant := createTestUser(t, db, models.TenantRole)
	property := createTestProperty(t, db, landlord.ID, true)
	application := submitTestApplication(t, db, repo, tenant, property)

	// Rejection is allowed regardless of the contract branch.
	rejected, err := repo.ProcessApplicationRejection(application.ID, landlord.ID, "failed reference check")
	require.NoError(t, err)
	assert.Equal(t, models.RejectedApplication, rejected.Status)
	require.NotNil(t, rejected.ReviewedByID)
	assert.Equal(t, landlord.ID, *rejected.ReviewedByID)

	assert.Equal(t, []string{"SUBMITTED", "REJECTED"}, auditActions(t, db, application.ID))

	// Rejection grants nothing.
	var updatedTenant models.User
	require.NoError(t, db.First(&updatedTenant, "id = ?", tenant.ID).Error)
	assert.False(t, updatedTenant.HasActiveTenancy)

	var membership int64
	require.NoError(t, db.Model(&models.PropertyTenant{}).
		Where("property_id = ? AND tenant_id = ?", property.ID, tenant.ID).
		Count(&membership).Error)
	assert.Equal(t, int64(0), membership)
}

func TestReviewUnknownApplication(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepository(db)

	landlord := createTestUser(t, db, models.LandlordRole)

	_, err := repo.ProcessApplicationApproval(uuid.New(), landlord.ID, "")
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = repo.ProcessApplicationRejection(uuid.New(), landlord.ID, "")
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = repo.GetApplicationByID(uuid.New())
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
