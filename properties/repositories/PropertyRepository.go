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

var ErrPropertyNotFound = errors.New("property not found")

type PropertyRepository interface {
	CreateProperty(tx *gorm.DB, property *models.Property) (*models.Property, error)
	GetPropertyByID(propertyID uuid.UUID) (*models.Property, error)
	GetAvailableProperties() ([]models.Property, error)
	GetPropertiesByLandlord(landlordID uuid.UUID) ([]models.Property, error)
	UpdatePropertyStatus(propertyID uuid.UUID, status models.PropertyStatus, updatedBy string) error
}

type propertyRepository struct {
	DB *gorm.DB
}

// NewPropertyRepository initializes a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{DB: db}
}

func (pr *propertyRepository) CreateProperty(tx *gorm.DB, property *models.Property) (*models.Property, error) {
	if property.Status == "" {
		property.Status = models.AvailableProperty
	}

	if err := tx.Create(property).Error; err != nil {
		config.Logger.Error("Failed to create property",
			zap.Error(err),
			zap.String("title", property.Title))
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	return property, nil
}

func (pr *propertyRepository) GetPropertyByID(propertyID uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := pr.DB.Preload("Landlord").Preload("Manager").
		First(&property, "id = ?", propertyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (pr *propertyRepository) GetAvailableProperties() ([]models.Property, error) {
	var properties []models.Property
	err := pr.DB.Where("status = ?", models.AvailableProperty).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get available properties: %w", err)
	}
	return properties, nil
}

func (pr *propertyRepository) GetPropertiesByLandlord(landlordID uuid.UUID) ([]models.Property, error) {
	var properties []models.Property
	err := pr.DB.Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get landlord properties: %w", err)
	}
	return properties, nil
}

func (pr *propertyRepository) UpdatePropertyStatus(propertyID uuid.UUID, status models.PropertyStatus, updatedBy string) error {
	res := pr.DB.Model(&models.Property{}).
		Where("id = ?", propertyID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update property status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
