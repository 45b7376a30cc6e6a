package db

import (
	"errors"

	"forems-backend/db/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedInitialAdminUser creates the bootstrap landlord account used to set
// up the platform. No-op when any user already exists.
func SeedInitialAdminUser(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		FirstName: "Platform",
		LastName:  "Admin",
		Email:     email,
		Phone:     "+2340000000000",
		Password:  string(hashed),
		Role:      models.LandlordRole,
		Active:    true,
		CreatedBy: "system",
	}
	return db.Create(&admin).Error
}

// SeedDemoProperties creates a handful of listings for local development.
// Each is keyed by title, so re-running the seed is idempotent.
func SeedDemoProperties(db *gorm.DB, landlordEmail string) error {
	var landlord models.User
	err := db.First(&landlord, "email = ?", landlordEmail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	properties := []models.Property{
		{
			Title:                   "Lekki Two-Bedroom Flat",
			Address:                 "14 Admiralty Way",
			City:                    "Lagos",
			State:                   "Lagos",
			RentAmount:              decimal.NewFromInt(2500000),
			RentCurrency:            "NGN",
			RequiresTenancyContract: true,
			RequiresGuarantorForm:   true,
			LandlordID:              landlord.ID,
			CreatedBy:               "system",
		},
		{
			Title:                   "Yaba Studio Apartment",
			Address:                 "3 Herbert Macaulay Road",
			City:                    "Lagos",
			State:                   "Lagos",
			RentAmount:              decimal.NewFromInt(900000),
			RentCurrency:            "NGN",
			RequiresTenancyContract: false,
			RequiresGuarantorForm:   false,
			LandlordID:              landlord.ID,
			CreatedBy:               "system",
		},
	}

	for _, property := range properties {
		var existing models.Property
		err := db.Where("title = ? AND landlord_id = ?", property.Title, landlord.ID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&property).Error; err != nil {
					return err
				}
			} else {
				return err
			}
		}
	}
	return nil
}
