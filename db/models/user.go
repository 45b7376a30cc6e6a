package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	LandlordRole        Role = "landlord"
	TenantRole          Role = "tenant"
	PropertyManagerRole Role = "property_manager"
	AgentRole           Role = "agent"
)

// User represents platform users with role-based access
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Phone     string    `gorm:"unique" json:"phone"`
	Password  string    `json:"-"` // Never include in JSON responses

	// Role
	Role Role `gorm:"type:varchar(30);not null;index" json:"role"`

	// Tenancy state, flipped by the payment reconciliation service
	HasActiveTenancy bool `gorm:"default:false" json:"has_active_tenancy"`

	// Status
	Active      bool       `gorm:"default:true" json:"active"`
	IsSuspended bool       `gorm:"default:false" json:"is_suspended"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Profile
	ProfilePictureURL *string `json:"profile_picture_url"`
	Notes             *string `gorm:"type:text" json:"notes"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// FullName returns the display name used for application snapshots
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
