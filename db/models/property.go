package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PropertyStatus string

const (
	AvailableProperty PropertyStatus = "AVAILABLE"
	OccupiedProperty  PropertyStatus = "OCCUPIED"
	DelistedProperty  PropertyStatus = "DELISTED"
)

// Property model
type Property struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Title   string    `gorm:"not null" json:"title"`
	Address string    `gorm:"not null" json:"address"`
	City    string    `gorm:"index" json:"city"`
	State   string    `gorm:"index" json:"state"`

	// Rent
	RentAmount   decimal.Decimal `gorm:"type:decimal(15,2)" json:"rent_amount"`
	RentCurrency string          `gorm:"type:varchar(10);default:'NGN'" json:"rent_currency"`

	// Workflow flags consumed by the application lifecycle
	RequiresTenancyContract bool `gorm:"default:false" json:"requires_tenancy_contract"`
	RequiresGuarantorForm   bool `gorm:"default:false" json:"requires_guarantor_form"`

	Status PropertyStatus `gorm:"type:varchar(20);default:'AVAILABLE';index" json:"status"`

	// Ownership and management
	LandlordID uuid.UUID  `gorm:"type:uuid;not null;index" json:"landlord_id"`
	ManagerID  *uuid.UUID `gorm:"type:uuid;index" json:"manager_id"`

	// Relationships
	Landlord User            `gorm:"foreignKey:LandlordID" json:"landlord"`
	Manager  *User           `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Tenants  []PropertyTenant `gorm:"foreignKey:PropertyID" json:"tenants,omitempty"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PropertyTenant is the set-like membership of tenants on a property.
// The composite unique index makes the reconciliation append idempotent.
type PropertyTenant struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_property_tenant" json:"property_id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_property_tenant" json:"tenant_id"`

	Tenant User `gorm:"foreignKey:TenantID" json:"tenant"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Property
func (p *Property) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// PropertyTenant
func (pt *PropertyTenant) BeforeCreate(tx *gorm.DB) (err error) {
	if pt.ID == uuid.Nil {
		pt.ID = uuid.New()
	}
	return
}

// IsApprover reports whether the given user may approve or reject
// applications for this property (landlord or assigned manager).
func (p *Property) IsApprover(userID uuid.UUID) bool {
	if p.LandlordID == userID {
		return true
	}
	return p.ManagerID != nil && *p.ManagerID == userID
}
