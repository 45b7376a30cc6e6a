package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationStatus defines the current state of a tenancy application.
type ApplicationStatus string

const (
	PendingApplication  ApplicationStatus = "PENDING"
	ApprovedApplication ApplicationStatus = "APPROVED"
	RejectedApplication ApplicationStatus = "REJECTED"
)

// ContractPaymentStatus tracks the provider-driven contract payment sub-state.
// Transitions only ever move forward out of PENDING; SUCCESSFUL is final.
type ContractPaymentStatus string

const (
	PendingContractPayment    ContractPaymentStatus = "PENDING"
	SuccessfulContractPayment ContractPaymentStatus = "SUCCESSFUL"
	FailedContractPayment     ContractPaymentStatus = "FAILED"
	CancelledContractPayment  ContractPaymentStatus = "CANCELLED"
)

// ApplicationForm is the structured form payload submitted with an application.
// It is validated at ingestion and stored as JSONB.
type ApplicationForm struct {
	PersonalProfile  PersonalProfile   `json:"personal_profile"`
	Employment       *EmploymentInfo   `json:"employment,omitempty"`
	Guarantor        *GuarantorInfo    `json:"guarantor,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	Contract         *ContractTerms    `json:"contract,omitempty"`
}

type PersonalProfile struct {
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	CurrentCity   string `json:"current_city,omitempty"`
	About         string `json:"about,omitempty"`
}

type EmploymentInfo struct {
	Employer      string `json:"employer,omitempty"`
	JobTitle      string `json:"job_title,omitempty"`
	MonthlyIncome string `json:"monthly_income,omitempty"`
	WorkAddress   string `json:"work_address,omitempty"`
}

type GuarantorInfo struct {
	FullName     string `json:"full_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type EmergencyContact struct {
	FullName     string `json:"full_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type ContractTerms struct {
	DurationMonths int    `json:"duration_months,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
}

// IsEmpty reports whether the emergency contact block carries any content.
func (e *EmergencyContact) IsEmpty() bool {
	if e == nil {
		return true
	}
	return e.FullName == "" && e.Phone == "" && e.Relationship == ""
}

// ContractPaymentInfo is the payment sub-record embedded on Application.
// Status is empty until a payment cycle is initiated for the application.
type ContractPaymentInfo struct {
	Reference   *string               `gorm:"uniqueIndex" json:"reference,omitempty"`
	Amount      *decimal.Decimal      `gorm:"type:decimal(15,2)" json:"amount,omitempty"`
	Currency    *string               `gorm:"type:varchar(10)" json:"currency,omitempty"`
	Status      ContractPaymentStatus `gorm:"type:varchar(20);index" json:"status,omitempty"`
	Metadata    datatypes.JSON        `json:"metadata,omitempty"`
	InitiatedAt *time.Time            `json:"initiated_at,omitempty"`
	PaidAt      *time.Time            `json:"paid_at,omitempty"`
}

// FastTrackInfo is an independent paid flag that boosts an application's
// score; it does not gate approval.
type FastTrackInfo struct {
	Paid      bool       `gorm:"default:false" json:"paid"`
	Reference *string    `json:"reference,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// Application model
type Application struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`

	// Immutable snapshot of the tenant's display name at submission time
	TenantNameSnapshot string `gorm:"not null" json:"tenant_name_snapshot"`

	// Uploaded documents
	IdentityPhotoURL string                      `json:"identity_photo_url"`
	GuarantorPhotos  datatypes.JSONSlice[string] `json:"guarantor_photos"`

	// Structured form payload, validated at ingestion
	FormData datatypes.JSONType[ApplicationForm] `json:"form_data"`

	// Status and review
	Status       ApplicationStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	ReviewedByID *uuid.UUID        `gorm:"type:uuid;index" json:"reviewed_by_id"`

	// Payment sub-records
	ContractPayment ContractPaymentInfo `gorm:"embedded;embeddedPrefix:contract_payment_" json:"contract_payment"`
	FastTrack       FastTrackInfo       `gorm:"embedded;embeddedPrefix:fast_track_" json:"fast_track"`

	// Relationships
	Tenant     User                  `gorm:"foreignKey:TenantID" json:"tenant"`
	Property   Property              `gorm:"foreignKey:PropertyID" json:"property"`
	ReviewedBy *User                 `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	AuditLogs  []ApplicationAuditLog `gorm:"foreignKey:ApplicationID" json:"audit_logs,omitempty"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ApplicationAuditLog records every state transition on an application.
type ApplicationAuditLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	ApplicationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"application_id"`
	Action        string     `gorm:"not null" json:"action"`
	ActorID       *uuid.UUID `gorm:"type:uuid" json:"actor_id"`
	Note          string     `gorm:"type:text" json:"note"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Application
func (a *Application) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// ApplicationAuditLog
func (l *ApplicationAuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// IsTerminal reports whether the application can no longer change status.
func (a *Application) IsTerminal() bool {
	return a.Status == ApprovedApplication || a.Status == RejectedApplication
}

// HasContractPayment reports whether a contract payment cycle exists.
func (a *Application) HasContractPayment() bool {
	return a.ContractPayment.Status != ""
}
