package requests

import (
	"strings"

	"forems-backend/db/models"
)

// CreateApplicationRequest is the submission payload for a tenancy
// application.
type CreateApplicationRequest struct {
	TenantID         string                 `json:"tenant_id"`
	PropertyID       string                 `json:"property_id"`
	IdentityPhotoURL string                 `json:"identity_photo_url"`
	GuarantorPhotos  []string               `json:"guarantor_photos"`
	FormData         models.ApplicationForm `json:"form_data"`
}

// Validate checks structural requirements before any database work.
// requiresGuarantor comes from the property's workflow flags.
func (r *CreateApplicationRequest) Validate(requiresGuarantor bool) string {
	if strings.TrimSpace(r.TenantID) == "" {
		return "tenant_id is required"
	}
	if strings.TrimSpace(r.PropertyID) == "" {
		return "property_id is required"
	}
	if strings.TrimSpace(r.IdentityPhotoURL) == "" {
		return "identity_photo_url is required"
	}

	for _, photo := range r.GuarantorPhotos {
		if strings.TrimSpace(photo) == "" {
			return "guarantor_photos must not contain empty entries"
		}
	}

	if requiresGuarantor {
		g := r.FormData.Guarantor
		if g == nil || strings.TrimSpace(g.FullName) == "" || strings.TrimSpace(g.Phone) == "" {
			return "guarantor full_name and phone are required for this property"
		}
	}

	if ec := r.FormData.EmergencyContact; ec != nil && !ec.IsEmpty() {
		if strings.TrimSpace(ec.FullName) == "" || strings.TrimSpace(ec.Phone) == "" {
			return "emergency_contact requires full_name and phone"
		}
	}

	return ""
}

// ReviewApplicationRequest carries an optional note for approve/reject.
type ReviewApplicationRequest struct {
	Note string `json:"note"`
}
