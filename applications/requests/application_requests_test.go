package requests

import (
	"testing"

	"forems-backend/db/models"

	"github.com/stretchr/testify/assert"
)

func validCreateRequest() CreateApplicationRequest {
	return CreateApplicationRequest{
		TenantID:         "9d3f1c1e-0c1a-4e52-9f3d-7a6a6d2f1b10",
		PropertyID:       "3b0e8c77-5c44-4b87-90be-2f14d1f3c5aa",
		IdentityPhotoURL: "/uploads/id/tenant.jpg",
		GuarantorPhotos:  []string{"/uploads/guarantor/a.jpg"},
		FormData: models.ApplicationForm{
			Guarantor: &models.GuarantorInfo{
				FullName:     "Ada Obi",
				Phone:        "+2348012345678",
				Relationship: "colleague",
			},
		},
	}
}

func TestCreateApplicationRequestValid(t *testing.T) {
	request := validCreateRequest()
	assert.Empty(t, request.Validate(true))
	assert.Empty(t, request.Validate(false))
}

func TestCreateApplicationRequestMissingFields(t *testing.T) {
	request := validCreateRequest()
	request.TenantID = " "
	assert.NotEmpty(t, request.Validate(false))

	request = validCreateRequest()
	request.PropertyID = ""
	assert.NotEmpty(t, request.Validate(false))

	request = validCreateRequest()
	request.IdentityPhotoURL = ""
	assert.NotEmpty(t, request.Validate(false))
}

func TestCreateApplicationRequestGuarantorRules(t *testing.T) {
	request := validCreateRequest()
	request.FormData.Guarantor = nil
	assert.NotEmpty(t, request.Validate(true))
	// Optional when the property does not demand a guarantor form.
	assert.Empty(t, request.Validate(false))

	request = validCreateRequest()
	request.FormData.Guarantor.Phone = ""
	assert.NotEmpty(t, request.Validate(true))
}

func TestCreateApplicationRequestEmptyPhotoEntries(t *testing.T) {
	request := validCreateRequest()
	request.GuarantorPhotos = []string{"/uploads/a.jpg", " "}
	assert.NotEmpty(t, request.Validate(false))
}

func TestCreateApplicationRequestEmergencyContact(t *testing.T) {
	request := validCreateRequest()
	request.FormData.EmergencyContact = &models.EmergencyContact{FullName: "Ngozi Obi"}
	assert.NotEmpty(t, request.Validate(false))

	request.FormData.EmergencyContact.Phone = "+2348098765432"
	assert.Empty(t, request.Validate(false))
}
