package services

import (
	"testing"

	"forems-backend/db/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func buildApplication(fastTrackPaid bool, guarantorPhotos int, form models.ApplicationForm) models.Application {
	photos := make([]string, 0, guarantorPhotos)
	for i := 0; i < guarantorPhotos; i++ {
		photos = append(photos, "uploads/guarantor.jpg")
	}

	return models.Application{
		FastTrack:       models.FastTrackInfo{Paid: fastTrackPaid},
		GuarantorPhotos: datatypes.NewJSONSlice(photos),
		FormData:        datatypes.NewJSONType(form),
	}
}

func TestScoreApplication(t *testing.T) {
	tests := []struct {
		name string
		app  models.Application
		want int
	}{
		{
			name: "empty application scores zero",
			app:  buildApplication(false, 0, models.ApplicationForm{}),
			want: 0,
		},
		{
			name: "fast track alone is exactly 40",
			app:  buildApplication(true, 0, models.ApplicationForm{}),
			want: 40,
		},
		{
			name: "two guarantor photos",
			app:  buildApplication(false, 2, models.ApplicationForm{}),
			want: 35,
		},
		{
			name: "single guarantor photo",
			app:  buildApplication(false, 1, models.ApplicationForm{}),
			want: 18,
		},
		{
			name: "friend guarantor penalised",
			app: buildApplication(false, 2, models.ApplicationForm{
				Guarantor: &models.GuarantorInfo{FullName: "Ada Obi", Relationship: "Friend"},
			}),
			want: 30,
		},
		{
			name: "sibling guarantor penalised",
			app: buildApplication(false, 1, models.ApplicationForm{
				Guarantor: &models.GuarantorInfo{FullName: "Ada Obi", Relationship: "SIBLING"},
			}),
			want: 15,
		},
		{
			name: "no photos means no guarantor score regardless of relationship",
			app: buildApplication(false, 0, models.ApplicationForm{
				Guarantor: &models.GuarantorInfo{FullName: "Ada Obi", Relationship: "friend"},
			}),
			want: 0,
		},
		{
			name: "emergency contact present",
			app: buildApplication(false, 0, models.ApplicationForm{
				EmergencyContact: &models.EmergencyContact{FullName: "Ngozi Eze", Phone: "0801"},
			}),
			want: 25,
		},
		{
			name: "emergency contact friend penalised",
			app: buildApplication(false, 0, models.ApplicationForm{
				EmergencyContact: &models.EmergencyContact{FullName: "Ngozi Eze", Relationship: "friend"},
			}),
			want: 20,
		},
		{
			name: "emergency contact sibling penalised",
			app: buildApplication(false, 0, models.ApplicationForm{
				EmergencyContact: &models.EmergencyContact{FullName: "Ngozi Eze", Relationship: "Sibling"},
			}),
			want: 22,
		},
		{
			name: "everything together",
			app: buildApplication(true, 2, models.ApplicationForm{
				Guarantor:        &models.GuarantorInfo{FullName: "Ada Obi", Relationship: "uncle"},
				EmergencyContact: &models.EmergencyContact{FullName: "Ngozi Eze", Relationship: "mother"},
			}),
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreApplication(tt.app))
		})
	}
}

func TestScoreApplicationBounds(t *testing.T) {
	apps := []models.Application{
		buildApplication(false, 0, models.ApplicationForm{}),
		buildApplication(true, 5, models.ApplicationForm{
			Guarantor:        &models.GuarantorInfo{Relationship: "cousin"},
			EmergencyContact: &models.EmergencyContact{FullName: "x"},
		}),
		buildApplication(true, 1, models.ApplicationForm{
			Guarantor:        &models.GuarantorInfo{Relationship: "friend"},
			EmergencyContact: &models.EmergencyContact{FullName: "x", Relationship: "sibling"},
		}),
	}

	for _, app := range apps {
		score := ScoreApplication(app)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestScoreApplicationDeterministic(t *testing.T) {
	app := buildApplication(true, 2, models.ApplicationForm{
		Guarantor:        &models.GuarantorInfo{FullName: "Ada Obi", Relationship: "friend"},
		EmergencyContact: &models.EmergencyContact{FullName: "Ngozi Eze", Relationship: "sibling"},
	})

	first := ScoreApplication(app)
	second := ScoreApplication(app)
	assert.Equal(t, first, second)
}
