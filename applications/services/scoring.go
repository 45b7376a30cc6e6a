package services

import (
	"strings"

	"forems-backend/db/models"
)

// Fixed scoring weights. The three sub-scores cannot exceed 100 by
// construction, but ScoreApplication still clamps as a guard against
// future weight changes.
const (
	fastTrackScore        = 40
	strongGuarantorScore  = 35 // two or more guarantor photos
	singleGuarantorScore  = 18
	emergencyContactScore = 25

	friendPenalty  = 5
	siblingPenalty = 3

	maxScore = 100
)

// relationshipPenalty returns the deduction for weak relationship labels.
// Matching is case-insensitive; unknown labels carry no penalty.
func relationshipPenalty(relationship string) int {
	switch strings.ToLower(strings.TrimSpace(relationship)) {
	case "friend":
		return friendPenalty
	case "sibling":
		return siblingPenalty
	default:
		return 0
	}
}

// ScoreApplication computes the 0-100 suitability score for one
// application. Pure and deterministic: no I/O, no side effects, safe to
// recompute on every read. Missing form sub-objects contribute 0.
func ScoreApplication(app models.Application) int {
	form := app.FormData.Data()
	total := 0

	if app.FastTrack.Paid {
		total += fastTrackScore
	}

	// Guarantor strength from photo count, weakened by the relationship
	// penalty, never below zero. No photos means no guarantor sub-score
	// regardless of what the form claims.
	guarantor := 0
	switch n := len(app.GuarantorPhotos); {
	case n >= 2:
		guarantor = strongGuarantorScore
	case n == 1:
		guarantor = singleGuarantorScore
	}
	if guarantor > 0 && form.Guarantor != nil {
		guarantor -= relationshipPenalty(form.Guarantor.Relationship)
		if guarantor < 0 {
			guarantor = 0
		}
	}
	total += guarantor

	// Emergency contact applies the same penalty rule to its own
	// relationship field.
	if !form.EmergencyContact.IsEmpty() {
		contact := emergencyContactScore - relationshipPenalty(form.EmergencyContact.Relationship)
		if contact < 0 {
			contact = 0
		}
		total += contact
	}

	if total > maxScore {
		total = maxScore
	}
	if total < 0 {
		total = 0
	}
	return total
}
