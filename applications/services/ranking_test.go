package services

import (
	"testing"

	"forems-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankApplicationsOrdering(t *testing.T) {
	low := buildApplication(false, 1, models.ApplicationForm{})   // 18
	mid := buildApplication(false, 2, models.ApplicationForm{})   // 35
	high := buildApplication(true, 2, models.ApplicationForm{})   // 75

	ranked := RankApplications([]models.Application{low, mid, high})
	require.Len(t, ranked, 3)

	assert.Equal(t, 75, ranked[0].Score)
	assert.Equal(t, 35, ranked[1].Score)
	assert.Equal(t, 18, ranked[2].Score)

	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}

	// Non-increasing scores
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRankApplicationsStableTieBreak(t *testing.T) {
	first := buildApplication(false, 2, models.ApplicationForm{})
	first.ID = uuid.New()
	second := buildApplication(false, 2, models.ApplicationForm{})
	second.ID = uuid.New()

	ranked := RankApplications([]models.Application{first, second})
	require.Len(t, ranked, 2)

	// Equal scores keep the original fetch order
	assert.Equal(t, first.ID, ranked[0].Application.ID)
	assert.Equal(t, second.ID, ranked[1].Application.ID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankApplicationsEmpty(t *testing.T) {
	assert.Empty(t, RankApplications(nil))
}

func TestRankApplicationsByProperty(t *testing.T) {
	propertyA := uuid.New()
	propertyB := uuid.New()

	a1 := buildApplication(true, 0, models.ApplicationForm{})
	a1.PropertyID = propertyA
	a2 := buildApplication(false, 1, models.ApplicationForm{})
	a2.PropertyID = propertyA
	b1 := buildApplication(false, 0, models.ApplicationForm{})
	b1.PropertyID = propertyB

	groups := RankApplicationsByProperty([]models.Application{a1, a2, b1})
	require.Len(t, groups, 2)
	require.Len(t, groups[propertyA], 2)
	require.Len(t, groups[propertyB], 1)

	assert.Equal(t, 40, groups[propertyA][0].Score)
	assert.Equal(t, 1, groups[propertyA][0].Rank)
	assert.Equal(t, 18, groups[propertyA][1].Score)
	assert.Equal(t, 2, groups[propertyA][1].Rank)
	assert.Equal(t, 1, groups[propertyB][0].Rank)
}
