package services

import (
	"sort"

	"forems-backend/db/models"

	"github.com/google/uuid"
)

// RankedApplication annotates an application with its derived score and
// rank. Neither field is persisted; both are recomputed on every read.
type RankedApplication struct {
	models.Application
	Score int `json:"score"`
	Rank  int `json:"rank"`
}

// RankApplications orders one property's applications by descending
// score and assigns rank 1..N. The sort is stable: equal scores keep the
// caller's original order (fetch order, creation time ascending).
func RankApplications(apps []models.Application) []RankedApplication {
	ranked := make([]RankedApplication, 0, len(apps))
	for _, app := range apps {
		ranked = append(ranked, RankedApplication{
			Application: app,
			Score:       ScoreApplication(app),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// RankApplicationsByProperty groups applications by their target property
// and ranks each group independently.
func RankApplicationsByProperty(apps []models.Application) map[uuid.UUID][]RankedApplication {
	groups := make(map[uuid.UUID][]models.Application)
	for _, app := range apps {
		groups[app.PropertyID] = append(groups[app.PropertyID], app)
	}

	ranked := make(map[uuid.UUID][]RankedApplication, len(groups))
	for propertyID, group := range groups {
		ranked[propertyID] = RankApplications(group)
	}
	return ranked
}
