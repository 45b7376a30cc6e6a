package repositories

import (
	"strings"

	"forems-backend/config"
	"forems-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"
)

const applicationsIndex = "applications"

// applicationDoc flattens the searchable surface of an application.
type applicationDoc struct {
	ID           string `json:"id"`
	TenantName   string `json:"tenant_name"`
	TenantEmail  string `json:"tenant_email,omitempty"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name,omitempty"`
	City         string `json:"city,omitempty"`
	Status       string `json:"status"`
	Occupation   string `json:"occupation,omitempty"`
}

func newApplicationDoc(application models.Application) applicationDoc {
	form := application.FormData.Data()
	return applicationDoc{
		ID:           application.ID.String(),
		TenantName:   application.TenantNameSnapshot,
		TenantEmail:  application.Tenant.Email,
		PropertyID:   application.PropertyID.String(),
		PropertyName: application.Property.Title,
		City:         application.Property.City,
		Status:       strings.ToLower(string(application.Status)),
		Occupation:   form.PersonalProfile.Occupation,
	}
}

func (r *BleveRepository) IndexSingleApplication(application models.Application) error {
	err := r.indexer.IndexDocument(applicationsIndex, application.ID.String(), newApplicationDoc(application))
	if err != nil {
		config.Logger.Error("Failed to index application",
			zap.Error(err),
			zap.String("application_id", application.ID.String()))
		return err
	}
	return nil
}

func (r *BleveRepository) IndexExistingApplications(applications []models.Application) error {
	docs := make(map[string]interface{}, len(applications))
	for _, application := range applications {
		docs[application.ID.String()] = newApplicationDoc(application)
	}

	if len(docs) == 0 {
		return nil
	}

	if err := r.indexer.BulkIndexDocuments(applicationsIndex, docs); err != nil {
		config.Logger.Error("Failed to bulk index applications", zap.Error(err))
		return err
	}
	return nil
}

// SearchApplications layers exact, phrase, fuzzy and prefix strategies so
// that tight matches outrank loose ones, optionally filtered by status.
func (r *BleveRepository) SearchApplications(queryString, status string) (*bleve.SearchResult, error) {
	queryString = strings.TrimSpace(strings.ToLower(queryString))

	strategies := bleve.NewBooleanQuery()

	exactMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"tenant_name", "tenant_email", "property_name"} {
		termQuery := bleve.NewTermQuery(queryString)
		termQuery.SetField(field)
		termQuery.SetBoost(6.0)
		exactMatch.AddShould(termQuery)
	}

	phraseMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"tenant_name", "property_name", "city"} {
		phraseQuery := bleve.NewMatchPhraseQuery(queryString)
		phraseQuery.SetField(field)
		phraseQuery.SetBoost(5.0)
		phraseMatch.AddShould(phraseQuery)
	}

	fuzzyMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"tenant_name", "property_name", "city", "occupation"} {
		fuzzyQuery := bleve.NewFuzzyQuery(queryString)
		fuzzyQuery.SetField(field)
		fuzzyQuery.SetFuzziness(2)
		fuzzyQuery.SetBoost(3.0)
		fuzzyMatch.AddShould(fuzzyQuery)
	}

	prefixMatch := bleve.NewBooleanQuery()
	for _, field := range []string{"tenant_name", "property_name", "city"} {
		prefixQuery := bleve.NewPrefixQuery(queryString)
		prefixQuery.SetField(field)
		prefixQuery.SetBoost(2.0)
		prefixMatch.AddShould(prefixQuery)
	}

	strategies.AddShould(exactMatch)
	strategies.AddShould(phraseMatch)
	strategies.AddShould(fuzzyMatch)
	strategies.AddShould(prefixMatch)

	finalQuery := bleve.NewBooleanQuery()
	finalQuery.AddMust(strategies)

	if status != "" {
		statusQuery := bleve.NewTermQuery(strings.ToLower(status))
		statusQuery.SetField("status")
		finalQuery.AddMust(statusQuery)
	}

	return r.indexer.SearchIndex(applicationsIndex, finalQuery, 20)
}

// UpdateApplication re-indexes by delete then insert.
func (r *BleveRepository) UpdateApplication(application models.Application) error {
	applicationID := application.ID.String()

	if err := r.indexer.DeleteDocument(applicationsIndex, applicationID); err != nil {
		config.Logger.Error("Failed to delete application document for update",
			zap.Error(err),
			zap.String("application_id", applicationID))
		return err
	}

	return r.IndexSingleApplication(application)
}

func (r *BleveRepository) DeleteApplication(applicationID string) error {
	if err := r.indexer.DeleteDocument(applicationsIndex, applicationID); err != nil {
		config.Logger.Error("Failed to delete application from index",
			zap.Error(err),
			zap.String("application_id", applicationID))
		return err
	}
	return nil
}

func (r *BleveRepository) GetApplicationDocument(id string) (interface{}, error) {
	return r.indexer.GetDocument(applicationsIndex, id)
}
