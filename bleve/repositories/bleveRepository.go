package repositories

import (
	bleveindex "forems-backend/bleve/services"
	"forems-backend/db/models"

	"github.com/blevesearch/bleve/v2"
)

type BleveRepository struct {
	indexer *bleveindex.IndexingService
}

type BleveRepositoryInterface interface {
	IndexSingleApplication(application models.Application) error
	IndexExistingApplications(applications []models.Application) error
	UpdateApplication(application models.Application) error
	DeleteApplication(applicationID string) error
	SearchApplications(queryString, status string) (*bleve.SearchResult, error)
	GetApplicationDocument(id string) (interface{}, error)
}

// NewBleveRepository returns both the concrete type and the interface.
func NewBleveRepository(indexer *bleveindex.IndexingService) (*BleveRepository, BleveRepositoryInterface) {
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}
