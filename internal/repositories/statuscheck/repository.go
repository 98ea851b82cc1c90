package statuscheck

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/docstore"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

// Repository stores status checks in the status_checks collection
type Repository struct {
	store      docstore.Store
	fetchLimit int64
	logger     ectologger.Logger
}

func NewRepository(store docstore.Store, fetchLimit int64, logger ectologger.Logger) *Repository {
	return &Repository{
		store:      store,
		fetchLimit: fetchLimit,
		logger:     logger,
	}
}

func (r *Repository) collection() docstore.Collection {
	return r.store.Collection(statusChecksCollection)
}

// Create inserts one status check document
func (r *Repository) Create(ctx context.Context, check models.StatusCheck) error {
	ctx, span := tracing.StartSpan(ctx, "StatusCheckRepository.Create")
	defer span.End()

	res, err := r.collection().InsertOne(ctx, FromStatusCheck(check))
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create status check")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create status check")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":          check.ID,
		"store_id":    res.InsertedID,
		"client_name": check.ClientName,
	}).Debug("Created status check")

	return nil
}

// List returns up to the fetch limit of status checks in storage order
func (r *Repository) List(ctx context.Context) ([]models.StatusCheck, error) {
	ctx, span := tracing.StartSpan(ctx, "StatusCheckRepository.List")
	defer span.End()

	docs, err := r.collection().Find(ctx, nil, r.fetchLimit)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list status checks")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list status checks")
	}

	checks := make([]models.StatusCheck, 0, len(docs))
	for _, doc := range docs {
		check, err := decode(doc)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("Failed to read status check")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read status checks")
		}
		checks = append(checks, check)
	}

	return checks, nil
}

func decode(doc bson.Raw) (models.StatusCheck, error) {
	var row StatusCheckRow
	if err := bson.Unmarshal(doc, &row); err != nil {
		return models.StatusCheck{}, err
	}
	return ToStatusCheck(row)
}
