package garden

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/docstore"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

// ErrGardenNotFound is returned by Get and Delete when no garden has the requested id.
var ErrGardenNotFound = httperror.NewHTTPError(http.StatusNotFound, "Garden not found")

// IsNotFound reports whether err is a garden not-found error.
func IsNotFound(err error) bool {
	return err != nil && httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound
}

// Repository stores gardens in the gardens collection. Gardens are addressed by their
// own id field, never by the store's _id.
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
	return r.store.Collection(gardensCollection)
}

func (r *Repository) Create(ctx context.Context, garden models.Garden) error {
	ctx, span := tracing.StartSpan(ctx, "GardenRepository.Create")
	defer span.End()

	res, err := r.collection().InsertOne(ctx, FromGarden(garden))
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create garden")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create garden")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":       garden.ID,
		"store_id": res.InsertedID,
		"name":     garden.Name,
		"plants":   len(garden.Plants),
	}).Debug("Created garden")

	return nil
}

// List returns up to the fetch limit of gardens in storage order
func (r *Repository) List(ctx context.Context) ([]models.Garden, error) {
	ctx, span := tracing.StartSpan(ctx, "GardenRepository.List")
	defer span.End()

	docs, err := r.collection().Find(ctx, nil, r.fetchLimit)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list gardens")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list gardens")
	}

	gardens := make([]models.Garden, 0, len(docs))
	for _, doc := range docs {
		garden, err := decode(doc)
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).Error("Failed to read garden")
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read gardens")
		}
		gardens = append(gardens, garden)
	}

	return gardens, nil
}

func (r *Repository) Get(ctx context.Context, id string) (models.Garden, error) {
	ctx, span := tracing.StartSpan(ctx, "GardenRepository.Get")
	defer span.End()

	doc, err := r.collection().FindOne(ctx, docstore.Filter{"id": id})
	if errors.Is(err, docstore.ErrNotFound) {
		return models.Garden{}, ErrGardenNotFound
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Failed to get garden")
		return models.Garden{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get garden")
	}

	garden, err := decode(doc)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Failed to read garden")
		return models.Garden{}, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read garden")
	}
	return garden, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "GardenRepository.Delete")
	defer span.End()

	deleted, err := r.collection().DeleteOne(ctx, docstore.Filter{"id": id})
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Failed to delete garden")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete garden")
	}
	if deleted == 0 {
		return ErrGardenNotFound
	}

	r.logger.WithContext(ctx).WithField("id", id).Debug("Deleted garden")
	return nil
}

func decode(doc bson.Raw) (models.Garden, error) {
	var row GardenRow
	if err := bson.Unmarshal(doc, &row); err != nil {
		return models.Garden{}, err
	}
	return ToGarden(row)
}
