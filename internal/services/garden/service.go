package garden

import (
	"context"

	"github.com/Gobusters/ectologger"

	gardenrepo "github.com/karthikgoud24/NeoGarden-Enhanced/internal/repositories/garden"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/identity"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/metrics"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

const NotFoundMessage = "Garden not found"

// IsNotFound reports whether err means no garden had the requested id.
func IsNotFound(err error) bool {
	return gardenrepo.IsNotFound(err)
}

type GardenRepository interface {
	Create(ctx context.Context, garden models.Garden) error
	List(ctx context.Context) ([]models.Garden, error)
	Get(ctx context.Context, id string) (models.Garden, error)
	Delete(ctx context.Context, id string) error
}

type EventEmitter interface {
	Emit(ctx context.Context, eventType, resource, resourceID string, data any)
}

type Service struct {
	repo    GardenRepository
	ids     identity.IDGenerator
	clock   identity.Clock
	emitter EventEmitter
	logger  ectologger.Logger
}

func NewService(repo GardenRepository, ids identity.IDGenerator, clock identity.Clock, emitter EventEmitter, logger ectologger.Logger) *Service {
	return &Service{
		repo:    repo,
		ids:     ids,
		clock:   clock,
		emitter: emitter,
		logger:  logger,
	}
}

// Create saves a new garden. The returned id is the one stored in the document's id
// field; the store's own _id is never exposed.
func (s *Service) Create(ctx context.Context, input models.GardenCreate) (models.Garden, error) {
	ctx, span := tracing.StartSpan(ctx, "garden.Create")
	defer span.End()

	garden := models.NewGarden(input, s.ids.NewID(), s.clock.Now())

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"id":         garden.ID,
		"name":       garden.Name,
		"plants":     len(garden.Plants),
		"land_shape": len(garden.LandShape),
	}).Info("creating garden")

	if err := s.repo.Create(ctx, garden); err != nil {
		return models.Garden{}, err
	}

	metrics.RecordCreated(events.ResourceGarden)
	s.emitter.Emit(ctx, events.TypeGardenCreated, events.ResourceGarden, garden.ID, map[string]any{
		"name":   garden.Name,
		"plants": len(garden.Plants),
	})
	return garden, nil
}

func (s *Service) List(ctx context.Context) ([]models.Garden, error) {
	ctx, span := tracing.StartSpan(ctx, "garden.List")
	defer span.End()

	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (models.Garden, error) {
	ctx, span := tracing.StartSpan(ctx, "garden.Get")
	defer span.End()

	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "garden.Delete")
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			s.logger.WithContext(ctx).WithField("id", id).Info("garden to delete was not found")
		}
		return err
	}

	s.logger.WithContext(ctx).WithField("id", id).Info("deleted garden")
	metrics.RecordDeleted(events.ResourceGarden)
	s.emitter.Emit(ctx, events.TypeGardenDeleted, events.ResourceGarden, id, nil)
	return nil
}
