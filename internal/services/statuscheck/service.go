package statuscheck

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/identity"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/metrics"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
)

type StatusCheckRepository interface {
	Create(ctx context.Context, check models.StatusCheck) error
	List(ctx context.Context) ([]models.StatusCheck, error)
}

type EventEmitter interface {
	Emit(ctx context.Context, eventType, resource, resourceID string, data any)
}

type Service struct {
	repo    StatusCheckRepository
	ids     identity.IDGenerator
	clock   identity.Clock
	emitter EventEmitter
	logger  ectologger.Logger
}

func NewService(repo StatusCheckRepository, ids identity.IDGenerator, clock identity.Clock, emitter EventEmitter, logger ectologger.Logger) *Service {
	return &Service{
		repo:    repo,
		ids:     ids,
		clock:   clock,
		emitter: emitter,
		logger:  logger,
	}
}

// Create records a status check for clientName
func (s *Service) Create(ctx context.Context, input models.StatusCheckCreate) (models.StatusCheck, error) {
	ctx, span := tracing.StartSpan(ctx, "statuscheck.Create")
	defer span.End()

	check := models.NewStatusCheck(input, s.ids.NewID(), s.clock.Now())

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"id":          check.ID,
		"client_name": check.ClientName,
	}).Info("creating status check")

	if err := s.repo.Create(ctx, check); err != nil {
		return models.StatusCheck{}, err
	}

	metrics.RecordCreated(events.ResourceStatusCheck)
	s.emitter.Emit(ctx, events.TypeStatusCheckCreated, events.ResourceStatusCheck, check.ID, check)
	return check, nil
}

func (s *Service) List(ctx context.Context) ([]models.StatusCheck, error) {
	ctx, span := tracing.StartSpan(ctx, "statuscheck.List")
	defer span.End()

	return s.repo.List(ctx)
}
