package server

import (
	"context"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"

	"github.com/karthikgoud24/NeoGarden-Enhanced/config"
	gardenrepo "github.com/karthikgoud24/NeoGarden-Enhanced/internal/repositories/garden"
	statusrepo "github.com/karthikgoud24/NeoGarden-Enhanced/internal/repositories/statuscheck"
	gardensvc "github.com/karthikgoud24/NeoGarden-Enhanced/internal/services/garden"
	statussvc "github.com/karthikgoud24/NeoGarden-Enhanced/internal/services/statuscheck"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/di"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/docstore"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
	gardenroutes "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/routes/garden"
	statusroutes "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/routes/status"
)

// newContainer registers the repositories and the services the route handlers resolve.
func newContainer(cfg config.Config, store docstore.Store, emitter *events.Emitter, o options, logger ectologger.Logger) (ectocontainer.DIContainer, error) {
	container, err := di.NewContainer(cfg.AppName, logger)
	if err != nil {
		return nil, err
	}

	if err := di.Register[statussvc.StatusCheckRepository](container, statusrepo.NewRepository(store, int64(cfg.StoreFetchLimit), logger)); err != nil {
		return nil, err
	}
	if err := di.Register[gardensvc.GardenRepository](container, gardenrepo.NewRepository(store, int64(cfg.StoreFetchLimit), logger)); err != nil {
		return nil, err
	}

	err = di.RegisterFunc(container, func(ctx context.Context) (statusroutes.StatusCheckService, error) {
		_, repo, err := ectoinject.GetContext[statussvc.StatusCheckRepository](ctx)
		if err != nil {
			return nil, err
		}
		return statussvc.NewService(repo, o.ids, o.clock, emitter, logger), nil
	})
	if err != nil {
		return nil, err
	}

	err = di.RegisterFunc(container, func(ctx context.Context) (gardenroutes.GardenService, error) {
		_, repo, err := ectoinject.GetContext[gardensvc.GardenRepository](ctx)
		if err != nil {
			return nil, err
		}
		return gardensvc.NewService(repo, o.ids, o.clock, emitter, logger), nil
	})
	if err != nil {
		return nil, err
	}

	return container, nil
}
