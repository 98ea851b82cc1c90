// Package di builds the dependency containers request handlers resolve their services from.
package di

import (
	"context"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectoinject/lifecycles"
	"github.com/Gobusters/ectoinject/loglevel"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
)

// NewContainer registers a container under a unique id prefixed with name. Containers are
// process-wide, so every server instance needs its own id. Container log lines go to
// logger: warnings as warnings, the rest at debug.
func NewContainer(name string, logger ectologger.Logger) (ectocontainer.DIContainer, error) {
	cfg := ectoinject.DefaultContainerConfig
	cfg.ID = name + "-" + uuid.NewString()
	cfg.LoggerConfig = &ectocontainer.DIContainerLoggerConfig{
		Prefix:   "ectoinject",
		LogLevel: loglevel.INFO,
		Enabled:  true,
		LogFunc: func(ctx context.Context, level, msg string) {
			if level == loglevel.WARN {
				logger.WarnContext(ctx, msg)
				return
			}
			logger.DebugContext(ctx, msg)
		},
	}
	return ectoinject.NewDIContainer(cfg)
}

// Register adds instance to container as the singleton for TType.
func Register[TType any](container ectocontainer.DIContainer, instance TType) error {
	return ectoinject.RegisterInstance[TType](container, instance)
}

// RegisterFunc adds a singleton for TType built by build on first resolution. build may
// resolve other dependencies from ctx.
func RegisterFunc[TType any](container ectocontainer.DIContainer, build func(ctx context.Context) (TType, error)) error {
	return ectoinject.RegisterInstanceFunc[TType](container, lifecycles.Singleton, func(ctx context.Context) (any, error) {
		return build(ctx)
	})
}
