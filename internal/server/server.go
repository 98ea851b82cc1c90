// Package server assembles the NeoGarden API: configuration-selected backends, the
// startup lifecycle, and the echo router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/karthikgoud24/NeoGarden-Enhanced/config"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/docstore"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/events"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/identity"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/kafka"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/middleware"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/nats"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/redis"
	gardenroutes "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/routes/garden"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/routes/health"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/routes/root"
	statusroutes "github.com/karthikgoud24/NeoGarden-Enhanced/pkg/routes/status"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/startup"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing/exporters"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/utils"
)

const Version = "1.0.0"

type Option func(*options)

type options struct {
	ids   identity.IDGenerator
	clock identity.Clock
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(ids identity.IDGenerator) Option {
	return func(o *options) { o.ids = ids }
}

// WithClock replaces the wall clock used for record timestamps.
func WithClock(clock identity.Clock) Option {
	return func(o *options) { o.clock = clock }
}

type storeDependency interface {
	docstore.Store
	startup.StartupDependency
}

type Server struct {
	cfg     config.Config
	logger  ectologger.Logger
	echo    *echo.Echo
	startup *startup.Startup
	health  *health.Checker
	http    *http.Server
}

func New(cfg config.Config, logger ectologger.Logger, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{ids: identity.UUIDGenerator{}, clock: identity.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		startup: startup.NewStartup(logger, cfg.StartupMaxAttempts),
		health:  health.NewChecker(Version),
	}

	s.startup.AddDependency(tracing.NewProvider(cfg.AppName, cfg.TracingExporter, exporters.OTLPConfig{
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Insecure: cfg.OTLPInsecure,
		Timeout:  10 * time.Second,
	}))

	store := newStore(cfg, logger)
	s.startup.AddDependency(store)
	s.health.AddCheck("store", store, true)

	publisher, err := s.newPublisher()
	if err != nil {
		return nil, err
	}
	emitter := events.NewEmitter(publisher, cfg.EventsBroker, logger)

	var writeMiddleware []echo.MiddlewareFunc
	if cfg.RateLimitEnabled {
		client := redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		s.startup.AddDependency(client)
		s.health.AddCheck("redis", client, false)

		limiter := redis.NewRateLimiter(client, cfg.AppName+":ratelimit:")
		writeMiddleware = append(writeMiddleware, middleware.RateLimit(limiter, int64(cfg.RateLimitRequests), cfg.RateLimitWindow, logger))
	}

	container, err := newContainer(cfg, store, emitter, o, logger)
	if err != nil {
		return nil, fmt.Errorf("dependency container: %w", err)
	}

	bind := bindOptions(cfg)
	statusHandler := statusroutes.NewHandler(bind)
	gardenHandler := gardenroutes.NewHandler(bind, cfg.LegacyNotFoundStatus)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomw.CORSWithConfig(corsConfig(cfg)))
	e.Use(middleware.Context(container.GetContainerID()))
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics())

	api := e.Group("/api")
	root.Register(api)
	statusHandler.Register(api, writeMiddleware...)
	gardenHandler.Register(api, writeMiddleware...)
	s.health.Register(api)

	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	s.echo = e
	return s, nil
}

func newStore(cfg config.Config, logger ectologger.Logger) storeDependency {
	if cfg.StoreDriver == config.StoreDriverBadger {
		return docstore.NewBadgerStore(docstore.BadgerConfig{
			Path:     cfg.BadgerPath,
			InMemory: cfg.BadgerInMemory,
		}, logger)
	}
	return docstore.NewMongoStore(docstore.MongoConfig{
		URL:      cfg.MongoURL,
		Database: cfg.DatabaseName,
		Timeout:  cfg.MongoTimeout,
	}, logger)
}

// newPublisher registers the configured broker with the startup lifecycle.
func (s *Server) newPublisher() (events.Publisher, error) {
	switch s.cfg.EventsBroker {
	case config.EventsBrokerKafka:
		producer := kafka.NewProducer(kafka.Config{
			Brokers: s.cfg.KafkaBrokers,
			Topic:   s.cfg.KafkaEventsTopic,
		}, s.logger)
		s.startup.AddDependency(producer)
		return producer, nil
	case config.EventsBrokerNats:
		publisher := nats.NewPublisher(nats.Config{
			URL:           s.cfg.NatsURL,
			SubjectPrefix: s.cfg.NatsSubjectPrefix,
			ClientName:    s.cfg.AppName,
		}, s.logger)
		s.startup.AddDependency(publisher)
		return publisher, nil
	case config.EventsBrokerNone, "":
		return events.NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unsupported events broker %q", s.cfg.EventsBroker)
	}
}

func bindOptions(cfg config.Config) utils.BindOptions {
	return utils.BindOptions{
		Strict:    cfg.StrictRequestBody,
		Allowlist: cfg.RequestFieldAllowlist,
	}
}

func corsConfig(cfg config.Config) echomw.CORSConfig {
	return echomw.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowCredentials: true,
		// with "*" the request origin is reflected so credentialed requests still work
		UnsafeWildcardOriginWithAllowCredentials: slices.Contains(cfg.AllowOrigins, "*"),
	}
}

// Handler returns the router. Start must have been called before it serves data routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start brings up every dependency and marks the service ready.
func (s *Server) Start(ctx context.Context) error {
	if err := s.startup.Start(ctx); err != nil {
		return err
	}
	s.health.SetReady(true)
	return nil
}

// Stop marks the service not ready, drains the HTTP server when it is running, and
// stops dependencies in reverse start order.
func (s *Server) Stop(ctx context.Context) error {
	s.health.SetReady(false)

	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if err := s.startup.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run starts the service and serves HTTP until ctx is cancelled, then shuts down
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		_ = s.startup.Stop(context.Background())
		return err
	}

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.echo,
		ReadTimeout:       time.Duration(s.cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    s.cfg.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Infof("%s listening on %s", s.cfg.AppName, s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown initiated")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}

	s.logger.Info("shutdown complete")
	return runErr
}
