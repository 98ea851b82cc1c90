package startup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

type StartupDependency interface {
	GetName() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type StartupStatus int

const (
	StartupStatusPending StartupStatus = iota
	StartupStatusStarted
	StartupStatusStopped
	StartupStatusFailed
)

// Startup starts registered dependencies in dependency order, retrying the whole
// sequence with a Fibonacci backoff, and stops them in reverse start order.
type Startup struct {
	dependencies map[string]StartupDependency
	order        []string
	started      []string
	logger       ectologger.Logger
	statuses     map[string]StartupStatus
	maxAttempts  int
	backoffUnit  time.Duration
}

func NewStartup(logger ectologger.Logger, maxAttempts int) *Startup {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Startup{
		logger:       logger,
		dependencies: make(map[string]StartupDependency),
		statuses:     make(map[string]StartupStatus),
		maxAttempts:  maxAttempts,
		backoffUnit:  time.Second,
	}
}

// WithBackoffUnit changes the base retry delay (one Fibonacci step).
func (s *Startup) WithBackoffUnit(d time.Duration) *Startup {
	s.backoffUnit = d
	return s
}

func (s *Startup) AddDependency(dependency StartupDependency) {
	name := dependency.GetName()
	if _, exists := s.dependencies[name]; !exists {
		s.order = append(s.order, name)
	}
	s.dependencies[name] = dependency
}

func (s *Startup) Status(name string) StartupStatus {
	return s.statuses[name]
}

func (s *Startup) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		lastErr = nil
		for _, name := range s.order {
			if err := s.startDependency(ctx, name, map[string]bool{}); err != nil {
				s.logger.WithError(err).Errorf("Startup dependency '%s' attempt %d failed", name, attempt)
				lastErr = err
				break
			}
		}

		if lastErr == nil {
			return nil
		}

		if attempt >= s.maxAttempts {
			break
		}

		waitTime := time.Duration(a) * s.backoffUnit
		s.logger.Infof("Retrying in %s (attempt %d/%d)", waitTime, attempt, s.maxAttempts)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}

		a, b = b, a+b
	}

	return fmt.Errorf("startup failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *Startup) startDependency(ctx context.Context, name string, visiting map[string]bool) error {
	if s.statuses[name] == StartupStatusStarted {
		return nil
	}

	dependency, ok := s.dependencies[name]
	if !ok {
		return fmt.Errorf("unknown startup dependency '%s'", name)
	}
	if visiting[name] {
		return fmt.Errorf("startup dependency cycle at '%s'", name)
	}
	visiting[name] = true

	for _, dependencyName := range dependency.DependsOn() {
		if err := s.startDependency(ctx, dependencyName, visiting); err != nil {
			return err
		}
	}

	s.logger.WithField("dependency", name).Infof("Starting dependency '%s'", name)
	s.statuses[name] = StartupStatusPending
	if err := dependency.Start(ctx); err != nil {
		s.statuses[name] = StartupStatusFailed
		s.logger.WithError(err).WithField("dependency", name).Errorf("Failed to start dependency '%s'", name)
		return err
	}
	s.statuses[name] = StartupStatusStarted
	s.started = append(s.started, name)
	return nil
}

// Stop stops every started dependency, last started first. All dependencies are
// attempted; the returned error joins the individual failures.
func (s *Startup) Stop(ctx context.Context) error {
	var errs []error
	for i := len(s.started) - 1; i >= 0; i-- {
		name := s.started[i]
		if s.statuses[name] != StartupStatusStarted {
			continue
		}

		s.logger.WithField("dependency", name).Infof("Stopping dependency '%s'", name)
		if err := s.dependencies[name].Stop(ctx); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Errorf("Failed to stop dependency '%s'", name)
			errs = append(errs, err)
			continue
		}

		s.statuses[name] = StartupStatusStopped
		s.logger.WithField("dependency", name).Infof("Dependency '%s' stopped", name)
	}
	s.started = nil
	return errors.Join(errs...)
}
