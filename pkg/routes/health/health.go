// Package health provides health check endpoints for the NeoGarden API.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Response represents a health check response
type Response struct {
	Status     Status                 `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Uptime     string                 `json:"uptime,omitempty"`
	Checks     map[string]CheckResult `json:"checks,omitempty"`
	ReportedAt time.Time              `json:"reported_at"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// dependency is a pinged backend. A failing critical dependency makes the service
// unhealthy; any other failure only degrades it.
type dependency struct {
	pinger   Pinger
	critical bool
}

// Checker provides health check functionality
type Checker struct {
	deps      map[string]dependency
	timeout   time.Duration
	startTime time.Time
	version   string
	mu        sync.RWMutex
	ready     bool
}

// NewChecker creates a new health checker
func NewChecker(version string) *Checker {
	return &Checker{
		deps:      make(map[string]dependency),
		timeout:   5 * time.Second,
		startTime: time.Now(),
		version:   version,
	}
}

// AddCheck registers a dependency to ping. Call before serving traffic.
func (c *Checker) AddCheck(name string, pinger Pinger, critical bool) {
	c.deps[name] = dependency{pinger: pinger, critical: critical}
}

// SetReady marks the service as ready to receive traffic
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// IsReady returns whether the service is ready
func (c *Checker) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Register registers health routes on g
func (c *Checker) Register(g *echo.Group) {
	g.GET("/health", c.HealthHandler)
	g.GET("/health/live", c.LivenessHandler)
	g.GET("/health/ready", c.ReadinessHandler)
}

// LivenessHandler reports that the process is up
func (c *Checker) LivenessHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, Response{
		Status:     StatusHealthy,
		Version:    c.version,
		Uptime:     c.uptime(),
		ReportedAt: time.Now(),
	})
}

// ReadinessHandler reports whether the service can take traffic
func (c *Checker) ReadinessHandler(ctx echo.Context) error {
	if !c.IsReady() {
		return ctx.JSON(http.StatusServiceUnavailable, Response{
			Status:     StatusUnhealthy,
			Version:    c.version,
			ReportedAt: time.Now(),
			Checks: map[string]CheckResult{
				"startup": {Status: StatusUnhealthy, Message: "service is still starting up"},
			},
		})
	}

	return c.HealthHandler(ctx)
}

// HealthHandler returns every dependency check
func (c *Checker) HealthHandler(ctx echo.Context) error {
	checks := c.runChecks(ctx.Request().Context())
	overallStatus := calculateOverallStatus(checks)

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	return ctx.JSON(statusCode, Response{
		Status:     overallStatus,
		Version:    c.version,
		Uptime:     c.uptime(),
		Checks:     checks,
		ReportedAt: time.Now(),
	})
}

func (c *Checker) uptime() string {
	return time.Since(c.startTime).Round(time.Second).String()
}

func (c *Checker) runChecks(ctx context.Context) map[string]CheckResult {
	checks := make(map[string]CheckResult, len(c.deps))
	for name, dep := range c.deps {
		checks[name] = c.check(ctx, dep)
	}
	return checks
}

func (c *Checker) check(ctx context.Context, dep dependency) CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := dep.pinger.Ping(ctx); err != nil {
		status := StatusDegraded
		if dep.critical {
			status = StatusUnhealthy
		}
		return CheckResult{
			Status:  status,
			Message: err.Error(),
			Latency: time.Since(start).String(),
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Latency: time.Since(start).String(),
	}
}

func calculateOverallStatus(checks map[string]CheckResult) Status {
	hasDegraded := false

	for _, check := range checks {
		switch check.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}
