package status

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/utils"
)

type StatusCheckService interface {
	Create(ctx context.Context, input models.StatusCheckCreate) (models.StatusCheck, error)
	List(ctx context.Context) ([]models.StatusCheck, error)
}

// Handler serves the status check routes. The service is resolved per request from the
// active dependency container.
type Handler struct {
	bind utils.BindOptions
}

func NewHandler(bind utils.BindOptions) *Handler {
	return &Handler{bind: bind}
}

// Register registers status check routes. writeMiddleware wraps the POST route only.
func (h *Handler) Register(g *echo.Group, writeMiddleware ...echo.MiddlewareFunc) {
	g.POST("/status", h.CreateStatusCheck, writeMiddleware...)
	g.GET("/status", h.ListStatusChecks)
}

// CreateStatusCheck records a status check for the calling client
func (h *Handler) CreateStatusCheck(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "status.CreateStatusCheck")
	defer span.End()

	input, err := utils.BindRequest[models.StatusCheckCreate](c, h.bind)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[StatusCheckService](ctx)
	if err != nil {
		return err
	}

	check, err := svc.Create(ctx, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, check)
}

// ListStatusChecks lists recorded status checks
func (h *Handler) ListStatusChecks(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "status.ListStatusChecks")
	defer span.End()

	ctx, svc, err := ectoinject.GetContext[StatusCheckService](ctx)
	if err != nil {
		return err
	}

	checks, err := svc.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, checks)
}
