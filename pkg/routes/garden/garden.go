package garden

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	gardensvc "github.com/karthikgoud24/NeoGarden-Enhanced/internal/services/garden"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/utils"
)

const DeletedMessage = "Garden deleted successfully"

type GardenService interface {
	Create(ctx context.Context, input models.GardenCreate) (models.Garden, error)
	List(ctx context.Context) ([]models.Garden, error)
	Get(ctx context.Context, id string) (models.Garden, error)
	Delete(ctx context.Context, id string) error
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	bind utils.BindOptions
	// answer not-found with 200 instead of 404
	legacyNotFound bool
}

func NewHandler(bind utils.BindOptions, legacyNotFound bool) *Handler {
	return &Handler{bind: bind, legacyNotFound: legacyNotFound}
}

// Register registers garden routes. writeMiddleware wraps the POST and DELETE routes.
func (h *Handler) Register(g *echo.Group, writeMiddleware ...echo.MiddlewareFunc) {
	g.POST("/gardens", h.CreateGarden, writeMiddleware...)
	g.GET("/gardens", h.ListGardens)
	g.GET("/gardens/:id", h.GetGarden)
	g.DELETE("/gardens/:id", h.DeleteGarden, writeMiddleware...)
}

func (h *Handler) notFound(c echo.Context) error {
	code := http.StatusNotFound
	if h.legacyNotFound {
		code = http.StatusOK
	}
	return c.JSON(code, ErrorResponse{Error: gardensvc.NotFoundMessage})
}

// CreateGarden saves a garden design
func (h *Handler) CreateGarden(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "garden.CreateGarden")
	defer span.End()

	input, err := utils.BindRequest[models.GardenCreate](c, h.bind)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[GardenService](ctx)
	if err != nil {
		return err
	}

	garden, err := svc.Create(ctx, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, garden)
}

// ListGardens lists saved gardens
func (h *Handler) ListGardens(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "garden.ListGardens")
	defer span.End()

	ctx, svc, err := ectoinject.GetContext[GardenService](ctx)
	if err != nil {
		return err
	}

	gardens, err := svc.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, gardens)
}

// GetGarden gets a garden by its id
func (h *Handler) GetGarden(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "garden.GetGarden")
	defer span.End()

	ctx, svc, err := ectoinject.GetContext[GardenService](ctx)
	if err != nil {
		return err
	}

	garden, err := svc.Get(ctx, c.Param("id"))
	if gardensvc.IsNotFound(err) {
		return h.notFound(c)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, garden)
}

// DeleteGarden deletes a garden by its id
func (h *Handler) DeleteGarden(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "garden.DeleteGarden")
	defer span.End()

	ctx, svc, err := ectoinject.GetContext[GardenService](ctx)
	if err != nil {
		return err
	}

	err = svc.Delete(ctx, c.Param("id"))
	if gardensvc.IsNotFound(err) {
		return h.notFound(c)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: DeletedMessage})
}
