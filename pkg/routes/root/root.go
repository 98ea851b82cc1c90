package root

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type MessageResponse struct {
	Message string `json:"message"`
}

// Register registers the API root. It answers with and without a trailing slash.
func Register(g *echo.Group) {
	g.GET("", Hello)
	g.GET("/", Hello)
}

func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Hello World"})
}
