package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Handler contains all properties to serve the incident API
type Handler struct {
	store storage.Interface
}

// NewHandler creates a new incident API handler
func NewHandler(store storage.Interface) *Handler {
	return &Handler{
		store: store,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register incident API routes")
	api := e.Group("/api/events")
	api.POST("", h.handleCreateIncident)
	api.GET("", h.handleFetchIncidents)
	api.GET("/:id", h.handleGetIncidentByID)
	api.PATCH("/:id/status", h.handleUpdateIncidentStatus)

	e.GET("/health", handleHealth)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ok": true,
		"ts": time.Now().UnixMilli(),
	})
}
