package api

import (
	"net/http"

	"github.com/labstack/echo"
	"github.com/saieshwardev-lab/UrbanEye/pkg/api/resource"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// maxListCount bounds the list endpoint; there is no pagination cursor.
const maxListCount = 200

func (h *Handler) handleCreateIncident(c echo.Context) error {
	r := &resource.IncidentResource{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Bad request"})
	}

	m, err := resource.ValidateIncident(r)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	if err := h.store.Incidents().Create(m); err != nil {
		log.Error("api: failed to create incident: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, resource.NewIncident(m))
}

func (h *Handler) handleFetchIncidents(c echo.Context) error {
	m, err := h.store.Incidents().FetchRecent(maxListCount)
	if err != nil {
		log.Error("api: failed to fetch incidents: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, resource.NewIncidentList(m))
}

func (h *Handler) handleGetIncidentByID(c echo.Context) error {
	m, err := h.store.Incidents().FindByID(c.Param("id"))
	if err != nil && err == storage.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Not found"})
	} else if err != nil {
		log.Error("api: failed to find incident: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, resource.NewIncident(m))
}

func (h *Handler) handleUpdateIncidentStatus(c echo.Context) error {
	r := &resource.IncidentStatusResource{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Bad request"})
	}

	m, err := h.store.Incidents().UpdateStatus(c.Param("id"), r.Status)
	if err != nil && err == storage.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Not found"})
	} else if err != nil {
		log.Error("api: failed to update incident status: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, resource.NewIncident(m))
}
