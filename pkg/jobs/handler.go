package jobs

import (
	"net/http"

	"github.com/labstack/echo"
	"github.com/saieshwardev-lab/UrbanEye/pkg/api/resource"
	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
	"github.com/saieshwardev-lab/UrbanEye/pkg/realtime"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
	log "github.com/sirupsen/logrus"
)

// Handler contains all properties to serve the job result relay
type Handler struct {
	store    storage.Interface
	notifier realtime.Notifier
}

// NewHandler creates a new job relay handler. notifier may be nil, in which
// case result submissions skip the broadcast step.
func NewHandler(store storage.Interface, notifier realtime.Notifier) *Handler {
	return &Handler{
		store:    store,
		notifier: notifier,
	}
}

// RegisterRoutes attaches the handlers to the echo web server
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	log.Debug("Register job relay routes")
	api := e.Group("/v1/jobs")
	api.POST("", h.handleCreateJob)
	api.GET("/:id", h.handleGetJobByID)
	api.POST("/:id/result", h.handleSubmitResult)
}

func (h *Handler) handleCreateJob(c echo.Context) error {
	r := &resource.JobResource{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	}

	m, err := resource.ValidateJob(r)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.store.Jobs().Create(m); err != nil {
		log.Error("jobs: failed to create job: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"job": resource.NewJob(m)})
}

func (h *Handler) handleGetJobByID(c echo.Context) error {
	m, err := h.store.Jobs().FindByID(c.Param("id"))
	if err != nil && err == storage.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	} else if err != nil {
		log.Error("jobs: failed to find job: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"job": resource.NewJob(m)})
}

// handleSubmitResult is posted by a worker when it finishes a job. The job
// record is overwritten with the reported status and result, the related
// incident moves to "processing" once the job is done, and all connected
// realtime subscribers are notified. Incident update and broadcast are both
// best-effort and never fail the request.
func (h *Handler) handleSubmitResult(c echo.Context) error {
	r := &resource.JobResultResource{}
	if err := c.Bind(r); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	}

	if r.Status == "" {
		r.Status = model.JobStatusDone
	}
	if r.ResultJSON == nil {
		r.ResultJSON = map[string]interface{}{}
	}

	job, err := h.store.Jobs().FindByID(c.Param("id"))
	if err != nil && err == storage.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	} else if err != nil {
		log.Error("jobs: failed to find job: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	job.Status = r.Status
	job.ResultJSON = r.ResultJSON
	if r.OutputURL != "" {
		job.OutputURL = r.OutputURL
	}

	if err := h.store.Jobs().Update(job); err != nil {
		log.Error("jobs: failed to update job: ", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	if job.Status == model.JobStatusDone {
		if _, err := h.store.Incidents().UpdateStatus(job.IncidentID, model.StatusProcessing); err != nil {
			// The incident row is advisory UI state; a missing or failing
			// update must not fail the worker's submission.
			log.Warnf("jobs: failed to update incident %s for job %s: %v", job.IncidentID, job.ID, err)
		}
	}

	if h.notifier != nil {
		h.notifier.Broadcast("job:updated", echo.Map{"job": resource.NewJob(job)})
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "job": resource.NewJob(job)})
}
