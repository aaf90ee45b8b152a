package resource

import (
	"fmt"
	"time"

	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
)

type JobResource struct {
	ID         string                 `json:"id,omitempty"`
	IncidentID string                 `json:"incidentId"`
	Status     string                 `json:"status,omitempty"`
	ResultJSON map[string]interface{} `json:"resultJson,omitempty"`
	OutputURL  string                 `json:"outputUrl,omitempty"`
	CreatedAt  *time.Time             `json:"created_at,omitempty"`
	UpdatedAt  *time.Time             `json:"updated_at,omitempty"`
}

// JobResultResource is the body a worker posts when it finishes a job.
// ResultJSON carries arbitrary structured data; omitting OutputURL keeps
// any previously stored value.
type JobResultResource struct {
	Status     string                 `json:"status"`
	ResultJSON map[string]interface{} `json:"resultJson"`
	OutputURL  string                 `json:"outputUrl"`
}

func NewJob(m *model.ProcessingJob) (out *JobResource) {
	out = &JobResource{
		ID:         m.ID,
		IncidentID: m.IncidentID,
		Status:     m.Status,
		ResultJSON: m.ResultJSON,
		OutputURL:  m.OutputURL,
	}

	if !m.CreatedAt.IsZero() {
		out.CreatedAt = &time.Time{}
		*out.CreatedAt = m.CreatedAt
	}
	if !m.UpdatedAt.IsZero() {
		out.UpdatedAt = &time.Time{}
		*out.UpdatedAt = m.UpdatedAt
	}

	return // out
}

func ValidateJob(r *JobResource) (m *model.ProcessingJob, err error) {
	if r.IncidentID == "" {
		return nil, fmt.Errorf("incidentId is required")
	}

	m = &model.ProcessingJob{
		IncidentID: r.IncidentID,
		Status:     r.Status,
		ResultJSON: r.ResultJSON,
		OutputURL:  r.OutputURL,
	}

	return m, nil
}
