package model

import "time"

// ProcessingJob is a model of the persistency layer. It represents a unit
// of asynchronous work tied to an incident, completed by an external worker
// that posts its result back. ResultJSON holds arbitrary structured data.
type ProcessingJob struct {
	ID         string
	IncidentID string
	Status     string
	ResultJSON map[string]interface{}
	OutputURL  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	// JobStatusQueued is the status assigned to jobs on creation.
	JobStatusQueued = "queued"
	// JobStatusDone is the terminal status that triggers the incident
	// status side effect in the relay.
	JobStatusDone = "done"
)
