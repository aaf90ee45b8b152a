package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
)

// store contains all PostgreSQL based sub-stores for managing the models
type store struct {
	incidents *incidentStore
	jobs      *jobStore
}

// NewStore creates a new PostgreSQL based Storage interface
func NewStore(db *sqlx.DB) storage.Interface {
	return &store{
		incidents: newIncidentStore(db),
		jobs:      newJobStore(db),
	}
}

// Incidents returns a sub-store for managing the Incident model
func (s *store) Incidents() storage.IncidentStore {
	return s.incidents
}

// Jobs returns a sub-store for managing the ProcessingJob model
func (s *store) Jobs() storage.JobStore {
	return s.jobs
}
