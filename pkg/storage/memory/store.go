package memory

import "github.com/saieshwardev-lab/UrbanEye/pkg/storage"

// Store contains all memory-based sub-stores for managing the persistent models
type store struct {
	incidents *incidentStore
	jobs      *jobStore
}

// NewStore creates a new memory-based Storage interface
func NewStore() storage.Interface {
	return &store{
		incidents: newIncidentStore(),
		jobs:      newJobStore(),
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
