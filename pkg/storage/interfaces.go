package storage

import "github.com/saieshwardev-lab/UrbanEye/pkg/model"

// Interface is implemented by the storage
type Interface interface {
	Incidents() IncidentStore
	Jobs() JobStore
}

// IncidentStore is responsible for managing the Incident model
type IncidentStore interface {
	FetchRecent(limit int) ([]model.Incident, error)
	FindByID(id string) (*model.Incident, error)
	Create(m *model.Incident) error
	UpdateStatus(id, status string) (*model.Incident, error)
}

// JobStore is responsible for managing the ProcessingJob model
type JobStore interface {
	FindByID(id string) (*model.ProcessingJob, error)
	Create(m *model.ProcessingJob) error
	Update(m *model.ProcessingJob) error
}
