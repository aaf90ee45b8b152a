package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
)

type jobStore struct {
	store map[string]model.ProcessingJob
	sync.RWMutex
}

func newJobStore() *jobStore {
	return &jobStore{
		store: make(map[string]model.ProcessingJob),
	}
}

func (s *jobStore) FindByID(id string) (*model.ProcessingJob, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *jobStore) Create(m *model.ProcessingJob) error {
	s.Lock()
	defer s.Unlock()

	m.ID = uuid.New().String()
	if m.Status == "" {
		m.Status = model.JobStatusQueued
	}
	if m.ResultJSON == nil {
		m.ResultJSON = map[string]interface{}{}
	}
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt

	s.store[m.ID] = *m

	return nil
}

func (s *jobStore) Update(m *model.ProcessingJob) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.store[m.ID]; !ok {
		return storage.ErrNotFound
	}

	m.UpdatedAt = time.Now().UTC()
	s.store[m.ID] = *m

	return nil
}
