package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
)

type incidentStore struct {
	store map[string]model.Incident
	sync.RWMutex
}

func newIncidentStore() *incidentStore {
	return &incidentStore{
		store: make(map[string]model.Incident),
	}
}

func (s *incidentStore) FetchRecent(limit int) ([]model.Incident, error) {
	s.RLock()
	defer s.RUnlock()

	models := make([]model.Incident, 0, len(s.store))
	for _, m := range s.store {
		models = append(models, m)
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].Timestamp.After(models[j].Timestamp)
	})

	if limit > 0 && len(models) > limit {
		models = models[:limit]
	}

	return models, nil
}

func (s *incidentStore) FindByID(id string) (*model.Incident, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *incidentStore) Create(m *model.Incident) error {
	s.Lock()
	defer s.Unlock()

	m.ID = uuid.New().String()
	if m.Status == "" {
		m.Status = model.StatusNew
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt

	s.store[m.ID] = *m

	return nil
}

func (s *incidentStore) UpdateStatus(id, status string) (*model.Incident, error) {
	s.Lock()
	defer s.Unlock()

	m, ok := s.store[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	s.store[id] = m

	return &m, nil
}
