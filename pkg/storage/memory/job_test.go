package memory

import (
	"testing"

	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCreateAssignsDefaults(t *testing.T) {
	s := NewStore()

	m := &model.ProcessingJob{IncidentID: "incident-1"}
	require.NoError(t, s.Jobs().Create(m))

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, model.JobStatusQueued, m.Status)
	assert.NotNil(t, m.ResultJSON)
	assert.Empty(t, m.ResultJSON)
}

func TestJobUpdate(t *testing.T) {
	s := NewStore()

	m := &model.ProcessingJob{IncidentID: "incident-1"}
	require.NoError(t, s.Jobs().Create(m))

	m.Status = model.JobStatusDone
	m.ResultJSON = map[string]interface{}{"score": 0.9}
	m.OutputURL = "https://cdn.example.com/out.jpg"
	require.NoError(t, s.Jobs().Update(m))

	found, err := s.Jobs().FindByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusDone, found.Status)
	assert.Equal(t, 0.9, found.ResultJSON["score"])
	assert.Equal(t, "https://cdn.example.com/out.jpg", found.OutputURL)
}

func TestJobUpdateNotFound(t *testing.T) {
	s := NewStore()

	err := s.Jobs().Update(&model.ProcessingJob{ID: "missing"})
	assert.Equal(t, storage.ErrNotFound, err)

	_, err = s.Jobs().FindByID("missing")
	assert.Equal(t, storage.ErrNotFound, err)
}
