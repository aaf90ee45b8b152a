package memory

import (
	"testing"
	"time"

	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentCreateAssignsDefaults(t *testing.T) {
	s := NewStore()

	m := &model.Incident{Type: "pothole"}
	require.NoError(t, s.Incidents().Create(m))

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, model.StatusNew, m.Status)
	assert.False(t, m.Timestamp.IsZero())
	assert.False(t, m.CreatedAt.IsZero())

	other := &model.Incident{Type: "garbage"}
	require.NoError(t, s.Incidents().Create(other))
	assert.NotEqual(t, m.ID, other.ID)
}

func TestIncidentCreateKeepsSuppliedStatus(t *testing.T) {
	s := NewStore()

	m := &model.Incident{Type: "theft", Status: "in-progress"}
	require.NoError(t, s.Incidents().Create(m))
	assert.Equal(t, "in-progress", m.Status)
}

func TestIncidentFetchRecentOrderAndLimit(t *testing.T) {
	s := NewStore()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m := &model.Incident{
			Type:      "pothole",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Incidents().Create(m))
	}

	models, err := s.Incidents().FetchRecent(3)
	require.NoError(t, err)
	require.Len(t, models, 3)

	for i := 1; i < len(models); i++ {
		assert.True(t, models[i-1].Timestamp.After(models[i].Timestamp),
			"expected newest-first ordering")
	}
	assert.Equal(t, base.Add(4*time.Minute), models[0].Timestamp)
}

func TestIncidentFindByIDNotFound(t *testing.T) {
	s := NewStore()

	_, err := s.Incidents().FindByID("missing")
	assert.Equal(t, storage.ErrNotFound, err)
}

func TestIncidentUpdateStatus(t *testing.T) {
	s := NewStore()

	m := &model.Incident{Type: "pothole"}
	require.NoError(t, s.Incidents().Create(m))

	updated, err := s.Incidents().UpdateStatus(m.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, "resolved", updated.Status)

	found, err := s.Incidents().FindByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved", found.Status)

	_, err = s.Incidents().UpdateStatus("missing", "resolved")
	assert.Equal(t, storage.ErrNotFound, err)
}
