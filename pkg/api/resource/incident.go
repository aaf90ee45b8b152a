package resource

import (
	"fmt"
	"time"

	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
)

type LocationResource struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type IncidentResource struct {
	ID         string                 `json:"id,omitempty"`
	Type       string                 `json:"type"`
	CCTVID     string                 `json:"cctv_id,omitempty"`
	Location   *LocationResource      `json:"location,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	ImageURL   string                 `json:"image_url,omitempty"`
	Confidence *float64               `json:"confidence,omitempty"`
	Status     string                 `json:"status"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
	CreatedAt  *time.Time             `json:"created_at,omitempty"`
	UpdatedAt  *time.Time             `json:"updated_at,omitempty"`
}

type IncidentListResource struct {
	Members []*IncidentResource `json:"members"`
}

type IncidentStatusResource struct {
	Status string `json:"status"`
}

func NewIncident(m *model.Incident) (out *IncidentResource) {
	out = &IncidentResource{
		ID:         m.ID,
		Type:       m.Type,
		CCTVID:     m.CCTVID,
		Timestamp:  m.Timestamp,
		ImageURL:   m.ImageURL,
		Confidence: m.Confidence,
		Status:     m.Status,
		Extra:      m.Extra,
	}

	if m.Location != nil {
		out.Location = &LocationResource{Lat: m.Location.Lat, Lng: m.Location.Lng}
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

func NewIncidentList(models []model.Incident) (out *IncidentListResource) {
	out = &IncidentListResource{
		Members: make([]*IncidentResource, 0, len(models)),
	}

	for i := range models {
		out.Members = append(out.Members, NewIncident(&models[i]))
	}

	return // out
}

func ValidateIncident(r *IncidentResource) (m *model.Incident, err error) {
	if r.Type == "" {
		return nil, fmt.Errorf("type is required")
	}

	m = &model.Incident{
		Type:       r.Type,
		CCTVID:     r.CCTVID,
		Timestamp:  r.Timestamp,
		ImageURL:   r.ImageURL,
		Confidence: r.Confidence,
		Status:     r.Status,
		Extra:      r.Extra,
	}

	if r.Location != nil {
		m.Location = &model.Location{Lat: r.Location.Lat, Lng: r.Location.Lng}
	}

	return m, nil
}
