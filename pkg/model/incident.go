package model

import "time"

// Location is a geographic coordinate attached to an incident
type Location struct {
	Lat float64
	Lng float64
}

// Incident is a model of the persistency layer. It represents a reported
// occurrence such as a pothole or garbage sighting, either detected by a
// camera pipeline or reported manually. Extra holds arbitrary structured
// data; consumers must not assume a fixed shape.
type Incident struct {
	ID         string
	Type       string
	CCTVID     string
	Location   *Location
	Timestamp  time.Time
	ImageURL   string
	Confidence *float64
	Status     string
	Extra      map[string]interface{}

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	// StatusNew is the status assigned to incidents on creation when the
	// caller supplies none.
	StatusNew = "new"
	// StatusProcessing is set on an incident when a related job reaches
	// its terminal status.
	StatusProcessing = "processing"
)
