package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage"
)

func newIncidentStore(db *sqlx.DB) *incidentStore {
	return &incidentStore{
		db: db,
	}
}

type incidentStore struct {
	db *sqlx.DB
}

type sqlDataIncident struct {
	ID         string          `db:"id"`
	Type       string          `db:"type"`
	CCTVID     sql.NullString  `db:"cctv_id"`
	Lat        sql.NullFloat64 `db:"lat"`
	Lng        sql.NullFloat64 `db:"lng"`
	Timestamp  time.Time       `db:"timestamp"`
	ImageURL   sql.NullString  `db:"image_url"`
	Confidence sql.NullFloat64 `db:"confidence"`
	Status     string          `db:"status"`
	Extra      types.JSONText  `db:"extra"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (d *sqlDataIncident) Scan(m *model.Incident) error {
	d.ID = m.ID
	d.Type = m.Type
	d.CCTVID = sql.NullString{String: m.CCTVID, Valid: m.CCTVID != ""}
	if m.Location != nil {
		d.Lat = sql.NullFloat64{Float64: m.Location.Lat, Valid: true}
		d.Lng = sql.NullFloat64{Float64: m.Location.Lng, Valid: true}
	}
	d.Timestamp = m.Timestamp
	d.ImageURL = sql.NullString{String: m.ImageURL, Valid: m.ImageURL != ""}
	if m.Confidence != nil {
		d.Confidence = sql.NullFloat64{Float64: *m.Confidence, Valid: true}
	}
	d.Status = m.Status
	d.CreatedAt = m.CreatedAt
	d.UpdatedAt = m.UpdatedAt

	extra, err := json.Marshal(m.Extra)
	if err != nil {
		return err
	}
	d.Extra = types.JSONText(extra)

	return nil
}

func (d *sqlDataIncident) Model() (*model.Incident, error) {
	m := &model.Incident{
		ID:        d.ID,
		Type:      d.Type,
		CCTVID:    d.CCTVID.String,
		Timestamp: d.Timestamp,
		ImageURL:  d.ImageURL.String,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	if d.Lat.Valid && d.Lng.Valid {
		m.Location = &model.Location{Lat: d.Lat.Float64, Lng: d.Lng.Float64}
	}
	if d.Confidence.Valid {
		confidence := d.Confidence.Float64
		m.Confidence = &confidence
	}
	if len(d.Extra) > 0 {
		if err := json.Unmarshal(d.Extra, &m.Extra); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (s *incidentStore) FetchRecent(limit int) ([]model.Incident, error) {
	return fetchRecentIncidents(s.db, limit)
}

func (s *incidentStore) FindByID(id string) (*model.Incident, error) {
	return findIncidentByID(s.db, id)
}

func (s *incidentStore) Create(m *model.Incident) error {
	return createIncident(s.db, m)
}

func (s *incidentStore) UpdateStatus(id, status string) (*model.Incident, error) {
	return updateIncidentStatus(s.db, id, status)
}

func fetchRecentIncidents(db *sqlx.DB, limit int) ([]model.Incident, error) {
	rows := make([]sqlDataIncident, 0)
	models := make([]model.Incident, 0)

	query := "SELECT * FROM incidents ORDER BY timestamp DESC LIMIT $1"
	if err := db.Select(&rows, query, limit); err != nil {
		return nil, errors.Wrap(err, "failed to fetch recent incidents")
	}

	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to incident model")
		}

		models = append(models, *m)
	}

	return models, nil
}

func findIncidentByID(db *sqlx.DB, id string) (*model.Incident, error) {
	d := sqlDataIncident{}
	query := "SELECT * FROM incidents WHERE id=$1"
	if err := db.Get(&d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find incident")
	}

	return d.Model()
}

func createIncident(db *sqlx.DB, m *model.Incident) error {
	m.ID = uuid.New().String()
	if m.Status == "" {
		m.Status = model.StatusNew
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt

	d := sqlDataIncident{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert incident model to SQL data")
	}

	query := `INSERT INTO incidents
		(id, type, cctv_id, lat, lng, timestamp, image_url, confidence, status, extra, created_at, updated_at)
		VALUES
		(:id, :type, :cctv_id, :lat, :lng, :timestamp, :image_url, :confidence, :status, :extra, :created_at, :updated_at)`
	if _, err := db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create incident")
	}

	return nil
}

func updateIncidentStatus(db *sqlx.DB, id, status string) (*model.Incident, error) {
	query := "UPDATE incidents SET status=$1, updated_at=$2 WHERE id=$3"
	res, err := db.Exec(query, status, time.Now().UTC(), id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update incident status")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to update incident status")
	}
	if n == 0 {
		return nil, storage.ErrNotFound
	}

	return findIncidentByID(db, id)
}
