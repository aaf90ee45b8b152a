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

func newJobStore(db *sqlx.DB) *jobStore {
	return &jobStore{
		db: db,
	}
}

type jobStore struct {
	db *sqlx.DB
}

type sqlDataJob struct {
	ID         string         `db:"id"`
	IncidentID string         `db:"incident_id"`
	Status     string         `db:"status"`
	ResultJSON types.JSONText `db:"result_json"`
	OutputURL  sql.NullString `db:"output_url"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (d *sqlDataJob) Scan(m *model.ProcessingJob) error {
	d.ID = m.ID
	d.IncidentID = m.IncidentID
	d.Status = m.Status
	d.OutputURL = sql.NullString{String: m.OutputURL, Valid: m.OutputURL != ""}
	d.CreatedAt = m.CreatedAt
	d.UpdatedAt = m.UpdatedAt

	result := m.ResultJSON
	if result == nil {
		result = map[string]interface{}{}
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	d.ResultJSON = types.JSONText(data)

	return nil
}

func (d *sqlDataJob) Model() (*model.ProcessingJob, error) {
	m := &model.ProcessingJob{
		ID:         d.ID,
		IncidentID: d.IncidentID,
		Status:     d.Status,
		ResultJSON: map[string]interface{}{},
		OutputURL:  d.OutputURL.String,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}

	if len(d.ResultJSON) > 0 {
		if err := json.Unmarshal(d.ResultJSON, &m.ResultJSON); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (s *jobStore) FindByID(id string) (*model.ProcessingJob, error) {
	return findJobByID(s.db, id)
}

func (s *jobStore) Create(m *model.ProcessingJob) error {
	return createJob(s.db, m)
}

func (s *jobStore) Update(m *model.ProcessingJob) error {
	return updateJob(s.db, m)
}

func findJobByID(db *sqlx.DB, id string) (*model.ProcessingJob, error) {
	d := sqlDataJob{}
	query := "SELECT * FROM processing_jobs WHERE id=$1"
	if err := db.Get(&d, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find processing job")
	}

	return d.Model()
}

func createJob(db *sqlx.DB, m *model.ProcessingJob) error {
	m.ID = uuid.New().String()
	if m.Status == "" {
		m.Status = model.JobStatusQueued
	}
	if m.ResultJSON == nil {
		m.ResultJSON = map[string]interface{}{}
	}
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt

	d := sqlDataJob{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert processing job model to SQL data")
	}

	query := `INSERT INTO processing_jobs
		(id, incident_id, status, result_json, output_url, created_at, updated_at)
		VALUES
		(:id, :incident_id, :status, :result_json, :output_url, :created_at, :updated_at)`
	if _, err := db.NamedExec(query, d); err != nil {
		return errors.Wrap(err, "failed to create processing job")
	}

	return nil
}

func updateJob(db *sqlx.DB, m *model.ProcessingJob) error {
	m.UpdatedAt = time.Now().UTC()

	d := sqlDataJob{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert processing job model to SQL data")
	}

	query := `UPDATE processing_jobs
		SET status=:status, result_json=:result_json, output_url=:output_url, updated_at=:updated_at
		WHERE id=:id`
	res, err := db.NamedExec(query, d)
	if err != nil {
		return errors.Wrap(err, "failed to update processing job")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to update processing job")
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}
