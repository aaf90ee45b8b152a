package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo"
	"github.com/saieshwardev-lab/UrbanEye/pkg/model"
	"github.com/saieshwardev-lab/UrbanEye/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateIncident(t *testing.T) {
	h := NewHandler(memory.NewStore())
	e := echo.New()

	body := `{"type":"pothole","location":{"lat":1,"lng":2},"confidence":0.87}`
	c, rec := newTestContext(e, http.MethodPost, "/api/events", body)
	require.NoError(t, h.handleCreateIncident(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	created := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "pothole", created["type"])
	assert.Equal(t, model.StatusNew, created["status"])
	assert.Equal(t, 0.87, created["confidence"])

	location, ok := created["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, location["lat"])
	assert.Equal(t, 2.0, location["lng"])
}

func TestCreateIncidentRequiresType(t *testing.T) {
	h := NewHandler(memory.NewStore())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodPost, "/api/events", `{"cctv_id":"cam-7"}`)
	require.NoError(t, h.handleCreateIncident(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchIncidentsNewestFirstBounded(t *testing.T) {
	store := memory.NewStore()
	h := NewHandler(store)
	e := echo.New()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < maxListCount+10; i++ {
		m := &model.Incident{
			Type:      "pothole",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.Incidents().Create(m))
	}

	c, rec := newTestContext(e, http.MethodGet, "/api/events", "")
	require.NoError(t, h.handleFetchIncidents(c))
	require.Equal(t, http.StatusOK, rec.Code)

	out := struct {
		Members []struct {
			Timestamp time.Time `json:"timestamp"`
		} `json:"members"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Members, maxListCount)

	for i := 1; i < len(out.Members); i++ {
		assert.True(t, out.Members[i-1].Timestamp.After(out.Members[i].Timestamp),
			"expected newest-first ordering at index %d", i)
	}
}

func TestGetIncidentByIDNotFound(t *testing.T) {
	h := NewHandler(memory.NewStore())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/api/events/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.handleGetIncidentByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIncidentStatusLifecycle(t *testing.T) {
	store := memory.NewStore()
	h := NewHandler(store)
	e := echo.New()

	// Create
	c, rec := newTestContext(e, http.MethodPost, "/api/events",
		`{"type":"pothole","location":{"lat":1,"lng":2}}`)
	require.NoError(t, h.handleCreateIncident(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	created := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, model.StatusNew, created["status"])
	id := created["id"].(string)

	// Update status
	c, rec = newTestContext(e, http.MethodPatch,
		fmt.Sprintf("/api/events/%s/status", id), `{"status":"resolved"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.handleUpdateIncidentStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	updated := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "resolved", updated["status"])

	// Get reflects the new status
	c, rec = newTestContext(e, http.MethodGet, "/api/events/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.handleGetIncidentByID(c))
	require.Equal(t, http.StatusOK, rec.Code)

	found := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Equal(t, "resolved", found["status"])
}

func TestUpdateStatusNotFound(t *testing.T) {
	h := NewHandler(memory.NewStore())
	e := echo.New()

	c, rec := newTestContext(e, http.MethodPatch, "/api/events/missing/status",
		`{"status":"resolved"}`)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.handleUpdateIncidentStatus(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/health", "")
	require.NoError(t, handleHealth(c))
	require.Equal(t, http.StatusOK, rec.Code)

	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, true, out["ok"])
	assert.NotZero(t, out["ts"])
}
