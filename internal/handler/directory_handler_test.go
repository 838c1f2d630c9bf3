package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-attendance-api/internal/models"
	"github.com/noah-isme/academy-attendance-api/internal/service"
	"github.com/noah-isme/academy-attendance-api/internal/store"
)

func newDirectoryRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDirectoryHandler(service.NewDirectoryService(store.DemoDirectory(), nil, nil))
	router := gin.New()
	router.GET("/branches", h.Branches)
	router.GET("/branches/:id/batches", h.BranchBatches)
	router.GET("/batches/unassigned", h.UnassignedBatches)
	router.GET("/batches/:id/students", h.Roster)
	router.PUT("/batches/:id/coach", h.AssignCoach)
	router.DELETE("/batches/:id/coach", h.UnassignCoach)
	router.GET("/students", h.Students)
	router.GET("/coaches", h.Coaches)
	router.PUT("/coaches/:id", h.UpdateCoach)
	router.PUT("/batches/:id", h.UpdateBatch)
	return router
}

func TestDirectoryHandlerStudentsIncludesFeeSummary(t *testing.T) {
	router := newDirectoryRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students?branchId=b1&limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data       []models.Student  `json:"data"`
		Pagination models.Pagination `json:"pagination"`
		Meta       struct {
			FeeSummary models.FeeSummary `json:"fee_summary"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, 2)
	assert.Equal(t, 3, env.Pagination.TotalCount)
	assert.Equal(t, models.FeeSummary{Total: 3, Paid: 2, Due: 1}, env.Meta.FeeSummary)
}

func TestDirectoryHandlerRosterNotFound(t *testing.T) {
	router := newDirectoryRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/batches/batch9/students", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/branches/all/batches", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDirectoryHandlerCoachAssignment(t *testing.T) {
	router := newDirectoryRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/batches/batch4/coach", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/batches/unassigned", nil))
	var unassigned struct {
		Data []models.Batch `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unassigned))
	require.Len(t, unassigned.Data, 1)
	assert.Equal(t, "batch4", unassigned.Data[0].ID)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/batches/batch4/coach", bytes.NewBufferString(`{"coach_id":"c3"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var assigned struct {
		Data models.Batch `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assigned))
	require.NotNil(t, assigned.Data.CoachID)
	assert.Equal(t, "c3", *assigned.Data.CoachID)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/batches/batch4/coach", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectoryHandlerCoaches(t *testing.T) {
	router := newDirectoryRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coaches?branchId=b2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data []models.CoachDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Suresh Patel", env.Data[0].Name)
	assert.Equal(t, 2, env.Data[0].StudentCount)
}

func TestDirectoryHandlerUpdateCoach(t *testing.T) {
	router := newDirectoryRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/coaches/c2", bytes.NewBufferString(`{"name":"Anita Rao","email":"anita@onfit.com","experience":6,"salary":38000,"branch_id":"b3"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data models.Coach `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Anita Rao", env.Data.Name)
	assert.Equal(t, "b3", env.Data.BranchID)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/coaches/c2", bytes.NewBufferString(`{"name":"","branch_id":"b3"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/coaches/c9", bytes.NewBufferString(`{"name":"X","branch_id":"b3"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDirectoryHandlerUpdateBatch(t *testing.T) {
	router := newDirectoryRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/batches/batch2", bytes.NewBufferString(`{"start_time":"5:30 PM","end_time":"7:00 PM","days":["Mon","Thu"],"branch_id":"b1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data models.Batch `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "5:30 PM - 7:00 PM", env.Data.Timing)
	assert.Equal(t, []string{"Mon", "Thu"}, env.Data.Days)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/batches/batch2", bytes.NewBufferString(`{"start_time":"7:00 PM","end_time":"5:30 PM","days":["Mon"],"branch_id":"b1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "start time must be before end time")
}

func TestDirectoryHandlerStudentsRejectsBadPaging(t *testing.T) {
	router := newDirectoryRouter()

	for _, query := range []string{"page=abc", "limit=ten"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}
