package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/service"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	log := zaptest.NewLogger(t)
	m := metrics.NewCollector("clinical-records", prometheus.NewRegistry())

	patients := memory.NewPatientStore()
	wards := memory.NewWardStore()
	staff := memory.NewStaffStore()
	diagnoses := memory.NewDiagnosisStore()
	audit := service.NewAuditService(memory.NewAuditStore(), 64, m, log)

	h := NewHandler(Services{
		Patients: service.NewPatientService(patients, patients.Archive(), audit, m, log),
		Clinical: service.NewClinicalRecordService(service.Registries{
			Patients:  patients,
			Wards:     wards,
			Staff:     staff,
			Diagnoses: diagnoses,
		}, audit, m, log),
		Staff:     service.NewStaffService(staff, audit, m, log),
		Wards:     service.NewWardService(wards, audit, m, log),
		Diagnoses: service.NewDiagnosisService(diagnoses, audit, m, log),
		Audit:     audit,
	})

	r := gin.New()
	r.Use(middleware.RequestID())
	h.RegisterRoutes(r.Group("/api/v1"))
	return &api{t: t, router: r}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *api) mustDo(method, path string, body any, wantStatus int) map[string]any {
	a.t.Helper()
	rec := a.do(method, path, body)
	require.Equal(a.t, wantStatus, rec.Code, rec.Body.String())
	if rec.Body.Len() == 0 {
		return nil
	}
	var out map[string]any
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Code
}

func (a *api) registerPatient(id int64) {
	a.mustDo(http.MethodPost, "/patients", map[string]any{
		"id":              id,
		"document_number": fmt.Sprintf("DOC-%d", id),
		"record_number":   fmt.Sprintf("HC-%d", id),
		"first_name":      "Lucía",
		"last_name":       "Gómez",
		"date_of_birth":   "1990-01-02",
	}, http.StatusCreated)
}

func TestBedAssignmentEndpoint(t *testing.T) {
	a := newAPI(t)
	a.registerPatient(100)

	rec := a.do(http.MethodPost, "/patients/100/bed-assignments", map[string]any{"ward_id": 1, "bed_number": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NO_WARDS_REGISTERED", errorCode(t, rec))

	a.mustDo(http.MethodPost, "/wards", map[string]any{"id": 1, "name": "Pediatría", "capacity": 2}, http.StatusCreated)

	out := a.mustDo(http.MethodPost, "/patients/100/bed-assignments", map[string]any{"ward_id": 1, "bed_number": 2}, http.StatusCreated)
	data := out["data"].(map[string]any)
	assert.Equal(t, "Pediatría", data["ward_name"])
	assert.EqualValues(t, 2, data["bed_number"])

	rec = a.do(http.MethodPost, "/patients/100/bed-assignments", map[string]any{"ward_id": 1, "bed_number": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BED_NUMBER", errorCode(t, rec))

	rec = a.do(http.MethodPost, "/patients/100/bed-assignments", map[string]any{"ward_id": 7, "bed_number": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "WARD_NOT_FOUND", errorCode(t, rec))

	for _, bed := range []any{"abc", 1.5, nil, true} {
		rec = a.do(http.MethodPost, "/patients/100/bed-assignments", map[string]any{"ward_id": 1, "bed_number": bed})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "bed_number %v", bed)
		assert.Equal(t, "INVALID_BED_NUMBER", errorCode(t, rec), "bed_number %v", bed)
	}

	// Ward lookup still wins over a malformed bed.
	rec = a.do(http.MethodPost, "/patients/100/bed-assignments", map[string]any{"ward_id": 7, "bed_number": "abc"})
	assert.Equal(t, "WARD_NOT_FOUND", errorCode(t, rec))

	hist := a.mustDo(http.MethodGet, "/patients/100/history", nil, http.StatusOK)["data"].(map[string]any)
	assert.Len(t, hist["bed_assignments"], 1)
}

func TestVisitCardEndpoint_LimitAndNumbering(t *testing.T) {
	a := newAPI(t)
	a.registerPatient(100)

	body := map[string]any{"start_time": "10:00", "end_time": "11:00", "visitor_name": "Pedro"}
	for i := 1; i <= 4; i++ {
		out := a.mustDo(http.MethodPost, "/patients/100/visit-cards", body, http.StatusCreated)
		assert.Equal(t, fmt.Sprintf("T-100-%d", i), out["data"].(map[string]any)["number"])
	}

	rec := a.do(http.MethodPost, "/patients/100/visit-cards", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CARD_LIMIT_REACHED", errorCode(t, rec))
}

func TestVisitAndDiagnosisEndpoints(t *testing.T) {
	a := newAPI(t)
	a.registerPatient(100)

	rec := a.do(http.MethodPost, "/patients/100/visits", map[string]any{"staff_id": "M1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "STAFF_NOT_FOUND", errorCode(t, rec))

	a.mustDo(http.MethodPost, "/staff", map[string]any{"id": "M1", "first_name": "Ana", "last_name": "Ruiz"}, http.StatusCreated)
	out := a.mustDo(http.MethodPost, "/patients/100/visits", map[string]any{"staff_id": "M1"}, http.StatusCreated)
	assert.Equal(t, "Ana Ruiz", out["data"].(map[string]any)["physician"])
	a.mustDo(http.MethodDelete, "/staff/M1", nil, http.StatusNoContent)

	a.mustDo(http.MethodPost, "/diagnoses", map[string]any{"code": "J45", "description": "Asma"}, http.StatusCreated)
	a.mustDo(http.MethodPost, "/patients/100/diagnoses", map[string]any{"diagnosis_code": "J45"}, http.StatusCreated)
	a.mustDo(http.MethodPatch, "/diagnoses/J45", map[string]any{"description": "Asma bronquial"}, http.StatusOK)

	rec = a.do(http.MethodPost, "/patients/100/diagnoses", map[string]any{"diagnosis_code": "X00"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DIAGNOSIS_NOT_FOUND", errorCode(t, rec))

	hist := a.mustDo(http.MethodGet, "/patients/100/history", nil, http.StatusOK)["data"].(map[string]any)
	visits := hist["visits"].([]any)
	require.Len(t, visits, 1)
	assert.Equal(t, "Ana Ruiz", visits[0].(map[string]any)["physician"])
	diags := hist["diagnoses"].([]any)
	require.Len(t, diags, 1)
	assert.Equal(t, "Asma", diags[0].(map[string]any)["description"])
}

func TestDischargeEndpoint(t *testing.T) {
	a := newAPI(t)
	a.registerPatient(100)
	a.mustDo(http.MethodPost, "/wards", map[string]any{"id": 1, "name": "Pediatría", "capacity": 2}, http.StatusCreated)

	out := a.mustDo(http.MethodPost, "/patients/100/discharge", nil, http.StatusOK)
	assert.Equal(t, "archived", out["data"].(map[string]any)["status"])

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/patients/100/discharge", nil},
		{http.MethodPost, "/patients/100/bed-assignments", map[string]any{"ward_id": 1, "bed_number": 1}},
		{http.MethodPost, "/patients/100/visit-cards", map[string]any{}},
		{http.MethodGet, "/patients/100/history", nil},
		{http.MethodGet, "/patients/100", nil},
	} {
		rec := a.do(tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "PATIENT_NOT_FOUND", errorCode(t, rec), "%s %s", tc.method, tc.path)
	}

	archived := a.mustDo(http.MethodGet, "/archive/100", nil, http.StatusOK)["data"].([]any)
	assert.Len(t, archived, 1)
	all := a.mustDo(http.MethodGet, "/archive", nil, http.StatusOK)["data"].([]any)
	assert.Len(t, all, 1)
}

func TestPatientEndpoints_EmptyLogsAreArrays(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/patients", map[string]any{
		"id": 9, "document_number": "D-9", "record_number": "HC-9", "first_name": "Ana", "last_name": "Ruiz", "date_of_birth": "1985-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assertEmptyLogs(t, rec.Body.String())

	rec = a.do(http.MethodGet, "/patients/9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assertEmptyLogs(t, rec.Body.String())

	rec = a.do(http.MethodPost, "/patients/9/discharge", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assertEmptyLogs(t, rec.Body.String())
}

func assertEmptyLogs(t *testing.T, body string) {
	t.Helper()
	for _, field := range []string{"bed_assignments", "visits", "diagnoses", "visit_cards"} {
		assert.Contains(t, body, `"`+field+`":[]`)
	}
	assert.NotContains(t, body, "null")
}

func TestPatientEndpoints_Validation(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/patients", map[string]any{"id": 1, "date_of_birth": "02/01/1990"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE_OF_BIRTH", errorCode(t, rec))

	rec = a.do(http.MethodPost, "/patients", map[string]any{"id": 1, "date_of_birth": "1990-01-02"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var vErr ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vErr))
	assert.Equal(t, "VALIDATION_FAILED", vErr.Code)
	assert.NotEmpty(t, vErr.Fields)

	a.registerPatient(5)
	rec = a.do(http.MethodPost, "/patients", map[string]any{
		"id": 5, "document_number": "D", "record_number": "R", "first_name": "A", "last_name": "B", "date_of_birth": "1990-01-02",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PATIENT_ALREADY_EXISTS", errorCode(t, rec))

	rec = a.do(http.MethodGet, "/patients/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	out := a.mustDo(http.MethodPatch, "/patients/5", map[string]any{"phone": "555-0199"}, http.StatusOK)
	assert.Equal(t, "555-0199", out["data"].(map[string]any)["phone"])

	a.mustDo(http.MethodDelete, "/patients/5", nil, http.StatusNoContent)
	list := a.mustDo(http.MethodGet, "/patients", nil, http.StatusOK)["data"].([]any)
	assert.Empty(t, list)
}

func TestRegistryEndpoints(t *testing.T) {
	a := newAPI(t)

	a.mustDo(http.MethodPost, "/wards", map[string]any{"id": 1, "name": "Pediatría", "capacity": 2}, http.StatusCreated)
	rec := a.do(http.MethodPost, "/wards", map[string]any{"id": 1, "name": "Dup", "capacity": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)
	a.mustDo(http.MethodGet, "/wards/1", nil, http.StatusOK)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/wards/2", nil).Code)
	assert.Len(t, a.mustDo(http.MethodGet, "/wards", nil, http.StatusOK)["data"], 1)

	a.mustDo(http.MethodPost, "/staff", map[string]any{"id": "M1", "first_name": "Ana", "last_name": "Ruiz"}, http.StatusCreated)
	out := a.mustDo(http.MethodPatch, "/staff/M1", map[string]any{"first_name": "Ana", "last_name": "Ruiz Pérez"}, http.StatusOK)
	assert.Equal(t, "Ana Ruiz Pérez", out["data"].(map[string]any)["full_name"])
	assert.Len(t, a.mustDo(http.MethodGet, "/staff", nil, http.StatusOK)["data"], 1)
	a.mustDo(http.MethodGet, "/staff/M1", nil, http.StatusOK)

	a.mustDo(http.MethodPost, "/diagnoses", map[string]any{"code": "J45", "description": "Asma"}, http.StatusCreated)
	a.mustDo(http.MethodGet, "/diagnoses/J45", nil, http.StatusOK)
	assert.Len(t, a.mustDo(http.MethodGet, "/diagnoses", nil, http.StatusOK)["data"], 1)
	a.mustDo(http.MethodDelete, "/diagnoses/J45", nil, http.StatusNoContent)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/diagnoses/J45", nil).Code)

	paged := a.mustDo(http.MethodGet, "/audit-logs?limit=5", nil, http.StatusOK)
	assert.EqualValues(t, 5, paged["limit"])
}
