package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-intelligence-backend/internal/controller"
	"incident-intelligence-backend/internal/dto"
	"incident-intelligence-backend/internal/store"
)

type fakeDiagnosisService struct {
	result  *dto.DiagnosisResult
	history []*dto.DiagnosisResult
	err     error

	lastReq   dto.DiagnoseRequest
	lastLimit int
}

func (f *fakeDiagnosisService) Diagnose(ctx context.Context, req dto.DiagnoseRequest) (*dto.DiagnosisResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeDiagnosisService) GetDiagnosis(ctx context.Context, requestID string) (*dto.DiagnosisResult, error) {
	for _, r := range f.history {
		if r.RequestID == requestID {
			return r, nil
		}
	}
	return nil, store.ErrDiagnosisNotFound
}

func (f *fakeDiagnosisService) RecentDiagnoses(ctx context.Context, limit int) ([]*dto.DiagnosisResult, error) {
	f.lastLimit = limit
	return f.history, f.err
}

func (f *fakeDiagnosisService) ListTools() []dto.ToolInfo {
	return []dto.ToolInfo{
		{Name: "query_logs", Description: "Query application logs"},
		{Name: "query_metrics", Description: "Query system metrics"},
	}
}

func newDiagnosisRouter(svc *fakeDiagnosisService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller.RegisterDiagnosisRoutes(router, controller.NewDiagnosisController(svc))
	return router
}

func TestHandleHealthCheck(t *testing.T) {
	router := newDiagnosisRouter(&fakeDiagnosisService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleDiagnose_Success(t *testing.T) {
	svc := &fakeDiagnosisService{result: &dto.DiagnosisResult{
		RequestID:     "req_abcd1234",
		Status:        dto.StatusSuccess,
		Query:         "Why is checkout-service slow?",
		Analysis:      "Connection pool exhaustion.",
		ToolsExecuted: []dto.ToolExecution{{ToolName: "query_logs", ResultSummary: "Found 30 logs", DataPoints: 30}},
	}}
	router := newDiagnosisRouter(svc)

	body := `{"query":"Why is checkout-service slow?","service_name":"checkout-service","time_range":"1h"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/diagnose", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "checkout-service", svc.lastReq.ServiceName)
	assert.Equal(t, "1h", svc.lastReq.TimeRange)

	var result dto.DiagnosisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "req_abcd1234", result.RequestID)
	assert.Equal(t, dto.StatusSuccess, result.Status)
	require.Len(t, result.ToolsExecuted, 1)
	assert.Equal(t, "query_logs", result.ToolsExecuted[0].ToolName)
}

func TestHandleDiagnose_BadRequest(t *testing.T) {
	router := newDiagnosisRouter(&fakeDiagnosisService{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"query":`},
		{"missing query", `{"service_name":"checkout-service"}`},
		{"bad time_range", `{"query":"why?","time_range":"10m"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/diagnose", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid request body")
		})
	}
}

func TestHandleDiagnose_ServiceError(t *testing.T) {
	router := newDiagnosisRouter(&fakeDiagnosisService{err: errors.New("model consultation failed: rate limited")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/diagnose", strings.NewReader(`{"query":"why?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	// Provider details stay out of the response body.
	assert.NotContains(t, w.Body.String(), "rate limited")
}

func TestHandleGetDiagnosis(t *testing.T) {
	svc := &fakeDiagnosisService{history: []*dto.DiagnosisResult{
		{RequestID: "req_known", Analysis: "pool exhaustion"},
	}}
	router := newDiagnosisRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/diagnoses/req_known", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result dto.DiagnosisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "req_known", result.RequestID)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/diagnoses/req_unknown", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Diagnosis not found")
}

func TestHandleRecentDiagnoses(t *testing.T) {
	svc := &fakeDiagnosisService{history: []*dto.DiagnosisResult{
		{RequestID: "req_2"},
		{RequestID: "req_1"},
	}}
	router := newDiagnosisRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/diagnoses?limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.lastLimit)

	var results []dto.DiagnosisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "req_2", results[0].RequestID)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/diagnoses?limit=nope", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRecentDiagnoses_EmptyHistory(t *testing.T) {
	router := newDiagnosisRouter(&fakeDiagnosisService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/diagnoses", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandleListTools(t *testing.T) {
	router := newDiagnosisRouter(&fakeDiagnosisService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ToolListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tools, 2)
	assert.Equal(t, "query_logs", resp.Tools[0].Name)
	assert.Equal(t, "query_metrics", resp.Tools[1].Name)
}
