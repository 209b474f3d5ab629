package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"processflow/application/analytics"
	"processflow/application/commands/bus"
	cmdhandlers "processflow/application/commands/handlers"
	querybus "processflow/application/queries/bus"
	queryhandlers "processflow/application/queries/handlers"
	"processflow/application/services"
	domain "processflow/domain/analytics"
	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"
	"processflow/infrastructure/dataset"
	"processflow/infrastructure/observability"
	"processflow/infrastructure/report"
	"processflow/infrastructure/storage"
	pkgerrors "processflow/pkg/errors"
)

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) TopImpact(ctx context.Context) (domain.TopImpact, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.TopImpact), args.Error(1)
}

func (m *mockAnalytics) Scenarios(ctx context.Context) (domain.Scenarios, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Scenarios), args.Error(1)
}

func (m *mockAnalytics) TopScenariosTemperatures(ctx context.Context) (domain.TopScenariosTemperatures, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.TopScenariosTemperatures), args.Error(1)
}

func (m *mockAnalytics) SetpointImpacts(ctx context.Context) ([]domain.SetpointImpact, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]domain.SetpointImpact)
	return rows, args.Error(1)
}

func (m *mockAnalytics) GenerateReport(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAnalytics) DownloadReport(ctx context.Context) (io.ReadCloser, error) {
	args := m.Called(ctx)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

type testServer struct {
	handler   http.Handler
	workspace *services.Workspace
	analytics *mockAnalytics
	metrics   *observability.Collector
}

func newTestServer(t *testing.T, configure ...func(*Options)) *testServer {
	t.Helper()
	logger := zap.NewNop()

	ws := services.NewWorkspace(services.WorkspaceOptions{
		IDs:        &valueobjects.SequenceGenerator{Prefix: "id"},
		Positioner: valueobjects.NewRandomBox(300, 1),
	}, nil, logger)

	src := &mockAnalytics{}
	store, err := storage.NewReportStore(t.TempDir(), logger)
	require.NoError(t, err)
	dashboard := analytics.NewDashboard(src, logger)
	reports := analytics.NewReportService(src, store, logger)

	metrics := observability.NewCollector("test")
	commandBus := bus.NewCommandBus(bus.ObserverMiddleware(metrics))
	require.NoError(t, cmdhandlers.NewRecordHandlers(ws, logger).Register(commandBus))
	require.NoError(t, cmdhandlers.NewAnalyticsHandlers(dashboard, reports, logger).Register(commandBus))
	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.NewReadHandlers(ws, dashboard).Register(queryBus))

	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "infrastructure", "dataset", "testdata", "mock_results.json"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	source, err := dataset.NewSource(path, logger)
	require.NoError(t, err)

	opts := Options{
		EnableCORS:      true,
		Metrics:         metrics,
		Reports:         reports,
		Dataset:         source,
		ReportGenerator: report.NewGenerator(source, logger),
	}
	for _, fn := range configure {
		fn(&opts)
	}
	router := NewRouter(commandBus, queryBus, pkgerrors.NewErrorHandler(logger, false), opts, logger)

	return &testServer{handler: router.Setup(), workspace: ws, analytics: src, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "").Code)

	s = newTestServer(t, func(o *Options) {
		o.Ready = func() error { return pkgerrors.NewUnavailableError("analytics-api") }
	})
	rec := s.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code)
}

func TestNodeEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v2/nodes", `{"label":"Air","type":"type2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	id := created["id"].(string)
	assert.Equal(t, "type2", created["type"])

	rec = s.do(t, http.MethodPost, "/api/v2/nodes", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "New Node", decodeBody(t, rec)["label"])

	rec = s.do(t, http.MethodGet, "/api/v2/nodes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, decodeBody(t, rec)["count"])

	rec = s.do(t, http.MethodPut, "/api/v2/nodes/"+id, `{"label":"Air Intake"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)
	assert.Equal(t, true, updated["applied"])
	assert.Equal(t, "Air Intake", updated["node"].(map[string]interface{})["label"])

	rec = s.do(t, http.MethodGet, "/api/v2/nodes/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "listed", decodeBody(t, rec)["state"])

	rec = s.do(t, http.MethodDelete, "/api/v2/nodes/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["applied"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v2/nodes/"+id, "").Code)
}

func TestUpdateUnknownRecordIsNoop(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v2/nodes/missing", `{"label":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["applied"])
	assert.Equal(t, "update", body["action"])
	assert.Equal(t, "missing", body["id"])
	assert.Nil(t, body["node"])

	rec = s.do(t, http.MethodPut, "/api/v2/edges/missing", `{"upstream":"a"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["applied"])

	assert.Empty(t, s.workspace.Nodes())
	assert.Empty(t, s.workspace.Edges())
}

func TestNodeEndpoints_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v2/nodes", `{"type":"type9"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, string(pkgerrors.ErrorTypeValidation), body["type"])

	rec = s.do(t, http.MethodPost, "/api/v2/nodes", `{"label":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decodeBody(t, rec)["code"])
}

func TestEdgeEndpoints_DeleteScenario(t *testing.T) {
	s := newTestServer(t)
	n1 := decodeBody(t, s.do(t, http.MethodPost, "/api/v2/nodes", `{"label":"n1"}`))["id"].(string)
	n2 := decodeBody(t, s.do(t, http.MethodPost, "/api/v2/nodes", `{"label":"n2"}`))["id"].(string)

	rec := s.do(t, http.MethodPost, "/api/v2/edges", `{"upstream":"`+n1+`","downstream":"`+n2+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v2/nodes/"+n1, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["cascaded_edges"], 1)

	assert.Empty(t, s.workspace.Edges())
	require.Len(t, s.workspace.Nodes(), 1)
	assert.Equal(t, n2, s.workspace.Nodes()[0].ID)
}

func TestEdgeEndpoints_IncompleteEdge(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v2/edges", `{"upstream":"a"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INCOMPLETE_EDGE", decodeBody(t, rec)["code"])
}

func TestTableActions(t *testing.T) {
	s := newTestServer(t)
	id := decodeBody(t, s.do(t, http.MethodPost, "/api/v2/nodes", `{"label":"Fuel"}`))["id"].(string)

	rec := s.do(t, http.MethodPost, "/api/v2/table/actions",
		`{"action":"update","kind":"node","node":{"id":"`+id+`","label":"Fuel Tank","type":"type3"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["applied"])
	assert.Equal(t, "Fuel Tank", s.workspace.Nodes()[0].Label)

	rec = s.do(t, http.MethodPost, "/api/v2/table/actions",
		`{"action":"update","kind":"node","node":{"id":"`+id+`","label":"Fuel Line"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	row := decodeBody(t, rec)["node"].(map[string]interface{})
	assert.Equal(t, "Fuel Line", row["label"])
	assert.Equal(t, "type3", row["type"])
	assert.Equal(t, entities.NodeType3, s.workspace.Nodes()[0].Type)
	assert.Equal(t, entities.NodeType3, s.workspace.Canvas().Nodes[0].Data.Type)

	rec = s.do(t, http.MethodPost, "/api/v2/table/actions", `{"action":"archive","kind":"node","node":{"id":"`+id+`"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v2/table/actions", `{"action":"delete","kind":"node","node":{"id":"missing"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["applied"])
}

func TestCanvasEndpoints(t *testing.T) {
	s := newTestServer(t)
	a := decodeBody(t, s.do(t, http.MethodPost, "/api/v2/nodes", `{"label":"a"}`))["id"].(string)
	b := decodeBody(t, s.do(t, http.MethodPost, "/api/v2/nodes", `{"label":"b"}`))["id"].(string)

	rec := s.do(t, http.MethodPost, "/api/v2/canvas/connect", `{"source":"`+a+`","target":"`+b+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["visible"])

	rec = s.do(t, http.MethodPut, "/api/v2/canvas/nodes/"+a+"/position", `{"x":12,"y":34}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v2/canvas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody(t, rec)
	assert.Len(t, view["nodes"], 2)
	assert.Len(t, view["edges"], 1)

	rec = s.do(t, http.MethodDelete, "/api/v2/canvas/nodes/"+a, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["cascaded_edges"], 1)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v2/canvas/reset", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/v2/canvas/nodes/missing/position", `{"x":1,"y":1}`).Code)
}

func TestDashboardEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.analytics.On("TopImpact", mock.Anything).Return(domain.TopImpact{
		TopSummaryText: "air leads",
		TopImpact:      map[string]float64{"Air Temperature": 0.7},
	}, nil)
	s.analytics.On("Scenarios", mock.Anything).Return(domain.Scenarios{}, errors.New("timeout"))
	s.analytics.On("TopScenariosTemperatures", mock.Anything).Return(domain.TopScenariosTemperatures{}, nil)
	s.analytics.On("SetpointImpacts", mock.Anything).Return([]domain.SetpointImpact{
		{Equipment: "Air", Setpoint: "temperature", Weightage: 0.7, Unit: "K"},
	}, nil)

	rec := s.do(t, http.MethodPost, "/api/v2/dashboard/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v2/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody(t, rec)
	assert.Equal(t, "air leads", view["top_impact"].(map[string]interface{})["summary"])
	assert.NotEmpty(t, view["scenarios"].(map[string]interface{})["error"])
	assert.Len(t, view["setpoints"].(map[string]interface{})["rows"], 1)
	s.analytics.AssertExpectations(t)
}

func TestReportEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.analytics.On("GenerateReport", mock.Anything).Return(nil)
	s.analytics.On("DownloadReport", mock.Anything).Return(io.NopCloser(bytes.NewBufferString("%PDF-1.3 test")), nil)

	rec := s.do(t, http.MethodPost, "/api/v2/reports", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), analytics.ReportFileName)
	assert.Equal(t, "%PDF-1.3 test", rec.Body.String())
}

func TestReportEndpoint_UpstreamFailure(t *testing.T) {
	s := newTestServer(t)
	s.analytics.On("GenerateReport", mock.Anything).Return(pkgerrors.NewExternalError("analytics-api", errors.New("500")))

	rec := s.do(t, http.MethodPost, "/api/v2/reports", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	s.analytics.AssertNotCalled(t, "DownloadReport", mock.Anything)
}

func TestMockAPI(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/top-impact", "")
	require.Equal(t, http.StatusOK, rec.Code)
	impact := decodeBody(t, rec)["top_impact"].(map[string]interface{})
	assert.Contains(t, impact, "Air Temperature")

	// chart endpoints are mounted at the root too
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/scenarios", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/top-scenarios-temperatures", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/process-data", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/setpoint-impacts", "").Code)
}

func TestMockAPI_ReportLifecycle(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/download-report", "").Code)

	rec := s.do(t, http.MethodPost, "/api/generate-report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := decodeBody(t, rec)["etag"].(string)

	rec = s.do(t, http.MethodGet, "/api/download-report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, etag, rec.Header().Get("ETag"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))

	req := httptest.NewRequest(http.MethodGet, "/api/download-report", nil)
	req.Header.Set("If-None-Match", etag)
	cached := httptest.NewRecorder()
	s.handler.ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
}

func TestMockAPI_ReportRateLimit(t *testing.T) {
	s := newTestServer(t, func(o *Options) { o.ReportRateLimit = 2 })

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/generate-report", "").Code)
	}
	rec := s.do(t, http.MethodPost, "/api/generate-report", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeBody(t, rec)["code"])

	// Downloads are not limited
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/download-report", "").Code)
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v2/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.do(t, http.MethodGet, "/api/v2/nodes", "")
	rec = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",route="/api/v2/nodes`)
}
