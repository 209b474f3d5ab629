package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processflow/application/analytics"
	"processflow/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Defaults()
	cfg.LogLevel = "error"
	cfg.APIBaseURL = ""
	cfg.ReportDestination = t.TempDir()
	return cfg
}

func newContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	c, err := InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(context.Background()) })
	return c
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestInitializeContainer_WithoutAnalyticsAPI(t *testing.T) {
	c := newContainer(t, testConfig(t))

	assert.Nil(t, c.Dashboard)
	assert.Nil(t, c.Reports)
	assert.Nil(t, c.Dataset)
	assert.Nil(t, c.Tracing)
	assert.NotNil(t, c.Metrics)

	rec := serve(t, c.Handler, http.MethodGet, "/api/v2/nodes")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Count)

	rec = serve(t, c.Handler, http.MethodPost, "/api/v2/reports")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInitializeContainer_MetricsOff(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnableMetrics = false
	cfg.SeedMockGraph = false
	c := newContainer(t, cfg)

	assert.Nil(t, c.Metrics)
	assert.Empty(t, c.Workspace.Nodes())
	assert.Equal(t, http.StatusNotFound, serve(t, c.Handler, http.MethodGet, "/metrics").Code)
}

func TestInitializeContainer_MissingDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatasetPath = "does-not-exist.json"
	_, err := InitializeContainer(context.Background(), cfg)
	assert.Error(t, err)
}

// One container serves the mock analytics API, a second one uses it as its
// analytics backend.
func TestInitializeContainer_AgainstMockAPI(t *testing.T) {
	mockCfg := testConfig(t)
	mockCfg.DatasetPath = "../dataset/testdata/mock_results.json"
	mockAPI := newContainer(t, mockCfg)
	require.NotNil(t, mockAPI.ReportGenerator)

	server := httptest.NewServer(mockAPI.Handler)
	defer server.Close()

	cfg := testConfig(t)
	cfg.APIBaseURL = server.URL
	c := newContainer(t, cfg)
	require.NotNil(t, c.Dashboard)

	rec := serve(t, c.Handler, http.MethodPost, "/api/v2/dashboard/refresh")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view analytics.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.TopImpact.Loaded)
	assert.Empty(t, view.TopImpact.Error)
	assert.NotEmpty(t, view.TopImpact.Slices)

	rec = serve(t, c.Handler, http.MethodPost, "/api/v2/reports")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
	assert.True(t, strings.HasSuffix(rec.Header().Get("X-Report-Location"), analytics.ReportFileName))
}
