package analytics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "processflow/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, DefaultBreakerConfig(), zap.NewNop())
}

func TestClient_DecodesPayloads(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathTopImpact, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_summary_text":"Air leads","top_impact":{"Air Temperature":0.6}}`)
	})
	mux.HandleFunc(PathScenarios, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"scenario":{"0":"s0"},"kpi_value":{"0":500.1},"elements":{"0":{"Setpoint":{"Air.temperature":"450K"}}}}`)
	})
	mux.HandleFunc(PathTopTemperatures, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_scenarios":[{"scenario":"s0","kpi_value":500.1,"temperatures":{"Air.temperature":{"value":450,"formatted":"450K"}}}]}`)
	})
	mux.HandleFunc(PathSetpointImpacts, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"equipment":"Air","setpoint":"temperature","weightage":0.4,"unit":"K"}]`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	impact, err := c.TopImpact(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Air leads", impact.TopSummaryText)
	assert.Equal(t, 0.6, impact.TopImpact["Air Temperature"])

	scenarios, err := c.Scenarios(ctx)
	require.NoError(t, err)
	assert.Equal(t, "450K", scenarios.Elements["0"].Setpoint["Air.temperature"])
	assert.Equal(t, 500.1, scenarios.KPIValue["0"])

	temps, err := c.TopScenariosTemperatures(ctx)
	require.NoError(t, err)
	require.Len(t, temps.TopScenarios, 1)
	assert.Equal(t, 450.0, temps.TopScenarios[0].Temperatures["Air.temperature"].Value)

	impacts, err := c.SetpointImpacts(ctx)
	require.NoError(t, err)
	require.Len(t, impacts, 1)
	assert.Equal(t, "Air", impacts[0].Equipment)
}

func TestClient_Report(t *testing.T) {
	generated := false
	mux := http.NewServeMux()
	mux.HandleFunc(PathGenerateReport, func(w http.ResponseWriter, r *http.Request) {
		generated = true
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	mux.HandleFunc(PathDownloadReport, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.3")
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.GenerateReport(context.Background()))
	assert.True(t, generated)

	body, err := c.DownloadReport(context.Background())
	require.NoError(t, err)
	defer body.Close()
	data, _ := io.ReadAll(body)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestClient_ErrorMapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathTopImpact, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc(PathScenarios, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	})
	c := newTestClient(t, mux)

	_, err := c.TopImpact(context.Background())
	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.ErrorTypeExternal, appErr.Type)
	assert.Equal(t, http.StatusInternalServerError, appErr.Details["status"])

	_, err = c.Scenarios(context.Background())
	assert.True(t, pkgerrors.IsExternal(err))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := NewClient(url, time.Second, DefaultBreakerConfig(), nil)

	_, err := c.TopImpact(context.Background())

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeNetwork))
}

func TestClient_BreakerOpens(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	cfg := DefaultBreakerConfig()
	cfg.MinRequests = 2
	cfg.FailureThreshold = 0.5
	c = NewClient(c.baseURL, time.Second, cfg, zap.NewNop())
	require.NoError(t, c.Ready())

	for i := 0; i < 2; i++ {
		_, err := c.TopImpact(context.Background())
		require.True(t, pkgerrors.IsExternal(err))
	}
	_, err := c.TopImpact(context.Background())

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.Equal(t, 2, calls)
	assert.True(t, pkgerrors.IsType(c.Ready(), pkgerrors.ErrorTypeUnavailable))
}

type recordingObserver struct {
	paths []string
	errs  []error
}

func (o *recordingObserver) ObserveFetch(path string, _ time.Duration, err error) {
	o.paths = append(o.paths, path)
	o.errs = append(o.errs, err)
}

func TestClient_ObserverSeesEveryCall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathTopImpact, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"top_impact":{}}`)
	})
	obs := &recordingObserver{}
	c := newTestClient(t, mux).WithObserver(obs)

	_, err := c.TopImpact(context.Background())
	require.NoError(t, err)
	_, err = c.Scenarios(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{PathTopImpact, PathScenarios}, obs.paths)
	assert.NoError(t, obs.errs[0])
	assert.Error(t, obs.errs[1])
}
