package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processflow/domain/events"
)

type nopBus struct{}

func (nopBus) Publish(context.Context, events.DomainEvent) error { return nil }
func (nopBus) PublishBatch(context.Context, []events.DomainEvent) error { return nil }

func TestCollector_HTTPMiddleware(t *testing.T) {
	c := NewCollector("test")
	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/nodes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nodes/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues(http.MethodGet, "/nodes/{id}", "404")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.ObserveCommand("AddNodeCommand", time.Millisecond, nil)
	c.ObserveCommand("AddNodeCommand", time.Millisecond, errors.New("boom"))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `test_commands_total{command="AddNodeCommand",status="ok"} 1`)
	assert.Contains(t, body, `test_commands_total{command="AddNodeCommand",status="error"} 1`)
}

func TestCountingBus(t *testing.T) {
	c := NewCollector("test")
	bus := NewCountingBus(nopBus{}, c)

	require.NoError(t, bus.Publish(context.Background(), events.NewEdgeDeleted("e1", time.Now())))
	require.NoError(t, bus.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewEdgeDeleted("e2", time.Now()),
		events.NewNodeDeleted("n1", nil, time.Now()),
	}))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RecordEvents.WithLabelValues(events.TypeEdgeDeleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RecordEvents.WithLabelValues(events.TypeNodeDeleted)))
}

func TestNewLogger_TeesIntoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	logger, err := NewLogger(LogOptions{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("hello file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello file"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "warn", parseLevel("WARN").String())
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("loud").String())
}
