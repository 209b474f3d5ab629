package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"processflow/pkg/observability"
)

type countQuery struct{}

func (q countQuery) Validate() error { return nil }

type badQuery struct{}

func (q badQuery) Validate() error { return errors.New("id is required") }

func answer(v interface{}) QueryHandlerFunc {
	return func(context.Context, Query) (interface{}, error) { return v, nil }
}

func TestQueryBus_Ask(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(countQuery{}, answer(3)))

	res, err := b.Ask(context.Background(), countQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, res)

	assert.Error(t, b.Register(countQuery{}, answer(4)), "duplicate registration")
}

func TestQueryBus_Errors(t *testing.T) {
	b := NewQueryBus()

	_, err := b.Ask(context.Background(), countQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = b.Ask(context.Background(), badQuery{})
	assert.ErrorContains(t, err, "id is required")
}

func TestQueryBus_MiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next QueryHandler) QueryHandler {
			return QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, q)
			})
		}
	}
	b := NewQueryBus(mark("outer"), mark("inner"))
	require.NoError(t, b.Register(countQuery{}, answer(nil)))

	_, err := b.Ask(context.Background(), countQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestQueryBus_TracingMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	b := NewQueryBus(TracingMiddleware(observability.NewTracer("processflow")))
	require.NoError(t, b.Register(countQuery{}, answer(1)))

	_, err := b.Ask(context.Background(), countQuery{})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "processflow.query.countQuery", spans[0].Name())
}
