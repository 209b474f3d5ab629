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

type pingCommand struct{ fail bool }

func (c pingCommand) Validate() error { return nil }

type invalidCommand struct{}

func (c invalidCommand) Validate() error { return errors.New("missing field") }

func TestCommandBus_SendReturnsResult(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return "pong", nil
	})))

	res, err := b.Send(context.Background(), pingCommand{})

	require.NoError(t, err)
	assert.Equal(t, "pong", res)
}

func TestCommandBus_Errors(t *testing.T) {
	b := NewCommandBus()

	_, err := b.Send(context.Background(), pingCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = b.Send(context.Background(), invalidCommand{})
	assert.ErrorContains(t, err, "missing field")
}

func TestPipeline_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	b := NewCommandBus(mark("first"), mark("second"))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(context.Context, Command) (interface{}, error) {
		order = append(order, "handler")
		return nil, nil
	})))

	_, err := b.Send(context.Background(), pingCommand{})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestTracingMiddleware_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	b := NewCommandBus(TracingMiddleware(observability.NewTracer("processflow")))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(_ context.Context, cmd Command) (interface{}, error) {
		if cmd.(pingCommand).fail {
			return nil, errors.New("boom")
		}
		return "pong", nil
	})))

	res, err := b.Send(context.Background(), pingCommand{})
	require.NoError(t, err)
	assert.Equal(t, "pong", res)
	_, err = b.Send(context.Background(), pingCommand{fail: true})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "processflow.command.pingCommand", spans[0].Name())
	assert.NotEmpty(t, spans[1].Events())
}
