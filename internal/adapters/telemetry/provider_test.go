package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/reweave/reweave/internal/adapters/telemetry"
)

// setupRecorder installs a recording tracer provider as the global one.
// Tests using it must not run in parallel.
func setupRecorder() (*tracetest.SpanRecorder, *trace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	return sr, tp
}

func TestOTelTracer_Start(t *testing.T) {
	sr, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test-tracer")

	_, span := tracer.Start(context.Background(), "rewrite")
	span.SetAttribute("unit", "Assembly-CSharp")
	span.SetAttribute("references", 3)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "rewrite", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("unit", "Assembly-CSharp"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("references", 3))
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test-tracer")

	_, span := tracer.Start(context.Background(), "transform")
	span.RecordError(errors.New("transformer failed"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "transformer failed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestOTelSpan_RecordError_NilIsIgnored(t *testing.T) {
	sr, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test-tracer")

	_, span := tracer.Start(context.Background(), "transform")
	span.RecordError(nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Events())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestOTelSpan_SetAttribute_Types(t *testing.T) {
	sr, tp := setupRecorder()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracer("test-tracer")

	_, span := tracer.Start(context.Background(), "attrs")
	span.SetAttribute("s", "str")
	span.SetAttribute("i", 1)
	span.SetAttribute("i64", int64(2))
	span.SetAttribute("b", true)
	span.SetAttribute("f", 1.5)
	span.SetAttribute("other", struct{ X int }{X: 7})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes()
	assert.Contains(t, attrs, attribute.String("s", "str"))
	assert.Contains(t, attrs, attribute.Int("i", 1))
	assert.Contains(t, attrs, attribute.Int64("i64", 2))
	assert.Contains(t, attrs, attribute.Bool("b", true))
	assert.Contains(t, attrs, attribute.Float64("f", 1.5))
	assert.Contains(t, attrs, attribute.String("other", "{7}"))
}

func TestSetup(t *testing.T) {
	tp := telemetry.Setup()
	require.NotNil(t, tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()
}
