package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/grocer/internal/adapters/telemetry"
	"go.trai.ch/grocer/internal/core/ports"
)

func newRecordedTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracer(tp, telemetry.InstrumentationName), rec
}

func attrMap(attrs []attribute.KeyValue) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}

func TestOTelTracer_StartWithAttributes(t *testing.T) {
	tracer, rec := newRecordedTracer(t)

	_, span := tracer.Start(context.Background(), "loader.run",
		ports.WithAttribute("query_name", "posts"),
		ports.WithAttribute("cache_enabled", true),
	)
	span.SetAttribute("result_bytes", 128)
	span.SetAttribute("names", []string{"a", "b"})
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("size", int64(7))
	span.SetAttribute("other", struct{ X int }{1})
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "loader.run", spans[0].Name())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "posts", attrs["query_name"])
	assert.Equal(t, true, attrs["cache_enabled"])
	assert.Equal(t, int64(128), attrs["result_bytes"])
	assert.Equal(t, []string{"a", "b"}, attrs["names"])
	assert.InDelta(t, 0.5, attrs["ratio"], 0)
	assert.Equal(t, int64(7), attrs["size"])
	assert.Equal(t, "{1}", attrs["other"])
}

func TestOTelTracer_RecordError(t *testing.T) {
	tracer, rec := newRecordedTracer(t)

	_, span := tracer.Start(context.Background(), "loader.fetch")
	span.RecordError(nil)
	span.RecordError(errors.New("remote fetch failed"))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "remote fetch failed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestOTelTracer_NestedSpans(t *testing.T) {
	tracer, rec := newRecordedTracer(t)

	ctx, parent := tracer.Start(context.Background(), "loader.run")
	_, child := tracer.Start(ctx, "loader.fetch")
	child.End()
	parent.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	gotCtx, span := tracer.Start(ctx, "test-span", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, gotCtx)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestInstallWriterExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := telemetry.InstallWriterExporter(buf, false)
	require.NoError(t, err)

	tracer := telemetry.NewOTelTracer(nil, telemetry.InstrumentationName)
	_, span := tracer.Start(context.Background(), "loader.run", ports.WithAttribute("query_name", "posts"))
	span.End()

	require.NoError(t, shutdown(context.Background()))

	var exported map[string]any
	require.NoError(t, json.NewDecoder(buf).Decode(&exported))
	assert.Equal(t, "loader.run", exported["Name"])
}
