// Package telemetry supplies concrete, OTel- and Prometheus-backed
// implementations of the jido package's pluggable Tracer and Metrics
// collaborators. The core never imports this package; an embedding
// application wires it in explicitly, the same separation the teacher
// keeps between its root agent package and its observer/ package.
package telemetry

import (
	"context"

	"github.com/jido-run/jido"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTelTracer bridges jido.Tracer onto a real OpenTelemetry tracer,
// grounded on the teacher's tracer.go/observer/tracer.go start/stop/
// exception span interface.
type OTelTracer struct {
	tracer oteltrace.Tracer
}

// NewOTelTracer wraps an OTel tracer (typically obtained from a
// TracerProvider set up by Init) as a jido.Tracer.
func NewOTelTracer(tracer oteltrace.Tracer) *OTelTracer {
	return &OTelTracer{tracer: tracer}
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...jido.SpanAttr) (context.Context, jido.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := t.tracer.Start(ctx, name)
	otelSpan := &otelSpanAdapter{span: span}
	for _, a := range attrs {
		otelSpan.SetAttr(a)
	}
	return ctx, otelSpan
}

type otelSpanAdapter struct {
	span oteltrace.Span
}

func (s *otelSpanAdapter) SetAttr(attr jido.SpanAttr) {
	s.span.SetAttributes(toOTelAttr(attr))
}

func (s *otelSpanAdapter) Event(name string, attrs ...jido.SpanAttr) {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		kvs = append(kvs, toOTelAttr(a))
	}
	s.span.AddEvent(name, oteltrace.WithAttributes(kvs...))
}

func (s *otelSpanAdapter) Error(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpanAdapter) End() {
	s.span.End()
}

func toOTelAttr(a jido.SpanAttr) attribute.KeyValue {
	switch v := a.Value.(type) {
	case string:
		return attribute.String(a.Key, v)
	case int:
		return attribute.Int(a.Key, v)
	case bool:
		return attribute.Bool(a.Key, v)
	case float64:
		return attribute.Float64(a.Key, v)
	default:
		return attribute.String(a.Key, "")
	}
}
