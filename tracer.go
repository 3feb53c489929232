package jido

import "context"

// SpanAttr is a single key/value span attribute.
type SpanAttr struct {
	Key   string
	Value any
}

func StringAttr(key, value string) SpanAttr {
	return SpanAttr{key, value}
}

func IntAttr(key string, value int) SpanAttr {
	return SpanAttr{key, value}
}

func BoolAttr(key string, value bool) SpanAttr {
	return SpanAttr{key, value}
}

func Float64Attr(key string, value float64) SpanAttr {
	return SpanAttr{key, value}
}

// Span is a single observability span; Tracer implementations produce
// these around agent-server work (signal processing, directive
// execution).
type Span interface {
	SetAttr(attr SpanAttr)
	Event(name string, attrs ...SpanAttr)
	Error(err error)
	End()
}

// Tracer is the pluggable observability collaborator assumed by spec.md
// §1 ("the observability tracer... a pluggable interface emitting
// start/stop/exception spans"), grounded on the teacher's tracer.go. The
// core depends only on this interface; telemetry/tracer.go supplies one
// concrete OTel-backed implementation as default sample wiring.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...SpanAttr) (context.Context, Span)
}

type noopSpan struct{}

func (noopSpan) SetAttr(SpanAttr)          {}
func (noopSpan) Event(string, ...SpanAttr) {}
func (noopSpan) Error(error)               {}
func (noopSpan) End()                      {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, name string, attrs ...SpanAttr) (context.Context, Span) {
	return ctx, noopSpan{}
}

// NoopTracer is the default Tracer when none is configured.
var NoopTracer Tracer = noopTracer{}
