package jido

import (
	"fmt"
	"strings"
)

// TraceContext is the propagated identifier set used to correlate signals
// across agents: same trace_id along a causal chain, a fresh span_id at
// every hop, parent_span_id pointing at the span that produced this one,
// and causation_id naming the signal id that caused this one to be
// created.
type TraceContext struct {
	TraceID      string
	SpanID       string
	ParentSpanID string
	CausationID  string
	TraceState   string
}

// rootTraceContext creates a fresh root trace context, used at ingress
// when a signal arrives with no trace extension.
func rootTraceContext() TraceContext {
	return TraceContext{
		TraceID: newTraceID(),
		SpanID:  newSpanID(),
	}
}

// childOf derives the trace context for any signal emitted or scheduled as
// a consequence of processing causeSignalID under the current trace
// context: same trace_id, a new span_id, parent_span_id set to the
// current span_id, and causation_id set to the id of the signal that
// caused it (spec.md §4.6).
func (tc TraceContext) childOf(causeSignalID string) TraceContext {
	return TraceContext{
		TraceID:      tc.TraceID,
		SpanID:       newSpanID(),
		ParentSpanID: tc.SpanID,
		CausationID:  causeSignalID,
		TraceState:   tc.TraceState,
	}
}

// ToTraceparent renders the W3C traceparent header value
// "00-<trace_id>-<span_id>-01".
func (tc TraceContext) ToTraceparent() string {
	return fmt.Sprintf("00-%s-%s-01", tc.TraceID, tc.SpanID)
}

// FromTraceparent parses a W3C traceparent header value into a
// TraceContext. It returns false if the value is not well-formed.
func FromTraceparent(value string) (TraceContext, bool) {
	parts := strings.Split(value, "-")
	if len(parts) != 4 {
		return TraceContext{}, false
	}
	version, traceID, spanID, _ := parts[0], parts[1], parts[2], parts[3]
	if version != "00" || len(traceID) != 32 || len(spanID) != 16 {
		return TraceContext{}, false
	}
	return TraceContext{TraceID: traceID, SpanID: spanID}, true
}

// IsZero reports whether tc carries no trace information.
func (tc TraceContext) IsZero() bool {
	return tc.TraceID == "" && tc.SpanID == ""
}
