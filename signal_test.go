package jido

import "testing"

func TestSignalValid(t *testing.T) {
	if (Signal{}).Valid() {
		t.Fatal("zero-value signal should be invalid")
	}
	if !NewSignal("ping", "test", nil).Valid() {
		t.Fatal("a constructed signal should be valid")
	}
}

func TestSignalWithTraceContextDoesNotMutateOriginal(t *testing.T) {
	base := NewSignal("ping", "test", nil)
	tc := rootTraceContext()
	withTC := base.WithTraceContext(tc)

	if _, ok := base.TraceContext(); ok {
		t.Fatal("original signal should be unaffected")
	}
	got, ok := withTC.TraceContext()
	if !ok || got.TraceID != tc.TraceID {
		t.Fatal("expected the new signal to carry the trace context")
	}
}
