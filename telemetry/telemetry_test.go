package telemetry

import (
	"context"
	"testing"

	"github.com/jido-run/jido"
)

func TestInitWithoutExporterProducesUsableTracer(t *testing.T) {
	tp, shutdown, err := Init(context.Background(), Config{ServiceName: "jido-test", ServiceVersion: "0.0.0"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}()

	tracer := NewOTelTracer(tp.Tracer("jido-test"))
	ctx, span := tracer.Start(context.Background(), "unit-test-span", jido.StringAttr("k", "v"))
	if ctx == nil {
		t.Fatal("expected a non-nil context back from Start")
	}
	span.Event("checkpoint")
	span.Error(nil)
	span.End()
}
