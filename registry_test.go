package jido

import "testing"

func TestRegistryUniqueness(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("a", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("a", nil); !IsKind(err, KindAlreadyStarted) {
		t.Fatalf("expected already_started, got %v", err)
	}
	if _, ok := r.Whereis("a"); !ok {
		t.Fatal("expected a to be found")
	}
	r.Unregister("a")
	if _, ok := r.Whereis("a"); ok {
		t.Fatal("expected a to be gone after Unregister")
	}
}

func TestRegistryCountAndList(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("a", nil)
	_ = r.Register("b", nil)
	if r.Count() != 2 {
		t.Fatalf("expected count=2, got %d", r.Count())
	}
	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
}
