package jido

import (
	"errors"
	"testing"
)

func TestWrapErrorPreservesUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	wrapped := WrapError(KindDirective, sentinel, map[string]any{"k": "v"})
	if !errors.Is(wrapped, sentinel) {
		t.Fatal("expected errors.Is to find the wrapped sentinel")
	}
	if wrapped.Kind != KindDirective {
		t.Fatalf("unexpected kind %v", wrapped.Kind)
	}
}

func TestIsKind(t *testing.T) {
	err := NewError(KindNotFound, "missing", nil)
	if !IsKind(err, KindNotFound) {
		t.Fatal("expected IsKind to match")
	}
	if IsKind(err, KindValidation) {
		t.Fatal("expected IsKind to reject a different kind")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Fatal("expected IsKind to reject a non-*Error")
	}
}
