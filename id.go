package jido

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a fresh globally-unique identifier suitable for signal and
// agent ids.
func NewID() string {
	return uuid.NewString()
}

// newTraceID returns a fresh 128-bit hex-encoded trace id.
func newTraceID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// newSpanID returns a fresh 64-bit hex-encoded span id.
func newSpanID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
