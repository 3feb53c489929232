package jido

import "time"

// Clock is the injectable time source behind Schedule's delayed delivery,
// kept separate from the cron engine so "send me this signal in 5ms"
// tests don't need to wait on a wall clock (spec.md §9 "Time").
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the minimal handle a Clock hands back for a scheduled callback.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// RealClock is the default Clock, backed by the standard library.
var RealClock Clock = realClock{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
