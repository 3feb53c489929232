package jido

import (
	"sync"
	"time"
)

// fakeTimer is the Timer handle returned by fakeClock.AfterFunc.
type fakeTimer struct {
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return !f.stopped
}

// fakeClock lets tests fire Schedule callbacks on demand instead of
// waiting on a real duration, per spec.md §9 "Time".
type fakeClock struct {
	mu      sync.Mutex
	pending []func()
}

func (c *fakeClock) Now() time.Time { return time.Time{} }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	c.pending = append(c.pending, f)
	c.mu.Unlock()
	return &fakeTimer{}
}

// FireAll runs every callback scheduled so far, as the real clock would
// once their durations elapsed.
func (c *fakeClock) FireAll() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

// fakeCronEngine is a deterministic CronEngine test double: jobs are
// triggered by calling Fire(name) directly instead of waiting on a real
// clock, per spec.md §9 "the scheduler is an injectable collaborator to
// make cron-driven tests deterministic".
type fakeCronEngine struct {
	mu   sync.Mutex
	jobs map[string]func()
}

func newFakeCronEngine() *fakeCronEngine {
	return &fakeCronEngine{jobs: make(map[string]func())}
}

func (f *fakeCronEngine) UpsertJob(name, expression, timezone string, task func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[name] = task
	return nil
}

func (f *fakeCronEngine) DeleteJob(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, name)
}

func (f *fakeCronEngine) Has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.jobs[name]
	return ok
}

func (f *fakeCronEngine) Fire(name string) bool {
	f.mu.Lock()
	task, ok := f.jobs[name]
	f.mu.Unlock()
	if !ok {
		return false
	}
	task()
	return true
}

// testModule adapts a Strategy (and optional hooks) into a Module for
// tests without needing a dedicated named type per test.
type testModule struct {
	strategy Strategy
	routes   []Route
	init     func(Agent) (Agent, error)
	snapshot func(Agent) map[string]any
}

func (m *testModule) Strategy() Strategy { return m.strategy }

func (m *testModule) Routes() []Route {
	return m.routes
}

func (m *testModule) Init(agent Agent) (Agent, error) {
	if m.init != nil {
		return m.init(agent)
	}
	return agent, nil
}

func (m *testModule) Snapshot(agent Agent) map[string]any {
	if m.snapshot != nil {
		return m.snapshot(agent)
	}
	return nil
}
