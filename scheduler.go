package jido

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronEngine is the injectable cron/timer collaborator behind Scheduler.
// Tests that need deterministic cron ticks (spec.md §9 "Time") supply a
// fake implementation instead of the real robfig/cron/v3-backed Scheduler.
type CronEngine interface {
	UpsertJob(name, expression, timezone string, task func()) error
	DeleteJob(name string)
	Has(name string) bool
}

// Scheduler is the instance-wide cron/timer service used by time-based
// directives (spec.md §4.1). It wraps robfig/cron/v3's real cron grammar
// (standard 5-field syntax plus @daily/@hourly/@every descriptors) rather
// than the teacher's hand-rolled ComputeNextRun helper — the domain-stack
// donor (r3e-network-service_layer) already depends on robfig/cron/v3 for
// exactly this purpose.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	logger  *zap.Logger
}

var _ CronEngine = (*Scheduler)(nil)

// NewScheduler builds and starts a Scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
		logger:  logger,
	}
	s.cron.Start()
	return s
}

// UpsertJob registers name to run task on every tick of expression
// (optionally localized to timezone), replacing any previous job
// registered under the same name — upsert semantics make duplicate
// registrations idempotent (spec.md §5).
func (s *Scheduler) UpsertJob(name, expression, timezone string, task func()) error {
	spec := expression
	if timezone != "" {
		spec = fmt.Sprintf("CRON_TZ=%s %s", timezone, expression)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.entries[name]; ok {
		s.cron.Remove(prev)
		delete(s.entries, name)
	}
	id, err := s.cron.AddFunc(spec, task)
	if err != nil {
		return WrapError(KindValidation, err, map[string]any{"name": name, "expression": expression})
	}
	s.entries[name] = id
	return nil
}

// DeleteJob removes name. Deleting an unknown name is a no-op (spec.md §8
// idempotence: CronCancel(unknown_id) is a no-op).
func (s *Scheduler) DeleteJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.entries[name]
	if !ok {
		return
	}
	s.cron.Remove(id)
	delete(s.entries, name)
}

// Has reports whether name is currently scheduled — used by tests to
// assert cron jobs are exhaustively cleaned up on server termination
// (spec.md invariant 7).
func (s *Scheduler) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[name]
	return ok
}

// Stop stops the underlying cron engine, waiting for any running job to
// finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
