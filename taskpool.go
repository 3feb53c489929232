package jido

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// TaskPool is a bounded concurrent executor for asynchronous work spawned
// by directives (e.g. Emit's dispatch). It guarantees the release of its
// concurrency slot even if the submitted function panics, mirroring the
// teacher's dispatchParallel goroutine+waitgroup pattern (network.go)
// generalized behind a semaphore instead of an unbounded per-call
// goroutine fan-out.
type TaskPool struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewTaskPool builds a TaskPool allowing at most maxConcurrency tasks to
// run at once. maxConcurrency <= 0 means unbounded.
func NewTaskPool(maxConcurrency int, logger *zap.Logger) *TaskPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	var sem chan struct{}
	if maxConcurrency > 0 {
		sem = make(chan struct{}, maxConcurrency)
	}
	return &TaskPool{sem: sem, logger: logger}
}

// Submit runs fn in the pool. fn's error (or recovered panic) is logged;
// the task pool never retries and never re-queues. Callers observe
// completion, when they need to, by casting a signal back into the
// originating agent from inside fn — the pool itself makes no promise
// about delivery beyond "it ran."
func (p *TaskPool) Submit(ctx context.Context, taskName string, fn func(ctx context.Context) error) {
	if p.sem != nil {
		p.sem <- struct{}{}
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.sem != nil {
			defer func() { <-p.sem }()
		}
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task pool task panicked",
					zap.String("task", taskName),
					zap.Any("panic", r))
			}
		}()
		if err := fn(ctx); err != nil {
			p.logger.Warn("task pool task failed",
				zap.String("task", taskName),
				zap.Error(err))
		}
	}()
}

// Wait blocks until all submitted tasks have returned. A stopping agent
// server does not call this for its own outstanding tasks (spec.md §5:
// "A stopping server does not wait for outstanding pool tasks"); Instance
// teardown uses it to bound shutdown of the shared pool.
func (p *TaskPool) Wait() {
	p.wg.Wait()
}

func (p *TaskPool) String() string {
	return fmt.Sprintf("TaskPool(cap=%d)", cap(p.sem))
}
