package jido

import (
	"sync"

	"go.uber.org/zap"
)

// ExecOutcome is the three-way result of executing one directive (spec.md
// §4.3).
type ExecOutcome int

const (
	// ExecOK commits state and continues draining.
	ExecOK ExecOutcome = iota
	// ExecAsync commits state and continues draining; the executor has
	// started work in the task pool that will complete out of band.
	ExecAsync
	// ExecStop ceases draining and terminates the server.
	ExecStop
)

// ExecResult is what a directive executor returns.
type ExecResult struct {
	Outcome ExecOutcome
	State   map[string]any
	Reason  string
}

func execOK(state map[string]any) ExecResult  { return ExecResult{Outcome: ExecOK, State: state} }
func execAsync(state map[string]any) ExecResult {
	return ExecResult{Outcome: ExecAsync, State: state}
}
func execStop(reason string, state map[string]any) ExecResult {
	return ExecResult{Outcome: ExecStop, Reason: reason, State: state}
}

// ExecContext is what an Executor needs beyond the directive itself: the
// signal that caused it and the owning server.
type ExecContext struct {
	InputSignal Signal
	Server      *AgentServer
}

// Executor implements one directive kind's protocol:
// (directive, input_signal, server_state) -> ok | async | stop.
type Executor func(directive Directive, ec *ExecContext) ExecResult

// executorTable is the tag -> Executor dispatch table. Directive kinds
// are extensible: third-party variants register here without the core
// needing to change (spec.md §3 "Directive kinds must be extensible").
type executorTable struct {
	mu    sync.RWMutex
	byTag map[string]Executor
}

func newExecutorTable() *executorTable {
	t := &executorTable{byTag: make(map[string]Executor)}
	t.registerBuiltins()
	return t
}

func (t *executorTable) register(tag string, exec Executor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byTag[tag] = exec
}

func (t *executorTable) dispatch(d Directive, ec *ExecContext) ExecResult {
	t.mu.RLock()
	exec, ok := t.byTag[d.Tag()]
	t.mu.RUnlock()
	if !ok {
		ec.Server.logger.Warn("no executor registered for directive", zap.String("tag", d.Tag()))
		return execOK(nil)
	}
	return exec(d, ec)
}
