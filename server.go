package jido

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OnParentDeath names how a child reacts to its parent's termination.
type OnParentDeath string

const (
	OnParentDeathStop       OnParentDeath = "stop"
	OnParentDeathContinue   OnParentDeath = "continue"
	OnParentDeathEmitOrphan OnParentDeath = "emit_orphan"
)

// ParentRef is what a child holds about its parent.
type ParentRef struct {
	Server *AgentServer
	ID     string
	Tag    string
	Meta   map[string]any
}

// ChildRef is what a parent holds about a tracked child (spec.md's
// children map: tag -> {pid, monitor_ref, module, meta}). The "monitor"
// here is the goroutine started in server_hierarchy.go that watches the
// child's Done channel.
type ChildRef struct {
	Server *AgentServer
	Module Module
	Meta   map[string]any
}

type queueItem struct {
	inputSignal Signal
	directive   Directive
}

type inboxMsg struct {
	signal Signal
	reply  chan callResult
}

type callResult struct {
	agent Agent
	err   error
}

// AgentServer is the long-lived process owning one agent: its identity,
// its state, its signal intake, its directive queue, and its hierarchy
// (spec.md §4.2). Each AgentServer runs its own goroutine loop, making it
// single-threaded cooperative from the agent's point of view without
// needing an explicit lock around the pure-transition/drain sequence;
// the `processing` field still exists to mirror the server state spec.md
// describes and serves as drain's reentrancy guard.
type AgentServer struct {
	id     string
	module Module

	instance *Instance

	inbox  chan inboxMsg
	stopCh chan struct{}
	doneCh chan struct{}

	router          *Router
	defaultDispatch any
	errorPolicy     ErrorPolicy
	maxQueueSize    int
	onParentDeath   OnParentDeath
	clock           Clock
	finalSignal     *Signal

	logger *zap.Logger
	tracer Tracer

	// fields below are only ever touched from the server's own goroutine,
	// except where guarded by mu for snapshot reads from other goroutines.
	mu sync.RWMutex

	agent      Agent
	queue      []queueItem
	processing bool

	parent   *ParentRef
	children map[string]*ChildRef

	cronJobs map[string]string // job_id -> scheduler job name

	errorCount int
	lastError  *Error

	droppedDirectives int

	stopped    bool
	stopReason string

	initialized bool
}

// AgentOption configures an agent server at StartAgent time.
type AgentOption func(*agentConfig)

type agentConfig struct {
	id              string
	initialState    map[string]any
	agent           *Agent
	parent          *ParentRef
	onParentDeath   OnParentDeath
	defaultDispatch any
	errorPolicy     ErrorPolicy
	maxQueueSize    int
	router          *Router
	clock           Clock
	finalSignalType string
}

func defaultAgentConfig() agentConfig {
	return agentConfig{
		initialState:  map[string]any{},
		onParentDeath: OnParentDeathStop,
		errorPolicy:   LogOnlyPolicy(),
		maxQueueSize:  10000,
		clock:         RealClock,
	}
}

func WithID(id string) AgentOption {
	return func(c *agentConfig) { c.id = id }
}

func WithInitialState(state map[string]any) AgentOption {
	return func(c *agentConfig) { c.initialState = state }
}

// WithAgent adopts a pre-built Agent struct instead of constructing one
// from initial state. If both WithID and the struct carry an id, the
// struct's id wins and a warning is logged (spec.md §4.2).
func WithAgent(agent Agent) AgentOption {
	return func(c *agentConfig) { c.agent = &agent }
}

func WithParent(ref ParentRef) AgentOption {
	return func(c *agentConfig) { c.parent = &ref }
}

func WithOnParentDeath(policy OnParentDeath) AgentOption {
	return func(c *agentConfig) { c.onParentDeath = policy }
}

func WithDefaultAgentDispatch(dispatch any) AgentOption {
	return func(c *agentConfig) { c.defaultDispatch = dispatch }
}

func WithErrorPolicy(policy ErrorPolicy) AgentOption {
	return func(c *agentConfig) { c.errorPolicy = policy }
}

func WithMaxQueueSize(n int) AgentOption {
	return func(c *agentConfig) { c.maxQueueSize = n }
}

func WithRouter(router *Router) AgentOption {
	return func(c *agentConfig) { c.router = router }
}

func WithClock(clock Clock) AgentOption {
	return func(c *agentConfig) { c.clock = clock }
}

// WithFinalSignal configures a lifecycle signal type emitted to the
// parent (if any) whenever this server terminates, including after a
// loop panic.
func WithFinalSignal(sigType string) AgentOption {
	return func(c *agentConfig) { c.finalSignalType = sigType }
}

func newAgentServer(inst *Instance, agent Agent, cfg agentConfig) *AgentServer {
	router := cfg.router
	if router == nil {
		if rp, ok := agent.Module.(RouteProvider); ok {
			router = NewRouter(rp.Routes()...)
		} else {
			router = NewRouter()
		}
	}
	clock := cfg.clock
	if clock == nil {
		clock = RealClock
	}
	var final *Signal
	if cfg.finalSignalType != "" {
		s := NewSignal(cfg.finalSignalType, agent.ID, nil)
		final = &s
	}
	return &AgentServer{
		id:              agent.ID,
		module:          agent.Module,
		instance:        inst,
		inbox:           make(chan inboxMsg, 1024),
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
		router:          router,
		defaultDispatch: cfg.defaultDispatch,
		errorPolicy:     cfg.errorPolicy,
		maxQueueSize:    cfg.maxQueueSize,
		onParentDeath:   cfg.onParentDeath,
		clock:           clock,
		finalSignal:     final,
		logger:          inst.logger.With(zap.String("agent_id", agent.ID)),
		tracer:          inst.tracer,
		agent:           agent,
		parent:          cfg.parent,
		children:        make(map[string]*ChildRef),
		cronJobs:        make(map[string]string),
	}
}

// startWatchingParent arms parent-death monitoring, if this server was
// started with a parent. It runs eagerly at start time, unlike the
// module's Init hook, since a dying parent can be observed before any
// signal ever reaches this agent.
func (s *AgentServer) startWatchingParent() {
	if s.parent != nil && s.parent.Server != nil {
		s.watchParent()
	}
}

// ensureInitialized runs the module's Init hook exactly once, lazily, on
// the first signal this server processes (spec.md §4.2 "Initialization...
// perform any strategy initialization lazily on first signal"; agent.go's
// Initializer doc). By the time the first signal arrives there is no
// synchronous StartAgent caller left to hand a failure to, so an Init
// error is reported the same way a strategy error is: as an Error to feed
// through the configured ErrorPolicy.
func (s *AgentServer) ensureInitialized() *Error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	agent := s.agent
	s.mu.Unlock()

	init, ok := s.module.(Initializer)
	if !ok {
		return nil
	}
	next, err := init.Init(agent)
	if err != nil {
		return WrapError(KindValidation, err, map[string]any{"agent_id": s.id})
	}
	s.mu.Lock()
	s.agent = next
	s.mu.Unlock()
	return nil
}

// ID returns this server's agent id.
func (s *AgentServer) ID() string { return s.id }

// Done closes when the server has fully terminated — used by a parent to
// monitor a child (spec.md "child death... observed via the monitor,
// never by polling").
func (s *AgentServer) Done() <-chan struct{} { return s.doneCh }

// StopReason returns the reason the server terminated, valid only after
// Done() has closed.
func (s *AgentServer) StopReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopReason
}

// State returns a snapshot of the most recently committed agent. It never
// reflects a directive's side effect, only the pure transition (invariant
// 6).
func (s *AgentServer) State() Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Agent{ID: s.agent.ID, Module: s.agent.Module, State: cloneState(s.agent.State)}
}

// Status returns the module's opaque status snapshot if the module
// implements Snapshotter, else its strategy's if the strategy does (as
// FSMStrategy does), or a generic snapshot otherwise.
func (s *AgentServer) Status() map[string]any {
	agent := s.State()
	if snap, ok := s.module.(Snapshotter); ok {
		return snap.Snapshot(agent)
	}
	if snap, ok := s.module.Strategy().(Snapshotter); ok {
		return snap.Snapshot(agent)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"error_count":        s.errorCount,
		"last_error":         s.lastError,
		"dropped_directives": s.droppedDirectives,
		"children":           len(s.children),
	}
}

// ChildTags returns the tags of every currently tracked child.
func (s *AgentServer) ChildTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tags := make([]string, 0, len(s.children))
	for tag := range s.children {
		tags = append(tags, tag)
	}
	return tags
}

// Cast sends signal to this server without waiting for the resulting
// transition (fire-and-forget).
func (s *AgentServer) Cast(signal Signal) error {
	select {
	case s.inbox <- inboxMsg{signal: signal}:
		return nil
	case <-s.doneCh:
		return NewError(KindNotFound, "agent server stopped", map[string]any{"agent_id": s.id})
	}
}

// Call sends signal and waits up to timeout for the resulting pure
// transition. The reply reflects only the pure transition, never
// directive-execution errors (spec.md §9 Open Question 3 decision).
func (s *AgentServer) Call(ctx context.Context, signal Signal, timeout time.Duration) (Agent, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	reply := make(chan callResult, 1)
	select {
	case s.inbox <- inboxMsg{signal: signal, reply: reply}:
	case <-s.doneCh:
		return Agent{}, NewError(KindNotFound, "agent server stopped", map[string]any{"agent_id": s.id})
	}
	select {
	case res := <-reply:
		return res.agent, res.err
	case <-time.After(timeout):
		return Agent{}, NewError(KindTimeout, "call timed out", map[string]any{"agent_id": s.id})
	case <-ctx.Done():
		return Agent{}, WrapError(KindTimeout, ctx.Err(), map[string]any{"agent_id": s.id})
	}
}

// Stop requests termination with reason. It is idempotent.
func (s *AgentServer) Stop(reason string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.stopReason = reason
	s.mu.Unlock()
	close(s.stopCh)
}

// dispatchAsync submits a dispatch to the instance task pool, resolving
// config to the server's default when nil.
func (s *AgentServer) dispatchAsync(signal Signal, dispatchCfg any) {
	cfg := dispatchCfg
	if cfg == nil {
		cfg = s.defaultDispatch
	}
	if cfg == nil {
		cfg = s.instance.defaultDispatch
	}
	dispatcher, _ := cfg.(Dispatcher)
	s.instance.TaskPool.Submit(context.Background(), fmt.Sprintf("emit:%s", signal.Type), func(ctx context.Context) error {
		if dispatcher == nil {
			s.logger.Warn("no dispatcher configured for emit", zap.String("signal_type", signal.Type))
			return nil
		}
		return dispatcher.Dispatch(ctx, signal, cfg)
	})
}
