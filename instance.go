package jido

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Instance is the user-owned supervision scope hosting many agents. It
// wires a Registry, a bounded TaskPool, a cron Scheduler, and a dynamic
// supervisor of Agent Servers (spec.md §2, §4.1). Tests instantiate a
// fresh Instance per test for isolation (spec.md §9 "Global state").
type Instance struct {
	name string

	Registry *Registry
	TaskPool *TaskPool
	Cron     CronEngine

	logger          *zap.Logger
	tracer          Tracer
	metrics         Metrics
	defaultDispatch Dispatcher

	executors *executorTable

	restartLimiter *slidingWindowLimiter

	mu      sync.Mutex
	stopped bool
}

// InstanceOption configures an Instance at construction.
type InstanceOption func(*instanceConfig)

type instanceConfig struct {
	taskPoolSize    int
	logger          *zap.Logger
	tracer          Tracer
	metrics         Metrics
	defaultDispatch Dispatcher
	cron            CronEngine
	restartLimit    int
	restartWindow   time.Duration
}

// WithTaskPoolSize bounds the instance's shared task pool concurrency.
func WithTaskPoolSize(n int) InstanceOption {
	return func(c *instanceConfig) { c.taskPoolSize = n }
}

// WithLogger injects structured logging for the instance and every agent
// server it starts.
func WithLogger(logger *zap.Logger) InstanceOption {
	return func(c *instanceConfig) { c.logger = logger }
}

// WithTracer injects the observability tracer; defaults to NoopTracer.
func WithTracer(tracer Tracer) InstanceOption {
	return func(c *instanceConfig) { c.tracer = tracer }
}

// WithDefaultDispatch sets the instance-wide default Emit dispatcher, used
// when neither the directive nor the agent overrides it.
func WithDefaultDispatch(d Dispatcher) InstanceOption {
	return func(c *instanceConfig) { c.defaultDispatch = d }
}

// WithMetrics injects the telemetry collaborator backing dropped-directive
// counts, error counts, queue depth, and cron ticks. Defaults to
// NoopMetrics.
func WithMetrics(m Metrics) InstanceOption {
	return func(c *instanceConfig) { c.metrics = m }
}

// WithCronEngine overrides the scheduler backend, e.g. with a fake for
// deterministic tests.
func WithCronEngine(engine CronEngine) InstanceOption {
	return func(c *instanceConfig) { c.cron = engine }
}

// WithRestartLimit bounds the AgentSupervisor's restart rate: at most
// limit restarts within window (default 1000 restarts / 5s, spec.md
// §4.1).
func WithRestartLimit(limit int, window time.Duration) InstanceOption {
	return func(c *instanceConfig) { c.restartLimit = limit; c.restartWindow = window }
}

// NewInstance builds and starts an Instance, deriving its four named
// children (TaskPool, Registry, AgentSupervisor, Scheduler) from name.
func NewInstance(name string, opts ...InstanceOption) *Instance {
	cfg := instanceConfig{
		taskPoolSize:  0,
		restartLimit:  1000,
		restartWindow: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.tracer == nil {
		cfg.tracer = NoopTracer
	}
	if cfg.metrics == nil {
		cfg.metrics = NoopMetrics
	}
	if cfg.cron == nil {
		cfg.cron = NewScheduler(cfg.logger.Named(fmt.Sprintf("%s.scheduler", name)))
	}

	inst := &Instance{
		name:            name,
		Registry:        NewRegistry(),
		TaskPool:        NewTaskPool(cfg.taskPoolSize, cfg.logger.Named(fmt.Sprintf("%s.taskpool", name))),
		Cron:            cfg.cron,
		logger:          cfg.logger,
		tracer:          cfg.tracer,
		metrics:         cfg.metrics,
		defaultDispatch: cfg.defaultDispatch,
		executors:       newExecutorTable(),
		restartLimiter:  newSlidingWindowLimiter(cfg.restartLimit, cfg.restartWindow, RealClock),
	}
	return inst
}

// RegisterExecutor adds or replaces the executor for a third-party
// directive kind, identified by its Tag(). Built-in kinds are already
// registered and may be overridden the same way.
func (inst *Instance) RegisterExecutor(tag string, exec Executor) {
	inst.executors.register(tag, exec)
}

// cronJobName derives the globally-unique scheduler job name for a cron
// directive owned by agentID (spec.md §6 "Cron job naming").
func cronJobName(agentID, jobID string) string {
	return fmt.Sprintf("jido_cron:%s:%s", agentID, jobID)
}

// StartAgent starts a new agent server under this instance, attaching it
// to the AgentSupervisor.
func (inst *Instance) StartAgent(module Module, opts ...AgentOption) (*AgentServer, error) {
	cfg := defaultAgentConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = NewID()
	}
	if module == nil {
		return nil, NewError(KindValidation, "module is required", nil)
	}

	agent := Agent{ID: cfg.id, Module: module, State: cloneState(cfg.initialState)}
	if cfg.agent != nil {
		adopted := *cfg.agent
		if adopted.ID != "" && adopted.ID != cfg.id {
			inst.logger.Warn("adopted agent struct id overrides option id",
				zap.String("option_id", cfg.id), zap.String("agent_id", adopted.ID))
			cfg.id = adopted.ID
		}
		if adopted.ID == "" {
			adopted.ID = cfg.id
		}
		adopted.Module = module
		agent = adopted
	}

	server := newAgentServer(inst, agent, cfg)
	if err := inst.Registry.Register(server.id, server); err != nil {
		return nil, err
	}

	server.startWatchingParent()
	inst.superviseStart(server, cfg)
	return server, nil
}

// superviseStart launches server's loop under the AgentSupervisor: a
// panic escaping the loop (a runtime bug, not a strategy/directive error —
// those are trapped inside the loop already) is treated as a crash and
// restarted with fresh state, rate-limited per WithRestartLimit.
func (inst *Instance) superviseStart(server *AgentServer, cfg agentConfig) {
	go func() {
		for {
			crashed := server.runLoop()
			if !crashed {
				return
			}
			if !inst.restartLimiter.Allow() {
				inst.logger.Error("agent supervisor restart rate limit exceeded",
					zap.String("agent_id", server.id))
				inst.Registry.Unregister(server.id)
				return
			}
			inst.logger.Info("restarting crashed agent server", zap.String("agent_id", server.id))
			fresh := newAgentServer(inst, Agent{ID: server.id, Module: server.module, State: cloneState(cfg.initialState)}, cfg)
			inst.Registry.Unregister(server.id)
			if err := inst.Registry.Register(fresh.id, fresh); err != nil {
				inst.logger.Error("failed to re-register restarted agent", zap.Error(err))
				return
			}
			server = fresh
		}
	}()
}

// StopAgent stops the server registered under id.
func (inst *Instance) StopAgent(id string) error {
	server, ok := inst.Registry.Whereis(id)
	if !ok {
		return NewError(KindNotFound, "agent not registered", map[string]any{"id": id})
	}
	server.Stop("stop_agent")
	return nil
}

// Whereis returns the live server for id, if any.
func (inst *Instance) Whereis(id string) (*AgentServer, bool) {
	return inst.Registry.Whereis(id)
}

// ListAgents returns every registered agent id.
func (inst *Instance) ListAgents() []string {
	return inst.Registry.List()
}

// AgentCount returns the number of registered agents.
func (inst *Instance) AgentCount() int {
	return inst.Registry.Count()
}

// Shutdown stops every agent registered with this instance and waits for
// the shared task pool to drain.
func (inst *Instance) Shutdown() {
	inst.mu.Lock()
	if inst.stopped {
		inst.mu.Unlock()
		return
	}
	inst.stopped = true
	inst.mu.Unlock()

	for _, id := range inst.Registry.List() {
		if server, ok := inst.Registry.Whereis(id); ok {
			server.Stop("instance_shutdown")
		}
	}
	inst.TaskPool.Wait()
	if sched, ok := inst.Cron.(*Scheduler); ok {
		sched.Stop()
	}
}
