package jido

// Directive is pure data describing a side effect to perform after the pure
// transition. The protocol dispatches on Tag(), so third-party directive
// kinds can be added without modifying the core — they need only implement
// Directive and have an Executor (executor.go) registered for their tag
// via Instance.RegisterExecutor.
type Directive interface {
	Tag() string
}

// Emit publishes a signal via the given dispatch config, or the server's
// default dispatch when Dispatch is nil.
type Emit struct {
	Signal  Signal
	Dispatch any
}

func (Emit) Tag() string { return "emit" }

// Schedule sends Message to self after DelayMs milliseconds.
type Schedule struct {
	DelayMs int64
	Message Signal
}

func (Schedule) Tag() string { return "schedule" }

// Cron upserts a cron job that casts Message to this agent on every tick.
type Cron struct {
	JobID      string
	Expression string
	Message    Signal
	Timezone   string
}

func (Cron) Tag() string { return "cron" }

// CronCancel removes a cron job by its logical JobID.
type CronCancel struct {
	JobID string
}

func (CronCancel) Tag() string { return "cron_cancel" }

// SpawnAgent starts a child agent under the same Instance, recorded under
// Tag in the parent's children map.
type SpawnAgent struct {
	Module     Module
	Tag        string
	Opts       []AgentOption
	ParentMeta map[string]any
}

func (SpawnAgent) Tag() string { return "spawn_agent" }

// StopChild terminates a tracked child, identified by Tag or PID (one of
// the two should be set).
type StopChild struct {
	ChildTag string
	PID      string
	Reason   string
}

func (StopChild) Tag() string { return "stop_child" }

// Stop stops this agent with Reason.
type Stop struct {
	Reason string
}

func (Stop) Tag() string { return "stop" }

// ErrorDirective surfaces a structured error to the error-policy handler.
type ErrorDirective struct {
	Err     *Error
	Context map[string]any
}

func (ErrorDirective) Tag() string { return "error" }
