package jido

// reserved state keys.
const (
	stateKeyStrategy = "__strategy__"
	stateKeyPlugins  = "plugins"
)

// Agent is an identified, versioned struct holding state and a reference to
// its module of behavior. State is validated against a per-module schema by
// an external collaborator (schema validation is out of scope for this
// core); the two reserved keys "__strategy__" and "plugins" are owned by
// the strategy and by plugins respectively.
type Agent struct {
	ID     string
	Module Module
	State  map[string]any
}

// cloneState returns a shallow copy of the agent's state map so strategies
// can produce a new Agent value without aliasing the previous one.
func cloneState(state map[string]any) map[string]any {
	out := make(map[string]any, len(state))
	for k, v := range state {
		out[k] = v
	}
	return out
}

// strategyState returns the "__strategy__" sub-map, creating an empty one
// if absent.
func (a Agent) strategyState() map[string]any {
	if sub, ok := a.State[stateKeyStrategy].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}

// withStrategyState returns a copy of a with "__strategy__" replaced.
func (a Agent) withStrategyState(sub map[string]any) Agent {
	next := cloneState(a.State)
	next[stateKeyStrategy] = sub
	a.State = next
	return a
}

// Instruction is the result of routing a signal: a named action plus its
// parameters, handed to the module's strategy.
type Instruction struct {
	Action string
	Params map[string]any
}

// Module is the minimal required behavior of an agent type: it supplies the
// pure strategy that turns (agent, instructions) into (agent', directives).
// The remaining hooks described in spec.md §6 (init/2, snapshot/1,
// signal_routes/1) are optional and discovered by type assertion, the same
// "pre-bucketed by interface" style the teacher uses for its processor
// chain (see newAgentServer, ensureInitialized and Status in server.go).
type Module interface {
	Strategy() Strategy
}

// Initializer is an optional Module hook run once, lazily, on the first
// signal an agent server processes for this module (spec.md §4.2
// "Initialization... Perform any strategy initialization lazily on first
// signal").
type Initializer interface {
	Init(agent Agent) (Agent, error)
}

// Snapshotter is an optional Module hook exposing an opaque status map via
// the agent server's status() call.
type Snapshotter interface {
	Snapshot(agent Agent) map[string]any
}

// RouteProvider is an optional Module hook supplying this agent's signal
// routes, consumed by the Signal Router (router.go).
type RouteProvider interface {
	Routes() []Route
}
