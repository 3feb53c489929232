package jido

// StrategyContext carries the read-only information a pure strategy needs
// to make its decision: the signal that triggered this transition and its
// trace context. Strategies must never perform IO; anything that needs to
// touch the outside world is requested as a Directive instead.
type StrategyContext struct {
	Signal Signal
	Trace  TraceContext
}

// Strategy is a pure function turning (agent, instructions) into
// (agent', directives). Built-ins are Direct (pass-through) and FSM
// (state-gated transitions); strategies must never perform IO.
type Strategy interface {
	Cmd(agent Agent, instructions []Instruction, ctx *StrategyContext) (Agent, []Directive)
}

// ActionFunc implements one named instruction for a Direct strategy. It
// must be pure: any side effect is requested via the returned directives.
type ActionFunc func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error)

// DirectStrategy runs every instruction in order, accumulating directives,
// with no gating between them (spec.md §4.5).
type DirectStrategy struct {
	actions map[string]ActionFunc
}

// NewDirectStrategy builds a DirectStrategy dispatching instructions by
// Action name to the given handlers.
func NewDirectStrategy(actions map[string]ActionFunc) *DirectStrategy {
	clone := make(map[string]ActionFunc, len(actions))
	for k, v := range actions {
		clone[k] = v
	}
	return &DirectStrategy{actions: clone}
}

func (d *DirectStrategy) Cmd(agent Agent, instructions []Instruction, ctx *StrategyContext) (Agent, []Directive) {
	var directives []Directive
	for _, instr := range instructions {
		handler, ok := d.actions[instr.Action]
		if !ok {
			directives = append(directives, ErrorDirective{
				Err: NewError(KindValidation, "unknown action: "+instr.Action, map[string]any{
					"action": instr.Action,
				}),
			})
			continue
		}
		nextAgent, ds, err := handler(agent, instr.Params, ctx)
		if err != nil {
			directives = append(directives, ErrorDirective{
				Err: NewError(KindStrategy, err.Error(), map[string]any{
					"action": instr.Action,
				}),
			})
			continue
		}
		agent = nextAgent
		directives = append(directives, ds...)
	}
	return agent, directives
}
