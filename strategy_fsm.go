package jido

// FSMTransition declares one legal move of an FSM strategy: instruction
// On, while in state From, moves the agent to state To, unless Guard
// rejects it.
type FSMTransition struct {
	From  string
	On    string
	To    string
	Guard func(agent Agent, instr Instruction) error
}

// FSMStrategy implements the spec's state-gated strategy: the agent
// declares a set of states, an initial state, a transition table, and
// optional guards. The agent's "__strategy__" map holds
// {current_state, history}. Terminal states are observable via Snapshot;
// once terminal, further instructions are ignored.
type FSMStrategy struct {
	States      []string
	Initial     string
	Transitions []FSMTransition
	Terminal    map[string]bool
	// OnEnter optionally produces directives emitted on entry to a state.
	OnEnter map[string]func(agent Agent, instr Instruction, ctx *StrategyContext) []Directive
	// ErrorOnTerminal, when true, produces an Error directive for any
	// instruction received after the agent has reached a terminal state.
	// When false (default) such instructions are silently ignored.
	ErrorOnTerminal bool
}

func (f *FSMStrategy) currentState(agent Agent) string {
	sub := agent.strategyState()
	if s, ok := sub["current_state"].(string); ok && s != "" {
		return s
	}
	return f.Initial
}

func (f *FSMStrategy) history(agent Agent) []string {
	sub := agent.strategyState()
	if h, ok := sub["history"].([]string); ok {
		return h
	}
	return nil
}

// Snapshot returns the opaque status map exposed via status().
func (f *FSMStrategy) Snapshot(agent Agent) map[string]any {
	return map[string]any{
		"current_state": f.currentState(agent),
		"history":        f.history(agent),
		"terminal":       f.Terminal[f.currentState(agent)],
	}
}

func (f *FSMStrategy) findTransition(from, on string) (FSMTransition, bool) {
	for _, t := range f.Transitions {
		if t.From == from && t.On == on {
			return t, true
		}
	}
	return FSMTransition{}, false
}

func (f *FSMStrategy) Cmd(agent Agent, instructions []Instruction, ctx *StrategyContext) (Agent, []Directive) {
	var directives []Directive
	for _, instr := range instructions {
		current := f.currentState(agent)
		if f.Terminal[current] {
			if f.ErrorOnTerminal {
				directives = append(directives, ErrorDirective{
					Err: NewError(KindStrategy, "agent is in a terminal state", map[string]any{
						"state":  current,
						"action": instr.Action,
					}),
				})
			}
			continue
		}
		transition, ok := f.findTransition(current, instr.Action)
		if !ok {
			directives = append(directives, ErrorDirective{
				Err: NewError(KindStrategy, "invalid_transition", map[string]any{
					"from":   current,
					"action": instr.Action,
				}),
			})
			continue
		}
		if transition.Guard != nil {
			if err := transition.Guard(agent, instr); err != nil {
				directives = append(directives, ErrorDirective{
					Err: NewError(KindStrategy, "invalid_transition", map[string]any{
						"from":   current,
						"to":     transition.To,
						"action": instr.Action,
						"reason": err.Error(),
					}),
				})
				continue
			}
		}
		history := append(append([]string(nil), f.history(agent)...), transition.To)
		sub := agent.strategyState()
		sub = cloneState(sub)
		sub["current_state"] = transition.To
		sub["history"] = history
		agent = agent.withStrategyState(sub)
		if enter, ok := f.OnEnter[transition.To]; ok {
			directives = append(directives, enter(agent, instr, ctx)...)
		}
	}
	return agent, directives
}
