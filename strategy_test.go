package jido

import "testing"

func TestDirectStrategyAccumulatesDirectives(t *testing.T) {
	s := NewDirectStrategy(map[string]ActionFunc{
		"ping": func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error) {
			n, _ := params["n"].(int)
			return agent, []Directive{Emit{Signal: NewSignal("pong", agent.ID, map[string]any{"n": n})}}, nil
		},
	})
	agent := Agent{ID: "echo", State: map[string]any{}}
	_, directives := s.Cmd(agent, []Instruction{{Action: "ping", Params: map[string]any{"n": 7}}}, &StrategyContext{})
	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	emit, ok := directives[0].(Emit)
	if !ok {
		t.Fatalf("expected Emit directive, got %T", directives[0])
	}
	if emit.Signal.Data["n"] != 7 {
		t.Errorf("expected n=7, got %v", emit.Signal.Data["n"])
	}
}

func TestDirectStrategyUnknownActionYieldsErrorDirective(t *testing.T) {
	s := NewDirectStrategy(nil)
	agent := Agent{ID: "a"}
	_, directives := s.Cmd(agent, []Instruction{{Action: "nope"}}, &StrategyContext{})
	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	ed, ok := directives[0].(ErrorDirective)
	if !ok || ed.Err.Kind != KindValidation {
		t.Fatalf("expected validation ErrorDirective, got %+v", directives[0])
	}
}

func TestDirectStrategyContinuesAfterActionError(t *testing.T) {
	s := NewDirectStrategy(map[string]ActionFunc{
		"fail": func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error) {
			return agent, nil, errTestAction
		},
		"ok": func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error) {
			return agent, []Directive{Stop{Reason: "done"}}, nil
		},
	})
	agent := Agent{ID: "a"}
	_, directives := s.Cmd(agent, []Instruction{{Action: "fail"}, {Action: "ok"}}, &StrategyContext{})
	if len(directives) != 2 {
		t.Fatalf("expected 2 directives (error + stop), got %d", len(directives))
	}
	if _, ok := directives[0].(ErrorDirective); !ok {
		t.Errorf("expected first directive to be an ErrorDirective, got %T", directives[0])
	}
	if _, ok := directives[1].(Stop); !ok {
		t.Errorf("expected second directive to be Stop, got %T", directives[1])
	}
}

type testActionError struct{ s string }

func (e *testActionError) Error() string { return e.s }

var errTestAction = &testActionError{"boom"}
