package jido

import (
	"testing"
	"time"
)

func workerModule() Module {
	return &testModule{strategy: NewDirectStrategy(nil)}
}

func orchestratorModule() Module {
	strategy := NewDirectStrategy(map[string]ActionFunc{
		"spawn": func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error) {
			return agent, []Directive{SpawnAgent{Module: workerModule(), Tag: "w1"}}, nil
		},
		"stop_w1": func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error) {
			return agent, []Directive{StopChild{ChildTag: "w1", Reason: "normal"}}, nil
		},
	})
	return &testModule{
		strategy: strategy,
		routes: []Route{
			{Pattern: "spawn", Handler: func(s Signal) []Instruction {
				return []Instruction{{Action: "spawn"}}
			}},
			{Pattern: "stop_w1", Handler: func(s Signal) []Instruction {
				return []Instruction{{Action: "stop_w1"}}
			}},
		},
	}
}

func TestParentChildLifecycle(t *testing.T) {
	dispatcher := newRecordingDispatcher()
	inst := NewInstance("hierarchy-test", WithDefaultDispatch(dispatcher))
	defer inst.Shutdown()

	orchestrator, err := inst.StartAgent(orchestratorModule(), WithID("orchestrator"))
	if err != nil {
		t.Fatalf("StartAgent: %v", err)
	}

	if err := orchestrator.Cast(NewSignal("spawn", "test", nil)); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) && len(orchestrator.ChildTags()) == 0 {
		time.Sleep(time.Millisecond)
	}
	if len(orchestrator.ChildTags()) != 1 {
		t.Fatalf("expected children[w1] populated, got tags=%v", orchestrator.ChildTags())
	}

	var started Signal
	select {
	case started = <-dispatcher.ch:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected jido.agent.child.started to be dispatched")
	}
	if started.Type != SignalChildStarted || started.Data["tag"] != "w1" {
		t.Fatalf("unexpected started signal: %+v", started)
	}

	if err := orchestrator.Cast(NewSignal("stop_w1", "test", nil)); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	deadline = time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) && len(orchestrator.ChildTags()) != 0 {
		time.Sleep(time.Millisecond)
	}
	if len(orchestrator.ChildTags()) != 0 {
		t.Fatalf("expected children[w1] removed, got tags=%v", orchestrator.ChildTags())
	}
}
