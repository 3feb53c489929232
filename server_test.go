package jido

import (
	"context"
	"testing"
	"time"
)

type recordingDispatcher struct {
	ch chan Signal
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{ch: make(chan Signal, 16)}
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, signal Signal, config any) error {
	d.ch <- signal
	return nil
}

func echoModule() Module {
	strategy := NewDirectStrategy(map[string]ActionFunc{
		"echo": func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error) {
			n := params["n"]
			return agent, []Directive{Emit{Signal: NewSignal("pong", agent.ID, map[string]any{"n": n})}}, nil
		},
	})
	return &testModule{
		strategy: strategy,
		routes: []Route{
			{Pattern: "ping", Handler: func(s Signal) []Instruction {
				return []Instruction{{Action: "echo", Params: map[string]any{"n": s.Data["n"]}}}
			}},
		},
	}
}

func TestPingPongScenario(t *testing.T) {
	dispatcher := newRecordingDispatcher()
	inst := NewInstance("ping-pong-test", WithDefaultDispatch(dispatcher))
	defer inst.Shutdown()

	server, err := inst.StartAgent(echoModule(), WithID("echo"))
	if err != nil {
		t.Fatalf("StartAgent: %v", err)
	}

	ping := NewSignal("ping", "test", map[string]any{"n": 7})
	agent, err := server.Call(context.Background(), ping, time.Second)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if agent.ID != "echo" {
		t.Fatalf("unexpected agent id %q", agent.ID)
	}

	select {
	case pong := <-dispatcher.ch:
		if pong.Type != "pong" {
			t.Fatalf("expected pong, got %s", pong.Type)
		}
		if pong.Data["n"] != 7 {
			t.Fatalf("expected n=7, got %v", pong.Data["n"])
		}
		tc, ok := pong.TraceContext()
		if !ok {
			t.Fatal("pong signal missing trace context")
		}
		if tc.ParentSpanID == "" {
			t.Fatal("pong trace context missing parent_span_id")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected pong to be dispatched within 100ms")
	}
}

func TestCallTimeoutContinuesProcessing(t *testing.T) {
	blocked := make(chan struct{})
	strategy := NewDirectStrategy(map[string]ActionFunc{
		"slow": func(agent Agent, params map[string]any, ctx *StrategyContext) (Agent, []Directive, error) {
			<-blocked
			return agent, nil, nil
		},
	})
	module := &testModule{strategy: strategy, routes: []Route{
		{Pattern: "slow", Handler: func(s Signal) []Instruction {
			return []Instruction{{Action: "slow"}}
		}},
		{Pattern: "fast", Handler: func(s Signal) []Instruction { return nil }},
	}}

	inst := NewInstance("timeout-test")
	defer inst.Shutdown()

	server, err := inst.StartAgent(module, WithID("slowpoke"))
	if err != nil {
		t.Fatalf("StartAgent: %v", err)
	}

	_, err = server.Call(context.Background(), NewSignal("slow", "t", nil), 50*time.Millisecond)
	if !IsKind(err, KindTimeout) {
		t.Fatalf("expected a timeout error, got %v", err)
	}

	close(blocked)

	agent, err := server.Call(context.Background(), NewSignal("fast", "t", nil), time.Second)
	if err != nil {
		t.Fatalf("server should still be processing after a caller timeout: %v", err)
	}
	if agent.ID != "slowpoke" {
		t.Fatalf("unexpected agent id %q", agent.ID)
	}
}
