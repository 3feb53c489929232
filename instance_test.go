package jido

import "testing"

func TestStartAgentDuplicateIDAlreadyStarted(t *testing.T) {
	inst := NewInstance("dup-test")
	defer inst.Shutdown()

	if _, err := inst.StartAgent(workerModule(), WithID("dup")); err != nil {
		t.Fatalf("first StartAgent: %v", err)
	}
	_, err := inst.StartAgent(workerModule(), WithID("dup"))
	if !IsKind(err, KindAlreadyStarted) {
		t.Fatalf("expected already_started, got %v", err)
	}
}

func TestStopAgentNotFound(t *testing.T) {
	inst := NewInstance("not-found-test")
	defer inst.Shutdown()

	err := inst.StopAgent("nonexistent")
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestWhereisAndListAgents(t *testing.T) {
	inst := NewInstance("whereis-test")
	defer inst.Shutdown()

	server, err := inst.StartAgent(workerModule(), WithID("w"))
	if err != nil {
		t.Fatalf("StartAgent: %v", err)
	}
	got, ok := inst.Whereis("w")
	if !ok || got != server {
		t.Fatalf("Whereis did not return the started server")
	}
	if _, ok := inst.Whereis("missing"); ok {
		t.Fatal("Whereis should report absent for an unknown id")
	}
	if inst.AgentCount() != 1 {
		t.Fatalf("expected agent_count=1, got %d", inst.AgentCount())
	}
	list := inst.ListAgents()
	if len(list) != 1 || list[0] != "w" {
		t.Fatalf("unexpected list_agents result: %v", list)
	}
}
