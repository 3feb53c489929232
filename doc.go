// Package jido is a runtime for autonomous, message-driven agents.
//
// An Instance is a supervision scope owning a Registry, a TaskPool, a
// Scheduler, and a dynamic supervisor of Agent Servers. Each Agent Server
// owns one Agent's identity and state, consumes Signals through a Router,
// delegates decision-making to a Strategy, and drains the resulting
// Directives through the built-in Directive Executors.
//
// The package intentionally says nothing about concrete actions, LLM or
// HTTP adapters, signal transport, or persistence — those are external
// collaborators wired in by the host application. What's here is the
// supervised loop that keeps one agent's state consistent while it talks
// to the outside world through directives instead of direct calls.
package jido
