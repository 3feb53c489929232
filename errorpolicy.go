package jido

import (
	"fmt"

	"go.uber.org/zap"
)

// ErrorPolicy decides, for each internal Error directive produced by a
// strategy or executor, whether the agent server continues or stops.
// agent is the agent's state at the moment of the error (unchanged by the
// failed transition, per invariant 6); errorCount is the server's running
// total of internal errors observed so far, including this one.
type ErrorPolicy func(ed ErrorDirective, agent Agent, errorCount int, server *AgentServer) (stop bool, reason string)

// LogOnlyPolicy is the default: log and continue.
func LogOnlyPolicy() ErrorPolicy {
	return func(ed ErrorDirective, agent Agent, errorCount int, server *AgentServer) (bool, string) {
		server.logger.Warn("agent error (log_only policy)",
			zap.String("agent_id", server.id),
			zap.String("reason", ed.Err.Reason))
		return false, ""
	}
}

// StopOnErrorPolicy terminates the server on the first internal error.
func StopOnErrorPolicy() ErrorPolicy {
	return func(ed ErrorDirective, agent Agent, errorCount int, server *AgentServer) (bool, string) {
		return true, "agent_error: " + ed.Err.Reason
	}
}

// EmitSignalPolicy publishes jido.agent.error via dispatch and continues.
func EmitSignalPolicy(dispatch any) ErrorPolicy {
	return func(ed ErrorDirective, agent Agent, errorCount int, server *AgentServer) (bool, string) {
		sig := NewSignal(SignalAgentError, server.id, map[string]any{
			"kind":   string(ed.Err.Kind),
			"reason": ed.Err.Reason,
		})
		server.dispatchAsync(sig, dispatch)
		return false, ""
	}
}

// MaxErrorsPolicy stops once more than n internal errors have been
// observed, with reason kind max_errors_exceeded.
func MaxErrorsPolicy(n int) ErrorPolicy {
	return func(ed ErrorDirective, agent Agent, errorCount int, server *AgentServer) (bool, string) {
		if errorCount > n {
			return true, fmt.Sprintf("max_errors_exceeded: %d", errorCount)
		}
		return false, ""
	}
}
