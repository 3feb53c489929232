package jido

// Metrics is the pluggable telemetry collaborator backing the
// "observable in status/telemetry" language of spec.md §7/§8. It is
// optional — an Instance with no Metrics configured uses NoopMetrics,
// exactly like Tracer defaults to NoopTracer.
type Metrics interface {
	DirectiveDropped(agentID string, count int)
	ErrorCount(agentID string, count int)
	QueueDepth(agentID string, depth int)
	CronTick(agentID, jobID string)
}

type noopMetrics struct{}

func (noopMetrics) DirectiveDropped(string, int) {}
func (noopMetrics) ErrorCount(string, int)       {}
func (noopMetrics) QueueDepth(string, int)       {}
func (noopMetrics) CronTick(string, string)      {}

// NoopMetrics is the default Metrics implementation.
var NoopMetrics Metrics = noopMetrics{}
