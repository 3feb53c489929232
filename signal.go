package jido

const correlationExtensionKey = "correlation"

// Reserved lifecycle signal types, emitted by the agent server itself.
const (
	SignalChildStarted = "jido.agent.child.started"
	SignalChildExit    = "jido.agent.child.exit"
	SignalOrphaned     = "jido.agent.orphaned"
	SignalAgentError   = "jido.agent.error"
	SignalCronTick     = "jido.agent.cron.tick"
)

// Signal is an immutable structured message. Type is a dotted namespace
// such as "user.message" or "jido.agent.child.exit". Extensions carry
// opaque per-plugin maps; the "correlation" extension holds the trace
// context for this signal.
type Signal struct {
	ID         string
	Type       string
	Source     string
	Data       map[string]any
	Extensions map[string]any
}

// NewSignal builds a signal with a fresh id.
func NewSignal(sigType, source string, data map[string]any) Signal {
	return Signal{
		ID:     NewID(),
		Type:   sigType,
		Source: source,
		Data:   data,
	}
}

// Valid reports whether the signal shape is acceptable for routing: it must
// carry a non-empty id and a non-empty dotted type.
func (s Signal) Valid() bool {
	return s.ID != "" && s.Type != ""
}

// TraceContext extracts the correlation extension, if any.
func (s Signal) TraceContext() (TraceContext, bool) {
	if s.Extensions == nil {
		return TraceContext{}, false
	}
	tc, ok := s.Extensions[correlationExtensionKey].(TraceContext)
	return tc, ok
}

// WithTraceContext returns a copy of s with its correlation extension set.
func (s Signal) WithTraceContext(tc TraceContext) Signal {
	ext := make(map[string]any, len(s.Extensions)+1)
	for k, v := range s.Extensions {
		ext[k] = v
	}
	ext[correlationExtensionKey] = tc
	s.Extensions = ext
	return s
}
