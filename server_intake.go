package jido

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// runLoop is the server's own goroutine: it reads the inbox sequentially,
// processes each signal through the pure phase then the drain phase, and
// returns when stopped. It returns true if it is terminating because of an
// unrecovered panic in runtime code (not a strategy/directive error, which
// is already trapped inside handleSignal/drain) — the instance's
// AgentSupervisor treats that as a crash and may restart it.
func (s *AgentServer) runLoop() (crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("agent server loop panicked", zap.Any("panic", r))
			crashed = true
			s.terminate(fmt.Sprintf("panic: %v", r))
		}
	}()
	for {
		select {
		case msg := <-s.inbox:
			s.handleSignal(msg)
			if s.isStopped() {
				s.terminate(s.StopReason())
				return false
			}
		case <-s.stopCh:
			s.terminate(s.StopReason())
			return false
		}
	}
}

func (s *AgentServer) isStopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopped
}

// handleSignal runs the pure phase for one incoming signal — trace
// bootstrap, validation, routing, strategy invocation, queueing — then
// replies to a synchronous caller, then drains the resulting directive
// queue (spec.md §4.2).
func (s *AgentServer) handleSignal(msg inboxMsg) {
	signal := msg.signal

	if signal.Type == "jido.internal.parent_death" {
		stop, reason := s.applyParentDeath()
		if stop {
			s.Stop(reason)
		}
		s.replyCall(msg, s.State(), nil)
		return
	}
	if signal.Type == SignalChildExit {
		if tag, ok := signal.Data["tag"].(string); ok {
			s.reconcileChildExit(tag)
		}
	}

	if !signal.Valid() {
		s.logger.Warn("dropping malformed signal", zap.String("type", signal.Type))
		s.replyCall(msg, Agent{}, NewError(KindValidation, "malformed signal", nil))
		return
	}

	if initErr := s.ensureInitialized(); initErr != nil {
		s.mu.Lock()
		s.queue = append(s.queue, queueItem{inputSignal: signal, directive: ErrorDirective{Err: initErr}})
		depth := len(s.queue)
		s.mu.Unlock()
		s.instance.metrics.QueueDepth(s.id, depth)
		s.replyCall(msg, s.State(), nil)
		s.drain()
		return
	}

	trace, hadTrace := signal.TraceContext()
	if !hadTrace {
		trace = rootTraceContext()
	}

	_, span := s.tracer.Start(context.Background(), "jido.agent.handle_signal",
		StringAttr("signal.type", signal.Type),
		StringAttr("agent.id", s.id))
	defer span.End()

	instructions := s.routeSignal(signal)
	agent := s.State()
	nextAgent, directives := s.invokeStrategy(agent, instructions, StrategyContext{Signal: signal, Trace: trace})

	directives = attachTrace(directives, trace, signal.ID)

	kept, dropped := s.enforceQueueLimit(directives)
	if dropped > 0 {
		s.mu.Lock()
		s.droppedDirectives += dropped
		s.mu.Unlock()
		s.logger.Warn("max_queue_size exceeded, dropping directives",
			zap.Int("dropped", dropped), zap.Int("max_queue_size", s.maxQueueSize))
		span.SetAttr(IntAttr("directives.dropped", dropped))
		s.instance.metrics.DirectiveDropped(s.id, dropped)
	}

	s.mu.Lock()
	s.agent = nextAgent
	for _, d := range kept {
		s.queue = append(s.queue, queueItem{inputSignal: signal, directive: d})
	}
	depth := len(s.queue)
	s.mu.Unlock()
	s.instance.metrics.QueueDepth(s.id, depth)

	s.replyCall(msg, nextAgent, nil)

	s.drain()
}

func (s *AgentServer) replyCall(msg inboxMsg, agent Agent, err error) {
	if msg.reply == nil {
		return
	}
	msg.reply <- callResult{agent: agent, err: err}
}

func (s *AgentServer) routeSignal(signal Signal) []Instruction {
	handlers := s.router.Match(signal)
	var instructions []Instruction
	for _, h := range handlers {
		instructions = append(instructions, h(signal)...)
	}
	return instructions
}

// invokeStrategy calls the module's strategy, trapping any panic and
// surfacing it as a strategy Error directive with the agent's state left
// unchanged (spec.md §4.7).
func (s *AgentServer) invokeStrategy(agent Agent, instructions []Instruction, ctx StrategyContext) (result Agent, directives []Directive) {
	result = agent
	defer func() {
		if r := recover(); r != nil {
			result = agent
			directives = []Directive{ErrorDirective{
				Err: NewError(KindStrategy, fmt.Sprintf("strategy panicked: %v", r), map[string]any{
					"signal_type": ctx.Signal.Type,
				}),
			}}
		}
	}()
	strategy := s.module.Strategy()
	return strategy.Cmd(agent, instructions, &ctx)
}

// attachTrace gives every Emit/Schedule directive's outgoing signal a
// child trace context linked to causeSignalID, unless it already carries
// one (spec.md invariant 6 / §4.6).
func attachTrace(directives []Directive, trace TraceContext, causeSignalID string) []Directive {
	child := trace.childOf(causeSignalID)
	out := make([]Directive, len(directives))
	for i, d := range directives {
		switch v := d.(type) {
		case Emit:
			if _, ok := v.Signal.TraceContext(); !ok {
				v.Signal = v.Signal.WithTraceContext(child)
			}
			out[i] = v
		case Schedule:
			if _, ok := v.Message.TraceContext(); !ok {
				v.Message = v.Message.WithTraceContext(child)
			}
			out[i] = v
		default:
			out[i] = d
		}
	}
	return out
}

// enforceQueueLimit returns the directives that fit within max_queue_size
// given the current queue length, and the count dropped (spec.md §8
// boundary behavior: "the first (M - current_length) are enqueued; the
// rest are dropped").
func (s *AgentServer) enforceQueueLimit(directives []Directive) (kept []Directive, dropped int) {
	s.mu.RLock()
	current := len(s.queue)
	max := s.maxQueueSize
	s.mu.RUnlock()
	if max <= 0 {
		return directives, 0
	}
	room := max - current
	if room < 0 {
		room = 0
	}
	if len(directives) <= room {
		return directives, 0
	}
	return directives[:room], len(directives) - room
}
