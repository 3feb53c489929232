package jido

// drain pops queued (input_signal, directive) pairs one at a time and runs
// them through the directive executor protocol until the queue empties or
// a directive requests termination (spec.md §4.2 "Drain step").
func (s *AgentServer) drain() {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return
	}
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	for {
		item, ok := s.popQueue()
		if !ok {
			return
		}
		result := s.execDirective(item)
		switch result.Outcome {
		case ExecOK, ExecAsync:
			if result.State != nil {
				s.mu.Lock()
				s.agent.State = result.State
				s.mu.Unlock()
			}
		case ExecStop:
			if result.State != nil {
				s.mu.Lock()
				s.agent.State = result.State
				s.mu.Unlock()
			}
			s.Stop(result.Reason)
			return
		}
	}
}

func (s *AgentServer) popQueue() (queueItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return queueItem{}, false
	}
	item := s.queue[0]
	s.queue = s.queue[1:]
	return item, true
}

// execDirective runs one directive through the executor table, trapping
// any panic the same way strategy panics are trapped (spec.md §4.7
// "Directive execution raises: same treatment; never poisons the queue").
func (s *AgentServer) execDirective(item queueItem) (result ExecResult) {
	defer func() {
		if r := recover(); r != nil {
			ed := ErrorDirective{Err: NewError(KindDirective, "directive executor panicked", map[string]any{
				"tag":   item.directive.Tag(),
				"panic": r,
			})}
			result = s.handleErrorDirective(ed)
		}
	}()
	ec := &ExecContext{InputSignal: item.inputSignal, Server: s}
	return s.instance.executors.dispatch(item.directive, ec)
}

// terminate performs best-effort cleanup: remove the agent from its
// instance's Registry, delete every cron job this server owns, close the
// done channel, and (if configured) emit a final lifecycle signal. It
// never re-enters the drain loop (spec.md §4.2 "Termination"). Unregistering
// here is what keeps Whereis/AgentCount/ListAgents honoring "at most one
// live pid" (invariant 3) and lets a later SpawnAgent reuse the same tag
// once its previous incarnation has exited, the way the teacher's
// internal/bot/agents.go AgentManager drops an entry on completion.
func (s *AgentServer) terminate(reason string) {
	s.mu.Lock()
	if s.stopReason == "" {
		s.stopReason = reason
	}
	jobs := make(map[string]string, len(s.cronJobs))
	for k, v := range s.cronJobs {
		jobs[k] = v
	}
	s.cronJobs = make(map[string]string)
	final := s.finalSignal
	s.mu.Unlock()

	s.instance.Registry.Unregister(s.id)

	for _, name := range jobs {
		s.instance.Cron.DeleteJob(name)
	}

	if final != nil && s.parent != nil && s.parent.Server != nil {
		_ = s.parent.Server.Cast(*final)
	}

	select {
	case <-s.doneCh:
		// already closed by a concurrent terminate call.
	default:
		close(s.doneCh)
	}
}
