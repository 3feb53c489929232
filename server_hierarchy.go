package jido

import "go.uber.org/zap"

// spawnChild starts a child agent under the same Instance, deterministically
// id'd parent_id/tag unless overridden, records it under tag, and watches
// it for exit (spec.md §4.2 "Hierarchy").
func (s *AgentServer) spawnChild(d SpawnAgent) (*ChildRef, error) {
	s.mu.RLock()
	_, exists := s.children[d.Tag]
	s.mu.RUnlock()
	if exists {
		return nil, NewError(KindAlreadyStarted, "child tag already in use", map[string]any{"tag": d.Tag})
	}

	// Deterministic default id (parent_id/tag); placed first so a caller
	// option later in d.Opts can still override it (later options win).
	defaultID := s.id + "/" + d.Tag
	opts := append([]AgentOption{WithID(defaultID)}, d.Opts...)
	opts = append(opts, WithParent(ParentRef{Server: s, ID: s.id, Tag: d.Tag, Meta: d.ParentMeta}))

	child, err := s.instance.StartAgent(d.Module, opts...)
	if err != nil {
		return nil, err
	}

	ref := &ChildRef{Server: child, Module: d.Module, Meta: d.ParentMeta}
	s.mu.Lock()
	s.children[d.Tag] = ref
	s.mu.Unlock()

	go s.watchChild(d.Tag, child)

	s.logger.Info("spawned child agent", zap.String("tag", d.Tag), zap.String("child_id", child.id))
	return ref, nil
}

// watchChild blocks until child terminates, then delivers
// jido.agent.child.exit into this server's own intake — child death is
// always observed via this monitor, never by polling.
func (s *AgentServer) watchChild(tag string, child *AgentServer) {
	<-child.Done()
	sig := NewSignal(SignalChildExit, s.id, map[string]any{
		"tag":    tag,
		"reason": child.StopReason(),
	})
	_ = s.Cast(sig)
}

// reconcileChildExit removes tag from the children map. Called from
// handleSignal when a SignalChildExit arrives at intake, so the removal
// happens on the server's own goroutine alongside every other state
// mutation.
func (s *AgentServer) reconcileChildExit(tag string) {
	s.mu.Lock()
	delete(s.children, tag)
	s.mu.Unlock()
}

// stopChild terminates the child identified by tag or pid and lets the
// monitor reconcile the children map once it actually exits.
func (s *AgentServer) stopChild(d StopChild) error {
	s.mu.RLock()
	var ref *ChildRef
	if d.ChildTag != "" {
		ref = s.children[d.ChildTag]
	} else {
		for _, c := range s.children {
			if c.Server.id == d.PID {
				ref = c
				break
			}
		}
	}
	s.mu.RUnlock()
	if ref == nil {
		return NewError(KindNotFound, "child not found", map[string]any{"tag": d.ChildTag, "pid": d.PID})
	}
	ref.Server.Stop(d.Reason)
	return nil
}

// watchParent monitors the parent server (if any) for exit and applies
// OnParentDeath once it terminates.
func (s *AgentServer) watchParent() {
	go func() {
		<-s.parent.Server.Done()
		sig := NewSignal("jido.internal.parent_death", s.id, nil)
		_ = s.Cast(sig)
	}()
}

// applyParentDeath implements the on_parent_death policy from the
// server's own goroutine.
func (s *AgentServer) applyParentDeath() (stop bool, reason string) {
	switch s.onParentDeath {
	case OnParentDeathStop:
		return true, "parent_died"
	case OnParentDeathContinue:
		s.mu.Lock()
		s.parent = nil
		s.mu.Unlock()
		return false, ""
	case OnParentDeathEmitOrphan:
		s.mu.Lock()
		s.parent = nil
		s.mu.Unlock()
		_ = s.Cast(NewSignal(SignalOrphaned, s.id, nil))
		return false, ""
	default:
		return true, "parent_died"
	}
}
