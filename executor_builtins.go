package jido

import (
	"time"

	"go.uber.org/zap"
)

func (t *executorTable) registerBuiltins() {
	t.byTag[Emit{}.Tag()] = execEmit
	t.byTag[Schedule{}.Tag()] = execSchedule
	t.byTag[Cron{}.Tag()] = execCron
	t.byTag[CronCancel{}.Tag()] = execCronCancel
	t.byTag[SpawnAgent{}.Tag()] = execSpawnAgent
	t.byTag[StopChild{}.Tag()] = execStopChild
	t.byTag[Stop{}.Tag()] = execStopSelf
	t.byTag[ErrorDirective{}.Tag()] = execError
}

// handleErrorDirective is the single path by which an Error directive
// (whether produced by a strategy, by another executor, or handed in
// directly) reaches the configured error policy (spec.md §7).
func (s *AgentServer) handleErrorDirective(ed ErrorDirective) ExecResult {
	s.mu.Lock()
	s.errorCount++
	count := s.errorCount
	s.lastError = ed.Err
	s.mu.Unlock()
	s.instance.metrics.ErrorCount(s.id, count)

	stop, reason := s.errorPolicy(ed, s.State(), count, s)
	if stop {
		return execStop(reason, nil)
	}
	return execOK(nil)
}

func execEmit(d Directive, ec *ExecContext) ExecResult {
	emit := d.(Emit)
	ec.Server.dispatchAsync(emit.Signal, emit.Dispatch)
	return execAsync(nil)
}

func execSchedule(d Directive, ec *ExecContext) ExecResult {
	sched := d.(Schedule)
	server := ec.Server
	msg := sched.Message
	if msg.ID == "" {
		msg = NewSignal(msg.Type, msg.Source, msg.Data)
	}
	server.clock.AfterFunc(time.Duration(sched.DelayMs)*time.Millisecond, func() {
		_ = server.Cast(msg)
	})
	return execOK(nil)
}

func execCron(d Directive, ec *ExecContext) ExecResult {
	cron := d.(Cron)
	server := ec.Server
	name := cronJobName(server.id, cron.JobID)
	err := server.instance.Cron.UpsertJob(name, cron.Expression, cron.Timezone, func() {
		server.instance.metrics.CronTick(server.id, cron.JobID)
		_ = server.Cast(NewSignal(cron.Message.Type, cron.Message.Source, cron.Message.Data))
	})
	if err != nil {
		jerr, _ := err.(*Error)
		if jerr == nil {
			jerr = WrapError(KindValidation, err, map[string]any{"job_id": cron.JobID})
		}
		return server.handleErrorDirective(ErrorDirective{Err: jerr, Context: map[string]any{"job_id": cron.JobID}})
	}
	server.mu.Lock()
	server.cronJobs[cron.JobID] = name
	server.mu.Unlock()
	server.logger.Info("cron job upserted", zap.String("job_id", cron.JobID), zap.String("expression", cron.Expression))
	return execOK(nil)
}

func execCronCancel(d Directive, ec *ExecContext) ExecResult {
	cancel := d.(CronCancel)
	server := ec.Server
	server.mu.Lock()
	name, ok := server.cronJobs[cancel.JobID]
	delete(server.cronJobs, cancel.JobID)
	server.mu.Unlock()
	if ok {
		server.instance.Cron.DeleteJob(name)
	}
	return execOK(nil)
}

func execSpawnAgent(d Directive, ec *ExecContext) ExecResult {
	spawn := d.(SpawnAgent)
	server := ec.Server
	ref, err := server.spawnChild(spawn)
	if err != nil {
		jerr, ok := err.(*Error)
		if !ok {
			jerr = WrapError(KindDirective, err, map[string]any{"tag": spawn.Tag})
		}
		return server.handleErrorDirective(ErrorDirective{Err: jerr})
	}
	server.dispatchAsync(NewSignal(SignalChildStarted, server.id, map[string]any{
		"tag": spawn.Tag,
		"id":  ref.Server.id,
	}), nil)
	return execAsync(nil)
}

func execStopChild(d Directive, ec *ExecContext) ExecResult {
	stopChild := d.(StopChild)
	server := ec.Server
	if err := server.stopChild(stopChild); err != nil {
		jerr, ok := err.(*Error)
		if !ok {
			jerr = WrapError(KindDirective, err, nil)
		}
		return server.handleErrorDirective(ErrorDirective{Err: jerr})
	}
	return execOK(nil)
}

func execStopSelf(d Directive, ec *ExecContext) ExecResult {
	stop := d.(Stop)
	return execStop(stop.Reason, nil)
}

func execError(d Directive, ec *ExecContext) ExecResult {
	ed := d.(ErrorDirective)
	return ec.Server.handleErrorDirective(ed)
}
