package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/executor"
	"go.viam.com/micrordk/logging"
)

const maxBackoffMultiplier = 16

// Supervisor runs each registered Task on its own gocron job, jittering
// every period by +/-10% so tasks on many devices don't wake in
// lockstep, and re-scheduling a task onto a longer period via
// Scheduler.Update when Invoke reports a Transient error — capped at the
// task's default period x16. gocron's own goroutine-per-job timers only
// decide *when* a task fires; the task body itself always runs on exec's
// single logical thread via Executor.RunUntil, so two tasks due at the
// same moment still execute one after the other rather than racing each
// other inside the same Invoke call.
type Supervisor struct {
	client *appclient.AppClient
	logger logging.Logger
	sched  gocron.Scheduler
	exec   *executor.Executor

	mu            sync.Mutex
	jobs          map[string]gocron.Job
	defaultPeriod map[string]time.Duration
	consecutive   map[string]int
}

func NewSupervisor(client *appclient.AppClient, logger logging.Logger, exec *executor.Executor) (*Supervisor, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("tasks: creating scheduler: %w", err)
	}
	return &Supervisor{
		client:        client,
		logger:        logger,
		sched:         sched,
		exec:          exec,
		jobs:          make(map[string]gocron.Job),
		defaultPeriod: make(map[string]time.Duration),
		consecutive:   make(map[string]int),
	}, nil
}

// Register schedules t at its default period immediately.
func (s *Supervisor) Register(t Task) error {
	period := t.DefaultPeriod()
	job, err := s.sched.NewJob(jitteredDef(period), gocron.NewTask(func() { s.invoke(t) }))
	if err != nil {
		return fmt.Errorf("tasks: scheduling %s: %w", t.Name(), err)
	}

	s.mu.Lock()
	s.jobs[t.Name()] = job
	s.defaultPeriod[t.Name()] = period
	s.mu.Unlock()
	return nil
}

func (s *Supervisor) Start() { s.sched.Start() }

func (s *Supervisor) Shutdown() error { return s.sched.Shutdown() }

func jitteredDef(period time.Duration) gocron.JobDefinition {
	jitter := period / 10
	return gocron.DurationRandomJob(period-jitter, period+jitter)
}

func (s *Supervisor) invoke(t Task) {
	ctx := context.Background()
	var override *time.Duration
	var err error
	s.exec.RunUntil(ctx, func(taskCtx context.Context) {
		override, err = t.Invoke(taskCtx, s.client)
	})

	s.mu.Lock()
	base := s.defaultPeriod[t.Name()]
	var nextPeriod time.Duration
	switch {
	case err == nil:
		s.consecutive[t.Name()] = 0
		nextPeriod = base
	case errkind.Is(err, errkind.TransientKind):
		s.consecutive[t.Name()]++
		nextPeriod = backoffPeriod(base, s.consecutive[t.Name()])
		s.logger.Warnw("periodic task failed, backing off", "task", t.Name(), "error", err, "next_period", nextPeriod)
	default:
		nextPeriod = base
		s.logger.Errorw("periodic task failed", "task", t.Name(), "error", err)
	}
	if override != nil {
		nextPeriod = *override
	}
	job := s.jobs[t.Name()]
	s.mu.Unlock()

	if job == nil || nextPeriod == base && err == nil && override == nil {
		return
	}
	updated, err := s.sched.Update(job.ID(), jitteredDef(nextPeriod), gocron.NewTask(func() { s.invoke(t) }))
	if err != nil {
		s.logger.Errorw("rescheduling task failed", "task", t.Name(), "error", err)
		return
	}
	s.mu.Lock()
	s.jobs[t.Name()] = updated
	s.mu.Unlock()
}

func backoffPeriod(base time.Duration, consecutiveFailures int) time.Duration {
	mult := time.Duration(1)
	for i := 0; i < consecutiveFailures && mult < maxBackoffMultiplier; i++ {
		mult *= 2
	}
	if mult > maxBackoffMultiplier {
		mult = maxBackoffMultiplier
	}
	return base * mult
}
