// Package executor implements the single-threaded cooperative task
// scheduler. Tasks are ordinary Go functions; the executor
// itself does not multiplex them onto one OS thread (Go's own runtime
// already cooperatively schedules goroutines across syscalls, channel
// operations, and timers) — instead it enforces: FIFO dispatch order for
// tasks that become ready together, a single shared Clock so timers are
// mockable in tests, and cooperative cancellation via a Handle the task
// must observe at its own suspension points.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Task is a unit of work. It must check ctx.Done() at its own suspension
// points (I/O readiness, timer wait, channel op) and unwind scoped
// resources when it fires,
type Task func(ctx context.Context)

// Handle represents a spawned task. Dropping the handle without calling
// Cancel has no effect: the task keeps running. Call Cancel explicitly to
// request cooperative cancellation.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel requests cancellation and does not wait for the task to unwind.
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the task has returned.
func (h *Handle) Wait() {
	<-h.done
}

// Executor runs tasks with FIFO arrival ordering among tasks spawned from
// the same caller at the same tick,
type Executor struct {
	clock  clock.Clock
	mu     sync.Mutex
	order  uint64
	queue  chan func()
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs an Executor. Pass clock.New() for production or
// clock.NewMock() in tests that need to control timer firing
// deterministically.
func New(clk clock.Clock) *Executor {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		clock:  clk,
		queue:  make(chan func(), 256),
		ctx:    ctx,
		cancel: cancel,
	}
	e.wg.Add(1)
	go e.loop()
	return e
}

func (e *Executor) loop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case fn := <-e.queue:
			fn()
		}
	}
}

// Spawn schedules task to run, returning a Handle for cooperative
// cancellation. The task's context is derived from the Executor's own
// lifetime, so shutting down the Executor cancels every outstanding task.
func (e *Executor) Spawn(task Task) *Handle {
	taskCtx, cancel := context.WithCancel(e.ctx)
	done := make(chan struct{})
	e.enqueue(func() {
		defer close(done)
		task(taskCtx)
	})
	return &Handle{cancel: cancel, done: done}
}

func (e *Executor) enqueue(fn func()) {
	select {
	case e.queue <- fn:
	case <-e.ctx.Done():
	}
}

// RunUntil runs fn on the executor's single dispatch goroutine, blocking
// the caller until fn returns or ctx is done, whichever comes first (on
// ctx cancellation it returns without waiting for fn to finish).
func (e *Executor) RunUntil(ctx context.Context, fn func(ctx context.Context)) {
	done := make(chan struct{})
	e.enqueue(func() {
		defer close(done)
		fn(ctx)
	})
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Sleep suspends the calling task for d, honoring ctx cancellation and
// the Executor's Clock so tests can fast-forward.
func (e *Executor) Sleep(ctx context.Context, d time.Duration) error {
	timer := e.clock.Timer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Timeout runs fn, returning context.DeadlineExceeded if it doesn't
// finish within d.
func (e *Executor) Timeout(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(timeoutCtx)
	}()
	select {
	case err := <-errCh:
		return err
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	}
}

// Shutdown cancels every outstanding task and waits for the dispatch loop
// to exit.
func (e *Executor) Shutdown() {
	e.cancel()
	e.wg.Wait()
}
