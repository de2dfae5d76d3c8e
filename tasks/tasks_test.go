package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/test"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/executor"
	"go.viam.com/micrordk/tasks"
)

type countingTask struct {
	name    string
	period  time.Duration
	results []error
	calls   int
}

func (c *countingTask) Name() string                { return c.name }
func (c *countingTask) DefaultPeriod() time.Duration { return c.period }
func (c *countingTask) Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error) {
	var err error
	if c.calls < len(c.results) {
		err = c.results[c.calls]
	}
	c.calls++
	return nil, err
}

func TestSupervisorRegistersAndRunsTask(t *testing.T) {
	exec := executor.New(clock.New())
	defer exec.Shutdown()

	sup, err := tasks.NewSupervisor(nil, nil, exec)
	test.That(t, err, test.ShouldBeNil)

	done := make(chan struct{})
	task := &countingTask{name: "probe", period: 10 * time.Millisecond}
	test.That(t, sup.Register(task), test.ShouldBeNil)
	sup.Start()
	defer sup.Shutdown()

	go func() {
		for i := 0; i < 50 && task.calls == 0; i++ {
			time.Sleep(10 * time.Millisecond)
		}
		close(done)
	}()
	<-done
	test.That(t, task.calls > 0, test.ShouldBeTrue)
}

// concurrencyProbeTask records whether any other instance of itself was
// already inside Invoke when it started, proving Invoke bodies never
// overlap even when two jobs are due at nearly the same moment.
type concurrencyProbeTask struct {
	name    string
	period  time.Duration
	inside  int32
	overlap bool
	calls   int
}

func (c *concurrencyProbeTask) Name() string                { return c.name }
func (c *concurrencyProbeTask) DefaultPeriod() time.Duration { return c.period }
func (c *concurrencyProbeTask) Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error) {
	if c.inside != 0 {
		c.overlap = true
	}
	c.inside++
	time.Sleep(5 * time.Millisecond)
	c.inside--
	c.calls++
	return nil, nil
}

func TestSupervisorSerializesTaskInvocationsThroughExecutor(t *testing.T) {
	exec := executor.New(clock.New())
	defer exec.Shutdown()

	sup, err := tasks.NewSupervisor(nil, nil, exec)
	test.That(t, err, test.ShouldBeNil)

	a := &concurrencyProbeTask{name: "a", period: 10 * time.Millisecond}
	b := &concurrencyProbeTask{name: "b", period: 10 * time.Millisecond}
	test.That(t, sup.Register(a), test.ShouldBeNil)
	test.That(t, sup.Register(b), test.ShouldBeNil)
	sup.Start()
	defer sup.Shutdown()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && (a.calls == 0 || b.calls == 0) {
		time.Sleep(10 * time.Millisecond)
	}
	test.That(t, a.calls > 0, test.ShouldBeTrue)
	test.That(t, b.calls > 0, test.ShouldBeTrue)
	test.That(t, a.overlap, test.ShouldBeFalse)
	test.That(t, b.overlap, test.ShouldBeFalse)
}
