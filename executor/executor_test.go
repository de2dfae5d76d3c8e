package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestSpawnFIFOOrder(t *testing.T) {
	e := New(clock.New())
	defer e.Shutdown()

	var order []int32
	var mu atomicSlice
	for i := int32(0); i < 5; i++ {
		i := i
		e.Spawn(func(ctx context.Context) {
			mu.append(i)
		})
	}
	time.Sleep(50 * time.Millisecond)
	order = mu.snapshot()
	test.That(t, order, test.ShouldResemble, []int32{0, 1, 2, 3, 4})
}

func TestCancelHandle(t *testing.T) {
	e := New(clock.New())
	defer e.Shutdown()

	var cancelled atomic.Bool
	h := e.Spawn(func(ctx context.Context) {
		<-ctx.Done()
		cancelled.Store(true)
	})
	h.Cancel()
	h.Wait()
	test.That(t, cancelled.Load(), test.ShouldBeTrue)
}

func TestSleepWithMockClock(t *testing.T) {
	mock := clock.NewMock()
	e := New(mock)
	defer e.Shutdown()

	woke := make(chan struct{})
	e.Spawn(func(ctx context.Context) {
		_ = e.Sleep(ctx, 10*time.Second)
		close(woke)
	})

	time.Sleep(10 * time.Millisecond) // let the task reach Sleep
	mock.Add(10 * time.Second)

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("task did not wake after mock clock advanced")
	}
}

type atomicSlice struct {
	v []int32
	l sync.Mutex
}

func (a *atomicSlice) append(i int32) {
	a.l.Lock()
	defer a.l.Unlock()
	a.v = append(a.v, i)
}

func (a *atomicSlice) snapshot() []int32 {
	a.l.Lock()
	defer a.l.Unlock()
	out := make([]int32, len(a.v))
	copy(out, a.v)
	return out
}
