package logbuf_test

import (
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/micrordk/logbuf"
)

func TestPushDrainOrder(t *testing.T) {
	r := logbuf.New()
	r.Push(logbuf.Record{Message: "a"})
	r.Push(logbuf.Record{Message: "b"})
	r.Push(logbuf.Record{Message: "c"})

	test.That(t, r.Len(), test.ShouldEqual, 3)
	recs := r.DrainInto()
	test.That(t, len(recs), test.ShouldEqual, 3)
	test.That(t, recs[0].Message, test.ShouldEqual, "a")
	test.That(t, recs[1].Message, test.ShouldEqual, "b")
	test.That(t, recs[2].Message, test.ShouldEqual, "c")
	test.That(t, r.Len(), test.ShouldEqual, 0)
}

func TestPushOverwritesOldestPastCapacity(t *testing.T) {
	r := logbuf.New()
	for i := 0; i < logbuf.Capacity+5; i++ {
		r.Push(logbuf.Record{Line: i})
	}
	recs := r.DrainInto()
	test.That(t, len(recs), test.ShouldEqual, logbuf.Capacity)
	test.That(t, recs[0].Line, test.ShouldEqual, 5)
	test.That(t, recs[len(recs)-1].Line, test.ShouldEqual, logbuf.Capacity+4)
}

func TestCorrectWallClockUsesInjectedNow(t *testing.T) {
	capture := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := logbuf.Record{MonotonicCapture: capture}

	drift := 3 * time.Second
	now := capture.Add(drift)

	got := logbuf.CorrectWallClock(rec, now)
	test.That(t, got.Equal(now.Add(-drift)), test.ShouldBeTrue)
	test.That(t, got.Equal(capture), test.ShouldBeTrue)
}
