package logging

import (
	"time"

	"go.uber.org/zap/zapcore"

	"go.viam.com/micrordk/logbuf"
)

// ringCore is a zapcore.Core that mirrors every accepted entry into the
// shared LogRing instead of (or in addition to) writing bytes anywhere.
// It never returns an error: LogRing.Push never fails.
type ringCore struct {
	zapcore.LevelEnabler
	ring *logbuf.Ring
}

func newRingCore(ring *logbuf.Ring, enab zapcore.LevelEnabler) zapcore.Core {
	return &ringCore{LevelEnabler: enab, ring: ring}
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	return c
}

func (c *ringCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *ringCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	c.ring.Push(logbuf.Record{
		Level:            ent.Level.CapitalString(),
		Message:          ent.Message,
		File:             ent.Caller.File,
		Line:             ent.Caller.Line,
		MonotonicCapture: monotonicNow(ent.Time),
	})
	return nil
}

func (c *ringCore) Sync() error { return nil }

// monotonicNow returns t unless it is the zero time, in which case it
// substitutes time.Now() so CorrectWallClock's subtraction stays valid.
func monotonicNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
