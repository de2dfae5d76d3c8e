package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go.viam.com/micrordk/logbuf"
)

// Logger is the facade every package in the runtime logs through. It is
// intentionally narrow: callers never reach for zap directly so the ring
// mirroring and the eventual net-appender to AppClient stay centralized.
type Logger interface {
	Named(name string) Logger

	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Sync() error
}

type impl struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a Logger that writes human-readable lines to stderr and
// mirrors every record into ring, the shared LogRing AppClient drains
// for log uploads.
func NewLogger(name string, ring *logbuf.Ring) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(os.Stderr),
		zapcore.DebugLevel,
	)

	cores := []zapcore.Core{consoleCore}
	if ring != nil {
		cores = append(cores, newRingCore(ring, zapcore.DebugLevel))
	}

	core := zapcore.NewTee(cores...)
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Named(name)
	return &impl{sugar: base.Sugar()}
}

// NewTestLogger returns a Logger suitable for unit tests: it writes to
// stderr only, with no ring mirroring. Callers that need to assert on
// log output should use NewObservedLogger instead.
func NewTestLogger(name string) Logger {
	return NewLogger(name, nil)
}

// NewObservedLogger returns a Logger backed by zaptest/observer, for
// tests that need to assert on which records were actually emitted
// rather than just that a call didn't panic.
func NewObservedLogger(name string) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core).Named(name)
	return &impl{sugar: base.Sugar()}, logs
}

func (l *impl) Named(name string) Logger {
	return &impl{sugar: l.sugar.Named(name)}
}

func (l *impl) Debug(args ...interface{})                       { l.sugar.Debug(args...) }
func (l *impl) Debugf(template string, args ...interface{})     { l.sugar.Debugf(template, args...) }
func (l *impl) Debugw(msg string, kv ...interface{})            { l.sugar.Debugw(msg, kv...) }
func (l *impl) Info(args ...interface{})                        { l.sugar.Info(args...) }
func (l *impl) Infof(template string, args ...interface{})      { l.sugar.Infof(template, args...) }
func (l *impl) Infow(msg string, kv ...interface{})             { l.sugar.Infow(msg, kv...) }
func (l *impl) Warn(args ...interface{})                        { l.sugar.Warn(args...) }
func (l *impl) Warnf(template string, args ...interface{})      { l.sugar.Warnf(template, args...) }
func (l *impl) Warnw(msg string, kv ...interface{})             { l.sugar.Warnw(msg, kv...) }
func (l *impl) Error(args ...interface{})                       { l.sugar.Error(args...) }
func (l *impl) Errorf(template string, args ...interface{})     { l.sugar.Errorf(template, args...) }
func (l *impl) Errorw(msg string, kv ...interface{})            { l.sugar.Errorw(msg, kv...) }
func (l *impl) Sync() error                                     { return l.sugar.Sync() }
