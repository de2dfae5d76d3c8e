// Package tasks implements the periodic-task supervisor
// running ConfigRefresh, LogUpload, RestartMonitor, SignalingAnswer, and
// OtaCheck, each invoked at its own period with jittered scheduling and
// an exponential backoff on Transient errors capped at base period x16.
package tasks

import (
	"context"
	"time"

	"go.viam.com/micrordk/appclient"
)

// Task is the uniform periodic-task contract the supervisor schedules.
type Task interface {
	Name() string
	DefaultPeriod() time.Duration
	// Invoke runs one iteration. A non-nil *time.Duration overrides the
	// period for the next iteration only (e.g. RestartMonitor suppressing
	// itself after a restart has already been requested); nil keeps the
	// task on its current period.
	Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error)
}
