package tasks

import (
	"context"
	"time"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/events"
)

// RestartMonitor polls check_for_restart and emits a Restart system
// event on true. Once a restart has been requested this task stops
// polling check_for_restart: every later Invoke returns a fixed 24-hour
// period override without contacting the cloud, until ViamServer acts
// on the event and ends the session.
type RestartMonitor struct {
	RobotID string
	Bus     *events.Bus
	Period  time.Duration

	requested bool
}

func (r *RestartMonitor) Name() string                { return "RestartMonitor" }
func (r *RestartMonitor) DefaultPeriod() time.Duration { return r.Period }

func (r *RestartMonitor) Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error) {
	if r.requested {
		// Suppress further polling: sleep effectively forever rather than
		// keep hitting the endpoint after a restart is already pending.
		never := 24 * time.Hour
		return &never, nil
	}

	needsRestart, err := client.CheckForRestart(ctx, r.RobotID)
	if err != nil {
		return nil, err
	}
	if needsRestart {
		r.requested = true
		r.Bus.Publish(events.Event{Kind: events.Restart, Detail: "cloud requested restart"})
		never := 24 * time.Hour
		return &never, nil
	}
	return nil, nil
}
