package tasks

import (
	"context"
	"time"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/logbuf"
	"go.viam.com/micrordk/protoglue"
)

// LogUpload drains the bounded log ring and pushes it to the cloud at
// Period, dropping the batch on any send failure rather than retaining
// it.
type LogUpload struct {
	Ring   *logbuf.Ring
	Period time.Duration
}

func (l *LogUpload) Name() string                { return "LogUpload" }
func (l *LogUpload) DefaultPeriod() time.Duration { return l.Period }

func (l *LogUpload) Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error) {
	records := l.Ring.DrainInto()
	if len(records) == 0 {
		return nil, nil
	}

	now := time.Now()
	entries := make([]protoglue.LogEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, protoglue.LogEntry{
			Level:   rec.Level,
			Message: rec.Message,
			File:    rec.File,
			Line:    rec.Line,
			TimeRFC: logbuf.CorrectWallClock(rec, now).Format(time.RFC3339Nano),
		})
	}

	for len(entries) > 0 {
		batch := entries
		if len(batch) > 150 {
			batch = batch[:150]
		}
		if err := client.PushLogs(ctx, batch); err != nil {
			return nil, err
		}
		entries = entries[len(batch):]
	}
	return nil, nil
}
