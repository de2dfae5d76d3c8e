// Package logging provides the structured logger used throughout the
// runtime. It wraps go.uber.org/zap with a level type that round-trips
// through JSON the way the cloud config expects, and a core that mirrors
// every record into the bounded log ring (see package logbuf).
package logging

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log record. It mirrors zapcore.Level but adds
// JSON (de)serialization compatible with the cloud config's lowercase
// strings.
type Level int8

const (
	DEBUG Level = Level(zapcore.DebugLevel)
	INFO  Level = Level(zapcore.InfoLevel)
	WARN  Level = Level(zapcore.WarnLevel)
	ERROR Level = Level(zapcore.ErrorLevel)
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int8(l))
	}
}

func (l Level) zapLevel() zapcore.Level {
	return zapcore.Level(l)
}

// LevelFromString parses a level, accepting "warning" as an alias for
// "warn" the way the cloud config historically has.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := LevelFromString(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
