package tasks

import (
	"context"
	"time"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/robot"
)

// ConfigRefresh periodically re-pulls the robot config and applies any
// drift.
type ConfigRefresh struct {
	RobotID string
	Robot   *robot.LocalRobot
	Period  time.Duration
}

func (c *ConfigRefresh) Name() string                { return "ConfigRefresh" }
func (c *ConfigRefresh) DefaultPeriod() time.Duration { return c.Period }

func (c *ConfigRefresh) Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error) {
	wire, err := client.Config(ctx, c.RobotID)
	if err != nil {
		return nil, err
	}

	components := make([]config.ComponentConfig, 0, len(wire.Components))
	for _, w := range wire.Components {
		components = append(components, config.ComponentConfig{
			Name:       w.Name,
			API:        w.API,
			Model:      w.Model,
			Attributes: config.AttributeMap(w.Attributes),
			DependsOn:  w.DependsOn,
		})
	}

	return nil, c.Robot.ApplyConfig(ctx, config.RobotConfig{Components: components})
}
