package fake

import (
	"context"

	"go.viam.com/micrordk/components/powersensor"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(powersensor.API, Model, resource.Registration[powersensor.PowerSensor, resource.NoNativeConfig]{
		Constructor: newPowerSensor,
	})
}

func newPowerSensor(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (powersensor.PowerSensor, error) {
	return &PowerSensor{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

type PowerSensor struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand
}

func (p *PowerSensor) GetVoltage(ctx context.Context, extra map[string]interface{}) (float64, bool, error) {
	return 5.0, false, nil
}

func (p *PowerSensor) GetCurrent(ctx context.Context, extra map[string]interface{}) (float64, bool, error) {
	return 0.1, false, nil
}

func (p *PowerSensor) GetPower(ctx context.Context, extra map[string]interface{}) (float64, error) {
	return 0.5, nil
}

var _ powersensor.PowerSensor = (*PowerSensor)(nil)
