package fake

import (
	"context"

	"go.viam.com/micrordk/components/movementsensor"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(movementsensor.API, Model, resource.Registration[movementsensor.MovementSensor, resource.NoNativeConfig]{
		Constructor: newMovementSensor,
	})
}

func newMovementSensor(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (movementsensor.MovementSensor, error) {
	return &MovementSensor{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

type MovementSensor struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand
}

func (m *MovementSensor) GetPosition(ctx context.Context, extra map[string]interface{}) (movementsensor.LatLong, float64, error) {
	return movementsensor.LatLong{}, 0, nil
}

func (m *MovementSensor) GetLinearVelocity(ctx context.Context, extra map[string]interface{}) (float64, float64, float64, error) {
	return 0, 0, 0, nil
}

func (m *MovementSensor) GetAngularVelocity(ctx context.Context, extra map[string]interface{}) (movementsensor.AngularVelocity, error) {
	return movementsensor.AngularVelocity{}, nil
}

var _ movementsensor.MovementSensor = (*MovementSensor)(nil)
