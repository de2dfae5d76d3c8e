// Package fake implements the "fake" motor model used in tests and the
// end-to-end bring-up scenario.
package fake

import (
	"context"
	"sync"

	"go.viam.com/micrordk/components/motor"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(motor.API, Model, resource.Registration[motor.Motor, resource.NoNativeConfig]{
		Constructor: newMotor,
	})
}

func newMotor(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (motor.Motor, error) {
	return &Motor{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

// Motor is an in-memory motor with no real actuator behind it.
type Motor struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	mu       sync.Mutex
	power    float64
	position float64
}

func (m *Motor) SetPower(ctx context.Context, power float64, extra map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.power = power
	return nil
}

func (m *Motor) GetPosition(ctx context.Context, extra map[string]interface{}) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, nil
}

func (m *Motor) Stop(ctx context.Context, extra map[string]interface{}) error {
	return m.SetPower(ctx, 0, extra)
}

func (m *Motor) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.power != 0, m.power, nil
}

func (m *Motor) Status(ctx context.Context) (motor.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return motor.Status{IsPowered: m.power != 0, Position: m.position}, nil
}

var _ motor.Motor = (*Motor)(nil)
