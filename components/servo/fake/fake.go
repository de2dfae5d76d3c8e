package fake

import (
	"context"
	"sync"

	"go.viam.com/micrordk/components/servo"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(servo.API, Model, resource.Registration[servo.Servo, resource.NoNativeConfig]{
		Constructor: newServo,
	})
}

func newServo(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (servo.Servo, error) {
	return &Servo{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

type Servo struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	mu    sync.Mutex
	angle uint32
}

func (s *Servo) Move(ctx context.Context, angleDeg uint32, extra map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.angle = angleDeg
	return nil
}

func (s *Servo) Position(ctx context.Context, extra map[string]interface{}) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle, nil
}

func (s *Servo) Stop(ctx context.Context, extra map[string]interface{}) error {
	return nil
}

var _ servo.Servo = (*Servo)(nil)
