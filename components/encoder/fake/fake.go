package fake

import (
	"context"
	"sync"

	"go.viam.com/micrordk/components/encoder"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(encoder.API, Model, resource.Registration[encoder.Encoder, resource.NoNativeConfig]{
		Constructor: newEncoder,
	})
}

func newEncoder(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (encoder.Encoder, error) {
	return &Encoder{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

type Encoder struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	mu       sync.Mutex
	position float64
}

func (e *Encoder) GetPosition(ctx context.Context, positionType encoder.PositionType, extra map[string]interface{}) (float64, encoder.PositionType, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position, encoder.PositionTypeTicks, nil
}

func (e *Encoder) ResetPosition(ctx context.Context, extra map[string]interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = 0
	return nil
}

var _ encoder.Encoder = (*Encoder)(nil)
