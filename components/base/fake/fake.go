package fake

import (
	"context"
	"sync"

	"go.viam.com/micrordk/components/base"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(base.API, Model, resource.Registration[base.Base, resource.NoNativeConfig]{
		Constructor: newBase,
	})
}

func newBase(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (base.Base, error) {
	return &Base{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

type Base struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	mu      sync.Mutex
	moving  bool
}

func (b *Base) SetPower(ctx context.Context, linear, angular float64, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moving = linear != 0 || angular != 0
	return nil
}

func (b *Base) Stop(ctx context.Context, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moving = false
	return nil
}

func (b *Base) IsMoving(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moving, nil
}

var _ base.Base = (*Base)(nil)
