package fake

import (
	"context"
	"sync/atomic"

	"go.viam.com/micrordk/components/button"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(button.API, Model, resource.Registration[button.Button, resource.NoNativeConfig]{
		Constructor: newButton,
	})
}

func newButton(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (button.Button, error) {
	return &Button{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

type Button struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	pushes atomic.Int64
}

func (b *Button) Push(ctx context.Context, extra map[string]interface{}) error {
	b.pushes.Add(1)
	return nil
}

var _ button.Button = (*Button)(nil)
