package fake

import (
	"context"

	"go.viam.com/micrordk/components/generic"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(generic.API, Model, resource.Registration[generic.Generic, resource.NoNativeConfig]{
		Constructor: newGeneric,
	})
}

func newGeneric(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (generic.Generic, error) {
	return &Generic{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

// Generic echoes its command back under an "echo" key, useful for
// exercising the DoCommand RPC path in tests.
type Generic struct {
	resource.Named
	resource.TriviallyCloseable
}

func (g *Generic) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{"echo": cmd}, nil
}

var _ generic.Generic = (*Generic)(nil)
