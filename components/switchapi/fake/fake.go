package fake

import (
	"context"
	"sync"

	"go.viam.com/micrordk/components/switchapi"
	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(switchapi.API, Model, resource.Registration[switchapi.Switch, resource.NoNativeConfig]{
		Constructor: newSwitch,
	})
}

func newSwitch(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (switchapi.Switch, error) {
	attrs := config.AttributeMap(conf.Attributes)
	numPositions := attrs.IntOr("number_of_positions", 2)
	return &Switch{
		Named:        resource.Named{ResourceName: conf.ResourceName()},
		numPositions: uint32(numPositions),
	}, nil
}

type Switch struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	mu           sync.Mutex
	position     uint32
	numPositions uint32
}

func (s *Switch) SetPosition(ctx context.Context, position uint32, extra map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if position >= s.numPositions {
		return errInvalidPosition
	}
	s.position = position
	return nil
}

func (s *Switch) GetPosition(ctx context.Context, extra map[string]interface{}) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position, nil
}

func (s *Switch) GetNumberOfPositions(ctx context.Context, extra map[string]interface{}) (uint32, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numPositions, nil, nil
}

var errInvalidPosition = &invalidPositionError{}

type invalidPositionError struct{}

func (*invalidPositionError) Error() string { return "switch: position out of range" }

var _ switchapi.Switch = (*Switch)(nil)
