// Package fake implements the "fake_sensor" model and "fake_moisture", a
// board-dependent sensor grounded on the original micro-rdk moisture
// sensor example (examples/modular-drivers/src/moisture_sensor.rs): it
// reads an analog pin off its configured board dependency.
package fake

import (
	"context"
	"sync"

	"go.viam.com/micrordk/components/board"
	"go.viam.com/micrordk/components/sensor"
	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake_sensor")
var MoistureModel = resource.NewModel("fake_moisture")

func init() {
	resource.Register(sensor.API, Model, resource.Registration[sensor.Sensor, resource.NoNativeConfig]{
		Constructor: newSensor,
	})
	resource.Register(sensor.API, MoistureModel, resource.Registration[sensor.Sensor, resource.NoNativeConfig]{
		Constructor:         newMoistureSensor,
		DependencyExtractor: moistureDependencyExtractor,
	})
}

// Sensor is a static-reading sensor.
type Sensor struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	mu       sync.Mutex
	readings map[string]interface{}
}

func newSensor(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (sensor.Sensor, error) {
	return &Sensor{
		Named:    resource.Named{ResourceName: conf.ResourceName()},
		readings: map[string]interface{}{"value": 1.0},
	}, nil
}

func (s *Sensor) GetReadings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]interface{}, len(s.readings))
	for k, v := range s.readings {
		out[k] = v
	}
	return out, nil
}

// moistureDependencyExtractor declares that the "board" attribute key
// points at another resource.
func moistureDependencyExtractor(conf resource.Config) ([]resource.Name, error) {
	attrs := config.AttributeMap(conf.Attributes)
	boardName := attrs.StringOr("board", "")
	if boardName == "" {
		return nil, nil
	}
	return []resource.Name{resource.NewName(board.API, boardName)}, nil
}

// MoistureSensor reads an analog pin off its board dependency.
type MoistureSensor struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	board  board.Board
	reader string
}

func newMoistureSensor(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (sensor.Sensor, error) {
	attrs := config.AttributeMap(conf.Attributes)
	boardName := attrs.StringOr("board", "")
	if boardName == "" {
		return nil, errMissingBoard
	}
	b, err := resource.DependencyAsType[board.Board](deps, resource.NewName(board.API, boardName))
	if err != nil {
		return nil, err
	}
	return &MoistureSensor{
		Named:  resource.Named{ResourceName: conf.ResourceName()},
		board:  b,
		reader: attrs.StringOr("analog_reader", "moisture"),
	}, nil
}

func (m *MoistureSensor) GetReadings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	v, err := m.board.GetAnalogReaderValue(ctx, m.reader, extra)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"moisture": v}, nil
}

var errMissingBoard = &missingBoardError{}

type missingBoardError struct{}

func (*missingBoardError) Error() string { return `fake_moisture: "board" attribute is required` }

var (
	_ sensor.Sensor = (*Sensor)(nil)
	_ sensor.Sensor = (*MoistureSensor)(nil)
)
