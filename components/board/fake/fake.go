// Package fake implements the "fake" board model: an in-process
// GPIO-pin-map with no real bus access, used for tests and the
// dependency-rebuild scenario.
package fake

import (
	"context"
	"sync"

	"go.viam.com/micrordk/components/board"
	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(board.API, Model, resource.Registration[board.Board, resource.NoNativeConfig]{
		Constructor: newBoard,
	})
}

func newBoard(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (board.Board, error) {
	attrs := config.AttributeMap(conf.Attributes)
	return &Board{
		Named:   resource.Named{ResourceName: conf.ResourceName()},
		pins:    map[string]bool{},
		analogs: map[string]int{},
		pinCount: attrs.IntOr("pins", 0),
	}, nil
}

// Board is an in-memory GPIO pin map.
type Board struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand

	mu       sync.Mutex
	pins     map[string]bool
	analogs  map[string]int
	pinCount int
}

func (b *Board) GetGPIO(ctx context.Context, pin string, extra map[string]interface{}) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pins[pin], nil
}

func (b *Board) SetGPIO(ctx context.Context, pin string, high bool, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pins[pin] = high
	return nil
}

func (b *Board) GetAnalogReaderValue(ctx context.Context, reader string, extra map[string]interface{}) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.analogs[reader], nil
}

var _ board.Board = (*Board)(nil)
