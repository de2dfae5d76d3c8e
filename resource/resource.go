package resource

import "context"

// Resource is the minimal contract every component instance satisfies
// regardless of its API: naming, DoCommand, and teardown.
// Concrete API interfaces (motor.Motor, sensor.Sensor, ...) embed this.
type Resource interface {
	Name() Name
	// DoCommand is the arbitrary-command escape hatch
	// design notes; the default embeddable implementation returns
	// Unimplemented and each component model may override it.
	DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error)
	// Close releases any resources held (sockets, file handles, timers).
	// LocalRobot calls this exactly once when an instance is removed from
	// the graph or replaced by a rebuilt instance (testable property 7).
	Close(ctx context.Context) error
}

// Named is an embeddable helper that implements Name().
type Named struct {
	ResourceName Name
}

func (n Named) Name() Name { return n.ResourceName }

func (n Named) AsNamed() Named { return n }

// TriviallyCloseable is an embeddable helper for resources with nothing
// to release on Close.
type TriviallyCloseable struct{}

func (TriviallyCloseable) Close(ctx context.Context) error { return nil }

// UnimplementedDoCommand is an embeddable helper for the default
// DoCommand behavior.
type UnimplementedDoCommand struct{}

func (UnimplementedDoCommand) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	return nil, ErrUnimplementedDoCommand
}

// ErrUnimplementedDoCommand is returned by the default DoCommand.
var ErrUnimplementedDoCommand = &unimplementedError{}

type unimplementedError struct{}

func (*unimplementedError) Error() string { return "DoCommand unimplemented" }

// Dependencies maps a resolved dependency Name to its live instance,
// handed to a factory during instantiation.
type Dependencies map[Name]Resource

// AsType asserts dep implements R, returning a DependencyTypeError
// otherwise. Factories use this to narrow a raw dependency handle to the
// API interface they actually need (e.g. board.Board).
func AsType[R any](res Resource) (R, error) {
	if typed, ok := res.(R); ok {
		return typed, nil
	}
	var zero R
	return zero, TypeError[R](res)
}

// DependencyAsType narrows a dependency looked up by name.
func DependencyAsType[R any](deps Dependencies, name Name) (R, error) {
	res, ok := deps[name]
	if !ok {
		var zero R
		return zero, NewNotFoundError(name)
	}
	typed, ok := res.(R)
	if !ok {
		var zero R
		return zero, DependencyTypeError[R](name, res)
	}
	return typed, nil
}
