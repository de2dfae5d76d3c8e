// Package motor defines the Motor component API.
package motor

import (
	"context"

	"go.viam.com/micrordk/resource"
)

// API is this component's (namespace, type, subtype) identity.
var API = resource.APINamespaceRDK.WithComponentType("motor")

// Status reports whether the motor is currently powered and its position.
type Status struct {
	IsPowered bool
	Position  float64
}

// Motor is the uniform contract every motor model (fake, gpio, ...)
// implements.
type Motor interface {
	resource.Resource

	// SetPower sets power in [-1, 1]; 0 stops the motor.
	SetPower(ctx context.Context, power float64, extra map[string]interface{}) error
	// GetPosition returns the motor's position in encoder ticks or
	// revolutions depending on the underlying model.
	GetPosition(ctx context.Context, extra map[string]interface{}) (float64, error)
	// Stop immediately sets power to zero.
	Stop(ctx context.Context, extra map[string]interface{}) error
	// IsPowered reports whether the motor currently has non-zero power
	// and, if so, how much.
	IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error)
	// Status returns a status snapshot for Robot.GetStatus.
	Status(ctx context.Context) (Status, error)
}
