// Package movementsensor defines the MovementSensor component API
// (GPS/IMU-class sensors; the NMEA/fusion internals are out of scope per
// out of scope here).
package movementsensor

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("movement_sensor")

type LatLong struct {
	Latitude  float64
	Longitude float64
}

type AngularVelocity struct {
	X, Y, Z float64
}

type MovementSensor interface {
	resource.Resource
	GetPosition(ctx context.Context, extra map[string]interface{}) (LatLong, float64, error)
	GetLinearVelocity(ctx context.Context, extra map[string]interface{}) (float64, float64, float64, error)
	GetAngularVelocity(ctx context.Context, extra map[string]interface{}) (AngularVelocity, error)
}
