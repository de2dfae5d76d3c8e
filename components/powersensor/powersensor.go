// Package powersensor defines the PowerSensor component API.
package powersensor

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("power_sensor")

type PowerSensor interface {
	resource.Resource
	GetVoltage(ctx context.Context, extra map[string]interface{}) (volts float64, isAC bool, err error)
	GetCurrent(ctx context.Context, extra map[string]interface{}) (amps float64, isAC bool, err error)
	GetPower(ctx context.Context, extra map[string]interface{}) (watts float64, err error)
}
