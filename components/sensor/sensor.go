// Package sensor defines the generic Sensor component API.
package sensor

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("sensor")

// Sensor returns an arbitrary map of named readings; the interpretation
// of keys/values is model-specific (e.g. a moisture sensor returns
// {"moisture": 0.42}).
type Sensor interface {
	resource.Resource
	GetReadings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error)
}
