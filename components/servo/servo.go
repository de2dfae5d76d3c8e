// Package servo defines the Servo component API.
package servo

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("servo")

type Servo interface {
	resource.Resource
	Move(ctx context.Context, angleDeg uint32, extra map[string]interface{}) error
	Position(ctx context.Context, extra map[string]interface{}) (uint32, error)
	Stop(ctx context.Context, extra map[string]interface{}) error
}
