// Package switchapi defines the Switch component API. Named switchapi
// (not switch) since "switch" is a Go keyword.
package switchapi

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("switch")

type Switch interface {
	resource.Resource
	SetPosition(ctx context.Context, position uint32, extra map[string]interface{}) error
	GetPosition(ctx context.Context, extra map[string]interface{}) (uint32, error)
	GetNumberOfPositions(ctx context.Context, extra map[string]interface{}) (uint32, []string, error)
}
