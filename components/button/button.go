// Package button defines the Button component API, grounded on
// micro-rdk's common/button.rs trait (a momentary-press input).
package button

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("button")

type Button interface {
	resource.Resource
	Push(ctx context.Context, extra map[string]interface{}) error
}
