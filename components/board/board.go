// Package board defines the Board component API
// — a narrow contract over GPIO/analog pins; the real pin-level driver is
// a host-network-stack concern out of scope
package board

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("board")

// Board is the uniform GPIO/analog contract.
type Board interface {
	resource.Resource

	GetGPIO(ctx context.Context, pin string, extra map[string]interface{}) (bool, error)
	SetGPIO(ctx context.Context, pin string, high bool, extra map[string]interface{}) error
	GetAnalogReaderValue(ctx context.Context, reader string, extra map[string]interface{}) (int, error)
}
