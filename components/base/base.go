// Package base defines the mobile-Base component API.
package base

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("base")

type Base interface {
	resource.Resource
	SetPower(ctx context.Context, linear, angular float64, extra map[string]interface{}) error
	Stop(ctx context.Context, extra map[string]interface{}) error
	IsMoving(ctx context.Context) (bool, error)
}
