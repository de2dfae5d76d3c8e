// Package encoder defines the Encoder component API.
package encoder

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("encoder")

type PositionType int

const (
	PositionTypeUnspecified PositionType = iota
	PositionTypeTicks
	PositionTypeDegrees
)

type Encoder interface {
	resource.Resource
	GetPosition(ctx context.Context, positionType PositionType, extra map[string]interface{}) (float64, PositionType, error)
	ResetPosition(ctx context.Context, extra map[string]interface{}) error
}
