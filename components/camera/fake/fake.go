package fake

import (
	"context"

	"go.viam.com/micrordk/components/camera"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/resource"
)

var Model = resource.NewModel("fake")

func init() {
	resource.Register(camera.API, Model, resource.Registration[camera.Camera, resource.NoNativeConfig]{
		Constructor: newCamera,
	})
}

func newCamera(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (camera.Camera, error) {
	return &Camera{Named: resource.Named{ResourceName: conf.ResourceName()}}, nil
}

// Camera returns a fixed 1x1 "image" so tests can exercise the RPC path
// without a real sensor.
type Camera struct {
	resource.Named
	resource.TriviallyCloseable
	resource.UnimplementedDoCommand
}

func (c *Camera) GetImage(ctx context.Context, mimeType string) (camera.Image, error) {
	return camera.Image{MimeType: "image/raw", Bytes: []byte{0x00}}, nil
}

var _ camera.Camera = (*Camera)(nil)
