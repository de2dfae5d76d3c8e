// Package camera defines the Camera component API. Image codec/pixel
// format concerns are out of scope ("individual component
// driver internals... appear only as trait contracts"); GetImage returns
// an opaque encoded payload plus its declared MIME type.
package camera

import (
	"context"

	"go.viam.com/micrordk/resource"
)

var API = resource.APINamespaceRDK.WithComponentType("camera")

type Image struct {
	MimeType string
	Bytes    []byte
}

type Camera interface {
	resource.Resource
	GetImage(ctx context.Context, mimeType string) (Image, error)
}
