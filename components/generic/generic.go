// Package generic defines the Generic component API, for models with no typed RPC surface of their own —
// every call goes through DoCommand.
package generic

import "go.viam.com/micrordk/resource"

var API = resource.APINamespaceRDK.WithComponentType("generic")

// Generic is just resource.Resource: DoCommand is already part of the
// base contract.
type Generic interface {
	resource.Resource
}
