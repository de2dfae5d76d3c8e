// Package resource defines the typed identifiers, registry, and
// dependency graph shared by every component API (motor, sensor, board,
// ...): ResourceName and ResourceGraph.
package resource

import (
	"fmt"
	"strings"
)

// APINamespace is the organization namespace an API belongs to, e.g.
// "rdk" for built-in APIs or a third-party namespace for modular ones.
type APINamespace string

// APIType names a coarse resource type within a namespace. The runtime
// only ever uses "component", since services are out of scope for the
// embedded core.
type APIType struct {
	Namespace APINamespace
	Name      string
}

// API identifies a component API, e.g. rdk:component:motor.
type API struct {
	Type        APIType
	SubtypeName string
}

func (a API) String() string {
	return fmt.Sprintf("%s:%s:%s", a.Type.Namespace, a.Type.Name, a.SubtypeName)
}

// WithComponentType returns the API for the given subtype under this
// namespace's "component" type.
func (ns APINamespace) WithComponentType(subtype string) API {
	return API{Type: APIType{Namespace: ns, Name: "component"}, SubtypeName: subtype}
}

// WithServiceType returns the API for the given subtype under this
// namespace's "service" type. Nothing in this runtime calls it; the OTA
// service is configured as a config.ServiceConfig, not a resource.
func (ns APINamespace) WithServiceType(subtype string) API {
	return API{Type: APIType{Namespace: ns, Name: "service"}, SubtypeName: subtype}
}

// APINamespaceRDK is the built-in namespace for all component APIs named
// uniquely.
const APINamespaceRDK = APINamespace("rdk")

// Model identifies a concrete driver selected for an API, e.g. "fake" or
// "gpio". ModelFamily groups related models under a namespace so modular
// drivers (non-built-in) can be registered without colliding.
type ModelFamily struct {
	Namespace APINamespace
	Family    string
}

type Model struct {
	Family ModelFamily
	Name   string
}

func (m Model) String() string {
	if m.Family.Family == "" {
		return fmt.Sprintf("%s:%s", m.Family.Namespace, m.Name)
	}
	return fmt.Sprintf("%s:%s:%s", m.Family.Namespace, m.Family.Family, m.Name)
}

// DefaultModelFamily is used for built-in models with no sub-family.
var DefaultModelFamily = ModelFamily{Namespace: APINamespaceRDK, Family: "builtin"}

func NewModel(name string) Model {
	return Model{Family: DefaultModelFamily, Name: name}
}

// Name is the structured identifier for a component instance in the
// ResourceGraph, matching the {namespace, type, subtype, name} shape.
type Name struct {
	API  API
	Name string
}

func NewName(api API, name string) Name {
	return Name{API: api, Name: name}
}

func (n Name) String() string {
	return fmt.Sprintf("%s/%s", n.API, n.Name)
}

// ParseName reverses Name.String(), e.g. "rdk:component:motor/m1". It is
// used by grpcserver to recover a resource.Name from the resource_name
// field of a wire-level component request.
func ParseName(s string) (Name, error) {
	apiPart, namePart, ok := strings.Cut(s, "/")
	if !ok {
		return Name{}, fmt.Errorf("resource: malformed name %q: missing '/'", s)
	}
	fields := strings.Split(apiPart, ":")
	if len(fields) != 3 {
		return Name{}, fmt.Errorf("resource: malformed api %q: want namespace:type:subtype", apiPart)
	}
	api := API{
		Type:        APIType{Namespace: APINamespace(fields[0]), Name: fields[1]},
		SubtypeName: fields[2],
	}
	return Name{API: api, Name: namePart}, nil
}
