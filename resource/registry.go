package resource

import (
	"context"
	"sync"

	"go.viam.com/micrordk/logging"
)

// NoNativeConfig marks a Registration whose model reads attributes
// directly off Config.Attributes without a typed config struct.
type NoNativeConfig struct{}

// Constructor builds one instance of R from a resolved Config and its
// dependencies.
type Constructor[R Resource, Cfg any] func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (R, error)

// DependencyExtractor inspects a raw Config and returns the names of
// other resources it depends on, beyond what's explicit in DependsOn —
// used when an attribute itself names a resource (e.g. a sensor's
// "board" attribute).
type DependencyExtractor func(conf Config) ([]Name, error)

// Registration is the factory entry stored per (API, Model).
type Registration[R Resource, Cfg any] struct {
	Constructor         Constructor[R, Cfg]
	DependencyExtractor DependencyExtractor
}

// registrationKey is the (API, Model) composite key.
type registrationKey struct {
	api   API
	model Model
}

// erasedRegistration is the type-erased form stored in the global map so
// a single registry can hold registrations for many different R.
type erasedRegistration struct {
	constructor         func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (Resource, error)
	dependencyExtractor DependencyExtractor
}

var (
	registryMu sync.RWMutex
	registry   = map[registrationKey]erasedRegistration{}
)

// Register adds a factory for (api, model). It panics on a nil
// Constructor (a programmer error caught at init time). Duplicate
// registration is reported via the bool return of LookupRegistration for
// callers that care to check; Register itself panics on a duplicate,
// since that's always a build-time programming error, never a runtime
// condition.
func Register[R Resource, Cfg any](api API, model Model, reg Registration[R, Cfg]) {
	if reg.Constructor == nil {
		panic("cannot register a resource with a nil constructor")
	}
	key := registrationKey{api: api, model: model}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[key]; ok {
		panic((&AlreadyRegisteredError{API: api, Model: model}).Error())
	}
	registry[key] = erasedRegistration{
		constructor: func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (Resource, error) {
			return reg.Constructor(ctx, deps, conf, logger)
		},
		dependencyExtractor: reg.DependencyExtractor,
	}
}

// Deregister removes a prior registration, if any.
func Deregister(api API, model Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, registrationKey{api: api, model: model})
}

// ResolvedRegistration is the type-erased registration returned by
// LookupRegistration, usable uniformly by the ComponentRegistry/LocalRobot
// without needing to know R at the call site.
type ResolvedRegistration struct {
	Constructor         func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (Resource, error)
	DependencyExtractor DependencyExtractor
}

// LookupRegistration returns the registration for (api, model), if any.
func LookupRegistration(api API, model Model) (ResolvedRegistration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	er, ok := registry[registrationKey{api: api, model: model}]
	if !ok {
		return ResolvedRegistration{}, false
	}
	return ResolvedRegistration{Constructor: er.constructor, DependencyExtractor: er.dependencyExtractor}, true
}
