package resource

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/micrordk/logging"
)

type fakeRes struct {
	Named
	TriviallyCloseable
	UnimplementedDoCommand
}

var registryTestAPI = APINamespaceRDK.WithComponentType("fakeapi")

func TestRegisterLookupDeregister(t *testing.T) {
	model := NewModel("x")
	logger := logging.NewTestLogger("test")

	ctor := func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (*fakeRes, error) {
		return &fakeRes{Named: Named{ResourceName: conf.ResourceName()}}, nil
	}
	Register(registryTestAPI, model, Registration[*fakeRes, NoNativeConfig]{Constructor: ctor})
	defer Deregister(registryTestAPI, model)

	reg, ok := LookupRegistration(registryTestAPI, model)
	test.That(t, ok, test.ShouldBeTrue)

	res, err := reg.Constructor(context.Background(), nil, Config{Name: "foo", API: registryTestAPI}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Name().Name, test.ShouldEqual, "foo")

	_, ok = LookupRegistration(registryTestAPI, NewModel("nope"))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	model := NewModel("dup")
	ctor := func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (*fakeRes, error) {
		return &fakeRes{}, nil
	}
	Register(registryTestAPI, model, Registration[*fakeRes, NoNativeConfig]{Constructor: ctor})
	defer Deregister(registryTestAPI, model)

	test.That(t, func() {
		Register(registryTestAPI, model, Registration[*fakeRes, NoNativeConfig]{Constructor: ctor})
	}, test.ShouldPanic)
}
