package errkind_test

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"

	"go.viam.com/test"

	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/resource"
)

func TestGRPCStatusMapsKinds(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"config", errkind.ConfigError(boom), codes.InvalidArgument},
		{"resource", errkind.ResourceError(boom), codes.Internal},
		{"auth", errkind.AuthFailed(boom), codes.FailedPrecondition},
		{"transient", errkind.Transient(boom), codes.Unavailable},
		{"fatal", errkind.Fatal(boom), codes.Internal},
		{"cancelled", errkind.Cancelled(boom), codes.Canceled},
	}
	for _, c := range cases {
		st := errkind.GRPCStatus(c.err)
		test.That(t, st.Code(), test.ShouldEqual, c.code)
	}
}

func TestGRPCStatusMapsResourceNotFoundDirectly(t *testing.T) {
	name := resource.Name{}
	err := resource.NewNotFoundError(name)

	test.That(t, errkind.Is(err, errkind.NotFoundKind), test.ShouldBeTrue)
	st := errkind.GRPCStatus(err)
	test.That(t, st.Code(), test.ShouldEqual, codes.NotFound)
}

func TestGRPCStatusMapsExplicitNotFound(t *testing.T) {
	err := errkind.NotFound(resource.NewNotFoundError(resource.Name{}))
	st := errkind.GRPCStatus(err)
	test.That(t, st.Code(), test.ShouldEqual, codes.NotFound)
}
