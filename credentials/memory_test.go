package credentials

import (
	"context"
	"testing"

	"go.viam.com/test"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	has, err := s.HasRobotCredentials(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, has, test.ShouldBeFalse)

	test.That(t, s.StoreNetwork(ctx, "wifi", "pw"), test.ShouldBeNil)
	has, err = s.HasNetwork(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, has, test.ShouldBeTrue)

	test.That(t, s.StoreRobotCredentials(ctx, RobotCredentials{ID: "r1", Secret: "s1", AppAddress: "app:443"}), test.ShouldBeNil)
	has, err = s.HasRobotCredentials(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, has, test.ShouldBeTrue)

	creds, err := s.LoadRobotCredentials(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, creds.ID, test.ShouldEqual, "r1")
	test.That(t, creds.AppAddress, test.ShouldEqual, "app:443")

	test.That(t, s.ResetAll(ctx), test.ShouldBeNil)
	has, err = s.HasRobotCredentials(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, has, test.ShouldBeFalse)
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.LoadRobotCredentials(ctx)
	test.That(t, err, test.ShouldEqual, ErrNotFound)
}
