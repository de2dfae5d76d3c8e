package provisioning_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/micrordk/credentials"
	"go.viam.com/micrordk/events"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/provisioning"
)

func TestProvisioningFlowEmitsDone(t *testing.T) {
	store := credentials.NewMemoryStore()
	bus := events.NewBus()
	sub := bus.Subscribe()

	srv := provisioning.New(store, bus, logging.NewTestLogger("test"))
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/info")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusOK)

	resp, err = http.Post(ts.URL+"/network_credentials", "application/json", strings.NewReader(`{"ssid":"wifi","password":"pw"}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusOK)

	select {
	case <-sub:
		t.Fatal("ProvisioningDone fired before robot credentials were set")
	default:
	}

	resp, err = http.Post(ts.URL+"/robot_credentials", "application/json", strings.NewReader(`{"id":"r1","secret":"s1","app_address":"app:443"}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, resp.StatusCode, test.ShouldEqual, http.StatusOK)

	evt := <-sub
	test.That(t, evt.Kind, test.ShouldEqual, events.ProvisioningDone)
}
