package viamserver

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/micrordk/protoglue"
)

func TestFromWireConfig(t *testing.T) {
	wire := protoglue.ConfigResponse{
		Revision: "rev-1",
		Components: []protoglue.ComponentConfigWire{
			{Name: "m1", API: "motor", Model: "fake", Attributes: map[string]interface{}{"pin": 1.0}, DependsOn: []string{"b1"}},
		},
		Services: []protoglue.ServiceConfigWire{
			{Name: "ota_service", Model: "fake", Attributes: map[string]interface{}{}},
		},
	}

	cfg := fromWireConfig(wire)

	test.That(t, cfg.Revision, test.ShouldEqual, "rev-1")
	test.That(t, len(cfg.Components), test.ShouldEqual, 1)
	test.That(t, cfg.Components[0].Name, test.ShouldEqual, "m1")
	test.That(t, cfg.Components[0].DependsOn, test.ShouldResemble, []string{"b1"})
	test.That(t, len(cfg.Services), test.ShouldEqual, 1)
	test.That(t, cfg.Services[0].Name, test.ShouldEqual, "ota_service")
}
