package config

import (
	"testing"

	"go.viam.com/test"
)

func TestDiffConfigs(t *testing.T) {
	oldCfg := RobotConfig{Components: []ComponentConfig{
		{Name: "A", API: "sensor", Model: "fake_sensor"},
		{Name: "B", API: "motor", Model: "fake_motor"},
	}}
	newCfg := RobotConfig{Components: []ComponentConfig{
		{Name: "A", API: "sensor", Model: "fake_sensor"},
		{Name: "C", API: "motor", Model: "fake_motor"},
	}}

	d := DiffConfigs(oldCfg, newCfg)
	test.That(t, len(d.Added), test.ShouldEqual, 1)
	test.That(t, d.Added[0].Name, test.ShouldEqual, "C")
	test.That(t, len(d.Removed), test.ShouldEqual, 1)
	test.That(t, d.Removed[0].Name, test.ShouldEqual, "B")
	test.That(t, len(d.Unchanged), test.ShouldEqual, 1)
	test.That(t, d.Unchanged[0].Name, test.ShouldEqual, "A")
}

func TestDiffConfigsModified(t *testing.T) {
	oldCfg := RobotConfig{Components: []ComponentConfig{
		{Name: "board", API: "board", Model: "fake_board", Attributes: AttributeMap{"pins": 4}},
	}}
	newCfg := RobotConfig{Components: []ComponentConfig{
		{Name: "board", API: "board", Model: "fake_board", Attributes: AttributeMap{"pins": 8}},
	}}

	d := DiffConfigs(oldCfg, newCfg)
	test.That(t, len(d.Modified), test.ShouldEqual, 1)
	test.That(t, len(d.Unchanged), test.ShouldEqual, 0)
}

func TestValidateDAGCycle(t *testing.T) {
	cfg := RobotConfig{Components: []ComponentConfig{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	}}
	err := ValidateDAG(cfg)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateDAGMissingDependency(t *testing.T) {
	cfg := RobotConfig{Components: []ComponentConfig{
		{Name: "a", DependsOn: []string{"ghost"}},
	}}
	err := ValidateDAG(cfg)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEqualRoundTrip(t *testing.T) {
	cfg := RobotConfig{Components: []ComponentConfig{{Name: "x"}}}
	test.That(t, Equal(cfg, cfg), test.ShouldBeTrue)

	applied := DiffConfigs(cfg, cfg)
	test.That(t, len(applied.Added), test.ShouldEqual, 0)
	test.That(t, len(applied.Removed), test.ShouldEqual, 0)
	test.That(t, len(applied.Modified), test.ShouldEqual, 0)
}
