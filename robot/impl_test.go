package robot_test

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/micrordk/components/board"
	boardfake "go.viam.com/micrordk/components/board/fake"
	"go.viam.com/micrordk/components/motor"
	motorfake "go.viam.com/micrordk/components/motor/fake"
	"go.viam.com/micrordk/components/sensor"
	sensorfake "go.viam.com/micrordk/components/sensor/fake"
	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/logging"
	_ "go.viam.com/micrordk/registry"
	"go.viam.com/micrordk/resource"
	"go.viam.com/micrordk/robot"
)

func TestApplyConfigBringUp(t *testing.T) {
	ctx := context.Background()
	r := robot.New(logging.NewTestLogger("test"))

	err := r.ApplyConfig(ctx, config.RobotConfig{Components: []config.ComponentConfig{
		{Name: "m1", API: "motor", Model: motorfake.Model.Name},
	}})
	test.That(t, err, test.ShouldBeNil)

	names := r.ResourceNames()
	test.That(t, len(names), test.ShouldEqual, 1)

	inst, err := r.Get(resource.NewName(motor.API, "m1"))
	test.That(t, err, test.ShouldBeNil)
	m, err := resource.AsType[motor.Motor](inst)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, m.SetPower(ctx, 0.5, nil), test.ShouldBeNil)
	status, err := m.Status(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status.IsPowered, test.ShouldBeTrue)
}

func TestApplyConfigHotSwap(t *testing.T) {
	ctx := context.Background()
	r := robot.New(logging.NewTestLogger("test"))

	test.That(t, r.ApplyConfig(ctx, config.RobotConfig{Components: []config.ComponentConfig{
		{Name: "A", API: "sensor", Model: sensorfake.Model.Name},
		{Name: "B", API: "motor", Model: motorfake.Model.Name},
	}}), test.ShouldBeNil)

	test.That(t, r.ApplyConfig(ctx, config.RobotConfig{Components: []config.ComponentConfig{
		{Name: "A", API: "sensor", Model: sensorfake.Model.Name},
		{Name: "C", API: "motor", Model: motorfake.Model.Name},
	}}), test.ShouldBeNil)

	names := r.ResourceNames()
	test.That(t, len(names), test.ShouldEqual, 2)

	_, err := r.Get(resource.NewName(motor.API, "B"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = r.Get(resource.NewName(motor.API, "C"))
	test.That(t, err, test.ShouldBeNil)

	_, err = r.Get(resource.NewName(sensor.API, "A"))
	test.That(t, err, test.ShouldBeNil)
}

func TestApplyConfigDependencyRebuild(t *testing.T) {
	ctx := context.Background()
	r := robot.New(logging.NewTestLogger("test"))

	base := config.RobotConfig{Components: []config.ComponentConfig{
		{Name: "board", API: "board", Model: boardfake.Model.Name, Attributes: config.AttributeMap{"pins": 2}},
		{
			Name: "moist", API: "sensor", Model: sensorfake.MoistureModel.Name,
			Attributes: config.AttributeMap{"board": "board"},
			DependsOn:  []string{"board"},
		},
	}}
	test.That(t, r.ApplyConfig(ctx, base), test.ShouldBeNil)

	boardInst1, err := r.Get(resource.NewName(board.API, "board"))
	test.That(t, err, test.ShouldBeNil)

	changed := base
	changed.Components = append([]config.ComponentConfig{}, base.Components...)
	changed.Components[0].Attributes = config.AttributeMap{"pins": 4}
	test.That(t, r.ApplyConfig(ctx, changed), test.ShouldBeNil)

	boardInst2, err := r.Get(resource.NewName(board.API, "board"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, boardInst1 == boardInst2, test.ShouldBeFalse)
}

func TestApplyConfigLogsAggregatedSkips(t *testing.T) {
	ctx := context.Background()
	logger, logs := logging.NewObservedLogger("test")
	r := robot.New(logger)

	test.That(t, r.ApplyConfig(ctx, config.RobotConfig{Components: []config.ComponentConfig{
		{Name: "good", API: "motor", Model: motorfake.Model.Name},
		{Name: "bad-api", API: "no_such_api", Model: "whatever"},
		{Name: "bad-model", API: "motor", Model: "no_such_model"},
	}}), test.ShouldBeNil)

	names := r.ResourceNames()
	test.That(t, len(names), test.ShouldEqual, 1)

	entries := logs.FilterMessage("some components were skipped applying config").All()
	test.That(t, len(entries), test.ShouldEqual, 1)
}

func TestApplyConfigRejectsCycle(t *testing.T) {
	ctx := context.Background()
	r := robot.New(logging.NewTestLogger("test"))

	test.That(t, r.ApplyConfig(ctx, config.RobotConfig{Components: []config.ComponentConfig{
		{Name: "m1", API: "motor", Model: motorfake.Model.Name},
	}}), test.ShouldBeNil)

	err := r.ApplyConfig(ctx, config.RobotConfig{Components: []config.ComponentConfig{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	}})
	test.That(t, err, test.ShouldNotBeNil)

	names := r.ResourceNames()
	test.That(t, len(names), test.ShouldEqual, 1)
}
