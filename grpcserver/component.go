package grpcserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"

	"go.viam.com/micrordk/components/base"
	"go.viam.com/micrordk/components/board"
	"go.viam.com/micrordk/components/button"
	"go.viam.com/micrordk/components/encoder"
	"go.viam.com/micrordk/components/motor"
	"go.viam.com/micrordk/components/movementsensor"
	"go.viam.com/micrordk/components/powersensor"
	"go.viam.com/micrordk/components/sensor"
	"go.viam.com/micrordk/components/servo"
	"go.viam.com/micrordk/components/switchapi"
	"go.viam.com/micrordk/protoglue"
	"go.viam.com/micrordk/resource"
)

// Dispatcher resolves a resource.Name to a live instance for component
// method dispatch. *robot.LocalRobot satisfies this.
type Dispatcher interface {
	Dispatch(ctx context.Context, name resource.Name) (resource.Resource, error)
}

// ComponentUnaryHandler builds the grpcserver.UnaryHandler that backs the
// "Component.Dispatch" method: every unary component call
// arrives as a protoglue.ComponentRequest naming a resource and method,
// and is narrowed to the component's concrete API interface by a type
// switch before the call is made. Methods outside each API's
// small known set fall back to DoCommand, the uniform escape hatch every
// resource.Resource exposes.
func ComponentUnaryHandler(robot Dispatcher) UnaryHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req protoglue.ComponentRequest
		if err := protoglue.Decode(payload, &req); err != nil {
			return nil, fmt.Errorf("grpcserver: decoding component request: %w", err)
		}

		name, err := resource.ParseName(req.ResourceName)
		if err != nil {
			return nil, fmt.Errorf("grpcserver: parsing resource name %q: %w", req.ResourceName, err)
		}

		inst, err := robot.Dispatch(ctx, name)
		if err != nil {
			return nil, err
		}

		result, err := invoke(ctx, inst, req.Method, req.Args)
		if err != nil {
			return nil, err
		}
		return protoglue.Encode(protoglue.ComponentResponse{Result: result})
	}
}

func invoke(ctx context.Context, inst resource.Resource, method string, args map[string]interface{}) (map[string]interface{}, error) {
	extra := cast.ToStringMap(args["extra"])

	switch r := inst.(type) {
	case motor.Motor:
		switch method {
		case "SetPower":
			return nil, r.SetPower(ctx, cast.ToFloat64(args["power"]), extra)
		case "GetPosition":
			pos, err := r.GetPosition(ctx, extra)
			return map[string]interface{}{"position": pos}, err
		case "Stop":
			return nil, r.Stop(ctx, extra)
		case "IsPowered":
			powered, pct, err := r.IsPowered(ctx, extra)
			return map[string]interface{}{"is_powered": powered, "power_pct": pct}, err
		case "Status":
			st, err := r.Status(ctx)
			return toMap(st), err
		}
	case sensor.Sensor:
		if method == "GetReadings" {
			return r.GetReadings(ctx, extra)
		}
	case board.Board:
		switch method {
		case "GetGPIO":
			v, err := r.GetGPIO(ctx, cast.ToString(args["pin"]), extra)
			return map[string]interface{}{"high": v}, err
		case "SetGPIO":
			return nil, r.SetGPIO(ctx, cast.ToString(args["pin"]), cast.ToBool(args["high"]), extra)
		case "GetAnalogReaderValue":
			v, err := r.GetAnalogReaderValue(ctx, cast.ToString(args["reader"]), extra)
			return map[string]interface{}{"value": v}, err
		}
	case servo.Servo:
		switch method {
		case "Move":
			return nil, r.Move(ctx, cast.ToUint32(args["angle_deg"]), extra)
		case "Position":
			pos, err := r.Position(ctx, extra)
			return map[string]interface{}{"position": pos}, err
		}
	case base.Base:
		switch method {
		case "SetPower":
			return nil, r.SetPower(ctx, cast.ToFloat64(args["linear"]), cast.ToFloat64(args["angular"]), extra)
		case "Stop":
			return nil, r.Stop(ctx, extra)
		}
	case encoder.Encoder:
		switch method {
		case "GetPosition":
			pos, typ, err := r.GetPosition(ctx, encoder.PositionType(cast.ToInt(args["position_type"])), extra)
			return map[string]interface{}{"position": pos, "position_type": int(typ)}, err
		case "ResetPosition":
			return nil, r.ResetPosition(ctx, extra)
		}
	case movementsensor.MovementSensor:
		switch method {
		case "GetPosition":
			loc, alt, err := r.GetPosition(ctx, extra)
			return map[string]interface{}{"latitude": loc.Latitude, "longitude": loc.Longitude, "altitude": alt}, err
		case "GetLinearVelocity":
			x, y, z, err := r.GetLinearVelocity(ctx, extra)
			return map[string]interface{}{"x": x, "y": y, "z": z}, err
		}
	case powersensor.PowerSensor:
		switch method {
		case "GetVoltage":
			v, ac, err := r.GetVoltage(ctx, extra)
			return map[string]interface{}{"volts": v, "is_ac": ac}, err
		case "GetCurrent":
			a, ac, err := r.GetCurrent(ctx, extra)
			return map[string]interface{}{"amps": a, "is_ac": ac}, err
		}
	case switchapi.Switch:
		switch method {
		case "SetPosition":
			return nil, r.SetPosition(ctx, cast.ToUint32(args["position"]), extra)
		case "GetPosition":
			pos, err := r.GetPosition(ctx, extra)
			return map[string]interface{}{"position": pos}, err
		}
	case button.Button:
		if method == "Push" {
			return nil, r.Push(ctx, extra)
		}
	}

	result, err := inst.DoCommand(ctx, args)
	return result, err
}

func toMap(v interface{}) map[string]interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	_ = json.Unmarshal(b, &m)
	return m
}
