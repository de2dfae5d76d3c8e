// Package registry wires the well-known component API names used in
// cloud ComponentConfig.api strings to their resource.API
// identity, and imports every built-in fake model for its registration
// side effect. robot/impl uses apis to lower a ComponentConfig into a
// resource.Config before handing it to resource.LookupRegistration.
package registry

import (
	"fmt"

	"go.viam.com/micrordk/components/base"
	"go.viam.com/micrordk/components/board"
	"go.viam.com/micrordk/components/button"
	"go.viam.com/micrordk/components/camera"
	"go.viam.com/micrordk/components/encoder"
	"go.viam.com/micrordk/components/generic"
	"go.viam.com/micrordk/components/motor"
	"go.viam.com/micrordk/components/movementsensor"
	"go.viam.com/micrordk/components/powersensor"
	"go.viam.com/micrordk/components/sensor"
	"go.viam.com/micrordk/components/servo"
	"go.viam.com/micrordk/components/switchapi"
	"go.viam.com/micrordk/resource"

	_ "go.viam.com/micrordk/components/base/fake"
	_ "go.viam.com/micrordk/components/board/fake"
	_ "go.viam.com/micrordk/components/button/fake"
	_ "go.viam.com/micrordk/components/camera/fake"
	_ "go.viam.com/micrordk/components/encoder/fake"
	_ "go.viam.com/micrordk/components/generic/fake"
	_ "go.viam.com/micrordk/components/motor/fake"
	_ "go.viam.com/micrordk/components/movementsensor/fake"
	_ "go.viam.com/micrordk/components/powersensor/fake"
	_ "go.viam.com/micrordk/components/sensor/fake"
	_ "go.viam.com/micrordk/components/servo/fake"
	_ "go.viam.com/micrordk/components/switchapi/fake"
)

var apisByName = map[string]resource.API{
	"motor":           motor.API,
	"sensor":          sensor.API,
	"board":           board.API,
	"camera":          camera.API,
	"servo":           servo.API,
	"base":            base.API,
	"encoder":         encoder.API,
	"movement_sensor": movementsensor.API,
	"power_sensor":    powersensor.API,
	"switch":          switchapi.API,
	"button":          button.API,
	"generic":         generic.API,
}

// APIByName resolves a cloud-facing api string
// to its resource.API identity.
func APIByName(name string) (resource.API, error) {
	api, ok := apisByName[name]
	if !ok {
		return resource.API{}, fmt.Errorf("registry: unknown component api %q", name)
	}
	return api, nil
}
