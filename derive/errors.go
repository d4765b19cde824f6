package derive

import (
	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/scene"
)

// NewWrongTypeError is used when an object does not have the role a derive function needs.
func NewWrongTypeError(obj *scene.Object, expected scene.PhobosType) error {
	return errors.Errorf("object %q is of type %q, expected %q", obj.Name, obj.PhobosType, expected)
}

// NewNoEffectiveParentError is used when an object that needs a parent link has none.
func NewNoEffectiveParentError(obj *scene.Object) error {
	return errors.Errorf("object %q has no parent link", obj.Name)
}

// NewUnknownSensorTypeError is used when a sensor type is not registered.
func NewUnknownSensorTypeError(sensorType string) error {
	return errors.Errorf("unknown sensor type %q", sensorType)
}
