package utils

import (
	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected interface{}, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}

// NewPropertyMissingError is used when a required custom property is absent from an object.
func NewPropertyMissingError(object, key string) error {
	return errors.Errorf("object %q is missing property %q", object, key)
}
