package model

import (
	"github.com/pkg/errors"
)

// NewUnsupportedJointTypeError is used when a joint type is not one of the supported ones.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

// NewLinkNotFoundError is used when a link name does not resolve.
func NewLinkNotFoundError(name string) error {
	return errors.Errorf("link %q not found", name)
}

// NewJointNotFoundError is used when a joint name does not resolve.
func NewJointNotFoundError(name string) error {
	return errors.Errorf("joint %q not found", name)
}

// NewDuplicateNameError is used when two entities of the same kind share a name.
func NewDuplicateNameError(kind, name string) error {
	return errors.Errorf("duplicate %s name %q", kind, name)
}
