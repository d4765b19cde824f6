package model

import (
	"github.com/golang/geo/r3"

	"github.com/dfki-ric/phobos/annotation"
)

// JointType is the kinematic type of a joint.
type JointType string

// The supported joint types.
const (
	RevoluteJoint   JointType = "revolute"
	ContinuousJoint JointType = "continuous"
	PrismaticJoint  JointType = "prismatic"
	FixedJoint      JointType = "fixed"
	FloatingJoint   JointType = "floating"
	PlanarJoint     JointType = "planar"
)

// RequiresAxis reports whether joints of this type move along or about an axis.
func (t JointType) RequiresAxis() bool {
	return t == RevoluteJoint || t == ContinuousJoint || t == PrismaticJoint
}

// IsValid reports whether t is one of the supported joint types.
func (t JointType) IsValid() bool {
	switch t {
	case RevoluteJoint, ContinuousJoint, PrismaticJoint, FixedJoint, FloatingJoint, PlanarJoint:
		return true
	default:
		return false
	}
}

// Joint connects a parent link to a child link. The origin is the child frame expressed in the parent frame.
type Joint struct {
	Name        string         `json:"name"`
	Parent      string         `json:"parent"`
	Child       string         `json:"child"`
	Type        JointType      `json:"type"`
	Axis        *r3.Vector     `json:"axis,omitempty"`
	Origin      Pose           `json:"origin"`
	Limit       *JointLimit    `json:"limit,omitempty"`
	Dynamics    *JointDynamics `json:"dynamics,omitempty"`
	Mimic       *JointMimic    `json:"mimic,omitempty"`
	Motor       string         `json:"motor,omitempty"`
	Annotations annotation.Bag `json:"annotations,omitempty"`
}

// JointLimit bounds the motion of a joint. Unset fields are nil.
type JointLimit struct {
	Effort   *float64 `json:"effort,omitempty"`
	Velocity *float64 `json:"velocity,omitempty"`
	Lower    *float64 `json:"lower,omitempty"`
	Upper    *float64 `json:"upper,omitempty"`
}

// JointDynamics holds the passive dynamic properties of a joint. Unset fields are nil.
type JointDynamics struct {
	Damping         *float64 `json:"damping,omitempty"`
	Friction        *float64 `json:"friction,omitempty"`
	SpringStiffness *float64 `json:"spring_stiffness,omitempty"`
	SpringReference *float64 `json:"spring_reference,omitempty"`
}

// JointMimic makes a joint follow another: value = multiplier * other + offset.
type JointMimic struct {
	Joint      string  `json:"joint"`
	Multiplier float64 `json:"multiplier"`
	Offset     float64 `json:"offset"`
}
