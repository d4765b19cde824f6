// Package model defines the typed robot representation exchanged between the scene, derive, create and urdf
// packages.
package model

import (
	"github.com/golang/geo/r3"

	"github.com/dfki-ric/phobos/spatialmath"
)

// Pose is the serializable form of a rigid transform: a translation in meters and fixed-axis XYZ euler
// angles in radians.
type Pose struct {
	XYZ [3]float64 `json:"xyz"`
	RPY [3]float64 `json:"rpy"`
}

// PoseFromSpatial converts a spatialmath.Pose.
func PoseFromSpatial(p spatialmath.Pose) Pose {
	if p == nil {
		return Pose{}
	}
	pt := p.Point()
	ea := p.Orientation().EulerAngles()
	return Pose{
		XYZ: [3]float64{pt.X, pt.Y, pt.Z},
		RPY: [3]float64{ea.Roll, ea.Pitch, ea.Yaw},
	}
}

// ToSpatial converts the pose into a spatialmath.Pose.
func (p Pose) ToSpatial() spatialmath.Pose {
	return spatialmath.NewPose(
		r3.Vector{X: p.XYZ[0], Y: p.XYZ[1], Z: p.XYZ[2]},
		&spatialmath.EulerAngles{Roll: p.RPY[0], Pitch: p.RPY[1], Yaw: p.RPY[2]},
	)
}

// IsIdentity reports whether the pose is the zero transform.
func (p Pose) IsIdentity() bool {
	return p == Pose{}
}
