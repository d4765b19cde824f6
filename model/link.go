package model

import (
	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/inertia"
)

// Link is a rigid body of the robot. It owns its visual, collision and inertial elements.
type Link struct {
	Name        string         `json:"name"`
	Visuals     []Visual       `json:"visuals,omitempty"`
	Collisions  []Collision    `json:"collisions,omitempty"`
	Inertial    *Inertial      `json:"inertial,omitempty"`
	Annotations annotation.Bag `json:"annotations,omitempty"`
}

// Visual is a displayed shape attached to a link.
type Visual struct {
	Name        string         `json:"name"`
	Geometry    Geometry       `json:"geometry"`
	Origin      Pose           `json:"origin"`
	Material    *Material      `json:"material,omitempty"`
	Annotations annotation.Bag `json:"annotations,omitempty"`
}

// Collision is a shape used for contact computation. Primitives are simpler shapes approximating it.
type Collision struct {
	Name        string         `json:"name"`
	Geometry    Geometry       `json:"geometry"`
	Origin      Pose           `json:"origin"`
	Bitmask     *int           `json:"bitmask,omitempty"`
	Primitives  []Collision    `json:"primitives,omitempty"`
	Annotations annotation.Bag `json:"annotations,omitempty"`
}

// Inertial is the mass property of a link. The origin locates the center of mass in the link frame.
type Inertial struct {
	Mass        float64          `json:"mass"`
	Inertia     *inertia.Inertia `json:"inertia,omitempty"`
	Origin      Pose             `json:"origin"`
	Annotations annotation.Bag   `json:"annotations,omitempty"`
}

// InertialFromFused builds a link inertial from a fusion result.
func InertialFromFused(fused *inertia.Fused) *Inertial {
	in := fused.Inertia
	return &Inertial{
		Mass:    fused.Mass,
		Inertia: &in,
		Origin:  Pose{XYZ: [3]float64{fused.CenterOfMass.X, fused.CenterOfMass.Y, fused.CenterOfMass.Z}},
	}
}

// Contribution returns the inertial as an input to inertia.Fuse. A missing tensor counts as a point mass.
func (i *Inertial) Contribution() inertia.Contribution {
	c := inertia.Contribution{Mass: i.Mass, Origin: i.Origin.ToSpatial()}
	if i.Inertia != nil {
		c.Inertia = *i.Inertia
	}
	return c
}

// Elements returns the names of the link's collision and visual elements, collisions first.
func (l *Link) Elements() []string {
	names := make([]string, 0, len(l.Collisions)+len(l.Visuals))
	for _, c := range l.Collisions {
		names = append(names, c.Name)
	}
	for _, v := range l.Visuals {
		names = append(names, v.Name)
	}
	return names
}

// Geometries returns the geometries of all collision and visual elements, collisions first.
func (l *Link) Geometries() []Geometry {
	geoms := make([]Geometry, 0, len(l.Collisions)+len(l.Visuals))
	for _, c := range l.Collisions {
		geoms = append(geoms, c.Geometry)
	}
	for _, v := range l.Visuals {
		geoms = append(geoms, v.Geometry)
	}
	return geoms
}
