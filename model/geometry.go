package model

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/inertia"
)

// GeometryType is the kind of shape of a visual or collision element.
type GeometryType string

// The supported geometry types.
const (
	BoxType      GeometryType = "box"
	CylinderType GeometryType = "cylinder"
	SphereType   GeometryType = "sphere"
	MeshType     GeometryType = "mesh"
)

// IsPrimitive reports whether the type is an analytic shape rather than a mesh.
func (t GeometryType) IsPrimitive() bool {
	return t == BoxType || t == CylinderType || t == SphereType
}

// Geometry describes the shape of a visual or collision element. Only the fields used by Type are meaningful.
type Geometry struct {
	Type     GeometryType `json:"type"`
	Size     r3.Vector    `json:"size,omitempty"`
	Radius   float64      `json:"radius,omitempty"`
	Length   float64      `json:"length,omitempty"`
	Scale    r3.Vector    `json:"scale,omitempty"`
	MeshName string       `json:"mesh_name,omitempty"`
	Filename string       `json:"filename,omitempty"`
}

// NewUnsupportedGeometryTypeError is used when a geometry type is not one of box, cylinder, sphere or mesh.
func NewUnsupportedGeometryTypeError(gtype string) error {
	return errors.Errorf("unknown geometry type: %q", gtype)
}

// LargestDimension returns the largest extent of the shape. Meshes report their largest scale.
func (g Geometry) LargestDimension() float64 {
	switch g.Type {
	case BoxType:
		return math.Max(g.Size.X, math.Max(g.Size.Y, g.Size.Z))
	case CylinderType:
		return math.Max(2*g.Radius, g.Length)
	case SphereType:
		return 2 * g.Radius
	case MeshType:
		return math.Max(g.Scale.X, math.Max(g.Scale.Y, g.Scale.Z))
	default:
		return 0
	}
}

// Dimensions returns the bounding box of the shape, as the host stores it on an object.
func (g Geometry) Dimensions() r3.Vector {
	switch g.Type {
	case BoxType:
		return g.Size
	case CylinderType:
		return r3.Vector{X: 2 * g.Radius, Y: 2 * g.Radius, Z: g.Length}
	case SphereType:
		return r3.Vector{X: 2 * g.Radius, Y: 2 * g.Radius, Z: 2 * g.Radius}
	default:
		return r3.Vector{}
	}
}

// Inertia returns the inertia of a solid body of this shape and the given mass.
func (g Geometry) Inertia(mass float64) (inertia.Inertia, error) {
	switch g.Type {
	case BoxType:
		return inertia.Box(mass, g.Size), nil
	case CylinderType:
		return inertia.Cylinder(mass, g.Radius, g.Length), nil
	case SphereType:
		return inertia.Sphere(mass, g.Radius), nil
	case MeshType:
		return inertia.Inertia{}, errors.New("cannot compute the inertia of a mesh geometry")
	default:
		return inertia.Inertia{}, NewUnsupportedGeometryTypeError(string(g.Type))
	}
}

// Validate checks that the dimensions used by the geometry's type are set and non-negative.
func (g Geometry) Validate() error {
	switch g.Type {
	case BoxType:
		if g.Size.X < 0 || g.Size.Y < 0 || g.Size.Z < 0 {
			return errors.Errorf("box size must be non-negative, got %v", g.Size)
		}
	case CylinderType:
		if g.Radius < 0 || g.Length < 0 {
			return errors.Errorf("cylinder radius and length must be non-negative, got %g and %g", g.Radius, g.Length)
		}
	case SphereType:
		if g.Radius < 0 {
			return errors.Errorf("sphere radius must be non-negative, got %g", g.Radius)
		}
	case MeshType:
		if g.MeshName == "" && g.Filename == "" {
			return errors.New("mesh geometry needs a mesh name or filename")
		}
	default:
		return NewUnsupportedGeometryTypeError(string(g.Type))
	}
	return nil
}
