package inertia

import (
	"github.com/golang/geo/r3"
)

// Box returns the inertia of a solid cuboid with the given mass and edge lengths, about its center.
func Box(mass float64, size r3.Vector) Inertia {
	x2, y2, z2 := size.X*size.X, size.Y*size.Y, size.Z*size.Z
	return Diagonal(mass/12*(y2+z2), mass/12*(x2+z2), mass/12*(x2+y2))
}

// Cylinder returns the inertia of a solid cylinder along the z axis, about its center.
func Cylinder(mass, radius, length float64) Inertia {
	side := mass / 12 * (3*radius*radius + length*length)
	return Diagonal(side, side, mass/2*radius*radius)
}

// Sphere returns the inertia of a solid sphere, about its center.
func Sphere(mass, radius float64) Inertia {
	i := 2.0 / 5.0 * mass * radius * radius
	return Diagonal(i, i, i)
}
