package inertia

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/dfki-ric/phobos/spatialmath"
)

func TestInertiaFromList(t *testing.T) {
	in, err := InertiaFromList([]float64{1, 0.1, 0.2, 2, 0.3, 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, in, test.ShouldResemble, Inertia{Ixx: 1, Ixy: 0.1, Ixz: 0.2, Iyy: 2, Iyz: 0.3, Izz: 3})
	test.That(t, in.List(), test.ShouldResemble, []float64{1, 0.1, 0.2, 2, 0.3, 3})

	_, err = InertiaFromList([]float64{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "got 3")
}

func TestMatrixRoundTrip(t *testing.T) {
	in := Inertia{Ixx: 1, Ixy: 0.1, Ixz: 0.2, Iyy: 2, Iyz: 0.3, Izz: 3}
	m := in.Matrix()
	test.That(t, m.At(1, 0), test.ShouldEqual, 0.1)
	test.That(t, m.At(2, 1), test.ShouldEqual, 0.3)
	test.That(t, FromMatrix(m), test.ShouldResemble, in)
}

func TestRotateQuarterTurn(t *testing.T) {
	in := Diagonal(1, 2, 3)
	rotated := in.Rotate(&spatialmath.EulerAngles{Yaw: math.Pi / 2})
	test.That(t, rotated.Ixx, test.ShouldAlmostEqual, 2)
	test.That(t, rotated.Iyy, test.ShouldAlmostEqual, 1)
	test.That(t, rotated.Izz, test.ShouldAlmostEqual, 3)
	test.That(t, rotated.Ixy, test.ShouldAlmostEqual, 0)
}

func TestPrimitives(t *testing.T) {
	box := Box(12, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, box, test.ShouldResemble, Diagonal(13, 10, 5))

	cyl := Cylinder(12, 1, 2)
	test.That(t, cyl.Ixx, test.ShouldAlmostEqual, 7)
	test.That(t, cyl.Iyy, test.ShouldAlmostEqual, 7)
	test.That(t, cyl.Izz, test.ShouldAlmostEqual, 6)

	sphere := Sphere(5, 1)
	test.That(t, sphere.Ixx, test.ShouldAlmostEqual, 2)
	test.That(t, sphere.IsPhysical(1e-12), test.ShouldBeTrue)

	test.That(t, Diagonal(1, 1, 5).IsPhysical(1e-12), test.ShouldBeFalse)
}
