package inertia

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/dfki-ric/phobos/spatialmath"
)

func assertInertiaAlmostEqual(t *testing.T, actual, expected Inertia) {
	t.Helper()
	for i, v := range actual.List() {
		test.That(t, v, test.ShouldAlmostEqual, expected.List()[i], 1e-9)
	}
}

func TestFuseSingleAtOrigin(t *testing.T) {
	in := Inertia{Ixx: 0.3, Ixy: 0.01, Ixz: -0.02, Iyy: 0.4, Iyz: 0.03, Izz: 0.5}
	fused, ok := Fuse([]Contribution{{Mass: 2.5, Inertia: in, Origin: spatialmath.NewZeroPose()}})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, fused.Mass, test.ShouldEqual, 2.5)
	test.That(t, fused.CenterOfMass, test.ShouldResemble, r3.Vector{})
	assertInertiaAlmostEqual(t, fused.Inertia, in)
}

func TestFuseSingleTranslated(t *testing.T) {
	in := Diagonal(1, 2, 3)
	p := r3.Vector{X: 0.5, Y: -1, Z: 2}
	fused, ok := Fuse([]Contribution{{Mass: 4, Inertia: in, Origin: spatialmath.NewPoseFromPoint(p)}})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(fused.CenterOfMass, p, 1e-12), test.ShouldBeTrue)
	// no displacement from the composite center of mass means no parallel axis term
	assertInertiaAlmostEqual(t, fused.Inertia, in)
}

func TestFuseSymmetricPair(t *testing.T) {
	d := r3.Vector{X: 0.3, Y: 0.4}
	m := 1.5
	local := Diagonal(0.1, 0.2, 0.3)
	fused, ok := Fuse([]Contribution{
		{Mass: m, Inertia: local, Origin: spatialmath.NewPoseFromPoint(d)},
		{Mass: m, Inertia: local, Origin: spatialmath.NewPoseFromPoint(d.Mul(-1))},
	})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, fused.Mass, test.ShouldEqual, 3.0)
	test.That(t, spatialmath.R3VectorAlmostEqual(fused.CenterOfMass, r3.Vector{}, 1e-12), test.ShouldBeTrue)

	// 2*local + 2*m*(|d|² I - d⊗d)
	n2 := d.Norm2()
	expected := Inertia{
		Ixx: 2*0.1 + 2*m*(n2-d.X*d.X),
		Ixy: 2 * m * (-d.X * d.Y),
		Iyy: 2*0.2 + 2*m*(n2-d.Y*d.Y),
		Izz: 2*0.3 + 2*m*n2,
	}
	assertInertiaAlmostEqual(t, fused.Inertia, expected)
}

func TestFuseStackedUnitBodies(t *testing.T) {
	fused, ok := Fuse([]Contribution{
		{Mass: 1, Inertia: Diagonal(1, 1, 1), Origin: spatialmath.NewZeroPose()},
		{Mass: 1, Inertia: Diagonal(1, 1, 1), Origin: spatialmath.NewPoseFromPoint(r3.Vector{Z: 1})},
	})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, fused.Mass, test.ShouldEqual, 2.0)
	test.That(t, spatialmath.R3VectorAlmostEqual(fused.CenterOfMass, r3.Vector{Z: 0.5}, 1e-12), test.ShouldBeTrue)
	// each body adds 0.5² * 1 about x and y, nothing about z
	assertInertiaAlmostEqual(t, fused.Inertia, Diagonal(2.5, 2.5, 2))
}

func TestFuseRotatedContribution(t *testing.T) {
	// a rod along its own z axis, turned to lie along the link's x axis
	rod := Cylinder(1, 0.01, 1)
	fused, ok := Fuse([]Contribution{{
		Mass:    1,
		Inertia: rod,
		Origin:  spatialmath.NewPoseFromOrientation(&spatialmath.EulerAngles{Pitch: math.Pi / 2}),
	}})
	test.That(t, ok, test.ShouldBeTrue)
	assertInertiaAlmostEqual(t, fused.Inertia, Diagonal(rod.Izz, rod.Iyy, rod.Ixx))
}

func TestFuseAbsent(t *testing.T) {
	_, ok := Fuse(nil)
	test.That(t, ok, test.ShouldBeFalse)

	_, ok = Fuse([]Contribution{
		{Mass: 0, Inertia: Diagonal(1, 1, 1), Origin: spatialmath.NewZeroPose()},
		{Mass: 0, Origin: spatialmath.NewPoseFromPoint(r3.Vector{X: 1})},
	})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestFuseIsSymmetric(t *testing.T) {
	fused, ok := Fuse([]Contribution{
		{
			Mass:    0.7,
			Inertia: Inertia{Ixx: 0.2, Ixy: 0.01, Ixz: 0.02, Iyy: 0.3, Iyz: -0.01, Izz: 0.25},
			Origin:  spatialmath.NewPose(r3.Vector{X: 0.1, Y: 0.2}, &spatialmath.EulerAngles{Roll: 0.3, Pitch: -0.2, Yaw: 1.1}),
		},
		{
			Mass:    1.3,
			Inertia: Box(1.3, r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}),
			Origin:  spatialmath.NewPose(r3.Vector{Z: -0.4}, &spatialmath.EulerAngles{Yaw: -0.5}),
		},
	})
	test.That(t, ok, test.ShouldBeTrue)
	m := fused.Inertia.Matrix()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			test.That(t, m.At(r, c), test.ShouldEqual, m.At(c, r))
		}
	}
	test.That(t, fused.Inertia.IsPhysical(1e-9), test.ShouldBeTrue)
}
