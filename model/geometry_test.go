package model

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/dfki-ric/phobos/inertia"
	"github.com/dfki-ric/phobos/spatialmath"
)

func TestLargestDimension(t *testing.T) {
	for _, tc := range []struct {
		name     string
		geometry Geometry
		expected float64
	}{
		{"box", Geometry{Type: BoxType, Size: r3.Vector{X: 0.1, Y: 0.4, Z: 0.2}}, 0.4},
		{"long cylinder", Geometry{Type: CylinderType, Radius: 0.1, Length: 1}, 1},
		{"flat cylinder", Geometry{Type: CylinderType, Radius: 0.5, Length: 0.1}, 1},
		{"sphere", Geometry{Type: SphereType, Radius: 0.3}, 0.6},
		{"mesh", Geometry{Type: MeshType, Scale: r3.Vector{X: 1, Y: 2, Z: 1}, MeshName: "m"}, 2},
		{"unknown", Geometry{Type: "capsule"}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, tc.geometry.LargestDimension(), test.ShouldAlmostEqual, tc.expected)
		})
	}
}

func TestGeometryInertia(t *testing.T) {
	box := Geometry{Type: BoxType, Size: r3.Vector{X: 1, Y: 2, Z: 3}}
	in, err := box.Inertia(12)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, in, test.ShouldResemble, inertia.Box(12, box.Size))

	_, err = Geometry{Type: MeshType, MeshName: "m"}.Inertia(1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Geometry{Type: "capsule"}.Inertia(1)
	test.That(t, err, test.ShouldBeError, NewUnsupportedGeometryTypeError("capsule"))
}

func TestGeometryValidate(t *testing.T) {
	test.That(t, Geometry{Type: SphereType, Radius: 1}.Validate(), test.ShouldBeNil)
	test.That(t, Geometry{Type: SphereType, Radius: -1}.Validate(), test.ShouldNotBeNil)
	test.That(t, Geometry{Type: MeshType}.Validate(), test.ShouldNotBeNil)
	test.That(t, Geometry{Type: MeshType, Filename: "arm.stl"}.Validate(), test.ShouldBeNil)
}

func TestPoseConversion(t *testing.T) {
	p := Pose{XYZ: [3]float64{1, 2, 3}, RPY: [3]float64{0.1, -0.2, 0.3}}
	back := PoseFromSpatial(p.ToSpatial())
	for i := 0; i < 3; i++ {
		test.That(t, back.XYZ[i], test.ShouldAlmostEqual, p.XYZ[i])
		test.That(t, back.RPY[i], test.ShouldAlmostEqual, p.RPY[i])
	}
	test.That(t, PoseFromSpatial(nil).IsIdentity(), test.ShouldBeTrue)
	test.That(t, PoseFromSpatial(spatialmath.NewZeroPose()).IsIdentity(), test.ShouldBeTrue)
}

func TestInertialFusionRoundTrip(t *testing.T) {
	a := &Inertial{Mass: 1, Inertia: &inertia.Inertia{Ixx: 1, Iyy: 1, Izz: 1}}
	b := &Inertial{Mass: 1, Inertia: &inertia.Inertia{Ixx: 1, Iyy: 1, Izz: 1}, Origin: Pose{XYZ: [3]float64{0, 0, 1}}}

	fused, ok := inertia.Fuse([]inertia.Contribution{a.Contribution(), b.Contribution()})
	test.That(t, ok, test.ShouldBeTrue)
	in := InertialFromFused(fused)
	test.That(t, in.Mass, test.ShouldAlmostEqual, 2.)
	test.That(t, in.Origin.XYZ[2], test.ShouldAlmostEqual, 0.5)
	test.That(t, in.Inertia.Ixx, test.ShouldAlmostEqual, 2.5)
	test.That(t, in.Inertia.Izz, test.ShouldAlmostEqual, 2.)
}

func TestSensorReferences(t *testing.T) {
	refs, ok := SensorReferences("JointPosition")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, refs&JointReference, test.ShouldNotEqual, 0)
	test.That(t, refs&LinkReference, test.ShouldEqual, 0)

	_, ok = SensorReferences("Thermometer")
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, IsCameraSensor("camera"), test.ShouldBeTrue)
	test.That(t, IsCameraSensor("CameraSensor"), test.ShouldBeTrue)
}
