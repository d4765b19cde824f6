package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// represent a 45 degree rotation around the x axis in all the representations
var (
	th    = math.Pi / 4.
	q45x  = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.)}
	aa45x = &R4AA{th, 1., 0., 0.}
	ea45x = &EulerAngles{Roll: th, Pitch: 0, Yaw: 0}
	rm45x = &RotationMatrix{[9]float64{
		1, 0, 0,
		0, math.Cos(th), -math.Sin(th),
		0, math.Sin(th), math.Cos(th),
	}}
)

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.AxisAngles(), test.ShouldResemble, NewR4AA())
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
}

func testOrientationConversions(t *testing.T, o Orientation) {
	t.Helper()
	test.That(t, QuaternionAlmostEqual(o.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)
	test.That(t, o.AxisAngles().Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, o.AxisAngles().RX, test.ShouldAlmostEqual, aa45x.RX)
	test.That(t, o.AxisAngles().RY, test.ShouldAlmostEqual, aa45x.RY)
	test.That(t, o.AxisAngles().RZ, test.ShouldAlmostEqual, aa45x.RZ)
	test.That(t, o.EulerAngles().Roll, test.ShouldAlmostEqual, ea45x.Roll)
	test.That(t, o.EulerAngles().Pitch, test.ShouldAlmostEqual, ea45x.Pitch)
	test.That(t, o.EulerAngles().Yaw, test.ShouldAlmostEqual, ea45x.Yaw)
	for i := 0; i < 9; i++ {
		test.That(t, o.RotationMatrix().mat[i], test.ShouldAlmostEqual, rm45x.mat[i])
	}
}

func TestQuaternions(t *testing.T) {
	qq45x := quaternion(q45x)
	testOrientationConversions(t, &qq45x)
}

func TestEulerAngles(t *testing.T) {
	testOrientationConversions(t, ea45x)
}

func TestAxisAngles(t *testing.T) {
	testOrientationConversions(t, aa45x)
}

func TestRotationMatrix(t *testing.T) {
	testOrientationConversions(t, rm45x)
	test.That(t, rm45x.Determinant(), test.ShouldAlmostEqual, 1)

	_, err := NewRotationMatrix([]float64{1, 0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEulerRoundTrip(t *testing.T) {
	for _, ea := range []*EulerAngles{
		{Roll: 0.1, Pitch: 0.2, Yaw: 0.3},
		{Roll: -1.2, Pitch: 0.7, Yaw: 2.9},
		{Roll: math.Pi / 2, Pitch: -0.3, Yaw: -math.Pi / 3},
	} {
		back := QuatToEulerAngles(ea.Quaternion())
		test.That(t, back.Roll, test.ShouldAlmostEqual, ea.Roll)
		test.That(t, back.Pitch, test.ShouldAlmostEqual, ea.Pitch)
		test.That(t, back.Yaw, test.ShouldAlmostEqual, ea.Yaw)

		// the matrix path must agree with the quaternion path, up to double cover
		test.That(t, PoseAlmostEqual(NewPoseFromOrientation(ea), NewPoseFromOrientation(ea.RotationMatrix())), test.ShouldBeTrue)
	}
}

func TestEulerAnglesAreFixedAxisXYZ(t *testing.T) {
	// R = Rz(yaw) * Ry(pitch) * Rx(roll): rolling first keeps the x axis fixed, the yaw turns it.
	ea := &EulerAngles{Roll: math.Pi / 2, Yaw: math.Pi / 2}
	rm := ea.RotationMatrix()
	test.That(t, R3VectorAlmostEqual(rm.Col(0), r3Y, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(rm.Col(2), r3X, 1e-9), test.ShouldBeTrue)
}

func TestOrientationBetween(t *testing.T) {
	a := &EulerAngles{Yaw: 0.5}
	b := &EulerAngles{Yaw: 1.25}
	between := OrientationBetween(a, b)
	test.That(t, between.EulerAngles().Yaw, test.ShouldAlmostEqual, 0.75)
}
