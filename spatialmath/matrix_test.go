package spatialmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestOrthonormalizeStripsScaleAndShear(t *testing.T) {
	rot := mgl64.HomogRotate3DX(0.4).Mul4(mgl64.HomogRotate3DZ(-1.1))
	scaled := mgl64.Translate3D(0.5, -1, 2).Mul4(rot).Mul4(mgl64.Scale3D(2, 3, 0.5))

	clean := Orthonormalize(scaled)
	test.That(t, MatrixAlmostEqual(clean, mgl64.Translate3D(0.5, -1, 2).Mul4(rot), 1e-9), test.ShouldBeTrue)

	// a small shear is removed, leaving a proper rotation
	sheared := rot
	sheared.Set(0, 1, sheared.At(0, 1)+0.01)
	fixed := Orthonormalize(sheared).Mat3()
	test.That(t, fixed.Det(), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, MatrixAlmostEqual(fixed.Transpose().Mul3(fixed).Mat4(), mgl64.Ident4(), 1e-9), test.ShouldBeTrue)
}

func TestMatrixAlmostEqual(t *testing.T) {
	m := mgl64.Ident4()
	m.Set(0, 1, 6e-17)
	test.That(t, MatrixAlmostEqual(m, mgl64.Ident4(), 1e-9), test.ShouldBeTrue)
	test.That(t, MatrixAlmostEqual(mgl64.Ident4(), m, 1e-9), test.ShouldBeTrue)

	m.Set(2, 3, 1e-3)
	test.That(t, MatrixAlmostEqual(m, mgl64.Ident4(), 1e-9), test.ShouldBeFalse)
	test.That(t, MatrixAlmostEqual(m, mgl64.Ident4(), 1e-2), test.ShouldBeTrue)

	rotated := mgl64.HomogRotate3DZ(math.Pi / 2)
	test.That(t, MatrixAlmostEqual(rotated, mgl64.Mat4{0, 1, 0, 0, -1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}, 1e-9),
		test.ShouldBeTrue)
}

func TestMatrixScale(t *testing.T) {
	m := mgl64.HomogRotate3DY(0.3).Mul4(mgl64.Scale3D(2, 3, 4))
	test.That(t, R3VectorAlmostEqual(MatrixScale(m), r3.Vector{X: 2, Y: 3, Z: 4}, 1e-9), test.ShouldBeTrue)
}

func TestIsReflection(t *testing.T) {
	test.That(t, IsReflection(mgl64.Ident4()), test.ShouldBeFalse)
	test.That(t, IsReflection(mgl64.Scale3D(-1, 1, 1)), test.ShouldBeTrue)
}

func TestComposeLocalPose(t *testing.T) {
	child := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.HomogRotate3DZ(math.Pi / 2))

	t.Run("no parent", func(t *testing.T) {
		local := ComposeLocalPose(child, nil)
		test.That(t, PoseAlmostEqual(local, NewPoseFromMatrix(child)), test.ShouldBeTrue)
	})

	t.Run("translated and rotated parent", func(t *testing.T) {
		parent := mgl64.Translate3D(1, 0, 0).Mul4(mgl64.HomogRotate3DZ(math.Pi / 2))
		local := ComposeLocalPose(child, &parent)
		// in the parent's frame the child sits 2 along the parent's x, 3 up, with no extra rotation
		test.That(t, R3VectorAlmostEqual(local.Point(), r3.Vector{X: 2, Y: 0, Z: 3}, 1e-9), test.ShouldBeTrue)
		test.That(t, OrientationAlmostEqual(local.Orientation(), NewZeroOrientation()), test.ShouldBeTrue)

		// composing back yields the world pose
		world := Compose(NewPoseFromMatrix(parent), local)
		test.That(t, PoseAlmostEqual(world, NewPoseFromMatrix(child)), test.ShouldBeTrue)
	})

	t.Run("scaled parent is normalized", func(t *testing.T) {
		parent := mgl64.Translate3D(0, 0, 1).Mul4(mgl64.Scale3D(5, 5, 5))
		local := ComposeLocalPose(child, &parent)
		test.That(t, R3VectorAlmostEqual(local.Point(), r3.Vector{X: 1, Y: 2, Z: 2}, 1e-9), test.ShouldBeTrue)
	})
}
