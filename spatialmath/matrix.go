package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/dfki-ric/phobos/utils"
)

// rotationBlock copies the upper left 3x3 block of a homogeneous transform into a dense matrix.
func rotationBlock(m mgl64.Mat4) *mat.Dense {
	block := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			block.Set(r, c, m.At(r, c))
		}
	}
	return block
}

// Orthonormalize returns m with its rotation block replaced by the nearest orthonormal matrix, found by
// polar decomposition (R = U*Vᵀ of the block's SVD). This strips scale and shear picked up in the host editor.
// The translation column is kept as is. A reflective block stays reflective.
func Orthonormalize(m mgl64.Mat4) mgl64.Mat4 {
	var svd mat.SVD
	if ok := svd.Factorize(rotationBlock(m), mat.SVDFull); !ok {
		return m
	}
	var u, v, r mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	r.Mul(&u, v.T())

	out := m
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.Set(row, col, r.At(row, col))
		}
		out.Set(3, row, 0)
	}
	out.Set(3, 3, 1)
	return out
}

// MatrixAlmostEqual compares two homogeneous transforms element-wise against an absolute tolerance.
// mgl64's ApproxEqual scales its threshold relative to the operands, which is too strict near zero.
func MatrixAlmostEqual(a, b mgl64.Mat4, epsilon float64) bool {
	return a.ApproxFuncEqual(b, func(x, y float64) bool {
		return utils.Float64AlmostEqual(x, y, epsilon)
	})
}

// IsReflection reports whether the rotation block of m has a negative determinant.
func IsReflection(m mgl64.Mat4) bool {
	return mat.Det(rotationBlock(m)) < 0
}

// MatrixScale returns the scale encoded in the rotation block of m, i.e. the length of each basis column.
func MatrixScale(m mgl64.Mat4) r3.Vector {
	return r3.Vector{
		X: m.Col(0).Vec3().Len(),
		Y: m.Col(1).Vec3().Len(),
		Z: m.Col(2).Vec3().Len(),
	}
}

// NewPoseFromMatrix converts a homogeneous transform into a Pose. The rotation block is assumed to be orthonormal;
// use Orthonormalize first for matrices read from a host scene.
func NewPoseFromMatrix(m mgl64.Mat4) Pose {
	rm := &RotationMatrix{}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rm.mat[r*3+c] = m.At(r, c)
		}
	}
	t := m.Col(3)
	return NewPose(r3.Vector{X: t[0], Y: t[1], Z: t[2]}, rm)
}

// PoseToMatrix converts a Pose into a homogeneous transform.
func PoseToMatrix(p Pose) mgl64.Mat4 {
	rm := p.Orientation().RotationMatrix()
	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rm.At(r, c))
		}
	}
	pt := p.Point()
	m.Set(0, 3, pt.X)
	m.Set(1, 3, pt.Y)
	m.Set(2, 3, pt.Z)
	return m
}

// ComposeLocalPose expresses the child's world transform in the frame of its effective parent:
// local = inverse(parentWorld) ∘ childWorld. Both transforms are orthonormalized first.
// A nil parent means the world frame, in which case the result is the child's (orthonormalized) world pose.
func ComposeLocalPose(childWorld mgl64.Mat4, parentWorld *mgl64.Mat4) Pose {
	w2o := NewPoseFromMatrix(Orthonormalize(childWorld))
	if parentWorld == nil {
		return w2o
	}
	w2p := NewPoseFromMatrix(Orthonormalize(*parentWorld))
	return Compose(PoseInverse(w2p), w2o)
}
