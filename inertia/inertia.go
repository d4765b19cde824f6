// Package inertia describes rigid body inertia tensors and fuses several inertial bodies into one.
package inertia

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/dfki-ric/phobos/spatialmath"
)

// Inertia holds the six independent components of a symmetric 3x3 inertia tensor, in kg*m^2.
type Inertia struct {
	Ixx float64 `json:"ixx"`
	Ixy float64 `json:"ixy"`
	Ixz float64 `json:"ixz"`
	Iyy float64 `json:"iyy"`
	Iyz float64 `json:"iyz"`
	Izz float64 `json:"izz"`
}

// InertiaFromList builds an Inertia from the list (ixx, ixy, ixz, iyy, iyz, izz).
func InertiaFromList(values []float64) (Inertia, error) {
	if len(values) != 6 {
		return Inertia{}, errors.Errorf("inertia needs 6 values (ixx ixy ixz iyy iyz izz), got %d", len(values))
	}
	return Inertia{values[0], values[1], values[2], values[3], values[4], values[5]}, nil
}

// FromMatrix reads the upper triangle of a 3x3 matrix.
func FromMatrix(m mat.Matrix) Inertia {
	return Inertia{
		Ixx: m.At(0, 0), Ixy: m.At(0, 1), Ixz: m.At(0, 2),
		Iyy: m.At(1, 1), Iyz: m.At(1, 2),
		Izz: m.At(2, 2),
	}
}

// Diagonal returns a tensor with only principal moments.
func Diagonal(ixx, iyy, izz float64) Inertia {
	return Inertia{Ixx: ixx, Iyy: iyy, Izz: izz}
}

// List returns the components in (ixx, ixy, ixz, iyy, iyz, izz) order.
func (i Inertia) List() []float64 {
	return []float64{i.Ixx, i.Ixy, i.Ixz, i.Iyy, i.Iyz, i.Izz}
}

// Matrix returns the full symmetric tensor.
func (i Inertia) Matrix() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		i.Ixx, i.Ixy, i.Ixz,
		i.Ixy, i.Iyy, i.Iyz,
		i.Ixz, i.Iyz, i.Izz,
	})
}

// IsZero reports whether every component is zero.
func (i Inertia) IsZero() bool {
	return i == Inertia{}
}

// Rotate expresses the tensor in a frame rotated by o relative to the tensor's own frame: R*I*Rᵀ.
func (i Inertia) Rotate(o spatialmath.Orientation) Inertia {
	r := o.RotationMatrix().Dense()
	var tmp, out mat.Dense
	tmp.Mul(r, i.Matrix())
	out.Mul(&tmp, r.T())
	return FromMatrix(symmetrize(&out))
}

// IsPhysical reports whether the tensor is positive semi-definite and satisfies the triangle inequality on its
// principal moments, within tolerance eps.
func (i Inertia) IsPhysical(eps float64) bool {
	var eig mat.EigenSym
	if ok := eig.Factorize(i.Matrix(), false); !ok {
		return false
	}
	v := eig.Values(nil)
	for _, ev := range v {
		if ev < -eps {
			return false
		}
	}
	return v[0]+v[1] >= v[2]-eps && v[0]+v[2] >= v[1]-eps && v[1]+v[2] >= v[0]-eps
}

func (i Inertia) String() string {
	return fmt.Sprintf("ixx=%g ixy=%g ixz=%g iyy=%g iyz=%g izz=%g", i.Ixx, i.Ixy, i.Ixz, i.Iyy, i.Iyz, i.Izz)
}

// symmetrize returns (m + mᵀ)/2.
func symmetrize(m mat.Matrix) *mat.SymDense {
	sym := mat.NewSymDense(3, nil)
	for r := 0; r < 3; r++ {
		for c := r; c < 3; c++ {
			sym.SetSym(r, c, (m.At(r, c)+m.At(c, r))/2)
		}
	}
	return sym
}
