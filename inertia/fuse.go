package inertia

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/dfki-ric/phobos/spatialmath"
)

// Contribution is one inertial body, with its origin (center of mass and principal frame) given in the link frame.
type Contribution struct {
	Mass    float64
	Inertia Inertia
	Origin  spatialmath.Pose
}

// Fused is the equivalent single rigid body of several contributions. The inertia is taken about the center of
// mass and expressed in the orientation of the link frame.
type Fused struct {
	Mass         float64
	CenterOfMass r3.Vector
	Inertia      Inertia
}

// Fuse combines the contributions into one rigid body using the parallel axis theorem.
// It returns false when there is nothing to fuse, i.e. no contributions or a total mass of zero.
// Negative masses are not checked.
func Fuse(contributions []Contribution) (*Fused, bool) {
	var total float64
	var weighted r3.Vector
	for _, c := range contributions {
		total += c.Mass
		weighted = weighted.Add(origin(c).Point().Mul(c.Mass))
	}
	if len(contributions) == 0 || total == 0 {
		return nil, false
	}
	com := weighted.Mul(1 / total)

	sum := mat.NewDense(3, 3, nil)
	for _, c := range contributions {
		o := origin(c)
		sum.Add(sum, c.Inertia.Rotate(o.Orientation()).Matrix())
		sum.Add(sum, parallelAxis(c.Mass, com.Sub(o.Point())))
	}

	return &Fused{
		Mass:         total,
		CenterOfMass: com,
		Inertia:      FromMatrix(symmetrize(sum)),
	}, true
}

// parallelAxis returns m * (|d|² I₃ - d⊗d).
func parallelAxis(mass float64, d r3.Vector) *mat.Dense {
	dv := []float64{d.X, d.Y, d.Z}
	correction := mat.NewDense(3, 3, nil)
	norm2 := d.Norm2()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := -dv[r] * dv[c]
			if r == c {
				v += norm2
			}
			correction.Set(r, c, mass*v)
		}
	}
	return correction
}

func origin(c Contribution) spatialmath.Pose {
	if c.Origin == nil {
		return spatialmath.NewZeroPose()
	}
	return c.Origin
}
