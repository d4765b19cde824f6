// Package spatialmath defines the rigid transforms used to express robot model poses.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/dfki-ric/phobos/utils"
)

// Epsilon is the default tolerance of the *AlmostEqual comparisons.
const Epsilon = 1e-8

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) meters and the Orientation() method
// returns an Orientation object, which has methods to parametrize the rotation in multiple
// different representations.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// pose is a rigid transform stored as a translation plus a unit quaternion.
type pose struct {
	point       r3.Vector
	orientation quat.Number
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return &pose{orientation: quat.Number{Real: 1}}
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	return &pose{point: p, orientation: Normalize(o.Quaternion())}
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(p r3.Vector) Pose {
	return &pose{point: p, orientation: quat.Number{Real: 1}}
}

// NewPoseFromOrientation takes in an orientation and returns a pose at the origin.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

// Point returns the position of the pose.
func (p *pose) Point() r3.Vector {
	return p.point
}

// Orientation returns the orientation of the pose.
func (p *pose) Orientation() Orientation {
	q := quaternion(p.orientation)
	return &q
}

func (p *pose) String() string {
	ea := QuatToEulerAngles(p.orientation)
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f Roll:%.4f Pitch:%.4f Yaw:%.4f}",
		p.point.X, p.point.Y, p.point.Z, ea.Roll, ea.Pitch, ea.Yaw)
}

// Compose returns the pose a followed by b, where b is expressed in the frame that a maps into its parent.
// Composition is associative but not commutative.
func Compose(a, b Pose) Pose {
	qa := Normalize(a.Orientation().Quaternion())
	qb := Normalize(b.Orientation().Quaternion())
	return &pose{
		point:       a.Point().Add(RotateVector(qa, b.Point())),
		orientation: Normalize(quat.Mul(qa, qb)),
	}
}

// PoseInverse will return the inverse of a pose. So if a given pose p is the pose of A relative to B, PoseInverse(p) will give
// the pose of B relative to A.
func PoseInverse(p Pose) Pose {
	conj := quat.Conj(Normalize(p.Orientation().Quaternion()))
	return &pose{
		point:       RotateVector(conj, p.Point()).Mul(-1),
		orientation: conj,
	}
}

// PoseBetween returns the difference between two poses, i.e. the pose of b expressed in the frame of a.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint maps a point expressed in the pose's frame into the frame the pose is expressed in.
func TransformPoint(p Pose, v r3.Vector) r3.Vector {
	return p.Point().Add(RotateVector(Normalize(p.Orientation().Quaternion()), v))
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same within the given epsilon.
// Orientations are compared up to quaternion double cover.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	if !R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) {
		return false
	}
	qa := a.Orientation().Quaternion()
	qb := b.Orientation().Quaternion()
	return QuaternionAlmostEqual(qa, qb, epsilon) || QuaternionAlmostEqual(qa, Flip(qb), epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
