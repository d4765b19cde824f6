package derive

import (
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
	"github.com/dfki-ric/phobos/utils"
)

// Joint derives the joint connecting a link object to its effective parent. It returns nil without error when
// the object has no parent link.
func (d *Deriver) Joint(obj *scene.Object) (*model.Joint, error) {
	if !obj.IsType(scene.LinkType) {
		return nil, NewWrongTypeError(obj, scene.LinkType)
	}
	parent := d.Scene.EffectiveParent(obj, true)
	if parent == nil {
		d.Logger.Warnw("object has no parent and therefore can not derive a joint", "object", obj.Name)
		return nil, nil
	}
	props := obj.Properties
	if !props.Has("joint/type") {
		return nil, utils.NewPropertyMissingError(obj.Name, "joint/type")
	}
	jointType := model.JointType(props.StringOr("joint/type", ""))
	if !jointType.IsValid() {
		return nil, errors.Wrapf(model.NewUnsupportedJointTypeError(string(jointType)), "object %q", obj.Name)
	}

	joint := &model.Joint{
		Name:   props.StringOr("joint/name", obj.Name),
		Parent: parent.Name,
		Child:  obj.Name,
		Type:   jointType,
		Origin: d.localPose(obj, parent),
	}

	if jointType.RequiresAxis() {
		axis, err := props.Floats("joint/axis")
		if err != nil {
			return nil, err
		}
		if len(axis) != 3 {
			return nil, errors.Errorf("joint %q of type %s needs a 3 value axis, got %v", joint.Name, jointType, axis)
		}
		joint.Axis = &r3.Vector{X: axis[0], Y: axis[1], Z: axis[2]}
	}

	var err error
	if joint.Limit, err = d.jointLimit(props); err != nil {
		return nil, err
	}
	if joint.Dynamics, err = d.jointDynamics(props); err != nil {
		return nil, err
	}
	if props.Has("joint/mimic/joint") {
		joint.Mimic = &model.JointMimic{Joint: props.StringOr("joint/mimic/joint", ""), Multiplier: 1}
		if m, ok, err := props.Float("joint/mimic/multiplier"); err != nil {
			return nil, err
		} else if ok {
			joint.Mimic.Multiplier = m
		}
		if joint.Mimic.Offset, _, err = props.Float("joint/mimic/offset"); err != nil {
			return nil, err
		}
	}

	motors := d.motorObjects(obj)
	if len(motors) > 1 {
		return nil, errors.Errorf("more than one motor defined for %q", obj.Name)
	}
	if len(motors) == 1 {
		joint.Motor = motors[0].Name
	}

	joint.Annotations = annotation.GroupFunc(props,
		func(key string) bool {
			return !reserved(JointKeys, LinkKeys, InternalKeys)(key) && !hasAnyPrefix(key, linkPrefix, posePrefix)
		},
		func(key string) string {
			return strings.TrimPrefix(key, jointPrefix)
		},
	)
	return joint, nil
}

// motorObjects returns the motor objects attached to a link object.
func (d *Deriver) motorObjects(linkObj *scene.Object) []*scene.Object {
	var motors []*scene.Object
	for _, o := range d.Scene.Children(linkObj, false, true)[1:] {
		if o.IsType(scene.MotorType) && d.Scene.EffectiveParent(o, true) == linkObj {
			motors = append(motors, o)
		}
	}
	return motors
}

func (d *Deriver) jointLimit(props scene.Properties) (*model.JointLimit, error) {
	if !props.HasPrefix("joint/limits/") {
		return nil, nil
	}
	var limit model.JointLimit
	for key, field := range map[string]**float64{
		"joint/limits/effort":   &limit.Effort,
		"joint/limits/velocity": &limit.Velocity,
		"joint/limits/lower":    &limit.Lower,
		"joint/limits/upper":    &limit.Upper,
	} {
		v, err := props.FloatPtr(key)
		if err != nil {
			return nil, err
		}
		*field = v
	}
	return &limit, nil
}

func (d *Deriver) jointDynamics(props scene.Properties) (*model.JointDynamics, error) {
	if !props.HasPrefix("joint/dynamics/") {
		return nil, nil
	}
	var dyn model.JointDynamics
	for key, field := range map[string]**float64{
		"joint/dynamics/damping":          &dyn.Damping,
		"joint/dynamics/friction":         &dyn.Friction,
		"joint/dynamics/spring_stiffness": &dyn.SpringStiffness,
		"joint/dynamics/spring_reference": &dyn.SpringReference,
	} {
		v, err := props.FloatPtr(key)
		if err != nil {
			return nil, err
		}
		*field = v
	}
	return &dyn, nil
}
