package derive

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
)

// DefaultModelName is used when neither the caller nor the root object names the model.
const DefaultModelName = "unnamed"

// ReadmeText is the scene text used as the model description.
const ReadmeText = "README.md"

// Representation derives the model record matching the object's role: *model.Inertial, *model.Visual,
// *model.Collision, *model.Sensor, *model.Motor or *model.GenericAnnotation.
func (d *Deriver) Representation(obj *scene.Object) (interface{}, error) {
	var (
		repr interface{}
		err  error
	)
	switch obj.PhobosType {
	case scene.InertialType:
		repr, err = d.Inertial(obj)
	case scene.VisualType:
		repr, err = d.Visual(obj)
	case scene.CollisionType:
		repr, err = d.Collision(obj, nil)
	case scene.SensorType:
		repr, err = d.Sensor(obj)
	case scene.MotorType:
		repr, err = d.Motor(obj)
	case scene.AnnotationType:
		repr, err = d.Annotation(obj)
	default:
		return nil, errors.Errorf("object %q of type %q has no standalone representation", obj.Name, obj.PhobosType)
	}
	if err != nil {
		d.Logger.Debugw("cannot derive representation, missing or invalid data", "object", obj.Name, "error", err)
		return nil, err
	}
	return repr, nil
}

// Robot derives the whole model below root, which must be a link. The model is named by name, the root's
// "model/name" property or DefaultModelName, in that order. The result is validated before it is returned.
func (d *Deriver) Robot(root *scene.Object, name string) (*model.Robot, error) {
	if !root.IsType(scene.LinkType) {
		d.Logger.Errorw("object is no valid link object", "object", root.Name)
		return nil, NewWrongTypeError(root, scene.LinkType)
	}
	if name == "" {
		name = root.Properties.StringOr("model/name", DefaultModelName)
	}
	d.Logger.Infow("deriving robot", "robot", name, "root", root.Name)

	objects := d.Scene.Children(root, d.Options.SelectedOnly, false)
	ofType := func(t scene.PhobosType) []*scene.Object {
		return lo.Filter(objects, func(o *scene.Object, _ int) bool { return o.PhobosType == t })
	}

	robot := model.NewRobot(name)
	robot.Description = d.Scene.Texts[ReadmeText]

	for _, obj := range ofType(scene.LinkType) {
		link, err := d.Link(obj, objects)
		if err != nil {
			return nil, err
		}
		robot.Links = append(robot.Links, link)
		if d.Scene.EffectiveParent(obj, true) == nil {
			continue
		}
		joint, err := d.Joint(obj)
		if err != nil {
			return nil, errors.Wrapf(err, "joint of link %q", obj.Name)
		}
		robot.Joints = append(robot.Joints, joint)
	}

	for _, obj := range ofType(scene.SensorType) {
		sensor, err := d.Sensor(obj)
		if err != nil {
			return nil, err
		}
		robot.AddSensor(sensor)
	}

	for _, obj := range ofType(scene.MotorType) {
		motor, err := d.Motor(obj)
		if err != nil {
			return nil, err
		}
		if err := robot.AddMotor(motor); err != nil {
			return nil, err
		}
	}

	for _, obj := range ofType(scene.InterfaceType) {
		iface, err := d.Interface(obj)
		if err != nil {
			return nil, err
		}
		robot.AddInterface(iface)
	}

	poses, err := d.Poses(root)
	if err != nil {
		return nil, err
	}
	for _, pose := range poses {
		robot.AddPose(pose)
	}

	for _, obj := range ofType(scene.SubmechanismType) {
		sub, err := d.Submechanism(obj)
		if err != nil {
			return nil, err
		}
		robot.AddSubmechanism(sub)
	}

	for _, obj := range ofType(scene.AnnotationType) {
		ann, err := d.Annotation(obj)
		if err != nil {
			return nil, err
		}
		robot.AddCategorizedAnnotation(ann.Category, ann.Bag())
	}

	if err := robot.Validate(); err != nil {
		return nil, errors.Wrapf(err, "derived robot %q is invalid", name)
	}
	d.Logger.Infow("derived robot", "robot", name, "links", len(robot.Links), "joints", len(robot.Joints))
	return robot, nil
}
