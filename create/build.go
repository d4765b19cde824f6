package create

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/logging"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
)

// BuildOptions control BuildScene.
type BuildOptions struct {
	// LinkScale multiplies the size of every link, 1 when zero.
	LinkScale float64
}

// BuildScene creates a new scene holding the whole robot: links placed along the kinematic tree, their elements,
// joint properties and the robot's sensors, motors, interfaces, poses, submechanisms and annotations.
func BuildScene(robot *model.Robot, logger logging.Logger, opts BuildOptions) (*scene.Scene, error) {
	root, err := robot.Root()
	if err != nil {
		return nil, err
	}
	s := scene.NewScene()
	c := NewCreator(s, logger)
	logger.Infow("building scene", "robot", robot.Name, "links", len(robot.Links))

	scale := opts.LinkScale
	if scale == 0 {
		scale = 1
	}
	for _, link := range robot.Links {
		c.CreateLink(link, LinkOptions{Scale: &scale})
	}
	if err := c.PlaceChildLinks(robot, root); err != nil {
		return nil, err
	}
	for _, link := range robot.Links {
		if err := c.PlaceLinkSubelements(link); err != nil {
			return nil, err
		}
	}
	rootObj, err := c.object(root.Name)
	if err != nil {
		return nil, err
	}
	rootObj.SetProperty("model/name", robot.Name)
	if robot.Description != "" {
		s.Texts["README.md"] = robot.Description
	}

	for _, joint := range robot.Joints {
		if err := c.writeJoint(joint); err != nil {
			return nil, err
		}
	}
	for _, m := range robot.Motors {
		if err := c.createMotor(robot, m); err != nil {
			return nil, err
		}
	}
	for _, sensor := range robot.Sensors {
		if err := c.createSensor(robot, sensor); err != nil {
			return nil, err
		}
	}
	for _, iface := range robot.Interfaces {
		if err := c.createInterface(iface); err != nil {
			return nil, err
		}
	}
	for _, pose := range robot.Poses {
		for jointName, value := range pose.Configuration {
			obj, err := c.jointObject(robot, jointName)
			if err != nil {
				return nil, errors.Wrapf(err, "pose %q", pose.Name)
			}
			obj.SetProperty("pose/"+pose.Name, value)
		}
	}
	if err := c.createSubmechanisms(robot); err != nil {
		return nil, err
	}
	for _, category := range robot.Categories() {
		for i, bag := range robot.Annotations[category] {
			if err := c.createAnnotation(category, i, bag); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// jointObject returns the link object carrying the named joint.
func (c *Creator) jointObject(robot *model.Robot, jointName string) (*scene.Object, error) {
	joint, err := robot.Joint(jointName)
	if err != nil {
		return nil, err
	}
	return c.object(joint.Child)
}

// writeJoint stores a joint as "joint/..." properties on its child link object.
func (c *Creator) writeJoint(joint *model.Joint) error {
	obj, err := c.object(joint.Child)
	if err != nil {
		return errors.Wrapf(err, "child of joint %q", joint.Name)
	}
	obj.SetProperty("joint/name", joint.Name)
	obj.SetProperty("joint/type", string(joint.Type))
	if joint.Axis != nil {
		obj.SetProperty("joint/axis", []float64{joint.Axis.X, joint.Axis.Y, joint.Axis.Z})
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			obj.SetProperty(key, *v)
		}
	}
	if l := joint.Limit; l != nil {
		setFloat("joint/limits/effort", l.Effort)
		setFloat("joint/limits/velocity", l.Velocity)
		setFloat("joint/limits/lower", l.Lower)
		setFloat("joint/limits/upper", l.Upper)
	}
	if d := joint.Dynamics; d != nil {
		setFloat("joint/dynamics/damping", d.Damping)
		setFloat("joint/dynamics/friction", d.Friction)
		setFloat("joint/dynamics/spring_stiffness", d.SpringStiffness)
		setFloat("joint/dynamics/spring_reference", d.SpringReference)
	}
	if m := joint.Mimic; m != nil {
		obj.SetProperty("joint/mimic/joint", m.Joint)
		obj.SetProperty("joint/mimic/multiplier", m.Multiplier)
		obj.SetProperty("joint/mimic/offset", m.Offset)
	}
	for k, v := range annotation.Flatten("joint", joint.Annotations) {
		obj.SetProperty(k, v)
	}
	return nil
}

func (c *Creator) createMotor(robot *model.Robot, m *model.Motor) error {
	linkObj, err := c.jointObject(robot, m.Joint)
	if err != nil {
		return errors.Wrapf(err, "motor %q", m.Name)
	}
	obj := scene.NewObject(m.Name, scene.MotorType)
	for k, v := range annotation.Flatten("", m.Annotations) {
		obj.SetProperty(k, v)
	}
	c.add(obj)
	if err := c.Scene.SetParent(obj, linkObj, scene.BoneRelativeParent); err != nil {
		return err
	}
	c.Scene.SetMatrixWorld(obj, linkObj.MatrixWorld)
	return nil
}

// createSensor attaches a sensor to the link it refers to, or to the child link of its joint.
func (c *Creator) createSensor(robot *model.Robot, sensor *model.Sensor) error {
	var (
		linkObj *scene.Object
		err     error
	)
	switch {
	case sensor.Link != "":
		linkObj, err = c.object(sensor.Link)
	case sensor.Joint != "":
		linkObj, err = c.jointObject(robot, sensor.Joint)
	default:
		var root *model.Link
		if root, err = robot.Root(); err == nil {
			linkObj, err = c.object(root.Name)
		}
	}
	if err != nil {
		return errors.Wrapf(err, "sensor %q", sensor.Name)
	}
	obj := scene.NewObject(sensor.Name, scene.SensorType)
	obj.SetProperty("type", sensor.Type)
	if sensor.Frame != "" {
		obj.SetProperty("frame", sensor.Frame)
	}
	if model.IsCameraSensor(sensor.Type) {
		obj.SetProperty("hud_height", sensor.HudHeight)
		obj.SetProperty("hud_width", sensor.HudWidth)
	}
	for k, v := range annotation.Flatten("", sensor.Annotations) {
		obj.SetProperty(k, v)
	}
	c.add(obj)
	if err := c.Scene.SetParent(obj, linkObj, scene.BoneRelativeParent); err != nil {
		return err
	}
	local := model.Pose{}
	if sensor.Origin != nil {
		local = *sensor.Origin
	}
	c.Scene.SetMatrixWorld(obj, linkObj.MatrixWorld.Mul4(poseMatrix(local)))
	return nil
}

func (c *Creator) createInterface(iface *model.Interface) error {
	linkObj, err := c.object(iface.Parent)
	if err != nil {
		return errors.Wrapf(err, "interface %q", iface.Name)
	}
	obj := scene.NewObject(iface.Name, scene.InterfaceType)
	obj.SetProperty("type", iface.Type)
	obj.SetProperty("direction", iface.Direction)
	for k, v := range annotation.Flatten("", iface.Annotations) {
		obj.SetProperty(k, v)
	}
	c.add(obj)
	if err := c.Scene.SetParent(obj, linkObj, scene.BoneRelativeParent); err != nil {
		return err
	}
	c.Scene.SetMatrixWorld(obj, linkObj.MatrixWorld.Mul4(poseMatrix(iface.Origin)))
	return nil
}

// createSubmechanisms numbers the joints used by submechanisms through "submechanism/id" properties and adds
// one object per submechanism referring to them.
func (c *Creator) createSubmechanisms(robot *model.Robot) error {
	if len(robot.Submechanisms) == 0 {
		return nil
	}
	root, err := robot.Root()
	if err != nil {
		return err
	}
	rootObj, err := c.object(root.Name)
	if err != nil {
		return err
	}
	ids := map[string]int{}
	idOf := func(jointName string) (int, error) {
		if id, ok := ids[jointName]; ok {
			return id, nil
		}
		obj, err := c.jointObject(robot, jointName)
		if err != nil {
			return 0, err
		}
		id := len(ids) + 1
		ids[jointName] = id
		obj.SetProperty("submechanism/id", id)
		return id, nil
	}

	for _, sub := range robot.Submechanisms {
		obj := scene.NewObject(sub.Name, scene.SubmechanismType)
		if obj.Name == "" {
			obj.Name = sub.Type
		}
		obj.SetProperty("type", sub.Type)
		obj.SetProperty("subtype", sub.Subtype)
		for role, joints := range sub.Joints {
			list := make([]interface{}, 0, len(joints))
			for _, j := range joints {
				id, err := idOf(j)
				if err != nil {
					return errors.Wrapf(err, "submechanism %q", sub.Name)
				}
				list = append(list, id)
			}
			obj.SetProperty(role, list)
		}
		for role, joints := range sub.NamedJoints {
			named := map[string]interface{}{}
			for key, j := range joints {
				id, err := idOf(j)
				if err != nil {
					return errors.Wrapf(err, "submechanism %q", sub.Name)
				}
				named[key] = id
			}
			obj.SetProperty(role, named)
		}
		for k, v := range annotation.Flatten("", sub.Annotations) {
			obj.SetProperty(k, v)
		}
		c.add(obj)
		if err := c.Scene.SetParent(obj, rootObj, scene.ObjectParent); err != nil {
			return err
		}
	}
	return nil
}

// createAnnotation adds an object named "category:name" below the annotation's parent. Unnamed annotations
// are numbered within their category.
func (c *Creator) createAnnotation(category string, index int, bag annotation.Bag) error {
	name, _ := bag["$name"].(string)
	if name == "" {
		name = fmt.Sprintf("unnamed%d", index)
	}
	parentName, _ := bag["$parent"].(string)
	parent, err := c.object(parentName)
	if err != nil {
		return errors.Wrapf(err, "annotation %s:%s", category, name)
	}
	obj := scene.NewObject(category+":"+name, scene.AnnotationType)
	props := annotation.Bag{}
	for k, v := range bag {
		if !strings.HasPrefix(k, "$") {
			props[k] = v
		}
	}
	for k, v := range annotation.Flatten("", props) {
		obj.SetProperty(k, v)
	}
	c.add(obj)
	if err := c.Scene.SetParent(obj, parent, scene.ObjectParent); err != nil {
		return err
	}
	local := model.Pose{}
	if transform, ok := bag["$transform"].(model.Pose); ok {
		local = transform
	}
	// the transform is relative to the nearest link
	if ref := c.Scene.EffectiveParent(obj, true); ref != nil {
		c.Scene.SetMatrixWorld(obj, ref.MatrixWorld.Mul4(poseMatrix(local)))
	} else {
		c.Scene.SetMatrixWorld(obj, poseMatrix(local))
	}
	return nil
}
