package derive

import (
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
	"github.com/dfki-ric/phobos/utils"
)

// Interface derives an interface attached to the object's effective parent link.
func (d *Deriver) Interface(obj *scene.Object) (*model.Interface, error) {
	if !obj.IsType(scene.InterfaceType) {
		return nil, NewWrongTypeError(obj, scene.InterfaceType)
	}
	parent := d.Scene.EffectiveParent(obj, false)
	if parent == nil {
		return nil, NewNoEffectiveParentError(obj)
	}
	for _, key := range []string{"type", "direction"} {
		if !obj.Properties.Has(key) {
			return nil, utils.NewPropertyMissingError(obj.Name, key)
		}
	}
	return &model.Interface{
		Name:        obj.Name,
		Origin:      d.localPose(obj, parent),
		Parent:      parent.Name,
		Type:        obj.Properties.StringOr("type", ""),
		Direction:   obj.Properties.StringOr("direction", ""),
		Annotations: annotation.Group(obj.Properties, append(InterfaceKeys, InternalKeys...)...),
	}, nil
}

// Annotation derives a generic annotation from an object named "category:name". Names starting with
// "unnamed" are dropped. All non internal properties are deepened into nested bags.
func (d *Deriver) Annotation(obj *scene.Object) (*model.GenericAnnotation, error) {
	if !obj.IsType(scene.AnnotationType) {
		return nil, NewWrongTypeError(obj, scene.AnnotationType)
	}
	category, name, found := strings.Cut(obj.Name, ":")
	if !found {
		return nil, errors.Errorf("annotation object %q is not named category:name", obj.Name)
	}
	if strings.HasPrefix(name, "unnamed") {
		name = ""
	}
	parent := d.Scene.ParentOf(obj)
	if parent == nil {
		return nil, errors.Errorf("annotation object %q has no parent", obj.Name)
	}
	props := lo.PickBy(obj.Properties, func(key string, _ interface{}) bool {
		return !lo.Contains(InternalKeys, key)
	})
	return &model.GenericAnnotation{
		Category:   category,
		Name:       name,
		Parent:     parent.Name,
		ParentType: string(parent.PhobosType),
		Transform:  d.localPose(obj, nil),
		Properties: annotation.Deepen(props),
	}, nil
}

// Sensor derives a sensor. The link, joint and frame the sensor type declares are filled from the effective
// parent unless set explicitly. Cameras also get a default head-up display size and their pose. Properties with no
// sensor field are kept as annotations.
func (d *Deriver) Sensor(obj *scene.Object) (*model.Sensor, error) {
	if !obj.IsType(scene.SensorType) {
		return nil, NewWrongTypeError(obj, scene.SensorType)
	}
	d.Logger.Debugw("deriving sensor", "sensor", obj.Name)
	values := lo.PickBy(obj.Properties, func(key string, _ interface{}) bool {
		return !lo.Contains(InternalKeys, key)
	})
	sensorType, err := cast.ToStringE(values["type"])
	if err != nil || sensorType == "" {
		return nil, utils.NewPropertyMissingError(obj.Name, "type")
	}
	if _, ok := values["name"]; !ok {
		values["name"] = obj.Name
	}
	parent := d.Scene.EffectiveParent(obj, true)

	var refs model.SensorReference
	if model.IsCameraSensor(sensorType) {
		if values["hud_height"] == nil {
			values["hud_height"] = model.DefaultHudHeight
		}
		if values["hud_width"] == nil {
			values["hud_width"] = model.DefaultHudWidth
		}
		refs = model.LinkReference
	} else {
		var ok bool
		if refs, ok = model.SensorReferences(sensorType); !ok {
			return nil, errors.Wrapf(NewUnknownSensorTypeError(sensorType), "object %q", obj.Name)
		}
	}
	if refs != 0 && parent == nil {
		return nil, NewNoEffectiveParentError(obj)
	}
	if refs&model.LinkReference != 0 && values["link"] == nil {
		values["link"] = parent.Name
	}
	if refs&model.JointReference != 0 && values["joint"] == nil {
		values["joint"] = parent.Properties.StringOr("joint/name", parent.Name)
	}
	if refs&model.FrameReference != 0 && values["frame"] == nil {
		values["frame"] = parent.Name
	}

	sensor, err := decodeSensor(values)
	if err != nil {
		return nil, errors.Wrapf(err, "sensor %q", obj.Name)
	}
	if model.IsCameraSensor(sensorType) {
		origin := d.localPose(obj, parent)
		sensor.Origin = &origin
	}
	return sensor, nil
}

// decodeSensor fills the sensor fields from values and collects the rest into the sensor's annotations.
func decodeSensor(values map[string]interface{}) (*model.Sensor, error) {
	var sensor model.Sensor
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &sensor,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, err
	}
	if len(md.Unused) == 0 {
		return &sensor, nil
	}
	unused := make(map[string]interface{}, len(md.Unused))
	for _, key := range md.Unused {
		unused[key] = values[key]
	}
	if sensor.Annotations == nil {
		sensor.Annotations = annotation.Bag{}
	}
	for k, v := range annotation.Group(unused) {
		sensor.Annotations[k] = v
	}
	return &sensor, nil
}

// Motor derives a motor. Its effective parent must be a link, whose joint it drives.
func (d *Deriver) Motor(obj *scene.Object) (*model.Motor, error) {
	if !obj.IsType(scene.MotorType) {
		return nil, NewWrongTypeError(obj, scene.MotorType)
	}
	parent := d.Scene.EffectiveParent(obj, true)
	if parent == nil {
		return nil, NewNoEffectiveParentError(obj)
	}
	annotations := annotation.Bag{}
	for k, v := range obj.Properties {
		if !lo.Contains(MotorKeys, k) && !lo.Contains(InternalKeys, k) {
			annotations[k] = v
		}
	}
	return &model.Motor{
		Name:        obj.Name,
		Joint:       parent.Properties.StringOr("joint/name", parent.Name),
		Annotations: annotations,
	}, nil
}

// Poses collects the "pose/<name>" properties of the link objects below root into named joint configurations.
// Entries of the same pose from different links are merged. Poses are returned sorted by name.
func (d *Deriver) Poses(root *scene.Object) ([]*model.JointPoseSet, error) {
	poses := map[string]*model.JointPoseSet{}
	for _, obj := range d.Scene.Children(root, d.Options.SelectedOnly, false) {
		if !obj.IsType(scene.LinkType) {
			continue
		}
		jointName := obj.Properties.StringOr("joint/name", obj.Name)
		for _, key := range obj.Properties.Keys() {
			if !strings.HasPrefix(key, posePrefix) {
				continue
			}
			value, _, err := obj.Properties.Float(key)
			if err != nil {
				return nil, err
			}
			name := strings.TrimPrefix(key, posePrefix)
			pose, ok := poses[name]
			if !ok {
				pose = &model.JointPoseSet{Name: name, Configuration: map[string]float64{}}
				poses[name] = pose
			}
			pose.Configuration[jointName] = value
		}
	}
	names := lo.Keys(poses)
	sort.Strings(names)
	return lo.Map(names, func(name string, _ int) *model.JointPoseSet {
		return poses[name]
	}), nil
}

// Submechanism derives a submechanism. Its joint roles hold "submechanism/id" values that are resolved to the
// joints of the objects carrying them.
func (d *Deriver) Submechanism(obj *scene.Object) (*model.Submechanism, error) {
	if !obj.IsType(scene.SubmechanismType) {
		return nil, NewWrongTypeError(obj, scene.SubmechanismType)
	}
	d.Logger.Debugw("deriving submechanism", "submechanism", obj.Name)
	for _, key := range []string{"type", "subtype"} {
		if !obj.Properties.Has(key) {
			return nil, utils.NewPropertyMissingError(obj.Name, key)
		}
	}
	sub := &model.Submechanism{
		Name:    obj.Properties.StringOr("name", obj.Name),
		Type:    obj.Properties.StringOr("type", ""),
		Subtype: obj.Properties.StringOr("subtype", ""),
	}
	for _, role := range SubmechanismKeys {
		raw, ok := obj.Properties[role]
		if !ok {
			continue
		}
		switch ids := raw.(type) {
		case map[string]interface{}:
			named := map[string]string{}
			for key, id := range ids {
				joint, err := d.jointByID(id)
				if err != nil {
					return nil, errors.Wrapf(err, "submechanism %q role %s", obj.Name, role)
				}
				named[key] = joint
			}
			if sub.NamedJoints == nil {
				sub.NamedJoints = map[string]map[string]string{}
			}
			sub.NamedJoints[role] = named
		default:
			list, err := cast.ToSliceE(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "submechanism %q role %s", obj.Name, role)
			}
			joints := make([]string, 0, len(list))
			for _, id := range list {
				joint, err := d.jointByID(id)
				if err != nil {
					return nil, errors.Wrapf(err, "submechanism %q role %s", obj.Name, role)
				}
				joints = append(joints, joint)
			}
			if sub.Joints == nil {
				sub.Joints = map[string][]string{}
			}
			sub.Joints[role] = joints
		}
	}
	sub.Annotations = annotation.Group(obj.Properties,
		append(append(append([]string{}, InternalKeys...), SubmechanismKeys...), "type", "subtype", "name")...)
	return sub, nil
}

func (d *Deriver) jointByID(id interface{}) (string, error) {
	obj := d.Scene.ObjectByProperty("submechanism/id", id)
	if obj == nil {
		return "", errors.Errorf("no object with submechanism id %v", id)
	}
	return obj.Properties.StringOr("joint/name", obj.Name), nil
}
