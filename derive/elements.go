package derive

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/inertia"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
)

// bitmaskCollections is the number of collision collections encoded in a collision bitmask.
const bitmaskCollections = 16

// Visual derives a visual element. Its origin is relative to the object's effective parent.
func (d *Deriver) Visual(obj *scene.Object) (*model.Visual, error) {
	if !obj.IsType(scene.VisualType) {
		return nil, NewWrongTypeError(obj, scene.VisualType)
	}
	geom, err := d.Geometry(obj)
	if err != nil {
		return nil, err
	}
	return &model.Visual{
		Name:        obj.Name,
		Geometry:    geom,
		Origin:      d.localPose(obj, nil),
		Material:    d.Material(obj.Material),
		Annotations: annotation.Group(obj.Properties, append(ViscolKeys, InternalKeys...)...),
	}, nil
}

// Collision derives a collision element relative to linkObj (the effective parent when nil). Collision children
// with a primitive geometry become the element's primitives.
func (d *Deriver) Collision(obj, linkObj *scene.Object) (*model.Collision, error) {
	if !obj.IsType(scene.CollisionType) {
		return nil, NewWrongTypeError(obj, scene.CollisionType)
	}
	geom, err := d.Geometry(obj)
	if err != nil {
		return nil, err
	}
	col := &model.Collision{
		Name:        obj.Name,
		Geometry:    geom,
		Origin:      d.localPose(obj, linkObj),
		Bitmask:     d.bitmask(obj),
		Annotations: annotation.Group(obj.Properties, append(ViscolKeys, InternalKeys...)...),
	}

	for _, child := range d.Scene.ImmediateChildren(obj) {
		if !child.IsType(scene.CollisionType) {
			continue
		}
		gtype := child.Properties.StringOr("geometry/type", "")
		if !model.GeometryType(gtype).IsPrimitive() {
			continue
		}
		primitive, err := d.Collision(child, linkObj)
		if err != nil {
			return nil, errors.Wrapf(err, "primitive of collision %q", obj.Name)
		}
		col.Primitives = append(col.Primitives, *primitive)
	}
	return col, nil
}

// bitmask encodes the first 16 collision collections, collection i as bit i. Objects without collection
// information have no bitmask.
func (d *Deriver) bitmask(obj *scene.Object) *int {
	if obj.CollisionCollections == nil {
		return nil
	}
	mask := 0
	for i, member := range obj.CollisionCollections {
		if i >= bitmaskCollections {
			break
		}
		if member {
			mask |= 1 << i
		}
	}
	if len(obj.CollisionCollections) > bitmaskCollections && lo.Contains(obj.CollisionCollections[bitmaskCollections:], true) {
		d.Logger.Warnw("object is on a collision collection higher than 16, these are ignored when exporting",
			"object", obj.Name)
	}
	return &mask
}

// Inertial derives an inertial element from the "mass" and "inertia" properties. The inertia is either six
// values or a list holding them.
func (d *Deriver) Inertial(obj *scene.Object) (*model.Inertial, error) {
	if !obj.IsType(scene.InertialType) {
		return nil, NewWrongTypeError(obj, scene.InertialType)
	}
	mass, _, err := obj.Properties.Float("mass")
	if err != nil {
		return nil, err
	}
	in, err := d.inertia(obj)
	if err != nil {
		return nil, err
	}
	return &model.Inertial{
		Mass:        mass,
		Inertia:     in,
		Origin:      d.localPose(obj, nil),
		Annotations: annotation.Group(obj.Properties, append(InertialKeys, InternalKeys...)...),
	}, nil
}

func (d *Deriver) inertia(obj *scene.Object) (*inertia.Inertia, error) {
	raw, ok := obj.Properties["inertia"]
	if !ok {
		return nil, nil
	}
	if nested, isList := raw.([]interface{}); isList && len(nested) > 0 {
		switch nested[0].(type) {
		case []interface{}, []float64:
			raw = nested[0]
		}
	}
	values, err := scene.Properties{"inertia": raw}.Floats("inertia")
	if err != nil {
		return nil, errors.Wrapf(err, "object %q", obj.Name)
	}
	in, err := inertia.InertiaFromList(values)
	if err != nil {
		return nil, errors.Wrapf(err, "object %q", obj.Name)
	}
	return &in, nil
}
