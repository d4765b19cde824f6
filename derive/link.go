package derive

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/inertia"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
)

// Link derives a link from a link object. Visual and collision objects among objects whose effective parent is
// obj become the link's elements, except collision primitives, which belong to their collision. The inertial
// children of obj are fused into one inertial. A nil objects searches the whole scene.
func (d *Deriver) Link(obj *scene.Object, objects []*scene.Object) (*model.Link, error) {
	if !obj.IsType(scene.LinkType) {
		return nil, NewWrongTypeError(obj, scene.LinkType)
	}
	if objects == nil {
		objects = d.Scene.Objects
	}
	d.Logger.Debugw("deriving link", "link", obj.Name)

	link := &model.Link{Name: obj.Name}
	for _, part := range objects {
		if !part.IsType(scene.VisualType, scene.CollisionType) {
			continue
		}
		if d.Scene.EffectiveParent(part, true) != obj {
			continue
		}
		if parent := d.Scene.ParentOf(part); parent != nil && parent.IsType(scene.CollisionType) {
			// primitive of another collision
			continue
		}
		d.Logger.Debugw("adding element to link", "link", obj.Name, "type", part.PhobosType, "element", part.Name)
		if part.PhobosType == scene.VisualType {
			visual, err := d.Visual(part)
			if err != nil {
				return nil, errors.Wrapf(err, "link %q", obj.Name)
			}
			link.Visuals = append(link.Visuals, *visual)
			continue
		}
		collision, err := d.Collision(part, obj)
		if err != nil {
			return nil, errors.Wrapf(err, "link %q", obj.Name)
		}
		link.Collisions = append(link.Collisions, *collision)
	}

	inertial, err := d.fuseInertials(obj)
	if err != nil {
		return nil, err
	}
	if inertial == nil {
		d.Logger.Debugw("no inertia information for link", "link", obj.Name)
	}
	link.Inertial = inertial

	link.Annotations = annotation.GroupFunc(obj.Properties,
		func(key string) bool {
			return !reserved(JointKeys, LinkKeys, InternalKeys)(key) && !hasAnyPrefix(key, jointPrefix, posePrefix)
		},
		func(key string) string {
			return strings.TrimPrefix(key, linkPrefix)
		},
	)
	return link, nil
}

// fuseInertials combines the inertial children of a link object, expressed in the link frame.
func (d *Deriver) fuseInertials(linkObj *scene.Object) (*model.Inertial, error) {
	var contributions []inertia.Contribution
	for _, child := range d.Scene.ImmediateChildren(linkObj) {
		if !child.IsType(scene.InertialType) {
			continue
		}
		in, err := d.Inertial(child)
		if err != nil {
			return nil, errors.Wrapf(err, "link %q", linkObj.Name)
		}
		c := inertia.Contribution{Mass: in.Mass, Origin: d.ObjectPose(child, linkObj)}
		if in.Inertia != nil {
			c.Inertia = *in.Inertia
		}
		contributions = append(contributions, c)
	}
	fused, ok := inertia.Fuse(contributions)
	if !ok {
		return nil, nil
	}
	return model.InertialFromFused(fused), nil
}
