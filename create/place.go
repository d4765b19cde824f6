package create

import (
	"regexp"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
	"github.com/dfki-ric/phobos/spatialmath"
)

// poseMatrix is T(xyz)·R(rpy), the rotation built from fixed-axis XYZ euler angles.
func poseMatrix(p model.Pose) mgl64.Mat4 {
	return spatialmath.PoseToMatrix(p.ToSpatial())
}

// PlaceChildLinks parents the links below parent in the robot to their parent link objects and places them at
// their joint origins, recursively.
func (c *Creator) PlaceChildLinks(robot *model.Robot, parent *model.Link) error {
	parentObj, err := c.object(parent.Name)
	if err != nil {
		return err
	}
	for _, joint := range robot.ChildJoints(parent.Name) {
		child, err := robot.Link(joint.Child)
		if err != nil {
			return errors.Wrapf(err, "joint %q", joint.Name)
		}
		childObj, err := c.object(child.Name)
		if err != nil {
			return err
		}
		if err := c.Scene.SetParent(childObj, parentObj, scene.BoneRelativeParent); err != nil {
			return err
		}
		c.Scene.SetMatrixWorld(childObj, parentObj.MatrixWorld)
		c.Scene.SetMatrixLocal(childObj, poseMatrix(joint.Origin))
		if err := c.PlaceChildLinks(robot, child); err != nil {
			return err
		}
	}
	return nil
}

// PlaceLinkSubelements parents the visual and collision objects of a link to the link object at their origins.
// Elements without an object are logged and skipped.
func (c *Creator) PlaceLinkSubelements(link *model.Link) error {
	linkObj, err := c.object(link.Name)
	if err != nil {
		return err
	}
	c.Logger.Debugw("placing subelements for link", "link", link.Name, "elements", link.Elements())

	type element struct {
		name   string
		origin model.Pose
		geom   model.Geometry
		parent *scene.Object
	}
	var elements []element
	for _, col := range link.Collisions {
		elements = append(elements, element{col.Name, col.Origin, col.Geometry, linkObj})
	}
	for _, vis := range link.Visuals {
		elements = append(elements, element{vis.Name, vis.Origin, vis.Geometry, linkObj})
	}

	for _, e := range elements {
		obj, err := c.object(e.name)
		if err != nil {
			c.Logger.Errorw("missing link element for placement", "link", link.Name, "element", e.name)
			continue
		}
		if err := c.Scene.SetParent(obj, e.parent, scene.BoneRelativeParent); err != nil {
			return err
		}
		c.Scene.SetMatrixLocal(obj, c.elementMatrix(e.name, e.origin, e.geom))
	}

	// primitives hang below their collision but are expressed in the link frame
	for _, col := range link.Collisions {
		colObj, err := c.object(col.Name)
		if err != nil {
			continue
		}
		for _, prim := range col.Primitives {
			obj, err := c.object(prim.Name)
			if err != nil {
				c.Logger.Errorw("missing collision primitive for placement", "collision", col.Name, "primitive", prim.Name)
				continue
			}
			if err := c.Scene.SetParent(obj, colObj, scene.ObjectParent); err != nil {
				return err
			}
			c.Scene.SetMatrixWorld(obj, linkObj.MatrixWorld.Mul4(c.elementMatrix(prim.Name, prim.Origin, prim.Geometry)))
		}
	}
	return nil
}

// elementMatrix is the local transform of an element, scaled for meshes.
func (c *Creator) elementMatrix(name string, origin model.Pose, geom model.Geometry) mgl64.Mat4 {
	if origin.IsIdentity() {
		c.Logger.Debugw("no pose in element", "element", name)
	}
	m := poseMatrix(origin)
	if geom.Type != model.MeshType {
		return m
	}
	scale := geom.Scale
	if scale.X == 0 && scale.Y == 0 && scale.Z == 0 {
		c.Logger.Debugw("no scale defined for element", "element", name)
		return m
	}
	return m.Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
}

// DeriveOptions control DeriveLinkFromObject.
type DeriveOptions struct {
	// Scale multiplies the link size.
	Scale float64
	// ParentLink attaches the new link to the object's parent.
	ParentLink bool
	// ParentObjects moves the object and its immediate children below the new link.
	ParentObjects bool
	// NameFormat builds the link name from the alphabetic parts of the object name. "{0}" is the first part,
	// "{}" the next one in order. An empty format or a missing part names the link "link_<object>".
	NameFormat string
}

var formatField = regexp.MustCompile(`\{(\d*)\}`)

var nonAlpha = regexp.MustCompile(`[^a-zA-Z]+`)

// linkName applies format to the alphabetic parts of name.
func linkName(format, name string) (string, error) {
	if format == "" {
		return "link_" + name, nil
	}
	var parts []string
	for _, p := range nonAlpha.Split(name, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	next := 0
	var err error
	out := formatField.ReplaceAllStringFunc(format, func(field string) string {
		idx := next
		if digits := formatField.FindStringSubmatch(field)[1]; digits != "" {
			idx, _ = strconv.Atoi(digits)
		} else {
			next++
		}
		if idx >= len(parts) {
			err = errors.Errorf("index %d out of range for %d name parts", idx, len(parts))
			return ""
		}
		return parts[idx]
	})
	if err != nil {
		return "link_" + name, err
	}
	return out, nil
}

// DeriveLinkFromObject creates a link at the world transform of obj, named from the object name.
func (c *Creator) DeriveLinkFromObject(obj *scene.Object, opts DeriveOptions) (*scene.Object, error) {
	c.Logger.Infow("deriving link from object", "object", obj.Name)
	name, err := linkName(opts.NameFormat, obj.Name)
	if err != nil {
		c.Logger.Warnw("invalid name format (indices) for naming", "object", obj.Name, "format", opts.NameFormat, "error", err)
	}
	matrix := spatialmath.Orthonormalize(obj.MatrixWorld)
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	link := c.CreateLink(&model.Link{Name: name}, LinkOptions{Matrix: &matrix, Scale: &scale})

	if opts.ParentLink {
		if parent := c.Scene.ParentOf(obj); parent != nil {
			parentType := scene.ObjectParent
			if parent.PhobosType == scene.LinkType {
				parentType = scene.BoneRelativeParent
			}
			if err := c.Scene.SetParent(link, parent, parentType); err != nil {
				return nil, err
			}
		}
	}
	if opts.ParentObjects {
		children := append([]*scene.Object{obj}, c.Scene.ImmediateChildren(obj)...)
		for _, child := range children {
			if err := c.Scene.SetParent(child, link, scene.BoneRelativeParent); err != nil {
				return nil, err
			}
		}
	}
	return link, nil
}
