// Package derive builds a model.Robot from the objects of a scene.
package derive

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/dfki-ric/phobos/logging"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
	"github.com/dfki-ric/phobos/spatialmath"
	"github.com/dfki-ric/phobos/utils"
)

// Options control a derive pass.
type Options struct {
	// SelectedOnly restricts the robot to selected objects below the root.
	SelectedOnly bool
	// DuplicateMesh gives every mesh geometry its own copy of the mesh data.
	DuplicateMesh bool
}

// A Deriver converts scene objects into model records.
type Deriver struct {
	Scene   *scene.Scene
	Logger  logging.Logger
	Options Options

	meshCopies map[string]int
}

// NewDeriver returns a Deriver over s.
func NewDeriver(s *scene.Scene, logger logging.Logger, opts Options) *Deriver {
	return &Deriver{Scene: s, Logger: logger, Options: opts}
}

// ObjectPose returns the pose of obj relative to parent. A nil parent means the effective parent of obj, and
// the world frame when there is none. Reflective transforms are passed through with a warning.
func (d *Deriver) ObjectPose(obj, parent *scene.Object) spatialmath.Pose {
	if parent == nil {
		parent = d.Scene.EffectiveParent(obj, true)
	}
	if spatialmath.IsReflection(obj.MatrixWorld) {
		d.Logger.Warnw("object transform is a reflection, the derived pose is not a rigid transform", "object", obj.Name)
	}
	var pose spatialmath.Pose
	if parent != nil {
		if spatialmath.IsReflection(parent.MatrixWorld) {
			d.Logger.Warnw("parent transform is a reflection, the derived pose is not a rigid transform",
				"object", obj.Name, "parent", parent.Name)
		}
		pose = spatialmath.ComposeLocalPose(obj.MatrixWorld, &parent.MatrixWorld)
	} else {
		pose = spatialmath.ComposeLocalPose(obj.MatrixWorld, nil)
	}
	d.Logger.Debugw("derived pose", "object", obj.Name, "pose", fmt.Sprint(pose))
	return pose
}

func (d *Deriver) localPose(obj, parent *scene.Object) model.Pose {
	return model.PoseFromSpatial(d.ObjectPose(obj, parent))
}

// Geometry derives the shape of a visual or collision object from its "geometry/type" property and its
// dimensions.
func (d *Deriver) Geometry(obj *scene.Object) (model.Geometry, error) {
	if !obj.Properties.Has("geometry/type") {
		return model.Geometry{}, utils.NewPropertyMissingError(obj.Name, "geometry/type")
	}
	gtype, err := obj.Properties.String("geometry/type")
	if err != nil {
		return model.Geometry{}, err
	}
	dims := obj.Dimensions
	switch model.GeometryType(gtype) {
	case model.BoxType:
		return model.Geometry{Type: model.BoxType, Size: dims}, nil
	case model.CylinderType:
		return model.Geometry{Type: model.CylinderType, Radius: dims.X / 2, Length: dims.Z}, nil
	case model.SphereType:
		return model.Geometry{Type: model.SphereType, Radius: dims.X / 2}, nil
	case model.MeshType:
		meshName := obj.MeshName
		if meshName == "" {
			meshName = obj.Name
		}
		if d.Options.DuplicateMesh {
			meshName = d.copyMesh(meshName)
		}
		return model.Geometry{
			Type:     model.MeshType,
			Scale:    spatialmath.MatrixScale(obj.MatrixWorld),
			MeshName: meshName,
		}, nil
	default:
		return model.Geometry{}, errors.Wrapf(model.NewUnsupportedGeometryTypeError(gtype), "object %q", obj.Name)
	}
}

// copyMesh names a new copy of a mesh the way the host names duplicated data blocks.
func (d *Deriver) copyMesh(name string) string {
	if d.meshCopies == nil {
		d.meshCopies = map[string]int{}
	}
	d.meshCopies[name]++
	return fmt.Sprintf("%s.%03d", name, d.meshCopies[name])
}

// Material derives a model material from a host material. It returns nil for a nil material.
func (d *Deriver) Material(mat *scene.Material) *model.Material {
	if mat == nil {
		return nil
	}
	out := &model.Material{Name: mat.Name}
	var shininess *float64
	if mat.UseNodes {
		for _, node := range mat.Nodes {
			if !strings.Contains(node.Name, scene.ImageTexture) {
				continue
			}
			switch {
			case node.LinkedSocket == "Base Color":
				out.DiffuseTexture = &model.Texture{Image: node.Image}
			case node.LinkedNode == scene.NormalMap:
				out.NormalTexture = &model.Texture{Image: node.Image}
			}
		}
		if node := mat.Node(scene.SpecularBSDF); node != nil {
			out.Diffuse = d.nodeColor(mat, node, "Base Color")
			out.Specular = d.nodeColor(mat, node, "Specular")
			out.Emissive = d.nodeColor(mat, node, "Emissive Color")
			if roughness, ok := d.nodeFloat(mat, node, "Roughness"); ok {
				shininess = floatPtr(1 - roughness)
			}
			if transparency, ok := d.nodeFloat(mat, node, "Transparency"); ok {
				out.Transparency = floatPtr(transparency)
			}
		} else if node := mat.Node(scene.PrincipledBSDF); node != nil {
			out.Diffuse = d.nodeColor(mat, node, "Base Color")
			if specular, ok := d.nodeFloat(mat, node, "Specular"); ok && out.Diffuse != nil {
				out.Specular = &model.Color{
					out.Diffuse[0] * specular, out.Diffuse[1] * specular,
					out.Diffuse[2] * specular, out.Diffuse[3] * specular,
				}
			}
			out.Emissive = d.nodeColor(mat, node, "Emission")
			if roughness, ok := d.nodeFloat(mat, node, "Roughness"); ok {
				shininess = floatPtr(1 - roughness)
			}
			if alpha, ok := d.nodeFloat(mat, node, "Alpha"); ok {
				out.Transparency = floatPtr(1 - alpha)
			}
		}
	}
	if out.Diffuse == nil {
		c := model.Color(mat.DiffuseColor)
		out.Diffuse = &c
	}
	if out.Specular == nil {
		out.Specular = &model.Color{mat.SpecularColor[0], mat.SpecularColor[1], mat.SpecularColor[2], 1}
	}
	if shininess == nil {
		shininess = floatPtr(1 - mat.Roughness)
	}
	out.Shininess = shininess
	return out
}

func (d *Deriver) nodeFloat(mat *scene.Material, node *scene.ShaderNode, input string) (float64, bool) {
	v, ok := node.Inputs[input]
	if !ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		d.Logger.Warnw("ignoring non numeric shader input", "material", mat.Name, "node", node.Name, "input", input)
		return 0, false
	}
	return f, true
}

func (d *Deriver) nodeColor(mat *scene.Material, node *scene.ShaderNode, input string) *model.Color {
	v, ok := node.Inputs[input]
	if !ok {
		return nil
	}
	values, err := scene.Properties{input: v}.Floats(input)
	if err != nil || len(values) < 3 || len(values) > 4 {
		d.Logger.Warnw("ignoring malformed shader color", "material", mat.Name, "node", node.Name, "input", input)
		return nil
	}
	c := model.Color{values[0], values[1], values[2], 1}
	if len(values) == 4 {
		c[3] = values[3]
	}
	return &c
}

func floatPtr(f float64) *float64 {
	return &f
}
