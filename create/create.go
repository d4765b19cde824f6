// Package create builds scene objects from a model.Robot. It is the inverse of the derive package.
package create

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/logging"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
	"github.com/dfki-ric/phobos/spatialmath"
)

// DefaultLinkSize is the size of a link object without geometric elements.
const DefaultLinkSize = 0.2

// A Creator adds objects for model records to a scene.
type Creator struct {
	Scene  *scene.Scene
	Logger logging.Logger

	// names maps the name of a created element to the object name it was stored under.
	names map[string]string
}

// NewCreator returns a Creator adding to s.
func NewCreator(s *scene.Scene, logger logging.Logger) *Creator {
	return &Creator{Scene: s, Logger: logger, names: map[string]string{}}
}

// LinkOptions place and size a new link object.
type LinkOptions struct {
	// Matrix is the world transform of the link, identity when nil.
	Matrix *mgl64.Mat4
	// Scale multiplies the link size.
	Scale *float64
}

// add stores obj and remembers the name it ended up with.
func (c *Creator) add(obj *scene.Object) *scene.Object {
	requested := obj.Name
	if _, err := c.Scene.Object(requested); err == nil {
		c.Logger.Warnw("object with name of new object already exists", "name", requested, "type", obj.PhobosType)
	}
	stored := c.Scene.Add(obj)
	if c.names == nil {
		c.names = map[string]string{}
	}
	if _, seen := c.names[requested]; !seen {
		c.names[requested] = stored
	}
	return obj
}

// object returns the object created for the named record.
func (c *Creator) object(name string) (*scene.Object, error) {
	if stored, ok := c.names[name]; ok {
		name = stored
	}
	return c.Scene.Object(name)
}

// CreateLink adds a link object with its inertial, visual and collision objects. The link is sized by its
// largest geometric element (DefaultLinkSize without any) times the scale option, and its annotations are
// stored as "link/<category>/<tag>" properties.
func (c *Creator) CreateLink(link *model.Link, opts LinkOptions) *scene.Object {
	obj := scene.NewObject(link.Name, scene.LinkType)
	if opts.Matrix != nil {
		obj.MatrixWorld = *opts.Matrix
	}
	size := DefaultLinkSize
	if geoms := link.Geometries(); len(geoms) > 0 {
		size = 0
		for _, g := range geoms {
			size = math.Max(size, g.LargestDimension())
		}
	}
	if opts.Scale != nil {
		size *= *opts.Scale
	}
	obj.Dimensions = r3.Vector{X: size, Y: size, Z: size}
	c.add(obj)
	obj.SetProperty("link/name", link.Name)
	for k, v := range annotation.Flatten("link", link.Annotations) {
		obj.SetProperty(k, v)
	}
	c.Logger.Debugw("created link", "link", obj.Name, "size", size)

	if link.Inertial != nil {
		c.CreateInertial(link.Name, link.Inertial, obj)
	}
	for i := range link.Visuals {
		c.CreateGeometry(&link.Visuals[i], scene.VisualType)
	}
	for i := range link.Collisions {
		c.CreateGeometry(&link.Collisions[i], scene.CollisionType)
	}
	return obj
}

// CreateInertial adds an inertial object named "inertial_<link>" below linkObj, at the inertial's origin.
func (c *Creator) CreateInertial(linkName string, inertial *model.Inertial, linkObj *scene.Object) *scene.Object {
	obj := scene.NewObject("inertial_"+linkName, scene.InertialType)
	obj.Dimensions = r3.Vector{X: 0.01, Y: 0.01, Z: 0.01}
	obj.SetProperty("mass", inertial.Mass)
	if inertial.Inertia != nil {
		obj.SetProperty("inertia", inertial.Inertia.List())
	}
	for k, v := range annotation.Flatten("", inertial.Annotations) {
		obj.SetProperty(k, v)
	}
	c.add(obj)
	if linkObj != nil {
		if err := c.Scene.SetParent(obj, linkObj, scene.BoneRelativeParent); err != nil {
			c.Logger.Errorw("cannot parent inertial to link", "inertial", obj.Name, "error", err)
			return obj
		}
		c.Scene.SetMatrixLocal(obj, spatialmath.PoseToMatrix(inertial.Origin.ToSpatial()))
	}
	return obj
}

// CreateGeometry adds an unparented object for a *model.Visual or *model.Collision. Collision primitives become
// collision objects of their own.
func (c *Creator) CreateGeometry(element interface{}, phobosType scene.PhobosType) *scene.Object {
	var (
		name        string
		geom        model.Geometry
		annotations annotation.Bag
		obj         *scene.Object
	)
	switch e := element.(type) {
	case *model.Visual:
		name, geom, annotations = e.Name, e.Geometry, e.Annotations
		obj = scene.NewObject(name, phobosType)
		obj.Material = sceneMaterial(e.Material)
	case *model.Collision:
		name, geom, annotations = e.Name, e.Geometry, e.Annotations
		obj = scene.NewObject(name, phobosType)
		if e.Bitmask != nil {
			obj.CollisionCollections = make([]bool, scene.CollisionCollectionCount)
			for i := 0; i < 16; i++ {
				obj.CollisionCollections[i] = *e.Bitmask&(1<<i) != 0
			}
		}
		for i := range e.Primitives {
			c.CreateGeometry(&e.Primitives[i], scene.CollisionType)
		}
	default:
		c.Logger.Errorw("cannot create geometry for element", "element", element)
		return nil
	}
	obj.SetProperty("geometry/type", string(geom.Type))
	obj.Dimensions = geom.Dimensions()
	if geom.Type == model.MeshType {
		obj.MeshName = geom.MeshName
		if obj.MeshName == "" {
			obj.MeshName = geom.Filename
		}
	}
	for k, v := range annotation.Flatten("", annotations) {
		obj.SetProperty(k, v)
	}
	c.add(obj)
	c.Logger.Debugw("created geometry", "object", obj.Name, "type", phobosType, "geometry", geom.Type)
	return obj
}

// sceneMaterial converts a model material. Emission, transparency and textures need a shader node graph.
func sceneMaterial(m *model.Material) *scene.Material {
	if m == nil {
		return nil
	}
	out := &scene.Material{Name: m.Name, DiffuseColor: [4]float64{1, 1, 1, 1}, SpecularColor: [3]float64{1, 1, 1}}
	if m.Diffuse != nil {
		out.DiffuseColor = *m.Diffuse
	}
	if m.Specular != nil {
		out.SpecularColor = [3]float64{m.Specular[0], m.Specular[1], m.Specular[2]}
	}
	if m.Shininess != nil {
		out.Roughness = 1 - *m.Shininess
	}
	if m.Emissive == nil && m.Transparency == nil && m.DiffuseTexture == nil && m.NormalTexture == nil {
		return out
	}
	out.UseNodes = true
	bsdf := scene.ShaderNode{Name: scene.SpecularBSDF, Inputs: map[string]interface{}{
		"Base Color": out.DiffuseColor[:],
		"Roughness":  out.Roughness,
	}}
	if m.Specular != nil {
		bsdf.Inputs["Specular"] = m.Specular[:]
	}
	if m.Emissive != nil {
		bsdf.Inputs["Emissive Color"] = m.Emissive[:]
	}
	if m.Transparency != nil {
		bsdf.Inputs["Transparency"] = *m.Transparency
	}
	out.Nodes = append(out.Nodes, bsdf)
	if m.DiffuseTexture != nil {
		out.Nodes = append(out.Nodes, scene.ShaderNode{
			Name: scene.ImageTexture, Image: m.DiffuseTexture.Image,
			LinkedNode: scene.SpecularBSDF, LinkedSocket: "Base Color",
		})
	}
	if m.NormalTexture != nil {
		out.Nodes = append(out.Nodes, scene.ShaderNode{
			Name: scene.ImageTexture + ".001", Image: m.NormalTexture.Image,
			LinkedNode: scene.NormalMap, LinkedSocket: "Color",
		})
	}
	return out
}
