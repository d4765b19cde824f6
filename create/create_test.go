package create

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/dfki-ric/phobos/annotation"
	"github.com/dfki-ric/phobos/inertia"
	"github.com/dfki-ric/phobos/logging"
	"github.com/dfki-ric/phobos/model"
	"github.com/dfki-ric/phobos/scene"
	"github.com/dfki-ric/phobos/spatialmath"
	"github.com/dfki-ric/phobos/utils"
)

func near(a, b float64) bool {
	return utils.Float64AlmostEqual(a, b, 1e-9)
}

func TestCreateLink(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	c := NewCreator(scene.NewScene(), logger)

	bare := c.CreateLink(&model.Link{Name: "bare"}, LinkOptions{})
	test.That(t, bare.PhobosType, test.ShouldEqual, scene.LinkType)
	test.That(t, bare.Dimensions.X, test.ShouldAlmostEqual, DefaultLinkSize)
	test.That(t, bare.Properties["link/name"], test.ShouldEqual, "bare")
	test.That(t, bare.MatrixWorld, test.ShouldResemble, mgl64.Ident4())

	scale := 2.
	matrix := mgl64.Translate3D(1, 2, 3)
	link := &model.Link{
		Name: "arm",
		Visuals: []model.Visual{{
			Name:     "arm_visual",
			Geometry: model.Geometry{Type: model.BoxType, Size: r3.Vector{X: 0.1, Y: 0.5, Z: 0.2}},
		}},
		Collisions: []model.Collision{{
			Name:     "arm_collision",
			Geometry: model.Geometry{Type: model.SphereType, Radius: 0.2},
		}},
		Inertial: &model.Inertial{Mass: 3, Inertia: &inertia.Inertia{Ixx: 1, Iyy: 2, Izz: 3}, Origin: model.Pose{XYZ: [3]float64{0, 0, 0.5}}},
		Annotations: annotation.Bag{
			"sensors": annotation.Bag{"rate": 10},
			"color":   "red",
		},
	}
	obj := c.CreateLink(link, LinkOptions{Matrix: &matrix, Scale: &scale})
	test.That(t, obj.Dimensions.X, test.ShouldAlmostEqual, 1)
	test.That(t, obj.MatrixWorld, test.ShouldResemble, matrix)
	test.That(t, obj.Properties["link/sensors/rate"], test.ShouldEqual, 10)
	test.That(t, obj.Properties["link/color"], test.ShouldEqual, "red")

	in, err := c.Scene.Object("inertial_arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, in.Parent, test.ShouldEqual, "arm")
	test.That(t, in.Properties["mass"], test.ShouldEqual, 3.)
	test.That(t, in.Properties["inertia"], test.ShouldResemble, []float64{1, 0, 0, 2, 0, 3})
	test.That(t, in.MatrixWorld.Col(3), test.ShouldResemble, mgl64.Vec4{1, 2, 3.5, 1})

	vis, err := c.Scene.Object("arm_visual")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vis.Properties["geometry/type"], test.ShouldEqual, "box")
	test.That(t, vis.Dimensions, test.ShouldResemble, r3.Vector{X: 0.1, Y: 0.5, Z: 0.2})
	test.That(t, vis.Parent, test.ShouldEqual, "")

	col, err := c.Scene.Object("arm_collision")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, col.Dimensions.Z, test.ShouldAlmostEqual, 0.4)

	test.That(t, logs.FilterMessageSnippet("already exists").Len(), test.ShouldEqual, 0)
	clash := c.CreateLink(&model.Link{Name: "arm"}, LinkOptions{})
	test.That(t, clash.Name, test.ShouldEqual, "arm.001")
	test.That(t, logs.FilterMessageSnippet("already exists").Len(), test.ShouldEqual, 1)
}

func TestCreateGeometryMaterialAndBitmask(t *testing.T) {
	c := NewCreator(scene.NewScene(), logging.NewTestLogger(t))
	shininess := 0.75
	transparency := 0.2
	vis := c.CreateGeometry(&model.Visual{
		Name:     "shell",
		Geometry: model.Geometry{Type: model.MeshType, MeshName: "shell_mesh", Scale: r3.Vector{X: 1, Y: 1, Z: 1}},
		Material: &model.Material{
			Name:           "paint",
			Diffuse:        &model.Color{1, 0, 0, 1},
			Shininess:      &shininess,
			Transparency:   &transparency,
			DiffuseTexture: &model.Texture{Image: "paint.png"},
		},
		Annotations: annotation.Bag{"lod": annotation.Bag{"far": 10}},
	}, scene.VisualType)
	test.That(t, vis.MeshName, test.ShouldEqual, "shell_mesh")
	test.That(t, vis.Properties["lod/far"], test.ShouldEqual, 10)
	test.That(t, vis.Material.UseNodes, test.ShouldBeTrue)
	test.That(t, vis.Material.Roughness, test.ShouldAlmostEqual, 0.25)
	test.That(t, vis.Material.Node(scene.SpecularBSDF).Inputs["Transparency"], test.ShouldEqual, 0.2)
	test.That(t, vis.Material.Nodes, test.ShouldHaveLength, 2)
	test.That(t, vis.Material.Nodes[1].LinkedSocket, test.ShouldEqual, "Base Color")

	mask := 5
	col := c.CreateGeometry(&model.Collision{
		Name:     "hull",
		Geometry: model.Geometry{Type: model.CylinderType, Radius: 0.1, Length: 1},
		Bitmask:  &mask,
		Primitives: []model.Collision{{
			Name:     "hull_box",
			Geometry: model.Geometry{Type: model.BoxType, Size: r3.Vector{X: 1, Y: 1, Z: 1}},
		}},
	}, scene.CollisionType)
	test.That(t, col.CollisionCollections, test.ShouldHaveLength, scene.CollisionCollectionCount)
	test.That(t, col.CollisionCollections[:3], test.ShouldResemble, []bool{true, false, true})
	_, err := c.Scene.Object("hull_box")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, c.CreateGeometry("not an element", scene.VisualType), test.ShouldBeNil)
}

func TestPlacement(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	c := NewCreator(scene.NewScene(), logger)
	base := &model.Link{Name: "base"}
	upper := &model.Link{
		Name: "upper",
		Visuals: []model.Visual{{
			Name:     "upper_visual",
			Geometry: model.Geometry{Type: model.MeshType, MeshName: "m", Scale: r3.Vector{X: 2, Y: 2, Z: 2}},
			Origin:   model.Pose{XYZ: [3]float64{0, 0, 0.5}},
		}},
		Collisions: []model.Collision{{Name: "ghost", Geometry: model.Geometry{Type: model.SphereType, Radius: 1}}},
	}
	robot := &model.Robot{
		Name:  "arm",
		Links: []*model.Link{base, upper},
		Joints: []*model.Joint{{
			Name: "shoulder", Parent: "base", Child: "upper", Type: model.RevoluteJoint, Axis: &r3.Vector{Z: 1},
			Origin: model.Pose{XYZ: [3]float64{1, 0, 0}, RPY: [3]float64{0, 0, math.Pi / 2}},
		}},
	}
	matrix := mgl64.Translate3D(0, 0, 1)
	baseObj := c.CreateLink(base, LinkOptions{Matrix: &matrix})
	// the collision "ghost" never gets an object
	upperObj := c.CreateLink(&model.Link{Name: "upper", Visuals: upper.Visuals}, LinkOptions{})

	test.That(t, c.PlaceChildLinks(robot, base), test.ShouldBeNil)
	test.That(t, upperObj.Parent, test.ShouldEqual, baseObj.Name)
	test.That(t, upperObj.ParentType, test.ShouldEqual, scene.BoneRelativeParent)
	test.That(t, upperObj.MatrixWorld.Col(3).Vec3().ApproxFuncEqual(mgl64.Vec3{1, 0, 1}, near), test.ShouldBeTrue)
	// rotated a quarter turn about z: local x points along world y
	test.That(t, upperObj.MatrixWorld.Col(0).Vec3().ApproxFuncEqual(mgl64.Vec3{0, 1, 0}, near), test.ShouldBeTrue)

	test.That(t, c.PlaceLinkSubelements(upper), test.ShouldBeNil)
	vis, err := c.Scene.Object("upper_visual")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vis.Parent, test.ShouldEqual, "upper")
	test.That(t, vis.MatrixWorld.Col(3).Vec3().ApproxFuncEqual(mgl64.Vec3{1, 0, 1.5}, near), test.ShouldBeTrue)
	test.That(t, vis.MatrixWorld.Col(2).Len(), test.ShouldAlmostEqual, 2)
	test.That(t, logs.FilterMessageSnippet("missing link element").Len(), test.ShouldEqual, 1)
}

func TestLinkName(t *testing.T) {
	for _, tc := range []struct {
		format, name, expected string
		fails                  bool
	}{
		{"{0}", "wheel_left.001", "wheel", false},
		{"{1}_{0}", "wheel_left", "left_wheel", false},
		{"link_{}{}", "arm2segment", "link_armsegment", false},
		{"{2}", "wheel_left", "link_wheel_left", true},
		{"", "wheel", "link_wheel", false},
	} {
		name, err := linkName(tc.format, tc.name)
		test.That(t, name, test.ShouldEqual, tc.expected)
		test.That(t, err != nil, test.ShouldEqual, tc.fails)
	}
}

func TestDeriveLinkFromObject(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	s := scene.NewScene()
	c := NewCreator(s, logger)
	parent := scene.NewObject("frame", scene.LinkType)
	s.Add(parent)
	obj := scene.NewObject("leg_front", scene.VisualType)
	obj.MatrixWorld = mgl64.Translate3D(0, 1, 0).Mul4(mgl64.Scale3D(3, 3, 3))
	s.Add(obj)
	test.That(t, s.SetParent(obj, parent, scene.ObjectParent), test.ShouldBeNil)
	foot := scene.NewObject("foot", scene.CollisionType)
	s.Add(foot)
	test.That(t, s.SetParent(foot, obj, scene.ObjectParent), test.ShouldBeNil)

	link, err := c.DeriveLinkFromObject(obj, DeriveOptions{
		Scale: 0.5, ParentLink: true, ParentObjects: true, NameFormat: "{1}_{0}",
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, link.Name, test.ShouldEqual, "front_leg")
	test.That(t, link.Dimensions.X, test.ShouldAlmostEqual, DefaultLinkSize*0.5)
	test.That(t, spatialmath.MatrixAlmostEqual(link.MatrixWorld, mgl64.Translate3D(0, 1, 0), 1e-9), test.ShouldBeTrue)
	test.That(t, link.Parent, test.ShouldEqual, "frame")
	test.That(t, link.ParentType, test.ShouldEqual, scene.BoneRelativeParent)
	test.That(t, obj.Parent, test.ShouldEqual, "front_leg")
	test.That(t, foot.Parent, test.ShouldEqual, "front_leg")
	test.That(t, s.EffectiveParent(foot, true), test.ShouldEqual, link)

	_, err = c.DeriveLinkFromObject(foot, DeriveOptions{NameFormat: "{3}"})
	test.That(t, err, test.ShouldBeNil)
	_, err = s.Object("link_foot")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessageSnippet("invalid name format").Len(), test.ShouldEqual, 1)
}
