package scene

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.viam.com/test"

	"github.com/dfki-ric/phobos/spatialmath"
	"github.com/dfki-ric/phobos/utils"
)

func translation(x, y, z float64) mgl64.Mat4 {
	return mgl64.Translate3D(x, y, z)
}

func chain(t *testing.T) (*Scene, *Object, *Object, *Object) {
	t.Helper()
	s := NewScene()
	root := NewObject("root", LinkType)
	mid := NewObject("mid", LinkType)
	leaf := NewObject("leaf", VisualType)
	s.Add(root)
	s.Add(mid)
	s.Add(leaf)
	test.That(t, s.SetParent(mid, root, BoneRelativeParent), test.ShouldBeNil)
	test.That(t, s.SetParent(leaf, mid, ObjectParent), test.ShouldBeNil)
	return s, root, mid, leaf
}

func TestAddDeduplicatesNames(t *testing.T) {
	s := NewScene()
	test.That(t, s.Add(NewObject("link", LinkType)), test.ShouldEqual, "link")
	test.That(t, s.Add(NewObject("link", LinkType)), test.ShouldEqual, "link.001")
	test.That(t, s.Add(NewObject("link", LinkType)), test.ShouldEqual, "link.002")
	test.That(t, s.Add(NewObject("link.001", LinkType)), test.ShouldEqual, "link.003")

	o, err := s.Object("link.002")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, o.PhobosType, test.ShouldEqual, LinkType)
	_, err = s.Object("missing")
	test.That(t, err, test.ShouldBeError, NewObjectNotFoundError("missing"))
}

func TestTraversal(t *testing.T) {
	s, root, mid, leaf := chain(t)
	other := NewObject("other", CollisionType)
	s.Add(other)
	test.That(t, s.SetParent(other, root, ObjectParent), test.ShouldBeNil)

	names := func(objs []*Object) []string {
		out := make([]string, 0, len(objs))
		for _, o := range objs {
			out = append(out, o.Name)
		}
		return out
	}
	test.That(t, names(s.Children(root, false, true)), test.ShouldResemble, []string{"root", "mid", "leaf", "other"})
	test.That(t, names(s.ImmediateChildren(root)), test.ShouldResemble, []string{"mid", "other"})

	mid.Hidden = true
	test.That(t, names(s.Children(root, false, false)), test.ShouldResemble, []string{"root", "leaf", "other"})
	test.That(t, s.EffectiveParent(leaf, true), test.ShouldEqual, mid)
	test.That(t, s.EffectiveParent(leaf, false), test.ShouldEqual, root)
	test.That(t, s.EffectiveParent(root, true), test.ShouldBeNil)

	leaf.Selected = true
	test.That(t, names(s.Children(root, true, true)), test.ShouldResemble, []string{"leaf"})

	test.That(t, s.SetParent(root, leaf, ObjectParent), test.ShouldNotBeNil)
}

func TestMatrices(t *testing.T) {
	s, root, mid, leaf := chain(t)
	s.SetMatrixWorld(root, translation(1, 0, 0))
	s.SetMatrixLocal(mid, translation(0, 2, 0))
	s.SetMatrixLocal(leaf, translation(0, 0, 3))

	test.That(t, leaf.MatrixWorld.Col(3), test.ShouldResemble, mgl64.Vec4{1, 2, 3, 1})
	test.That(t, spatialmath.MatrixAlmostEqual(s.MatrixLocal(leaf), translation(0, 0, 3), 1e-9), test.ShouldBeTrue)

	// moving the root carries the subtree along
	s.SetMatrixWorld(root, translation(0, 0, 0))
	test.That(t, spatialmath.MatrixAlmostEqual(leaf.MatrixWorld, translation(0, 2, 3), 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.MatrixAlmostEqual(s.MatrixLocal(mid), translation(0, 2, 0), 1e-9), test.ShouldBeTrue)

	// reparenting keeps the world transform
	test.That(t, s.SetParent(leaf, root, ObjectParent), test.ShouldBeNil)
	test.That(t, spatialmath.MatrixAlmostEqual(s.MatrixLocal(leaf), translation(0, 2, 3), 1e-9), test.ShouldBeTrue)
}

func TestObjectByProperty(t *testing.T) {
	s, _, mid, leaf := chain(t)
	mid.SetProperty("submechanism/id", 2)
	leaf.SetProperty("joint/axis", []interface{}{0., 0., 1.})

	test.That(t, s.ObjectByProperty("submechanism/id", 2.0), test.ShouldEqual, mid)
	test.That(t, s.ObjectByProperty("submechanism/id", "2"), test.ShouldEqual, mid)
	test.That(t, s.ObjectByProperty("joint/axis", []interface{}{0., 0., 1.}), test.ShouldEqual, leaf)
	test.That(t, s.ObjectByProperty("submechanism/id", 3), test.ShouldBeNil)
}

func TestRename(t *testing.T) {
	s, _, mid, leaf := chain(t)
	test.That(t, s.Rename(mid, "middle"), test.ShouldBeNil)
	test.That(t, leaf.Parent, test.ShouldEqual, "middle")
	_, err := s.Object("mid")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, s.Rename(mid, "root"), test.ShouldNotBeNil)
}

func TestReadFile(t *testing.T) {
	t.Setenv("PHOBOS_TEST_MODEL", "test_arm")
	s, err := ReadFile(utils.ResolveFile("scene/testdata/two_links.json"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Objects, test.ShouldHaveLength, 5)
	test.That(t, s.Texts["README.md"], test.ShouldEqual, "A two link test arm.")

	base, err := s.Object("base_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, base.Properties.StringOr("model/name", ""), test.ShouldEqual, "test_arm")

	upper, err := s.Object("upper_arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.EffectiveParent(upper, true), test.ShouldEqual, base)
	test.That(t, upper.ParentType, test.ShouldEqual, BoneRelativeParent)
	axis, err := upper.Properties.Floats("joint/axis")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis, test.ShouldResemble, []float64{0, 0, 1})
	test.That(t, s.MatrixLocal(upper).Col(3), test.ShouldResemble, mgl64.Vec4{0, 0, 1, 1})

	var buf bytes.Buffer
	test.That(t, s.Write(&buf), test.ShouldBeNil)
	again, err := Read(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again.ID, test.ShouldEqual, s.ID)
	test.That(t, again.Objects, test.ShouldHaveLength, 5)
}

func TestReadRejects(t *testing.T) {
	for _, tc := range []struct {
		name, body, msg string
	}{
		{"old version", `{"version": "1.4.0", "objects": []}`, "unsupported scene version"},
		{"no version", `{"objects": []}`, "no version"},
		{"bad version", `{"version": "two", "objects": []}`, "invalid scene version"},
		{"unknown field", `{"version": "2.0.0", "objects": [], "extra": 1}`, "cannot decode"},
		{"dangling parent", `{"version": "2.0.0", "objects": [{"name": "a", "parent": "b"}]}`, `object "b" not found`},
		{"duplicate", `{"version": "2.0.0", "objects": [{"name": "a"}, {"name": "a"}]}`, "duplicate object name"},
		{"cycle", `{"version": "2.0.0", "objects": [{"name": "a", "parent": "b"}, {"name": "b", "parent": "a"}]}`, "cycle"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.body))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.msg)
		})
	}
}

func TestSchema(t *testing.T) {
	out, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldContainSubstring, "phobostype")
	test.That(t, string(out), test.ShouldContainSubstring, "matrix_world")
	test.That(t, string(out), test.ShouldContainSubstring, "collision_collections")
}

func TestProperties(t *testing.T) {
	p := Properties{
		"inertial/mass":    "2.5",
		"joint/axis":       []interface{}{0, 1, "0"},
		"link/name":        "base",
		"joint/limits/low": 1,
		"flag":             "true",
	}
	f, ok, err := p.Float("inertial/mass")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, f, test.ShouldEqual, 2.5)
	_, ok, err = p.Float("missing")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
	_, _, err = p.Float("link/name")
	test.That(t, err, test.ShouldNotBeNil)

	axis, err := p.Floats("joint/axis")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis, test.ShouldResemble, []float64{0, 1, 0})
	_, err = p.Floats("link/name")
	test.That(t, err, test.ShouldNotBeNil)

	b, err := p.Bool("flag")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b, test.ShouldBeTrue)

	test.That(t, p.HasPrefix("joint/limits/"), test.ShouldBeTrue)
	test.That(t, p.HasPrefix("joint/dynamics/"), test.ShouldBeFalse)
	test.That(t, p.WithPrefix("joint/"), test.ShouldResemble, map[string]interface{}{
		"axis":       []interface{}{0, 1, "0"},
		"limits/low": 1,
	})
	test.That(t, p.Keys()[0], test.ShouldEqual, "flag")
}
