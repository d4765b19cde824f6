// Package scene is an explicit, typed scene graph standing in for the 3D editor's object hierarchy. It is
// the only place the derive and create packages read or write host state.
package scene

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Version is the scene file format version written by this package.
const Version = "2.0.0"

// Scene holds a set of uniquely named objects. Objects keep their insertion order.
type Scene struct {
	ID      uuid.UUID         `json:"id"`
	Version string            `json:"version"`
	Objects []*Object         `json:"objects"`
	Texts   map[string]string `json:"texts,omitempty"`

	byName map[string]*Object
}

// NewScene returns an empty scene with a fresh id.
func NewScene() *Scene {
	return &Scene{
		ID:      uuid.New(),
		Version: Version,
		Texts:   map[string]string{},
		byName:  map[string]*Object{},
	}
}

// NewObjectNotFoundError is used when an object name does not resolve.
func NewObjectNotFoundError(name string) error {
	return errors.Errorf("object %q not found in scene", name)
}

func (s *Scene) index() map[string]*Object {
	if s.byName == nil || len(s.byName) != len(s.Objects) {
		s.byName = make(map[string]*Object, len(s.Objects))
		for _, o := range s.Objects {
			s.byName[o.Name] = o
		}
	}
	return s.byName
}

// Object returns the object with the given name.
func (s *Scene) Object(name string) (*Object, error) {
	if o, ok := s.index()[name]; ok {
		return o, nil
	}
	return nil, NewObjectNotFoundError(name)
}

var numberedName = regexp.MustCompile(`^(.*)\.(\d{3,})$`)

// Add inserts an object. A name already in use gets the next free numeric suffix (".001", ".002", ...),
// and the name the object was stored under is returned.
func (s *Scene) Add(obj *Object) string {
	idx := s.index()
	if _, taken := idx[obj.Name]; taken {
		base := obj.Name
		n := 1
		if m := numberedName.FindStringSubmatch(obj.Name); m != nil {
			base = m[1]
			n, _ = strconv.Atoi(m[2])
			n++
		}
		for {
			candidate := fmt.Sprintf("%s.%03d", base, n)
			if _, taken := idx[candidate]; !taken {
				obj.Name = candidate
				break
			}
			n++
		}
	}
	if obj.Properties == nil {
		obj.Properties = Properties{}
	}
	s.Objects = append(s.Objects, obj)
	idx[obj.Name] = obj
	return obj.Name
}

// Rename changes an object's name and updates references from its children. A clash is an error.
func (s *Scene) Rename(obj *Object, name string) error {
	if obj.Name == name {
		return nil
	}
	idx := s.index()
	if _, taken := idx[name]; taken {
		return errors.Errorf("cannot rename %q: name %q already in use", obj.Name, name)
	}
	for _, child := range s.ImmediateChildren(obj) {
		child.Parent = name
	}
	delete(idx, obj.Name)
	obj.Name = name
	idx[name] = obj
	return nil
}

// ParentOf returns the object's parent, or nil for a top level object.
func (s *Scene) ParentOf(obj *Object) *Object {
	if obj.Parent == "" {
		return nil
	}
	return s.index()[obj.Parent]
}

// ImmediateChildren returns the direct children of obj in insertion order.
func (s *Scene) ImmediateChildren(obj *Object) []*Object {
	return lo.Filter(s.Objects, func(o *Object, _ int) bool {
		return o.Parent == obj.Name
	})
}

// Children returns root and all of its descendants, depth first. Unselected descendants are skipped when
// selectedOnly is set, and hidden ones unless includeHidden is set; their own descendants are still visited.
func (s *Scene) Children(root *Object, selectedOnly, includeHidden bool) []*Object {
	var out []*Object
	var visit func(o *Object)
	visit = func(o *Object) {
		if (!selectedOnly || o.Selected) && (includeHidden || !o.Hidden) {
			out = append(out, o)
		}
		for _, child := range s.ImmediateChildren(o) {
			visit(child)
		}
	}
	visit(root)
	return out
}

// EffectiveParent returns the nearest ancestor of obj that is a link. Hidden links are skipped unless
// includeHidden is set. It returns nil if there is none.
func (s *Scene) EffectiveParent(obj *Object, includeHidden bool) *Object {
	for parent := s.ParentOf(obj); parent != nil; parent = s.ParentOf(parent) {
		if parent.PhobosType == LinkType && (includeHidden || !parent.Hidden) {
			return parent
		}
	}
	return nil
}

// ObjectByProperty returns the first object whose property key equals value.
func (s *Scene) ObjectByProperty(key string, value interface{}) *Object {
	o, _ := lo.Find(s.Objects, func(o *Object) bool {
		v, ok := o.Properties[key]
		return ok && propertyEqual(v, value)
	})
	return o
}

// propertyEqual compares scalars by their string form so that 2 and 2.0 from a decoded file match.
func propertyEqual(a, b interface{}) bool {
	as, errA := cast.ToStringE(a)
	bs, errB := cast.ToStringE(b)
	if errA == nil && errB == nil {
		return as == bs
	}
	return reflect.DeepEqual(a, b)
}

// ObjectsOfType returns the objects with the given role in insertion order.
func (s *Scene) ObjectsOfType(t PhobosType) []*Object {
	return lo.Filter(s.Objects, func(o *Object, _ int) bool {
		return o.PhobosType == t
	})
}

// SetParent attaches child to parent, keeping the child's world transform. A nil parent detaches it.
func (s *Scene) SetParent(child, parent *Object, parentType ParentType) error {
	if parent == nil {
		child.Parent = ""
		child.ParentType = ""
		return nil
	}
	for p := parent; p != nil; p = s.ParentOf(p) {
		if p == child {
			return errors.Errorf("cannot parent %q to its own descendant %q", child.Name, parent.Name)
		}
	}
	if parentType == "" {
		parentType = ObjectParent
	}
	child.Parent = parent.Name
	child.ParentType = parentType
	return nil
}

// MatrixLocal returns the object's transform relative to its parent.
func (s *Scene) MatrixLocal(obj *Object) mgl64.Mat4 {
	parent := s.ParentOf(obj)
	if parent == nil {
		return obj.MatrixWorld
	}
	return parent.MatrixWorld.Inv().Mul4(obj.MatrixWorld)
}

// SetMatrixLocal places obj at local relative to its parent. Descendants move along.
func (s *Scene) SetMatrixLocal(obj *Object, local mgl64.Mat4) {
	world := local
	if parent := s.ParentOf(obj); parent != nil {
		world = parent.MatrixWorld.Mul4(local)
	}
	s.SetMatrixWorld(obj, world)
}

// SetMatrixWorld places obj at world. Descendants keep their transform relative to obj.
func (s *Scene) SetMatrixWorld(obj *Object, world mgl64.Mat4) {
	delta := world.Mul4(obj.MatrixWorld.Inv())
	obj.MatrixWorld = world
	descendants := s.Children(obj, false, true)[1:]
	for _, d := range descendants {
		d.MatrixWorld = delta.Mul4(d.MatrixWorld)
	}
}

// Validate checks that names are unique and that every parent reference resolves without cycles.
func (s *Scene) Validate() error {
	seen := map[string]bool{}
	for _, o := range s.Objects {
		if o.Name == "" {
			return errors.New("scene contains an object without a name")
		}
		if seen[o.Name] {
			return errors.Errorf("duplicate object name %q", o.Name)
		}
		seen[o.Name] = true
	}
	s.byName = nil
	for _, o := range s.Objects {
		if o.Parent == "" {
			continue
		}
		if !seen[o.Parent] {
			return errors.Wrapf(NewObjectNotFoundError(o.Parent), "parent of %q", o.Name)
		}
		steps := 0
		for p := s.ParentOf(o); p != nil; p = s.ParentOf(p) {
			if steps++; steps > len(s.Objects) {
				return errors.Errorf("object %q is part of a parenting cycle", o.Name)
			}
		}
	}
	return nil
}
