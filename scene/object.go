package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// PhobosType is the role of an object in the robot model.
type PhobosType string

// The object roles understood by the derive and create packages.
const (
	LinkType         PhobosType = "link"
	VisualType       PhobosType = "visual"
	CollisionType    PhobosType = "collision"
	InertialType     PhobosType = "inertial"
	SensorType       PhobosType = "sensor"
	MotorType        PhobosType = "motor"
	InterfaceType    PhobosType = "interface"
	AnnotationType   PhobosType = "annotation"
	SubmechanismType PhobosType = "submechanism"
	UndefinedType    PhobosType = "undefined"
)

// ParentType is how an object is attached to its parent.
type ParentType string

// The parenting modes.
const (
	ObjectParent       ParentType = "object"
	BoneRelativeParent ParentType = "bone_relative"
)

// CollisionCollectionCount is the number of collision collections the host provides.
const CollisionCollectionCount = 20

// Object is a node of the scene graph.
type Object struct {
	Name       string     `json:"name"`
	PhobosType PhobosType `json:"phobostype"`
	Parent     string     `json:"parent,omitempty"`
	ParentType ParentType `json:"parent_type,omitempty"`
	// MatrixWorld is the column-major world transform, including scale.
	MatrixWorld          mgl64.Mat4 `json:"matrix_world"`
	Dimensions           r3.Vector  `json:"dimensions"`
	Properties           Properties `json:"properties,omitempty"`
	Material             *Material  `json:"material,omitempty"`
	MeshName             string     `json:"mesh,omitempty"`
	Hidden               bool       `json:"hidden,omitempty"`
	Selected             bool       `json:"selected,omitempty"`
	CollisionCollections []bool     `json:"collision_collections,omitempty"`
}

// NewObject returns an object with an identity world transform and empty properties.
func NewObject(name string, phobosType PhobosType) *Object {
	return &Object{
		Name:        name,
		PhobosType:  phobosType,
		MatrixWorld: mgl64.Ident4(),
		Properties:  Properties{},
	}
}

// IsType reports whether the object has one of the given roles.
func (o *Object) IsType(types ...PhobosType) bool {
	for _, t := range types {
		if o.PhobosType == t {
			return true
		}
	}
	return false
}

// SetProperty sets a custom property, allocating the map if needed.
func (o *Object) SetProperty(key string, value interface{}) {
	if o.Properties == nil {
		o.Properties = Properties{}
	}
	o.Properties[key] = value
}
