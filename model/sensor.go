package model

import (
	"strings"

	"github.com/dfki-ric/phobos/annotation"
)

// Default head-up display size of a camera sensor.
const (
	DefaultHudHeight = 240
	DefaultHudWidth  = 0
)

// SensorReference is an entity a sensor type refers to.
type SensorReference int

// The references a sensor type can declare.
const (
	LinkReference SensorReference = 1 << iota
	JointReference
	FrameReference
)

// sensorReferences declares, per sensor type, which of link, joint and frame the sensor refers to.
var sensorReferences = map[string]SensorReference{
	"CameraSensor":      LinkReference,
	"RaySensor":         LinkReference,
	"RotatingRaySensor": LinkReference,
	"IMU":               LinkReference | FrameReference,
	"Joint6DOF":         LinkReference,
	"NodeContact":       LinkReference,
	"NodeContactForce":  LinkReference,
	"NodeCOM":           LinkReference,
	"NodePosition":      LinkReference | FrameReference,
	"NodeRotation":      LinkReference | FrameReference,
	"NodeVelocity":      LinkReference | FrameReference,
	"JointPosition":     JointReference,
	"JointVelocity":     JointReference,
	"JointLoad":         JointReference,
	"MotorCurrent":      JointReference,
}

// SensorReferences returns the references declared by a sensor type. The second return is false for
// unknown types.
func SensorReferences(sensorType string) (SensorReference, bool) {
	refs, ok := sensorReferences[sensorType]
	return refs, ok
}

// IsCameraSensor reports whether the type names a camera, in any capitalization.
func IsCameraSensor(sensorType string) bool {
	upper := strings.ToUpper(sensorType)
	return upper == "CAMERASENSOR" || upper == "CAMERA"
}

// Sensor is a measuring device attached to a link, joint or frame.
type Sensor struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Link        string         `json:"link,omitempty"`
	Joint       string         `json:"joint,omitempty"`
	Frame       string         `json:"frame,omitempty"`
	Origin      *Pose          `json:"origin,omitempty"`
	HudHeight   int            `json:"hud_height,omitempty"`
	HudWidth    int            `json:"hud_width,omitempty"`
	Annotations annotation.Bag `json:"annotations,omitempty"`
}
