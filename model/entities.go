package model

import (
	"github.com/dfki-ric/phobos/annotation"
)

// Motor drives a joint.
type Motor struct {
	Name        string         `json:"name"`
	Joint       string         `json:"joint"`
	Annotations annotation.Bag `json:"annotations,omitempty"`
}

// Interface is a mechanical or electrical connection point on a link.
type Interface struct {
	Name        string         `json:"name"`
	Origin      Pose           `json:"origin"`
	Parent      string         `json:"parent"`
	Type        string         `json:"type"`
	Direction   string         `json:"direction"`
	Annotations annotation.Bag `json:"annotations,omitempty"`
}

// JointPoseSet is a named configuration of joint positions.
type JointPoseSet struct {
	Name          string             `json:"name"`
	Configuration map[string]float64 `json:"configuration"`
}

// Submechanism groups joints that form a known kinematic structure (e.g. a parallel linkage).
// Joints holds list valued roles, NamedJoints the roles mapping names to joints.
type Submechanism struct {
	Name        string                       `json:"name,omitempty"`
	Type        string                       `json:"type"`
	Subtype     string                       `json:"subtype"`
	Joints      map[string][]string          `json:"joints,omitempty"`
	NamedJoints map[string]map[string]string `json:"named_joints,omitempty"`
	Annotations annotation.Bag               `json:"annotations,omitempty"`
}

// GenericAnnotation is free-form data attached to a model entity, filed under a category.
type GenericAnnotation struct {
	Category   string         `json:"category"`
	Name       string         `json:"name,omitempty"`
	Parent     string         `json:"parent"`
	ParentType string         `json:"parent_type"`
	Transform  Pose           `json:"transform"`
	Properties annotation.Bag `json:"properties,omitempty"`
}

// Bag returns the annotation in the form stored on a robot's categorized annotations.
func (a GenericAnnotation) Bag() annotation.Bag {
	bag := annotation.Bag{}
	for k, v := range a.Properties {
		bag[k] = v
	}
	if a.Name != "" {
		bag["$name"] = a.Name
	}
	bag["$parent"] = a.Parent
	bag["$parent_type"] = a.ParentType
	bag["$transform"] = a.Transform
	return bag
}
