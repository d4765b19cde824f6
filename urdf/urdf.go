// Package urdf reads and writes robot models in the Unified Robot Description Format.
package urdf

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/inertia"
	"github.com/dfki-ric/phobos/model"
)

// Extension is the file extension associated with URDF files.
const Extension string = "urdf"

// ModelConfig represents all supported fields in a URDF file.
type ModelConfig struct {
	XMLName   xml.Name   `xml:"robot"`
	Name      string     `xml:"name,attr"`
	Materials []material `xml:"material"`
	Links     []link     `xml:"link"`
	Joints    []joint    `xml:"joint"`
}

// link is a struct which details the XML used in a URDF link element.
type link struct {
	XMLName   xml.Name    `xml:"link"`
	Name      string      `xml:"name,attr"`
	Inertial  *inertial   `xml:"inertial,omitempty"`
	Visual    []visual    `xml:"visual"`
	Collision []collision `xml:"collision"`
}

// joint is a struct which details the XML used in a URDF joint element.
type joint struct {
	XMLName  xml.Name  `xml:"joint"`
	Name     string    `xml:"name,attr"`
	Type     string    `xml:"type,attr"`
	Origin   *pose     `xml:"origin,omitempty"`
	Parent   frame     `xml:"parent"`
	Child    frame     `xml:"child"`
	Axis     *axis     `xml:"axis,omitempty"`
	Limit    *limit    `xml:"limit,omitempty"`
	Dynamics *dynamics `xml:"dynamics,omitempty"`
	Mimic    *mimic    `xml:"mimic,omitempty"`
}

// NewModelConfig converts a robot into its URDF form. Materials are collected at the robot level and
// referenced by name from the visuals using them.
func NewModelConfig(robot *model.Robot) (*ModelConfig, error) {
	mc := &ModelConfig{Name: robot.Name}
	seen := map[string]bool{}
	for _, l := range robot.Links {
		elem := link{Name: l.Name}
		if l.Inertial != nil {
			elem.Inertial = newInertial(l.Inertial)
		}
		for _, v := range l.Visuals {
			vis, err := newVisual(v)
			if err != nil {
				return nil, errors.Wrapf(err, "link %q", l.Name)
			}
			if v.Material != nil && v.Material.Name != "" && !seen[v.Material.Name] {
				seen[v.Material.Name] = true
				mc.Materials = append(mc.Materials, *newMaterial(v.Material))
			}
			elem.Visual = append(elem.Visual, *vis)
		}
		for _, c := range l.Collisions {
			col, err := newCollision(c)
			if err != nil {
				return nil, errors.Wrapf(err, "link %q", l.Name)
			}
			elem.Collision = append(elem.Collision, *col)
		}
		mc.Links = append(mc.Links, elem)
	}
	for _, j := range robot.Joints {
		if !j.Type.IsValid() {
			return nil, model.NewUnsupportedJointTypeError(string(j.Type))
		}
		mc.Joints = append(mc.Joints, newJoint(j))
	}
	return mc, nil
}

// Marshal encodes a robot as an indented URDF document.
func Marshal(robot *model.Robot) ([]byte, error) {
	mc, err := NewModelConfig(robot)
	if err != nil {
		return nil, err
	}
	out, err := xml.MarshalIndent(mc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode URDF")
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// Unmarshal decodes URDF data into a robot. The robot is named modelName, or by the document when empty.
// The result is validated before it is returned.
func Unmarshal(xmlData []byte, modelName string) (*model.Robot, error) {
	if len(xmlData) == 0 {
		return nil, errors.New("no URDF data")
	}
	urdf := &ModelConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent URDFConfig struct")
	}
	robot, err := urdf.Robot(modelName)
	if err != nil {
		return nil, err
	}
	if err := robot.Validate(); err != nil {
		return nil, errors.Wrapf(err, "URDF robot %q is invalid", robot.Name)
	}
	return robot, nil
}

// Robot converts the URDF form into a robot, without validating it.
func (mc *ModelConfig) Robot(modelName string) (*model.Robot, error) {
	if modelName == "" {
		modelName = mc.Name
	}
	robot := model.NewRobot(modelName)

	materials := map[string]*material{}
	for i := range mc.Materials {
		materials[mc.Materials[i].Name] = &mc.Materials[i]
	}

	for _, linkElem := range mc.Links {
		l := &model.Link{Name: linkElem.Name}
		if linkElem.Inertial != nil {
			in, err := linkElem.Inertial.parse()
			if err != nil {
				return nil, errors.Wrapf(err, "inertial of link %q", linkElem.Name)
			}
			l.Inertial = in
		}
		for i, v := range linkElem.Visual {
			vis, err := v.parse(materials)
			if err != nil {
				return nil, errors.Wrapf(err, "visual of link %q", linkElem.Name)
			}
			if vis.Name == "" {
				vis.Name = elementName("visual", linkElem.Name, i)
			}
			l.Visuals = append(l.Visuals, *vis)
		}
		for i, c := range linkElem.Collision {
			col, err := c.parse()
			if err != nil {
				return nil, errors.Wrapf(err, "collision of link %q", linkElem.Name)
			}
			if col.Name == "" {
				col.Name = elementName("collision", linkElem.Name, i)
			}
			l.Collisions = append(l.Collisions, *col)
		}
		robot.Links = append(robot.Links, l)
	}

	for _, jointElem := range mc.Joints {
		j, err := jointElem.parse()
		if err != nil {
			return nil, err
		}
		robot.Joints = append(robot.Joints, j)
	}
	return robot, nil
}

// elementName names an unnamed element after its link, numbering all but the first.
func elementName(kind, linkName string, idx int) string {
	if idx == 0 {
		return kind + "_" + linkName
	}
	return kind + "_" + linkName + "_" + strconv.Itoa(idx)
}

// ReadFile reads a URDF file into a robot.
func ReadFile(filename, modelName string) (*model.Robot, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return Unmarshal(xmlData, modelName)
}

// WriteFile writes a robot to a URDF file. The extension is added when missing.
func WriteFile(filename string, robot *model.Robot) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), "."+Extension) {
		filename += "." + Extension
	}
	data, err := Marshal(robot)
	if err != nil {
		return "", err
	}
	//nolint:gosec
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write URDF file")
	}
	return filename, nil
}

func newInertial(in *model.Inertial) *inertial {
	out := &inertial{Origin: newPose(in.Origin), Mass: mass{Value: in.Mass}}
	if in.Inertia != nil {
		out.Inertia = newInertiaTensor(*in.Inertia)
	}
	return out
}

func (in *inertial) parse() (*model.Inertial, error) {
	origin, err := in.Origin.parse()
	if err != nil {
		return nil, err
	}
	out := &model.Inertial{Mass: in.Mass.Value, Origin: origin}
	if in.Inertia != nil {
		tensor := inertia.Inertia{
			Ixx: in.Inertia.Ixx, Ixy: in.Inertia.Ixy, Ixz: in.Inertia.Ixz,
			Iyy: in.Inertia.Iyy, Iyz: in.Inertia.Iyz, Izz: in.Inertia.Izz,
		}
		out.Inertia = &tensor
	}
	return out, nil
}

func newJoint(j *model.Joint) joint {
	out := joint{
		Name:   j.Name,
		Type:   string(j.Type),
		Origin: newPose(j.Origin),
		Parent: frame{j.Parent},
		Child:  frame{j.Child},
	}
	if j.Axis != nil {
		out.Axis = &axis{XYZ: formatFloats(j.Axis.X, j.Axis.Y, j.Axis.Z)}
	}
	if l := j.Limit; l != nil {
		out.Limit = &limit{Lower: l.Lower, Upper: l.Upper, Effort: l.Effort, Velocity: l.Velocity}
	}
	if d := j.Dynamics; d != nil && (d.Damping != nil || d.Friction != nil) {
		out.Dynamics = &dynamics{Damping: d.Damping, Friction: d.Friction}
	}
	if m := j.Mimic; m != nil {
		multiplier, offset := m.Multiplier, m.Offset
		out.Mimic = &mimic{Joint: m.Joint, Multiplier: &multiplier, Offset: &offset}
	}
	return out
}

func (j *joint) parse() (*model.Joint, error) {
	jointType := model.JointType(j.Type)
	if !jointType.IsValid() {
		return nil, model.NewUnsupportedJointTypeError(j.Type)
	}
	origin, err := j.Origin.parse()
	if err != nil {
		return nil, errors.Wrapf(err, "origin of joint %q", j.Name)
	}
	out := &model.Joint{
		Name:   j.Name,
		Parent: j.Parent.Link,
		Child:  j.Child.Link,
		Type:   jointType,
		Origin: origin,
	}
	switch {
	case !jointType.RequiresAxis():
		// an axis on other joint types carries no meaning
	case j.Axis != nil:
		a, err := j.Axis.parse()
		if err != nil {
			return nil, errors.Wrapf(err, "axis of joint %q", j.Name)
		}
		out.Axis = &a
	default:
		// URDF defaults to the x axis
		out.Axis = defaultAxis()
	}
	if l := j.Limit; l != nil {
		out.Limit = &model.JointLimit{Lower: l.Lower, Upper: l.Upper, Effort: l.Effort, Velocity: l.Velocity}
	}
	if d := j.Dynamics; d != nil {
		out.Dynamics = &model.JointDynamics{Damping: d.Damping, Friction: d.Friction}
	}
	if m := j.Mimic; m != nil {
		out.Mimic = &model.JointMimic{Joint: m.Joint, Multiplier: 1}
		if m.Multiplier != nil {
			out.Mimic.Multiplier = *m.Multiplier
		}
		if m.Offset != nil {
			out.Mimic.Offset = *m.Offset
		}
	}
	return out, nil
}
