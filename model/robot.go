package model

import (
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/dfki-ric/phobos/annotation"
)

// Robot is a complete robot model.
type Robot struct {
	Name          string                      `json:"name"`
	Description   string                      `json:"description,omitempty"`
	Links         []*Link                     `json:"links"`
	Joints        []*Joint                    `json:"joints"`
	Sensors       []*Sensor                   `json:"sensors,omitempty"`
	Motors        []*Motor                    `json:"motors,omitempty"`
	Interfaces    []*Interface                `json:"interfaces,omitempty"`
	Poses         []*JointPoseSet             `json:"poses,omitempty"`
	Submechanisms []*Submechanism             `json:"submechanisms,omitempty"`
	Annotations   map[string][]annotation.Bag `json:"annotations,omitempty"`
}

// NewRobot returns an empty robot with the given name.
func NewRobot(name string) *Robot {
	return &Robot{Name: name}
}

// Link returns the link with the given name.
func (r *Robot) Link(name string) (*Link, error) {
	for _, l := range r.Links {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, NewLinkNotFoundError(name)
}

// Joint returns the joint with the given name.
func (r *Robot) Joint(name string) (*Joint, error) {
	for _, j := range r.Joints {
		if j.Name == name {
			return j, nil
		}
	}
	return nil, NewJointNotFoundError(name)
}

// JointByChild returns the joint whose child is the named link, or nil for the root.
func (r *Robot) JointByChild(link string) *Joint {
	for _, j := range r.Joints {
		if j.Child == link {
			return j
		}
	}
	return nil
}

// ChildJoints returns the joints whose parent is the named link, in model order.
func (r *Robot) ChildJoints(link string) []*Joint {
	var children []*Joint
	for _, j := range r.Joints {
		if j.Parent == link {
			children = append(children, j)
		}
	}
	return children
}

// Root returns the single link that is no joint's child.
func (r *Robot) Root() (*Link, error) {
	var roots []*Link
	for _, l := range r.Links {
		if r.JointByChild(l.Name) == nil {
			roots = append(roots, l)
		}
	}
	switch len(roots) {
	case 1:
		return roots[0], nil
	case 0:
		return nil, errors.Errorf("robot %q has no root link", r.Name)
	default:
		names := make([]string, 0, len(roots))
		for _, l := range roots {
			names = append(names, l.Name)
		}
		return nil, errors.Errorf("robot %q has more than one root link: %v", r.Name, names)
	}
}

// AddMotor adds a motor and attaches its name to the joint it drives.
func (r *Robot) AddMotor(m *Motor) error {
	j, err := r.Joint(m.Joint)
	if err != nil {
		return errors.Wrapf(err, "cannot add motor %q", m.Name)
	}
	j.Motor = m.Name
	r.Motors = append(r.Motors, m)
	return nil
}

// AddInterface adds an interface.
func (r *Robot) AddInterface(i *Interface) {
	r.Interfaces = append(r.Interfaces, i)
}

// AddPose adds a named joint configuration. Configurations sharing a name are merged.
func (r *Robot) AddPose(p *JointPoseSet) {
	for _, existing := range r.Poses {
		if existing.Name == p.Name {
			if existing.Configuration == nil {
				existing.Configuration = map[string]float64{}
			}
			for k, v := range p.Configuration {
				existing.Configuration[k] = v
			}
			return
		}
	}
	r.Poses = append(r.Poses, p)
}

// AddSubmechanism adds a submechanism.
func (r *Robot) AddSubmechanism(s *Submechanism) {
	r.Submechanisms = append(r.Submechanisms, s)
}

// AddSensor adds a sensor.
func (r *Robot) AddSensor(s *Sensor) {
	r.Sensors = append(r.Sensors, s)
}

// AddCategorizedAnnotation files an annotation bag under a category.
func (r *Robot) AddCategorizedAnnotation(category string, bag annotation.Bag) {
	if r.Annotations == nil {
		r.Annotations = map[string][]annotation.Bag{}
	}
	r.Annotations[category] = append(r.Annotations[category], bag)
}

// Categories returns the annotation categories in sorted order.
func (r *Robot) Categories() []string {
	categories := make([]string, 0, len(r.Annotations))
	for c := range r.Annotations {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Validate checks the structural consistency of the model and returns every problem found.
func (r *Robot) Validate() error {
	var err error
	links := map[string]bool{}
	for _, l := range r.Links {
		if links[l.Name] {
			err = multierr.Append(err, NewDuplicateNameError("link", l.Name))
		}
		links[l.Name] = true
		if l.Inertial != nil && l.Inertial.Mass < 0 {
			err = multierr.Append(err, errors.Errorf("link %q has negative mass %g", l.Name, l.Inertial.Mass))
		}
		for _, g := range l.Geometries() {
			if gErr := g.Validate(); gErr != nil {
				err = multierr.Append(err, errors.Wrapf(gErr, "link %q", l.Name))
			}
		}
	}

	joints := map[string]bool{}
	children := map[string]string{}
	for _, j := range r.Joints {
		if joints[j.Name] {
			err = multierr.Append(err, NewDuplicateNameError("joint", j.Name))
		}
		joints[j.Name] = true
		if !j.Type.IsValid() {
			err = multierr.Append(err, NewUnsupportedJointTypeError(string(j.Type)))
		}
		if j.Parent == j.Child {
			err = multierr.Append(err, errors.Errorf("joint %q has link %q as both parent and child", j.Name, j.Parent))
		}
		if !links[j.Parent] {
			err = multierr.Append(err, errors.Wrapf(NewLinkNotFoundError(j.Parent), "parent of joint %q", j.Name))
		}
		if !links[j.Child] {
			err = multierr.Append(err, errors.Wrapf(NewLinkNotFoundError(j.Child), "child of joint %q", j.Name))
		}
		if other, ok := children[j.Child]; ok {
			err = multierr.Append(err, errors.Errorf("link %q is the child of both %q and %q", j.Child, other, j.Name))
		}
		children[j.Child] = j.Name
		if j.Type.RequiresAxis() && j.Axis == nil {
			err = multierr.Append(err, errors.Errorf("joint %q of type %s needs an axis", j.Name, j.Type))
		}
		if !j.Type.RequiresAxis() && j.Axis != nil {
			err = multierr.Append(err, errors.Errorf("joint %q of type %s must not have an axis", j.Name, j.Type))
		}
	}
	for _, j := range r.Joints {
		if j.Mimic != nil && !joints[j.Mimic.Joint] {
			err = multierr.Append(err, errors.Wrapf(NewJointNotFoundError(j.Mimic.Joint), "mimic of joint %q", j.Name))
		}
	}

	for _, s := range r.Sensors {
		if s.Link != "" && !links[s.Link] {
			err = multierr.Append(err, errors.Wrapf(NewLinkNotFoundError(s.Link), "sensor %q", s.Name))
		}
		if s.Joint != "" && !joints[s.Joint] {
			err = multierr.Append(err, errors.Wrapf(NewJointNotFoundError(s.Joint), "sensor %q", s.Name))
		}
	}
	for _, m := range r.Motors {
		if !joints[m.Joint] {
			err = multierr.Append(err, errors.Wrapf(NewJointNotFoundError(m.Joint), "motor %q", m.Name))
		}
	}
	for _, i := range r.Interfaces {
		if !links[i.Parent] {
			err = multierr.Append(err, errors.Wrapf(NewLinkNotFoundError(i.Parent), "interface %q", i.Name))
		}
	}
	return err
}
