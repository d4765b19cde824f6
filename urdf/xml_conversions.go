package urdf

import (
	"encoding/xml"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/dfki-ric/phobos/inertia"
	"github.com/dfki-ric/phobos/model"
)

type frame struct {
	Link string `xml:"link,attr"`
}

type limit struct {
	XMLName  xml.Name `xml:"limit"`
	Lower    *float64 `xml:"lower,attr"` // translation limits are in meters, revolute limits are in radians
	Upper    *float64 `xml:"upper,attr"`
	Effort   *float64 `xml:"effort,attr"`
	Velocity *float64 `xml:"velocity,attr"`
}

type dynamics struct {
	XMLName  xml.Name `xml:"dynamics"`
	Damping  *float64 `xml:"damping,attr"`
	Friction *float64 `xml:"friction,attr"`
}

type mimic struct {
	XMLName    xml.Name `xml:"mimic"`
	Joint      string   `xml:"joint,attr"`
	Multiplier *float64 `xml:"multiplier,attr"`
	Offset     *float64 `xml:"offset,attr"`
}

type axis struct {
	XMLName xml.Name `xml:"axis"`
	XYZ     string   `xml:"xyz,attr"` // "x y z" format
}

func defaultAxis() *r3.Vector {
	return &r3.Vector{X: 1}
}

func (a *axis) parse() (r3.Vector, error) {
	v, err := spaceDelimitedStringToFloatSlice(a.XYZ, 3)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

type pose struct {
	XMLName xml.Name `xml:"origin"`
	RPY     string   `xml:"rpy,attr,omitempty"` // fixed frame angle "r p y" format, in radians
	XYZ     string   `xml:"xyz,attr,omitempty"` // "x y z" format, in meters
}

func newPose(p model.Pose) *pose {
	if p.IsIdentity() {
		return nil
	}
	return &pose{
		XYZ: formatFloats(p.XYZ[:]...),
		RPY: formatFloats(p.RPY[:]...),
	}
}

// parse returns the pose, the identity for a missing origin or attribute.
func (p *pose) parse() (model.Pose, error) {
	var out model.Pose
	if p == nil {
		return out, nil
	}
	if p.XYZ != "" {
		xyz, err := spaceDelimitedStringToFloatSlice(p.XYZ, 3)
		if err != nil {
			return out, err
		}
		copy(out.XYZ[:], xyz)
	}
	if p.RPY != "" {
		rpy, err := spaceDelimitedStringToFloatSlice(p.RPY, 3)
		if err != nil {
			return out, err
		}
		copy(out.RPY[:], rpy)
	}
	return out, nil
}

type mass struct {
	Value float64 `xml:"value,attr"`
}

type inertiaTensor struct {
	Ixx float64 `xml:"ixx,attr"`
	Ixy float64 `xml:"ixy,attr"`
	Ixz float64 `xml:"ixz,attr"`
	Iyy float64 `xml:"iyy,attr"`
	Iyz float64 `xml:"iyz,attr"`
	Izz float64 `xml:"izz,attr"`
}

func newInertiaTensor(i inertia.Inertia) *inertiaTensor {
	return &inertiaTensor{Ixx: i.Ixx, Ixy: i.Ixy, Ixz: i.Ixz, Iyy: i.Iyy, Iyz: i.Iyz, Izz: i.Izz}
}

type inertial struct {
	XMLName xml.Name       `xml:"inertial"`
	Origin  *pose          `xml:"origin,omitempty"`
	Mass    mass           `xml:"mass"`
	Inertia *inertiaTensor `xml:"inertia,omitempty"`
}

type box struct {
	XMLName xml.Name `xml:"box"`
	Size    string   `xml:"size,attr"` // "x y z" format, in meters
}

type cylinder struct {
	XMLName xml.Name `xml:"cylinder"`
	Radius  float64  `xml:"radius,attr"`
	Length  float64  `xml:"length,attr"`
}

type sphere struct {
	XMLName xml.Name `xml:"sphere"`
	Radius  float64  `xml:"radius,attr"` // in meters
}

type mesh struct {
	XMLName  xml.Name `xml:"mesh"`
	Filename string   `xml:"filename,attr"`
	Scale    string   `xml:"scale,attr,omitempty"`
}

type geometry struct {
	XMLName  xml.Name  `xml:"geometry"`
	Box      *box      `xml:"box,omitempty"`
	Cylinder *cylinder `xml:"cylinder,omitempty"`
	Sphere   *sphere   `xml:"sphere,omitempty"`
	Mesh     *mesh     `xml:"mesh,omitempty"`
}

func newGeometry(g model.Geometry) (geometry, error) {
	var out geometry
	switch g.Type {
	case model.BoxType:
		out.Box = &box{Size: formatFloats(g.Size.X, g.Size.Y, g.Size.Z)}
	case model.CylinderType:
		out.Cylinder = &cylinder{Radius: g.Radius, Length: g.Length}
	case model.SphereType:
		out.Sphere = &sphere{Radius: g.Radius}
	case model.MeshType:
		filename := g.Filename
		if filename == "" {
			filename = g.MeshName
		}
		if filename == "" {
			return out, errors.New("mesh geometry must have a filename or mesh name to be serialized to URDF")
		}
		out.Mesh = &mesh{Filename: filename}
		if g.Scale != (r3.Vector{}) && g.Scale != (r3.Vector{X: 1, Y: 1, Z: 1}) {
			out.Mesh.Scale = formatFloats(g.Scale.X, g.Scale.Y, g.Scale.Z)
		}
	default:
		return out, model.NewUnsupportedGeometryTypeError(string(g.Type))
	}
	return out, nil
}

func (g *geometry) parse() (model.Geometry, error) {
	switch {
	case g.Box != nil:
		dims, err := spaceDelimitedStringToFloatSlice(g.Box.Size, 3)
		if err != nil {
			return model.Geometry{}, err
		}
		return model.Geometry{Type: model.BoxType, Size: r3.Vector{X: dims[0], Y: dims[1], Z: dims[2]}}, nil
	case g.Cylinder != nil:
		return model.Geometry{Type: model.CylinderType, Radius: g.Cylinder.Radius, Length: g.Cylinder.Length}, nil
	case g.Sphere != nil:
		return model.Geometry{Type: model.SphereType, Radius: g.Sphere.Radius}, nil
	case g.Mesh != nil:
		out := model.Geometry{
			Type:     model.MeshType,
			Filename: g.Mesh.Filename,
			MeshName: strings.TrimSuffix(filepath.Base(g.Mesh.Filename), filepath.Ext(g.Mesh.Filename)),
			Scale:    r3.Vector{X: 1, Y: 1, Z: 1},
		}
		if g.Mesh.Scale != "" {
			scale, err := spaceDelimitedStringToFloatSlice(g.Mesh.Scale, 3)
			if err != nil {
				return model.Geometry{}, err
			}
			out.Scale = r3.Vector{X: scale[0], Y: scale[1], Z: scale[2]}
		}
		return out, nil
	default:
		return model.Geometry{}, errors.New("couldn't parse xml: no geometry defined")
	}
}

type color struct {
	RGBA string `xml:"rgba,attr"`
}

type texture struct {
	Filename string `xml:"filename,attr"`
}

type material struct {
	XMLName xml.Name `xml:"material"`
	Name    string   `xml:"name,attr"`
	Color   *color   `xml:"color,omitempty"`
	Texture *texture `xml:"texture,omitempty"`
}

func newMaterial(m *model.Material) *material {
	out := &material{Name: m.Name}
	if m.Diffuse != nil {
		out.Color = &color{RGBA: formatFloats(m.Diffuse[:]...)}
	}
	if m.DiffuseTexture != nil {
		out.Texture = &texture{Filename: m.DiffuseTexture.Image}
	}
	return out
}

func (m *material) parse() (*model.Material, error) {
	out := &model.Material{Name: m.Name}
	if m.Color != nil {
		rgba, err := spaceDelimitedStringToFloatSlice(m.Color.RGBA, 4)
		if err != nil {
			return nil, errors.Wrapf(err, "color of material %q", m.Name)
		}
		out.Diffuse = &model.Color{rgba[0], rgba[1], rgba[2], rgba[3]}
	}
	if m.Texture != nil {
		out.DiffuseTexture = &model.Texture{Image: m.Texture.Filename}
	}
	return out, nil
}

type visual struct {
	XMLName  xml.Name  `xml:"visual"`
	Name     string    `xml:"name,attr,omitempty"`
	Origin   *pose     `xml:"origin,omitempty"`
	Geometry geometry  `xml:"geometry"`
	Material *material `xml:"material,omitempty"`
}

func newVisual(v model.Visual) (*visual, error) {
	geom, err := newGeometry(v.Geometry)
	if err != nil {
		return nil, errors.Wrapf(err, "visual %q", v.Name)
	}
	out := &visual{Name: v.Name, Origin: newPose(v.Origin), Geometry: geom}
	if v.Material != nil {
		if v.Material.Name != "" {
			// defined once at the robot level
			out.Material = &material{Name: v.Material.Name}
		} else {
			out.Material = newMaterial(v.Material)
		}
	}
	return out, nil
}

// parse resolves a material reference through the robot level materials. Inline definitions win.
func (v *visual) parse(materials map[string]*material) (*model.Visual, error) {
	geom, err := v.Geometry.parse()
	if err != nil {
		return nil, err
	}
	origin, err := v.Origin.parse()
	if err != nil {
		return nil, err
	}
	out := &model.Visual{Name: v.Name, Geometry: geom, Origin: origin}
	if v.Material == nil {
		return out, nil
	}
	def := v.Material
	if def.Color == nil && def.Texture == nil {
		if global, ok := materials[def.Name]; ok {
			def = global
		}
	}
	if out.Material, err = def.parse(); err != nil {
		return nil, err
	}
	return out, nil
}

type collision struct {
	XMLName  xml.Name `xml:"collision"`
	Name     string   `xml:"name,attr,omitempty"`
	Origin   *pose    `xml:"origin,omitempty"`
	Geometry geometry `xml:"geometry"`
}

func newCollision(c model.Collision) (*collision, error) {
	geom, err := newGeometry(c.Geometry)
	if err != nil {
		return nil, errors.Wrapf(err, "collision %q", c.Name)
	}
	return &collision{Name: c.Name, Origin: newPose(c.Origin), Geometry: geom}, nil
}

func (c *collision) parse() (*model.Collision, error) {
	geom, err := c.Geometry.parse()
	if err != nil {
		return nil, err
	}
	origin, err := c.Origin.parse()
	if err != nil {
		return nil, err
	}
	return &model.Collision{Name: c.Name, Geometry: geom, Origin: origin}, nil
}

// formatFloats joins the shortest representation of each value with spaces.
func formatFloats(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// spaceDelimitedStringToFloatSlice splits up a space-delimited field and converts it to n floats.
func spaceDelimitedStringToFloatSlice(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, errors.Errorf("expected %d space separated values, got %q", n, s)
	}
	converted := make([]float64, 0, n)
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value in %q", s)
		}
		converted = append(converted, value)
	}
	return converted, nil
}
