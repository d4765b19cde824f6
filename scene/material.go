package scene

// Names of the shader nodes the derive package reads.
const (
	PrincipledBSDF = "Principled BSDF"
	SpecularBSDF   = "Specular BSDF"
	ImageTexture   = "Image Texture"
	NormalMap      = "Normal Map"
)

// Material is a host material. Nodes are only meaningful when UseNodes is set.
type Material struct {
	Name          string       `json:"name"`
	UseNodes      bool         `json:"use_nodes,omitempty"`
	DiffuseColor  [4]float64   `json:"diffuse_color"`
	SpecularColor [3]float64   `json:"specular_color"`
	Roughness     float64      `json:"roughness"`
	Nodes         []ShaderNode `json:"nodes,omitempty"`
}

// ShaderNode is one node of a material's shader graph. LinkedNode and LinkedSocket name the node and input
// socket the node's first output feeds.
type ShaderNode struct {
	Name         string                 `json:"name"`
	Inputs       map[string]interface{} `json:"inputs,omitempty"`
	Image        string                 `json:"image,omitempty"`
	LinkedNode   string                 `json:"linked_node,omitempty"`
	LinkedSocket string                 `json:"linked_socket,omitempty"`
}

// Node returns the node with the given name, or nil.
func (m *Material) Node(name string) *ShaderNode {
	for i := range m.Nodes {
		if m.Nodes[i].Name == name {
			return &m.Nodes[i]
		}
	}
	return nil
}
