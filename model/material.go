package model

// Color is an RGBA color with components in [0, 1].
type Color [4]float64

// Texture references an image used by a material.
type Texture struct {
	Image string `json:"image"`
}

// Material is the appearance of a visual element.
type Material struct {
	Name           string   `json:"name"`
	Diffuse        *Color   `json:"diffuse,omitempty"`
	Specular       *Color   `json:"specular,omitempty"`
	Emissive       *Color   `json:"emissive,omitempty"`
	Shininess      *float64 `json:"shininess,omitempty"`
	Transparency   *float64 `json:"transparency,omitempty"`
	DiffuseTexture *Texture `json:"diffuse_texture,omitempty"`
	NormalTexture  *Texture `json:"normal_texture,omitempty"`
}
