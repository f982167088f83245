package defold

// Scene is the read-only scene description the builder consumes.
// Index fields refer to positions in the sibling tables.
type Scene struct {
	Images    []Image         `json:"images,omitempty" yaml:"images,omitempty"`       // Image table
	Materials []SceneMaterial `json:"materials,omitempty" yaml:"materials,omitempty"` // Material table
	Nodes     []Node          `json:"nodes,omitempty" yaml:"nodes,omitempty"`         // Nodes in traversal order
	Meshes    []Mesh          `json:"meshes,omitempty" yaml:"meshes,omitempty"`       // Mesh table
}

// Image is a scene image; only its name reaches the asset graph.
type Image struct {
	Name string `json:"name" yaml:"name"` // Unique image name
}

// SceneMaterial is a PBR material with optional image indices per slot.
type SceneMaterial struct {
	Name              string      `json:"name" yaml:"name"`                                               // Unique material name
	BaseColor         *int        `json:"baseColor,omitempty" yaml:"baseColor,omitempty"`                 // Base color image
	MetallicRoughness *int        `json:"metallicRoughness,omitempty" yaml:"metallicRoughness,omitempty"` // Metallic-roughness image
	Normal            *int        `json:"normal,omitempty" yaml:"normal,omitempty"`                       // Normal map image
	Occlusion         *int        `json:"occlusion,omitempty" yaml:"occlusion,omitempty"`                 // Occlusion image
	Emissive          *int        `json:"emissive,omitempty" yaml:"emissive,omitempty"`                   // Emissive image
	BaseColorFactor   *[4]float64 `json:"baseColorFactor,omitempty" yaml:"baseColorFactor,omitempty"`     // Base color factor, RGBA
}

// Node is a scene node owning one mesh.
type Node struct {
	Name   string `json:"name" yaml:"name"`                         // Unique node name
	Mesh   int    `json:"mesh" yaml:"mesh"`                         // Mesh index
	Source *int   `json:"source,omitempty" yaml:"source,omitempty"` // Index in the source document, when it differs from the position in Nodes
}

// Mesh is a scene mesh.
type Mesh struct {
	Primitives []Primitive `json:"primitives" yaml:"primitives"` // Exactly one primitive is supported
}

// Primitive is a mesh primitive drawn with one material.
type Primitive struct {
	Material int `json:"material" yaml:"material"` // Material index; negative when the primitive has none
}

// Index returns a pointer to i for optional index fields.
func Index(i int) *int {
	return &i
}
