package defold

// Model binds a mesh to a material and its resolved textures.
type Model struct {
	name     string
	mesh     string
	material string
	textures []string
}

// Name returns the model name (the node name).
func (m *Model) Name() string { return m.name }

// MeshPath returns the referenced mesh path.
func (m *Model) MeshPath() string { return m.mesh }

// MaterialPath returns the referenced material path.
func (m *Model) MaterialPath() string { return m.material }

// Textures returns texture paths in the material's sampler order.
func (m *Model) Textures() []string {
	return append([]string(nil), m.textures...)
}

// newModel resolves one texture path per material slot, substituting the
// fallback path for empty slots.
func newModel(name string, mat *Material, r *Resolver) *Model {
	textures := make([]string, len(mat.slots))
	for i, s := range mat.slots {
		textures[i] = r.TexturePath(s.Texture)
	}

	return &Model{
		name:     name,
		mesh:     r.MeshPath(name),
		material: r.MaterialPath(mat.name),
		textures: textures,
	}
}

// Document builds the text tree of the model.
func (m *Model) Document() *Document {
	d := NewDocument().
		String("mesh", m.mesh).
		String("material", m.material)
	for _, t := range m.textures {
		d.String("textures", t)
	}

	return d.
		String("skeleton", "").
		String("animations", "").
		String("default_animation", "").
		String("name", m.name)
}

// MarshalText renders the model with default formatting.
func (m *Model) MarshalText() ([]byte, error) {
	return Format(m.Document(), nil)
}
