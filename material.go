package defold

import (
	"fmt"
	"strings"
)

// VertexSpace is the space vertices are delivered in.
type VertexSpace string

const (
	// VertexSpaceWorld delivers vertices in world space.
	VertexSpaceWorld VertexSpace = "VERTEX_SPACE_WORLD"
	// VertexSpaceLocal delivers vertices in local space.
	VertexSpaceLocal VertexSpace = "VERTEX_SPACE_LOCAL"
)

// ShaderStage selects the program a constant belongs to.
type ShaderStage int

const (
	// StageVertex is the vertex program.
	StageVertex ShaderStage = iota
	// StageFragment is the fragment program.
	StageFragment
)

// field returns the repeated field name constants of the stage serialize into.
func (s ShaderStage) field() string {
	if s == StageFragment {
		return "fragment_constants"
	}
	return "vertex_constants"
}

// ConstantType is the type tag of a shader constant.
type ConstantType string

const (
	ConstantVec4       ConstantType = "CONSTANT_TYPE_USER"
	ConstantMat4       ConstantType = "CONSTANT_TYPE_USER_MATRIX4"
	ConstantWorldView  ConstantType = "CONSTANT_TYPE_WORLDVIEW"
	ConstantWorld      ConstantType = "CONSTANT_TYPE_WORLD"
	ConstantView       ConstantType = "CONSTANT_TYPE_VIEW"
	ConstantProjection ConstantType = "CONSTANT_TYPE_PROJECTION"
	ConstantNormal     ConstantType = "CONSTANT_TYPE_NORMAL"
)

// IsUser reports whether the type carries a literal value.
func (t ConstantType) IsUser() bool {
	return t == ConstantVec4 || t == ConstantMat4
}

// valueRows returns how many vectors a constant of this type carries.
func (t ConstantType) valueRows() int {
	switch t {
	case ConstantVec4:
		return 1
	case ConstantMat4:
		return 4
	default:
		return 0
	}
}

// known reports whether the type is one of the declared tags.
func (t ConstantType) known() bool {
	switch t {
	case ConstantVec4, ConstantMat4, ConstantWorldView, ConstantWorld, ConstantView, ConstantProjection, ConstantNormal:
		return true
	default:
		return false
	}
}

// ShaderConstant is a named program constant.
type ShaderConstant struct {
	Name  string       `json:"name" yaml:"name"`                       // Constant name
	Type  ConstantType `json:"type" yaml:"type"`                       // Type tag
	Value []Vec4       `json:"value,omitempty" yaml:"value,omitempty"` // One vector for vec4, four rows for mat4
}

// TextureSlot binds a sampler to an optional texture.
type TextureSlot struct {
	Sampler string      `json:"sampler" yaml:"sampler"`                     // Sampler name
	Texture *TextureRef `json:"texture,omitempty" yaml:"texture,omitempty"` // Nil when the scene has no texture for the slot
}

// Sampler settings written for every sampler.
const (
	samplerWrap      = "WRAP_MODE_REPEAT"
	samplerFilterMin = "FILTER_MODE_MIN_LINEAR"
	samplerFilterMag = "FILTER_MODE_MAG_LINEAR"
)

// Material is an immutable material description. Use MaterialBuilder to create one.
type Material struct {
	name              string
	vertexSpace       VertexSpace
	vertexProgram     string
	fragmentProgram   string
	vertexConstants   []ShaderConstant
	fragmentConstants []ShaderConstant
	slots             []TextureSlot
	tags              []string
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// VertexSpace returns the vertex space.
func (m *Material) VertexSpace() VertexSpace { return m.vertexSpace }

// VertexProgram returns the vertex program path.
func (m *Material) VertexProgram() string { return m.vertexProgram }

// FragmentProgram returns the fragment program path.
func (m *Material) FragmentProgram() string { return m.fragmentProgram }

// Samplers returns sampler names in declared order.
func (m *Material) Samplers() []string {
	out := make([]string, len(m.slots))
	for i, s := range m.slots {
		out[i] = s.Sampler
	}
	return out
}

// TextureSlots returns sampler/texture pairs in declared order.
func (m *Material) TextureSlots() []TextureSlot {
	out := make([]TextureSlot, len(m.slots))
	for i, s := range m.slots {
		s.Texture = s.Texture.clone()
		out[i] = s
	}
	return out
}

// Constants returns the constants of a stage in declared order.
func (m *Material) Constants(stage ShaderStage) []ShaderConstant {
	if stage == StageFragment {
		return cloneConstants(m.fragmentConstants)
	}
	return cloneConstants(m.vertexConstants)
}

// Tags returns material tags in declared order.
func (m *Material) Tags() []string {
	return append([]string(nil), m.tags...)
}

// Document builds the text tree of the material.
func (m *Material) Document() *Document {
	d := NewDocument().String("name", m.name)
	for _, tag := range m.tags {
		d.String("tags", tag)
	}
	d.String("vertex_program", m.vertexProgram)
	d.String("fragment_program", m.fragmentProgram)
	d.Ident("vertex_space", string(m.vertexSpace))

	for _, c := range m.vertexConstants {
		d.Block(StageVertex.field(), c.document())
	}
	for _, c := range m.fragmentConstants {
		d.Block(StageFragment.field(), c.document())
	}

	for _, s := range m.slots {
		d.Block("samplers", NewDocument().
			String("name", s.Sampler).
			Ident("wrap_u", samplerWrap).
			Ident("wrap_v", samplerWrap).
			Ident("filter_min", samplerFilterMin).
			Ident("filter_mag", samplerFilterMag))
	}

	return d
}

// MarshalText renders the material with default formatting.
func (m *Material) MarshalText() ([]byte, error) {
	return Format(m.Document(), nil)
}

// document renders a constant block; mat4 rows follow one another as value blocks.
func (c ShaderConstant) document() *Document {
	d := NewDocument().
		String("name", c.Name).
		Ident("type", string(c.Type))
	for _, v := range c.Value {
		d.Block("value", v.document())
	}
	return d
}

// MaterialBuilder assembles a Material. Build validates it once.
type MaterialBuilder struct {
	m Material
}

// NewMaterialBuilder starts a material with the given name.
func NewMaterialBuilder(name string) *MaterialBuilder {
	return &MaterialBuilder{m: Material{name: name, vertexSpace: VertexSpaceWorld}}
}

// SetVertexSpace sets the vertex space.
func (b *MaterialBuilder) SetVertexSpace(space VertexSpace) *MaterialBuilder {
	b.m.vertexSpace = space
	return b
}

// SetVertexProgram sets the vertex program path.
func (b *MaterialBuilder) SetVertexProgram(path string) *MaterialBuilder {
	b.m.vertexProgram = path
	return b
}

// SetFragmentProgram sets the fragment program path.
func (b *MaterialBuilder) SetFragmentProgram(path string) *MaterialBuilder {
	b.m.fragmentProgram = path
	return b
}

// AddTag appends a tag.
func (b *MaterialBuilder) AddTag(tag string) *MaterialBuilder {
	b.m.tags = append(b.m.tags, tag)
	return b
}

// AddSampler appends a sampler and its texture slot; tex may be nil.
func (b *MaterialBuilder) AddSampler(name string, tex *TextureRef) *MaterialBuilder {
	b.m.slots = append(b.m.slots, TextureSlot{Sampler: name, Texture: tex.clone()})
	return b
}

// AddConstant appends a constant to a stage. Built-in types take no value,
// vec4 takes one vector and mat4 takes four rows.
func (b *MaterialBuilder) AddConstant(stage ShaderStage, typ ConstantType, name string, value ...Vec4) *MaterialBuilder {
	c := ShaderConstant{Name: name, Type: typ, Value: append([]Vec4(nil), value...)}
	if stage == StageFragment {
		b.m.fragmentConstants = append(b.m.fragmentConstants, c)
	} else {
		b.m.vertexConstants = append(b.m.vertexConstants, c)
	}
	return b
}

// AddMatrix appends a mat4 constant from a matrix.
func (b *MaterialBuilder) AddMatrix(stage ShaderStage, name string, m Mat4) *MaterialBuilder {
	return b.AddConstant(stage, ConstantMat4, name, m.Rows()...)
}

// Build validates and returns the material. The builder must not be reused.
func (b *MaterialBuilder) Build() (*Material, error) {
	m := b.m
	if strings.TrimSpace(m.name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidMaterial)
	}
	if m.vertexSpace != VertexSpaceWorld && m.vertexSpace != VertexSpaceLocal {
		return nil, fmt.Errorf("%w: %q: unknown vertex space %q", ErrInvalidMaterial, m.name, m.vertexSpace)
	}
	if m.vertexProgram == "" {
		return nil, fmt.Errorf("%w: %q: vertex program required", ErrInvalidMaterial, m.name)
	}
	if m.fragmentProgram == "" {
		return nil, fmt.Errorf("%w: %q: fragment program required", ErrInvalidMaterial, m.name)
	}

	seen := make(map[string]struct{}, len(m.slots))
	for _, s := range m.slots {
		if s.Sampler == "" {
			return nil, fmt.Errorf("%w: %q: empty sampler name", ErrInvalidMaterial, m.name)
		}
		if _, ok := seen[s.Sampler]; ok {
			return nil, fmt.Errorf("%w: %q: duplicate sampler %q", ErrInvalidMaterial, m.name, s.Sampler)
		}
		seen[s.Sampler] = struct{}{}
	}

	for _, list := range [][]ShaderConstant{m.vertexConstants, m.fragmentConstants} {
		for _, c := range list {
			if err := validateConstant(c); err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidMaterial, m.name, err)
			}
		}
	}

	b.m = Material{}
	return &m, nil
}

// validateConstant checks the value shape against the type tag.
func validateConstant(c ShaderConstant) error {
	if c.Name == "" {
		return fmt.Errorf("constant with empty name")
	}
	if !c.Type.known() {
		return fmt.Errorf("constant %q: unknown type %q", c.Name, c.Type)
	}
	if want := c.Type.valueRows(); len(c.Value) != want {
		return fmt.Errorf("constant %q of type %s takes %d value vectors, got %d", c.Name, c.Type, want, len(c.Value))
	}
	return nil
}

// cloneConstants deep-copies constants so callers cannot mutate a built material.
func cloneConstants(in []ShaderConstant) []ShaderConstant {
	if in == nil {
		return nil
	}
	out := make([]ShaderConstant, len(in))
	for i, c := range in {
		c.Value = append([]Vec4(nil), c.Value...)
		out[i] = c
	}
	return out
}
