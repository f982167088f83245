package defold

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heroScene is one untextured material used by one node.
func heroScene() *Scene {
	return &Scene{
		Materials: []SceneMaterial{{Name: "skin"}},
		Meshes:    []Mesh{{Primitives: []Primitive{{Material: 0}}}},
		Nodes:     []Node{{Name: "Hero", Mesh: 0}},
	}
}

// texturedScene has two materials, three images and three nodes.
func texturedScene() *Scene {
	return &Scene{
		Images: []Image{{Name: "hero_albedo"}, {Name: "hero_normal"}, {Name: "rock_albedo"}},
		Materials: []SceneMaterial{
			{Name: "hero", BaseColor: Index(0), Normal: Index(1), BaseColorFactor: &[4]float64{0.8, 0.1, 0.1, 1}},
			{Name: "rock", BaseColor: Index(2), Occlusion: Index(2)},
		},
		Meshes: []Mesh{
			{Primitives: []Primitive{{Material: 0}}},
			{Primitives: []Primitive{{Material: 1}}},
		},
		Nodes: []Node{
			{Name: "Hero", Mesh: 0},
			{Name: "RockA", Mesh: 1},
			{Name: "RockB", Mesh: 1},
		},
	}
}

const heroMaterial = `name: "skin"
tags: "model"
vertex_program: "/builtins/materials/model.vp"
fragment_program: "/main/preview.fp"
vertex_space: VERTEX_SPACE_WORLD
vertex_constants {
  name: "u_mtx_view"
  type: CONSTANT_TYPE_VIEW
}
vertex_constants {
  name: "u_mtx_world"
  type: CONSTANT_TYPE_WORLD
}
vertex_constants {
  name: "u_mtx_worldview"
  type: CONSTANT_TYPE_WORLDVIEW
}
vertex_constants {
  name: "u_mtx_projection"
  type: CONSTANT_TYPE_PROJECTION
}
vertex_constants {
  name: "u_mtx_normal"
  type: CONSTANT_TYPE_NORMAL
}
samplers {
  name: "tex_base"
  wrap_u: WRAP_MODE_REPEAT
  wrap_v: WRAP_MODE_REPEAT
  filter_min: FILTER_MODE_MIN_LINEAR
  filter_mag: FILTER_MODE_MAG_LINEAR
}
samplers {
  name: "tex_metallic_roughness"
  wrap_u: WRAP_MODE_REPEAT
  wrap_v: WRAP_MODE_REPEAT
  filter_min: FILTER_MODE_MIN_LINEAR
  filter_mag: FILTER_MODE_MAG_LINEAR
}
samplers {
  name: "tex_normal"
  wrap_u: WRAP_MODE_REPEAT
  wrap_v: WRAP_MODE_REPEAT
  filter_min: FILTER_MODE_MIN_LINEAR
  filter_mag: FILTER_MODE_MAG_LINEAR
}
samplers {
  name: "tex_occlusion"
  wrap_u: WRAP_MODE_REPEAT
  wrap_v: WRAP_MODE_REPEAT
  filter_min: FILTER_MODE_MIN_LINEAR
  filter_mag: FILTER_MODE_MAG_LINEAR
}
samplers {
  name: "tex_emissive"
  wrap_u: WRAP_MODE_REPEAT
  wrap_v: WRAP_MODE_REPEAT
  filter_min: FILTER_MODE_MIN_LINEAR
  filter_mag: FILTER_MODE_MAG_LINEAR
}
`

const heroModel = `mesh: "/main/meshes/Hero.glb"
material: "/main/materials/skin.material"
textures: "/builtins/assets/images/logo/logo_256.png"
textures: "/builtins/assets/images/logo/logo_256.png"
textures: "/builtins/assets/images/logo/logo_256.png"
textures: "/builtins/assets/images/logo/logo_256.png"
textures: "/builtins/assets/images/logo/logo_256.png"
skeleton: ""
animations: ""
default_animation: ""
name: "Hero"
`

const heroGameObject = `components {
  id: "model"
  component: "/main/models/Hero.model"
}
`

const heroCollection = `name: "scene"
instances {
  id: "Hero"
  prototype: "/main/gameobjects/Hero.go"
}
scale_along_z: 0
`

const heroProxy = `collection: "/main/scene.collection"
exclude: false
`

func TestConvertHero(t *testing.T) {
	out, err := Convert(heroScene(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"main/materials/skin.material",
		"main/models/Hero.model",
		"main/gameobjects/Hero.go",
		"main/scene.collection",
		"main/scene.collectionproxy",
	}, out.Paths())

	files := out.Map()
	assert.Equal(t, heroMaterial, files["main/materials/skin.material"])
	assert.Equal(t, heroModel, files["main/models/Hero.model"])
	assert.Equal(t, heroGameObject, files["main/gameobjects/Hero.go"])
	assert.Equal(t, heroCollection, files["main/scene.collection"])
	assert.Equal(t, heroProxy, files["main/scene.collectionproxy"])

	// Built-in constants carry no value blocks.
	doc, err := Parse([]byte(files["main/materials/skin.material"]), nil)
	require.NoError(t, err)
	for _, c := range doc.Blocks("vertex_constants") {
		assert.Empty(t, c.Blocks("value"))
	}
}

func TestConvertDeterministic(t *testing.T) {
	first, err := Convert(texturedScene(), nil)
	require.NoError(t, err)
	second, err := Convert(texturedScene(), nil)
	require.NoError(t, err)

	assert.Equal(t, first.Files(), second.Files())
}

func TestBuildModelTextures(t *testing.T) {
	p, err := Build(texturedScene(), nil)
	require.NoError(t, err, spew.Sdump(texturedScene()))

	r := p.Resolver()
	materials := make(map[string]*Material)
	for _, m := range p.Materials {
		materials[r.MaterialPath(m.Name())] = m
	}

	for _, m := range p.Models {
		mat := materials[m.MaterialPath()]
		require.NotNil(t, mat, "model %s", m.Name())

		slots := mat.TextureSlots()
		textures := m.Textures()
		require.Len(t, textures, len(slots), spew.Sdump(m))
		for i, s := range slots {
			assert.Equal(t, r.TexturePath(s.Texture), textures[i])
			assert.NotEmpty(t, textures[i])
		}
	}

	hero := p.Models[0]
	assert.Equal(t, []string{
		"/main/textures/hero_albedo.png",
		DefaultFallbackTexture,
		"/main/textures/hero_normal.png",
		DefaultFallbackTexture,
		DefaultFallbackTexture,
	}, hero.Textures())

	rock := p.Models[1]
	assert.Equal(t, "/main/textures/rock_albedo.png", rock.Textures()[3])
}

func TestBuildNodeOrder(t *testing.T) {
	s := texturedScene()
	p, err := Build(s, nil)
	require.NoError(t, err)

	r := p.Resolver()
	insts := p.Collection.Instances()
	require.Len(t, insts, len(s.Nodes))
	require.Len(t, p.Models, len(s.Nodes))
	require.Len(t, p.GameObjects, len(s.Nodes))

	for i, n := range s.Nodes {
		assert.Equal(t, n.Name, insts[i].ID)
		assert.Equal(t, r.GameObjectPath(n.Name), insts[i].Prototype)
		assert.Equal(t, n.Name, p.Models[i].Name())
		assert.Equal(t, r.ModelPath(n.Name), p.GameObjects[i].ModelPath())
	}
	assert.Equal(t, r.CollectionPath(), p.Proxy.CollectionPath())
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *Scene)
		want   error
		kind   EntityKind
		entity string
	}{
		{
			name:   "empty primitives",
			mutate: func(s *Scene) { s.Meshes[0].Primitives = nil },
			want:   ErrMalformedScene, kind: EntityNode, entity: "Hero",
		},
		{
			name: "multiple primitives",
			mutate: func(s *Scene) {
				s.Meshes[0].Primitives = append(s.Meshes[0].Primitives, Primitive{Material: 0})
			},
			want: ErrMalformedScene, kind: EntityNode, entity: "Hero",
		},
		{
			name:   "material out of range",
			mutate: func(s *Scene) { s.Meshes[1].Primitives[0].Material = 7 },
			want:   ErrMalformedScene, kind: EntityNode, entity: "RockA",
		},
		{
			name:   "primitive without material",
			mutate: func(s *Scene) { s.Meshes[1].Primitives[0].Material = -1 },
			want:   ErrMalformedScene, kind: EntityNode, entity: "RockA",
		},
		{
			name:   "mesh out of range",
			mutate: func(s *Scene) { s.Nodes[2].Mesh = 9 },
			want:   ErrMalformedScene, kind: EntityNode, entity: "RockB",
		},
		{
			name:   "image out of range",
			mutate: func(s *Scene) { s.Materials[1].Emissive = Index(3) },
			want:   ErrMalformedScene, kind: EntityMaterial, entity: "rock",
		},
		{
			name:   "node name climbs out of the project",
			mutate: func(s *Scene) { s.Nodes[0].Name = "../../../escaped" },
			want:   ErrMalformedScene, kind: EntityNode, entity: "../../../escaped",
		},
		{
			name:   "node name is a dot segment",
			mutate: func(s *Scene) { s.Nodes[1].Name = ".." },
			want:   ErrMalformedScene, kind: EntityNode, entity: "..",
		},
		{
			name:   "material name with separator",
			mutate: func(s *Scene) { s.Materials[1].Name = "rocks/rock" },
			want:   ErrMalformedScene, kind: EntityMaterial, entity: "rocks/rock",
		},
		{
			name:   "image name with backslash",
			mutate: func(s *Scene) { s.Images[1].Name = `maps\hero_normal` },
			want:   ErrMalformedScene, kind: EntityImage, entity: `maps\hero_normal`,
		},
		{
			name:   "duplicate node",
			mutate: func(s *Scene) { s.Nodes[2].Name = "RockA" },
			want:   ErrDuplicateName, kind: EntityNode, entity: "RockA",
		},
		{
			name:   "duplicate material",
			mutate: func(s *Scene) { s.Materials[1].Name = "hero" },
			want:   ErrDuplicateName, kind: EntityMaterial, entity: "hero",
		},
		{
			name:   "duplicate image",
			mutate: func(s *Scene) { s.Images[2].Name = "hero_albedo" },
			want:   ErrDuplicateName, kind: EntityImage, entity: "hero_albedo",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := texturedScene()
			c.mutate(s)

			out, err := Convert(s, nil)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, c.want), "got %v", err)

			var malformed *MalformedSceneError
			var dup *DuplicateNameError
			switch {
			case errors.As(err, &malformed):
				assert.Equal(t, c.kind, malformed.Kind)
				assert.Equal(t, c.entity, malformed.Name)
			case errors.As(err, &dup):
				assert.Equal(t, c.kind, dup.Kind)
				assert.Equal(t, c.entity, dup.Name)
			default:
				t.Fatalf("unexpected error type %T", err)
			}

			// Same input, same failure.
			_, again := Convert(s, nil)
			assert.Equal(t, err.Error(), again.Error())
		})
	}
}

func TestBuildNestedNamesRejected(t *testing.T) {
	s := texturedScene()
	s.Nodes[1].Name = "a/b"
	s.Nodes[2].Name = "a//b"

	out, err := Convert(s, nil)
	require.ErrorIs(t, err, ErrMalformedScene)
	assert.Nil(t, out)
}

func TestBuildCollectionNameRejected(t *testing.T) {
	_, err := Build(heroScene(), &Options{CollectionName: "../scene"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildOptionOverrides(t *testing.T) {
	opt := &Options{
		ProjectDir:        "assets/hero",
		FallbackTexture:   "/assets/white.png",
		VertexProgram:     "/assets/pbr.vp",
		FragmentProgram:   "/assets/pbr.fp",
		Tags:              []string{"model", "pbr"},
		Samplers:          SamplerNames{Base: "albedo"},
		Constants:         ConstantNames{View: "view"},
		MeshPath:          "/assets/hero/hero.glb",
		CollectionName:    "hero",
		BaseColorConstant: "u_base_color",
	}

	out, err := Convert(texturedScene(), opt)
	require.NoError(t, err)

	mat, ok := out.Get("assets/hero/materials/hero.material")
	require.True(t, ok, "paths: %v", out.Paths())

	doc, err := Parse([]byte(mat), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "pbr"}, doc.Scalars("tags"))
	prog, _ := doc.Scalar("vertex_program")
	assert.Equal(t, "/assets/pbr.vp", prog)

	samplers := doc.Blocks("samplers")
	require.Len(t, samplers, 5)
	first, _ := samplers[0].Scalar("name")
	assert.Equal(t, "albedo", first)
	second, _ := samplers[1].Scalar("name")
	assert.Equal(t, "tex_metallic_roughness", second)

	vc := doc.Blocks("vertex_constants")
	require.Len(t, vc, 5)
	view, _ := vc[0].Scalar("name")
	assert.Equal(t, "view", view)

	fc := doc.Blocks("fragment_constants")
	require.Len(t, fc, 1)
	values := fc[0].Blocks("value")
	require.Len(t, values, 1)
	x, _ := values[0].Scalar("x")
	assert.Equal(t, "0.8", x)

	model, ok := out.Get("assets/hero/models/RockA.model")
	require.True(t, ok)
	assert.Contains(t, model, `mesh: "/assets/hero/hero.glb"`)
	assert.Contains(t, model, `textures: "/assets/white.png"`)

	_, ok = out.Get("assets/hero/hero.collectionproxy")
	assert.True(t, ok)
}

func TestBuildLogs(t *testing.T) {
	var buf bytes.Buffer
	opt := &Options{Logger: NewLogger(&buf, log.DebugLevel)}

	_, err := Convert(heroScene(), opt)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "serializing")
	assert.Contains(t, logs, "main/models/Hero.model")
	assert.Equal(t, 5, strings.Count(logs, "serializing"))
}

func TestMaterialBuilderValidation(t *testing.T) {
	base := func() *MaterialBuilder {
		return NewMaterialBuilder("m").
			SetVertexProgram(DefaultVertexProgram).
			SetFragmentProgram(DefaultFragmentProgram)
	}

	_, err := base().AddConstant(StageVertex, ConstantView, "view", V4(1, 1, 1, 1)).Build()
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	_, err = base().AddConstant(StageFragment, ConstantVec4, "tint").Build()
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	_, err = base().AddConstant(StageFragment, ConstantMat4, "mtx", V4(1, 0, 0, 0)).Build()
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	_, err = base().AddSampler("tex", nil).AddSampler("tex", nil).Build()
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	_, err = NewMaterialBuilder("m").SetFragmentProgram(DefaultFragmentProgram).Build()
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	_, err = base().SetVertexSpace("VERTEX_SPACE_VIEW").Build()
	assert.ErrorIs(t, err, ErrInvalidMaterial)

	m, err := base().SetVertexSpace(VertexSpaceLocal).AddMatrix(StageVertex, "mtx", Identity4()).Build()
	require.NoError(t, err)
	assert.Equal(t, VertexSpaceLocal, m.VertexSpace())

	// Accessors return copies.
	cs := m.Constants(StageVertex)
	cs[0].Value[0].X = 42
	assert.Equal(t, 1.0, m.Constants(StageVertex)[0].Value[0].X)
}
