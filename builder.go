package defold

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Project is the asset graph of one conversion.
// Models and GameObjects are parallel to the scene node order.
type Project struct {
	Materials   []*Material      // One per scene material, in scene order
	Models      []*Model         // One per node, in node order
	GameObjects []*GameObject    // One per node, in node order
	Collection  *Collection      // Every node as an instance, in node order
	Proxy       *CollectionProxy // Proxy of Collection

	resolver *Resolver
	opt      Options
}

// Resolver returns the resolver the project was built with.
func (p *Project) Resolver() *Resolver {
	return p.resolver
}

// Build walks the scene and returns its asset graph.
// Any malformed or duplicate entity aborts the whole build.
func Build(s *Scene, opt *Options) (*Project, error) {
	if s == nil {
		s = &Scene{}
	}

	b := &builder{scene: s, opt: opt.normalize()}
	if reason := nameProblem(b.opt.CollectionName); reason != "" {
		return nil, fmt.Errorf("%w: collection %s", ErrInvalidConfig, reason)
	}
	b.resolver = &Resolver{opt: b.opt}
	b.logger = b.opt.Logger

	return b.build()
}

// builder holds the lookup tables of one conversion.
type builder struct {
	scene     *Scene
	opt       Options
	resolver  *Resolver
	logger    *log.Logger
	images    ImageTable
	materials []*Material
}

// build runs every stage in order.
func (b *builder) build() (*Project, error) {
	images, err := NewImageTable(b.scene.Images)
	if err != nil {
		return nil, err
	}
	b.images = images

	if err := b.buildMaterials(); err != nil {
		return nil, err
	}

	p := &Project{
		Materials:  b.materials,
		Collection: NewCollection(b.opt.CollectionName),
		resolver:   b.resolver,
		opt:        b.opt,
	}

	for i := range b.scene.Nodes {
		if err := b.buildNode(p, i); err != nil {
			return nil, err
		}
	}

	p.Proxy = &CollectionProxy{collection: b.resolver.CollectionPath()}

	b.logger.Debug("built asset graph",
		"materials", len(p.Materials),
		"nodes", len(p.Models),
		"images", len(b.images))

	return p, nil
}

// buildMaterials builds one Material per scene material.
func (b *builder) buildMaterials() error {
	first := make(map[string]int, len(b.scene.Materials))
	b.materials = make([]*Material, 0, len(b.scene.Materials))

	for i, sm := range b.scene.Materials {
		if reason := nameProblem(sm.Name); reason != "" {
			return &MalformedSceneError{Kind: EntityMaterial, Name: sm.Name, Index: i, Reason: "material " + reason}
		}
		if j, ok := first[sm.Name]; ok {
			return &DuplicateNameError{Kind: EntityMaterial, Name: sm.Name, First: j, Index: i}
		}
		first[sm.Name] = i

		m, err := b.buildMaterial(i, sm)
		if err != nil {
			return err
		}

		b.logger.Debug("material", "name", m.Name(), "path", b.resolver.MaterialPath(m.Name()))
		b.materials = append(b.materials, m)
	}

	return nil
}

// buildMaterial maps one scene material to a Material.
func (b *builder) buildMaterial(index int, sm SceneMaterial) (*Material, error) {
	samplers := b.opt.Samplers
	slots := []struct {
		sampler string
		image   *int
	}{
		{samplers.Base, sm.BaseColor},
		{samplers.MetallicRoughness, sm.MetallicRoughness},
		{samplers.Normal, sm.Normal},
		{samplers.Occlusion, sm.Occlusion},
		{samplers.Emissive, sm.Emissive},
	}

	mb := NewMaterialBuilder(sm.Name).
		SetVertexSpace(VertexSpaceWorld).
		SetVertexProgram(b.opt.VertexProgram).
		SetFragmentProgram(b.opt.FragmentProgram)

	for _, tag := range b.opt.Tags {
		mb.AddTag(tag)
	}

	for _, slot := range slots {
		ref, ok := b.images.Ref(slot.image)
		if !ok {
			return nil, &MalformedSceneError{
				Kind:   EntityMaterial,
				Name:   sm.Name,
				Index:  index,
				Reason: fmt.Sprintf("%s: image index %d out of range (%d images)", slot.sampler, *slot.image, len(b.images)),
			}
		}
		mb.AddSampler(slot.sampler, ref)
	}

	names := b.opt.Constants
	mb.AddConstant(StageVertex, ConstantView, names.View).
		AddConstant(StageVertex, ConstantWorld, names.World).
		AddConstant(StageVertex, ConstantWorldView, names.WorldView).
		AddConstant(StageVertex, ConstantProjection, names.Projection).
		AddConstant(StageVertex, ConstantNormal, names.Normal)

	if b.opt.BaseColorConstant != "" {
		color := V4(1, 1, 1, 1)
		if f := sm.BaseColorFactor; f != nil {
			color = V4(f[0], f[1], f[2], f[3])
		}
		mb.AddConstant(StageFragment, ConstantVec4, b.opt.BaseColorConstant, color)
	}

	return mb.Build()
}

// buildNode maps one scene node to a Model, a GameObject and a collection instance.
func (b *builder) buildNode(p *Project, index int) error {
	n := b.scene.Nodes[index]
	at := index
	if n.Source != nil {
		at = *n.Source
	}
	malformed := func(format string, args ...any) error {
		return &MalformedSceneError{Kind: EntityNode, Name: n.Name, Index: at, Reason: fmt.Sprintf(format, args...)}
	}

	if reason := nameProblem(n.Name); reason != "" {
		return malformed("node %s", reason)
	}
	if n.Mesh < 0 || n.Mesh >= len(b.scene.Meshes) {
		return malformed("mesh index %d out of range (%d meshes)", n.Mesh, len(b.scene.Meshes))
	}

	prims := b.scene.Meshes[n.Mesh].Primitives
	switch {
	case len(prims) == 0:
		return malformed("mesh %d has no primitives", n.Mesh)
	case len(prims) > 1:
		return malformed("mesh %d has %d primitives, only one is supported", n.Mesh, len(prims))
	}

	mi := prims[0].Material
	if mi < 0 {
		return malformed("mesh %d primitive has no material", n.Mesh)
	}
	if mi >= len(b.materials) {
		return malformed("material index %d out of range (%d materials)", mi, len(b.materials))
	}

	model := newModel(n.Name, b.materials[mi], b.resolver)
	goPath := b.resolver.GameObjectPath(n.Name)
	if err := p.Collection.AddInstance(n.Name, goPath); err != nil {
		return err
	}

	p.Models = append(p.Models, model)
	p.GameObjects = append(p.GameObjects, &GameObject{name: n.Name, model: b.resolver.ModelPath(n.Name)})

	b.logger.Debug("node", "name", n.Name, "material", b.materials[mi].Name(), "gameobject", goPath)
	return nil
}
