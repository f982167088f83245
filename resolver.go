package defold

import (
	"fmt"
	"path"
	"strings"
)

// File extensions of generated assets.
const (
	ExtMaterial        = ".material"
	ExtModel           = ".model"
	ExtGameObject      = ".go"
	ExtCollection      = ".collection"
	ExtCollectionProxy = ".collectionproxy"
)

// Resolver maps entity names to project paths.
// Paths are built by string formatting alone, so resolution never fails and
// the same inputs always give the same path.
type Resolver struct {
	opt Options
}

// NewResolver returns a resolver for the given options.
func NewResolver(opt *Options) *Resolver {
	return &Resolver{opt: opt.normalize()}
}

// TexturePath returns the project path of a texture, or the fallback path for nil.
func (r *Resolver) TexturePath(tex *TextureRef) string {
	if tex == nil {
		return r.opt.FallbackTexture
	}
	return r.join(r.opt.TextureDir, tex.Name+r.opt.TextureExt)
}

// FallbackPath returns the placeholder texture path.
func (r *Resolver) FallbackPath() string {
	return r.opt.FallbackTexture
}

// MaterialPath returns the project path of a material.
func (r *Resolver) MaterialPath(name string) string {
	return r.join(r.opt.MaterialDir, name+ExtMaterial)
}

// MeshPath returns the mesh a node's model references.
func (r *Resolver) MeshPath(node string) string {
	if r.opt.MeshPath != "" {
		return r.opt.MeshPath
	}
	return r.join(r.opt.MeshDir, node+r.opt.MeshExt)
}

// ModelPath returns the project path of a node's model.
func (r *Resolver) ModelPath(node string) string {
	return r.join(r.opt.ModelDir, node+ExtModel)
}

// GameObjectPath returns the project path of a node's game object.
func (r *Resolver) GameObjectPath(node string) string {
	return r.join(r.opt.GameObjectDir, node+ExtGameObject)
}

// CollectionPath returns the project path of the collection.
func (r *Resolver) CollectionPath() string {
	return r.join(r.opt.CollectionName + ExtCollection)
}

// CollectionProxyPath returns the project path of the collection proxy.
func (r *Resolver) CollectionProxyPath() string {
	return r.join(r.opt.CollectionName + ExtCollectionProxy)
}

// nameProblem reports why an entity name cannot be a file name, or "" if it can.
// Names become a single path element, so separators and dot segments are refused.
func nameProblem(name string) string {
	switch {
	case name == "":
		return "has no name"
	case strings.ContainsAny(name, `/\`):
		return fmt.Sprintf("name %q contains a path separator", name)
	case name == "." || name == "..":
		return fmt.Sprintf("name %q is a dot segment", name)
	default:
		return ""
	}
}

// RelPath turns a project path into the relative path files are written at.
func RelPath(projectPath string) string {
	return strings.TrimLeft(projectPath, "/")
}

// join builds "/<project dir>/<parts...>", skipping empty parts.
// The result is cleaned, so it never climbs above the project root.
func (r *Resolver) join(parts ...string) string {
	var b strings.Builder
	if r.opt.ProjectDir != "" {
		b.WriteString("/")
		b.WriteString(r.opt.ProjectDir)
	}
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(p)
	}
	if b.Len() == 0 {
		return ""
	}

	return path.Clean(b.String())
}
