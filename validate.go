package defold

import (
	"os"
	"path/filepath"
	"strings"
)

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Path to the affected resource
}

// Validate checks cross references of a built project and returns issues.
func Validate(p *Project, opt *ValidateOptions) []Issue {
	if p == nil || p.resolver == nil {
		return []Issue{{Level: IssueError, Code: "empty_project", Message: "project was not built"}}
	}

	vopt := opt.normalize()
	r := p.resolver
	var out []Issue

	// Models must resolve one texture per sampler of their material.
	materials := make(map[string]*Material, len(p.Materials))
	for _, m := range p.Materials {
		materials[r.MaterialPath(m.Name())] = m
	}
	for _, m := range p.Models {
		mat, ok := materials[m.MaterialPath()]
		if !ok {
			out = append(out, Issue{Level: IssueError, Code: "missing_material", Message: "model references unknown material", Path: m.MaterialPath()})
			continue
		}
		if len(m.Textures()) != len(mat.TextureSlots()) {
			out = append(out, Issue{Level: IssueError, Code: "texture_count", Message: "model texture count differs from material samplers", Path: r.ModelPath(m.Name())})
		}
	}

	// Every instance prototype and model component must be generated.
	gameObjects := make(map[string]struct{}, len(p.GameObjects))
	models := make(map[string]struct{}, len(p.Models))
	for _, m := range p.Models {
		models[r.ModelPath(m.Name())] = struct{}{}
	}
	for _, g := range p.GameObjects {
		gameObjects[r.GameObjectPath(g.Name())] = struct{}{}
		if _, ok := models[g.ModelPath()]; !ok {
			out = append(out, Issue{Level: IssueError, Code: "missing_model", Message: "game object references unknown model", Path: g.ModelPath()})
		}
	}
	if p.Collection != nil {
		for _, inst := range p.Collection.Instances() {
			if _, ok := gameObjects[inst.Prototype]; !ok {
				out = append(out, Issue{Level: IssueError, Code: "missing_prototype", Message: "collection instance references unknown game object", Path: inst.Prototype})
			}
		}
	}
	if p.Proxy != nil && p.Proxy.CollectionPath() != r.CollectionPath() {
		out = append(out, Issue{Level: IssueError, Code: "proxy_target", Message: "proxy does not reference the collection", Path: p.Proxy.CollectionPath()})
	}

	// Duplicate output paths.
	seen := make(map[string]struct{})
	for _, path := range outputPaths(p) {
		if _, ok := seen[path]; ok {
			out = append(out, Issue{Level: IssueError, Code: "duplicate_path", Message: "duplicate output path", Path: path})
			continue
		}
		seen[path] = struct{}{}
	}

	// Referenced resources: textures and programs.
	refs := referencedPaths(p)
	for _, ref := range refs {
		if strings.Contains(ref.path, "..") {
			out = append(out, Issue{Level: IssueWarning, Message: "path contains '..'", Path: ref.path})
		}
		if !vopt.DisableExtensionsCheck && !hasAllowedExt(ref.path, ref.exts) {
			out = append(out, Issue{Level: IssueWarning, Code: "unexpected_extension", Message: "unexpected " + ref.kind + " extension", Path: ref.path})
		}
		if vopt.DisableFileCheck || shouldExcludePath(ref.path, vopt.ExcludePaths) {
			continue
		}
		if _, ok := seen[ref.path]; ok {
			continue
		}
		full := filepath.Join(vopt.ProjectRoot, filepath.FromSlash(RelPath(ref.path)))
		if _, err := os.Stat(full); err != nil {
			out = append(out, Issue{Level: IssueWarning, Code: "missing_resource", Message: ref.kind + " file not found", Path: full})
		}
	}

	return out
}

// resourceRef is a path a generated file points at but does not generate.
type resourceRef struct {
	path string
	kind string
	exts []string
}

var (
	defaultTextureExts = []string{".png", ".jpg", ".jpeg"}
	vertexProgramExts  = []string{".vp"}
	fragProgramExts    = []string{".fp"}
	meshExts           = []string{".glb", ".gltf", ".dae"}
)

// referencedPaths lists unique texture, mesh and program references in emission order.
func referencedPaths(p *Project) []resourceRef {
	var out []resourceRef
	seen := make(map[string]struct{})
	add := func(path, kind string, exts []string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, resourceRef{path: path, kind: kind, exts: exts})
	}

	for _, m := range p.Materials {
		add(m.VertexProgram(), "vertex program", vertexProgramExts)
		add(m.FragmentProgram(), "fragment program", fragProgramExts)
	}
	for _, m := range p.Models {
		add(m.MeshPath(), "mesh", meshExts)
		for _, t := range m.Textures() {
			add(t, "texture", defaultTextureExts)
		}
	}

	return out
}

// outputPaths lists every path Emit writes, in emission order.
func outputPaths(p *Project) []string {
	r := p.resolver
	var out []string
	for _, m := range p.Materials {
		out = append(out, r.MaterialPath(m.Name()))
	}
	for _, m := range p.Models {
		out = append(out, r.ModelPath(m.Name()))
	}
	for _, g := range p.GameObjects {
		out = append(out, r.GameObjectPath(g.Name()))
	}
	if p.Collection != nil {
		out = append(out, r.CollectionPath())
	}
	if p.Proxy != nil {
		out = append(out, r.CollectionProxyPath())
	}
	return out
}

// hasAllowedExt checks if the path has an allowed extension.
func hasAllowedExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}

	return false
}

// shouldExcludePath checks if the path should be excluded.
func shouldExcludePath(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	norm := normalizePathForMatch(path)
	for _, p := range patterns {
		if p == "" {
			continue
		}

		// Check if the path matches a wildcard pattern
		pp := normalizePathForMatch(p)
		if strings.HasSuffix(pp, "*") {
			prefix := strings.TrimSuffix(pp, "*")
			if strings.HasPrefix(norm, prefix) {
				return true
			}

			continue
		}

		if norm == pp {
			return true
		}
	}

	return false
}

// normalizePathForMatch normalizes a project path for matching.
func normalizePathForMatch(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	return "/" + strings.TrimLeft(p, "/")
}
