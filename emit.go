package defold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// File is one generated asset.
type File struct {
	Path    string // Relative path, e.g. "main/materials/skin.material"
	Content string // Serialized text
}

// Output holds generated files in emission order.
type Output struct {
	files []File
	index map[string]int
}

// Convert builds the asset graph of a scene and serializes it.
// Nothing is returned if any entity is malformed.
func Convert(s *Scene, opt *Options) (*Output, error) {
	p, err := Build(s, opt)
	if err != nil {
		return nil, err
	}

	return p.Emit()
}

// Emit serializes every entity: materials, then model and game object per
// node, then the collection and its proxy.
func (p *Project) Emit() (*Output, error) {
	fopt := p.opt.format()
	r := p.resolver
	out := &Output{index: make(map[string]int)}

	add := func(projectPath string, d *Document) error {
		rel := RelPath(projectPath)
		if _, ok := out.index[rel]; ok {
			return fmt.Errorf("%w: output path %q", ErrDuplicateName, rel)
		}

		p.opt.Logger.Debug("serializing", "path", rel)
		b, err := Format(d, fopt)
		if err != nil {
			return err
		}

		out.index[rel] = len(out.files)
		out.files = append(out.files, File{Path: rel, Content: string(b)})
		return nil
	}

	for _, m := range p.Materials {
		if err := add(r.MaterialPath(m.Name()), m.Document()); err != nil {
			return nil, err
		}
	}

	if len(p.Models) != len(p.GameObjects) {
		return nil, fmt.Errorf("%w: %d models but %d game objects", ErrMalformedScene, len(p.Models), len(p.GameObjects))
	}
	for i, m := range p.Models {
		if err := add(r.ModelPath(m.Name()), m.Document()); err != nil {
			return nil, err
		}
		g := p.GameObjects[i]
		if err := add(r.GameObjectPath(g.Name()), g.Document()); err != nil {
			return nil, err
		}
	}

	if p.Collection != nil {
		if err := add(r.CollectionPath(), p.Collection.Document()); err != nil {
			return nil, err
		}
	}
	if p.Proxy != nil {
		if err := add(r.CollectionProxyPath(), p.Proxy.Document()); err != nil {
			return nil, err
		}
	}

	p.opt.Logger.Info("emitted project", "files", len(out.files))
	return out, nil
}

// Files returns generated files in emission order.
func (o *Output) Files() []File {
	return append([]File(nil), o.files...)
}

// Len returns the number of generated files.
func (o *Output) Len() int {
	return len(o.files)
}

// Paths returns relative paths in emission order.
func (o *Output) Paths() []string {
	out := make([]string, len(o.files))
	for i, f := range o.files {
		out[i] = f.Path
	}
	return out
}

// Get returns the content generated for a relative path.
func (o *Output) Get(path string) (string, bool) {
	i, ok := o.index[path]
	if !ok {
		return "", false
	}
	return o.files[i].Content, true
}

// Map returns the relative path to content mapping.
func (o *Output) Map() map[string]string {
	out := make(map[string]string, len(o.files))
	for _, f := range o.files {
		out[f.Path] = f.Content
	}
	return out
}

// WriteDir writes every file under dir, creating folders as needed.
// Paths that would leave dir are refused before anything is written.
func (o *Output) WriteDir(dir string) error {
	for _, f := range o.files {
		if !filepath.IsLocal(filepath.FromSlash(f.Path)) {
			return errors.Errorf("refusing to write %q outside %q", f.Path, dir)
		}
	}

	for _, f := range o.files {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create folder for %q", f.Path)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0o600); err != nil {
			return errors.Wrapf(err, "failed to write %q", f.Path)
		}
	}

	return nil
}
