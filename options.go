package defold

import (
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Default reserved tokens of the generated project.
const (
	DefaultProjectDir      = "main"
	DefaultFallbackTexture = "/builtins/assets/images/logo/logo_256.png"
	DefaultVertexProgram   = "/builtins/materials/model.vp"
	DefaultFragmentProgram = "/main/preview.fp"
	DefaultCollectionName  = "scene"
	DefaultTag             = "model"
)

// SamplerNames holds the five sampler names in declared slot order.
type SamplerNames struct {
	Base              string `json:"base,omitempty" toml:"base,omitempty" yaml:"base,omitempty"`                                           // Base color sampler
	MetallicRoughness string `json:"metallicRoughness,omitempty" toml:"metallic_roughness,omitempty" yaml:"metallicRoughness,omitempty"` // Metallic-roughness sampler
	Normal            string `json:"normal,omitempty" toml:"normal,omitempty" yaml:"normal,omitempty"`                                     // Normal map sampler
	Occlusion         string `json:"occlusion,omitempty" toml:"occlusion,omitempty" yaml:"occlusion,omitempty"`                            // Occlusion sampler
	Emissive          string `json:"emissive,omitempty" toml:"emissive,omitempty" yaml:"emissive,omitempty"`                               // Emissive sampler
}

// ConstantNames holds the five built-in vertex constant names.
type ConstantNames struct {
	View       string `json:"view,omitempty" toml:"view,omitempty" yaml:"view,omitempty"`                   // View matrix
	World      string `json:"world,omitempty" toml:"world,omitempty" yaml:"world,omitempty"`                // World matrix
	WorldView  string `json:"worldView,omitempty" toml:"world_view,omitempty" yaml:"worldView,omitempty"`   // World-view matrix
	Projection string `json:"projection,omitempty" toml:"projection,omitempty" yaml:"projection,omitempty"` // Projection matrix
	Normal     string `json:"normal,omitempty" toml:"normal,omitempty" yaml:"normal,omitempty"`             // Normal matrix
}

// Options holds the reserved tokens and layout of the generated project.
// Zero fields take defaults, so a partial config file overrides only what it names.
type Options struct {
	// ProjectDir is the project-relative folder every generated file lives under.
	ProjectDir string `json:"projectDir,omitempty" toml:"project_dir,omitempty" yaml:"projectDir,omitempty"`
	// MaterialDir, TextureDir, MeshDir, ModelDir and GameObjectDir are category
	// folders under ProjectDir.
	MaterialDir   string `json:"materialDir,omitempty" toml:"material_dir,omitempty" yaml:"materialDir,omitempty"`
	TextureDir    string `json:"textureDir,omitempty" toml:"texture_dir,omitempty" yaml:"textureDir,omitempty"`
	MeshDir       string `json:"meshDir,omitempty" toml:"mesh_dir,omitempty" yaml:"meshDir,omitempty"`
	ModelDir      string `json:"modelDir,omitempty" toml:"model_dir,omitempty" yaml:"modelDir,omitempty"`
	GameObjectDir string `json:"gameObjectDir,omitempty" toml:"game_object_dir,omitempty" yaml:"gameObjectDir,omitempty"`
	// TextureExt and MeshExt are appended to image and mesh names.
	TextureExt string `json:"textureExt,omitempty" toml:"texture_ext,omitempty" yaml:"textureExt,omitempty"`
	MeshExt    string `json:"meshExt,omitempty" toml:"mesh_ext,omitempty" yaml:"meshExt,omitempty"`
	// MeshPath, when set, is the mesh every model references (one scene file for all nodes).
	MeshPath string `json:"meshPath,omitempty" toml:"mesh_path,omitempty" yaml:"meshPath,omitempty"`
	// CollectionName names the collection and its proxy.
	CollectionName string `json:"collectionName,omitempty" toml:"collection_name,omitempty" yaml:"collectionName,omitempty"`
	// FallbackTexture is used for every texture slot the scene leaves empty.
	FallbackTexture string `json:"fallbackTexture,omitempty" toml:"fallback_texture,omitempty" yaml:"fallbackTexture,omitempty"`
	// VertexProgram and FragmentProgram are the shader programs of every material.
	VertexProgram   string `json:"vertexProgram,omitempty" toml:"vertex_program,omitempty" yaml:"vertexProgram,omitempty"`
	FragmentProgram string `json:"fragmentProgram,omitempty" toml:"fragment_program,omitempty" yaml:"fragmentProgram,omitempty"`
	// Tags are material tags (default "model").
	Tags []string `json:"tags,omitempty" toml:"tags,omitempty" yaml:"tags,omitempty"`
	// Samplers are the sampler names in slot order.
	Samplers SamplerNames `json:"samplers" toml:"samplers" yaml:"samplers"`
	// Constants are the built-in vertex constant names.
	Constants ConstantNames `json:"constants" toml:"constants" yaml:"constants"`
	// BaseColorConstant, when set, adds a vec4 fragment constant with the base color factor.
	BaseColorConstant string `json:"baseColorConstant,omitempty" toml:"base_color_constant,omitempty" yaml:"baseColorConstant,omitempty"`
	// Indent is the indentation string of generated files (default is two spaces).
	Indent string `json:"indent,omitempty" toml:"indent,omitempty" yaml:"indent,omitempty"`

	// Logger receives build and emit progress; nil discards it.
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// ParseOptions controls parsing behavior.
type ParseOptions struct {
	// DisableComments disables # line comments.
	DisableComments bool
}

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is two spaces).
	Indent string
}

// ValidateOptions controls validation rules.
type ValidateOptions struct {
	// ProjectRoot is used to resolve project paths when file checks are enabled.
	ProjectRoot string
	// ExcludePaths skips file existence checks for matching project paths.
	// Supports exact match and prefix wildcard with '*' suffix (e.g. "/builtins/*").
	// Nil means {"/builtins/*"}.
	ExcludePaths []string
	// DisableFileCheck disables filesystem existence checks.
	// If ProjectRoot is not set, this is enabled by default.
	DisableFileCheck bool
	// DisableExtensionsCheck disables extension validation of texture and program paths.
	DisableExtensionsCheck bool
}

// NewLogger returns a logger writing to w at the given level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "defold",
	})
	l.SetLevel(level)
	return l
}

// IsProjectRootExist reports whether the project root exists and is a directory.
func (o *ValidateOptions) IsProjectRootExist() bool {
	if o == nil {
		return false
	}
	if strings.TrimSpace(o.ProjectRoot) == "" {
		return false
	}
	info, err := os.Stat(o.ProjectRoot)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// normalize fills defaults for every zero field.
func (o *Options) normalize() Options {
	var out Options
	if o != nil {
		out = *o
	}

	setDefault(&out.ProjectDir, DefaultProjectDir)
	setDefault(&out.MaterialDir, "materials")
	setDefault(&out.TextureDir, "textures")
	setDefault(&out.MeshDir, "meshes")
	setDefault(&out.ModelDir, "models")
	setDefault(&out.GameObjectDir, "gameobjects")
	setDefault(&out.TextureExt, ".png")
	setDefault(&out.MeshExt, ".glb")
	setDefault(&out.CollectionName, DefaultCollectionName)
	setDefault(&out.FallbackTexture, DefaultFallbackTexture)
	setDefault(&out.VertexProgram, DefaultVertexProgram)
	setDefault(&out.FragmentProgram, DefaultFragmentProgram)
	setDefault(&out.Indent, "  ")

	setDefault(&out.Samplers.Base, "tex_base")
	setDefault(&out.Samplers.MetallicRoughness, "tex_metallic_roughness")
	setDefault(&out.Samplers.Normal, "tex_normal")
	setDefault(&out.Samplers.Occlusion, "tex_occlusion")
	setDefault(&out.Samplers.Emissive, "tex_emissive")

	setDefault(&out.Constants.View, "u_mtx_view")
	setDefault(&out.Constants.World, "u_mtx_world")
	setDefault(&out.Constants.WorldView, "u_mtx_worldview")
	setDefault(&out.Constants.Projection, "u_mtx_projection")
	setDefault(&out.Constants.Normal, "u_mtx_normal")

	if out.Tags == nil {
		out.Tags = []string{DefaultTag}
	} else {
		out.Tags = append([]string(nil), out.Tags...)
	}
	out.ProjectDir = strings.Trim(path.Clean("/"+out.ProjectDir), "/")
	if out.Logger == nil {
		out.Logger = log.New(io.Discard)
	}

	return out
}

// format returns the FormatOptions implied by Options.
func (o Options) format() *FormatOptions {
	return &FormatOptions{Indent: o.Indent}
}

// setDefault assigns def when *s is empty.
func setDefault(s *string, def string) {
	if *s == "" {
		*s = def
	}
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{}
	}

	return *o
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "  "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "  "
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{DisableFileCheck: true, ExcludePaths: []string{"/builtins/*"}}
	}

	out := *o
	if out.ProjectRoot == "" {
		out.DisableFileCheck = true
	}
	if out.ExcludePaths == nil {
		out.ExcludePaths = []string{"/builtins/*"}
	}

	return out
}
