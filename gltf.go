package defold

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// OpenScene reads a .gltf or .glb file and maps it to a Scene.
func OpenScene(name string, logger *log.Logger) (*Scene, error) {
	doc, err := gltf.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open gltf %q", name)
	}

	return SceneFromGLTF(doc, logger)
}

// SceneFromGLTF maps a glTF document to a Scene.
// Material texture indices are followed through the texture table to images.
// Nodes without a mesh carry no assets and are left out; kept nodes record
// their glTF node index in Source. A nil logger discards the notice.
func SceneFromGLTF(doc *gltf.Document, logger *log.Logger) (*Scene, error) {
	if doc == nil {
		return nil, errors.New("nil gltf document")
	}
	if logger == nil {
		logger = (&Options{}).normalize().Logger
	}

	s := &Scene{
		Images:    make([]Image, len(doc.Images)),
		Materials: make([]SceneMaterial, len(doc.Materials)),
		Meshes:    make([]Mesh, len(doc.Meshes)),
	}

	for i, img := range doc.Images {
		s.Images[i] = Image{Name: gltfImageName(i, img)}
	}

	for i, mat := range doc.Materials {
		sm, err := gltfMaterial(doc, i, mat)
		if err != nil {
			return nil, err
		}
		s.Materials[i] = sm
	}

	for i, mesh := range doc.Meshes {
		if mesh == nil {
			continue
		}
		prims := make([]Primitive, len(mesh.Primitives))
		for j, prim := range mesh.Primitives {
			prims[j] = Primitive{Material: -1}
			if prim != nil && prim.Material != nil {
				prims[j].Material = int(*prim.Material)
			}
		}
		s.Meshes[i] = Mesh{Primitives: prims}
	}

	for i, n := range doc.Nodes {
		if n == nil || n.Mesh == nil {
			name := ""
			if n != nil {
				name = n.Name
			}
			logger.Debug("skipping node without mesh", "index", i, "name", name)
			continue
		}
		s.Nodes = append(s.Nodes, Node{Name: n.Name, Mesh: int(*n.Mesh), Source: Index(i)})
	}

	return s, nil
}

// gltfImageName names an image by its name, its file name, or its index.
func gltfImageName(index int, img *gltf.Image) string {
	if img == nil {
		return fmt.Sprintf("image_%d", index)
	}
	if img.Name != "" {
		return img.Name
	}
	if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
		base := path.Base(strings.ReplaceAll(img.URI, "\\", "/"))
		if name := strings.TrimSuffix(base, path.Ext(base)); name != "" && name != "." {
			return name
		}
	}

	return fmt.Sprintf("image_%d", index)
}

// gltfMaterial maps PBR texture slots of a material to image indices.
func gltfMaterial(doc *gltf.Document, index int, mat *gltf.Material) (SceneMaterial, error) {
	if mat == nil {
		return SceneMaterial{}, &MalformedSceneError{Kind: EntityMaterial, Index: index, Reason: "null material"}
	}

	sm := SceneMaterial{Name: mat.Name}
	image := func(slot string, tex *uint32) (*int, error) {
		if tex == nil {
			return nil, nil
		}
		if int(*tex) >= len(doc.Textures) || doc.Textures[*tex] == nil {
			return nil, &MalformedSceneError{
				Kind:   EntityMaterial,
				Name:   mat.Name,
				Index:  index,
				Reason: fmt.Sprintf("%s: texture index %d out of range (%d textures)", slot, *tex, len(doc.Textures)),
			}
		}
		src := doc.Textures[*tex].Source
		if src == nil {
			return nil, nil
		}
		return Index(int(*src)), nil
	}

	var err error
	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			if sm.BaseColor, err = image("base color", &pbr.BaseColorTexture.Index); err != nil {
				return sm, err
			}
		}
		if pbr.MetallicRoughnessTexture != nil {
			if sm.MetallicRoughness, err = image("metallic roughness", &pbr.MetallicRoughnessTexture.Index); err != nil {
				return sm, err
			}
		}
		if f := pbr.BaseColorFactor; f != nil {
			sm.BaseColorFactor = &[4]float64{widen(f[0]), widen(f[1]), widen(f[2]), widen(f[3])}
		}
	}
	if mat.NormalTexture != nil {
		if sm.Normal, err = image("normal", mat.NormalTexture.Index); err != nil {
			return sm, err
		}
	}
	if mat.OcclusionTexture != nil {
		if sm.Occlusion, err = image("occlusion", mat.OcclusionTexture.Index); err != nil {
			return sm, err
		}
	}
	if mat.EmissiveTexture != nil {
		if sm.Emissive, err = image("emissive", &mat.EmissiveTexture.Index); err != nil {
			return sm, err
		}
	}

	return sm, nil
}

// widen converts a float32 to the float64 with the same shortest spelling,
// so 0.8 stays 0.8 instead of 0.800000011920929.
func widen(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}
