package defold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitOrder(t *testing.T) {
	out, err := Convert(texturedScene(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"main/materials/hero.material",
		"main/materials/rock.material",
		"main/models/Hero.model",
		"main/gameobjects/Hero.go",
		"main/models/RockA.model",
		"main/gameobjects/RockA.go",
		"main/models/RockB.model",
		"main/gameobjects/RockB.go",
		"main/scene.collection",
		"main/scene.collectionproxy",
	}, out.Paths())
	assert.Equal(t, 10, out.Len())
	assert.Len(t, out.Map(), out.Len())

	_, ok := out.Get("main/missing.go")
	assert.False(t, ok)
}

func TestEmitCollectionInstances(t *testing.T) {
	out, err := Convert(texturedScene(), nil)
	require.NoError(t, err)

	text, ok := out.Get("main/scene.collection")
	require.True(t, ok)
	doc, err := Parse([]byte(text), nil)
	require.NoError(t, err)

	var ids, protos []string
	for _, inst := range doc.Blocks("instances") {
		id, _ := inst.Scalar("id")
		proto, _ := inst.Scalar("prototype")
		ids = append(ids, id)
		protos = append(protos, proto)
	}
	assert.Equal(t, []string{"Hero", "RockA", "RockB"}, ids)
	assert.Equal(t, []string{
		"/main/gameobjects/Hero.go",
		"/main/gameobjects/RockA.go",
		"/main/gameobjects/RockB.go",
	}, protos)

	// Every prototype is an emitted game object.
	for _, proto := range protos {
		_, ok := out.Get(RelPath(proto))
		assert.True(t, ok, proto)
	}
}

func TestEmitEmptyScene(t *testing.T) {
	out, err := Convert(&Scene{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"main/scene.collection", "main/scene.collectionproxy"}, out.Paths())

	text, _ := out.Get("main/scene.collection")
	assert.Equal(t, "name: \"scene\"\nscale_along_z: 0\n", text)
}

func TestEmitIndent(t *testing.T) {
	out, err := Convert(heroScene(), &Options{Indent: "    "})
	require.NoError(t, err)

	text, _ := out.Get("main/gameobjects/Hero.go")
	assert.Equal(t, "components {\n    id: \"model\"\n    component: \"/main/models/Hero.model\"\n}\n", text)
}

func TestOutputWriteDir(t *testing.T) {
	out, err := Convert(heroScene(), nil)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, out.WriteDir(dir))

	for _, f := range out.Files() {
		b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f.Path)))
		require.NoError(t, err)
		assert.Equal(t, f.Content, string(b))
	}

	doc, err := DecodeFile(filepath.Join(dir, "main", "materials", "skin.material"), nil)
	require.NoError(t, err)
	name, _ := doc.Scalar("name")
	assert.Equal(t, "skin", name)
}

func TestOutputWriteDirContained(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "project")

	out := &Output{files: []File{
		{Path: "main/scene.collection", Content: "name: \"scene\"\n"},
		{Path: "main/../../escaped.model", Content: "name: \"escaped\"\n"},
	}}
	require.Error(t, out.WriteDir(dir))

	_, err := os.Stat(filepath.Join(root, "escaped.model"))
	assert.True(t, os.IsNotExist(err), "file written outside the target")
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "nothing is written when a path is refused")
}

func TestEmitModelsWithoutGameObjects(t *testing.T) {
	p, err := Build(texturedScene(), nil)
	require.NoError(t, err)

	p.GameObjects = p.GameObjects[:1]
	out, err := p.Emit()
	assert.ErrorIs(t, err, ErrMalformedScene)
	assert.Nil(t, out)
}

func TestEncodeFile(t *testing.T) {
	p, err := Build(heroScene(), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Hero.model")
	require.NoError(t, EncodeFile(path, p.Models[0].Document(), nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, heroModel, string(b))
}
