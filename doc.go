/*
Package defold turns a glTF scene into Defold project assets: materials,
models, game objects, a collection and a collection proxy.

The scene is walked once into an asset graph (Build), references are resolved
to project paths (Resolver), and every entity is rendered in the engine's text
format (Emit). Output is deterministic: the same scene and options always give
byte-identical files in the same order. No files are written unless asked.

Conversion example:

	scene, err := defold.OpenScene("hero.glb", nil)
	if err != nil {
		// handle error
	}

	out, err := defold.Convert(scene, nil)
	if err != nil {
		// handle error
	}

	for _, f := range out.Files() {
		_ = f.Path    // "main/materials/skin.material"
		_ = f.Content // text content
	}

Options example:

	opt, err := defold.LoadOptions("defold.toml")
	if err != nil {
		// handle error
	}
	opt.Logger = defold.NewLogger(os.Stderr, log.DebugLevel)

Material builder example:

	m, err := defold.NewMaterialBuilder("glow").
		SetVertexProgram("/builtins/materials/model.vp").
		SetFragmentProgram("/main/glow.fp").
		AddTag("model").
		AddConstant(defold.StageFragment, defold.ConstantVec4, "tint", defold.V4(1, 0.5, 0, 1)).
		Build()
	if err != nil {
		// handle error
	}
	text, _ := m.MarshalText()

Reader example:

	doc, err := defold.DecodeFile("main/materials/skin.material", nil)
	if err != nil {
		// handle error
	}
	name, _ := doc.Scalar("name")
	samplers := doc.Blocks("samplers")
*/
package defold
