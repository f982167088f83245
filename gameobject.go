package defold

// GameObject instantiates one model component.
type GameObject struct {
	name  string
	model string
}

// modelComponentID is the component id of the model inside a game object.
const modelComponentID = "model"

// Name returns the game object name (the node name).
func (g *GameObject) Name() string { return g.name }

// ModelPath returns the referenced model path.
func (g *GameObject) ModelPath() string { return g.model }

// Document builds the text tree of the game object.
func (g *GameObject) Document() *Document {
	return NewDocument().Block("components", NewDocument().
		String("id", modelComponentID).
		String("component", g.model))
}

// MarshalText renders the game object with default formatting.
func (g *GameObject) MarshalText() ([]byte, error) {
	return Format(g.Document(), nil)
}
