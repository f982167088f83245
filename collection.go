package defold

// Instance is a named game object instance inside a collection.
type Instance struct {
	ID        string `json:"id" yaml:"id"`               // Instance name
	Prototype string `json:"prototype" yaml:"prototype"` // Game object path
}

// Collection is an ordered set of game object instances.
type Collection struct {
	name      string
	instances []Instance
	index     map[string]int
}

// NewCollection returns an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{name: name, index: make(map[string]int)}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Instances returns instances in insertion order.
func (c *Collection) Instances() []Instance {
	return append([]Instance(nil), c.instances...)
}

// AddInstance appends an instance. Instance ids are unique within a collection.
func (c *Collection) AddInstance(id, prototype string) error {
	if i, ok := c.index[id]; ok {
		return &DuplicateNameError{Kind: EntityNode, Name: id, First: i, Index: len(c.instances)}
	}
	c.index[id] = len(c.instances)
	c.instances = append(c.instances, Instance{ID: id, Prototype: prototype})
	return nil
}

// Document builds the text tree of the collection.
func (c *Collection) Document() *Document {
	d := NewDocument().String("name", c.name)
	for _, inst := range c.instances {
		d.Block("instances", NewDocument().
			String("id", inst.ID).
			String("prototype", inst.Prototype))
	}
	return d.Ident("scale_along_z", "0")
}

// MarshalText renders the collection with default formatting.
func (c *Collection) MarshalText() ([]byte, error) {
	return Format(c.Document(), nil)
}

// CollectionProxy lets the engine load a collection lazily.
type CollectionProxy struct {
	collection string
}

// CollectionPath returns the proxied collection path.
func (p *CollectionProxy) CollectionPath() string { return p.collection }

// Document builds the text tree of the proxy.
func (p *CollectionProxy) Document() *Document {
	return NewDocument().
		String("collection", p.collection).
		Ident("exclude", "false")
}

// MarshalText renders the proxy with default formatting.
func (p *CollectionProxy) MarshalText() ([]byte, error) {
	return Format(p.Document(), nil)
}
