package defold

// valueKind represents the kind of a field value.
type valueKind int

const (
	// valueNumber indicates numeric literal.
	valueNumber valueKind = iota
	// valueString indicates quoted string literal.
	valueString
	// valueIdent indicates bare identifier literal (enums, booleans, integers).
	valueIdent
)

// value represents a scalar field value.
type value struct {
	Str  string    // String, identifier, or literal number spelling
	Kind valueKind // Value kind
	Num  float64   // Number value
}

// node is a document tree node.
type node interface {
	node()
}

// fieldNode represents `name: value` scalar fields.
type fieldNode struct {
	Name  string // Field name
	Value value  // Field value
}

// node implements the node interface.
func (fieldNode) node() {}

// blockNode represents `name { ... }` nested blocks.
type blockNode struct {
	Name string // Block name
	Body []node // Ordered block fields
}

// node implements the node interface.
func (blockNode) node() {}

// Document is an ordered field tree of the text format.
// Repeated fields keep the order they were added in.
type Document struct {
	nodes []node
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// String appends a quoted string field.
func (d *Document) String(name, s string) *Document {
	d.nodes = append(d.nodes, fieldNode{Name: name, Value: value{Kind: valueString, Str: s}})
	return d
}

// Ident appends a bare token field (enum value, boolean, integer).
func (d *Document) Ident(name, s string) *Document {
	d.nodes = append(d.nodes, fieldNode{Name: name, Value: value{Kind: valueIdent, Str: s}})
	return d
}

// Number appends a floating point field.
func (d *Document) Number(name string, v float64) *Document {
	d.nodes = append(d.nodes, fieldNode{Name: name, Value: value{Kind: valueNumber, Num: v}})
	return d
}

// Block appends a nested block field.
func (d *Document) Block(name string, body *Document) *Document {
	bn := blockNode{Name: name}
	if body != nil {
		bn.Body = body.nodes
	}
	d.nodes = append(d.nodes, bn)
	return d
}

// Len returns the number of top-level fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.nodes)
}

// Scalar returns the first scalar field with the given name.
func (d *Document) Scalar(name string) (string, bool) {
	vals := d.Scalars(name)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Scalars returns every top-level scalar field with the given name in order.
// Numbers are returned in their rendered spelling.
func (d *Document) Scalars(name string) []string {
	if d == nil {
		return nil
	}

	var out []string
	for _, n := range d.nodes {
		f, ok := n.(fieldNode)
		if !ok || f.Name != name {
			continue
		}
		if f.Value.Kind == valueNumber && f.Value.Str == "" {
			out = append(out, formatFloat(f.Value.Num))
			continue
		}
		out = append(out, f.Value.Str)
	}

	return out
}

// Blocks returns every top-level block with the given name in order.
func (d *Document) Blocks(name string) []*Document {
	if d == nil {
		return nil
	}

	var out []*Document
	for _, n := range d.nodes {
		b, ok := n.(blockNode)
		if !ok || b.Name != name {
			continue
		}
		out = append(out, &Document{nodes: b.Body})
	}

	return out
}
