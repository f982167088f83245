package defold

// TextureRef is a weak reference to a scene image: its index and resolved name.
// It never holds image data.
type TextureRef struct {
	Image int    `json:"image" yaml:"image"` // Index into the scene image table
	Name  string `json:"name" yaml:"name"`   // Resolved image name
}

// clone copies the reference; nil stays nil.
func (t *TextureRef) clone() *TextureRef {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// ImageTable maps scene image indices to their resolved names for one conversion.
type ImageTable map[int]string

// NewImageTable indexes scene images by position.
// Names must be unique single path elements, since they become texture file names.
func NewImageTable(images []Image) (ImageTable, error) {
	table := make(ImageTable, len(images))
	first := make(map[string]int, len(images))
	for i, img := range images {
		if reason := nameProblem(img.Name); reason != "" {
			return nil, &MalformedSceneError{Kind: EntityImage, Name: img.Name, Index: i, Reason: "image " + reason}
		}
		if j, ok := first[img.Name]; ok {
			return nil, &DuplicateNameError{Kind: EntityImage, Name: img.Name, First: j, Index: i}
		}
		first[img.Name] = i
		table[i] = img.Name
	}

	return table, nil
}

// Ref returns the reference for an optional image index.
// A nil index yields a nil reference; ok is false for an unknown index.
func (t ImageTable) Ref(index *int) (ref *TextureRef, ok bool) {
	if index == nil {
		return nil, true
	}
	name, ok := t[*index]
	if !ok {
		return nil, false
	}

	return &TextureRef{Image: *index, Name: name}, true
}
