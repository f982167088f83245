package defold

import (
	"errors"
	"fmt"
)

var (
	// ErrLex indicates a lexer failure.
	ErrLex = errors.New("lex error")

	// ErrParse indicates a parser failure.
	ErrParse = errors.New("parse error")

	// ErrMalformedScene indicates an index out of range or a mesh shape the builder cannot map.
	ErrMalformedScene = errors.New("malformed scene")

	// ErrDuplicateName indicates two scene entities of one kind share a name.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidMaterial indicates a material rejected by MaterialBuilder.Build.
	ErrInvalidMaterial = errors.New("invalid material")

	// ErrInvalidConfig indicates options that cannot be decoded.
	ErrInvalidConfig = errors.New("invalid config")
)

// EntityKind names the kind of scene entity an error refers to.
type EntityKind string

const (
	// EntityNode is a scene node.
	EntityNode EntityKind = "node"
	// EntityMaterial is a scene material.
	EntityMaterial EntityKind = "material"
	// EntityImage is a scene image.
	EntityImage EntityKind = "image"
	// EntityMesh is a scene mesh.
	EntityMesh EntityKind = "mesh"
)

// MalformedSceneError reports scene data the builder cannot map to assets.
type MalformedSceneError struct {
	Kind   EntityKind // Kind of the offending entity
	Name   string     // Name of the offending entity, if it has one
	Index  int        // Index of the offending entity in its scene table
	Reason string     // What is wrong
}

// Error implements error.
func (e *MalformedSceneError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s %q (#%d): %s", ErrMalformedScene, e.Kind, e.Name, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s #%d: %s", ErrMalformedScene, e.Kind, e.Index, e.Reason)
}

// Is reports ErrMalformedScene equivalence.
func (e *MalformedSceneError) Is(target error) bool {
	return target == ErrMalformedScene
}

// DuplicateNameError reports a name used by more than one entity of a kind.
type DuplicateNameError struct {
	Kind  EntityKind // Kind of the clashing entities
	Name  string     // Shared name
	First int        // Index of the first entity with the name
	Index int        // Index of the clashing entity
}

// Error implements error.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %s %q at #%d already used at #%d", ErrDuplicateName, e.Kind, e.Name, e.Index, e.First)
}

// Is reports ErrDuplicateName equivalence.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}
