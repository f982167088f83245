package defold

// Vec4 is a four component shader constant value.
type Vec4 struct {
	X float64 `json:"x" yaml:"x"` // X component
	Y float64 `json:"y" yaml:"y"` // Y component
	Z float64 `json:"z" yaml:"z"` // Z component
	W float64 `json:"w" yaml:"w"` // W component
}

// Mat4 is a 4x4 matrix stored as four rows.
type Mat4 [4]Vec4

// V4 creates a Vec4 from components.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		{X: 1},
		{Y: 1},
		{Z: 1},
		{W: 1},
	}
}

// ToArray converts the vector to a float array.
func (v Vec4) ToArray() []float64 {
	return []float64{v.X, v.Y, v.Z, v.W}
}

// Rows returns the matrix rows in order.
func (m Mat4) Rows() []Vec4 {
	return []Vec4{m[0], m[1], m[2], m[3]}
}

// document renders the vector as `{x y z w}` fields.
func (v Vec4) document() *Document {
	return NewDocument().
		Number("x", v.X).
		Number("y", v.Y).
		Number("z", v.Z).
		Number("w", v.W)
}
