package component

import "math"

// Transform is the local placement of an entity relative to its parent in the
// scene hierarchy. It is also the hierarchy's anchor: only entities with a
// Transform can have a parent or children.
type Transform struct {
	X, Y     float64
	Rotation float64 // radians
	ScaleX   float64
	ScaleY   float64
}

// WorldTransform is the placement after composing every ancestor. It is
// derived by TransformSystem each tick; never write it directly.
type WorldTransform struct {
	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
}

// Identity returns a transform at the origin with unit scale.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Root lifts a local transform of a root entity into world space.
func (t Transform) Root() WorldTransform {
	return WorldTransform{X: t.X, Y: t.Y, Rotation: t.Rotation, ScaleX: t.ScaleX, ScaleY: t.ScaleY}
}

// Compose places t inside parent: the offset is scaled and rotated by the
// parent before being added to its position.
func (t Transform) Compose(parent WorldTransform) WorldTransform {
	sx := t.X * parent.ScaleX
	sy := t.Y * parent.ScaleY
	sin, cos := math.Sincos(parent.Rotation)
	return WorldTransform{
		X:        parent.X + sx*cos - sy*sin,
		Y:        parent.Y + sx*sin + sy*cos,
		Rotation: parent.Rotation + t.Rotation,
		ScaleX:   parent.ScaleX * t.ScaleX,
		ScaleY:   parent.ScaleY * t.ScaleY,
	}
}
