package geometry

import (
	"github.com/df07/go-light-transport/pkg/core"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (core.Intersection, bool)
	BoundingBox() core.AABB
}

// SampleableShape is a shape an area light can be attached to
type SampleableShape interface {
	Shape

	// Area returns the surface area
	Area() float64

	// SamplePosition maps a uniform sample to a point uniformly distributed
	// over the surface, returning the point, its outward normal and uv
	SamplePosition(sample core.Vec2) (core.Vec3, core.Vec3, core.Vec2)

	// SetEmitter marks the surface as emissive
	SetEmitter(emitter core.Emitter)
}

// Surface carries the material and (optional) emitter bound to a shape
type Surface struct {
	BSDF    core.BSDF
	Emitter core.Emitter
}

// Bound is implemented by shapes that expose their material bindings
type Bound interface {
	Bindings() Surface
}

// Bindings implements Bound
func (s *Surface) Bindings() Surface {
	return *s
}

// SetEmitter implements SampleableShape
func (s *Surface) SetEmitter(emitter core.Emitter) {
	s.Emitter = emitter
}

// fill copies the surface bindings into an intersection
func (s *Surface) fill(its *core.Intersection) {
	its.BSDF = s.BSDF
	its.Emitter = s.Emitter
}

// Padding applied to flat bounding boxes so slab tests never see a zero-width box
const boxPadding = 1e-4

func padFlat(box core.AABB) core.AABB {
	size := box.Size()
	pad := core.NewVec3(0, 0, 0)
	if size.X < boxPadding {
		pad.X = boxPadding
	}
	if size.Y < boxPadding {
		pad.Y = boxPadding
	}
	if size.Z < boxPadding {
		pad.Z = boxPadding
	}
	return core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad))
}
