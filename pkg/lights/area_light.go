package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-light-transport/pkg/core"
	"github.com/df07/go-light-transport/pkg/geometry"
)

// AreaLight emits constant radiance from the front side of a shape
type AreaLight struct {
	Radiance core.Vec3
	shape    geometry.SampleableShape
}

// NewAreaLight creates an area light. It must be attached to a shape before use.
func NewAreaLight(radiance core.Vec3) *AreaLight {
	return &AreaLight{Radiance: radiance}
}

// NewQuadLight creates a quad and attaches a new area light to it.
// The light emits on the side of U × V.
func NewQuadLight(corner, u, v, radiance core.Vec3) (*AreaLight, *geometry.Quad) {
	quad := geometry.NewQuad(corner, u, v, nil)
	light := NewAreaLight(radiance)
	light.Attach(quad)
	return light, quad
}

// NewSphereLight creates a sphere and attaches a new area light to it
func NewSphereLight(center core.Vec3, radius float64, radiance core.Vec3) (*AreaLight, *geometry.Sphere) {
	sphere := geometry.NewSphere(center, radius, nil)
	light := NewAreaLight(radiance)
	light.Attach(sphere)
	return light, sphere
}

// Attach binds the light to a shape and marks the shape as emissive
func (al *AreaLight) Attach(shape geometry.SampleableShape) {
	al.shape = shape
	shape.SetEmitter(al)
}

// Shape returns the attached shape, or nil
func (al *AreaLight) Shape() geometry.SampleableShape {
	return al.shape
}

// Validate reports an area light that has no shape
func (al *AreaLight) Validate() error {
	if al.shape == nil {
		return fmt.Errorf("area light %v: %w", al.Radiance, core.ErrUnattachedEmitter)
	}
	return nil
}

func (al *AreaLight) mustShape() geometry.SampleableShape {
	if al.shape == nil {
		panic(fmt.Errorf("area light %v: %w", al.Radiance, core.ErrUnattachedEmitter))
	}
	return al.shape
}

func (al *AreaLight) Type() core.EmitterType {
	return core.EmitterArea
}

// Sample picks a point uniformly on the shape's surface
func (al *AreaLight) Sample(rec *core.EmitterQueryRecord, sample core.Vec2, u float64) core.Vec3 {
	shape := al.mustShape()

	rec.Emitter = al
	rec.Point, rec.Normal, rec.UV = shape.SamplePosition(sample)
	toLight := rec.Point.Subtract(rec.Ref)
	rec.Distance = toLight.Length()
	if rec.Distance == 0 {
		rec.PDF = 0
		return core.Vec3{}
	}
	rec.Wi = toLight.Divide(rec.Distance)
	rec.PDF = al.PDF(rec)

	return al.Eval(rec)
}

// Eval returns the radiance toward rec.Ref, zero from the back side
func (al *AreaLight) Eval(rec *core.EmitterQueryRecord) core.Vec3 {
	al.mustShape()

	if rec.Normal.Dot(rec.Wi.Negate()) < 0 {
		return core.Vec3{}
	}
	return al.Radiance
}

// PDF converts the uniform area density to solid angle: d²/(A·|cosθ|)
func (al *AreaLight) PDF(rec *core.EmitterQueryRecord) float64 {
	shape := al.mustShape()

	cosTheta := math.Abs(rec.Normal.Dot(rec.Wi))
	area := shape.Area()
	if cosTheta == 0 || area == 0 {
		return 0
	}
	return rec.Distance * rec.Distance / (area * cosTheta)
}

// TraceRay emits from a uniform surface point in a cosine-weighted direction
func (al *AreaLight) TraceRay(sampler core.Sampler) (core.Ray, core.Vec3) {
	shape := al.mustShape()

	point, normal, _ := shape.SamplePosition(sampler.Get2D())
	posPdf := 1.0 / shape.Area()

	frame := core.NewFrame(normal.Normalize())
	local := core.SquareToCosineHemisphere(sampler.Get2D())
	dirPdf := core.SquareToCosineHemispherePDF(local)
	direction := frame.ToWorld(local)

	if dirPdf == 0 || math.IsInf(posPdf, 0) {
		return core.NewRay(point, direction), core.Vec3{}
	}
	energy := al.Radiance.Multiply(math.Abs(frame.N.Dot(direction)) / (posPdf * dirPdf))
	return core.NewRay(point, direction), energy
}
