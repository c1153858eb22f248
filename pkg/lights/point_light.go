package lights

import (
	"github.com/df07/go-light-transport/pkg/core"
)

// PointLight is an isotropic point source of the given intensity
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3
}

// NewPointLight creates a point light
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

func (pl *PointLight) Type() core.EmitterType {
	return core.EmitterPoint
}

// Sample returns I/d². The density is a delta, recorded as 1.
func (pl *PointLight) Sample(rec *core.EmitterQueryRecord, sample core.Vec2, u float64) core.Vec3 {
	return sampleDelta(pl, rec, pl.Position, pl.Intensity)
}

// Eval is zero: a ray cannot hit a point
func (pl *PointLight) Eval(rec *core.EmitterQueryRecord) core.Vec3 {
	return core.Vec3{}
}

// PDF is 1 by convention for delta emitters
func (pl *PointLight) PDF(rec *core.EmitterQueryRecord) float64 {
	return 1
}

// TraceRay emits in a uniformly sampled direction
func (pl *PointLight) TraceRay(sampler core.Sampler) (core.Ray, core.Vec3) {
	direction := core.SampleOnUnitSphere(sampler.Get2D())
	return core.NewRay(pl.Position, direction), pl.Intensity.Divide(core.UniformSpherePDF())
}

// sampleDelta fills rec for a light located at a single position and returns intensity/d²
func sampleDelta(emitter core.Emitter, rec *core.EmitterQueryRecord, position, intensity core.Vec3) core.Vec3 {
	rec.Emitter = emitter
	rec.Point = position
	rec.PDF = 1

	toLight := position.Subtract(rec.Ref)
	rec.Distance = toLight.Length()
	if rec.Distance == 0 {
		return core.Vec3{}
	}
	rec.Wi = toLight.Divide(rec.Distance)
	rec.Normal = rec.Wi.Negate()
	return intensity.Divide(rec.Distance * rec.Distance)
}
