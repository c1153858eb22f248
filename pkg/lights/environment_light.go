package lights

import (
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// EnvironmentLight surrounds the scene with constant radiance
type EnvironmentLight struct {
	Radiance    core.Vec3
	worldCenter core.Vec3 // Finite scene center from BVH
	worldRadius float64   // Finite scene radius from BVH
}

// NewEnvironmentLight creates a constant environment light
func NewEnvironmentLight(radiance core.Vec3) *EnvironmentLight {
	return &EnvironmentLight{Radiance: radiance, worldRadius: 1}
}

func (el *EnvironmentLight) Type() core.EmitterType {
	return core.EmitterEnvironment
}

// Sample picks a direction uniformly on the sphere. The light is infinitely far away.
func (el *EnvironmentLight) Sample(rec *core.EmitterQueryRecord, sample core.Vec2, u float64) core.Vec3 {
	rec.Emitter = el
	rec.Wi = core.SampleOnUnitSphere(sample)
	rec.Normal = rec.Wi.Negate()
	rec.Distance = math.Inf(1)
	rec.Point = rec.Ref.Add(rec.Wi.Multiply(2 * el.worldRadius))
	rec.PDF = el.PDF(rec)
	return el.Radiance
}

// Eval returns the same radiance in every direction
func (el *EnvironmentLight) Eval(rec *core.EmitterQueryRecord) core.Vec3 {
	return el.Radiance
}

// PDF is the uniform sphere density
func (el *EnvironmentLight) PDF(rec *core.EmitterQueryRecord) float64 {
	return core.UniformSpherePDF()
}

// TraceRay emits parallel rays from a disk of the scene's radius facing a uniform direction
func (el *EnvironmentLight) TraceRay(sampler core.Sampler) (core.Ray, core.Vec3) {
	direction := core.SampleOnUnitSphere(sampler.Get2D())
	frame := core.NewFrame(direction)

	disk := core.SamplePointInUnitDisk(sampler.Get2D())
	diskPoint := el.worldCenter.
		Add(frame.S.Multiply(disk.X * el.worldRadius)).
		Add(frame.T.Multiply(disk.Y * el.worldRadius))

	// Start behind the disk so every ray crosses the whole scene
	origin := diskPoint.Add(direction.Multiply(-el.worldRadius))

	areaPDF := 1.0 / (math.Pi * el.worldRadius * el.worldRadius)
	directionPDF := core.UniformSpherePDF()
	return core.NewRay(origin, direction), el.Radiance.Divide(areaPDF * directionPDF)
}

// Preprocess implements the Preprocessor interface - sets world bounds from scene
func (el *EnvironmentLight) Preprocess(worldCenter core.Vec3, worldRadius float64) error {
	el.worldCenter = worldCenter
	if worldRadius > 0 {
		el.worldRadius = worldRadius
	}
	return nil
}
