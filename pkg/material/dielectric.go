package material

import (
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Sample chooses reflection with probability equal to the Fresnel reflectance,
// refraction otherwise, so the sample weight is always one
func (d *Dielectric) Sample(rec *core.BSDFQueryRecord, sample core.Vec2) core.Vec3 {
	cosThetaI := core.CosTheta(rec.Wi)
	rec.Measure = core.MeasureDiscrete

	// Entering when Wi is on the outside (normal side)
	entering := cosThetaI > 0
	refractionRatio := 1.0 / d.RefractiveIndex
	if !entering {
		refractionRatio = d.RefractiveIndex
	}

	cosI := math.Min(math.Abs(cosThetaI), 1.0)
	sin2T := refractionRatio * refractionRatio * (1 - cosI*cosI)

	// Total internal reflection
	if sin2T >= 1 || sample.X < Reflectance(cosI, refractionRatio) {
		rec.Wo = reflect(rec.Wi)
		rec.Eta = 1
		return core.NewVec3(1, 1, 1)
	}

	cosT := math.Sqrt(1 - sin2T)
	if entering {
		cosT = -cosT
	}
	rec.Wo = core.NewVec3(-refractionRatio*rec.Wi.X, -refractionRatio*rec.Wi.Y, cosT)
	rec.Eta = 1 / refractionRatio
	return core.NewVec3(1, 1, 1)
}

// Eval is zero for a delta lobe
func (d *Dielectric) Eval(rec *core.BSDFQueryRecord) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for a delta lobe
func (d *Dielectric) PDF(rec *core.BSDFQueryRecord) float64 {
	return 0
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
