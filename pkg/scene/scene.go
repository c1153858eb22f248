package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-light-transport/pkg/core"
	"github.com/df07/go-light-transport/pkg/geometry"
	"github.com/df07/go-light-transport/pkg/lights"
)

// Nearest hit distance accepted by RayIntersect, keeps rays leaving a surface from hitting it again
const RayEpsilon = 1e-4

// Scene contains everything an integrator reads while rendering.
// Build it with the Add* methods, then call Preprocess once before use.
type Scene struct {
	Shapes       []geometry.Shape             // Objects in the scene
	Lights       []core.Emitter               // Lights in the scene
	LightSampler *lights.WeightedLightSampler // Light selection, uniform unless set before Preprocess
	Background   core.Vec3                    // Radiance of escaped rays when there is no environment light
	Environment  *lights.EnvironmentLight     // Optional environment light, also present in Lights
	BVH          *geometry.BVH                // Acceleration structure for ray-object intersection
	Sampler      core.Sampler                 // Base sample generator, cloned per worker
}

// NewScene creates an empty scene with a black background and a seeded base sampler
func NewScene(seed int64) *Scene {
	return &Scene{Sampler: core.NewSeededSampler(seed)}
}

// AddShape adds a non-emissive shape
func (s *Scene) AddShape(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// AddQuadLight adds a rectangular area light emitting on the side of u × v
func (s *Scene) AddQuadLight(corner, u, v, radiance core.Vec3) *lights.AreaLight {
	light, quad := lights.NewQuadLight(corner, u, v, radiance)
	s.Lights = append(s.Lights, light)
	s.Shapes = append(s.Shapes, quad)
	return light
}

// AddSphereLight adds a spherical area light
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, radiance core.Vec3) *lights.AreaLight {
	light, sphere := lights.NewSphereLight(center, radius, radiance)
	s.Lights = append(s.Lights, light)
	s.Shapes = append(s.Shapes, sphere)
	return light
}

// AddPointLight adds an isotropic point light
func (s *Scene) AddPointLight(position, intensity core.Vec3) *lights.PointLight {
	light := lights.NewPointLight(position, intensity)
	s.Lights = append(s.Lights, light)
	return light
}

// AddSpotLight adds a point spot light with custom cone angle and falloff
func (s *Scene) AddSpotLight(from, to, intensity core.Vec3, coneAngleDegrees, coneDeltaAngleDegrees float64) *lights.SpotLight {
	light := lights.NewSpotLight(from, to, intensity, coneAngleDegrees, coneDeltaAngleDegrees)
	s.Lights = append(s.Lights, light)
	return light
}

// SetEnvironment surrounds the scene with constant radiance. It replaces Background.
func (s *Scene) SetEnvironment(radiance core.Vec3) *lights.EnvironmentLight {
	if s.Environment != nil {
		for i, light := range s.Lights {
			if light == core.Emitter(s.Environment) {
				s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
				break
			}
		}
	}
	s.Environment = lights.NewEnvironmentLight(radiance)
	s.Lights = append(s.Lights, s.Environment)
	return s.Environment
}

// Validate reports scene setup defects: lights without a shape and
// non-emissive shapes without a material
func (s *Scene) Validate() error {
	for i, light := range s.Lights {
		if v, ok := light.(core.Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("light %d: %w", i, err)
			}
		}
	}

	for i, shape := range s.Shapes {
		bound, ok := shape.(geometry.Bound)
		if !ok {
			continue
		}
		if surface := bound.Bindings(); surface.BSDF == nil && surface.Emitter == nil {
			return fmt.Errorf("shape %d (%T): %w", i, shape, core.ErrMissingBSDF)
		}
	}

	if s.Sampler == nil {
		return fmt.Errorf("scene has no sampler")
	}
	return nil
}

// Preprocess validates the scene, builds the BVH, hands the scene bounds to
// lights that need them and creates the light sampler
func (s *Scene) Preprocess() error {
	if err := s.Validate(); err != nil {
		return err
	}

	s.BVH = geometry.NewBVH(s.Shapes)

	center, radius := s.BVH.Center, s.BVH.Radius
	if s.BVH.Root == nil {
		center, radius = core.Vec3{}, 1
	}
	for _, light := range s.Lights {
		if preprocessor, ok := light.(lights.Preprocessor); ok {
			if err := preprocessor.Preprocess(center, radius); err != nil {
				return err
			}
		}
	}

	if s.LightSampler == nil || s.LightSampler.Count() != len(s.Lights) {
		s.LightSampler = lights.NewUniformLightSampler(s.Lights)
	}
	return nil
}

// RayIntersect finds the closest surface along the ray
func (s *Scene) RayIntersect(ray core.Ray) (core.Intersection, bool) {
	if s.BVH == nil {
		return core.Intersection{}, false
	}
	return s.BVH.Hit(ray, RayEpsilon, math.Inf(1))
}

// SampleEmitter picks one light with the light sampler's density
func (s *Scene) SampleEmitter(u float64) (core.Emitter, float64) {
	emitter, pdf, _ := s.SampleDirect(u)
	return emitter, pdf
}

// SampleDirect is SampleEmitter that also reports the chosen light's index
func (s *Scene) SampleDirect(u float64) (core.Emitter, float64, int) {
	if s.LightSampler == nil {
		return nil, 0, -1
	}
	return s.LightSampler.SampleLight(u)
}

// PdfEmitter returns the selection probability of the given light
func (s *Scene) PdfEmitter(emitter core.Emitter) float64 {
	if s.LightSampler == nil || emitter == nil {
		return 0
	}
	return s.LightSampler.ProbabilityOf(emitter)
}

// GetBackground returns radiance for rays that escape the scene
func (s *Scene) GetBackground(ray core.Ray) core.Vec3 {
	if s.Environment != nil {
		rec := core.NewEnvironmentRecord(s.Environment, ray)
		return s.Environment.Eval(&rec)
	}
	return s.Background
}

// GetEnvironmentEmitter returns the environment light, or nil
func (s *Scene) GetEnvironmentEmitter() core.Emitter {
	if s.Environment == nil {
		return nil
	}
	return s.Environment
}

// GetLights returns all lights in selection order
func (s *Scene) GetLights() []core.Emitter {
	return s.Lights
}

// GetSampler returns the base sample generator
func (s *Scene) GetSampler() core.Sampler {
	return s.Sampler
}
