package photon

import (
	"fmt"
	"math"

	"github.com/df07/go-light-transport/pkg/core"
)

// KernelType names a density estimation kernel
type KernelType string

const (
	KernelGaussian     KernelType = "gaussian"
	KernelEpanechnikov KernelType = "epanechnikov"
	KernelLinear       KernelType = "linear"
)

// Gaussian filter constants from progressive photon mapping
const (
	GaussianAlpha = 0.918
	GaussianBeta  = 1.953
)

// Kernel converts a photon found within radius of point into a radiance contribution.
// Every kernel returns zero, never NaN or Inf, for a degenerate radius.
type Kernel func(ph *Photon, point core.Vec3, radius float64) core.Vec3

// KernelFor returns the kernel with the given name
func KernelFor(kernelType KernelType) (Kernel, error) {
	switch kernelType {
	case KernelGaussian, "":
		return Gaussian, nil
	case KernelEpanechnikov:
		return Epanechnikov, nil
	case KernelLinear:
		return Linear, nil
	default:
		return nil, fmt.Errorf("unknown kernel %q", kernelType)
	}
}

// Gaussian weights photons with a normalized Gaussian falloff
func Gaussian(ph *Photon, point core.Vec3, radius float64) core.Vec3 {
	if !validRadius(radius) {
		return core.Vec3{}
	}
	coef := 1 / (radius * radius * math.Pi)
	d := point.Subtract(ph.Position).Length()
	a := (1 - math.Exp(-GaussianBeta*(d*d)/(2*radius*radius))) / (1 - math.Exp(-GaussianBeta))
	return finiteOrZero(ph.Energy.Multiply(coef * GaussianAlpha * math.Abs(1-a)))
}

// Epanechnikov weights photons by 1 - (d/r)²
func Epanechnikov(ph *Photon, point core.Vec3, radius float64) core.Vec3 {
	if !validRadius(radius) {
		return core.Vec3{}
	}
	ratio := point.Subtract(ph.Position).Length() / radius
	weight := math.Abs(1-ratio*ratio) / (radius * radius * math.Pi)
	return finiteOrZero(ph.Energy.Multiply(weight))
}

// Linear weights photons by d/r over the disc area
func Linear(ph *Photon, point core.Vec3, radius float64) core.Vec3 {
	if !validRadius(radius) {
		return core.Vec3{}
	}
	ratio := point.Subtract(ph.Position).Length() / radius
	return finiteOrZero(ph.Energy.Multiply(ratio / (radius * radius * math.Pi)))
}

// Gather sums kernel contributions from neighbors whose deposit normal agrees
// with the query normal (dot product at least normalThreshold)
func Gather(neighbors []Neighbor, point, normal core.Vec3, radius float64, kernel Kernel, normalThreshold float64) core.Vec3 {
	var sum core.Vec3
	if !validRadius(radius) {
		return sum
	}
	for _, n := range neighbors {
		if n.Photon.Normal.Dot(normal) < normalThreshold {
			continue
		}
		sum = sum.Add(kernel(n.Photon, point, radius))
	}
	return sum
}

func validRadius(radius float64) bool {
	return radius > 0 && !math.IsInf(radius, 0) && !math.IsNaN(radius)
}

func finiteOrZero(v core.Vec3) core.Vec3 {
	if !v.IsFinite() {
		return core.Vec3{}
	}
	return v
}
