package photon

import (
	"math"
	"testing"

	"github.com/df07/go-light-transport/pkg/core"
)

func TestKernels_DegenerateRadius(t *testing.T) {
	ph := NewPhoton(core.Vec3{}, core.Vec3{}, core.NewVec3(1, 1, 1), core.NewVec3(0, 1, 0), 0)
	kernels := map[string]Kernel{
		"gaussian":     Gaussian,
		"epanechnikov": Epanechnikov,
		"linear":       Linear,
	}

	for name, kernel := range kernels {
		for _, radius := range []float64{0, -1, math.Inf(1), math.NaN()} {
			got := kernel(&ph, core.NewVec3(0.1, 0, 0), radius)
			if got != (core.Vec3{}) {
				t.Errorf("%s with radius %v: expected zero, got %v", name, radius, got)
			}
		}
	}
}

func TestGaussianKernel_Values(t *testing.T) {
	energy := core.NewVec3(2, 2, 2)
	ph := NewPhoton(core.Vec3{}, core.Vec3{}, energy, core.NewVec3(0, 1, 0), 0)
	radius := 0.5
	coef := 1 / (radius * radius * math.Pi)

	// At the photon the weight is the full alpha
	center := Gaussian(&ph, core.Vec3{}, radius)
	if math.Abs(center.X-2*coef*GaussianAlpha) > 1e-12 {
		t.Errorf("Center: expected %f, got %f", 2*coef*GaussianAlpha, center.X)
	}

	// At the search radius
	a := (1 - math.Exp(-GaussianBeta/2)) / (1 - math.Exp(-GaussianBeta))
	edge := Gaussian(&ph, core.NewVec3(radius, 0, 0), radius)
	expected := 2 * coef * GaussianAlpha * (1 - a)
	if math.Abs(edge.X-expected) > 1e-12 {
		t.Errorf("Edge: expected %f, got %f", expected, edge.X)
	}
	if edge.X >= center.X {
		t.Error("Expected weight to fall off with distance")
	}
}

func TestKernelFor(t *testing.T) {
	for _, kt := range []KernelType{KernelGaussian, KernelEpanechnikov, KernelLinear, ""} {
		if _, err := KernelFor(kt); err != nil {
			t.Errorf("KernelFor(%q): unexpected error %v", kt, err)
		}
	}
	if _, err := KernelFor("box"); err == nil {
		t.Error("Expected error for unknown kernel")
	}
}

func TestGather_RejectsMismatchedNormals(t *testing.T) {
	up := NewPhoton(core.Vec3{}, core.Vec3{}, core.NewVec3(1, 1, 1), core.NewVec3(0, 1, 0), 0)
	side := NewPhoton(core.Vec3{}, core.Vec3{}, core.NewVec3(1, 1, 1), core.NewVec3(1, 0, 0), 0)
	neighbors := []Neighbor{{Photon: &up}, {Photon: &side}}

	got := Gather(neighbors, core.Vec3{}, core.NewVec3(0, 1, 0), 1, Epanechnikov, 0.7)
	expected := Epanechnikov(&up, core.Vec3{}, 1)
	if got != expected {
		t.Errorf("Expected only the aligned photon %v, got %v", expected, got)
	}

	if got := Gather(neighbors, core.Vec3{}, core.NewVec3(0, 1, 0), math.Inf(1), Gaussian, 0.7); got != (core.Vec3{}) {
		t.Errorf("Expected zero for infinite radius, got %v", got)
	}
}
