package integrator

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-light-transport/pkg/core"
)

// PhotonStats summarizes a photon mapper emission pass
type PhotonStats struct {
	CausticPhotons int           // Photons stored in the caustic map
	GlobalPhotons  int           // Photons stored in the global map
	RaysTraced     int           // Photon rays emitted across all workers
	RaysPerLight   []int         // Rays emitted per light, indexed like scene.GetLights()
	Workers        int           // Emission workers used
	Duration       time.Duration // Wall time of the emission pass
}

func (ps PhotonStats) String() string {
	return fmt.Sprintf("%d caustic, %d global photons from %d rays (%d workers, %v)",
		ps.CausticPhotons, ps.GlobalPhotons, ps.RaysTraced, ps.Workers, ps.Duration)
}

// SampleStats accumulates radiance estimates for one ray
type SampleStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for the mean
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new radiance sample
func (ss *SampleStats) AddSample(color core.Vec3) {
	ss.ColorAccum = ss.ColorAccum.Add(color)
	luminance := color.Luminance()
	ss.LuminanceAccum += luminance
	ss.LuminanceSqAccum += luminance * luminance
	ss.SampleCount++
}

// GetColor returns the current average radiance
func (ss SampleStats) GetColor() core.Vec3 {
	if ss.SampleCount == 0 {
		return core.Vec3{}
	}
	return ss.ColorAccum.Multiply(1.0 / float64(ss.SampleCount))
}

// LuminanceVariance returns the sample variance of the luminance
func (ss SampleStats) LuminanceVariance() float64 {
	if ss.SampleCount < 2 {
		return 0
	}
	n := float64(ss.SampleCount)
	mean := ss.LuminanceAccum / n
	return math.Max(0, (ss.LuminanceSqAccum-n*mean*mean)/(n-1))
}

// StandardError returns the standard error of the mean luminance
func (ss SampleStats) StandardError() float64 {
	if ss.SampleCount == 0 {
		return 0
	}
	return math.Sqrt(ss.LuminanceVariance() / float64(ss.SampleCount))
}

// Estimate averages samples calls to RayColor for the same ray
func Estimate(in Integrator, ray core.Ray, scene core.Scene, sampler core.Sampler, samples int) SampleStats {
	var stats SampleStats
	for i := 0; i < samples; i++ {
		stats.AddSample(in.RayColor(ray, scene, sampler))
	}
	return stats
}
