package material

import (
	"math"
	"testing"

	"github.com/df07/go-light-transport/pkg/core"
)

func TestMirror_Sample(t *testing.T) {
	mirror := NewMirror(core.NewVec3(0.9, 0.9, 0.9))

	rec := core.NewBSDFSampleRecord(core.NewVec3(0.6, 0, 0.8), core.Vec2{})
	weight := mirror.Sample(&rec, core.NewVec2(0.5, 0.5))
	if !rec.IsSpecular() {
		t.Error("Expected a specular lobe")
	}
	if rec.Wo.Subtract(core.NewVec3(-0.6, 0, 0.8)).Length() > 1e-12 {
		t.Errorf("Expected reflected direction (-0.6, 0, 0.8), got %v", rec.Wo)
	}
	if weight != mirror.Albedo {
		t.Errorf("Expected albedo weight, got %v", weight)
	}
	if mirror.PDF(&rec) != 0 || !mirror.Eval(&rec).IsZero() {
		t.Error("Expected zero pdf and value for a delta lobe")
	}

	back := core.NewBSDFSampleRecord(core.NewVec3(0, 0, -1), core.Vec2{})
	if !mirror.Sample(&back, core.NewVec2(0.5, 0.5)).IsZero() {
		t.Error("Expected light from behind to be absorbed")
	}
}

func TestDielectric_Sample(t *testing.T) {
	glass := NewDielectric(1.5)

	tests := []struct {
		name        string
		wi          core.Vec3
		sample      core.Vec2
		reflected   bool
		expectedEta float64
	}{
		{"entering refracts", core.NewVec3(0, 0.6, 0.8), core.NewVec2(0.99, 0), false, 1.5},
		{"entering reflects", core.NewVec3(0, 0.6, 0.8), core.NewVec2(0, 0), true, 1},
		{"exiting refracts", core.NewVec3(0, 0.3, -math.Sqrt(1-0.09)), core.NewVec2(0.99, 0), false, 1 / 1.5},
		{"total internal reflection", core.NewVec3(0, 0.9, -math.Sqrt(1-0.81)), core.NewVec2(0.99, 0), true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := core.NewBSDFSampleRecord(tt.wi, core.Vec2{})
			weight := glass.Sample(&rec, tt.sample)

			if weight != core.NewVec3(1, 1, 1) {
				t.Errorf("Expected unit weight, got %v", weight)
			}
			if !rec.IsSpecular() {
				t.Error("Expected a specular lobe")
			}
			if math.Abs(rec.Wo.Length()-1) > 1e-9 {
				t.Errorf("Expected unit direction, got length %f", rec.Wo.Length())
			}
			if reflected := rec.Wo.Z*tt.wi.Z > 0; reflected != tt.reflected {
				t.Errorf("Expected reflected=%v, got direction %v", tt.reflected, rec.Wo)
			}
			if math.Abs(rec.Eta-tt.expectedEta) > 1e-12 {
				t.Errorf("Expected eta %f, got %f", tt.expectedEta, rec.Eta)
			}
		})
	}
}

func TestDielectric_SnellsLaw(t *testing.T) {
	glass := NewDielectric(1.5)
	wi := core.NewVec3(0, 0.6, 0.8)

	rec := core.NewBSDFSampleRecord(wi, core.Vec2{})
	glass.Sample(&rec, core.NewVec2(0.99, 0))

	sinI := math.Sqrt(wi.X*wi.X + wi.Y*wi.Y)
	sinT := math.Sqrt(rec.Wo.X*rec.Wo.X + rec.Wo.Y*rec.Wo.Y)
	if math.Abs(sinI-1.5*sinT) > 1e-9 {
		t.Errorf("Snell's law violated: sinI=%f sinT=%f", sinI, sinT)
	}
}

func TestReflectance(t *testing.T) {
	// Normal incidence on glass: ((1-1.5)/(1+1.5))² = 0.04
	if r := Reflectance(1, 1/1.5); math.Abs(r-0.04) > 1e-12 {
		t.Errorf("Expected 0.04, got %f", r)
	}
	if r := Reflectance(0, 1/1.5); math.Abs(r-1) > 1e-12 {
		t.Errorf("Expected 1 at grazing incidence, got %f", r)
	}
}
