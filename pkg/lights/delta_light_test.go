package lights

import (
	"math"
	"testing"

	"github.com/df07/go-light-transport/pkg/core"
)

func TestPointLight_Sample(t *testing.T) {
	intensity := core.NewVec3(8, 8, 8)
	light := NewPointLight(core.NewVec3(0, 2, 0), intensity)

	if !core.IsDeltaEmitter(light) {
		t.Error("Expected point light to be a delta emitter")
	}

	rec := core.NewEmitterQueryRecord(core.Vec3{})
	le := light.Sample(&rec, core.NewVec2(0.1, 0.9), 0.5)

	if le.Subtract(core.NewVec3(2, 2, 2)).Length() > 1e-12 {
		t.Errorf("Expected I/d² = 2, got %v", le)
	}
	if rec.PDF != 1 {
		t.Errorf("Expected pdf 1, got %f", rec.PDF)
	}
	if rec.Wi.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("Expected wi +Y, got %v", rec.Wi)
	}
	if !light.Eval(&rec).IsZero() {
		t.Error("Expected zero Eval for a point light")
	}

	// Coincident reference point
	at := core.NewEmitterQueryRecord(light.Position)
	if le := light.Sample(&at, core.Vec2{}, 0); !le.IsZero() || !le.IsFinite() {
		t.Errorf("Expected zero at the light position, got %v", le)
	}
}

func TestPointLight_TraceRay(t *testing.T) {
	intensity := core.NewVec3(1, 2, 3)
	light := NewPointLight(core.NewVec3(1, 1, 1), intensity)
	sampler := core.NewSeededSampler(42)

	expected := intensity.Multiply(4 * math.Pi)
	for i := 0; i < 20; i++ {
		ray, energy := light.TraceRay(sampler)
		if ray.Origin != light.Position {
			t.Fatalf("Expected ray from the light position, got %v", ray.Origin)
		}
		if math.Abs(ray.Direction.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit direction, got %v", ray.Direction)
		}
		if energy.Subtract(expected).Length() > 1e-9 {
			t.Fatalf("Expected energy %v, got %v", expected, energy)
		}
	}
}

func TestSpotLight_Falloff(t *testing.T) {
	light := NewSpotLight(core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 30, 10)

	tests := []struct {
		name     string
		ref      core.Vec3
		expected float64
	}{
		{"on axis", core.NewVec3(0, 0, 0), 1},
		{"inside inner cone", core.NewVec3(math.Tan(10*math.Pi/180), 0, 0), 1},
		{"outside cone", core.NewVec3(math.Tan(40*math.Pi/180), 0, 0), 0},
		{"behind", core.NewVec3(0, 2, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := core.NewEmitterQueryRecord(tt.ref)
			le := light.Sample(&rec, core.Vec2{}, 0)
			got := le.X * rec.Distance * rec.Distance
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected attenuation %f, got %f", tt.expected, got)
			}
		})
	}

	// Falloff region is strictly between the two
	rec := core.NewEmitterQueryRecord(core.NewVec3(math.Tan(25*math.Pi/180), 0, 0))
	le := light.Sample(&rec, core.Vec2{}, 0)
	if got := le.X * rec.Distance * rec.Distance; got <= 0 || got >= 1 {
		t.Errorf("Expected partial attenuation, got %f", got)
	}
}

func TestSpotLight_TraceRayStaysInCone(t *testing.T) {
	light := NewSpotLight(core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 30, 5)
	sampler := core.NewSeededSampler(5)
	cosTotal := math.Cos(30 * math.Pi / 180)

	for i := 0; i < 100; i++ {
		ray, energy := light.TraceRay(sampler)
		if ray.Direction.Dot(core.NewVec3(0, -1, 0)) < cosTotal-1e-9 {
			t.Fatalf("Direction %v outside the cone", ray.Direction)
		}
		if !energy.IsFinite() || energy.X < 0 {
			t.Fatalf("Invalid energy %v", energy)
		}
	}
}

func TestEnvironmentLight(t *testing.T) {
	radiance := core.NewVec3(0.5, 0.5, 0.5)
	light := NewEnvironmentLight(radiance)
	if err := light.Preprocess(core.NewVec3(1, 0, 0), 2); err != nil {
		t.Fatal(err)
	}

	rec := core.NewEmitterQueryRecord(core.Vec3{})
	le := light.Sample(&rec, core.NewVec2(0.3, 0.7), 0)
	if le != radiance {
		t.Errorf("Expected %v, got %v", radiance, le)
	}
	if !math.IsInf(rec.Distance, 1) {
		t.Errorf("Expected infinite distance, got %f", rec.Distance)
	}
	if math.Abs(rec.PDF-1/(4*math.Pi)) > 1e-12 {
		t.Errorf("Expected uniform sphere pdf, got %f", rec.PDF)
	}

	sampler := core.NewSeededSampler(9)
	expected := radiance.Multiply(math.Pi * 4 * 4 * math.Pi)
	for i := 0; i < 50; i++ {
		ray, energy := light.TraceRay(sampler)
		if energy.Subtract(expected).Length() > 1e-9 {
			t.Fatalf("Expected energy %v, got %v", expected, energy)
		}
		// Every ray passes within the world radius of the center
		toCenter := core.NewVec3(1, 0, 0).Subtract(ray.Origin)
		perpendicular := toCenter.Subtract(ray.Direction.Multiply(toCenter.Dot(ray.Direction)))
		if perpendicular.Length() > 2+1e-9 {
			t.Fatalf("Ray misses the scene bounds by %f", perpendicular.Length()-2)
		}
	}
}
