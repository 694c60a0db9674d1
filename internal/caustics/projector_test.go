package caustics

import (
	"math"
	"testing"

	mgl32 "github.com/go-gl/mathgl/mgl32"

	"Ripple3D/internal/field"
	"Ripple3D/internal/optics"
	"Ripple3D/internal/sim"
)

func testProjector(res int) (*Projector, *Map, *field.Plane) {
	geom := field.NewPoolGeometry(1, 1, 1, 0.5)
	p := NewProjector(geom, mgl32.Vec3{0.45, -1, 0.6})
	return p, NewMap(res, res), field.NewPlane(res, res)
}

func TestFlatSurfaceIsNeutral(t *testing.T) {
	p, m, plane := testProjector(64)
	sim.RebuildNormals(plane, field.NewPlane(64, 64))

	p.Project(m, plane, optics.Sphere{})
	for y := 8; y < 56; y++ {
		for x := 8; x < 56; x++ {
			intensity, shadow := m.At(x, y)
			if math.Abs(float64(intensity-1)) > 1e-4 {
				t.Fatalf("flat water intensity %v at (%d,%d), want 1", intensity, x, y)
			}
			if shadow != 1 {
				t.Fatalf("no sphere, but shadow %v at (%d,%d)", shadow, x, y)
			}
		}
	}
}

func TestProjectDoesNotAccumulateAcrossTicks(t *testing.T) {
	p, m, plane := testProjector(32)
	rippled := field.NewPlane(32, 32)
	sim.AddDrop(rippled, plane, sim.DropEvent{
		Center: mgl32.Vec2{0.5, 0.5}, Radius: 0.2, Strength: 0.1,
	})
	sim.RebuildNormals(plane, rippled)

	p.Project(m, plane, optics.Sphere{})
	first := snapshot(m)
	p.Project(m, plane, optics.Sphere{})
	second := snapshot(m)

	for i := range first {
		if first[i] != second[i] {
			t.Fatal("repeated projection of the same state must be identical")
		}
	}
}

func TestIntensityNonNegativeUnderDegenerateNormals(t *testing.T) {
	p, m, plane := testProjector(32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			plane.Set(x, y, field.Texel{
				Height:  0.05,
				NormalX: 3,  // invalid: nx^2+nz^2 > 1
				NormalZ: -2, // forces the fallback path
			})
		}
	}

	p.Project(m, plane, optics.Sphere{Center: mgl32.Vec3{0, -0.3, 0}, Radius: 0.25})
	assertWellFormed(t, m)
}

func TestIntensityFiniteWithNaNHeights(t *testing.T) {
	p, m, plane := testProjector(32)
	bad := float32(math.NaN())
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			plane.Set(x, y, field.Texel{Height: bad, NormalX: bad, NormalZ: bad})
		}
	}

	p.Project(m, plane, optics.Sphere{})
	assertWellFormed(t, m)
}

func TestSphereDarkensShadowChannel(t *testing.T) {
	p, m, plane := testProjector(64)
	sim.RebuildNormals(plane, field.NewPlane(64, 64))

	sphere := optics.Sphere{Center: mgl32.Vec3{0, -0.4, 0}, Radius: 0.25}
	p.Project(m, plane, sphere)

	// Sample below the sphere, offset by the refracted light slant.
	minShadow := float32(1)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if _, s := m.At(x, y); s < minShadow {
				minShadow = s
			}
		}
	}
	if minShadow > 0.5 {
		t.Errorf("sphere should cast a visible shadow, min factor %v", minShadow)
	}
}

func TestMapClearRestoresBaseline(t *testing.T) {
	m := NewMap(8, 8)
	m.addIntensity(0.5, 0.5, 3)
	m.mulShadow(2, 2, 0.1)
	m.Clear()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			i, s := m.At(x, y)
			if i != 1 || s != 1 {
				t.Fatalf("clear left (%v, %v) at (%d,%d)", i, s, x, y)
			}
		}
	}
}

func TestMapSplatConservesContribution(t *testing.T) {
	m := NewMap(8, 8)
	m.addIntensity(0.4, 0.6, 0.5)
	var total float32
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			i, _ := m.At(x, y)
			total += i - 1
		}
	}
	if math.Abs(float64(total-0.5)) > 1e-5 {
		t.Errorf("splat total %v, want 0.5", total)
	}
}

func assertWellFormed(t *testing.T, m *Map) {
	t.Helper()
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			intensity, shadow := m.At(x, y)
			if intensity < 0 {
				t.Fatalf("negative intensity %v at (%d,%d)", intensity, x, y)
			}
			if math.IsNaN(float64(intensity)) || math.IsInf(float64(intensity), 0) {
				t.Fatalf("non-finite intensity at (%d,%d)", x, y)
			}
			if math.IsNaN(float64(shadow)) || shadow < 0 || shadow > 1 {
				t.Fatalf("malformed shadow %v at (%d,%d)", shadow, x, y)
			}
		}
	}
}

func snapshot(m *Map) []float32 {
	out := make([]float32, 0, m.W*m.H*2)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			i, s := m.At(x, y)
			out = append(out, i, s)
		}
	}
	return out
}
