package engine

import (
	"math"
	"testing"

	mgl32 "github.com/go-gl/mathgl/mgl32"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Resolution = 64
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	bad := []Config{}

	cfg := testConfig()
	cfg.Resolution = 4
	bad = append(bad, cfg)

	cfg = testConfig()
	cfg.Damping = 1.5
	bad = append(bad, cfg)

	cfg = testConfig()
	cfg.Stiffness = float32(math.NaN())
	bad = append(bad, cfg)

	cfg = testConfig()
	cfg.SubSteps = 0
	bad = append(bad, cfg)

	cfg = testConfig()
	cfg.LightDir = [3]float32{0, 1, 0}
	bad = append(bad, cfg)

	for i, c := range bad {
		if _, err := New(c); err == nil {
			t.Errorf("config %d should have been rejected", i)
		}
	}
}

func TestNewAllocatesFields(t *testing.T) {
	eng, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if eng.CurrentHeightField() == nil {
		t.Fatal("height field not allocated")
	}
	if eng.CurrentCausticField() == nil {
		t.Fatal("caustic field not allocated")
	}
}

func TestDropChangesField(t *testing.T) {
	eng, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	eng.RequestDrop(0, 0, 0.2, 0.05)
	eng.Advance(1)

	hf := eng.CurrentHeightField()
	var peak float32
	for y := 0; y < hf.H; y++ {
		for x := 0; x < hf.W; x++ {
			if h := hf.At(x, y).Height; h > peak {
				peak = h
			}
		}
	}
	if peak <= 0 {
		t.Error("drop should have raised the surface")
	}
}

func TestMalformedDropIsIgnored(t *testing.T) {
	eng, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	eng.RequestDrop(0, 0, 0, 0.05)
	eng.RequestDrop(0, 0, -1, 0.05)
	eng.Advance(1)

	hf := eng.CurrentHeightField()
	for y := 0; y < hf.H; y++ {
		for x := 0; x < hf.W; x++ {
			if h := hf.At(x, y).Height; h != 0 {
				t.Fatalf("malformed drop leaked into the field at (%d,%d): %v", x, y, h)
			}
		}
	}
}

func TestGeometryAppliedAtTickStart(t *testing.T) {
	eng, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	before := eng.Geometry()
	eng.SetPoolGeometry(3, 3, 2, 1)
	if eng.Geometry() != before {
		t.Fatal("geometry changed before the next tick")
	}
	eng.Advance(1)
	after := eng.Geometry()
	if after.HalfWidth != 3 || after.WaterDepth != 2 {
		t.Errorf("staged geometry not applied: %+v", after)
	}
}

func TestSphereMovementDisplacesWater(t *testing.T) {
	eng, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	eng.SetSphereState(mgl32.Vec3{-0.4, -0.3, 0}, 0.25)
	eng.Advance(1) // first tick establishes the previous center

	eng.SetSphereState(mgl32.Vec3{0.4, -0.3, 0}, 0.25)
	eng.Advance(1)

	hf := eng.CurrentHeightField()
	var anyNonZero bool
	for y := 0; y < hf.H && !anyNonZero; y++ {
		for x := 0; x < hf.W; x++ {
			if hf.At(x, y).Height != 0 {
				anyNonZero = true
				break
			}
		}
	}
	if !anyNonZero {
		t.Error("moving sphere should disturb the surface")
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	run := func(workers int) []float32 {
		cfg := testConfig()
		cfg.Workers = workers
		eng, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		eng.RequestDrop(0.1, -0.2, 0.25, 0.04)
		eng.SetSphereState(mgl32.Vec3{-0.3, -0.2, 0.1}, 0.2)
		for i := 0; i < 10; i++ {
			eng.Advance(0)
		}
		hf := eng.CurrentHeightField()
		out := make([]float32, 0, hf.W*hf.H)
		for y := 0; y < hf.H; y++ {
			for x := 0; x < hf.W; x++ {
				out = append(out, hf.At(x, y).Height)
			}
		}
		return out
	}

	a := run(1)
	b := run(1)
	c := run(4)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("repeated run diverged at texel %d", i)
		}
		if a[i] != c[i] {
			t.Fatalf("worker count changed the result at texel %d", i)
		}
	}
}

func TestResetClearsState(t *testing.T) {
	eng, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	eng.RequestDrop(0, 0, 0.2, 0.1)
	eng.Advance(1)
	eng.Reset()

	hf := eng.CurrentHeightField()
	for y := 0; y < hf.H; y++ {
		for x := 0; x < hf.W; x++ {
			if tx := hf.At(x, y); tx.Height != 0 || tx.Velocity != 0 {
				t.Fatalf("reset left state at (%d,%d)", x, y)
			}
		}
	}
}

func TestAdvanceKeepsFieldFinite(t *testing.T) {
	cfg := testConfig()
	cfg.RainEnabled = true
	eng, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	eng.SetSphereState(mgl32.Vec3{0, -0.3, 0}, 0.25)
	for i := 0; i < 30; i++ {
		eng.Advance(0)
	}
	hf := eng.CurrentHeightField()
	for y := 0; y < hf.H; y++ {
		for x := 0; x < hf.W; x++ {
			if math.IsNaN(float64(hf.At(x, y).Height)) {
				t.Fatalf("NaN height at (%d,%d)", x, y)
			}
		}
	}
}
