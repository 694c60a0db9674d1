package sim

import (
	perlin "github.com/aquilax/go-perlin"

	mgl32 "github.com/go-gl/mathgl/mgl32"
)

// Agitator emits small Perlin-driven drops each tick to mimic rain on
// the surface. Deterministic for a fixed seed.
type Agitator struct {
	noise    *perlin.Perlin
	tick     int
	Rate     int     // drops emitted per tick
	Radius   float32 // normalized drop radius
	Strength float32
}

// NewAgitator builds an agitator with default rain tuning.
func NewAgitator(seed int64) *Agitator {
	return &Agitator{
		noise:    perlin.NewPerlin(2, 2, 3, seed),
		Rate:     1,
		Radius:   0.03,
		Strength: 0.005,
	}
}

// Emit returns this tick's drop events. The noise field modulates both
// placement and strength so drops cluster and drift instead of looking
// uniformly random.
func (a *Agitator) Emit() []DropEvent {
	if a == nil || a.Rate <= 0 {
		return nil
	}
	a.tick++
	t := float64(a.tick) * 0.37
	events := make([]DropEvent, 0, a.Rate)
	for i := 0; i < a.Rate; i++ {
		k := float64(i) * 13.7
		u := 0.5 + 0.5*a.noise.Noise2D(t*0.11+k, 1.3)
		v := 0.5 + 0.5*a.noise.Noise2D(2.9, t*0.13+k)
		gate := a.noise.Noise2D(t*0.41+k, t*0.07)
		if gate < 0 {
			continue
		}
		events = append(events, DropEvent{
			Center:   mgl32.Vec2{clampf(float32(u), 0, 1), clampf(float32(v), 0, 1)},
			Radius:   a.Radius,
			Strength: a.Strength * float32(0.5+gate),
		})
	}
	return events
}
