// Package engine ties the simulation passes into the per-tick sequence
// and exposes the external interfaces consumed by the interaction and
// render layers.
package engine

import (
	"fmt"
	"sync"

	mgl32 "github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"Ripple3D/internal/caustics"
	"Ripple3D/internal/field"
	"Ripple3D/internal/logger"
	"Ripple3D/internal/optics"
	"Ripple3D/internal/sim"
)

// Engine owns the height field and derives the caustic field from it.
// All mutation happens inside Advance; a tick runs every pass to
// completion or leaves the published state untouched.
type Engine struct {
	mu sync.Mutex

	cfg  Config
	geom field.PoolGeometry
	// stagedGeom holds a pending resize, applied as an atomic snapshot
	// at the start of the next tick so passes never disagree about the
	// coordinate mapping.
	stagedGeom *field.PoolGeometry

	grid      *field.Grid
	caustic   *caustics.Map
	projector *caustics.Projector
	runner    *sim.Runner
	wave      sim.WaveOp
	rain      *sim.Agitator

	pendingDrops []sim.DropEvent

	sphere     optics.Sphere
	prevCenter mgl32.Vec3
	haveSphere bool
}

// New validates the config and allocates the full-precision field
// buffers. Construction fails loudly on a config the solver cannot run
// with; there is no reduced-precision fallback.
func New(cfg Config) (*Engine, error) {
	logger.Init()
	if err := cfg.Validate(); err != nil {
		logger.Log.Error("engine config rejected", zap.Error(err))
		return nil, fmt.Errorf("engine config: %w", err)
	}
	geom := field.NewPoolGeometry(cfg.HalfWidth, cfg.HalfLength, cfg.WaterDepth, cfg.WallHeight)
	lightDir := mgl32.Vec3{cfg.LightDir[0], cfg.LightDir[1], cfg.LightDir[2]}

	e := &Engine{
		cfg:       cfg,
		geom:      geom,
		grid:      field.NewGrid(cfg.Resolution, cfg.Resolution),
		caustic:   caustics.NewMap(cfg.Resolution, cfg.Resolution),
		projector: caustics.NewProjector(geom, lightDir),
		runner:    sim.NewRunner(cfg.Workers),
		wave:      sim.WaveOp{Stiffness: cfg.Stiffness, Damping: cfg.Damping},
	}
	if cfg.RainEnabled {
		e.rain = sim.NewAgitator(cfg.RainSeed)
	}
	logger.Log.Info("water engine ready",
		zap.Int("resolution", cfg.Resolution),
		zap.Int("sub_steps", cfg.SubSteps),
		zap.Int("workers", e.runner.Workers()))
	return e, nil
}

// GetConfig returns the active configuration.
func (e *Engine) GetConfig() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// RequestDrop queues a drop at a world-space position. It is converted
// to normalized field space with the geometry active when the next tick
// starts. Malformed drops are dropped silently so the tick always runs.
func (e *Engine) RequestDrop(x, z, radius, strength float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if radius <= 0 {
		logger.Log.Debug("ignoring drop with non-positive radius",
			zap.Float32("radius", radius))
		return
	}
	u, v := e.geom.WorldToField(x, z)
	e.pendingDrops = append(e.pendingDrops, sim.DropEvent{
		Center:   mgl32.Vec2{u, v},
		Radius:   radius / (2 * e.geom.HalfWidth),
		Strength: strength,
	})
}

// SetSphereState updates the ball once per tick. The previous center is
// retained so Advance can apply the displaced-volume delta.
func (e *Engine) SetSphereState(center mgl32.Vec3, radius float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.haveSphere {
		e.prevCenter = center
		e.haveSphere = true
	}
	e.sphere = optics.Sphere{Center: center, Radius: radius}
}

// SetPoolGeometry stages a resize. The new mapping takes effect as one
// snapshot at the start of the next Advance, never mid-tick.
func (e *Engine) SetPoolGeometry(halfWidth, halfLength, waterDepth, wallHeight float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := field.NewPoolGeometry(halfWidth, halfLength, waterDepth, wallHeight)
	e.stagedGeom = &g
}

// SetRainEnabled toggles the ambient rain agitator.
func (e *Engine) SetRainEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if enabled && e.rain == nil {
		e.rain = sim.NewAgitator(e.cfg.RainSeed)
	}
	if !enabled {
		e.rain = nil
	}
}

// Advance runs one full tick: pending impulses, sphere displacement,
// subSteps wave propagation steps, normal reconstruction, and the
// caustic projection. subSteps below one falls back to the configured
// count.
func (e *Engine) Advance(subSteps int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stagedGeom != nil {
		e.geom = *e.stagedGeom
		e.projector.Geom = e.geom
		e.stagedGeom = nil
	}
	if subSteps < 1 {
		subSteps = e.cfg.SubSteps
	}

	drops := e.pendingDrops
	e.pendingDrops = nil
	if e.rain != nil {
		drops = append(drops, e.rain.Emit()...)
	}
	for _, ev := range drops {
		e.grid.Step(func(dst, src *field.Plane) {
			sim.AddDrop(dst, src, ev)
		})
	}

	if e.haveSphere && e.sphere.Center != e.prevCenter {
		disp := sim.SphereDisplacement{
			OldCenter: e.prevCenter,
			NewCenter: e.sphere.Center,
			Radius:    e.sphere.Radius,
			Strength:  e.cfg.ImpactStrength,
			Geom:      e.geom,
		}
		e.grid.Step(disp.Apply)
	}
	e.prevCenter = e.sphere.Center

	for i := 0; i < subSteps; i++ {
		e.grid.Step(func(dst, src *field.Plane) {
			e.runner.Run(src.H, func(y0, y1 int) {
				e.wave.StepRows(dst, src, y0, y1)
			})
		})
	}

	e.grid.Step(func(dst, src *field.Plane) {
		e.runner.Run(src.H, func(y0, y1 int) {
			sim.RebuildNormalRows(dst, src, y0, y1)
		})
	})

	e.projector.Project(e.caustic, e.grid.Current(), e.sphere)
}

// CurrentHeightField returns the read side of the height field. Callers
// must treat it as immutable.
func (e *Engine) CurrentHeightField() *field.Plane {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Current()
}

// CurrentCausticField returns the floor-space caustic map.
func (e *Engine) CurrentCausticField() *caustics.Map {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caustic
}

// Geometry returns the pool geometry active for the current tick.
func (e *Engine) Geometry() field.PoolGeometry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.geom
}

// Sphere returns the current ball state.
func (e *Engine) Sphere() optics.Sphere {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sphere
}

// Reset clears the height field and the caustic map. This is the
// recovery path when bad input has corrupted the integration.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid.Clear()
	e.caustic.Clear()
	e.pendingDrops = nil
	logger.Log.Info("water engine reset")
}
