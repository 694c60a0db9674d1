package field

import (
	mgl32 "github.com/go-gl/mathgl/mgl32"
)

// minExtent is the defensive floor for every pool dimension. Degenerate
// geometry is clamped here instead of rejected so a tick can always run.
const minExtent = 1e-4

// PoolGeometry describes the pool box. The water surface rests at y = 0,
// the floor at y = -WaterDepth, and the walls rise to y = WallHeight.
type PoolGeometry struct {
	HalfWidth  float32
	HalfLength float32
	WaterDepth float32
	WallHeight float32
}

// NewPoolGeometry clamps each dimension to a minimum positive extent.
func NewPoolGeometry(halfWidth, halfLength, waterDepth, wallHeight float32) PoolGeometry {
	return PoolGeometry{
		HalfWidth:  maxf(halfWidth, minExtent),
		HalfLength: maxf(halfLength, minExtent),
		WaterDepth: maxf(waterDepth, minExtent),
		WallHeight: maxf(wallHeight, minExtent),
	}
}

// WorldToField maps a world-space XZ position to normalized field
// coordinates. This is the one canonical mapping; every pass goes
// through it. Results clamp to [0,1], never wrap.
func (g PoolGeometry) WorldToField(x, z float32) (u, v float32) {
	u = x/(2*g.HalfWidth) + 0.5
	v = z/(2*g.HalfLength) + 0.5
	return clampf(u, 0, 1), clampf(v, 0, 1)
}

// FieldToWorld is the inverse mapping onto the water surface plane.
func (g PoolGeometry) FieldToWorld(u, v float32) (x, z float32) {
	return (u - 0.5) * 2 * g.HalfWidth, (v - 0.5) * 2 * g.HalfLength
}

// FloorY returns the y coordinate of the pool floor.
func (g PoolGeometry) FloorY() float32 { return -g.WaterDepth }

// CubeMin returns the lower corner of the pool box.
func (g PoolGeometry) CubeMin() mgl32.Vec3 {
	return mgl32.Vec3{-g.HalfWidth, -g.WaterDepth, -g.HalfLength}
}

// CubeMax returns the upper corner of the pool box.
func (g PoolGeometry) CubeMax() mgl32.Vec3 {
	return mgl32.Vec3{g.HalfWidth, g.WallHeight, g.HalfLength}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
