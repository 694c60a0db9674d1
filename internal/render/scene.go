// Package render shades the water surface on the CPU from the height
// and caustic fields. The compositor evaluates reflection and
// refraction analytically against the pool box, the sky dome, and the
// submerged sphere; no graphics API is involved.
package render

import (
	mgl32 "github.com/go-gl/mathgl/mgl32"

	"Ripple3D/internal/field"
	"Ripple3D/internal/optics"
)

// Scene carries the per-frame inputs the compositor needs. The caller
// owns it and passes a fresh snapshot each frame; the compositor holds
// no scene state of its own.
type Scene struct {
	Geom     field.PoolGeometry
	Sphere   optics.Sphere
	LightDir mgl32.Vec3

	SkyTop     mgl32.Vec3
	SkyHorizon mgl32.Vec3
	WaterTint  mgl32.Vec3
	WallColor  mgl32.Vec3
	WallAccent mgl32.Vec3
	SphereTint mgl32.Vec3
}

// DefaultScene returns a sunlit pool with the stock palette.
func DefaultScene(geom field.PoolGeometry) Scene {
	return Scene{
		Geom:       geom,
		LightDir:   mgl32.Vec3{0.45, -1.0, 0.6}.Normalize(),
		SkyTop:     mgl32.Vec3{0.32, 0.55, 0.92},
		SkyHorizon: mgl32.Vec3{0.72, 0.82, 0.92},
		WaterTint:  mgl32.Vec3{0.75, 0.89, 0.93},
		WallColor:  mgl32.Vec3{0.88, 0.86, 0.80},
		WallAccent: mgl32.Vec3{0.42, 0.58, 0.70},
		SphereTint: mgl32.Vec3{0.85, 0.35, 0.25},
	}
}

// Camera is a simple pinhole camera. It replaces module-level view
// state: the orchestration layer passes one in per frame.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Fov      float32 // vertical field of view in degrees
}

// RayThrough returns the world-space view ray for pixel (px, py) on a
// w x h image.
func (c Camera) RayThrough(px, py, w, h int) (origin, dir mgl32.Vec3) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)

	aspect := float32(w) / float32(h)
	halfH := tanf(mgl32.DegToRad(c.Fov) * 0.5)
	halfW := halfH * aspect

	nx := (2*(float32(px)+0.5)/float32(w) - 1) * halfW
	ny := (1 - 2*(float32(py)+0.5)/float32(h)) * halfH

	dir = forward.Add(right.Mul(nx)).Add(up.Mul(ny)).Normalize()
	return c.Position, dir
}
