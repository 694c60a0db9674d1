package render

import (
	"math"

	mgl32 "github.com/go-gl/mathgl/mgl32"

	"Ripple3D/internal/caustics"
	"Ripple3D/internal/field"
	"Ripple3D/internal/optics"
)

const (
	// parallaxIterations is the fixed refinement count for the surface
	// lookup coordinate.
	parallaxIterations = 5

	// Fresnel blend range for the air/water interface.
	fresnelMin   = 0.25
	fresnelMax   = 1.0
	fresnelPower = 3.0

	// causticWeight scales how strongly the caustic map brightens
	// underwater hits.
	causticWeight = 0.85
)

// Compositor shades view rays against the current surface state.
type Compositor struct {
	Surface *field.Plane
	Caustic *caustics.Map
	Scene   Scene
}

// Render fills dst (len w*h) with linear colors for the given camera.
func (c *Compositor) Render(dst []mgl32.Vec3, w, h int, cam Camera) {
	c.RenderRows(dst, w, h, cam, 0, h)
}

// RenderRows shades pixel rows [y0, y1). Rows are independent, so the
// caller may split them across workers.
func (c *Compositor) RenderRows(dst []mgl32.Vec3, w, h int, cam Camera, y0, y1 int) {
	for py := y0; py < y1; py++ {
		for px := 0; px < w; px++ {
			origin, dir := cam.RayThrough(px, py, w, h)
			dst[py*w+px] = c.ShadeRay(origin, dir)
		}
	}
}

// ShadeRay returns the color seen along a single view ray.
func (c *Compositor) ShadeRay(origin, dir mgl32.Vec3) mgl32.Vec3 {
	if t := optics.IntersectSphere(origin, dir, c.Scene.Sphere); !math.IsInf(float64(t), 1) {
		hit := origin.Add(dir.Mul(t))
		if hit.Y() > c.surfaceHeightAt(hit.X(), hit.Z()) {
			return c.sphereColor(hit)
		}
	}
	if t, ok := optics.IntersectPlaneY(origin, dir, 0); ok {
		hit := origin.Add(dir.Mul(t))
		if insideXZ(hit, c.Scene.Geom) {
			return c.shadeSurface(hit, dir)
		}
	}
	if t, hit, ok := c.wallHit(origin, dir); ok && t > 0 {
		return c.wallColor(hit)
	}
	return c.skyColor(dir)
}

// shadeSurface blends reflection and refraction at the water surface.
func (c *Compositor) shadeSurface(point, incoming mgl32.Vec3) mgl32.Vec3 {
	t := c.refineLookup(point)
	n, ok := surfaceNormal(t)
	if !ok {
		n = mgl32.Vec3{0, 1, 0}
	}
	surface := mgl32.Vec3{point.X(), t.Height, point.Z()}

	reflected := optics.Reflect(incoming, n)
	reflectedColor := c.rayColorAbove(surface, reflected)

	fresnel := optics.FresnelWeight(incoming, n, fresnelMin, fresnelMax, fresnelPower)
	refracted, bent := optics.Refract(incoming, n, optics.IORAirToWater)
	if !bent {
		// Total internal reflection: all energy goes to the
		// reflected ray.
		return reflectedColor
	}
	refractedColor := c.rayColorBelow(surface, refracted)
	refractedColor = mulColor(refractedColor, c.Scene.WaterTint)

	color := lerpColor(refractedColor, reflectedColor, fresnel)
	return color.Add(c.sunGlint(reflected))
}

// refineLookup walks the lookup coordinate along the stored normal's
// horizontal components for a fixed number of iterations, approximating
// the parallax caused by finite water depth.
func (c *Compositor) refineLookup(point mgl32.Vec3) field.Texel {
	wx, wz := point.X(), point.Z()
	var t field.Texel
	for i := 0; i < parallaxIterations; i++ {
		u, v := c.Scene.Geom.WorldToField(wx, wz)
		t = c.Surface.Sample(u, v)
		wx = point.X() - t.NormalX*t.Height
		wz = point.Z() - t.NormalZ*t.Height
	}
	return t
}

// rayColorAbove shades a ray leaving the surface upward: sphere, then
// above-water walls, then sky.
func (c *Compositor) rayColorAbove(origin, dir mgl32.Vec3) mgl32.Vec3 {
	if t := optics.IntersectSphere(origin, dir, c.Scene.Sphere); !math.IsInf(float64(t), 1) {
		return c.sphereColor(origin.Add(dir.Mul(t)))
	}
	if t, hit, ok := c.wallHit(origin, dir); ok && t > 0 {
		return c.wallColor(hit)
	}
	return c.skyColor(dir)
}

// rayColorBelow shades a ray continuing under the surface: sphere,
// then floor or submerged wall, with the caustic field brightening hits
// that land below the local water height.
func (c *Compositor) rayColorBelow(origin, dir mgl32.Vec3) mgl32.Vec3 {
	if t := optics.IntersectSphere(origin, dir, c.Scene.Sphere); !math.IsInf(float64(t), 1) {
		return c.sphereColor(origin.Add(dir.Mul(t)))
	}
	_, tFar := optics.IntersectCube(origin, dir, c.Scene.Geom.CubeMin(), c.Scene.Geom.CubeMax())
	if tFar <= 0 {
		return c.skyColor(dir)
	}
	hit := origin.Add(dir.Mul(tFar))
	base := c.wallColor(hit)
	if hit.Y() < c.surfaceHeightAt(hit.X(), hit.Z()) {
		u, v := c.Scene.Geom.WorldToField(hit.X(), hit.Z())
		intensity, shadow := c.Caustic.Sample(u, v)
		light := 1 + (intensity-1)*causticWeight
		base = base.Mul(light * shadow)
	}
	return base
}

// wallHit intersects the ray with the inside of the pool box, ignoring
// the open top face.
func (c *Compositor) wallHit(origin, dir mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	_, tFar := optics.IntersectCube(origin, dir, c.Scene.Geom.CubeMin(), c.Scene.Geom.CubeMax())
	if tFar <= 0 {
		return 0, mgl32.Vec3{}, false
	}
	hit := origin.Add(dir.Mul(tFar))
	if hit.Y() >= c.Scene.Geom.WallHeight-1e-4 {
		// Exited through the open top.
		return 0, mgl32.Vec3{}, false
	}
	return tFar, hit, true
}

// wallColor is the procedural tile pattern standing in for wall and
// floor imagery, with simple height-based shading.
func (c *Compositor) wallColor(hit mgl32.Vec3) mgl32.Vec3 {
	const tileScale = 2.0
	check := int(floorPos(hit.X()*tileScale)+floorPos(hit.Y()*tileScale)+floorPos(hit.Z()*tileScale)) & 1
	color := c.Scene.WallColor
	if check == 1 {
		color = c.Scene.WallAccent
	}
	// Darken with depth below the surface.
	depth := clampf(-hit.Y()/(c.Scene.Geom.WaterDepth+1e-6), 0, 1)
	return color.Mul(1 - 0.35*depth)
}

// sphereColor shades the ball with a lambert term plus caustic light on
// its submerged part.
func (c *Compositor) sphereColor(hit mgl32.Vec3) mgl32.Vec3 {
	s := c.Scene.Sphere
	n := hit.Sub(s.Center).Mul(1 / s.Radius)
	diffuse := maxf(n.Dot(c.Scene.LightDir.Mul(-1)), 0)
	light := 0.3 + 0.7*diffuse
	if hit.Y() < c.surfaceHeightAt(hit.X(), hit.Z()) {
		u, v := c.Scene.Geom.WorldToField(hit.X(), hit.Z())
		intensity, shadow := c.Caustic.Sample(u, v)
		light *= shadow * (1 + (intensity-1)*causticWeight*0.5)
	}
	return c.Scene.SphereTint.Mul(light)
}

// skyColor is the analytic sky dome: a vertical gradient plus the sun.
func (c *Compositor) skyColor(dir mgl32.Vec3) mgl32.Vec3 {
	up := clampf(dir.Y(), 0, 1)
	sky := lerpColor(c.Scene.SkyHorizon, c.Scene.SkyTop, up)
	return sky.Add(c.sunGlint(dir))
}

func (c *Compositor) sunGlint(dir mgl32.Vec3) mgl32.Vec3 {
	s := maxf(dir.Dot(c.Scene.LightDir.Mul(-1)), 0)
	glint := powf(s, 250) * 2
	return mgl32.Vec3{glint, glint, glint * 0.9}
}

func (c *Compositor) surfaceHeightAt(x, z float32) float32 {
	u, v := c.Scene.Geom.WorldToField(x, z)
	return c.Surface.Sample(u, v).Height
}

func surfaceNormal(t field.Texel) (mgl32.Vec3, bool) {
	sq := 1 - t.NormalX*t.NormalX - t.NormalZ*t.NormalZ
	if sq <= 0 || math.IsNaN(float64(sq)) {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{t.NormalX, float32(math.Sqrt(float64(sq))), t.NormalZ}, true
}

func insideXZ(p mgl32.Vec3, g field.PoolGeometry) bool {
	return p.X() >= -g.HalfWidth && p.X() <= g.HalfWidth &&
		p.Z() >= -g.HalfLength && p.Z() <= g.HalfLength
}

func mulColor(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

func lerpColor(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func floorPos(f float32) float32 { return float32(math.Floor(float64(f))) }

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func powf(b, e float32) float32 { return float32(math.Pow(float64(b), float64(e))) }
func tanf(v float32) float32    { return float32(math.Tan(float64(v))) }
