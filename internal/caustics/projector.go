package caustics

import (
	"math"

	mgl32 "github.com/go-gl/mathgl/mgl32"

	"Ripple3D/internal/field"
	"Ripple3D/internal/optics"
)

// DefaultIntensityScale converts the footprint area ratio into a light
// contribution. Tuned alongside the solver constants.
const DefaultIntensityScale = 0.2

// DefaultRimWidth is the world-space width of the soft falloff applied
// where refracted rays exit through a wall instead of the floor.
const DefaultRimWidth = 0.25

// Projector scatters refracted light patches from the surface onto the
// floor map. It keeps no simulation state across ticks; the scratch
// buffer below is overwritten in full on every Project call.
type Projector struct {
	Geom           field.PoolGeometry
	LightDir       mgl32.Vec3
	IntensityScale float32
	RimWidth       float32

	landing []mgl32.Vec3
}

// NewProjector builds a projector for the given geometry and light.
func NewProjector(geom field.PoolGeometry, lightDir mgl32.Vec3) *Projector {
	return &Projector{
		Geom:           geom,
		LightDir:       lightDir.Normalize(),
		IntensityScale: DefaultIntensityScale,
		RimWidth:       DefaultRimWidth,
	}
}

// Project rebuilds dst from the current surface state. For each surface
// texel the incident light is refracted through the local normal and the
// patch is projected onto the floor plane; the intensity contribution is
// the old-to-new footprint area ratio, scattered additively. The sphere
// darkens the shadow channel along its analytic cone and a rim term
// fades patches whose rays leave through a wall.
func (p *Projector) Project(dst *Map, src *field.Plane, sphere optics.Sphere) {
	dst.Clear()

	up := mgl32.Vec3{0, 1, 0}
	flatRefr, ok := optics.Refract(p.LightDir, up, optics.IORAirToWater)
	if !ok || flatRefr.Y() >= 0 {
		// Light from below the horizon cannot reach the floor.
		dst.clampNonNegative()
		return
	}

	if len(p.landing) != src.W*src.H {
		p.landing = make([]mgl32.Vec3, src.W*src.H)
	}
	floorY := p.Geom.FloorY()
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			p.landing[y*src.W+x] = p.landingPoint(src, x, y, flatRefr, floorY)
		}
	}

	// Old footprint: the undisplaced patch slides along the flat
	// refraction direction, which preserves its area.
	texelW := 2 * p.Geom.HalfWidth / float32(src.W)
	texelH := 2 * p.Geom.HalfLength / float32(src.H)
	oldArea := texelW * texelH

	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			land := p.landing[y*src.W+x]
			ex := p.landing[y*src.W+clampCoord(x+1, 0, src.W-1)].Sub(land)
			ez := p.landing[clampCoord(y+1, 0, src.H-1)*src.W+x].Sub(land)
			newArea := absf(ex.X()*ez.Z() - ex.Z()*ez.X())
			if !finite(newArea) || !finite(land.X()) || !finite(land.Z()) {
				continue
			}
			ratio := float32(100)
			if newArea > oldArea*0.01 {
				ratio = oldArea / newArea
			}
			contribution := (ratio - 1) * p.IntensityScale * p.rimWeight(src, x, y, flatRefr)
			u, v := p.Geom.WorldToField(land.X(), land.Z())
			dst.addIntensity(u, v, contribution)
		}
	}

	p.projectShadow(dst, flatRefr, sphere)
	dst.clampNonNegative()
}

// landingPoint refracts the light ray through the texel's stored normal
// and intersects it with the floor plane. Degenerate normals fall back
// to the flat refraction direction so neighbor area estimates stay
// meaningful.
func (p *Projector) landingPoint(src *field.Plane, x, y int, flatRefr mgl32.Vec3, floorY float32) mgl32.Vec3 {
	t := src.At(x, y)
	u := (float32(x) + 0.5) / float32(src.W)
	v := (float32(y) + 0.5) / float32(src.H)
	wx, wz := p.Geom.FieldToWorld(u, v)
	origin := mgl32.Vec3{wx, t.Height, wz}

	refr := flatRefr
	if n, ok := surfaceNormal(t); ok {
		if r, bent := optics.Refract(p.LightDir, n, optics.IORAirToWater); bent && r.Y() < 0 {
			refr = r
		}
	}
	dist, ok := optics.IntersectPlaneY(origin, refr, floorY)
	if !ok {
		dist, _ = optics.IntersectPlaneY(origin, flatRefr, floorY)
		refr = flatRefr
	}
	return origin.Add(refr.Mul(dist))
}

// rimWeight softly removes patches whose refracted ray exits the pool
// box before reaching the floor.
func (p *Projector) rimWeight(src *field.Plane, x, y int, flatRefr mgl32.Vec3) float32 {
	t := src.At(x, y)
	u := (float32(x) + 0.5) / float32(src.W)
	v := (float32(y) + 0.5) / float32(src.H)
	wx, wz := p.Geom.FieldToWorld(u, v)
	origin := mgl32.Vec3{wx, t.Height, wz}

	floorDist, ok := optics.IntersectPlaneY(origin, flatRefr, p.Geom.FloorY())
	if !ok {
		return 0
	}
	_, tFar := optics.IntersectCube(origin, flatRefr, p.Geom.CubeMin(), p.Geom.CubeMax())
	return optics.Smoothstep(-p.RimWidth, 0, tFar-floorDist)
}

// projectShadow darkens the shadow channel per floor texel using the
// sphere's analytic cone along the refracted light.
func (p *Projector) projectShadow(dst *Map, refr mgl32.Vec3, sphere optics.Sphere) {
	if sphere.Radius <= 0 {
		return
	}
	floorY := p.Geom.FloorY()
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			u := (float32(x) + 0.5) / float32(dst.W)
			v := (float32(y) + 0.5) / float32(dst.H)
			wx, wz := p.Geom.FieldToWorld(u, v)
			pos := mgl32.Vec3{wx, floorY, wz}
			dst.mulShadow(x, y, optics.SphereShadow(pos, refr, sphere))
		}
	}
}

func surfaceNormal(t field.Texel) (mgl32.Vec3, bool) {
	nx := t.NormalX
	nz := t.NormalZ
	if !finite(nx) || !finite(nz) {
		return mgl32.Vec3{}, false
	}
	sq := 1 - nx*nx - nz*nz
	if sq <= 0 {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{nx, float32(math.Sqrt(float64(sq))), nz}, true
}

func finite(f float32) bool {
	f64 := float64(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
