// Package optics holds the analytic light-transport functions shared by
// the caustic projector and the surface compositor. Everything here is a
// pure function of explicit inputs so the math can be unit tested
// without any graphics backend.
package optics

import (
	"math"

	mgl32 "github.com/go-gl/mathgl/mgl32"
)

// IORAirToWater is the refraction ratio entering water from air.
const IORAirToWater = 1.0 / 1.333

// IORWaterToAir is the refraction ratio leaving water into air.
const IORWaterToAir = 1.333

// Sphere is the submerged ball coupled to the water surface.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Reflect mirrors the incident direction about the normal.
func Reflect(in, n mgl32.Vec3) mgl32.Vec3 {
	return in.Sub(n.Mul(2 * in.Dot(n)))
}

// Refract bends the incident direction through a surface with the given
// index-of-refraction ratio. Returns false under total internal
// reflection, in which case the direction is the zero vector.
func Refract(in, n mgl32.Vec3, eta float32) (mgl32.Vec3, bool) {
	cosi := in.Dot(n)
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return mgl32.Vec3{}, false
	}
	out := in.Mul(eta).Sub(n.Mul(eta*cosi + sqrtf(k)))
	return out, true
}

// FresnelWeight returns the reflection weight for a view ray hitting the
// surface, rising from min at normal incidence toward max at grazing
// angles. Callers force the weight to 1 on total internal reflection.
func FresnelWeight(in, n mgl32.Vec3, min, max, power float32) float32 {
	cos := -in.Dot(n)
	if cos < 0 {
		cos = 0
	}
	if cos > 1 {
		cos = 1
	}
	return min + (max-min)*powf(1-cos, power)
}

// IntersectCube intersects a ray with an axis-aligned box using the slab
// method and returns the entry and exit distances. The ray misses when
// tNear > tFar.
func IntersectCube(origin, dir, cubeMin, cubeMax mgl32.Vec3) (tNear, tFar float32) {
	tMin := compDiv(cubeMin.Sub(origin), dir)
	tMax := compDiv(cubeMax.Sub(origin), dir)
	t1 := compMin(tMin, tMax)
	t2 := compMax(tMin, tMax)
	tNear = maxf(maxf(t1.X(), t1.Y()), t1.Z())
	tFar = minf(minf(t2.X(), t2.Y()), t2.Z())
	return tNear, tFar
}

// IntersectSphere returns the distance to the first sphere hit along the
// ray, or +Inf on a miss.
func IntersectSphere(origin, dir mgl32.Vec3, s Sphere) float32 {
	toSphere := origin.Sub(s.Center)
	a := dir.Dot(dir)
	b := 2 * toSphere.Dot(dir)
	c := toSphere.Dot(toSphere) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc > 0 {
		t := (-b - sqrtf(disc)) / (2 * a)
		if t > 0 {
			return t
		}
	}
	return float32(math.Inf(1))
}

// IntersectPlaneY returns the distance along the ray to the horizontal
// plane at the given height, or false when the ray never reaches it.
func IntersectPlaneY(origin, dir mgl32.Vec3, y float32) (float32, bool) {
	if dir.Y() == 0 {
		return 0, false
	}
	t := (y - origin.Y()) / dir.Y()
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// SphereShadow returns the analytic soft-shadow factor in [0,1] for a
// point looking along the light ray toward the sphere. 1 means fully
// lit. The sigmoid keeps the penumbra smooth near the cone edge.
func SphereShadow(point, lightDir mgl32.Vec3, s Sphere) float32 {
	if s.Radius <= 0 {
		return 1
	}
	dir := s.Center.Sub(point).Mul(1 / s.Radius)
	area := dir.Cross(lightDir)
	shadow := area.Dot(area)
	dist := dir.Dot(lightDir.Mul(-1))
	shadow = 1 + (shadow-1)/(0.05+absf(dist)*0.025)
	shadow = clampf(1/(1+expf(-shadow)), 0, 1)
	// Only darken on the far side of the sphere along the light ray.
	return 1 + (shadow-1)*clampf(dist*2, 0, 1)
}

// Smoothstep is the familiar cubic hermite step between edges.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clampf((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func compDiv(v, d mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X() / d.X(), v.Y() / d.Y(), v.Z() / d.Z()}
}

func compMin(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{minf(a.X(), b.X()), minf(a.Y(), b.Y()), minf(a.Z(), b.Z())}
}

func compMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{maxf(a.X(), b.X()), maxf(a.Y(), b.Y()), maxf(a.Z(), b.Z())}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
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

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrtf(v float32) float32 { return float32(math.Sqrt(float64(v))) }
func powf(b, e float32) float32 {
	return float32(math.Pow(float64(b), float64(e)))
}
func expf(v float32) float32 { return float32(math.Exp(float64(v))) }
