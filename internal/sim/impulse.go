package sim

import (
	"math"

	mgl32 "github.com/go-gl/mathgl/mgl32"

	"Ripple3D/internal/field"
)

// DropEvent is a transient raised-cosine impulse in normalized field
// coordinates. It is applied once and not persisted.
type DropEvent struct {
	Center   mgl32.Vec2
	Radius   float32
	Strength float32
}

// valid reports whether applying the event can produce finite output.
func (ev DropEvent) valid() bool {
	return ev.Radius > 0 &&
		finite(ev.Radius) && finite(ev.Strength) &&
		finite(ev.Center.X()) && finite(ev.Center.Y())
}

// AddDrop adds the drop's bump to the height channel. A malformed event
// degrades to a plain copy so the tick always completes.
func AddDrop(dst, src *field.Plane, ev DropEvent) {
	if !ev.valid() {
		dst.CopyFrom(src)
		return
	}
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			t := src.At(x, y)
			px := (float32(x) + 0.5) / float32(src.W)
			py := (float32(y) + 0.5) / float32(src.H)
			dx := ev.Center.X() - px
			dy := ev.Center.Y() - py
			d := sqrtf(dx*dx+dy*dy) / ev.Radius
			fall := clampf(1-d, 0, 1)
			t.Height += ev.Strength * (0.5 - 0.5*cosf(math.Pi*fall))
			dst.Set(x, y, t)
		}
	}
}

// SphereVolumeInColumn approximates the submerged sphere volume above
// the water column at world position (x, z). The falloff is a bounded
// bump rather than the exact chord so the operator stays smooth at the
// silhouette.
func SphereVolumeInColumn(x, z float32, center mgl32.Vec3, radius float32) float32 {
	tx := x - center.X()
	tz := z - center.Z()
	t := sqrtf(tx*tx+tz*tz) / radius
	f := 1.5 * t
	f2 := f * f
	dy := expf(-f2 * f2 * f2)
	ymin := minf(0, center.Y()-dy)
	ymax := minf(maxf(0, center.Y()+dy), ymin+2*dy)
	return (ymax - ymin) * DefaultVolumeScale
}

// SphereDisplacement is the volume-continuity impulse applied when the
// sphere moves between ticks. Water rises where the sphere left and is
// pushed down where it arrived.
type SphereDisplacement struct {
	OldCenter mgl32.Vec3
	NewCenter mgl32.Vec3
	Radius    float32
	Strength  float32
	Geom      field.PoolGeometry
}

// Apply adds the displaced-volume delta to the height channel. A
// non-positive or non-finite radius degrades to a plain copy.
func (d SphereDisplacement) Apply(dst, src *field.Plane) {
	if d.Radius <= 0 || !finite(d.Radius) || !finite(d.Strength) {
		dst.CopyFrom(src)
		return
	}
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			t := src.At(x, y)
			u := (float32(x) + 0.5) / float32(src.W)
			v := (float32(y) + 0.5) / float32(src.H)
			wx, wz := d.Geom.FieldToWorld(u, v)
			was := SphereVolumeInColumn(wx, wz, d.OldCenter, d.Radius)
			now := SphereVolumeInColumn(wx, wz, d.NewCenter, d.Radius)
			t.Height += d.Strength * (was - now)
			dst.Set(x, y, t)
		}
	}
}

func finite(f float32) bool {
	f64 := float64(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}

func sqrtf(v float32) float32 { return float32(math.Sqrt(float64(v))) }
func cosf(v float32) float32  { return float32(math.Cos(float64(v))) }
func expf(v float32) float32  { return float32(math.Exp(float64(v))) }

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
