package sim

import (
	"Ripple3D/internal/field"
)

// WaveOp is the discrete wave-equation update. One Step advances height
// and velocity by a single explicit integration step; the normal
// channels pass through unchanged.
type WaveOp struct {
	Stiffness float32
	Damping   float32
}

// NewWaveOp returns the operator with the reference tuning.
func NewWaveOp() WaveOp {
	return WaveOp{Stiffness: DefaultStiffness, Damping: DefaultDamping}
}

// Step runs the update across the whole grid.
func (op WaveOp) Step(dst, src *field.Plane) {
	op.StepRows(dst, src, 0, src.H)
}

// StepRows runs the update for rows [y0, y1). Neighbor reads clamp at
// the field edges; there is no wraparound. Each destination texel
// depends only on src, so row ranges can run concurrently.
func (op WaveOp) StepRows(dst, src *field.Plane, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < src.W; x++ {
			t := src.At(x, y)
			avg := (src.HeightAt(x-1, y) +
				src.HeightAt(x+1, y) +
				src.HeightAt(x, y-1) +
				src.HeightAt(x, y+1)) * 0.25
			v := t.Velocity + (avg-t.Height)*op.Stiffness
			v *= op.Damping
			dst.Set(x, y, field.Texel{
				Height:   t.Height + v,
				Velocity: v,
				NormalX:  t.NormalX,
				NormalZ:  t.NormalZ,
			})
		}
	}
}
