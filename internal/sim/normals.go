package sim

import (
	mgl32 "github.com/go-gl/mathgl/mgl32"

	"Ripple3D/internal/field"
)

// RebuildNormals derives the surface normal per texel from the height
// gradient and stores its horizontal components in the normal channels.
// Height and velocity pass through unchanged. Must run after the final
// wave sub-step of a tick, before the caustic projection.
func RebuildNormals(dst, src *field.Plane) {
	RebuildNormalRows(dst, src, 0, src.H)
}

// RebuildNormalRows reconstructs normals for rows [y0, y1).
func RebuildNormalRows(dst, src *field.Plane, y0, y1 int) {
	deltaX := 1 / float32(src.W)
	deltaY := 1 / float32(src.H)
	for y := y0; y < y1; y++ {
		for x := 0; x < src.W; x++ {
			t := src.At(x, y)
			dhx := src.HeightAt(x+1, y) - t.Height
			dhy := src.HeightAt(x, y+1) - t.Height
			dx := mgl32.Vec3{deltaX, dhx, 0}
			dy := mgl32.Vec3{0, dhy, deltaY}
			n := dy.Cross(dx).Normalize()
			t.NormalX = n.X()
			t.NormalZ = n.Z()
			dst.Set(x, y, t)
		}
	}
}
