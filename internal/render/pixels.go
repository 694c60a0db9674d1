package render

import (
	"math"

	mgl32 "github.com/go-gl/mathgl/mgl32"
)

// FillRGBA converts linear colors into an RGBA byte buffer with a
// simple gamma curve. buf must hold len(colors)*4 bytes.
func FillRGBA(buf []byte, colors []mgl32.Vec3) {
	for i, c := range colors {
		base := i * 4
		buf[base+0] = toByte(c.X())
		buf[base+1] = toByte(c.Y())
		buf[base+2] = toByte(c.Z())
		buf[base+3] = 0xff
	}
}

func toByte(v float32) uint8 {
	if !(v > 0) { // catches NaN as well
		return 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(math.Sqrt(float64(v)) * 255)
}
