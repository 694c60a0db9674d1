// Package field stores the simulation height field and the pool geometry
// that maps world coordinates onto it.
package field

// Texel is one sample of the height field. NormalX and NormalZ hold the
// horizontal components of the reconstructed surface normal; consumers
// recover the vertical component as sqrt(1 - nx*nx - nz*nz).
type Texel struct {
	Height   float32
	Velocity float32
	NormalX  float32
	NormalZ  float32
}

// Plane is a single W x H buffer of texels in row-major order.
type Plane struct {
	W, H int
	data []float32
}

// NewPlane allocates a zeroed plane with the given dimensions.
func NewPlane(w, h int) *Plane {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Plane{W: w, H: h, data: make([]float32, w*h*4)}
}

func (p *Plane) index(x, y int) int { return (y*p.W + x) * 4 }

// At returns the texel at (x, y). Coordinates outside the grid are
// clamped to the nearest edge texel, never wrapped.
func (p *Plane) At(x, y int) Texel {
	x = clampCoord(x, 0, p.W-1)
	y = clampCoord(y, 0, p.H-1)
	i := p.index(x, y)
	return Texel{p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]}
}

// HeightAt returns just the height channel with edge clamping. The wave
// solver's inner loop goes through this.
func (p *Plane) HeightAt(x, y int) float32 {
	x = clampCoord(x, 0, p.W-1)
	y = clampCoord(y, 0, p.H-1)
	return p.data[p.index(x, y)]
}

// Set writes the texel at (x, y). Out-of-range writes are dropped.
func (p *Plane) Set(x, y int, t Texel) {
	if x < 0 || x >= p.W || y < 0 || y >= p.H {
		return
	}
	i := p.index(x, y)
	p.data[i] = t.Height
	p.data[i+1] = t.Velocity
	p.data[i+2] = t.NormalX
	p.data[i+3] = t.NormalZ
}

// Sample bilinearly interpolates the field at normalized coordinates
// (u, v) in [0,1]. Coordinates outside the range clamp to the edge.
func (p *Plane) Sample(u, v float32) Texel {
	fx := u*float32(p.W) - 0.5
	fy := v*float32(p.H) - 0.5
	x0 := int(floorf(fx))
	y0 := int(floorf(fy))
	tx := fx - floorf(fx)
	ty := fy - floorf(fy)

	t00 := p.At(x0, y0)
	t10 := p.At(x0+1, y0)
	t01 := p.At(x0, y0+1)
	t11 := p.At(x0+1, y0+1)

	return Texel{
		Height:   lerp2(t00.Height, t10.Height, t01.Height, t11.Height, tx, ty),
		Velocity: lerp2(t00.Velocity, t10.Velocity, t01.Velocity, t11.Velocity, tx, ty),
		NormalX:  lerp2(t00.NormalX, t10.NormalX, t01.NormalX, t11.NormalX, tx, ty),
		NormalZ:  lerp2(t00.NormalZ, t10.NormalZ, t01.NormalZ, t11.NormalZ, tx, ty),
	}
}

// Clear zeroes every channel.
func (p *Plane) Clear() {
	for i := range p.data {
		p.data[i] = 0
	}
}

// CopyFrom copies all texels from src. Dimensions must match.
func (p *Plane) CopyFrom(src *Plane) {
	if p.W == src.W && p.H == src.H {
		copy(p.data, src.data)
	}
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func floorf(f float32) float32 {
	i := float32(int(f))
	if f < i {
		return i - 1
	}
	return i
}

func lerp2(v00, v10, v01, v11, tx, ty float32) float32 {
	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}
