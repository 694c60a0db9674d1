// Package caustics projects refracted light from the water surface onto
// the pool floor, producing a floor-space energy map.
package caustics

// Map is the floor-space accumulation buffer. Intensity is a light
// scale factor (1 = neutral, flat water); Shadow multiplies it for the
// sphere's shadow cone. The map is rebuilt from scratch every tick.
type Map struct {
	W, H int
	data []float32 // interleaved (intensity, shadow)
}

// NewMap allocates a map at the given resolution.
func NewMap(w, h int) *Map {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	m := &Map{W: w, H: h, data: make([]float32, w*h*2)}
	m.Clear()
	return m
}

// Clear resets every texel to the neutral baseline: intensity 1,
// shadow 1.
func (m *Map) Clear() {
	for i := 0; i < len(m.data); i += 2 {
		m.data[i] = 1
		m.data[i+1] = 1
	}
}

// At returns (intensity, shadow) at the texel, clamped at the edges.
func (m *Map) At(x, y int) (float32, float32) {
	x = clampCoord(x, 0, m.W-1)
	y = clampCoord(y, 0, m.H-1)
	i := (y*m.W + x) * 2
	return m.data[i], m.data[i+1]
}

// Sample bilinearly interpolates the map at normalized floor
// coordinates, clamping at the edges.
func (m *Map) Sample(u, v float32) (intensity, shadow float32) {
	fx := u*float32(m.W) - 0.5
	fy := v*float32(m.H) - 0.5
	x0 := int(floorf(fx))
	y0 := int(floorf(fy))
	tx := fx - floorf(fx)
	ty := fy - floorf(fy)

	i00, s00 := m.At(x0, y0)
	i10, s10 := m.At(x0+1, y0)
	i01, s01 := m.At(x0, y0+1)
	i11, s11 := m.At(x0+1, y0+1)

	top := i00 + (i10-i00)*tx
	bot := i01 + (i11-i01)*tx
	intensity = top + (bot-top)*ty

	top = s00 + (s10-s00)*tx
	bot = s01 + (s11-s01)*tx
	shadow = top + (bot-top)*ty
	return intensity, shadow
}

// addIntensity splats a contribution bilinearly across the four texels
// around the normalized coordinate. Out-of-range coordinates clamp, so
// energy landing at the rim stays on the rim texels.
func (m *Map) addIntensity(u, v, val float32) {
	fx := u*float32(m.W) - 0.5
	fy := v*float32(m.H) - 0.5
	x0 := int(floorf(fx))
	y0 := int(floorf(fy))
	tx := fx - floorf(fx)
	ty := fy - floorf(fy)
	m.addTexel(x0, y0, val*(1-tx)*(1-ty))
	m.addTexel(x0+1, y0, val*tx*(1-ty))
	m.addTexel(x0, y0+1, val*(1-tx)*ty)
	m.addTexel(x0+1, y0+1, val*tx*ty)
}

func (m *Map) addTexel(x, y int, val float32) {
	x = clampCoord(x, 0, m.W-1)
	y = clampCoord(y, 0, m.H-1)
	m.data[(y*m.W+x)*2] += val
}

func (m *Map) mulShadow(x, y int, val float32) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return
	}
	m.data[(y*m.W+x)*2+1] *= val
}

// clampNonNegative floors the intensity channel at zero and scrubs any
// non-finite texel back to the neutral baseline.
func (m *Map) clampNonNegative() {
	for i := 0; i < len(m.data); i += 2 {
		if !finite(m.data[i]) {
			m.data[i] = 1
		}
		if m.data[i] < 0 {
			m.data[i] = 0
		}
		if !finite(m.data[i+1]) {
			m.data[i+1] = 1
		}
	}
}

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
