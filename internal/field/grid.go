package field

// Grid owns the two ping-pong planes of the height field. Exactly one
// plane is current at any time; passes write the other one through
// WriteNext and the roles exchange only inside Commit. Callers never get
// a writable handle to the plane they read from.
type Grid struct {
	planes [2]*Plane
	cur    int
}

// NewGrid allocates both planes at the given resolution.
func NewGrid(w, h int) *Grid {
	return &Grid{planes: [2]*Plane{NewPlane(w, h), NewPlane(w, h)}}
}

// W returns the grid width in texels.
func (g *Grid) W() int { return g.planes[0].W }

// H returns the grid height in texels.
func (g *Grid) H() int { return g.planes[0].H }

// Current returns the read-side plane. Treat it as immutable; the next
// WriteNext pass samples from it.
func (g *Grid) Current() *Plane {
	return g.planes[g.cur]
}

// WriteNext runs a full-grid transform with dst set to the alternate
// plane and src set to the current one. The current plane is untouched
// until Commit.
func (g *Grid) WriteNext(pass func(dst, src *Plane)) {
	pass(g.planes[1-g.cur], g.planes[g.cur])
}

// Commit swaps the planes so the last written one becomes current.
func (g *Grid) Commit() {
	g.cur = 1 - g.cur
}

// Step is WriteNext followed by Commit.
func (g *Grid) Step(pass func(dst, src *Plane)) {
	g.WriteNext(pass)
	g.Commit()
}

// Clear zeroes both planes. Used to recover from a corrupted field.
func (g *Grid) Clear() {
	g.planes[0].Clear()
	g.planes[1].Clear()
}
