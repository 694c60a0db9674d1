// Command poolview is a small interactive viewer for the water engine.
// Click to drop water, arrows move the ball, A/D orbit the camera,
// R toggles rain, space pauses.
package main

import (
	"errors"
	"flag"
	"log"
	"math"

	mgl32 "github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"Ripple3D/internal/engine"
	"Ripple3D/internal/render"
	"Ripple3D/internal/sim"
)

const (
	viewW = 480
	viewH = 360

	dropRadius   = 0.22
	dropStrength = 0.04
	ballSpeed    = 0.02
)

type game struct {
	eng    *engine.Engine
	scene  render.Scene
	runner *sim.Runner

	ballPos    mgl32.Vec3
	ballRadius float32

	camAngle float32
	camDist  float32

	colors []mgl32.Vec3
	pix    []byte
	frame  *ebiten.Image

	rain   bool
	paused bool
}

func newGame(eng *engine.Engine, rain bool) *game {
	g := &game{
		eng:        eng,
		scene:      render.DefaultScene(eng.Geometry()),
		runner:     sim.NewRunner(0),
		ballPos:    mgl32.Vec3{-0.4, -0.35, 0.2},
		ballRadius: 0.25,
		camAngle:   0.6,
		camDist:    3.2,
		colors:     make([]mgl32.Vec3, viewW*viewH),
		pix:        make([]byte, viewW*viewH*4),
		frame:      ebiten.NewImage(viewW, viewH),
		rain:       rain,
	}
	eng.SetSphereState(g.ballPos, g.ballRadius)
	return g
}

func (g *game) camera() render.Camera {
	return render.Camera{
		Position: mgl32.Vec3{
			g.camDist * float32(math.Cos(float64(g.camAngle))),
			1.6,
			g.camDist * float32(math.Sin(float64(g.camAngle))),
		},
		Target: mgl32.Vec3{0, -0.2, 0},
		Fov:    45,
	}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.rain = !g.rain
		g.eng.SetRainEnabled(g.rain)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.eng.Reset()
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		g.camAngle -= 0.02
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		g.camAngle += 0.02
	}

	geom := g.eng.Geometry()
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.ballPos[0] -= ballSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.ballPos[0] += ballSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		g.ballPos[2] -= ballSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.ballPos[2] += ballSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.ballPos[1] += ballSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		g.ballPos[1] -= ballSpeed
	}
	g.ballPos[0] = clamp(g.ballPos[0], -geom.HalfWidth+g.ballRadius, geom.HalfWidth-g.ballRadius)
	g.ballPos[2] = clamp(g.ballPos[2], -geom.HalfLength+g.ballRadius, geom.HalfLength-g.ballRadius)
	g.ballPos[1] = clamp(g.ballPos[1], geom.FloorY()+g.ballRadius, geom.WallHeight)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.clickDrop()
	}

	if g.paused {
		return nil
	}
	g.eng.SetSphereState(g.ballPos, g.ballRadius)
	g.eng.Advance(0)
	return nil
}

// clickDrop casts the cursor ray onto the water plane and requests a
// drop where it lands.
func (g *game) clickDrop() {
	mx, my := ebiten.CursorPosition()
	sw, sh := ebiten.WindowSize()
	if sw <= 0 || sh <= 0 {
		return
	}
	px := mx * viewW / sw
	py := my * viewH / sh
	origin, dir := g.camera().RayThrough(px, py, viewW, viewH)
	if dir.Y() >= 0 {
		return
	}
	t := -origin.Y() / dir.Y()
	hit := origin.Add(dir.Mul(t))
	g.eng.RequestDrop(hit.X(), hit.Z(), dropRadius, dropStrength)
}

func (g *game) Draw(screen *ebiten.Image) {
	comp := render.Compositor{
		Surface: g.eng.CurrentHeightField(),
		Caustic: g.eng.CurrentCausticField(),
		Scene:   g.scene,
	}
	comp.Scene.Geom = g.eng.Geometry()
	comp.Scene.Sphere = g.eng.Sphere()

	cam := g.camera()
	g.runner.Run(viewH, func(y0, y1 int) {
		comp.RenderRows(g.colors, viewW, viewH, cam, y0, y1)
	})
	render.FillRGBA(g.pix, g.colors)
	g.frame.WritePixels(g.pix)

	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/viewW, float64(sh)/viewH)
	screen.DrawImage(g.frame, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func main() {
	res := flag.Int("res", 0, "simulation grid resolution (0 = config default)")
	subSteps := flag.Int("substeps", 0, "wave sub-steps per frame (0 = config default)")
	workers := flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	rain := flag.Bool("rain", false, "start with ambient rain enabled")
	seed := flag.Int64("seed", 1, "rain noise seed")
	scale := flag.Int("scale", 2, "window scale factor")
	configPath := flag.String("config", "", "optional JSON config file")
	flag.Parse()

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *res > 0 {
		cfg.Resolution = *res
	}
	if *subSteps > 0 {
		cfg.SubSteps = *subSteps
	}
	cfg.Workers = *workers
	cfg.RainEnabled = *rain
	cfg.RainSeed = *seed

	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("poolview")
	ebiten.SetWindowSize(viewW**scale, viewH**scale)

	if err := ebiten.RunGame(newGame(eng, *rain)); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
