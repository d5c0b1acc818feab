// Package display shows engine frames in a desktop window and feeds
// keyboard input back to the engine.
package display

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/OCharnyshevich/voxels/internal/render"
	"github.com/OCharnyshevich/voxels/internal/render/march"
)

// Options configures the window.
type Options struct {
	Title string
	Scale int // window pixels per frame pixel
	TPS   int

	// Snapshot is called with the current frame when P is pressed.
	Snapshot func(f *march.Frame) error
}

// RunWindow opens a window and drives e until the window closes or Escape
// is pressed. It blocks.
func RunWindow(e *render.Engine, opts Options, log *slog.Logger) error {
	res := e.Resolution()
	if opts.Scale <= 0 {
		opts.Scale = 8
	}
	if opts.TPS <= 0 {
		opts.TPS = 60
	}

	g := &game{
		engine: e,
		opts:   opts,
		log:    log.With("component", "display"),
		img:    image.NewRGBA(image.Rect(0, 0, res.W, res.H)),
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(res.W*opts.Scale, res.H*opts.Scale)
	ebiten.SetTPS(opts.TPS)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

type game struct {
	engine *render.Engine
	opts   Options
	log    *slog.Logger

	img      *image.RGBA
	frameImg *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.engine.ApplyInput(pollControls())
	g.engine.Advance(1 / float64(g.opts.TPS))
	f := g.engine.Render()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) && g.opts.Snapshot != nil {
		if err := g.opts.Snapshot(f); err != nil {
			g.log.Error("snapshot", "error", err)
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	f := g.engine.LastFrame()
	if f == nil {
		return
	}

	f.CopyTo(g.img)

	if g.frameImg == nil {
		g.frameImg = ebiten.NewImage(f.Width, f.Height)
	}
	g.frameImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.frameImg, nil)
}

// Layout renders at frame resolution; ebiten scales it to the window.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	res := g.engine.Resolution()
	return res.W, res.H
}
