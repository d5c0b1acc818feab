// Package render drives the voxel world, camera and raymarcher on a fixed
// timestep.
package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxels/internal/render/camera"
	"github.com/OCharnyshevich/voxels/internal/render/config"
	"github.com/OCharnyshevich/voxels/internal/render/march"
	"github.com/OCharnyshevich/voxels/internal/render/scheduler"
	"github.com/OCharnyshevich/voxels/internal/render/viewplane"
	"github.com/OCharnyshevich/voxels/internal/render/world"
	"github.com/OCharnyshevich/voxels/internal/render/world/gen"
)

// OrbitRadius is the horizontal distance kept from the world center in orbit mode.
const OrbitRadius = 10

// maxStepsPerAdvance bounds catch-up work after a long pause.
const maxStepsPerAdvance = 8

// Mode selects who drives the camera.
type Mode int

const (
	// ModeOrbit circles the world center.
	ModeOrbit Mode = iota
	// ModeFly leaves the camera to input.
	ModeFly
)

func (m Mode) String() string {
	if m == ModeFly {
		return "fly"
	}
	return "orbit"
}

// ParseMode parses "orbit" or "fly".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "orbit":
		return ModeOrbit, nil
	case "fly":
		return ModeFly, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Tick      uint64
	Frames    int
	Clock     float64
	Mode      Mode
	CameraPos mgl32.Vec3
	CameraDir mgl32.Vec3
	Hits      int // in the last frame
	Pending   int // queued for the next step
	Generated int
	Chunks    int
}

// Engine owns the world and everything that looks at it.
type Engine struct {
	cfg *config.Config
	log *slog.Logger

	world     *world.World
	camera    *camera.Camera
	viewplane *viewplane.Viewplane
	res       viewplane.Resolution
	renderer  *march.Renderer
	scheduler *scheduler.Scheduler

	mode  Mode
	dt    float64 // seconds per tick
	clock float64 // simulated seconds
	accum float64
	tick  uint64

	frames int
	last   *march.Frame
}

// New builds the scene described by cfg.
func New(cfg *config.Config, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	terrain := gen.NewTerrain(cfg.WorldDim).Reseed(cfg.Seed)
	terrain.Frequency = cfg.TerrainFrequency
	terrain.Amplitude = cfg.TerrainAmplitude
	terrain.Surface = cfg.SurfaceColor.RGBA()
	terrain.Fill = cfg.FillColor.RGBA()
	w := world.NewWithTerrain(cfg.WorldDim, terrain)

	cam, err := camera.New(cfg.CameraPos.Vec(), cfg.CameraDir.Vec(), cfg.ViewplaneDistance, cfg.UpAxis.Vec())
	if err != nil {
		return nil, fmt.Errorf("create camera: %w", err)
	}
	vp, err := viewplane.New(mgl32.Vec2(cfg.ViewplaneSize), cfg.AspectRatio)
	if err != nil {
		return nil, fmt.Errorf("create viewplane: %w", err)
	}

	params := march.DefaultParams(cfg.WorldDim)
	params.Steps = cfg.RaySteps
	params.StepSize = cfg.StepSize

	e := &Engine{
		cfg:       cfg,
		log:       log.With("component", "engine"),
		world:     w,
		camera:    cam,
		viewplane: vp,
		res:       viewplane.Resolution{W: cfg.Width, H: cfg.Height},
		renderer:  march.NewRenderer(params, cfg.Workers),
		scheduler: scheduler.New(w, log),
		mode:      mode,
		dt:        1 / float64(cfg.TPS),
	}
	e.buildScene()

	e.log.Info("engine ready",
		"dim", cfg.WorldDim,
		"resolution", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"mode", mode,
		"seed", cfg.Seed,
		"chunks", w.ChunkCount(),
	)
	return e, nil
}

func (e *Engine) buildScene() {
	if e.cfg.Floor {
		e.world.GenFloor(e.cfg.FloorColor.RGBA())
	}
	for _, o := range e.cfg.Objects {
		switch o.Kind {
		case "cube":
			e.world.GenCube(o.Pos.Vec(), o.Size.Vec(), o.Color.RGBA())
		case "sphere":
			e.world.GenSphere(o.Pos.Vec(), o.Radius, o.Color.RGBA())
		}
	}
}

// Close stops the render workers.
func (e *Engine) Close() { e.renderer.Close() }

// World returns the voxel world.
func (e *Engine) World() *world.World { return e.world }

// Camera returns the camera.
func (e *Engine) Camera() *camera.Camera { return e.camera }

// Viewplane returns the viewplane.
func (e *Engine) Viewplane() *viewplane.Viewplane { return e.viewplane }

// Resolution returns the frame size in pixels.
func (e *Engine) Resolution() viewplane.Resolution { return e.res }

// Mode returns the current camera mode.
func (e *Engine) Mode() Mode { return e.mode }

// SetMode switches the camera mode.
func (e *Engine) SetMode(m Mode) {
	if m != e.mode {
		e.mode = m
		e.log.Info("mode changed", "mode", m)
	}
}

// ToggleMode flips between orbit and fly.
func (e *Engine) ToggleMode() {
	if e.mode == ModeOrbit {
		e.SetMode(ModeFly)
	} else {
		e.SetMode(ModeOrbit)
	}
}

// TickDuration returns the fixed timestep in seconds.
func (e *Engine) TickDuration() float64 { return e.dt }

// LastFrame returns the most recent frame, or nil before the first Render.
func (e *Engine) LastFrame() *march.Frame { return e.last }

// Advance adds dt seconds of wall time and runs every whole tick that fits.
// It returns the number of ticks run.
func (e *Engine) Advance(dt float64) int {
	e.accum += dt
	n := 0
	for e.accum >= e.dt {
		e.accum -= e.dt
		e.step()
		n++
		if n == maxStepsPerAdvance {
			e.accum = 0
			break
		}
	}
	return n
}

func (e *Engine) step() {
	e.clock += e.dt
	e.tick++
	if e.mode == ModeOrbit {
		e.orbit()
	}
	e.scheduler.Flush()
}

// orbit places the camera on a circle around the world center, keeping its
// height and looking horizontally at the center.
func (e *Engine) orbit() {
	center := e.world.Center()
	t := float32(e.clock)
	pos := mgl32.Vec3{
		center.X() + math32.Sin(t)*OrbitRadius,
		center.Y(),
		center.Z() + math32.Cos(t)*OrbitRadius,
	}
	e.camera.SetDir(center.Sub(pos))
	pos[1] = e.camera.Pos.Y()
	e.camera.Pos = pos
}

// Render raymarches one frame and queues the chunks it found missing.
func (e *Engine) Render() *march.Frame {
	f := e.renderer.Render(e.world, e.camera, e.viewplane, e.res)
	e.scheduler.Submit(f.Pending)
	e.frames++
	e.last = f
	return f
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	pos, dir := e.camera.Pose()
	s := Stats{
		Tick:      e.tick,
		Frames:    e.frames,
		Clock:     e.clock,
		Mode:      e.mode,
		CameraPos: pos,
		CameraDir: dir,
		Pending:   e.scheduler.Pending(),
		Generated: e.scheduler.Generated(),
		Chunks:    e.world.ChunkCount(),
	}
	if e.last != nil {
		s.Hits = e.last.Hits
	}
	return s
}

// Run renders frames one tick apart until frames have been produced or ctx
// is cancelled. frames <= 0 runs until cancellation.
func (e *Engine) Run(ctx context.Context, frames int, onFrame func(n int, f *march.Frame) error) error {
	for n := 0; frames <= 0 || n < frames; n++ {
		if ctx.Err() != nil {
			e.log.Info("render loop stopped", "frames", n)
			return nil
		}
		e.Advance(e.dt)
		f := e.Render()
		if onFrame != nil {
			if err := onFrame(n, f); err != nil {
				return fmt.Errorf("frame %d: %w", n, err)
			}
		}
	}
	return nil
}
