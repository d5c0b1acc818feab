package march

import (
	"image"
	"image/color"
	"runtime"
	"sort"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxels/internal/render/camera"
	"github.com/OCharnyshevich/voxels/internal/render/viewplane"
	"github.com/OCharnyshevich/voxels/internal/render/world"
)

// Frame is the result of one render pass.
type Frame struct {
	Width, Height int
	Pixels        []color.RGBA // row-major
	// Pending lists each ungenerated chunk the pass walked through, once, sorted.
	Pending []world.ChunkPos
	Hits    int
}

// At returns the pixel at column x, row y.
func (f *Frame) At(x, y int) color.RGBA {
	return f.Pixels[y*f.Width+x]
}

// Image copies the frame into a new RGBA image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	f.CopyTo(img)
	return img
}

// CopyTo writes the pixels into dst, which must be at least the frame's size
// and start at the origin.
func (f *Frame) CopyTo(dst *image.RGBA) {
	for y := 0; y < f.Height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x, c := range f.Pixels[y*f.Width : (y+1)*f.Width] {
			j := x * 4
			row[j+0] = c.R
			row[j+1] = c.G
			row[j+2] = c.B
			row[j+3] = c.A
		}
	}
}

// PendingSet is a deduplicated set of chunk coordinates.
type PendingSet map[world.ChunkPos]struct{}

// Add inserts c.
func (s PendingSet) Add(c world.ChunkPos) { s[c] = struct{}{} }

// Merge inserts every element of o.
func (s PendingSet) Merge(o PendingSet) {
	for c := range o {
		s[c] = struct{}{}
	}
}

// Sorted returns the elements in ChunkPos order.
func (s PendingSet) Sorted() []world.ChunkPos {
	out := make([]world.ChunkPos, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Renderer raymarches frames. With more than one worker, rows are split into
// bands traced on a worker pool. The world must not be written during Render.
type Renderer struct {
	params  Params
	workers int
	pool    pond.Pool

	targets []mgl32.Vec3
}

// NewRenderer creates a renderer. workers <= 0 uses one worker per CPU.
func NewRenderer(params Params, workers int) *Renderer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	r := &Renderer{params: params, workers: workers}
	if workers > 1 {
		r.pool = pond.NewPool(workers)
	}
	return r
}

// Params returns the renderer's parameters.
func (r *Renderer) Params() Params { return r.params }

// Close stops the worker pool.
func (r *Renderer) Close() {
	if r.pool != nil {
		r.pool.StopAndWait()
	}
}

// Render traces every pixel of res and collects the chunks still to generate.
func (r *Renderer) Render(v Voxels, cam *camera.Camera, vp *viewplane.Viewplane, res viewplane.Resolution) *Frame {
	r.targets = vp.AppendTargets(r.targets[:0], cam, res)
	f := &Frame{
		Width:  res.W,
		Height: res.H,
		Pixels: make([]color.RGBA, len(r.targets)),
	}
	origin := cam.Pos

	if r.pool == nil || res.H < 2 {
		pending := make(PendingSet)
		f.Hits = r.band(v, origin, 0, len(r.targets), f.Pixels, pending)
		f.Pending = pending.Sorted()
		return f
	}

	bands := min(r.workers, res.H)
	sets := make([]PendingSet, bands)
	hits := make([]int, bands)

	var wg sync.WaitGroup
	for b := 0; b < bands; b++ {
		b := b // per-iteration copy (go.mod targets Go 1.21 loop semantics)
		lo := res.H * b / bands * res.W
		hi := res.H * (b + 1) / bands * res.W
		sets[b] = make(PendingSet)
		wg.Add(1)
		r.pool.Submit(func() {
			defer wg.Done()
			hits[b] = r.band(v, origin, lo, hi, f.Pixels, sets[b])
		})
	}
	wg.Wait()

	pending := sets[0]
	for b := 1; b < bands; b++ {
		pending.Merge(sets[b])
	}
	for _, h := range hits {
		f.Hits += h
	}
	f.Pending = pending.Sorted()
	return f
}

func (r *Renderer) band(v Voxels, origin mgl32.Vec3, lo, hi int, out []color.RGBA, pending PendingSet) int {
	hits := 0
	for i := lo; i < hi; i++ {
		ray := Trace(v, origin, r.targets[i], r.params, pending.Add)
		if ray.Hit {
			hits++
		}
		out[i] = r.params.Shade(ray)
	}
	return hits
}
