package march

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxels/internal/render/camera"
	"github.com/OCharnyshevich/voxels/internal/render/viewplane"
	"github.com/OCharnyshevich/voxels/internal/render/world"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	upY   = mgl32.Vec3{0, -1, 0}
)

func newScene(t *testing.T, pos, dir mgl32.Vec3) (*camera.Camera, *viewplane.Viewplane) {
	t.Helper()
	cam, err := camera.New(pos, dir, 1, upY)
	if err != nil {
		t.Fatalf("camera.New: %v", err)
	}
	vp, err := viewplane.New(mgl32.Vec2{4, 3}, 4.0/3.0)
	if err != nil {
		t.Fatalf("viewplane.New: %v", err)
	}
	return cam, vp
}

func collect(set PendingSet) func(world.ChunkPos) { return set.Add }

func TestTraceHitsFloorLookingDown(t *testing.T) {
	w := world.New(32)
	w.GenFloor(white)
	p := DefaultParams(w.Dim())

	origin := mgl32.Vec3{16.5, 20, 16.5}
	ray := Trace(w, origin, origin.Add(mgl32.Vec3{0, 1, 0}), p, nil)

	if !ray.Hit {
		t.Fatal("ray looking down at the floor missed")
	}
	if ray.Color != white {
		t.Errorf("hit color = %v, want white", ray.Color)
	}
	if ray.Distance < 11 || ray.Distance > 11+p.StepSize+1e-3 {
		t.Errorf("hit distance = %f, want within one step past 11", ray.Distance)
	}
	if ray.Distance > p.MaxDistance() {
		t.Errorf("hit distance %f exceeds the step budget %f", ray.Distance, p.MaxDistance())
	}
}

func TestRenderCenterPixelHitsAttenuatedFloor(t *testing.T) {
	w := world.New(32)
	w.GenFloor(white)
	p := DefaultParams(w.Dim())
	cam, vp := newScene(t, mgl32.Vec3{16.5, 20, 16.5}, mgl32.Vec3{0, 1, 0})

	r := NewRenderer(p, 1)
	defer r.Close()
	f := r.Render(w, cam, vp, viewplane.Resolution{W: 3, H: 3})

	if f.Hits != 9 {
		t.Errorf("Hits = %d, want 9", f.Hits)
	}
	if len(f.Pending) != 0 {
		t.Errorf("Pending = %v, want none", f.Pending)
	}

	got := f.At(1, 1)
	ray := Trace(w, cam.Pos, vp.Center(cam), p, nil)
	if want := p.Shade(ray); got != want {
		t.Errorf("center pixel = %v, want %v", got, want)
	}
	// 1 - 11/25.6 of full white, give or take one step.
	if got.R < 140 || got.R > 146 || got.R != got.G || got.G != got.B || got.A != 255 {
		t.Errorf("center pixel = %v, want opaque grey near 145", got)
	}
}

func TestTraceReportsTraversedUnknownChunks(t *testing.T) {
	w := world.New(64)
	p := DefaultParams(w.Dim())
	origin := mgl32.Vec3{8, 8, 8}

	pending := make(PendingSet)
	ray := Trace(w, origin, origin.Add(mgl32.Vec3{1, 0, 0}), p, collect(pending))

	if ray.Hit {
		t.Fatal("ray through an empty world reported a hit")
	}
	got := pending.Sorted()
	want := []world.ChunkPos{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}}
	if len(got) != len(want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pending[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTraceStopsBeforeChunksPastHit(t *testing.T) {
	w := world.New(64)
	w.SetVoxel(world.VoxelPos{X: 20, Y: 8, Z: 8}, white)
	p := DefaultParams(w.Dim())
	origin := mgl32.Vec3{8.5, 8.5, 8.5}

	pending := make(PendingSet)
	ray := Trace(w, origin, origin.Add(mgl32.Vec3{1, 0, 0}), p, collect(pending))

	if !ray.Hit {
		t.Fatal("ray missed the voxel")
	}
	got := pending.Sorted()
	if len(got) != 1 || got[0] != (world.ChunkPos{}) {
		t.Errorf("pending = %v, want only the starting chunk", got)
	}
}

func TestTraceIgnoresOutOfBoundsSteps(t *testing.T) {
	w := world.New(64)
	p := DefaultParams(w.Dim())
	origin := mgl32.Vec3{60, 8, 8}

	pending := make(PendingSet)
	Trace(w, origin, origin.Add(mgl32.Vec3{1, 0, 0}), p, collect(pending))

	got := pending.Sorted()
	if len(got) != 1 || got[0] != (world.ChunkPos{X: 3}) {
		t.Errorf("pending = %v, want only chunk (3,0,0)", got)
	}
}

func TestTraceDegenerateTarget(t *testing.T) {
	w := world.New(16)
	p := DefaultParams(w.Dim())
	o := mgl32.Vec3{1, 1, 1}
	if ray := Trace(w, o, o, p, nil); ray.Hit || ray.End != o {
		t.Errorf("Trace(o, o) = %+v, want miss at origin", ray)
	}
}

func TestShadeMisses(t *testing.T) {
	p := DefaultParams(512)

	if got := p.Shade(Ray{End: mgl32.Vec3{0, 100, 0}}); got != p.Sky {
		t.Errorf("miss above floor = %v, want sky %v", got, p.Sky)
	}
	if got := p.Shade(Ray{End: mgl32.Vec3{0, 511, 0}}); got != p.Background {
		t.Errorf("miss below threshold = %v, want background %v", got, p.Background)
	}
}

func TestShadeAttenuation(t *testing.T) {
	p := DefaultParams(64)
	c := color.RGBA{R: 200, G: 100, B: 50, A: 255}

	tests := []struct {
		dist float32
		want color.RGBA
	}{
		{0, color.RGBA{R: 200, G: 100, B: 50, A: 255}},
		{p.MaxDistance() / 2, color.RGBA{R: 100, G: 50, B: 25, A: 255}},
		{p.MaxDistance(), color.RGBA{A: 255}},
		{p.MaxDistance() * 2, color.RGBA{A: 255}},
	}
	for _, tt := range tests {
		if got := p.Shade(Ray{Hit: true, Color: c, Distance: tt.dist}); got != tt.want {
			t.Errorf("Shade(dist=%f) = %v, want %v", tt.dist, got, tt.want)
		}
	}
}

func TestParallelRenderMatchesSerial(t *testing.T) {
	w := world.New(64)
	w.GenFloor(white)
	w.GenCube(mgl32.Vec3{30, 55, 20}, mgl32.Vec3{4, 8, 4}, color.RGBA{R: 255, A: 255})
	w.GenSphere(mgl32.Vec3{40, 50, 24}, 4, color.RGBA{G: 200, A: 255})
	w.GenTerrain(world.ChunkPos{X: 1, Y: 3, Z: 0})

	cam, vp := newScene(t, mgl32.Vec3{32, 50, 40}, mgl32.Vec3{0, 0.3, -1})
	res := viewplane.Resolution{W: 40, H: 30}

	serial := NewRenderer(DefaultParams(w.Dim()), 1)
	defer serial.Close()
	parallel := NewRenderer(DefaultParams(w.Dim()), 4)
	defer parallel.Close()

	a := serial.Render(w, cam, vp, res)
	b := parallel.Render(w, cam, vp, res)

	if a.Hits != b.Hits {
		t.Errorf("hits: serial %d, parallel %d", a.Hits, b.Hits)
	}
	if len(a.Pixels) != res.Pixels() || len(b.Pixels) != res.Pixels() {
		t.Fatalf("pixel counts %d, %d, want %d", len(a.Pixels), len(b.Pixels), res.Pixels())
	}
	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("pixel %d: serial %v, parallel %v", i, a.Pixels[i], b.Pixels[i])
		}
	}
	if len(a.Pending) != len(b.Pending) {
		t.Fatalf("pending: serial %v, parallel %v", a.Pending, b.Pending)
	}
	for i := range a.Pending {
		if a.Pending[i] != b.Pending[i] {
			t.Errorf("pending[%d]: serial %v, parallel %v", i, a.Pending[i], b.Pending[i])
		}
	}
}

func TestRenderPendingIsDeduplicated(t *testing.T) {
	w := world.New(64)
	cam, vp := newScene(t, mgl32.Vec3{8, 8, 30}, mgl32.Vec3{0, 0, -1})

	r := NewRenderer(DefaultParams(w.Dim()), 2)
	defer r.Close()
	f := r.Render(w, cam, vp, viewplane.Resolution{W: 16, H: 12})

	seen := make(map[world.ChunkPos]bool)
	for i, c := range f.Pending {
		if seen[c] {
			t.Errorf("chunk %v reported twice", c)
		}
		seen[c] = true
		if i > 0 && !f.Pending[i-1].Less(c) {
			t.Errorf("pending not sorted at %d: %v then %v", i, f.Pending[i-1], c)
		}
	}
	if !seen[world.ChunkPos{X: 0, Y: 0, Z: 1}] {
		t.Errorf("camera chunk missing from pending %v", f.Pending)
	}
	if f.Hits != 0 {
		t.Errorf("Hits = %d in an empty world", f.Hits)
	}
}

func TestFrameImage(t *testing.T) {
	f := &Frame{Width: 2, Height: 1, Pixels: []color.RGBA{{R: 1, G: 2, B: 3, A: 255}, {R: 4, G: 5, B: 6, A: 255}}}
	img := f.Image()
	if got := img.RGBAAt(1, 0); got != f.Pixels[1] {
		t.Errorf("RGBAAt(1,0) = %v, want %v", got, f.Pixels[1])
	}
	if f.At(0, 0) != f.Pixels[0] {
		t.Errorf("At(0,0) = %v", f.At(0, 0))
	}
}

func TestFrameCopyToWiderImage(t *testing.T) {
	f := &Frame{Width: 2, Height: 2, Pixels: []color.RGBA{
		{R: 1, A: 255}, {R: 2, A: 255},
		{R: 3, A: 255}, {R: 4, A: 255},
	}}
	dst := image.NewRGBA(image.Rect(0, 0, 5, 3))
	f.CopyTo(dst)
	if got := dst.RGBAAt(1, 1); got != f.At(1, 1) {
		t.Errorf("RGBAAt(1,1) = %v, want %v", got, f.At(1, 1))
	}
	if got := dst.RGBAAt(2, 0); got != (color.RGBA{}) {
		t.Errorf("pixel outside frame written: %v", got)
	}
}

func TestPendingSetMerge(t *testing.T) {
	a := PendingSet{{X: 1}: {}, {Y: 2}: {}}
	b := PendingSet{{X: 1}: {}, {Z: -1}: {}}
	a.Merge(b)
	got := a.Sorted()
	want := []world.ChunkPos{{Z: -1}, {Y: 2}, {X: 1}}
	if len(got) != len(want) {
		t.Fatalf("Sorted() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sorted()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
