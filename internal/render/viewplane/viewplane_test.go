package viewplane

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxels/internal/render/camera"
)

func newCamera(t *testing.T, up mgl32.Vec3) *camera.Camera {
	t.Helper()
	c, err := camera.New(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, 1, up)
	if err != nil {
		t.Fatalf("camera.New: %v", err)
	}
	return c
}

func TestNewAspectRatio(t *testing.T) {
	if _, err := New(mgl32.Vec2{4, 3}, 4.0/3.0); err != nil {
		t.Errorf("New(4x3, 4/3) = %v, want nil", err)
	}
	if _, err := New(mgl32.Vec2{16, 9.05}, 16.0/9.0); err != nil {
		t.Errorf("New within tolerance = %v, want nil", err)
	}
	if _, err := New(mgl32.Vec2{1, 1}, 4.0/3.0); !errors.Is(err, ErrAspectRatio) {
		t.Errorf("New(1x1, 4/3) = %v, want ErrAspectRatio", err)
	}
	if _, err := New(mgl32.Vec2{4, 0}, 4.0/3.0); !errors.Is(err, ErrAspectRatio) {
		t.Errorf("New(4x0) = %v, want ErrAspectRatio", err)
	}
}

func TestTargetsSymmetricGrid(t *testing.T) {
	cam := newCamera(t, mgl32.Vec3{0, 1, 0})
	vp, err := New(mgl32.Vec2{4, 3}, 4.0/3.0)
	if err != nil {
		t.Fatal(err)
	}

	got := vp.Targets(cam, Resolution{W: 2, H: 2})
	want := []mgl32.Vec3{
		{-1, 0.75, -1},
		{1, 0.75, -1},
		{-1, -0.75, -1},
		{1, -0.75, -1},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Targets) = %d, want %d", len(got), len(want))
	}
	var sum mgl32.Vec3
	for i := range want {
		if !got[i].ApproxEqualThreshold(want[i], 1e-5) {
			t.Errorf("target %d = %v, want %v", i, got[i], want[i])
		}
		sum = sum.Add(got[i])
	}
	if center := sum.Mul(0.25); !center.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("grid center = %v, want (0,0,-1)", center)
	}
}

func TestTargetsFirstIsTopLeftLastIsBottomRight(t *testing.T) {
	cam := newCamera(t, mgl32.Vec3{0, -1, 0})
	vp, _ := New(mgl32.Vec2{4, 3}, 4.0/3.0)

	got := vp.Targets(cam, Resolution{W: 2, H: 2})
	right, up := cam.Right(), cam.Up()
	first, last := got[0], got[len(got)-1]
	for i, p := range got {
		if p.Dot(right) < first.Dot(right)-1e-5 || p.Dot(up) > first.Dot(up)+1e-5 {
			t.Errorf("target %d %v is left of or above the first target %v", i, p, first)
		}
		if p.Dot(right) > last.Dot(right)+1e-5 || p.Dot(up) < last.Dot(up)-1e-5 {
			t.Errorf("target %d %v is right of or below the last target %v", i, p, last)
		}
	}
}

func TestTargetsRowMajorCount(t *testing.T) {
	cam := newCamera(t, mgl32.Vec3{0, -1, 0})
	vp, _ := New(mgl32.Vec2{4, 3}, 4.0/3.0)
	res := Resolution{W: 7, H: 5}

	got := vp.Targets(cam, res)
	if len(got) != res.Pixels() {
		t.Fatalf("len(Targets) = %d, want %d", len(got), res.Pixels())
	}
	right := cam.Right()
	down := cam.Down()
	// Columns advance along right within a row; rows advance along down.
	if d := got[1].Sub(got[0]).Dot(right); d <= 0 {
		t.Errorf("column step along right = %f, want > 0", d)
	}
	if d := got[res.W].Sub(got[0]).Dot(down); d <= 0 {
		t.Errorf("row step along down = %f, want > 0", d)
	}
	// Every row starts in the same column.
	for y := 1; y < res.H; y++ {
		if d := got[y*res.W].Sub(got[0]).Dot(right); d > 1e-5 || d < -1e-5 {
			t.Errorf("row %d start drifted by %f along right", y, d)
		}
	}
}

func TestTargetsFollowCamera(t *testing.T) {
	cam := newCamera(t, mgl32.Vec3{0, -1, 0})
	vp, _ := New(mgl32.Vec2{4, 3}, 4.0/3.0)

	before := vp.Targets(cam, Resolution{W: 3, H: 3})
	cam.Translate(mgl32.Vec3{5, 0, 0})
	after := vp.Targets(cam, Resolution{W: 3, H: 3})

	for i := range before {
		if !after[i].ApproxEqualThreshold(before[i].Add(mgl32.Vec3{5, 0, 0}), 1e-5) {
			t.Errorf("target %d = %v, want %v shifted by 5", i, after[i], before[i])
		}
	}
	// Center pixel of an odd grid sits on the view axis.
	if c := after[4]; !c.ApproxEqualThreshold(vp.Center(cam), 1e-5) {
		t.Errorf("center target = %v, want %v", c, vp.Center(cam))
	}
}

func TestAppendTargetsReusesBuffer(t *testing.T) {
	cam := newCamera(t, mgl32.Vec3{0, -1, 0})
	vp, _ := New(mgl32.Vec2{4, 3}, 4.0/3.0)

	buf := make([]mgl32.Vec3, 0, 64)
	buf = vp.AppendTargets(buf[:0], cam, Resolution{W: 4, H: 3})
	if len(buf) != 12 || cap(buf) != 64 {
		t.Errorf("len, cap = %d, %d, want 12, 64", len(buf), cap(buf))
	}
	if got := vp.AppendTargets(nil, cam, Resolution{}); len(got) != 0 {
		t.Errorf("empty resolution produced %d targets", len(got))
	}
}

func TestTopLeftUsesCameraBasis(t *testing.T) {
	cam := newCamera(t, mgl32.Vec3{0, -1, 0})
	vp, _ := New(mgl32.Vec2{4, 3}, 4.0/3.0)

	want := mgl32.Vec3{2, -1.5, -1}
	if got := vp.TopLeft(cam); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("TopLeft = %v, want %v", got, want)
	}
	if vp.Right(cam) != cam.Right() || vp.Down(cam) != cam.Down() {
		t.Error("viewplane axes differ from camera basis")
	}
}
