// Package viewplane samples a camera-anchored rectangle into one world-space
// ray target per output pixel.
package viewplane

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxels/internal/render/camera"
)

// AspectTolerance is the allowed gap between size.x/size.y and the target ratio.
const AspectTolerance = 1e-2

// ErrAspectRatio is wrapped by New when the plane does not match the target ratio.
var ErrAspectRatio = errors.New("viewplane: aspect ratio mismatch")

// Resolution is an output size in pixels.
type Resolution struct {
	W, H int
}

// Pixels returns W*H.
func (r Resolution) Pixels() int { return r.W * r.H }

// Viewplane is a world-space rectangle placed in front of a camera.
// It caches nothing about the camera: every call takes the current pose.
type Viewplane struct {
	size mgl32.Vec2
}

// New creates a viewplane of the given world size, checking it against the
// target aspect ratio.
func New(size mgl32.Vec2, aspectRatio float32) (*Viewplane, error) {
	if size[0] <= 0 || size[1] <= 0 {
		return nil, fmt.Errorf("%w: non-positive size %v", ErrAspectRatio, size)
	}
	got := size[0] / size[1]
	if math32.Abs(got-aspectRatio) > AspectTolerance {
		return nil, fmt.Errorf("%w: %g does not match %g", ErrAspectRatio, got, aspectRatio)
	}
	return &Viewplane{size: size}, nil
}

// Size returns the world-space width and height.
func (v *Viewplane) Size() mgl32.Vec2 { return v.size }

// Center returns the point the camera looks through.
func (v *Viewplane) Center(c *camera.Camera) mgl32.Vec3 {
	return c.Pos.Add(c.Dir().Mul(c.ViewplaneDistance))
}

// TopLeft returns the plane's top-left corner.
func (v *Viewplane) TopLeft(c *camera.Camera) mgl32.Vec3 {
	half := v.size.Mul(0.5)
	return v.Center(c).
		Sub(c.Right().Mul(half[0])).
		Add(c.Up().Mul(half[1]))
}

// Right returns the plane's horizontal axis.
func (v *Viewplane) Right(c *camera.Camera) mgl32.Vec3 { return c.Right() }

// Down returns the plane's vertical axis, pointing down the image.
func (v *Viewplane) Down(c *camera.Camera) mgl32.Vec3 { return c.Down() }

// Targets returns one pixel-center point per pixel, row-major.
func (v *Viewplane) Targets(c *camera.Camera, res Resolution) []mgl32.Vec3 {
	return v.AppendTargets(make([]mgl32.Vec3, 0, res.Pixels()), c, res)
}

// AppendTargets appends the targets for res to dst and returns it.
// Each row starts from the previous row's start so column steps never
// accumulate into the next row.
func (v *Viewplane) AppendTargets(dst []mgl32.Vec3, c *camera.Camera, res Resolution) []mgl32.Vec3 {
	if res.W <= 0 || res.H <= 0 {
		return dst
	}
	right := c.Right()
	down := c.Down()
	px := mgl32.Vec2{v.size[0] / float32(res.W), v.size[1] / float32(res.H)}

	rowStart := v.TopLeft(c).
		Add(right.Mul(px[0] / 2)).
		Add(down.Mul(px[1] / 2))
	colStep := right.Mul(px[0])
	rowStep := down.Mul(px[1])

	for y := 0; y < res.H; y++ {
		t := rowStart
		for x := 0; x < res.W; x++ {
			dst = append(dst, t)
			t = t.Add(colStep)
		}
		rowStart = rowStart.Add(rowStep)
	}
	return dst
}
