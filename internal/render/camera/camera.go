// Package camera holds the viewer pose and the basis vectors derived from it.
package camera

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrZeroDirection is returned when a direction or up axis has zero length.
var ErrZeroDirection = errors.New("camera: zero-length vector")

// fallbackRef replaces the up axis when the view direction is parallel to it.
var fallbackRef = mgl32.Vec3{0, 0, 1}

const parallelEpsilon = 1e-6

// Camera is a position, a unit view direction and the signed distance to the
// viewplane. The up axis is shared with every component that derives a basis
// from the camera.
type Camera struct {
	Pos               mgl32.Vec3
	ViewplaneDistance float32

	dir     mgl32.Vec3
	worldUp mgl32.Vec3

	originalPos mgl32.Vec3
	originalDir mgl32.Vec3
}

// New creates a camera looking along dir. dir and worldUp are normalized and
// the initial pose is kept for Reset.
func New(pos, dir mgl32.Vec3, viewplaneDistance float32, worldUp mgl32.Vec3) (*Camera, error) {
	if dir.Len() == 0 || worldUp.Len() == 0 {
		return nil, ErrZeroDirection
	}
	d := dir.Normalize()
	return &Camera{
		Pos:               pos,
		ViewplaneDistance: viewplaneDistance,
		dir:               d,
		worldUp:           worldUp.Normalize(),
		originalPos:       pos,
		originalDir:       d,
	}, nil
}

// Dir returns the unit view direction.
func (c *Camera) Dir() mgl32.Vec3 { return c.dir }

// Pose returns the current position and view direction.
func (c *Camera) Pose() (pos, dir mgl32.Vec3) { return c.Pos, c.dir }

// WorldUp returns the shared up axis.
func (c *Camera) WorldUp() mgl32.Vec3 { return c.worldUp }

// SetDir points the camera along dir. A zero vector leaves it unchanged.
func (c *Camera) SetDir(dir mgl32.Vec3) {
	if dir.Len() == 0 {
		return
	}
	c.dir = dir.Normalize()
}

// LookAt points the camera at target. Does nothing if target is the position.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.SetDir(target.Sub(c.Pos))
}

// Reset restores the initial position and direction. The viewplane
// distance is left alone.
func (c *Camera) Reset() {
	c.Pos = c.originalPos
	c.dir = c.originalDir
}

// Right returns normalize(dir × up).
func (c *Camera) Right() mgl32.Vec3 {
	r := c.dir.Cross(c.worldUp)
	if r.Len() < parallelEpsilon {
		r = c.dir.Cross(fallbackRef)
	}
	return r.Normalize()
}

// Up returns the image-space up vector, perpendicular to Right and Dir.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.dir).Normalize()
}

// Down returns -Up.
func (c *Camera) Down() mgl32.Vec3 { return c.Up().Mul(-1) }

// Left returns -Right.
func (c *Camera) Left() mgl32.Vec3 { return c.Right().Mul(-1) }

// Rotate turns the view direction by angle radians around axis.
// axis must be non-zero.
func (c *Camera) Rotate(axis mgl32.Vec3, angle float32) {
	q := mgl32.QuatRotate(angle, axis.Normalize())
	c.dir = q.Rotate(c.dir).Normalize()
}

// Translate moves the camera by delta.
func (c *Camera) Translate(delta mgl32.Vec3) {
	c.Pos = c.Pos.Add(delta)
}

// MoveForward moves along the view direction.
func (c *Camera) MoveForward(d float32) { c.Translate(c.dir.Mul(d)) }

// MoveRight moves along Right.
func (c *Camera) MoveRight(d float32) { c.Translate(c.Right().Mul(d)) }

// MoveUp moves along Up.
func (c *Camera) MoveUp(d float32) { c.Translate(c.Up().Mul(d)) }

// AdjustViewplane changes the viewplane distance by d.
func (c *Camera) AdjustViewplane(d float32) { c.ViewplaneDistance += d }
