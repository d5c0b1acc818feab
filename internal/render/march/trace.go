// Package march renders a voxel world by stepping one ray per viewplane
// target at a fixed distance and resolving the first occupied cell.
package march

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxels/internal/render/world"
)

// Defaults match the renderer's fidelity target.
const (
	DefaultSteps    = 128
	DefaultStepSize = 0.2
)

var (
	// DefaultSky is painted for misses that end above the floor.
	DefaultSky = color.RGBA{B: 25, A: 255}
	// DefaultBackground is painted for the remaining misses.
	DefaultBackground = color.RGBA{A: 255}
)

// Voxels is the read-only view of a world that a ray needs.
type Voxels interface {
	InBounds(p world.VoxelPos) bool
	GetVoxel(p world.VoxelPos) (color.RGBA, world.Lookup)
	ChunkOf(p world.VoxelPos) world.ChunkPos
}

// Params controls ray stepping and miss colors.
type Params struct {
	Steps    int
	StepSize float32

	Sky        color.RGBA
	Background color.RGBA
	// SkyThreshold: a miss ending with y below it is painted Sky.
	SkyThreshold float32
}

// DefaultParams returns the standard parameters for a world of side dim.
func DefaultParams(dim int) Params {
	return Params{
		Steps:        DefaultSteps,
		StepSize:     DefaultStepSize,
		Sky:          DefaultSky,
		Background:   DefaultBackground,
		SkyThreshold: float32(dim - 2),
	}
}

// MaxDistance is the furthest a ray can travel.
func (p Params) MaxDistance() float32 {
	return float32(p.Steps) * p.StepSize
}

// Ray is the outcome of tracing one ray.
type Ray struct {
	Hit      bool
	Color    color.RGBA // voxel color, valid when Hit
	Distance float32    // distance from origin to the hit point
	End      mgl32.Vec3 // last stepped position
}

// Trace steps from origin toward target and stops at the first hit. Each
// in-bounds step that lands in an ungenerated chunk is reported to unknown,
// possibly more than once for the same chunk.
func Trace(v Voxels, origin, target mgl32.Vec3, p Params, unknown func(world.ChunkPos)) Ray {
	dir := target.Sub(origin)
	if dir.Len() == 0 {
		return Ray{End: origin, Distance: p.MaxDistance()}
	}
	step := dir.Normalize().Mul(p.StepSize)

	pos := origin
	for i := 0; i < p.Steps; i++ {
		pos = pos.Add(step)
		wp := world.Floor(pos)
		if !v.InBounds(wp) {
			continue
		}
		c, res := v.GetVoxel(wp)
		switch res {
		case world.Hit:
			return Ray{Hit: true, Color: c, Distance: pos.Sub(origin).Len(), End: pos}
		case world.Unknown:
			if unknown != nil {
				unknown(v.ChunkOf(wp))
			}
		}
	}
	return Ray{End: pos, Distance: p.MaxDistance()}
}

// Shade turns a traced ray into a pixel color.
func (p Params) Shade(r Ray) color.RGBA {
	if !r.Hit {
		if r.End[1] < p.SkyThreshold {
			return p.Sky
		}
		return p.Background
	}
	b := 1 - r.Distance/p.MaxDistance()
	b = math32.Max(0, math32.Min(1, b))
	return color.RGBA{
		R: uint8(float32(r.Color.R) * b),
		G: uint8(float32(r.Color.G) * b),
		B: uint8(float32(r.Color.B) * b),
		A: 255,
	}
}
