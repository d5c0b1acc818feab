// Package gen holds the terrain column model used for lazy chunk generation.
package gen

import (
	"image/color"

	"github.com/OCharnyshevich/voxels/pkg/noise"
)

// DefaultSeed is the fixed seed of the terrain noise field.
const DefaultSeed int64 = 0x5eed

// Terrain describes a heightfield: a surface cell per column with a solid
// fill beneath it. Larger y is lower; the surface rises from FloorLevel
// toward y=0 as the noise height grows.
type Terrain struct {
	Seed      int64
	Frequency float64 // noise samples per world unit
	Octaves   int
	Amplitude float64 // maximum rise above FloorLevel, in voxels

	FloorLevel int // surface height where the noise height is zero
	VoidLevel  int // first y that is never filled (exclusive bound)

	Surface color.RGBA
	Fill    color.RGBA

	noise *noise.Simplex
}

// NewTerrain creates the default terrain for a world of the given dimension.
func NewTerrain(dim int) *Terrain {
	t := &Terrain{
		Seed:       DefaultSeed,
		Frequency:  1.0 / 64.0,
		Octaves:    4,
		Amplitude:  24,
		FloorLevel: dim - 1,
		VoidLevel:  dim,
		Surface:    color.RGBA{R: 70, G: 160, B: 60, A: 255},
		Fill:       color.RGBA{R: 120, G: 90, B: 60, A: 255},
	}
	return t.Reseed(t.Seed)
}

// Reseed rebuilds the noise field for seed and returns t.
func (t *Terrain) Reseed(seed int64) *Terrain {
	t.Seed = seed
	t.noise = noise.NewSimplex(seed)
	return t
}

// Height returns the noise height of column (x, z), in [0, Amplitude].
func (t *Terrain) Height(x, z int) int {
	if t.noise == nil {
		t.Reseed(t.Seed)
	}
	n := t.noise.Octaves(float64(x)*t.Frequency, float64(z)*t.Frequency, t.Octaves, 0.5)
	return int((n + 1) / 2 * t.Amplitude)
}

// SurfaceY returns the y of the surface cell in column (x, z).
func (t *Terrain) SurfaceY(x, z int) int {
	return t.FloorLevel - t.Height(x, z)
}
