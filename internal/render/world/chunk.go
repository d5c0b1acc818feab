package world

import "image/color"

// ChunkSize is the edge length of a chunk in voxels.
const ChunkSize = 16

const chunkVolume = ChunkSize * ChunkSize * ChunkSize

// ChunkPos identifies a chunk by integer chunk coordinates.
type ChunkPos struct {
	X, Y, Z int
}

// Origin returns the voxel at the chunk's lowest corner.
func (c ChunkPos) Origin() VoxelPos {
	return VoxelPos{X: c.X * ChunkSize, Y: c.Y * ChunkSize, Z: c.Z * ChunkSize}
}

// Less orders chunk positions by X, then Y, then Z.
func (c ChunkPos) Less(o ChunkPos) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

// Chunk is a dense ChunkSize³ array of cells. A cell with zero alpha is empty.
type Chunk struct {
	cells  [chunkVolume]color.RGBA
	filled int
}

func chunkIndex(x, y, z int) int {
	return (y*ChunkSize+z)*ChunkSize + x
}

// Get returns the cell at local coordinates; ok is false for an empty cell.
// x, y, z must be in [0, ChunkSize).
func (c *Chunk) Get(x, y, z int) (color.RGBA, bool) {
	v := c.cells[chunkIndex(x, y, z)]
	return v, v.A != 0
}

// Set stores an opaque color at local coordinates.
func (c *Chunk) Set(x, y, z int, col color.RGBA) {
	i := chunkIndex(x, y, z)
	if c.cells[i].A == 0 {
		c.filled++
	}
	col.A = 255
	c.cells[i] = col
}

// Filled returns the number of non-empty cells.
func (c *Chunk) Filled() int { return c.filled }

// Empty reports whether the chunk holds no colored cells.
func (c *Chunk) Empty() bool { return c.filled == 0 }
