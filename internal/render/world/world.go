// Package world stores the sparse voxel grid: a cube of dim³ cells split into
// lazily allocated chunks.
package world

import (
	"image/color"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxels/internal/render/world/gen"
)

// VoxelPos is an integer voxel coordinate.
type VoxelPos struct {
	X, Y, Z int
}

// Floor converts a world-space point to the voxel containing it.
func Floor(p mgl32.Vec3) VoxelPos {
	return VoxelPos{
		X: int(math32.Floor(p[0])),
		Y: int(math32.Floor(p[1])),
		Z: int(math32.Floor(p[2])),
	}
}

// Vec returns the voxel's lower corner as a float vector.
func (p VoxelPos) Vec() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

// Lookup is the outcome of a voxel query.
type Lookup int

const (
	// Unknown means the position is out of bounds or its chunk was never generated.
	Unknown Lookup = iota
	// Miss means the chunk exists but the cell is empty.
	Miss
	// Hit means the cell holds a color.
	Hit
)

func (l Lookup) String() string {
	switch l {
	case Miss:
		return "miss"
	case Hit:
		return "hit"
	default:
		return "unknown"
	}
}

// Object records one cube or sphere generation call.
type Object struct {
	Pos   mgl32.Vec3
	Size  mgl32.Vec3
	Color color.RGBA
}

// World is a cube of dim³ voxels with its lower corner at the origin.
// Chunks absent from the map have not been generated.
//
// World is not safe for concurrent mutation. Concurrent readers are fine as
// long as nothing writes during the read pass.
type World struct {
	dim     int
	chunks  map[ChunkPos]*Chunk
	objects []Object
	terrain *gen.Terrain
}

// New creates an empty world of side dim using the default terrain.
func New(dim int) *World {
	return NewWithTerrain(dim, gen.NewTerrain(dim))
}

// NewWithTerrain creates an empty world that generates chunks from terrain.
func NewWithTerrain(dim int, terrain *gen.Terrain) *World {
	return &World{
		dim:     dim,
		chunks:  make(map[ChunkPos]*Chunk),
		terrain: terrain,
	}
}

// Dim returns the world side length in voxels.
func (w *World) Dim() int { return w.dim }

// Terrain returns the terrain model used by GenTerrain.
func (w *World) Terrain() *gen.Terrain { return w.terrain }

// FloorLevel is the y of the bottom layer.
func (w *World) FloorLevel() int { return w.dim - 1 }

// AboveFloorLevel is the first layer above the floor.
func (w *World) AboveFloorLevel() int { return w.dim - 2 }

// Center returns the world's center point.
func (w *World) Center() mgl32.Vec3 {
	h := float32(w.dim) / 2
	return mgl32.Vec3{h, h, h}
}

// InBounds reports whether every component of p lies in [0, dim).
func (w *World) InBounds(p VoxelPos) bool {
	return p.X >= 0 && p.X < w.dim &&
		p.Y >= 0 && p.Y < w.dim &&
		p.Z >= 0 && p.Z < w.dim
}

// ChunkOf returns the chunk owning voxel p. Valid for out-of-bounds p too.
func (w *World) ChunkOf(p VoxelPos) ChunkPos {
	return ChunkPos{
		X: floorDiv(p.X, ChunkSize),
		Y: floorDiv(p.Y, ChunkSize),
		Z: floorDiv(p.Z, ChunkSize),
	}
}

// ToChunkPos returns floor(p / ChunkSize) componentwise.
func (w *World) ToChunkPos(p mgl32.Vec3) ChunkPos {
	return w.ChunkOf(Floor(p))
}

// GetVoxel resolves p to Hit with its color, Miss, or Unknown.
func (w *World) GetVoxel(p VoxelPos) (color.RGBA, Lookup) {
	if !w.InBounds(p) {
		return color.RGBA{}, Unknown
	}
	ch, ok := w.chunks[w.ChunkOf(p)]
	if !ok {
		return color.RGBA{}, Unknown
	}
	c, ok := ch.Get(mod(p.X, ChunkSize), mod(p.Y, ChunkSize), mod(p.Z, ChunkSize))
	if !ok {
		return color.RGBA{}, Miss
	}
	return c, Hit
}

// SetVoxel stores col at p, allocating p's chunk if it is absent.
// Out-of-bounds positions are ignored.
func (w *World) SetVoxel(p VoxelPos, col color.RGBA) {
	if !w.InBounds(p) {
		return
	}
	ch := w.ensureChunk(w.ChunkOf(p))
	ch.Set(mod(p.X, ChunkSize), mod(p.Y, ChunkSize), mod(p.Z, ChunkSize), col)
}

// HasChunk reports whether chunk c has been generated.
func (w *World) HasChunk(c ChunkPos) bool {
	_, ok := w.chunks[c]
	return ok
}

// Chunk returns the chunk at c, or nil if it is absent.
func (w *World) Chunk(c ChunkPos) *Chunk {
	return w.chunks[c]
}

// ChunkCount returns the number of present chunks.
func (w *World) ChunkCount() int { return len(w.chunks) }

// LoadedChunks returns the present chunk positions in sorted order.
func (w *World) LoadedChunks() []ChunkPos {
	keys := make([]ChunkPos, 0, len(w.chunks))
	for k := range w.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Objects returns the log of cube and sphere generation calls.
func (w *World) Objects() []Object {
	out := make([]Object, len(w.objects))
	copy(out, w.objects)
	return out
}

// Reset drops every chunk and the object log.
func (w *World) Reset() {
	w.chunks = make(map[ChunkPos]*Chunk)
	w.objects = nil
}

func (w *World) ensureChunk(c ChunkPos) *Chunk {
	ch, ok := w.chunks[c]
	if !ok {
		ch = &Chunk{}
		w.chunks[c] = ch
	}
	return ch
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
