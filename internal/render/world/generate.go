package world

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// GenFloor fills the whole y = FloorLevel layer with col.
func (w *World) GenFloor(col color.RGBA) {
	y := w.FloorLevel()
	for x := 0; x < w.dim; x++ {
		for z := 0; z < w.dim; z++ {
			w.SetVoxel(VoxelPos{X: x, Y: y, Z: z}, col)
		}
	}
}

// GenCube fills the axis-aligned box starting at pos with the given extent.
// Cells outside the world are skipped; the call is always logged.
func (w *World) GenCube(pos, size mgl32.Vec3, col color.RGBA) {
	base := Floor(pos)
	for x := 0; x < int(size[0]); x++ {
		for y := 0; y < int(size[1]); y++ {
			for z := 0; z < int(size[2]); z++ {
				w.SetVoxel(VoxelPos{X: base.X + x, Y: base.Y + y, Z: base.Z + z}, col)
			}
		}
	}
	w.objects = append(w.objects, Object{Pos: pos, Size: size, Color: col})
}

// GenSphere fills every integer offset within radius of pos.
// Cells outside the world are skipped; the call is always logged.
func (w *World) GenSphere(pos mgl32.Vec3, radius float32, col color.RGBA) {
	r := int(radius)
	base := Floor(pos)
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				if x*x+y*y+z*z > r*r {
					continue
				}
				w.SetVoxel(VoxelPos{X: base.X + x, Y: base.Y + y, Z: base.Z + z}, col)
			}
		}
	}
	d := float32(2 * r)
	w.objects = append(w.objects, Object{Pos: pos, Size: mgl32.Vec3{d, d, d}, Color: col})
}

// GenTerrain generates chunk c from the terrain model. It is a no-op for a
// chunk that is already present and reports whether anything was generated.
//
// The chunk is marked present before any cell is written, so a chunk whose
// columns all fall outside the terrain band still ends up present-empty.
// Writes are clipped to c itself.
func (w *World) GenTerrain(c ChunkPos) bool {
	if w.HasChunk(c) {
		return false
	}
	ch := w.ensureChunk(c)

	origin := c.Origin()
	for lx := 0; lx < ChunkSize; lx++ {
		for lz := 0; lz < ChunkSize; lz++ {
			wx, wz := origin.X+lx, origin.Z+lz
			if wx < 0 || wx >= w.dim || wz < 0 || wz >= w.dim {
				continue
			}
			surface := w.terrain.SurfaceY(wx, wz)
			lo := max(surface, origin.Y, 0)
			hi := min(w.terrain.VoidLevel, origin.Y+ChunkSize, w.dim)
			for y := lo; y < hi; y++ {
				if y == surface {
					ch.Set(lx, y-origin.Y, lz, w.terrain.Surface)
				} else {
					ch.Set(lx, y-origin.Y, lz, w.terrain.Fill)
				}
			}
		}
	}
	return true
}
