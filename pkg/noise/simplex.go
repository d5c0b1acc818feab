// Package noise provides seeded coherent noise for procedural terrain.
package noise

// Simplex 2D noise after Ken Perlin's simplex construction, skewed onto a
// triangular lattice. Values fall in [-1, 1].

const (
	skew2   = 0.36602540378443864676 // (sqrt(3) - 1) / 2
	unskew2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
)

// gradients2 holds the eight lattice gradient directions used in 2D.
var gradients2 = [8][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// Simplex is a deterministic 2D simplex noise source.
type Simplex struct {
	perm [512]uint8
}

// NewSimplex builds a Simplex whose permutation table is shuffled from seed.
// Equal seeds always yield equal noise fields.
func NewSimplex(seed int64) *Simplex {
	s := &Simplex{}

	var table [256]uint8
	for i := range table {
		table[i] = uint8(i)
	}

	state := uint64(seed)
	for i := len(table) - 1; i > 0; i-- {
		state = state*6364136223846793005 + 1442695040888963407
		j := int((state >> 33) % uint64(i+1))
		table[i], table[j] = table[j], table[i]
	}

	for i := range s.perm {
		s.perm[i] = table[i&255]
	}
	return s
}

// At samples the noise field at (x, y).
func (s *Simplex) At(x, y float64) float64 {
	skewed := (x + y) * skew2
	i := floor(x + skewed)
	j := floor(y + skewed)

	back := float64(i+j) * unskew2
	x0 := x - (float64(i) - back)
	y0 := y - (float64(j) - back)

	// Upper or lower triangle of the skewed cell.
	di, dj := 0, 1
	if x0 > y0 {
		di, dj = 1, 0
	}

	x1 := x0 - float64(di) + unskew2
	y1 := y0 - float64(dj) + unskew2
	x2 := x0 - 1 + 2*unskew2
	y2 := y0 - 1 + 2*unskew2

	ii := i & 255
	jj := j & 255

	sum := s.corner(ii, jj, x0, y0) +
		s.corner(ii+di, jj+dj, x1, y1) +
		s.corner(ii+1, jj+1, x2, y2)
	return clamp(70 * sum)
}

// Octaves sums octaves of noise, doubling frequency and scaling amplitude by
// persistence each time, normalized back to [-1, 1].
func (s *Simplex) Octaves(x, y float64, octaves int, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	var total, norm float64
	amplitude, frequency := 1.0, 1.0
	for o := 0; o < octaves; o++ {
		total += s.At(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / norm
}

func (s *Simplex) corner(i, j int, dx, dy float64) float64 {
	t := 0.5 - dx*dx - dy*dy
	if t < 0 {
		return 0
	}
	g := gradients2[s.perm[i+int(s.perm[j])]&7]
	t *= t
	return t * t * (g[0]*dx + g[1]*dy)
}

func floor(v float64) int {
	n := int(v)
	if v < float64(n) {
		return n - 1
	}
	return n
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
