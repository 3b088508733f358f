package noise

import "math"

// Seeded simplex noise over a shuffled permutation table. All sampling is a
// pure function of (seed, coordinates), so terrain built from it is fully
// deterministic and independent of evaluation order.

type Noise struct {
	perm [512]uint8
}

// grad3 holds the 12 edge-direction gradients used by both the 2D and 3D
// samplers.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// New builds a generator whose permutation table is a Fisher-Yates shuffle of
// 0..255 driven by an LCG seeded with the world seed.
func New(seed uint32) *Noise {
	n := &Noise{}
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	state := uint64(seed)*6364136223846793005 + 1442695040888963407
	for i := 255; i > 0; i-- {
		state = state*6364136223846793005 + 1442695040888963407
		j := int((state >> 33) % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}
	for i := 0; i < 512; i++ {
		n.perm[i] = p[i&255]
	}
	return n
}

const (
	skew2D   = 0.3660254037844386  // (sqrt(3)-1)/2
	unskew2D = 0.21132486540518713 // (3-sqrt(3))/6
	skew3D   = 1.0 / 3.0
	unskew3D = 1.0 / 6.0
)

// Sample2D returns simplex noise in [-1, 1].
func (n *Noise) Sample2D(x, y float64) float64 {
	s := (x + y) * skew2D
	i := int(math.Floor(x + s))
	j := int(math.Floor(y + s))

	t := float64(i+j) * unskew2D
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + unskew2D
	y1 := y0 - float64(j1) + unskew2D
	x2 := x0 - 1 + 2*unskew2D
	y2 := y0 - 1 + 2*unskew2D

	ii := i & 255
	jj := j & 255
	g0 := n.perm[ii+int(n.perm[jj])] % 12
	g1 := n.perm[ii+i1+int(n.perm[jj+j1])] % 12
	g2 := n.perm[ii+1+int(n.perm[jj+1])] % 12

	var total float64
	if t0 := 0.5 - x0*x0 - y0*y0; t0 > 0 {
		t0 *= t0
		total += t0 * t0 * (grad3[g0][0]*x0 + grad3[g0][1]*y0)
	}
	if t1 := 0.5 - x1*x1 - y1*y1; t1 > 0 {
		t1 *= t1
		total += t1 * t1 * (grad3[g1][0]*x1 + grad3[g1][1]*y1)
	}
	if t2 := 0.5 - x2*x2 - y2*y2; t2 > 0 {
		t2 *= t2
		total += t2 * t2 * (grad3[g2][0]*x2 + grad3[g2][1]*y2)
	}
	return 70 * total
}

// Sample3D returns simplex noise in [-1, 1].
func (n *Noise) Sample3D(x, y, z float64) float64 {
	s := (x + y + z) * skew3D
	i := int(math.Floor(x + s))
	j := int(math.Floor(y + s))
	k := int(math.Floor(z + s))

	t := float64(i+j+k) * unskew3D
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)

	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + unskew3D
	y1 := y0 - float64(j1) + unskew3D
	z1 := z0 - float64(k1) + unskew3D
	x2 := x0 - float64(i2) + 2*unskew3D
	y2 := y0 - float64(j2) + 2*unskew3D
	z2 := z0 - float64(k2) + 2*unskew3D
	x3 := x0 - 1 + 3*unskew3D
	y3 := y0 - 1 + 3*unskew3D
	z3 := z0 - 1 + 3*unskew3D

	ii := i & 255
	jj := j & 255
	kk := k & 255
	g0 := n.perm[ii+int(n.perm[jj+int(n.perm[kk])])] % 12
	g1 := n.perm[ii+i1+int(n.perm[jj+j1+int(n.perm[kk+k1])])] % 12
	g2 := n.perm[ii+i2+int(n.perm[jj+j2+int(n.perm[kk+k2])])] % 12
	g3 := n.perm[ii+1+int(n.perm[jj+1+int(n.perm[kk+1])])] % 12

	var total float64
	if t0 := 0.6 - x0*x0 - y0*y0 - z0*z0; t0 > 0 {
		t0 *= t0
		total += t0 * t0 * (grad3[g0][0]*x0 + grad3[g0][1]*y0 + grad3[g0][2]*z0)
	}
	if t1 := 0.6 - x1*x1 - y1*y1 - z1*z1; t1 > 0 {
		t1 *= t1
		total += t1 * t1 * (grad3[g1][0]*x1 + grad3[g1][1]*y1 + grad3[g1][2]*z1)
	}
	if t2 := 0.6 - x2*x2 - y2*y2 - z2*z2; t2 > 0 {
		t2 *= t2
		total += t2 * t2 * (grad3[g2][0]*x2 + grad3[g2][1]*y2 + grad3[g2][2]*z2)
	}
	if t3 := 0.6 - x3*x3 - y3*y3 - z3*z3; t3 > 0 {
		t3 *= t3
		total += t3 * t3 * (grad3[g3][0]*x3 + grad3[g3][1]*y3 + grad3[g3][2]*z3)
	}
	return 32 * total
}

// Fractal2D sums octaves of Sample2D with the given lacunarity and gain,
// normalized back into [-1, 1].
func (n *Noise) Fractal2D(x, y float64, octaves int, lacunarity, gain float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	norm := 0.0
	for o := 0; o < octaves; o++ {
		sum += amp * n.Sample2D(x*freq, y*freq)
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	return sum / norm
}

// Fractal3D is the 3D counterpart of Fractal2D.
func (n *Noise) Fractal3D(x, y, z float64, octaves int, lacunarity, gain float64) float64 {
	sum := 0.0
	amp := 1.0
	freq := 1.0
	norm := 0.0
	for o := 0; o < octaves; o++ {
		sum += amp * n.Sample3D(x*freq, y*freq, z*freq)
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	return sum / norm
}

// Fixed per-field sample offsets keep the three terrain fields decorrelated
// while still deriving from the single seeded permutation table.
const (
	erosionOffsetX = 517.31
	erosionOffsetY = -293.77
	peaksOffsetX   = -712.13
	peaksOffsetY   = 431.57
)

// Continentalness is the broad landmass field: 3 octaves, lacunarity 1.5.
func (n *Noise) Continentalness(x, y float64) float64 {
	return n.Fractal2D(x, y, 3, 1.5, 0.5)
}

// Erosion flattens terrain where it runs high: 4 octaves, lacunarity 2.
func (n *Noise) Erosion(x, y float64) float64 {
	return n.Fractal2D(x+erosionOffsetX, y+erosionOffsetY, 4, 2.0, 0.5)
}

// PeaksAndValleys drives the mountain ridges: 4 octaves, lacunarity 2.
func (n *Noise) PeaksAndValleys(x, y float64) float64 {
	return n.Fractal2D(x+peaksOffsetX, y+peaksOffsetY, 4, 2.0, 0.5)
}
