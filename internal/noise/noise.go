package noise

import (
	"math"
	"math/rand"
)

// NoiseField is a deterministic 2D gradient-noise generator. All state is a
// permutation table built once from the seed; the same seed always produces
// the same field, with no dependence on platform RNG.
type NoiseField struct {
	perm [512]int
}

// New builds a NoiseField from a seed. The permutation table is a Fisher-Yates
// shuffle of 0..255 driven by math/rand seeded with the given value, mirrored
// to 512 entries so index wrapping needs no modulo.
func New(seed int64) *NoiseField {
	nf := &NoiseField{}
	r := rand.New(rand.NewSource(seed))

	p := make([]int, 256)
	for i := range p {
		p[i] = i
	}
	r.Shuffle(256, func(i, j int) { p[i], p[j] = p[j], p[i] })

	for i := 0; i < 512; i++ {
		nf.perm[i] = p[i&255]
	}
	return nf
}

// fade is the smoothstep-like quintic 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// grad2 selects one of 8 gradient directions from the hash and returns its
// dot product with (x, y).
func grad2(hash int, x, y float64) float64 {
	h := hash & 7
	u, v := x, y
	if h >= 4 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Sample2D returns a continuous noise value in [-1, 1] at (x, y).
// Same seed and coordinates always yield identical output.
func (n *NoiseField) Sample2D(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	xi := int(x0) & 255
	yi := int(y0) & 255
	fx := x - x0
	fy := y - y0

	u := fade(fx)
	v := fade(fy)

	aa := n.perm[n.perm[xi]+yi]
	ab := n.perm[n.perm[xi]+yi+1]
	ba := n.perm[n.perm[xi+1]+yi]
	bb := n.perm[n.perm[xi+1]+yi+1]

	i0 := lerp(grad2(aa, fx, fy), grad2(ba, fx-1, fy), u)
	i1 := lerp(grad2(ab, fx, fy-1), grad2(bb, fx-1, fy-1), u)
	return lerp(i0, i1, v)
}

// Fractal2D layers octaves of Sample2D at doubling frequency and persistence-
// scaled amplitude, normalizes by the accumulated amplitude, and remaps the
// result from [-1, 1] to [0, 1].
func (n *NoiseField) Fractal2D(x, y float64, octaves int, persistence float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += n.Sample2D(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	if norm == 0 {
		return 0
	}
	return (sum/norm + 1) * 0.5
}
