package heightmap

import (
	"math"

	"infinite-terrain/internal/noise"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Generator strategies. All of them leave every cell within [0, maxHeight].
//
// The noise-backed generators take a world-space offset: cells must be sampled
// at chunkCoord*chunkSize + localIndex, not at local indices, so that adjacent
// chunks produce bit-identical heights along shared edges.

// GenerateFlat fills the grid with a single level, clamped to [0, maxHeight].
func (h *Heightmap) GenerateFlat(level float64) {
	v := h.clamp(level)
	for i := range h.data {
		h.data[i] = v
	}
}

// GenerateHills fills the grid with a closed-form sine blend. amplitude is the
// peak elevation, frequency the grid-space wavelength control.
func (h *Heightmap) GenerateHills(amplitude, frequency float64) {
	for z := 0; z < h.height; z++ {
		for x := 0; x < h.width; x++ {
			s := (math.Sin(float64(x)*frequency) + math.Cos(float64(z)*frequency)) * 0.25
			h.data[z*h.width+x] = h.clamp((s + 0.5) * amplitude)
		}
	}
}

// GeneratePerlinNoise fills the grid with multi-octave gradient noise scaled to
// [0, maxHeight]. offsetX/offsetZ place the grid in world space (chunk
// coordinate times chunk size); scale converts grid units to noise space.
func (h *Heightmap) GeneratePerlinNoise(nf *noise.NoiseField, offsetX, offsetZ, scale float64, octaves int, persistence float64) {
	for z := 0; z < h.height; z++ {
		for x := 0; x < h.width; x++ {
			nx := (offsetX + float64(x)) * scale
			nz := (offsetZ + float64(z)) * scale
			v := nf.Fractal2D(nx, nz, octaves, persistence)
			h.data[z*h.width+x] = h.clamp(v * h.maxHeight)
		}
	}
}

// GenerateSimplexNoise is an alternative noise strategy backed by OpenSimplex.
// Same world-space sampling rule as GeneratePerlinNoise.
func (h *Heightmap) GenerateSimplexNoise(seed int64, offsetX, offsetZ, scale float64, octaves int, persistence float64) {
	n := opensimplex.New(seed)
	for z := 0; z < h.height; z++ {
		for x := 0; x < h.width; x++ {
			amplitude := 1.0
			frequency := 1.0
			sum := 0.0
			norm := 0.0
			for i := 0; i < octaves; i++ {
				nx := (offsetX + float64(x)) * scale * frequency
				nz := (offsetZ + float64(z)) * scale * frequency
				sum += n.Eval2(nx, nz) * amplitude
				norm += amplitude
				amplitude *= persistence
				frequency *= 2.0
			}
			v := 0.0
			if norm > 0 {
				v = (sum/norm + 1) * 0.5
			}
			h.data[z*h.width+x] = h.clamp(v * h.maxHeight)
		}
	}
}
