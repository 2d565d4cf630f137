// Package splat derives per-texel texture-blend weights from terrain shape.
// The four channels (grass, dirt, rock, sand) always sum to 1 so a renderer
// can feed them straight into a blend shader.
package splat

import (
	"math"

	"infinite-terrain/internal/config"
	"infinite-terrain/internal/heightmap"

	"github.com/aquilax/go-perlin"
)

// Weights is one texel's blend weights. Each component lies in [0, 1] and the
// four sum to 1.
type Weights struct {
	Grass, Dirt, Rock, Sand float64
}

// Map is a resolution x resolution grid of blend weights.
type Map struct {
	resolution int
	texels     []Weights
}

// Resolution returns the side length of the map in texels.
func (m *Map) Resolution() int { return m.resolution }

// At returns the weights at texel (x, z). Out-of-bounds queries return pure
// grass rather than failing.
func (m *Map) At(x, z int) Weights {
	if x < 0 || x >= m.resolution || z < 0 || z >= m.resolution {
		return Weights{Grass: 1}
	}
	return m.texels[z*m.resolution+x]
}

// Generator classifies heightmap texels into blend weights using height
// thresholds, local slope, and a secondary variation-noise field. The
// variation noise is independent of the terrain-shape noise; the output is a
// pure function of the heightmap contents, the thresholds, and the seed.
type Generator struct {
	cfg       config.SplatConfig
	variation *perlin.Perlin
}

// NewGenerator builds a splat generator. The variation field uses two octaves
// of Perlin noise seeded independently of terrain shape.
func NewGenerator(seed int64, cfg config.SplatConfig) *Generator {
	return &Generator{
		cfg:       cfg,
		variation: perlin.NewPerlin(2, 2, 2, seed),
	}
}

// Generate computes the blend-weight grid for one heightmap.
func (g *Generator) Generate(hm *heightmap.Heightmap) *Map {
	res := g.cfg.Resolution
	m := &Map{
		resolution: res,
		texels:     make([]Weights, res*res),
	}

	maxHeight := hm.MaxHeight()
	// Nearest-cell mapping from texel space to heightmap space.
	sx := float64(hm.Width()-1) / float64(res-1)
	sz := float64(hm.Height()-1) / float64(res-1)

	for tz := 0; tz < res; tz++ {
		hz := int(math.Round(float64(tz) * sz))
		for tx := 0; tx < res; tx++ {
			hx := int(math.Round(float64(tx) * sx))

			normalizedHeight := hm.HeightAt(hx, hz) / maxHeight
			slope := slopeFactor(hm, hx, hz)
			variation := g.variationAt(tx, tz)

			m.texels[tz*res+tx] = g.classify(normalizedHeight, slope, variation)
		}
	}
	return m
}

// variationAt samples the stylistic variation field, remapped to [0, 1].
func (g *Generator) variationAt(tx, tz int) float64 {
	v := g.variation.Noise2D(float64(tx)*g.cfg.VariationScale, float64(tz)*g.cfg.VariationScale)
	v = (v + 1) * 0.5
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// slopeFactor converts the central-difference gradient at a cell into
// 1/sqrt(1+|grad|^2): 1.0 on flat ground, approaching 0 on vertical faces.
func slopeFactor(hm *heightmap.Heightmap, hx, hz int) float64 {
	dx, dz := hm.Gradient(hx, hz)
	return 1 / math.Sqrt(1+dx*dx+dz*dz)
}

// classify turns one texel's shape parameters into normalized blend weights.
func (g *Generator) classify(normalizedHeight, slope, variation float64) Weights {
	cfg := g.cfg
	var w Weights

	switch {
	case normalizedHeight < cfg.SandMaxHeight:
		// Shoreline band: sand fading into grass with height.
		t := normalizedHeight / cfg.SandMaxHeight
		w.Sand = 1 - t
		w.Grass = t

	case normalizedHeight < cfg.GrassMaxHeight:
		w.Grass = 1
		// Dirt patches on near-flat mid ground where the variation field runs hot.
		if slope > 0.95 && variation > 0.6 {
			d := (variation - 0.6) / 0.4 * 0.5
			w.Dirt = d
			w.Grass = 1 - d
		}

	default:
		// Highland band: grass fading into rock, with a dirt transition seam
		// strongest mid-blend.
		t := (normalizedHeight - cfg.GrassMaxHeight) / (1 - cfg.GrassMaxHeight)
		w.Grass = 1 - t
		w.Rock = t
		w.Dirt = (1 - math.Abs(1-2*t)) * 0.3
	}

	// Steep terrain forces rock regardless of the height classification,
	// weighted quadratically by steepness.
	if slope < cfg.RockMinSlope {
		s := (cfg.RockMinSlope - slope) / cfg.RockMinSlope
		w.Rock += s * s * 2
	}

	return normalize(w)
}

// normalize scales the four weights to sum exactly to 1. A degenerate all-zero
// texel falls back to pure grass instead of emitting NaN.
func normalize(w Weights) Weights {
	sum := w.Grass + w.Dirt + w.Rock + w.Sand
	if sum <= 0 {
		return Weights{Grass: 1}
	}
	w.Grass /= sum
	w.Dirt /= sum
	w.Rock /= sum
	w.Sand /= sum
	return w
}
