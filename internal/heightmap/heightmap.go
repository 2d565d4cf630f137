package heightmap

import (
	"math"
)

// Heightmap is a dense 2D grid of elevation samples. Cells are written only by
// the generator strategies (and SetHeightAt for seam stitching); every stored
// elevation stays within [0, maxHeight].
type Heightmap struct {
	width, height int
	tileSize      float64
	maxHeight     float64
	data          []float64
}

// New allocates a zeroed width x height heightmap. tileSize is world units per
// grid cell, maxHeight the normalization ceiling for all generators.
func New(width, height int, tileSize, maxHeight float64) *Heightmap {
	return &Heightmap{
		width:     width,
		height:    height,
		tileSize:  tileSize,
		maxHeight: maxHeight,
		data:      make([]float64, width*height),
	}
}

func (h *Heightmap) Width() int         { return h.width }
func (h *Heightmap) Height() int        { return h.height }
func (h *Heightmap) TileSize() float64  { return h.tileSize }
func (h *Heightmap) MaxHeight() float64 { return h.maxHeight }

// HeightAt returns the raw grid elevation at (x, z). Out-of-bounds lookups
// return 0.0; queries at the world edge degrade instead of failing.
func (h *Heightmap) HeightAt(x, z int) float64 {
	if x < 0 || x >= h.width || z < 0 || z >= h.height {
		return 0.0
	}
	return h.data[z*h.width+x]
}

// SetHeightAt writes a single cell. Out-of-bounds writes are dropped.
func (h *Heightmap) SetHeightAt(x, z int, v float64) {
	if x < 0 || x >= h.width || z < 0 || z >= h.height {
		return
	}
	h.data[z*h.width+x] = v
}

// gridCoords converts world coordinates (relative to the heightmap center) to
// fractional grid coordinates.
func (h *Heightmap) gridCoords(worldX, worldZ float64) (float64, float64) {
	gx := worldX/h.tileSize + float64(h.width-1)/2
	gz := worldZ/h.tileSize + float64(h.height-1)/2
	return gx, gz
}

// SampleHeight returns the bilinearly interpolated elevation at an arbitrary
// world position. The grid is centered on the heightmap's own origin. This is
// the primary collision/grounding query and is continuous as the sample
// position moves smoothly.
func (h *Heightmap) SampleHeight(worldX, worldZ float64) float64 {
	gx, gz := h.gridCoords(worldX, worldZ)

	x0 := math.Floor(gx)
	z0 := math.Floor(gz)
	tx := gx - x0
	tz := gz - z0
	ix := int(x0)
	iz := int(z0)

	h00 := h.HeightAt(ix, iz)
	h10 := h.HeightAt(ix+1, iz)
	h01 := h.HeightAt(ix, iz+1)
	h11 := h.HeightAt(ix+1, iz+1)

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz
}

// SampleSlope returns the magnitude of the central-difference height gradient
// at the cell nearest to the given world position.
func (h *Heightmap) SampleSlope(worldX, worldZ float64) float64 {
	gx, gz := h.gridCoords(worldX, worldZ)
	ix := int(math.Round(gx))
	iz := int(math.Round(gz))
	dx, dz := h.Gradient(ix, iz)
	return math.Sqrt(dx*dx + dz*dz)
}

// Gradient returns the central-difference gradient at grid cell (x, z).
// Border cells use their clamped neighbors so edges do not read as cliffs.
func (h *Heightmap) Gradient(x, z int) (float64, float64) {
	cl := func(v, hi int) int {
		if v < 0 {
			return 0
		}
		if v > hi {
			return hi
		}
		return v
	}
	xl := cl(x-1, h.width-1)
	xr := cl(x+1, h.width-1)
	zl := cl(z-1, h.height-1)
	zr := cl(z+1, h.height-1)

	spanX := float64(xr-xl) * h.tileSize
	spanZ := float64(zr-zl) * h.tileSize
	var dx, dz float64
	if spanX > 0 {
		dx = (h.HeightAt(xr, z) - h.HeightAt(xl, z)) / spanX
	}
	if spanZ > 0 {
		dz = (h.HeightAt(x, zr) - h.HeightAt(x, zl)) / spanZ
	}
	return dx, dz
}

func (h *Heightmap) clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > h.maxHeight {
		return h.maxHeight
	}
	return v
}
