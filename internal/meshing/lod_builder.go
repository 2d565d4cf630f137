package meshing

import (
	"math"

	"infinite-terrain/internal/heightmap"

	"github.com/go-gl/mathgl/mgl32"
)

// Terrain surface color, shaded per vertex by normalized height.
var baseColor = [3]float32{0.33, 0.62, 0.28}

// BuildLODMesh builds a reduced-resolution mesh for one detail tier by walking
// the heightmap at stride 2^tier. The heightmap must be (size+1)x(size+1) with
// size divisible by the stride. center is the chunk's world-space center; the
// emitted positions are absolute world coordinates.
//
// Triangles wind counter-clockwise as viewed from above for correct backface
// culling.
func BuildLODMesh(hm *heightmap.Heightmap, center mgl32.Vec3, tier int) *Mesh {
	size := hm.Width() - 1
	stride := 1 << tier
	steps := size / stride
	n := steps + 1

	mesh := &Mesh{
		Vertices: make([]float32, 0, n*n*VertexStride),
		Indices:  make([]uint32, 0, steps*steps*6),
	}

	half := float64(size) / 2
	tile := hm.TileSize()
	maxHeight := hm.MaxHeight()

	for row := 0; row < n; row++ {
		gz := row * stride
		for col := 0; col < n; col++ {
			gx := col * stride

			y := hm.HeightAt(gx, gz)
			wx := center.X() + float32((float64(gx)-half)*tile)
			wz := center.Z() + float32((float64(gz)-half)*tile)

			nx, ny, nz := vertexNormal(hm, gx, gz)

			shade := float32(0.55 + 0.45*y/maxHeight)

			mesh.Vertices = append(mesh.Vertices,
				wx, float32(y), wz,
				nx, ny, nz,
				baseColor[0]*shade, baseColor[1]*shade, baseColor[2]*shade,
			)
		}
	}

	for row := 0; row < steps; row++ {
		for col := 0; col < steps; col++ {
			tl := uint32(row*n + col)
			tr := tl + 1
			bl := uint32((row+1)*n + col)
			br := bl + 1

			mesh.Indices = append(mesh.Indices,
				tl, bl, tr,
				tr, bl, br,
			)
		}
	}

	return mesh
}

// vertexNormal derives the surface normal at a grid point from the height
// gradient there.
func vertexNormal(hm *heightmap.Heightmap, gx, gz int) (float32, float32, float32) {
	dx, dz := hm.Gradient(gx, gz)
	// Normal of the surface y = h(x, z) is (-dh/dx, 1, -dh/dz) normalized.
	inv := 1.0 / math.Sqrt(dx*dx+dz*dz+1)
	return float32(-dx * inv), float32(inv), float32(-dz * inv)
}

// LODVertexCount returns the vertex count BuildLODMesh emits for a chunk of
// the given size at the given tier.
func LODVertexCount(size, tier int) int {
	n := size/(1<<tier) + 1
	return n * n
}
