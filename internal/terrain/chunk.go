package terrain

import (
	"infinite-terrain/internal/config"
	"infinite-terrain/internal/heightmap"
	"infinite-terrain/internal/meshing"
	"infinite-terrain/internal/noise"
	"infinite-terrain/internal/splat"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkCoord addresses a chunk in integer chunk space.
type ChunkCoord struct {
	X, Z int
}

// GPUResource is an opaque handle to renderer-owned state (typically the
// uploaded splat texture). The terrain core only ever disposes it.
type GPUResource interface {
	Dispose()
}

// Chunk owns the heightmap, the precomputed meshes for every detail tier, and
// the optional splat map for one square region of world space. The geometry is
// immutable after generation; only the small view state (current tier, camera
// distance) and the lazily attached GPU handle change per tick.
type Chunk struct {
	Coord  ChunkCoord
	Center mgl32.Vec3

	hm     *heightmap.Heightmap
	meshes [config.NumLODLevels]*meshing.Mesh
	splat  *splat.Map

	halfExtent float64

	// View state, updated every tick by the manager.
	currentLOD     int
	cameraDistance float64

	splatTexture GPUResource
}

// GenerateChunk synthesizes a chunk: heightmap from world-space noise, then
// one mesh per detail tier. The heightmap is (size+1)^2 so shared-edge
// vertices align with neighbors sampled at the same world coordinates.
func GenerateChunk(coord ChunkCoord, nf *noise.NoiseField, splatGen *splat.Generator, cfg config.TerrainConfig) *Chunk {
	size := cfg.ChunkSize
	hm := heightmap.New(size+1, size+1, cfg.TileSize, cfg.MaxHeight)
	hm.GeneratePerlinNoise(nf,
		float64(coord.X*size), float64(coord.Z*size),
		cfg.NoiseScale, cfg.Octaves, cfg.Persistence)

	worldSize := cfg.ChunkWorldSize()
	center := mgl32.Vec3{
		float32(float64(coord.X) * worldSize),
		0,
		float32(float64(coord.Z) * worldSize),
	}

	c := &Chunk{
		Coord:      coord,
		Center:     center,
		hm:         hm,
		halfExtent: worldSize / 2,
	}
	for tier := 0; tier < config.NumLODLevels; tier++ {
		c.meshes[tier] = meshing.BuildLODMesh(hm, center, tier)
	}
	if splatGen != nil {
		c.splat = splatGen.Generate(hm)
	}
	return c
}

// Heightmap returns the chunk's elevation grid.
func (c *Chunk) Heightmap() *heightmap.Heightmap { return c.hm }

// Splat returns the chunk's blend-weight map, or nil when splat generation is
// disabled.
func (c *Chunk) Splat() *splat.Map { return c.splat }

// Mesh returns the precomputed mesh for a tier.
func (c *Chunk) Mesh(tier int) *meshing.Mesh {
	if tier < 0 || tier >= config.NumLODLevels {
		return nil
	}
	return c.meshes[tier]
}

// CurrentMesh returns the mesh for the active detail tier. Tier switching is a
// pointer swap; no geometry is regenerated.
func (c *Chunk) CurrentMesh() *meshing.Mesh { return c.meshes[c.currentLOD] }

// CurrentLOD returns the active detail tier.
func (c *Chunk) CurrentLOD() int { return c.currentLOD }

// CameraDistance returns the camera distance recorded on the last tick.
func (c *Chunk) CameraDistance() float64 { return c.cameraDistance }

func (c *Chunk) setView(lod int, distance float64) {
	c.currentLOD = lod
	c.cameraDistance = distance
}

// Contains reports whether a world position falls inside the chunk's square
// footprint. Both edges are inclusive so a boundary position resolves from
// either neighbor.
func (c *Chunk) Contains(worldX, worldZ float64) bool {
	dx := worldX - float64(c.Center.X())
	dz := worldZ - float64(c.Center.Z())
	return dx >= -c.halfExtent && dx <= c.halfExtent &&
		dz >= -c.halfExtent && dz <= c.halfExtent
}

// HeightAt returns the interpolated terrain height at a world position, or
// false if the position is outside this chunk's footprint.
func (c *Chunk) HeightAt(worldX, worldZ float64) (float64, bool) {
	if !c.Contains(worldX, worldZ) {
		return 0, false
	}
	return c.hm.SampleHeight(worldX-float64(c.Center.X()), worldZ-float64(c.Center.Z())), true
}

// SlopeAt returns the terrain gradient magnitude at a world position, or false
// if the position is outside this chunk's footprint.
func (c *Chunk) SlopeAt(worldX, worldZ float64) (float64, bool) {
	if !c.Contains(worldX, worldZ) {
		return 0, false
	}
	return c.hm.SampleSlope(worldX-float64(c.Center.X()), worldZ-float64(c.Center.Z())), true
}

// SetSplatTexture attaches the renderer's uploaded texture handle. The chunk
// disposes it on eviction.
func (c *Chunk) SetSplatTexture(tex GPUResource) { c.splatTexture = tex }

// SplatTexture returns the attached GPU handle, or nil.
func (c *Chunk) SplatTexture() GPUResource { return c.splatTexture }

// releaseGPU disposes the attached GPU handle, if any.
func (c *Chunk) releaseGPU() {
	if c.splatTexture != nil {
		c.splatTexture.Dispose()
		c.splatTexture = nil
	}
}
