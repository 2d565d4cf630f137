package terrain

import (
	"log"
	"math"
	"sync"
	"time"

	"infinite-terrain/internal/config"
	"infinite-terrain/internal/noise"
	"infinite-terrain/internal/profiling"
	"infinite-terrain/internal/splat"

	"github.com/go-gl/mathgl/mgl32"
)

// slowLoadThreshold triggers a log line when one tick's chunk load/unload pass
// takes longer than a frame budget would tolerate.
const slowLoadThreshold = 50 * time.Millisecond

// ChunkManager streams chunks around a moving viewer. It is the sole owner of
// the chunk table: chunks are created when the viewer's retention sweep needs
// them and destroyed when they leave the retention radius. Generation is
// synchronous and inline; the table is guarded for single-writer /
// multiple-reader access so render and collision queries can read between
// ticks.
type ChunkManager struct {
	cfg      config.TerrainConfig
	noise    *noise.NoiseField
	splatGen *splat.Generator
	lod      LODSelector

	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk

	viewerChunk    ChunkCoord
	hasViewerChunk bool

	chunksGenerated int
	chunksUnloaded  int
}

// NewChunkManager validates the configuration and builds an empty manager.
// Invalid configuration fails here, before any chunk generation is attempted.
func NewChunkManager(cfg config.TerrainConfig) (*ChunkManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &ChunkManager{
		cfg:    cfg,
		noise:  noise.New(cfg.Seed),
		lod:    NewLODSelector(cfg.LOD.NearDistance, cfg.LOD.FarDistance),
		chunks: make(map[ChunkCoord]*Chunk),
	}
	if cfg.Splat.Resolution > 0 {
		// Variation noise is seeded off the terrain seed but runs through an
		// independent generator, so terrain shape and splat styling decouple.
		m.splatGen = splat.NewGenerator(cfg.Seed+1, cfg.Splat)
	}
	return m, nil
}

// Tick advances the streaming state for one simulation step. Every loaded
// chunk's detail tier is refreshed from its camera distance (cheap, every
// tick); the load/unload sweep runs only when the viewer crosses into a new
// chunk cell, so no chunk churn happens mid-cell.
func (m *ChunkManager) Tick(viewerPos, cameraPos mgl32.Vec3) {
	defer profiling.Track("terrain.Tick")()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.chunks {
		d := float64(cameraPos.Sub(c.Center).Len())
		c.setView(m.lod.LevelForDistance(d), d)
	}

	vc := m.chunkCoordAt(float64(viewerPos.X()), float64(viewerPos.Z()))
	if m.hasViewerChunk && vc == m.viewerChunk {
		return
	}
	m.viewerChunk = vc
	m.hasViewerChunk = true

	start := time.Now()
	loaded := m.loadAround(vc)
	unloaded := m.evictBeyond(vc)

	if d := time.Since(start); d > slowLoadThreshold && loaded > 0 {
		log.Printf("terrain: slow chunk sweep: %v for %d loaded, %d evicted around (%d,%d)",
			d, loaded, unloaded, vc.X, vc.Z)
	}
}

// loadAround synthesizes every missing chunk within the render distance
// (Chebyshev metric) of the viewer chunk. Caller holds the write lock.
func (m *ChunkManager) loadAround(vc ChunkCoord) int {
	defer profiling.Track("terrain.loadAround")()
	r := m.cfg.RenderDistance
	loaded := 0
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			coord := ChunkCoord{X: vc.X + dx, Z: vc.Z + dz}
			if _, ok := m.chunks[coord]; ok {
				continue
			}
			m.chunks[coord] = GenerateChunk(coord, m.noise, m.splatGen, m.cfg)
			m.chunksGenerated++
			loaded++
		}
	}
	return loaded
}

// evictBeyond removes chunks whose Chebyshev distance from the viewer chunk
// exceeds renderDistance+1. The one-chunk buffer keeps a chunk loaded while
// the viewer oscillates across a cell boundary. Caller holds the write lock.
func (m *ChunkManager) evictBeyond(vc ChunkCoord) int {
	defer profiling.Track("terrain.evictBeyond")()
	limit := m.cfg.RenderDistance + 1
	unloaded := 0
	for coord, c := range m.chunks {
		if chebyshev(coord, vc) > limit {
			c.releaseGPU()
			delete(m.chunks, coord)
			m.chunksUnloaded++
			unloaded++
		}
	}
	return unloaded
}

// TerrainHeight returns the interpolated terrain height at a world position.
// Queries in unloaded regions return the configured fallback ground level;
// this path never fails, which is the graceful-degradation contract for the
// collision system.
func (m *ChunkManager) TerrainHeight(worldX, worldZ float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c, ok := m.chunks[m.chunkCoordAt(worldX, worldZ)]; ok {
		if h, inside := c.HeightAt(worldX, worldZ); inside {
			return h
		}
	}
	return m.cfg.FallbackGroundLevel
}

// TerrainSlope returns the terrain gradient magnitude at a world position, or
// 0 in unloaded regions.
func (m *ChunkManager) TerrainSlope(worldX, worldZ float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c, ok := m.chunks[m.chunkCoordAt(worldX, worldZ)]; ok {
		if s, inside := c.SlopeAt(worldX, worldZ); inside {
			return s
		}
	}
	return 0
}

// ChunkAt returns the loaded chunk at a chunk coordinate, or nil.
func (m *ChunkManager) ChunkAt(coord ChunkCoord) *Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chunks[coord]
}

// LoadedChunks returns a snapshot slice of all loaded chunks, for the renderer
// to draw each chunk's active tier.
func (m *ChunkManager) LoadedChunks() []*Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Chunk, 0, len(m.chunks))
	for _, c := range m.chunks {
		out = append(out, c)
	}
	return out
}

// LoadedCount returns the number of loaded chunks.
func (m *ChunkManager) LoadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Stats returns lifetime counters of generated and unloaded chunks.
func (m *ChunkManager) Stats() (generated, unloaded int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chunksGenerated, m.chunksUnloaded
}

// Reset disposes all GPU resources, empties the chunk table, and clears the
// viewer-chunk tracking so the next tick performs a full reload.
func (m *ChunkManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for coord, c := range m.chunks {
		c.releaseGPU()
		delete(m.chunks, coord)
		m.chunksUnloaded++
	}
	m.hasViewerChunk = false
}

// chunkCoordAt maps a world position to the chunk whose footprint contains it.
// Footprints are centered on chunkCoord*chunkWorldSize, so the lookup shifts
// by a half extent before flooring.
func (m *ChunkManager) chunkCoordAt(worldX, worldZ float64) ChunkCoord {
	ws := m.cfg.ChunkWorldSize()
	return ChunkCoord{
		X: int(math.Floor((worldX + ws/2) / ws)),
		Z: int(math.Floor((worldZ + ws/2) / ws)),
	}
}

func chebyshev(a, b ChunkCoord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}
