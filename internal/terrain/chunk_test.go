package terrain

import (
	"math"
	"testing"

	"infinite-terrain/internal/config"
	"infinite-terrain/internal/noise"
	"infinite-terrain/internal/splat"
)

// exampleConfig is the reference scenario: chunkSize=16, tileSize=1,
// maxHeight=3, seed=42.
func exampleConfig() config.TerrainConfig {
	cfg := config.Default()
	cfg.ChunkSize = 16
	cfg.TileSize = 1.0
	cfg.MaxHeight = 3.0
	cfg.Seed = 42
	return cfg
}

func generateTestChunk(t testing.TB, coord ChunkCoord, cfg config.TerrainConfig) *Chunk {
	t.Helper()
	var sg *splat.Generator
	if cfg.Splat.Resolution > 0 {
		sg = splat.NewGenerator(cfg.Seed+1, cfg.Splat)
	}
	return GenerateChunk(coord, noise.New(cfg.Seed), sg, cfg)
}

func TestGenerateChunkHeightsInRange(t *testing.T) {
	cfg := exampleConfig()
	c := generateTestChunk(t, ChunkCoord{}, cfg)

	hm := c.Heightmap()
	for z := 0; z <= 16; z++ {
		for x := 0; x <= 16; x++ {
			v := hm.HeightAt(x, z)
			if v < 0 || v > 3.0 {
				t.Fatalf("heightmap cell (%d,%d) = %f outside [0,3]", x, z, v)
			}
		}
	}
}

// TestGenerateChunkLODVertexCounts verifies the stride rule on a generated
// chunk: tier 2 walks every 4th grid point of a size-16 chunk, 25 vertices.
func TestGenerateChunkLODVertexCounts(t *testing.T) {
	c := generateTestChunk(t, ChunkCoord{}, exampleConfig())

	want := []int{289, 81, 25}
	for tier := 0; tier < config.NumLODLevels; tier++ {
		if got := c.Mesh(tier).VertexCount(); got != want[tier] {
			t.Errorf("tier %d mesh has %d vertices, want %d", tier, got, want[tier])
		}
	}
	if c.Mesh(3) != nil || c.Mesh(-1) != nil {
		t.Errorf("out-of-range tier lookup should return nil")
	}
}

// TestChunkSeamContinuity verifies adjacent chunks agree along their shared
// edge, both at raw grid level and through world-space height queries. This
// holds only because generation samples noise at world-space coordinates.
func TestChunkSeamContinuity(t *testing.T) {
	cfg := exampleConfig()
	nf := noise.New(cfg.Seed)
	left := GenerateChunk(ChunkCoord{X: 0, Z: 0}, nf, nil, cfg)
	right := GenerateChunk(ChunkCoord{X: 1, Z: 0}, nf, nil, cfg)

	// Grid level: left's last column is right's first column.
	for z := 0; z <= 16; z++ {
		a := left.Heightmap().HeightAt(16, z)
		b := right.Heightmap().HeightAt(0, z)
		if math.Abs(a-b) > 1e-9 {
			t.Errorf("grid seam mismatch at z=%d: %f vs %f", z, a, b)
		}
	}

	// World-space queries along the shared edge x=8 (both footprints include it).
	edgeX := 8.0
	for i := 0; i <= 32; i++ {
		wz := -8.0 + float64(i)*0.5
		ha, okA := left.HeightAt(edgeX, wz)
		hb, okB := right.HeightAt(edgeX, wz)
		if !okA || !okB {
			t.Fatalf("edge position (%f,%f) not contained by both chunks", edgeX, wz)
		}
		if math.Abs(ha-hb) > 1e-9 {
			t.Errorf("world seam mismatch at z=%f: %f vs %f", wz, ha, hb)
		}
	}
}

func TestChunkHeightAtOutsideFootprint(t *testing.T) {
	c := generateTestChunk(t, ChunkCoord{}, exampleConfig())

	// Footprint of chunk (0,0) with worldSize 16 spans [-8, 8] on both axes.
	if _, ok := c.HeightAt(9.0, 0.0); ok {
		t.Errorf("HeightAt(9,0) claimed containment outside the footprint")
	}
	if _, ok := c.HeightAt(0.0, -8.5); ok {
		t.Errorf("HeightAt(0,-8.5) claimed containment outside the footprint")
	}
	if _, ok := c.HeightAt(0.0, 0.0); !ok {
		t.Errorf("HeightAt(0,0) rejected the chunk center")
	}
	if _, ok := c.SlopeAt(3.0, 3.0); !ok {
		t.Errorf("SlopeAt(3,3) rejected an interior position")
	}
}

// TestChunkSplatAttached verifies splat generation runs when configured and is
// skipped when disabled.
func TestChunkSplatAttached(t *testing.T) {
	cfg := exampleConfig()
	c := generateTestChunk(t, ChunkCoord{}, cfg)
	if c.Splat() == nil {
		t.Fatalf("expected splat map with resolution %d", cfg.Splat.Resolution)
	}
	if c.Splat().Resolution() != cfg.Splat.Resolution {
		t.Errorf("splat resolution %d, want %d", c.Splat().Resolution(), cfg.Splat.Resolution)
	}

	cfg.Splat.Resolution = 0
	c = generateTestChunk(t, ChunkCoord{}, cfg)
	if c.Splat() != nil {
		t.Errorf("splat map generated despite resolution 0")
	}
}

// TestChunkDeterminism verifies regenerating the same coordinate reproduces
// identical geometry.
func TestChunkDeterminism(t *testing.T) {
	cfg := exampleConfig()
	a := generateTestChunk(t, ChunkCoord{X: 3, Z: -2}, cfg)
	b := generateTestChunk(t, ChunkCoord{X: 3, Z: -2}, cfg)

	ma, mb := a.Mesh(0), b.Mesh(0)
	if len(ma.Vertices) != len(mb.Vertices) {
		t.Fatalf("vertex buffer lengths differ: %d vs %d", len(ma.Vertices), len(mb.Vertices))
	}
	for i := range ma.Vertices {
		if ma.Vertices[i] != mb.Vertices[i] {
			t.Fatalf("vertex buffers differ at index %d", i)
		}
	}
}

// BenchmarkGenerateChunk measures full chunk synthesis: heightmap, all LOD
// meshes, and the splat map.
func BenchmarkGenerateChunk(b *testing.B) {
	cfg := config.Default()
	nf := noise.New(cfg.Seed)
	sg := splat.NewGenerator(cfg.Seed+1, cfg.Splat)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateChunk(ChunkCoord{X: i, Z: -i}, nf, sg, cfg)
	}
}
