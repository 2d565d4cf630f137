package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// NumLODLevels is the number of precomputed detail tiers per chunk.
	NumLODLevels = 3

	// MaxLODStride is the grid stride of the coarsest tier. Chunk sizes must
	// be a multiple of this so every tier walks the grid evenly.
	MaxLODStride = 1 << (NumLODLevels - 1)
)

// TerrainConfig is the full configuration surface of the terrain system. It is
// constructed explicitly and threaded through generation calls; there is no
// global mutable settings state.
type TerrainConfig struct {
	// ChunkSize is the number of grid cells per chunk side. The heightmap is
	// (ChunkSize+1)^2 so shared-edge vertices align with neighbors.
	ChunkSize int `yaml:"chunk_size"`
	// TileSize is world units per grid cell.
	TileSize float64 `yaml:"tile_size"`
	// RenderDistance is the chunk-space Chebyshev radius kept loaded around
	// the viewer. Eviction uses RenderDistance+1 as a hysteresis buffer.
	RenderDistance int `yaml:"render_distance"`
	// MaxHeight is the elevation ceiling; all generated heights lie in
	// [0, MaxHeight].
	MaxHeight float64 `yaml:"max_height"`
	// Seed drives all terrain-shape noise.
	Seed int64 `yaml:"seed"`

	NoiseScale  float64 `yaml:"noise_scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`

	// FallbackGroundLevel is returned by height queries in unloaded regions.
	FallbackGroundLevel float64 `yaml:"fallback_ground_level"`

	LOD   LODConfig   `yaml:"lod"`
	Splat SplatConfig `yaml:"splat"`
}

// LODConfig holds the camera-distance thresholds between detail tiers.
type LODConfig struct {
	// NearDistance: tier 0 below this camera distance.
	NearDistance float64 `yaml:"near_distance"`
	// FarDistance: tier 2 at or beyond this camera distance.
	FarDistance float64 `yaml:"far_distance"`
}

// SplatConfig holds the texture-blend classifier thresholds.
type SplatConfig struct {
	// Resolution is the splat map side length in texels. 0 disables splat
	// generation entirely.
	Resolution int `yaml:"resolution"`
	// SandMaxHeight and GrassMaxHeight are normalized-height thresholds in
	// (0, 1): below SandMaxHeight blends sand into grass, above
	// GrassMaxHeight blends grass into rock.
	SandMaxHeight  float64 `yaml:"sand_max_height"`
	GrassMaxHeight float64 `yaml:"grass_max_height"`
	// RockMinSlope is a slope-factor threshold in (0, 1). The factor is
	// 1/sqrt(1+|grad|^2), 1.0 on flat ground; terrain whose factor drops
	// below the threshold force-blends toward rock.
	RockMinSlope float64 `yaml:"rock_min_slope"`
	// VariationScale converts texel coordinates to variation-noise space.
	VariationScale float64 `yaml:"variation_scale"`
}

// Default returns the stock configuration.
func Default() TerrainConfig {
	return TerrainConfig{
		ChunkSize:           16,
		TileSize:            1.0,
		RenderDistance:      4,
		MaxHeight:           12.0,
		Seed:                1337,
		NoiseScale:          0.03,
		Octaves:             4,
		Persistence:         0.5,
		FallbackGroundLevel: 0.0,
		LOD: LODConfig{
			NearDistance: 20.0,
			FarDistance:  50.0,
		},
		Splat: SplatConfig{
			Resolution:     64,
			SandMaxHeight:  0.18,
			GrassMaxHeight: 0.65,
			RockMinSlope:   0.55,
			VariationScale: 0.15,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged. The result is validated before use.
func Load(path string) (TerrainConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("terrain config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("terrain config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects invalid configuration up front, before any chunk
// generation is attempted.
func (c TerrainConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkSize%MaxLODStride != 0 {
		return fmt.Errorf("chunk_size must be a multiple of %d, got %d", MaxLODStride, c.ChunkSize)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive, got %g", c.TileSize)
	}
	if c.RenderDistance <= 0 {
		return fmt.Errorf("render_distance must be positive, got %d", c.RenderDistance)
	}
	if c.MaxHeight <= 0 {
		return fmt.Errorf("max_height must be positive, got %g", c.MaxHeight)
	}
	if c.Octaves < 1 {
		return fmt.Errorf("octaves must be at least 1, got %d", c.Octaves)
	}
	if c.Persistence <= 0 || c.Persistence > 1 {
		return fmt.Errorf("persistence must be in (0,1], got %g", c.Persistence)
	}
	if c.NoiseScale <= 0 {
		return fmt.Errorf("noise_scale must be positive, got %g", c.NoiseScale)
	}
	if c.LOD.NearDistance <= 0 || c.LOD.FarDistance <= c.LOD.NearDistance {
		return fmt.Errorf("lod distances must satisfy 0 < near < far, got near=%g far=%g",
			c.LOD.NearDistance, c.LOD.FarDistance)
	}
	if c.Splat.Resolution < 0 {
		return fmt.Errorf("splat resolution must be non-negative, got %d", c.Splat.Resolution)
	}
	if c.Splat.Resolution > 0 {
		s := c.Splat
		if s.Resolution < 2 {
			return fmt.Errorf("splat resolution must be at least 2 when enabled, got %d", s.Resolution)
		}
		if s.SandMaxHeight <= 0 || s.GrassMaxHeight <= s.SandMaxHeight || s.GrassMaxHeight >= 1 {
			return fmt.Errorf("splat height thresholds must satisfy 0 < sand < grass < 1, got sand=%g grass=%g",
				s.SandMaxHeight, s.GrassMaxHeight)
		}
		if s.RockMinSlope <= 0 || s.RockMinSlope >= 1 {
			return fmt.Errorf("splat rock_min_slope must be in (0,1), got %g", s.RockMinSlope)
		}
		if s.VariationScale <= 0 {
			return fmt.Errorf("splat variation_scale must be positive, got %g", s.VariationScale)
		}
	}
	return nil
}

// ChunkWorldSize returns a chunk's footprint side length in world units.
func (c TerrainConfig) ChunkWorldSize() float64 {
	return float64(c.ChunkSize) * c.TileSize
}
