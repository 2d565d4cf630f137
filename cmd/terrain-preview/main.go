// Command terrain-preview generates a block of terrain chunks around the
// origin and writes heightmap and splat-map preview images. It is a headless
// debugging aid for tuning generation parameters; the images are previews,
// not persisted terrain state.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"infinite-terrain/internal/config"
	"infinite-terrain/internal/profiling"
	"infinite-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML terrain config")
		seed       = flag.Int64("seed", 0, "override the config seed (0 keeps it)")
		radius     = flag.Int("radius", 2, "chunk radius around the origin")
		outDir     = flag.String("out", ".", "output directory for PNG files")
		upscale    = flag.Int("upscale", 4, "bilinear upscale factor for the previews")
	)
	flag.Parse()

	if err := run(*configPath, *seed, *radius, *outDir, *upscale); err != nil {
		log.Fatalf("terrain-preview: %v", err)
	}
}

func run(configPath string, seed int64, radius int, outDir string, upscale int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if radius > 0 {
		cfg.RenderDistance = radius
	}
	if upscale < 1 {
		upscale = 1
	}

	mgr, err := terrain.NewChunkManager(cfg)
	if err != nil {
		return err
	}

	profiling.ResetTick()
	start := time.Now()
	mgr.Tick(mgl32.Vec3{}, mgl32.Vec3{0, float32(cfg.MaxHeight * 2), 0})
	log.Printf("generated %d chunks in %v (%s)", mgr.LoadedCount(), time.Since(start), profiling.TopN(3))

	heightImg := renderHeights(mgr, cfg)
	if err := writePNG(filepath.Join(outDir, "heightmap.png"), scale(heightImg, upscale)); err != nil {
		return err
	}

	if cfg.Splat.Resolution > 0 {
		splatImg := renderSplats(mgr, cfg)
		if err := writePNG(filepath.Join(outDir, "splatmap.png"), scale(splatImg, upscale)); err != nil {
			return err
		}
	}

	log.Printf("previews written to %s", outDir)
	return nil
}

// renderHeights samples the manager's public height query across the loaded
// region and maps elevation to grayscale.
func renderHeights(mgr *terrain.ChunkManager, cfg config.TerrainConfig) *image.RGBA {
	side := (2*cfg.RenderDistance + 1) * cfg.ChunkSize
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	halfWorld := float64(side) / 2 * cfg.TileSize

	for py := 0; py < side; py++ {
		wz := float64(py)*cfg.TileSize - halfWorld
		for px := 0; px < side; px++ {
			wx := float64(px)*cfg.TileSize - halfWorld
			h := mgr.TerrainHeight(wx, wz)
			g := uint8(clamp01(h/cfg.MaxHeight) * 255)
			img.SetRGBA(px, py, color.RGBA{g, g, g, 255})
		}
	}
	return img
}

// Terrain type preview colors.
var (
	grassColor = [3]float64{0.35, 0.60, 0.25}
	dirtColor  = [3]float64{0.48, 0.35, 0.22}
	rockColor  = [3]float64{0.52, 0.52, 0.55}
	sandColor  = [3]float64{0.86, 0.79, 0.55}
)

// renderSplats mosaics every loaded chunk's blend weights into one image,
// coloring each texel by its weighted terrain-type mix.
func renderSplats(mgr *terrain.ChunkManager, cfg config.TerrainConfig) *image.RGBA {
	res := cfg.Splat.Resolution
	r := cfg.RenderDistance
	side := (2*r + 1) * res
	img := image.NewRGBA(image.Rect(0, 0, side, side))

	for _, c := range mgr.LoadedChunks() {
		sm := c.Splat()
		if sm == nil {
			continue
		}
		ox := (c.Coord.X + r) * res
		oy := (c.Coord.Z + r) * res
		if ox < 0 || oy < 0 || ox+res > side || oy+res > side {
			continue // retention band outside the preview window
		}
		for tz := 0; tz < res; tz++ {
			for tx := 0; tx < res; tx++ {
				w := sm.At(tx, tz)
				img.SetRGBA(ox+tx, oy+tz, color.RGBA{
					blend(w.Grass, w.Dirt, w.Rock, w.Sand, 0),
					blend(w.Grass, w.Dirt, w.Rock, w.Sand, 1),
					blend(w.Grass, w.Dirt, w.Rock, w.Sand, 2),
					255,
				})
			}
		}
	}
	return img
}

func blend(grass, dirt, rock, sand float64, ch int) uint8 {
	v := grass*grassColor[ch] + dirt*dirtColor[ch] + rock*rockColor[ch] + sand*sandColor[ch]
	return uint8(clamp01(v) * 255)
}

// scale upsamples the preview with bilinear filtering.
func scale(src *image.RGBA, factor int) *image.RGBA {
	if factor == 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
