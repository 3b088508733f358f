package config

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings are package-level with guarded accessors so any subsystem can read
// them without plumbing. Writes happen at startup and from debug keys.
type settings struct {
	mu             sync.RWMutex
	worldSeed      uint32
	renderDistance int
	workers        int
	waterFPS       int
	maxChunkY      int
	fpsLimit       int
}

var global = &settings{
	worldSeed:      1337,
	renderDistance: 8,
	workers:        defaultWorkers(),
	waterFPS:       16,
	maxChunkY:      7,
	fpsLimit:       0,
}

func defaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// fileConfig mirrors the YAML file. Pointer fields distinguish "absent" from
// zero values so a sparse file only overrides what it names.
type fileConfig struct {
	WorldSeed      *uint32 `yaml:"world_seed"`
	RenderDistance *int    `yaml:"render_distance"`
	Workers        *int    `yaml:"workers"`
	WaterFPS       *int    `yaml:"water_fps"`
	MaxChunkY      *int    `yaml:"max_chunk_y"`
	FPSLimit       *int    `yaml:"fps_limit"`
}

// Load applies settings from a YAML file on top of the defaults. A missing
// file is not an error.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.WorldSeed != nil {
		SetWorldSeed(*fc.WorldSeed)
	}
	if fc.RenderDistance != nil {
		SetRenderDistance(*fc.RenderDistance)
	}
	if fc.Workers != nil {
		SetWorkers(*fc.Workers)
	}
	if fc.WaterFPS != nil {
		SetWaterFPS(*fc.WaterFPS)
	}
	if fc.MaxChunkY != nil {
		SetMaxChunkY(*fc.MaxChunkY)
	}
	if fc.FPSLimit != nil {
		SetFPSLimit(*fc.FPSLimit)
	}
	return nil
}

// GetWorldSeed returns the terrain seed.
func GetWorldSeed() uint32 {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.worldSeed
}

// SetWorldSeed sets the terrain seed.
func SetWorldSeed(seed uint32) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.worldSeed = seed
}

// GetRenderDistance returns the streaming radius in chunks.
func GetRenderDistance() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.renderDistance
}

// SetRenderDistance sets the streaming radius, clamped to [2, 32].
func SetRenderDistance(distance int) {
	if distance < 2 {
		distance = 2
	}
	if distance > 32 {
		distance = 32
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.renderDistance = distance
}

// GetWorkers returns the mesh worker count.
func GetWorkers() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.workers
}

// SetWorkers sets the mesh worker count, at least 1.
func SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.workers = n
}

// GetWaterFPS returns the water animation rate in frames per second.
func GetWaterFPS() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.waterFPS
}

// SetWaterFPS sets the water animation rate, clamped to [1, 60].
func SetWaterFPS(fps int) {
	if fps < 1 {
		fps = 1
	}
	if fps > 60 {
		fps = 60
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.waterFPS = fps
}

// GetMaxChunkY returns the highest loaded chunk layer (inclusive).
func GetMaxChunkY() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.maxChunkY
}

// SetMaxChunkY sets the vertical chunk cap, clamped to [0, 15].
func SetMaxChunkY(y int) {
	if y < 0 {
		y = 0
	}
	if y > 15 {
		y = 15
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.maxChunkY = y
}

// GetFPSLimit returns the frame cap, 0 meaning uncapped.
func GetFPSLimit() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.fpsLimit
}

// SetFPSLimit sets the frame cap, clamped to [0, 1000].
func SetFPSLimit(fps int) {
	if fps < 0 {
		fps = 0
	}
	if fps > 1000 {
		fps = 1000
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.fpsLimit = fps
}
