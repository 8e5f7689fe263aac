package renderer

import (
	"fmt"
	"os"
	"path/filepath"

	"Shade3D/internal/logger"

	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// RenderConfig holds the tunable render settings: output size, light, and
// the factor clamps the shading core expects the caller to enforce.
type RenderConfig struct {
	// Output
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Camera
	Fov  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`

	// Directional light; direction points from the light toward the scene.
	LightDirection [3]float32 `toml:"lightDirection"`
	LightColor     [3]float32 `toml:"lightColor"`
	LightIntensity float32    `toml:"lightIntensity"`
	IBLIntensity   float32    `toml:"iblIntensity"`

	// Default material factors applied when a mesh does not override them.
	Metallic          float32 `toml:"metallic"`
	Roughness         float32 `toml:"roughness"`
	NormalScale       float32 `toml:"normalScale"`
	OcclusionStrength float32 `toml:"occlusionStrength"`

	// Worker pool size for the per-pixel shading loop; 0 means NumCPU.
	Workers int `toml:"workers"`

	// Debug enables per-frame timing logs.
	Debug bool `toml:"debug"`
}

// DefaultRenderConfig returns sensible defaults for an offline frame.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:  1024,
		Height: 768,

		Fov:  45,
		Near: 0.1,
		Far:  1000,

		LightDirection: [3]float32{-0.5, -1, -0.3},
		LightColor:     [3]float32{1, 1, 1},
		LightIntensity: 3,
		IBLIntensity:   1,

		Metallic:          0.0,
		Roughness:         0.5,
		NormalScale:       1.0,
		OcclusionStrength: 1.0,

		Workers: 0,
	}
}

// Validate clamps the material factors into [0,1] and fixes degenerate
// output sizes. The shading core does not guard these; the config layer is
// where the caller contract is enforced.
func (c *RenderConfig) Validate() {
	if c.Width <= 0 {
		c.Width = 1024
	}
	if c.Height <= 0 {
		c.Height = 768
	}
	if c.Fov <= 0 || c.Fov >= 180 {
		c.Fov = 45
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}
	if c.Far <= c.Near {
		c.Far = c.Near + 1000
	}

	c.Metallic = clamp01(c.Metallic)
	c.Roughness = clamp01(c.Roughness)
	c.OcclusionStrength = clamp01(c.OcclusionStrength)

	if c.LightIntensity < 0 {
		c.LightIntensity = 0
	}
	if c.IBLIntensity < 0 {
		c.IBLIntensity = 0
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// LoadRenderConfig reads a TOML config file, applying defaults for missing
// fields and clamping out-of-range values.
func LoadRenderConfig(path string) (RenderConfig, error) {
	cfg := DefaultRenderConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg.Validate()
	return cfg, nil
}

// SaveRenderConfig writes the config as TOML.
func SaveRenderConfig(path string, cfg RenderConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// WatchRenderConfig reloads the config whenever the file changes and calls
// onChange with the new value. Returns a stop function.
func WatchRenderConfig(path string, onChange func(RenderConfig)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	// Watch the directory: editors replace files on save, which drops
	// watches registered on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadRenderConfig(path)
				if err != nil {
					logger.Log.Warn("Config reload failed", zap.Error(err))
					continue
				}
				logger.Log.Info("Config reloaded", zap.String("path", path))
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("Config watcher error", zap.Error(err))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
