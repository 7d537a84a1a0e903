package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate when a field holds an unusable value.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full viewer configuration loaded from YAML.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Assets    AssetsConfig    `yaml:"assets"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Scene     SceneConfig     `yaml:"scene"`
	Logging   LoggingConfig   `yaml:"logging"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// WindowConfig controls the platform window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// AssetsConfig locates on-disk scene assets.
type AssetsConfig struct {
	// TextureDir is the directory the scene's texture file names are resolved against.
	TextureDir string `yaml:"textureDir"`
}

// RendererConfig controls the GPU renderer.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `yaml:"presentMode"`

	// MSAA is the multisample count: 1, 4, 8 or 16.
	MSAA int `yaml:"msaa"`

	// MaxTextureSlots bounds how many textures the registry accepts.
	MaxTextureSlots int `yaml:"maxTextureSlots"`

	// MaxDrawsPerFrame sizes the per-draw uniform buffer.
	MaxDrawsPerFrame int `yaml:"maxDrawsPerFrame"`

	ForceSoftware bool `yaml:"forceSoftware"`
}

// SceneConfig controls scene preparation.
type SceneConfig struct {
	// DecodeWorkers is the number of goroutines decoding textures during Prepare. 1 decodes inline.
	DecodeWorkers int `yaml:"decodeWorkers"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ProfilingConfig controls the periodic profiler output.
type ProfilingConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when no file is given.
// Fields omitted from a loaded file keep these values.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Still Life",
			Width:  1280,
			Height: 720,
		},
		Assets: AssetsConfig{
			TextureDir: "assets/textures",
		},
		Renderer: RendererConfig{
			PresentMode:      "vsync",
			MSAA:             4,
			MaxTextureSlots:  16,
			MaxDrawsPerFrame: 64,
		},
		Scene: SceneConfig{
			DecodeWorkers: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Profiling: ProfilingConfig{
			Interval: time.Second,
		},
	}
}

// Load reads a YAML config file on top of Default and validates the result.
//
// Parameters:
//   - path: path to the YAML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file cannot be read, parsed, or fails validation
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field for a usable value.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig describing every bad field, or nil
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height))
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		errs = append(errs, fmt.Errorf("%w: presentMode %q", ErrInvalidConfig, c.Renderer.PresentMode))
	}
	switch c.Renderer.MSAA {
	case 1, 4, 8, 16:
	default:
		errs = append(errs, fmt.Errorf("%w: msaa %d", ErrInvalidConfig, c.Renderer.MSAA))
	}
	if c.Renderer.MaxTextureSlots <= 0 {
		errs = append(errs, fmt.Errorf("%w: maxTextureSlots %d", ErrInvalidConfig, c.Renderer.MaxTextureSlots))
	}
	if c.Renderer.MaxDrawsPerFrame <= 0 {
		errs = append(errs, fmt.Errorf("%w: maxDrawsPerFrame %d", ErrInvalidConfig, c.Renderer.MaxDrawsPerFrame))
	}
	if c.Scene.DecodeWorkers <= 0 {
		errs = append(errs, fmt.Errorf("%w: decodeWorkers %d", ErrInvalidConfig, c.Scene.DecodeWorkers))
	}
	if c.Profiling.Enabled && c.Profiling.Interval <= 0 {
		errs = append(errs, fmt.Errorf("%w: profiling interval %s", ErrInvalidConfig, c.Profiling.Interval))
	}
	return errors.Join(errs...)
}
