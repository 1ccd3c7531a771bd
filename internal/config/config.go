// Package config loads backdrop settings from defaults, an optional YAML file and BACKDROP_
// environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/latentecho/backdrop/engine/renderer"
	"github.com/latentecho/backdrop/internal/animation"
	"github.com/latentecho/backdrop/internal/chat"
	"github.com/latentecho/backdrop/internal/pin"
	"github.com/latentecho/backdrop/internal/style"
	"github.com/latentecho/backdrop/internal/telemetry"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "backdrop.yml"

// EnvPrefix prefixes environment overrides. A double underscore separates nesting levels, so
// BACKDROP_ANIMATION__TYPE sets animation.type.
const EnvPrefix = "BACKDROP_"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{Title: "backdrop", Width: 1280, Height: 720},
		Animation: AnimationConfig{
			Type:            string(animation.VariantLanding),
			WireframeDetail: animation.DefaultWireframeDetail,
			SphereSegments: SegmentsConfig{
				Width:  animation.DefaultSphereWidth,
				Height: animation.DefaultSphereHeight,
			},
		},
		Render: RenderConfig{
			FrameLimit:  0,
			PresentMode: "vsync",
			MSAA:        int(renderer.MSAA4x),
			Backend:     renderer.BackendTypeWGPU.String(),
		},
		Theme:   ThemeConfig{Default: style.ThemeLight},
		Storage: StorageConfig{Path: defaultStoragePath()},
		Chat: ChatConfig{
			Host:               "localhost",
			LocalEndpoint:      chat.LocalEndpoint,
			ProductionEndpoint: chat.ProductionEndpoint,
			Timeout:            30 * time.Second,
			Workers:            2,
		},
		Telemetry: TelemetryConfig{ServiceName: telemetry.DefaultServiceName},
	}
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "backdrop", "backdrop.db")
}

// Load reads configuration from the given YAML file, then overlays BACKDROP_ environment variables.
// A missing file is not an error.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - *Config: the merged configuration
//   - error: if the file or environment cannot be parsed
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps BACKDROP_CHAT__PIN_HASH to chat.pin_hash.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validPresentModes = map[string]renderer.PresentMode{
	"vsync":    renderer.PresentModeVSync,
	"uncapped": renderer.PresentModeUncapped,
}

var validBackends = map[string]bool{
	renderer.BackendTypeWGPU.String():     true,
	renderer.BackendTypeHeadless.String(): true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if _, err := animation.ParseVariant(c.Animation.Type); err != nil {
		return fmt.Errorf("animation.type: %w", err)
	}
	if c.Animation.WireframeDetail < 0 {
		return fmt.Errorf("animation.wireframe_detail must be non-negative")
	}
	if c.Animation.SphereSegments.Width <= 0 || c.Animation.SphereSegments.Height <= 0 {
		return fmt.Errorf("animation.sphere_segments must be positive")
	}

	if c.Render.FrameLimit < 0 {
		return fmt.Errorf("render.frame_limit must be non-negative")
	}
	if _, ok := validPresentModes[c.Render.PresentMode]; !ok {
		return fmt.Errorf("invalid render.present_mode %q: must be one of vsync, uncapped", c.Render.PresentMode)
	}
	if c.Render.MSAA != int(renderer.MSAAOff) && c.Render.MSAA != int(renderer.MSAA4x) {
		return fmt.Errorf("invalid render.msaa %d: must be 1 or 4", c.Render.MSAA)
	}
	if !validBackends[c.Render.Backend] {
		return fmt.Errorf("invalid render.backend %q: must be one of wgpu, headless", c.Render.Backend)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	if c.Chat.Workers < 1 {
		return fmt.Errorf("chat.workers must be at least 1")
	}
	if c.Chat.Timeout < 0 {
		return fmt.Errorf("chat.timeout must be non-negative")
	}
	if c.Chat.PINHash != "" {
		if _, err := pin.ParseHash(c.Chat.PINHash); err != nil {
			return fmt.Errorf("chat.pin_hash: %w", err)
		}
	}
	return nil
}

// AnimationSettings converts the animation section to a controller configuration.
func (c *Config) AnimationSettings() animation.Config {
	variant, err := animation.ParseVariant(c.Animation.Type)
	if err != nil {
		variant = animation.VariantHeader
	}
	return animation.Config{
		Type:            variant,
		WireframeDetail: c.Animation.WireframeDetail,
		SphereSegments: animation.SphereSegments{
			Width:  c.Animation.SphereSegments.Width,
			Height: c.Animation.SphereSegments.Height,
		},
	}
}

// PresentMode returns the configured present mode, VSync if unrecognised.
func (c *Config) PresentMode() renderer.PresentMode {
	return validPresentModes[c.Render.PresentMode]
}

// ChatEndpoint returns the explicit endpoint, or the one chosen from Host.
func (c *Config) ChatEndpoint() string {
	if c.Chat.Endpoint != "" {
		return c.Chat.Endpoint
	}
	return chat.EndpointFor(c.Chat.Host, c.Chat.LocalEndpoint, c.Chat.ProductionEndpoint)
}
