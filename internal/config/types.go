package config

import "time"

// Config is the full backdrop configuration.
type Config struct {
	Window    WindowConfig    `koanf:"window" yaml:"window"`
	Animation AnimationConfig `koanf:"animation" yaml:"animation"`
	Render    RenderConfig    `koanf:"render" yaml:"render"`
	Theme     ThemeConfig     `koanf:"theme" yaml:"theme"`
	Storage   StorageConfig   `koanf:"storage" yaml:"storage"`
	Chat      ChatConfig      `koanf:"chat" yaml:"chat"`
	Telemetry TelemetryConfig `koanf:"telemetry" yaml:"telemetry"`
}

// WindowConfig describes the desktop window the animation is shown in.
type WindowConfig struct {
	Title  string `koanf:"title" yaml:"title"`
	Width  int    `koanf:"width" yaml:"width"`
	Height int    `koanf:"height" yaml:"height"`
}

// AnimationConfig selects and tessellates the animation.
type AnimationConfig struct {
	Type            string         `koanf:"type" yaml:"type"`
	WireframeDetail int            `koanf:"wireframe_detail" yaml:"wireframe_detail"`
	SphereSegments  SegmentsConfig `koanf:"sphere_segments" yaml:"sphere_segments"`
}

// SegmentsConfig is the landing shell tessellation.
type SegmentsConfig struct {
	Width  int `koanf:"width" yaml:"width"`
	Height int `koanf:"height" yaml:"height"`
}

// RenderConfig controls the renderer and frame loop.
type RenderConfig struct {
	// FrameLimit caps frames per second; 0 is uncapped.
	FrameLimit  float64 `koanf:"frame_limit" yaml:"frame_limit"`
	PresentMode string  `koanf:"present_mode" yaml:"present_mode"`
	MSAA        int     `koanf:"msaa" yaml:"msaa"`
	Backend     string  `koanf:"backend" yaml:"backend"`
}

// ThemeConfig configures the theme manager and stylesheet.
type ThemeConfig struct {
	// Default is applied when no preference is stored and the system preference is unknown.
	Default    string `koanf:"default" yaml:"default"`
	Stylesheet string `koanf:"stylesheet" yaml:"stylesheet"`
	Watch      bool   `koanf:"watch" yaml:"watch"`
}

// StorageConfig locates the preference database.
type StorageConfig struct {
	Path string `koanf:"path" yaml:"path"`
}

// ChatConfig configures the chat client.
type ChatConfig struct {
	// Endpoint, when set, is used as is. Otherwise Host picks between LocalEndpoint and
	// ProductionEndpoint.
	Endpoint           string        `koanf:"endpoint" yaml:"endpoint"`
	Host               string        `koanf:"host" yaml:"host"`
	LocalEndpoint      string        `koanf:"local_endpoint" yaml:"local_endpoint"`
	ProductionEndpoint string        `koanf:"production_endpoint" yaml:"production_endpoint"`
	Timeout            time.Duration `koanf:"timeout" yaml:"timeout"`
	Workers            int           `koanf:"workers" yaml:"workers"`
	PINHash            string        `koanf:"pin_hash" yaml:"pin_hash"`
}

// TelemetryConfig configures trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	OTLPEndpoint string `koanf:"otlp_endpoint" yaml:"otlp_endpoint"`
	ServiceName  string `koanf:"service_name" yaml:"service_name"`
}
