package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latentecho/backdrop/engine/renderer"
	"github.com/latentecho/backdrop/internal/animation"
	"github.com/latentecho/backdrop/internal/chat"
	"github.com/latentecho/backdrop/internal/pin"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, animation.DefaultConfig(), cfg.AnimationSettings())
	assert.Equal(t, chat.LocalEndpoint, cfg.ChatEndpoint())
	assert.Equal(t, renderer.PresentModeVSync, cfg.PresentMode())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdrop.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
animation:
  type: header
  sphere_segments:
    width: 24
render:
  frame_limit: 30
  present_mode: uncapped
chat:
  host: latentecho.net
  timeout: 5s
`), 0644))

	t.Setenv("BACKDROP_ANIMATION__WIREFRAME_DETAIL", "3")
	t.Setenv("BACKDROP_CHAT__PIN_HASH", pin.Hash("1234"))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "header", cfg.Animation.Type)
	assert.Equal(t, 3, cfg.Animation.WireframeDetail)
	assert.Equal(t, 24, cfg.Animation.SphereSegments.Width)
	assert.Equal(t, animation.DefaultSphereHeight, cfg.Animation.SphereSegments.Height)
	assert.Equal(t, 30.0, cfg.Render.FrameLimit)
	assert.Equal(t, renderer.PresentModeUncapped, cfg.PresentMode())
	assert.Equal(t, 5*time.Second, cfg.Chat.Timeout)
	assert.Equal(t, chat.ProductionEndpoint, cfg.ChatEndpoint())
	assert.Equal(t, pin.Hash("1234"), cfg.Chat.PINHash)
	assert.Equal(t, animation.VariantHeader, cfg.AnimationSettings().Type)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdrop.yml")
	require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"window", func(c *Config) { c.Window.Width = 0 }},
		{"variant", func(c *Config) { c.Animation.Type = "footer" }},
		{"detail", func(c *Config) { c.Animation.WireframeDetail = -1 }},
		{"segments", func(c *Config) { c.Animation.SphereSegments.Height = 0 }},
		{"frame limit", func(c *Config) { c.Render.FrameLimit = -1 }},
		{"present mode", func(c *Config) { c.Render.PresentMode = "mailbox" }},
		{"msaa", func(c *Config) { c.Render.MSAA = 8 }},
		{"backend", func(c *Config) { c.Render.Backend = "vulkan" }},
		{"storage", func(c *Config) { c.Storage.Path = "" }},
		{"workers", func(c *Config) { c.Chat.Workers = 0 }},
		{"timeout", func(c *Config) { c.Chat.Timeout = -time.Second }},
		{"pin hash", func(c *Config) { c.Chat.PINHash = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdrop.yml")
	cfg := DefaultConfig()
	cfg.Animation.Type = "header"
	cfg.Chat.Endpoint = "http://example.test/chat"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, "http://example.test/chat", loaded.ChatEndpoint())
}
