package style

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverFollowsTheme(t *testing.T) {
	theme := StaticTheme(ThemeLight)
	r := NewResolver(nil, &theme)

	assert.Equal(t, "#1a1a1a", r.Token(TokenWireframe))
	theme = ThemeDark
	assert.Equal(t, "#e0e0e0", r.Token(TokenWireframe))
	assert.Equal(t, "0.6", r.Token(TokenPulseIntensity))
	assert.Empty(t, r.Token("--unknown"))
}

func TestResolverFallsBackToLight(t *testing.T) {
	sheet := &Stylesheet{Themes: map[string]map[string]string{
		ThemeLight: {TokenOpacity: "0.3"},
		"sepia":    {},
	}}
	r := NewResolver(sheet, StaticTheme("sepia"))
	assert.Equal(t, "0.3", r.Token(TokenOpacity))
}

func TestLoadStylesheetMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
themes:
  dark:
    --animation-wireframe: "#ff0000"
  sepia:
    --animation-wireframe: "#704214"
`), 0644))

	sheet, err := LoadStylesheet(path)
	require.NoError(t, err)

	v, _ := sheet.Lookup(ThemeDark, TokenWireframe)
	assert.Equal(t, "#ff0000", v)
	v, _ = sheet.Lookup(ThemeDark, TokenSphere)
	assert.Equal(t, "#9a9a9a", v)
	assert.Equal(t, []string{"dark", "light", "sepia"}, sheet.ThemeNames())
}

func TestLoadStylesheetMissingFile(t *testing.T) {
	sheet, err := LoadStylesheet(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStylesheet(), sheet)

	sheet, err = LoadStylesheet("")
	require.NoError(t, err)
	assert.Len(t, sheet.Themes, 2)
}

func TestLoadStylesheetRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yml")
	require.NoError(t, os.WriteFile(path, []byte("themes: [unterminated"), 0644))
	_, err := LoadStylesheet(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yml")
	sheet := DefaultStylesheet()
	sheet.Themes[ThemeLight][TokenOpacity] = "0.9"
	require.NoError(t, sheet.Save(path))

	loaded, err := LoadStylesheet(path)
	require.NoError(t, err)
	v, _ := loaded.Lookup(ThemeLight, TokenOpacity)
	assert.Equal(t, "0.9", v)
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yml")
	require.NoError(t, os.WriteFile(path, []byte("themes: {}\n"), 0644))

	r := NewResolver(nil, StaticTheme(ThemeLight))
	w, err := NewWatcher(path, r, 10*time.Millisecond)
	require.NoError(t, err)

	reloaded := make(chan struct{}, 4)
	w.OnReload(func(*Stylesheet) { reloaded <- struct{}{} })
	require.NoError(t, w.Start(context.Background()))
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("themes:\n  light:\n    --animation-opacity: \"0.42\"\n"), 0644))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("stylesheet was not reloaded")
	}
	assert.Equal(t, "0.42", r.Token(TokenOpacity))
}
