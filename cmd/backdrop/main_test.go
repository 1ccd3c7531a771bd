package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latentecho/backdrop/internal/pin"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// writeConfig points --config at a file whose storage lives in a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "backdrop.yml")
	body := "storage:\n  path: " + filepath.Join(dir, "backdrop.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestPinhash(t *testing.T) {
	out, err := execute(t, "pinhash", "1234")
	require.NoError(t, err)
	assert.Equal(t, pin.Hash("1234")+"\n", out)

	_, err = execute(t, "pinhash", "12a4")
	assert.ErrorIs(t, err, pin.ErrInvalidPIN)
}

func TestReadtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("word ", 401)), 0644))

	out, err := execute(t, "readtime", path)
	require.NoError(t, err)
	assert.Equal(t, "3 min read\n", out)
}

func TestTreeToStdout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".DS_Store"), nil, 0644))

	out, err := execute(t, "tree", root, "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Directory Tree\nGenerated: "))
	assert.Contains(t, out, "├── src\n│   └── main.go\n└── README.md")
	assert.NotContains(t, out, ".DS_Store")
}

func TestThemeCommands(t *testing.T) {
	t.Setenv("BACKDROP_COLOR_SCHEME", "light")
	cfg := writeConfig(t)

	out, err := execute(t, "--config", cfg, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = execute(t, "--config", cfg, "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = execute(t, "--config", cfg, "theme", "get")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = execute(t, "--config", cfg, "theme", "set", "light")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	_, err = execute(t, "--config", cfg, "theme", "flip")
	assert.Error(t, err)
}

func TestRunHeadless(t *testing.T) {
	cfg := writeConfig(t)
	_, err := execute(t, "--config", cfg, "run", "--headless", "3", "--variant", "header")
	require.NoError(t, err)
}

func TestRunRejectsUnknownVariant(t *testing.T) {
	cfg := writeConfig(t)
	_, err := execute(t, "--config", cfg, "run", "--headless", "1", "--variant", "footer")
	assert.Error(t, err)
}
