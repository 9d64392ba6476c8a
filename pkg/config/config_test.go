package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	l := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDataDirOverridesGlobal(t *testing.T) {
	global := t.TempDir()
	data := t.TempDir()
	write(t, global, "log_level = \"debug\"\nboard = \"Web\"\n")
	write(t, data, "board = \"Api\"\ntoday = \"2024-03-09\"\n")

	cfg, err := NewLoaderWithGlobalDir(data, global).Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{LogLevel: "debug", Board: "Api", Today: "2024-03-09"}, cfg)
}

func TestLoadUsesXDGConfigHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	write(t, filepath.Join(home, "pulse"), "user = \"u1\"\n")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, "u1", cfg.User)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	data := t.TempDir()
	write(t, data, "today = [")
	_, err := NewLoaderWithGlobalDir(data, "").Load()
	assert.Error(t, err)

	write(t, data, "today = \"next week\"\n")
	_, err = NewLoaderWithGlobalDir(data, "").Load()
	assert.ErrorContains(t, err, "YYYY-MM-DD")

	// a time suffix would compare after every same-day due date
	write(t, data, "today = \"2024-03-15T00:00\"\n")
	_, err = NewLoaderWithGlobalDir(data, "").Load()
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}
