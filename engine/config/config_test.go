package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `
window:
  title: "Kitchen"
renderer:
  msaa: 1
profiling:
  enabled: true
  interval: 250ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Kitchen", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 1, cfg.Renderer.MSAA)
	assert.Equal(t, 16, cfg.Renderer.MaxTextureSlots)
	assert.Equal(t, 250*time.Millisecond, cfg.Profiling.Interval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
renderer:
  presentMode: sometimes
  msaa: 3
scene:
  decodeWorkers: 0
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "presentMode")
	assert.Contains(t, err.Error(), "msaa")
	assert.Contains(t, err.Error(), "decodeWorkers")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "window: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}
