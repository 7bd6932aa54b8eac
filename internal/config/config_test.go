package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "dataviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_DEVELOPMENT", "MAX_UPLOAD_BYTES",
	"PREVIEW_ROWS", "PNG_WIDTH", "PNG_HEIGHT", "DATABASE_URL", "COLOR_SEED",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// inDir runs the test from dir so Load picks up dir/.env.
func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	inDir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	inDir(t, t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8001", cfg.Server.Port)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	inDir(t, dir)

	path := filepath.Join(dir, "dataviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  allowed_origins: ["https://viz.example.com"]
logging:
  level: DEBUG
render:
  png_width: 800
  color_seed: 7
`), 0o644))

	t.Setenv("PNG_WIDTH", "640")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 640, cfg.Render.PNGWidth)
	assert.Equal(t, 512, cfg.Render.PNGHeight)
	assert.Equal(t, int64(7), cfg.Render.ColorSeed)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	inDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PREVIEW_ROWS=25\nLOG_DEVELOPMENT=true\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Dataset.PreviewRows)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad int", map[string]string{"PREVIEW_ROWS": "ten"}},
		{"zero rows", map[string]string{"PREVIEW_ROWS": "0"}},
		{"bad bool", map[string]string{"LOG_DEVELOPMENT": "maybe"}},
		{"negative upload", map[string]string{"MAX_UPLOAD_BYTES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			inDir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	inDir(t, dir)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}
