package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 10.0, cfg.Width)
	assert.Equal(t, 6.0, cfg.Height)
	assert.Equal(t, []string{"svg"}, cfg.Formats)
	assert.Equal(t, model.DefaultParams(), cfg.Params)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
seed = 7
formats = ["svg", "png"]
log_level = "debug"
dpi = 150

[params]
h = 10.0
alpha = 0.5
hypertrophia = true

[server]
addr = ":9090"

[cache]
redis_url = "redis://localhost:6379/0"
prefix = "dev:"
`)

	cfg, err := Loader{Path: path}.Load()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, []string{"svg", "png"}, cfg.Formats)
	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, 10.0, cfg.Params.H)
	assert.Equal(t, 0.5, cfg.Params.Alpha)
	assert.True(t, cfg.Params.Hypertrophia)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, "dev:", cfg.Cache.Prefix)
	// Unset keys keep their defaults.
	assert.Equal(t, 10.0, cfg.Width)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, lvl)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Loader{Path: filepath.Join(t.TempDir(), "nope.toml")}.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestLoadDefaultPathMissingIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Loader{}.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
}

func TestLoadDefaultPath(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "wlrsim"), 0o755))
	writeFile(t, filepath.Join(base, "wlrsim"), "config.toml", "seed = 3\n")

	cfg, err := Loader{}.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cfg.Seed)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "seed = 1\nradius = 15\n")
	_, err := Loader{Path: path}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"params out of range": "[params]\nvc = 150.0\n",
		"bad format":          "formats = [\"gif\"]\n",
		"bad log level":       "log_level = \"loud\"\n",
		"bad redis url":       "[cache]\nredis_url = \"http://x\"\n",
		"malformed toml":      "seed = \n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", content)
			_, err := Loader{Path: path}.Load()
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "seed = 1\n[server]\naddr = \":1\"\n")
	envFile := writeFile(t, dir, ".env", "WLRSIM_SEED=2\nWLRSIM_ADDR=:2\nWLRSIM_FORMATS=png, pdf\n")

	cfg, err := Loader{
		Path:      path,
		EnvFile:   envFile,
		LookupEnv: envMap(map[string]string{"WLRSIM_SEED": "3", "WLRSIM_NO_CACHE": "true"}),
	}.Load()
	require.NoError(t, err)

	// Process environment beats .env, which beats the file.
	assert.Equal(t, uint64(3), cfg.Seed)
	assert.Equal(t, ":2", cfg.Server.Addr)
	assert.Equal(t, []string{"png", "pdf"}, cfg.Formats)
	assert.True(t, cfg.Cache.Disabled)
}

func TestEnvMissingDotenvIsFine(t *testing.T) {
	_, err := Loader{
		Path:    writeFile(t, t.TempDir(), "c.toml", ""),
		EnvFile: filepath.Join(t.TempDir(), ".env"),
	}.Load()
	assert.NoError(t, err)
}

func TestEnvParseErrors(t *testing.T) {
	for _, key := range []string{"WLRSIM_SEED", "WLRSIM_WIDTH", "WLRSIM_DPI", "WLRSIM_NO_CACHE"} {
		t.Run(key, func(t *testing.T) {
			_, err := Loader{
				Path:      writeFile(t, t.TempDir(), "c.toml", ""),
				LookupEnv: envMap(map[string]string{key: "not-a-number"}),
			}.Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Seed = 9
	cfg.Params.VC = 20
	opts := cfg.PipelineOptions()

	assert.Equal(t, uint64(9), opts.Seed)
	assert.Equal(t, 20.0, opts.Params.VC)
	assert.Equal(t, cfg.Formats, opts.Formats)

	// The slice is copied.
	opts.Formats[0] = "png"
	assert.Equal(t, "svg", cfg.Formats[0])
}

func TestCacheDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	cfg := Default()
	dir, err := cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "wlrsim"), dir)

	cfg.Cache.Dir = "/tmp/custom"
	dir, _ = cfg.CacheDir()
	assert.Equal(t, "/tmp/custom", dir)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"svg", "png"}, SplitList(" svg, ,png "))
	assert.Nil(t, SplitList(""))
}
