package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortbench/history"
	"sortbench/sweep"
)

func TestDefaults(t *testing.T) {
	cfg := Resolve(New())

	assert.Equal(t, sweep.DefaultConfig(), cfg.Sweep)
	assert.Equal(t, ".", cfg.OutDir)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.True(t, cfg.GC)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultHistoryPath, cfg.History.Path)
	assert.False(t, cfg.HistoryEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SORTBENCH_BUBBLE_STEP", "25")
	t.Setenv("SORTBENCH_MERGE_MAX", "30000")
	t.Setenv("SORTBENCH_SEED", "42")
	t.Setenv("SORTBENCH_HISTORY_BACKEND", "BBolt")

	cfg := Resolve(New())
	assert.Equal(t, 25, cfg.Sweep.BubbleStep)
	assert.Equal(t, 30000, cfg.Sweep.MergeMax)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, history.BackendBolt, cfg.History.Backend)
	assert.True(t, cfg.HistoryEnabled())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	content := `
bubble:
  step: 50
  max: 500
merge:
  step: 500
out_dir: results
log_format: json
history:
  backend: pebble
  path: /tmp/sortbench-history
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, sweep.Config{BubbleStep: 50, BubbleMax: 500, MergeStep: 500, MergeMax: sweep.DefaultMergeMax}, cfg.Sweep)
	assert.Equal(t, "results", cfg.OutDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, history.Config{Backend: "pebble", Path: "/tmp/sortbench-history"}, cfg.History)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadWithoutConfigFile(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, sweep.DefaultConfig(), cfg.Sweep)
}

func TestApplyArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    sweep.Config
		wantErr string
	}{
		{"none", nil, sweep.DefaultConfig(), ""},
		{"all four", []string{"25", "1000", "500", "30000"}, sweep.Config{BubbleStep: 25, BubbleMax: 1000, MergeStep: 500, MergeMax: 30000}, ""},
		{"first two", []string{"10", "50"}, sweep.Config{BubbleStep: 10, BubbleMax: 50, MergeStep: 1000, MergeMax: 10000}, ""},
		{"not a number", []string{"10", "lots"}, sweep.Config{}, `"lots" is not an integer`},
		{"too many", []string{"1", "2", "3", "4", "5"}, sweep.Config{}, "at most 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			err := ApplyArgs(v, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, Resolve(v).Sweep)
		})
	}
}

func TestArgsBeatEnv(t *testing.T) {
	t.Setenv("SORTBENCH_BUBBLE_STEP", "25")

	v := New()
	require.NoError(t, ApplyArgs(v, []string{"7"}))
	assert.Equal(t, 7, Resolve(v).Sweep.BubbleStep)
}

func TestBindFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)

	v := New()
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--out-dir", "out", "--seed", "9", "--gc=false", "-v", "--history-backend", "sqlite"}))

	cfg := Resolve(v)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.False(t, cfg.GC)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, history.BackendSQLite, cfg.History.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"zero step", func(c *Config) { c.Sweep.MergeStep = 0 }, sweep.ErrInvalidStep},
		{"negative max", func(c *Config) { c.Sweep.BubbleMax = -10 }, sweep.ErrInvalidMax},
		{"unknown backend", func(c *Config) { c.History.Backend = "redis" }, history.ErrUnknownBackend},
		{"empty history path", func(c *Config) { c.History = history.Config{Backend: "bbolt"} }, ErrInvalidConfig},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidConfig},
		{"empty out dir", func(c *Config) { c.OutDir = "" }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Resolve(New())
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is), "got %v", err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}
