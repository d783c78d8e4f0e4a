package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alphashape.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
alpha: "0.75"
simplify_ratio: 0.25
components: 2
metrics_file: /tmp/alphashape.prom
log:
  level: debug
  json: true
batch:
  concurrency: 8
watch:
  debounce: 500ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.75", cfg.Alpha)
	assert.Equal(t, 0.25, cfg.SimplifyRatio)
	assert.Equal(t, 2, cfg.Components)
	assert.Equal(t, "/tmp/alphashape.prom", cfg.MetricsFile)
	assert.Equal(t, LogConfig{Level: "debug", JSON: true}, cfg.Log)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "alpha: all-points\nsimplify_ratio: 0.5\n")
	t.Setenv("ALPHASHAPE_ALPHA", "auto")
	t.Setenv("ALPHASHAPE_SIMPLIFY_RATIO", "0.1")
	t.Setenv("ALPHASHAPE_LOG_JSON", "true")
	t.Setenv("ALPHASHAPE_WATCH_DEBOUNCE", "1s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AlphaAuto, cfg.Alpha)
	assert.Equal(t, 0.1, cfg.SimplifyRatio)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "alpha: [1, 2"},
		{name: "ratio out of range", yaml: "simplify_ratio: 1.5"},
		{name: "zero components", yaml: "components: 0"},
		{name: "unknown level", yaml: "log:\n  level: loud"},
		{name: "bad alpha", yaml: "alpha: wide"},
		{name: "negative alpha", yaml: `alpha: "-1"`},
		{name: "bad env number", env: map[string]string{"ALPHASHAPE_COMPONENTS": "many"}},
		{name: "bad env duration", env: map[string]string{"ALPHASHAPE_WATCH_DEBOUNCE": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseAlpha(t *testing.T) {
	tests := []struct {
		in      string
		want    AlphaChoice
		wantErr bool
	}{
		{in: "all-points", want: AlphaChoice{Name: AlphaAllPoints}},
		{in: " One-Region ", want: AlphaChoice{Name: AlphaOneRegion}},
		{in: "auto", want: AlphaChoice{Name: AlphaAuto}},
		{in: "0", want: AlphaChoice{Value: 0}},
		{in: "2.5e-3", want: AlphaChoice{Value: 0.0025}},
		{in: "-0.5", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "inf", wantErr: true},
		{in: "large", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlpha(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Name != "", got.IsNamed())
		})
	}
}
