package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "2262-04-11", cfg.Resolution.FarFutureDate)
	assert.Equal(t, "1900-01-01", cfg.Resolution.EarlyPastDate)
	assert.Equal(t, []int{1, 3}, cfg.Resolution.PreferredExchanges)
	assert.Equal(t, 3, cfg.Resolution.OverlapYearCap)
	assert.Equal(t, 1, cfg.Resolution.ESGLagYears)

	require.NoError(t, cfg.Validate())
}

func TestResolutionConfig_Sentinels(t *testing.T) {
	cfg := Default()

	far, err := cfg.Resolution.FarFuture()
	require.NoError(t, err)
	early, err := cfg.Resolution.EarlyPast()
	require.NoError(t, err)

	assert.Equal(t, 2262, far.Year())
	assert.Equal(t, 1900, early.Year())
	assert.True(t, early.Before(far))
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
  format: text
  output: console
resolution:
  far_future_date: "2200-01-01"
  preferred_exchanges: [1, 2, 3]
  overlap_year_cap: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "2200-01-01", cfg.Resolution.FarFutureDate)
	assert.Equal(t, []int{1, 2, 3}, cfg.Resolution.PreferredExchanges)
	assert.Equal(t, 5, cfg.Resolution.OverlapYearCap)

	// Fields the file omits keep their defaults.
	assert.Equal(t, "1900-01-01", cfg.Resolution.EarlyPastDate)
	assert.Equal(t, 1, cfg.Resolution.ESGLagYears)
	assert.Equal(t, "data", cfg.Paths.DataDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
resolution:
  overlap_year_cap: 5
  preferred_exchanges: [1, 2, 3]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("ESGMAP_LOGGING_LEVEL", "warn")
	t.Setenv("ESGMAP_RESOLUTION_OVERLAP_YEAR_CAP", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment wins over the file, but only for variables actually set.
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 7, cfg.Resolution.OverlapYearCap)
	assert.Equal(t, []int{1, 2, 3}, cfg.Resolution.PreferredExchanges)
	assert.Equal(t, "2262-04-11", cfg.Resolution.FarFutureDate)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "unparseable sentinel",
			mutate: func(c *Config) { c.Resolution.FarFutureDate = "not-a-date" },
		},
		{
			name: "sentinels out of order",
			mutate: func(c *Config) {
				c.Resolution.EarlyPastDate = "2300-01-01"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPaths(t *testing.T) {
	p := NewPaths(PathsConfig{
		DataDir:     "/data",
		RawDir:      "raw",
		MasterDir:   "processed/security_master",
		MappingsDir: "processed/id_mappings",
	})

	assert.Equal(t, "/data/raw", p.RawDir)
	assert.Equal(t, filepath.Join("/data/processed/security_master", "security_master_segments.csv"), p.SegmentsFile())
	assert.Equal(t, filepath.Join("/data/processed/id_mappings", "msci_year_match.csv"), p.MatchFile("msci"))
	assert.Equal(t, filepath.Join("/data/processed/id_mappings", "fmp_crosswalk.csv"), p.CrosswalkFile("fmp"))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	root := t.TempDir()
	p := NewPaths(PathsConfig{
		DataDir:     root,
		RawDir:      "raw",
		MasterDir:   "master",
		MappingsDir: "mappings",
	})

	require.NoError(t, p.EnsureDirectories())

	assert.DirExists(t, filepath.Join(root, "master"))
	assert.DirExists(t, filepath.Join(root, "mappings"))
	// Raw inputs must be provided by the operator, never auto-created.
	assert.NoDirExists(t, filepath.Join(root, "raw"))
}
