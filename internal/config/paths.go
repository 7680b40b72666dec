package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves the on-disk layout of a pipeline run.
type Paths struct {
	DataDir     string
	RawDir      string
	MasterDir   string
	MappingsDir string
}

// NewPaths resolves the configured directory layout against the data root.
func NewPaths(cfg PathsConfig) *Paths {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(cfg.DataDir, p)
	}

	return &Paths{
		DataDir:     cfg.DataDir,
		RawDir:      resolve(cfg.RawDir),
		MasterDir:   resolve(cfg.MasterDir),
		MappingsDir: resolve(cfg.MappingsDir),
	}
}

// EnsureDirectories creates the output directories if they do not exist. The
// raw directory is deliberately not created: a missing raw source is a fatal
// input error, not something to paper over.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.MasterDir, p.MappingsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SegmentsFile returns the path of the resolved security-master table.
func (p *Paths) SegmentsFile() string {
	return filepath.Join(p.MasterDir, "security_master_segments.csv")
}

// PrimaryFile returns the path of the primary identity table.
func (p *Paths) PrimaryFile() string {
	return filepath.Join(p.MasterDir, "entity_to_primary_security.csv")
}

// MatchFile returns the path of a provider's per-period match table.
func (p *Paths) MatchFile(provider string) string {
	return filepath.Join(p.MappingsDir, fmt.Sprintf("%s_year_match.csv", provider))
}

// CrosswalkFile returns the path of a provider's crosswalk table.
func (p *Paths) CrosswalkFile(provider string) string {
	return filepath.Join(p.MappingsDir, fmt.Sprintf("%s_crosswalk.csv", provider))
}

// UnmatchedFile returns the path of a provider's unmatched-records table.
func (p *Paths) UnmatchedFile(provider string) string {
	return filepath.Join(p.MappingsDir, fmt.Sprintf("%s_unmatched.csv", provider))
}
