package files

import (
	"os"
	"path/filepath"

	apperrors "esgmap/internal/errors"
)

// Manager provides the filesystem checks the pipeline binaries run before
// starting a stage.
type Manager struct {
	basePath string
}

// NewManager creates a manager rooted at basePath.
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

func (m *Manager) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.basePath, path)
}

// FileExists reports whether path exists and is a regular file.
func (m *Manager) FileExists(path string) bool {
	info, err := os.Stat(m.resolve(path))
	return err == nil && !info.IsDir()
}

// DirExists reports whether path exists and is a directory.
func (m *Manager) DirExists(path string) bool {
	info, err := os.Stat(m.resolve(path))
	return err == nil && info.IsDir()
}

// FileSize returns the size of a file in bytes.
func (m *Manager) FileSize(path string) (int64, error) {
	info, err := os.Stat(m.resolve(path))
	if err != nil {
		return 0, apperrors.NewStorageError("cannot stat "+path, err)
	}
	return info.Size(), nil
}

// EnsureDir creates path and any missing parents.
func (m *Manager) EnsureDir(path string) error {
	if err := os.MkdirAll(m.resolve(path), 0755); err != nil {
		return apperrors.NewStorageError("cannot create directory "+path, err)
	}
	return nil
}

// RequireInput verifies a stage input exists, distinguishing a missing file
// from a path that is unexpectedly a directory.
func (m *Manager) RequireInput(path string) error {
	info, err := os.Stat(m.resolve(path))
	if err != nil {
		return apperrors.NewStorageError("required input missing: "+path, err)
	}
	if info.IsDir() {
		return apperrors.NewStorageError("required input is a directory: "+path, nil)
	}
	return nil
}
