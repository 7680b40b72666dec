package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "esgmap/internal/errors"
)

// FileInfo describes one discovered input file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds provider input files under a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery instance rooted at basePath. Absolute
// directories passed to the finder methods bypass the base.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindByPattern returns files in dir matching a glob pattern, sorted by name.
func (d *Discovery) FindByPattern(dir, pattern string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	matches, err := filepath.Glob(filepath.Join(fullPath, pattern))
	if err != nil {
		return nil, apperrors.NewStorageError("invalid file pattern "+pattern, err)
	}

	var found []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// FindByExtension returns files in dir with one of the given extensions
// (compared case-insensitively), sorted by name.
func (d *Discovery) FindByExtension(dir string, extensions ...string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot read input directory "+fullPath, err)
	}

	var found []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		for _, want := range extensions {
			if ext != strings.ToLower(want) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			found = append(found, FileInfo{
				Path:    filepath.Join(fullPath, name),
				Name:    name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			break
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// FindExcelFiles returns the .xlsx and .xls files in dir, sorted by name.
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	return d.FindByExtension(dir, ".xlsx", ".xls")
}

// FindCSVFiles returns the .csv files in dir, sorted by name.
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.FindByExtension(dir, ".csv")
}
