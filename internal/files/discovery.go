package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "solareda/internal/errors"
	"solareda/internal/validation"
)

// FileInfo represents information about a discovered dataset file
type FileInfo struct {
	Name    string            `json:"name"`
	Path    string            `json:"-"`
	Size    int64             `json:"size"`
	ModTime time.Time         `json:"modified"`
	Format  validation.Format `json:"format"`
}

// Discovery lists and resolves dataset files in a single directory.
type Discovery struct {
	dir string
}

// NewDiscovery creates a discovery rooted at dir
func NewDiscovery(dir string) *Discovery {
	return &Discovery{dir: dir}
}

// Dir returns the directory being searched.
func (d *Discovery) Dir() string {
	return d.dir
}

// FindDatasets returns the CSV and Excel files in the directory sorted by
// name. Subdirectories and editor lock files are ignored. A missing
// directory yields no files.
func (d *Discovery) FindDatasets() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if os.IsNotExist(err) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read directory %s", d.dir), err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !validation.IsDatasetFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		format, _ := validation.DetectFormat(entry.Name())
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(d.dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Format:  format,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Resolve maps a bare file name to its path in the directory. Names with
// path separators or parent references are rejected so callers cannot
// escape the directory.
func (d *Discovery) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", apperrors.NewAppValidationError(fmt.Sprintf("invalid file name %q", name))
	}
	if !validation.IsDatasetFile(name) {
		return "", apperrors.NewAppValidationError(fmt.Sprintf("%q is not a dataset file", name)).
			WithContext("extensions", validation.DatasetExtensions)
	}

	path := filepath.Join(d.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", apperrors.NewNotFoundError("file " + name)
	}
	return path, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}
