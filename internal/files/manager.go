package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"solareda/internal/config"
	apperrors "solareda/internal/errors"
	"solareda/internal/validation"
)

// Manager writes generated files below the configured directories.
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		paths:  paths,
		logger: logger.With(slog.String("component", "file_manager")),
		now:    time.Now,
	}
}

// WriteFrom creates the file at path and fills it with write. A failed
// write removes the partial file. The resolved path is returned.
func (m *Manager) WriteFrom(path string, write func(io.Writer) error) (string, error) {
	fullPath := m.resolvePath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create file "+fullPath, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", apperrors.NewStorageError("failed to write file "+fullPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", apperrors.NewStorageError("failed to close file "+fullPath, err)
	}

	info, _ := os.Stat(fullPath)
	var size int64
	if info != nil {
		size = info.Size()
	}
	m.logger.Info("File written",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Int64("size_bytes", size))
	return fullPath, nil
}

// ReportName builds a timestamped file name for an export of the named
// dataset, e.g. benin-malanville_20240102_150405.csv.
func (m *Manager) ReportName(dataset, ext string) string {
	return fmt.Sprintf("%s_%s%s", SafeStem(dataset), m.now().Format("20060102_150405"), ext)
}

// SafeStem reduces a dataset name to a file-name stem of letters, digits,
// dashes and single underscores. Dataset extensions are dropped.
func SafeStem(dataset string) string {
	stem := filepath.Base(dataset)
	if validation.IsDatasetFile(stem) {
		stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	}
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, stem)
	for strings.Contains(stem, "__") {
		stem = strings.ReplaceAll(stem, "__", "_")
	}
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "dataset"
	}
	return stem
}

// resolvePath resolves a path relative to the appropriate base directory.
// Paths prefixed with reports/ or logs/ go to those directories; other
// relative paths are taken from the data directory.
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	switch {
	case path == "reports":
		return m.paths.ReportsDir
	case strings.HasPrefix(path, "reports/"):
		return m.paths.GetReportPath(strings.TrimPrefix(path, "reports/"))
	case path == "logs":
		return m.paths.LogsDir
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	default:
		return filepath.Join(m.paths.DataDir, path)
	}
}
