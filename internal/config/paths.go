package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved directories used by the application.
type Paths struct {
	BaseDir       string
	DataDir       string
	ReportsDir    string
	LogsDir       string
	SampleDataset string
}

// ExecutableDir returns the directory containing the running binary, with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// NewPaths resolves cfg against baseDir. An empty baseDir falls back to
// cfg.BaseDir, then to the executable's directory.
func NewPaths(cfg PathsConfig, baseDir string) (*Paths, error) {
	if baseDir == "" {
		baseDir = cfg.BaseDir
	}
	if baseDir == "" {
		exeDir, err := ExecutableDir()
		if err != nil {
			return nil, err
		}
		baseDir = exeDir
	}

	p := &Paths{BaseDir: baseDir}
	p.DataDir = p.Resolve(cfg.DataDir)
	p.ReportsDir = p.Resolve(cfg.ReportsDir)
	p.LogsDir = p.Resolve(cfg.LogsDir)
	p.SampleDataset = p.Resolve(cfg.SampleDataset)
	return p, nil
}

// GetPaths resolves the configured paths relative to the executable.
func (c *Config) GetPaths() (*Paths, error) {
	return NewPaths(c.Paths, "")
}

// Resolve joins a relative path onto BaseDir; absolute paths are returned
// cleaned but otherwise unchanged.
func (p *Paths) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.BaseDir, path)
}

// GetReportPath returns the path of a file under the reports directory.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path of a file under the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates the data, reports and logs directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
