package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "solareda/internal/errors"
)

// Format is a dataset file format recognised by its extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// DatasetExtensions lists the extensions that can be loaded.
var DatasetExtensions = []string{".csv", ".xlsx", ".xlsm"}

// DetectFormat maps a file name to a loadable format. PDF is recognised so
// that it can be rejected with a dedicated message.
func DetectFormat(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, apperrors.NewLoadError("PDF files are not supported", apperrors.ErrUnsupportedFormat).
			WithContext("extension", ext)
	default:
		return "", apperrors.NewLoadError("unsupported file format", apperrors.ErrUnsupportedFormat).
			WithContext("extension", ext)
	}
}

// IsDatasetFile reports whether name has a loadable extension and is not
// an editor lock file.
func IsDatasetFile(name string) bool {
	if isTemporaryFile(name) {
		return false
	}
	_, err := DetectFormat(name)
	return err == nil
}

func isTemporaryFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~lock")
}

// FileValidator checks dataset inputs and output locations.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewLoadError(fmt.Sprintf("file %s does not exist", path), apperrors.ErrUnreadableFile).
			WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewLoadError(fmt.Sprintf("failed to stat file %s", path), fmt.Errorf("%w: %v", apperrors.ErrUnreadableFile, err))
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewLoadError(fmt.Sprintf("%s is a directory, not a file", path), apperrors.ErrUnreadableFile)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewLoadError(fmt.Sprintf("file %s is not readable", path), fmt.Errorf("%w: %v", apperrors.ErrUnreadableFile, err))
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDatasetFile checks that path is a readable file in a loadable
// format and returns that format.
func (v *FileValidator) ValidateDatasetFile(path string) (Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		v.logger.Warn("Rejected dataset file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return format, err
	}
	if isTemporaryFile(path) {
		return "", apperrors.NewLoadError(fmt.Sprintf("file %s is a temporary lock file", path), apperrors.ErrUnreadableFile)
	}
	if err := v.ValidateFile(path); err != nil {
		return "", err
	}
	return format, nil
}

// ValidateUpload checks an uploaded file's name and size against the
// configured limit.
func (v *FileValidator) ValidateUpload(name string, size, maxBytes int64) (Format, error) {
	if strings.TrimSpace(name) == "" {
		return "", apperrors.NewAppValidationError("uploaded file has no name")
	}
	if maxBytes > 0 && size > maxBytes {
		v.logger.Warn("Upload exceeds size limit",
			slog.String("file", name),
			slog.Int64("size", size),
			slog.Int64("max_bytes", maxBytes))
		return "", apperrors.NewAppValidationError(fmt.Sprintf("file %s is %d bytes, limit is %d", name, size, maxBytes)).
			WithContext("max_bytes", maxBytes)
	}

	format, err := DetectFormat(name)
	if err != nil {
		return format, err
	}
	if size == 0 {
		return "", apperrors.NewLoadError(fmt.Sprintf("file %s is empty", name), apperrors.ErrMalformedContent)
	}
	return format, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
