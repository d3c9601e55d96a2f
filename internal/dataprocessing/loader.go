package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"

	apperrors "solareda/internal/errors"
	"solareda/internal/infrastructure"
	"solareda/internal/validation"
	"solareda/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ctxCheckInterval is how many CSV records are read between context checks.
const ctxCheckInterval = 4096

// Loader reads CSV and XLSX files into datasets.
type Loader struct {
	logger    *slog.Logger
	validator *validation.FileValidator
	metrics   *infrastructure.PipelineMetrics
}

// NewLoader creates a loader. A nil logger falls back to the default one.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "loader")
	return &Loader{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
	}
}

// WithMetrics attaches pipeline metrics to the loader.
func (l *Loader) WithMetrics(m *infrastructure.PipelineMetrics) *Loader {
	l.metrics = m
	return l
}

// LoadFile loads the dataset at path using the default loader.
func LoadFile(ctx context.Context, path string) (*domain.Dataset, error) {
	return NewLoader(nil).LoadFile(ctx, path)
}

// LoadReader loads a dataset from r using the default loader. The format is
// taken from name's extension.
func LoadReader(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	return NewLoader(nil).LoadReader(ctx, name, r)
}

// LoadFile loads the dataset at path. The format is chosen by extension.
func (l *Loader) LoadFile(ctx context.Context, path string) (*domain.Dataset, error) {
	format, err := l.validator.ValidateDatasetFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("failed to open %s", path), fmt.Errorf("%w: %w", apperrors.ErrUnreadableFile, err))
	}
	defer f.Close()

	return l.load(ctx, filepath.Base(path), format, f)
}

// LoadReader loads a dataset from r. name is used for format detection and
// as the dataset name.
func (l *Loader) LoadReader(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	format, err := validation.DetectFormat(name)
	if err != nil {
		l.logger.WarnContext(ctx, "Rejected dataset",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, err
	}
	return l.load(ctx, filepath.Base(name), format, r)
}

// LoadBytes loads a dataset from an in-memory upload.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*domain.Dataset, error) {
	return l.LoadReader(ctx, name, bytes.NewReader(data))
}

func (l *Loader) load(ctx context.Context, name string, format validation.Format, r io.Reader) (ds *domain.Dataset, err error) {
	ctx, span := infrastructure.StartSpan(ctx, "dataprocessing.Load",
		attribute.String("dataset", name),
		attribute.String("format", string(format)))
	defer span.End()

	start := time.Now()
	defer func() {
		rows := 0
		if ds != nil {
			rows = ds.Len()
		}
		l.metrics.RecordDatasetLoad(ctx, string(format), rows, time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var header []string
	var records [][]string
	switch format {
	case validation.FormatCSV:
		header, records, err = readCSV(ctx, r)
	case validation.FormatXLSX:
		header, records, err = readXLSX(r)
	default:
		return nil, apperrors.NewLoadError("unsupported file format", apperrors.ErrUnsupportedFormat)
	}
	if err != nil {
		if apperrors.IsLoadError(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, apperrors.NewLoadError(fmt.Sprintf("failed to parse %s", name), fmt.Errorf("%w: %w", apperrors.ErrMalformedContent, err))
	}

	ds, err = domain.NewDataset(name, header, records)
	if err != nil {
		l.logger.WarnContext(ctx, "Invalid dataset layout",
			slog.String("dataset", name),
			slog.String("error", err.Error()))
		return nil, apperrors.NewLoadError(fmt.Sprintf("invalid layout in %s", name), fmt.Errorf("%w: %w", apperrors.ErrMalformedContent, err))
	}

	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("dataset", name),
		slog.String("format", string(format)),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", ds.Width()),
		slog.Duration("duration", time.Since(start)))
	infrastructure.AddSpanEvent(ctx, "dataset.loaded", map[string]interface{}{
		"rows":    ds.Len(),
		"columns": ds.Width(),
	})
	return ds, nil
}

// readCSV reads a header row followed by records of the same width.
func readCSV(ctx context.Context, r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, apperrors.NewLoadError("missing header row", apperrors.ErrMalformedContent)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)

		if len(records)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
	}
	return header, records, nil
}

// readXLSX reads the first sheet of a workbook. Rows are padded to the
// header width since trailing empty cells are not stored; fully blank rows
// are skipped.
func readXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperrors.NewLoadError("workbook has no sheets", apperrors.ErrMalformedContent)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}

	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, nil, apperrors.NewLoadError("missing header row", apperrors.ErrMalformedContent).
			WithContext("sheet", sheets[0])
	}

	header := rows[start]
	width := len(header)
	records := make([][]string, 0, len(rows)-start-1)
	for i, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) > width {
			return nil, nil, fmt.Errorf("sheet %q row %d has %d cells, header has %d: %w",
				sheets[0], start+i+2, len(row), width, domain.ErrRaggedRow)
		}
		padded := make([]string, width)
		copy(padded, row)
		records = append(records, padded)
	}
	return header, records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
