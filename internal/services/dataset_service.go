package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"solareda/internal/config"
	"solareda/internal/dataprocessing"
	apperrors "solareda/internal/errors"
	"solareda/internal/exporter"
	"solareda/internal/files"
	"solareda/internal/infrastructure"
	"solareda/internal/validation"
	"solareda/pkg/contracts/domain"
	"solareda/pkg/contracts/events"
)

// EventPublisher receives cache change notifications.
type EventPublisher interface {
	Publish(ctx context.Context, t events.Type, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.Type, interface{}) {}

// CleanResponse pairs the cached filtered dataset with the filter summary.
type CleanResponse struct {
	Dataset *CacheEntry                 `json:"dataset"`
	Result  *dataprocessing.CleanResult `json:"result"`
}

// SavedFile describes an export written to the reports directory.
type SavedFile struct {
	Name   string          `json:"name"`
	Path   string          `json:"path"`
	Format exporter.Format `json:"format"`
}

// DatasetService loads datasets into the cache and runs analyses on them.
type DatasetService struct {
	cfg       *config.Config
	paths     *config.Paths
	cache     *DatasetCache
	loader    *dataprocessing.Loader
	pipeline  *dataprocessing.Pipeline
	validator *validation.FileValidator
	discovery *files.Discovery
	manager   *files.Manager
	metrics   *infrastructure.PipelineMetrics
	loads     singleflight.Group
	publisher EventPublisher
	logger    *slog.Logger
}

// NewDatasetService wires the loader, cache and pipeline from configuration.
// metrics may be nil.
func NewDatasetService(cfg *config.Config, paths *config.Paths, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DatasetService initialized",
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.Int("cache_max_entries", cfg.Cache.MaxEntries),
		slog.Duration("cache_ttl", cfg.Cache.TTL))

	return &DatasetService{
		cfg:       cfg,
		paths:     paths,
		cache:     NewDatasetCache(cfg.Cache.MaxEntries, cfg.Cache.TTL),
		loader:    dataprocessing.NewLoader(logger).WithMetrics(metrics),
		pipeline:  dataprocessing.NewPipeline(logger, metrics),
		validator: validation.NewFileValidator(logger),
		discovery: files.NewDiscovery(paths.DataDir),
		manager:   files.NewManager(paths, logger),
		metrics:   metrics,
		publisher: noopPublisher{},
		logger:    infrastructure.WithComponent(logger, "dataset_service"),
	}
}

// SetPublisher routes cache events to p. A nil p disables them.
func (s *DatasetService) SetPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	s.publisher = p
}

// Cache exposes the underlying cache for health reporting.
func (s *DatasetService) Cache() *DatasetCache {
	return s.cache
}

// Upload loads an uploaded file. The identity is the file name, so the
// same bytes uploaded under two names are cached twice.
func (s *DatasetService) Upload(ctx context.Context, name string, data []byte) (*CacheEntry, error) {
	if strings.TrimSpace(name) != "" {
		name = filepath.Base(name)
	}
	if _, err := s.validator.ValidateUpload(name, int64(len(data)), s.cfg.Upload.MaxBytes); err != nil {
		return nil, err
	}
	key := NewCacheKey(name, data)
	return s.load(ctx, key, func(ctx context.Context) (*domain.Dataset, error) {
		return s.loader.LoadBytes(ctx, name, data)
	})
}

// LoadPath loads a dataset from disk, identified by its absolute path.
func (s *DatasetService) LoadPath(ctx context.Context, path string) (*CacheEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("invalid path %s", path), apperrors.ErrUnreadableFile)
	}
	if _, err := s.validator.ValidateDatasetFile(abs); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperrors.NewLoadError(fmt.Sprintf("failed to read %s", abs), fmt.Errorf("%w: %v", apperrors.ErrUnreadableFile, err))
	}

	name := filepath.Base(abs)
	return s.load(ctx, NewCacheKey(abs, data), func(ctx context.Context) (*domain.Dataset, error) {
		return s.loader.LoadBytes(ctx, name, data)
	})
}

// LoadSample loads the configured sample dataset.
func (s *DatasetService) LoadSample(ctx context.Context) (*CacheEntry, error) {
	if s.paths.SampleDataset == "" {
		return nil, apperrors.NewConfigError("no sample dataset configured", nil)
	}
	return s.LoadPath(ctx, s.paths.SampleDataset)
}

// Files lists the dataset files available in the data directory.
func (s *DatasetService) Files(ctx context.Context) ([]files.FileInfo, error) {
	return s.discovery.FindDatasets()
}

// Open loads a file from the data directory by bare name.
func (s *DatasetService) Open(ctx context.Context, name string) (*CacheEntry, error) {
	path, err := s.discovery.Resolve(name)
	if err != nil {
		return nil, err
	}
	return s.LoadPath(ctx, path)
}

// load returns the cached entry for key or parses it once, however many
// callers ask concurrently. The shared parse is not cancelled when one
// caller goes away.
func (s *DatasetService) load(ctx context.Context, key CacheKey, parse func(context.Context) (*domain.Dataset, error)) (*CacheEntry, error) {
	before := s.cache.Len()
	entry, ok := s.cache.Get(key)
	s.trackSize(ctx, before)
	if ok {
		s.metrics.RecordCacheLookup(ctx, true)
		s.logger.DebugContext(ctx, "Dataset cache hit",
			slog.String("dataset_id", entry.ID),
			slog.String("identity", key.Identity))
		return entry, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	shared := context.WithoutCancel(ctx)
	v, err, _ := s.loads.Do(key.ID(), func() (interface{}, error) {
		if entry, ok := s.cache.Peek(key); ok {
			return entry, nil
		}
		ds, err := parse(shared)
		if err != nil {
			s.logDataError(shared, "load", "Dataset load failed",
				slog.String("identity", key.Identity),
				slog.String("error", err.Error()))
			return nil, err
		}
		return s.put(shared, key, ds, ""), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CacheEntry), nil
}

func (s *DatasetService) put(ctx context.Context, key CacheKey, ds *domain.Dataset, parent string) *CacheEntry {
	before := s.cache.Len()
	entry := s.cache.Put(key, ds, parent)
	s.trackSize(ctx, before)

	s.logger.InfoContext(ctx, "Dataset cached",
		slog.String("dataset_id", entry.ID),
		slog.String("name", entry.Name),
		slog.Int("rows", entry.Rows),
		slog.String("parent", entry.Parent))

	if parent == "" {
		s.publisher.Publish(ctx, events.TypeDatasetLoaded, entry)
	} else {
		s.publisher.Publish(ctx, events.TypeDatasetDerived, entry)
	}
	return entry
}

// trackSize reports the change in cache size since before, which covers
// evictions and expiries as well as insertions.
func (s *DatasetService) trackSize(ctx context.Context, before int) {
	if delta := s.cache.Len() - before; delta != 0 {
		s.metrics.RecordCacheSize(ctx, int64(delta))
	}
}

// Get returns a cached dataset by handle.
func (s *DatasetService) Get(ctx context.Context, id string) (*CacheEntry, error) {
	before := s.cache.Len()
	entry, ok := s.cache.GetByID(id)
	s.trackSize(ctx, before)
	s.metrics.RecordCacheLookup(ctx, ok)
	if !ok {
		return nil, datasetNotFound(id)
	}
	return entry, nil
}

// List returns the cached datasets, oldest first.
func (s *DatasetService) List(ctx context.Context) []*CacheEntry {
	return s.cache.List()
}

// Stats returns the cache counters.
func (s *DatasetService) Stats(ctx context.Context) CacheStats {
	return s.cache.Stats()
}

// Invalidate drops a dataset and the datasets derived from it.
func (s *DatasetService) Invalidate(ctx context.Context, id string) error {
	n := s.cache.InvalidateID(id)
	if n == 0 {
		return datasetNotFound(id)
	}
	s.metrics.RecordCacheSize(ctx, -int64(n))
	s.logger.InfoContext(ctx, "Dataset invalidated",
		slog.String("dataset_id", id),
		slog.Int("removed", n))
	s.publisher.Publish(ctx, events.TypeDatasetRemoved, events.DatasetRemoved{ID: id, Removed: n})
	return nil
}

// InvalidateAll empties the cache and returns how many entries were dropped.
func (s *DatasetService) InvalidateAll(ctx context.Context) int {
	n := s.cache.InvalidateAll()
	s.metrics.RecordCacheSize(ctx, -int64(n))
	s.logger.InfoContext(ctx, "Dataset cache cleared", slog.Int("removed", n))
	s.publisher.Publish(ctx, events.TypeCacheCleared, events.CacheCleared{Removed: n})
	return n
}

// Info returns the dataset's shape and schema.
func (s *DatasetService) Info(ctx context.Context, id string) (domain.DatasetInfo, error) {
	var out domain.DatasetInfo
	err := s.analyze(ctx, id, dataprocessing.SectionInfo, func(ds *domain.Dataset) error {
		out = dataprocessing.Info(ds)
		return nil
	})
	return out, err
}

// Describe returns the count/mean/std/quartile table.
func (s *DatasetService) Describe(ctx context.Context, id string) ([]domain.DescriptiveStatistics, error) {
	var out []domain.DescriptiveStatistics
	err := s.analyze(ctx, id, dataprocessing.SectionDescribe, func(ds *domain.Dataset) error {
		out = dataprocessing.Describe(ds)
		return nil
	})
	return out, err
}

// Summary returns the six summary statistics for every numeric column.
func (s *DatasetService) Summary(ctx context.Context, id string) ([]domain.SummaryStatistic, error) {
	var out []domain.SummaryStatistic
	err := s.analyze(ctx, id, dataprocessing.SectionSummary, func(ds *domain.Dataset) error {
		out = dataprocessing.SummaryTable(ds)
		return nil
	})
	return out, err
}

// Missing returns the per-column null counts.
func (s *DatasetService) Missing(ctx context.Context, id string) ([]domain.MissingValueReport, error) {
	var out []domain.MissingValueReport
	err := s.analyze(ctx, id, dataprocessing.SectionMissing, func(ds *domain.Dataset) error {
		out = dataprocessing.MissingValues(ds)
		return nil
	})
	return out, err
}

// Negatives returns the per-column counts of values below zero.
func (s *DatasetService) Negatives(ctx context.Context, id string) ([]domain.NegativeValueReport, error) {
	var out []domain.NegativeValueReport
	err := s.analyze(ctx, id, dataprocessing.SectionNegatives, func(ds *domain.Dataset) error {
		out = dataprocessing.NegativeValues(ds)
		return nil
	})
	return out, err
}

// Report runs the full pipeline, cleaning the configured columns.
func (s *DatasetService) Report(ctx context.Context, id string) (*dataprocessing.Report, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, entry.Dataset, dataprocessing.ReportOptions{CleanColumns: s.cfg.Analysis.CleanColumns})
}

// Clean filters out rows with negative or missing values in columns and
// caches the result as a dataset derived from id. An empty column list
// uses the configured clean columns.
func (s *DatasetService) Clean(ctx context.Context, id string, columns []string) (*CleanResponse, error) {
	if len(columns) == 0 {
		columns = s.cfg.Analysis.CleanColumns
	}
	if err := dataprocessing.ValidateCleanColumns(columns); err != nil {
		return nil, err
	}
	parent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := CacheKey{
		Identity:    parent.ID + "#non-negative:" + quoteColumns(columns),
		ContentHash: parent.Key.ContentHash,
	}
	if entry, ok := s.cache.Peek(key); ok {
		s.metrics.RecordCacheLookup(ctx, true)
		return &CleanResponse{Dataset: entry, Result: dataprocessing.NewCleanResult(parent.Dataset, entry.Dataset, columns)}, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	var result *dataprocessing.CleanResult
	err = s.analyze(ctx, id, dataprocessing.SectionClean, func(ds *domain.Dataset) error {
		cleaned, err := dataprocessing.RemoveNegativeRows(ds, columns)
		if err != nil {
			return err
		}
		result = dataprocessing.NewCleanResult(ds, cleaned, columns)
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := s.put(ctx, key, result.Dataset, parent.ID)
	s.logger.InfoContext(ctx, "Negative rows removed",
		slog.String("dataset_id", id),
		slog.String("derived_id", entry.ID),
		slog.Int("rows_removed", result.RowsRemoved))
	return &CleanResponse{Dataset: entry, Result: result}, nil
}

// Chart builds chart data. A non-positive bin count uses the configured
// default.
func (s *DatasetService) Chart(ctx context.Context, id string, kind domain.ChartKind, opts dataprocessing.ChartOptions) (interface{}, error) {
	if opts.Bins <= 0 {
		opts.Bins = s.cfg.Analysis.HistogramBins
	}
	var out interface{}
	err := s.analyze(ctx, id, "chart_"+string(kind), func(ds *domain.Dataset) (err error) {
		out, err = dataprocessing.BuildChart(ds, kind, opts)
		return err
	})
	return out, err
}

// Export writes a cached dataset to w.
func (s *DatasetService) Export(ctx context.Context, id string, format exporter.Format, w io.Writer) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return exporter.Export(w, entry.Dataset, format)
}

// Save writes a cached dataset to a timestamped file in the reports
// directory.
func (s *DatasetService) Save(ctx context.Context, id string, format exporter.Format) (*SavedFile, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := s.manager.ReportName(entry.Name, format.Extension())
	path, err := s.manager.WriteFrom("reports/"+name, func(w io.Writer) error {
		return exporter.Export(w, entry.Dataset, format)
	})
	if err != nil {
		return nil, err
	}
	return &SavedFile{Name: name, Path: path, Format: format}, nil
}

// analyze resolves id and runs fn inside a span, recording the analysis
// when it succeeds.
func (s *DatasetService) analyze(ctx context.Context, id, kind string, fn func(*domain.Dataset) error) error {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	ctx, span := infrastructure.StartSpan(ctx, "services.Analyze",
		attribute.String("dataset_id", id),
		attribute.String("analysis", kind))
	defer span.End()

	if err := fn(entry.Dataset); err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "Analysis failed",
			slog.String("dataset_id", id),
			slog.String("analysis", kind),
			slog.String("error", err.Error()))
		return err
	}
	s.metrics.RecordAnalysis(ctx, kind)
	return nil
}

// quoteColumns encodes a column list so that no two lists share a spelling,
// whatever the column names contain.
func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = strconv.Quote(c)
	}
	return strings.Join(quoted, ",")
}
