package http

import (
	"context"
	"io"

	"solareda/internal/dataprocessing"
	"solareda/internal/exporter"
	"solareda/internal/files"
	"solareda/internal/services"
	"solareda/pkg/contracts/domain"
)

// DatasetServiceInterface is the dataset surface the dashboard needs.
// *services.DatasetService implements it.
type DatasetServiceInterface interface {
	Upload(ctx context.Context, name string, data []byte) (*services.CacheEntry, error)
	LoadSample(ctx context.Context) (*services.CacheEntry, error)
	Files(ctx context.Context) ([]files.FileInfo, error)
	Open(ctx context.Context, name string) (*services.CacheEntry, error)

	Get(ctx context.Context, id string) (*services.CacheEntry, error)
	List(ctx context.Context) []*services.CacheEntry
	Stats(ctx context.Context) services.CacheStats
	Invalidate(ctx context.Context, id string) error
	InvalidateAll(ctx context.Context) int

	Info(ctx context.Context, id string) (domain.DatasetInfo, error)
	Describe(ctx context.Context, id string) ([]domain.DescriptiveStatistics, error)
	Summary(ctx context.Context, id string) ([]domain.SummaryStatistic, error)
	Missing(ctx context.Context, id string) ([]domain.MissingValueReport, error)
	Negatives(ctx context.Context, id string) ([]domain.NegativeValueReport, error)
	Report(ctx context.Context, id string) (*dataprocessing.Report, error)
	Clean(ctx context.Context, id string, columns []string) (*services.CleanResponse, error)
	Chart(ctx context.Context, id string, kind domain.ChartKind, opts dataprocessing.ChartOptions) (interface{}, error)

	Export(ctx context.Context, id string, format exporter.Format, w io.Writer) error
	Save(ctx context.Context, id string, format exporter.Format) (*services.SavedFile, error)
}

var _ DatasetServiceInterface = (*services.DatasetService)(nil)
