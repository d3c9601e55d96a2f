package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"solareda/internal/infrastructure"
	"solareda/pkg/contracts/domain"
)

// Report section names, in the order they are produced.
const (
	SectionInfo        = "info"
	SectionDescribe    = "describe"
	SectionSummary     = "summary"
	SectionMissing     = "missing"
	SectionNegatives   = "negatives"
	SectionClean       = "clean"
	SectionWind        = "wind"
	SectionTemperature = "temperature"
)

// Report is the full exploratory analysis of one dataset.
type Report struct {
	Info        domain.DatasetInfo             `json:"info"`
	Describe    []domain.DescriptiveStatistics `json:"describe"`
	Summary     []domain.SummaryStatistic      `json:"summary"`
	Missing     []domain.MissingValueReport    `json:"missing"`
	Negatives   []domain.NegativeValueReport   `json:"negatives"`
	Cleaned     *CleanResult                   `json:"cleaned,omitempty"`
	Wind        []domain.DescriptiveStatistics `json:"wind,omitempty"`
	Temperature []domain.DescriptiveStatistics `json:"temperature,omitempty"`
	Skipped     []SkippedSection               `json:"skipped,omitempty"`
}

// CleanResult summarizes a negative-row filter run.
type CleanResult struct {
	Columns     []string        `json:"columns"`
	RowsBefore  int             `json:"rows_before"`
	RowsAfter   int             `json:"rows_after"`
	RowsRemoved int             `json:"rows_removed"`
	Dataset     *domain.Dataset `json:"-"`
}

// NewCleanResult describes the outcome of filtering before into after.
func NewCleanResult(before, after *domain.Dataset, columns []string) *CleanResult {
	return &CleanResult{
		Columns:     columns,
		RowsBefore:  before.Len(),
		RowsAfter:   after.Len(),
		RowsRemoved: before.Len() - after.Len(),
		Dataset:     after,
	}
}

// SkippedSection records an optional section that could not be produced.
type SkippedSection struct {
	Section string `json:"section"`
	Reason  string `json:"reason"`
}

// ReportOptions configures a pipeline run.
type ReportOptions struct {
	CleanColumns []string
}

// DefaultReportOptions cleans the irradiance columns.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{CleanColumns: domain.IrradianceColumns}
}

// Pipeline runs every analysis over a dataset in report order.
type Pipeline struct {
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewPipeline creates a pipeline. A nil logger falls back to the default.
func NewPipeline(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:  infrastructure.WithComponent(logger, "pipeline"),
		metrics: metrics,
	}
}

// Run produces the report. Sections that need absent or non-numeric
// columns are recorded in Report.Skipped instead of failing the run; only
// context cancellation returns an error.
func (p *Pipeline) Run(ctx context.Context, ds *domain.Dataset, opts ReportOptions) (*Report, error) {
	ctx, span := infrastructure.StartSpan(ctx, "dataprocessing.Report",
		attribute.String("dataset", ds.Name()),
		attribute.Int("rows", ds.Len()))
	defer span.End()

	start := time.Now()
	report := &Report{}

	steps := []struct {
		name string
		run  func() error
	}{
		{SectionInfo, func() error { report.Info = Info(ds); return nil }},
		{SectionDescribe, func() error { report.Describe = Describe(ds); return nil }},
		{SectionSummary, func() error { report.Summary = SummaryTable(ds); return nil }},
		{SectionMissing, func() error { report.Missing = MissingValues(ds); return nil }},
		{SectionNegatives, func() error { report.Negatives = NegativeValues(ds); return nil }},
		{SectionClean, func() error {
			cleaned, err := RemoveNegativeRows(ds, opts.CleanColumns)
			if err != nil {
				return err
			}
			report.Cleaned = NewCleanResult(ds, cleaned, opts.CleanColumns)
			return nil
		}},
		{SectionWind, func() (err error) { report.Wind, err = WindAnalysis(ds); return err }},
		{SectionTemperature, func() (err error) { report.Temperature, err = TemperatureAnalysis(ds); return err }},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.run(); err != nil {
			p.logger.WarnContext(ctx, "Report section skipped",
				slog.String("dataset", ds.Name()),
				slog.String("section", step.name),
				slog.String("error", err.Error()))
			report.Skipped = append(report.Skipped, SkippedSection{Section: step.name, Reason: err.Error()})
			continue
		}
		p.metrics.RecordAnalysis(ctx, step.name)
	}

	p.logger.InfoContext(ctx, "Report generated",
		slog.String("dataset", ds.Name()),
		slog.Int("rows", ds.Len()),
		slog.Int("skipped_sections", len(report.Skipped)),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}
