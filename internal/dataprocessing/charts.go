package dataprocessing

import (
	"fmt"
	"math"

	apperrors "solareda/internal/errors"
	"solareda/pkg/contracts/domain"
)

// DefaultHistogramBins is used when no bin count is given.
const DefaultHistogramBins = 30

// ChartOptions narrows a chart to specific columns. Scatter charts read
// Columns as consecutive (x, y) pairs.
type ChartOptions struct {
	Columns []string
	Bins    int
}

// BuildChart produces the chart-ready data of the given kind.
func BuildChart(ds *domain.Dataset, kind domain.ChartKind, opts ChartOptions) (interface{}, error) {
	switch kind {
	case domain.ChartTimeSeries:
		return TimeSeries(ds, opts.Columns...)
	case domain.ChartCorrelation:
		return Correlation(ds, opts.Columns...)
	case domain.ChartBoxPlot:
		return BoxPlots(ds, opts.Columns...)
	case domain.ChartHistogram:
		return Histograms(ds, opts.Bins, opts.Columns...)
	case domain.ChartScatter:
		pairs, err := columnPairs(opts.Columns)
		if err != nil {
			return nil, err
		}
		return Scatters(ds, pairs...)
	case domain.ChartWind:
		return WindAnalysis(ds)
	case domain.ChartTemperature:
		return TemperatureAnalysis(ds)
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown chart kind %q", kind)).
			WithContext("supported", domain.ChartKinds)
	}
}

func columnPairs(columns []string) ([][2]string, error) {
	if len(columns)%2 != 0 {
		return nil, apperrors.NewAppValidationError("scatter columns must come in x,y pairs")
	}
	pairs := make([][2]string, 0, len(columns)/2)
	for i := 0; i < len(columns); i += 2 {
		pairs = append(pairs, [2]string{columns[i], columns[i+1]})
	}
	return pairs, nil
}

func orDefault(columns, def []string) []string {
	if len(columns) == 0 {
		return def
	}
	return columns
}

// TimeSeries pairs each row's timestamp with its values in the given
// columns (irradiance by default). Rows whose timestamp does not parse are
// skipped; null values are NaN.
func TimeSeries(ds *domain.Dataset, columns ...string) (domain.TimeSeries, error) {
	columns = orDefault(columns, domain.IrradianceColumns)
	if err := RequireColumns(ds, append([]string{domain.ColTimestamp}, columns...)...); err != nil {
		return domain.TimeSeries{}, err
	}
	if err := RequireNumeric(ds, columns...); err != nil {
		return domain.TimeSeries{}, err
	}

	stamps, _ := ds.Cells(domain.ColTimestamp)
	values := make([][]domain.NullFloat, len(columns))
	for i, c := range columns {
		values[i], _ = ds.Coerced(c)
	}

	series := domain.TimeSeries{Columns: columns, Points: make([]domain.TimeSeriesPoint, 0, ds.Len())}
	for r, raw := range stamps {
		ts, ok := domain.ParseTimestamp(raw)
		if !ok {
			continue
		}
		point := domain.TimeSeriesPoint{Timestamp: ts, Values: make([]domain.Metric, len(columns))}
		for i := range columns {
			v := values[i][r]
			if v.Valid {
				point.Values[i] = domain.Metric(v.Value)
			} else {
				point.Values[i] = domain.Metric(nan)
			}
		}
		series.Points = append(series.Points, point)
	}
	return series, nil
}

// Correlation computes the pairwise-complete Pearson matrix of the given
// numeric columns.
func Correlation(ds *domain.Dataset, columns ...string) (domain.CorrelationMatrix, error) {
	columns = orDefault(columns, domain.CorrelationColumns)
	if err := RequireNumeric(ds, columns...); err != nil {
		return domain.CorrelationMatrix{}, err
	}

	coerced := make([][]domain.NullFloat, len(columns))
	for i, c := range columns {
		coerced[i], _ = ds.Coerced(c)
	}

	matrix := domain.CorrelationMatrix{Columns: columns, Values: make([][]domain.Metric, len(columns))}
	for i := range columns {
		matrix.Values[i] = make([]domain.Metric, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			r := pearson(coerced[i], coerced[j])
			matrix.Values[i][j] = domain.Metric(r)
			matrix.Values[j][i] = domain.Metric(r)
		}
	}
	return matrix, nil
}

// BoxPlots returns quartiles, 1.5 IQR whiskers and outliers per column.
// Infinite values are left out.
func BoxPlots(ds *domain.Dataset, columns ...string) ([]domain.BoxPlot, error) {
	columns = orDefault(columns, domain.IrradianceColumns)
	if err := RequireNumeric(ds, columns...); err != nil {
		return nil, err
	}

	out := make([]domain.BoxPlot, 0, len(columns))
	for _, c := range columns {
		xs, _ := ds.Floats(c)
		out = append(out, boxPlot(c, finite(xs)))
	}
	return out, nil
}

func boxPlot(name string, xs []float64) domain.BoxPlot {
	s := sortedSample(xs)
	lo, hi := bounds(s)
	q1, q3 := quantile(s, 0.25), quantile(s, 0.75)
	box := domain.BoxPlot{
		Column:       name,
		Count:        len(xs),
		Min:          domain.Metric(lo),
		Q1:           domain.Metric(q1),
		Median:       domain.Metric(quantile(s, 0.5)),
		Q3:           domain.Metric(q3),
		Max:          domain.Metric(hi),
		LowerWhisker: domain.Metric(nan),
		UpperWhisker: domain.Metric(nan),
		Outliers:     []float64{},
	}
	if len(xs) == 0 {
		return box
	}

	iqr := q3 - q1
	lowFence, highFence := q1-1.5*iqr, q3+1.5*iqr
	lower, upper := math.Inf(1), math.Inf(-1)
	for _, x := range s.Xs {
		if x < lowFence || x > highFence {
			box.Outliers = append(box.Outliers, x)
			continue
		}
		lower = math.Min(lower, x)
		upper = math.Max(upper, x)
	}
	box.LowerWhisker = domain.Metric(lower)
	box.UpperWhisker = domain.Metric(upper)
	return box
}

// Histograms bins each column into equal-width intervals over its finite
// range. A non-positive bin count uses DefaultHistogramBins.
func Histograms(ds *domain.Dataset, bins int, columns ...string) ([]domain.Histogram, error) {
	columns = orDefault(columns, domain.HistogramColumns)
	if err := RequireNumeric(ds, columns...); err != nil {
		return nil, err
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	out := make([]domain.Histogram, 0, len(columns))
	for _, c := range columns {
		xs, _ := ds.Floats(c)
		out = append(out, histogram(c, xs, bins))
	}
	return out, nil
}

func histogram(name string, xs []float64, bins int) domain.Histogram {
	h := domain.Histogram{Column: name, Bins: []domain.HistogramBin{}}
	xs = finite(xs)
	if len(xs) == 0 {
		return h
	}

	lo, hi := bounds(sortedSample(xs))
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	b := float64(bins)
	// Halved so a range wider than MaxFloat64 does not overflow.
	half := hi/2 - lo/2
	edge := func(i int) float64 {
		f := float64(i) / b
		if span := hi - lo; !math.IsInf(span, 0) {
			return lo + f*span
		}
		return (1-f)*lo + f*hi
	}

	h.Bins = make([]domain.HistogramBin, bins)
	for i := range h.Bins {
		h.Bins[i].Start = edge(i)
		h.Bins[i].End = edge(i + 1)
	}
	h.Bins[bins-1].End = hi

	for _, x := range xs {
		i := int((x/2 - lo/2) / half * b)
		if i < 0 {
			i = 0
		} else if i >= bins {
			i = bins - 1
		}
		h.Bins[i].Count++
	}
	return h
}

// finite returns xs without ±Inf.
func finite(xs []float64) []float64 {
	out := xs[:0:0]
	for _, x := range xs {
		if !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// Scatters returns the (x, y) observations of each column pair, skipping
// rows that are null or infinite in either column.
func Scatters(ds *domain.Dataset, pairs ...[2]string) ([]domain.Scatter, error) {
	if len(pairs) == 0 {
		pairs = domain.ScatterPairs
	}
	var columns []string
	for _, p := range pairs {
		columns = append(columns, p[0], p[1])
	}
	if err := RequireNumeric(ds, columns...); err != nil {
		return nil, err
	}

	out := make([]domain.Scatter, 0, len(pairs))
	for _, p := range pairs {
		xs, _ := ds.Coerced(p[0])
		ys, _ := ds.Coerced(p[1])
		sc := domain.Scatter{X: p[0], Y: p[1], Points: []domain.ScatterPoint{}}
		for i := range xs {
			if xs[i].Valid && ys[i].Valid && !math.IsInf(xs[i].Value, 0) && !math.IsInf(ys[i].Value, 0) {
				sc.Points = append(sc.Points, domain.ScatterPoint{X: xs[i].Value, Y: ys[i].Value})
			}
		}
		out = append(out, sc)
	}
	return out, nil
}

// WindAnalysis describes the wind speed and direction columns.
func WindAnalysis(ds *domain.Dataset) ([]domain.DescriptiveStatistics, error) {
	return DescribeColumns(ds, domain.WindColumns...)
}

// TemperatureAnalysis describes the ambient and module temperature columns.
func TemperatureAnalysis(ds *domain.Dataset) ([]domain.DescriptiveStatistics, error) {
	return DescribeColumns(ds, domain.TemperatureColumns...)
}
