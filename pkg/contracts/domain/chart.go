package domain

import "time"

// ChartKind names a chart data builder.
type ChartKind string

const (
	ChartTimeSeries  ChartKind = "timeseries"
	ChartCorrelation ChartKind = "correlation"
	ChartBoxPlot     ChartKind = "boxplot"
	ChartHistogram   ChartKind = "histogram"
	ChartScatter     ChartKind = "scatter"
	ChartWind        ChartKind = "wind"
	ChartTemperature ChartKind = "temperature"
)

// ChartKinds lists every supported kind.
var ChartKinds = []ChartKind{ChartTimeSeries, ChartCorrelation, ChartBoxPlot, ChartHistogram, ChartScatter, ChartWind, ChartTemperature}

// TimeSeries holds one value per column for each timestamped row.
type TimeSeries struct {
	Columns []string          `json:"columns"`
	Points  []TimeSeriesPoint `json:"points"`
}

// TimeSeriesPoint values are aligned with TimeSeries.Columns.
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Values    []Metric  `json:"values"`
}

// CorrelationMatrix holds Pearson coefficients; Values[i][j] pairs
// Columns[i] with Columns[j].
type CorrelationMatrix struct {
	Columns []string   `json:"columns"`
	Values  [][]Metric `json:"values"`
}

// BoxPlot is the five-number summary of a column with Tukey whiskers.
type BoxPlot struct {
	Column       string    `json:"column"`
	Count        int       `json:"count"`
	Min          Metric    `json:"min"`
	Q1           Metric    `json:"q1"`
	Median       Metric    `json:"median"`
	Q3           Metric    `json:"q3"`
	Max          Metric    `json:"max"`
	LowerWhisker Metric    `json:"lower_whisker"`
	UpperWhisker Metric    `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// Histogram is an equal-width binning of a column.
type Histogram struct {
	Column string         `json:"column"`
	Bins   []HistogramBin `json:"bins"`
}

// HistogramBin covers [Start, End); the last bin also includes End.
type HistogramBin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Scatter is a set of (x, y) pairs for two columns.
type Scatter struct {
	X      string         `json:"x"`
	Y      string         `json:"y"`
	Points []ScatterPoint `json:"points"`
}

// ScatterPoint is one observation of a scatter pair.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
