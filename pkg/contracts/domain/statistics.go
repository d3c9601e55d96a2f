package domain

import (
	"math"
	"strconv"
)

// Metric is a computed statistic. NaN and infinities encode as JSON null
// since a column may be too short for a given moment.
type Metric float64

// MarshalJSON implements json.Marshaler.
func (m Metric) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Metric(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}

// Float returns the metric as a float64.
func (m Metric) Float() float64 { return float64(m) }

// Statistic names in reporting order.
const (
	StatCount    = "count"
	StatMean     = "mean"
	StatMedian   = "median"
	StatStdDev   = "standard deviation"
	StatSkewness = "skewness"
	StatKurtosis = "kurtosis"
)

// StatisticDescriptions maps each statistic name to its report description.
var StatisticDescriptions = map[string]string{
	StatCount:    "Number of non-null observations",
	StatMean:     "Mean of the values",
	StatMedian:   "Median (50th percentile) of the values",
	StatStdDev:   "Standard deviation of the values",
	StatSkewness: "Skewness of the distribution",
	StatKurtosis: "Kurtosis of the distribution",
}

// StatisticOrder is the fixed order of summary entries.
var StatisticOrder = []string{StatCount, StatMean, StatMedian, StatStdDev, StatSkewness, StatKurtosis}

// ColumnStatistics summarizes one numeric column.
type ColumnStatistics struct {
	Column   string `json:"column"`
	Count    int    `json:"count"`
	Mean     Metric `json:"mean"`
	Median   Metric `json:"median"`
	StdDev   Metric `json:"std"`
	Skewness Metric `json:"skewness"`
	Kurtosis Metric `json:"kurtosis"`
}

// Value returns the named statistic.
func (c ColumnStatistics) Value(stat string) Metric {
	switch stat {
	case StatCount:
		return Metric(c.Count)
	case StatMean:
		return c.Mean
	case StatMedian:
		return c.Median
	case StatStdDev:
		return c.StdDev
	case StatSkewness:
		return c.Skewness
	case StatKurtosis:
		return c.Kurtosis
	}
	return Metric(math.NaN())
}

// SummaryStatistic is one row of the summary table: a statistic with its
// value for every numeric column.
type SummaryStatistic struct {
	Statistic   string            `json:"statistic"`
	Description string            `json:"description"`
	Values      map[string]Metric `json:"values"`
}

// DescriptiveStatistics is the count/mean/std/min/quartiles/max overview of
// a numeric column.
type DescriptiveStatistics struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Metric `json:"mean"`
	StdDev Metric `json:"std"`
	Min    Metric `json:"min"`
	Q25    Metric `json:"25%"`
	Median Metric `json:"50%"`
	Q75    Metric `json:"75%"`
	Max    Metric `json:"max"`
}

// MissingValueReport counts null cells of one column.
type MissingValueReport struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// NegativeValueReport counts values below zero in one column.
type NegativeValueReport struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}
