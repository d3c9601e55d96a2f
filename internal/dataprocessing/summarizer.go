package dataprocessing

import (
	apperrors "solareda/internal/errors"
	"solareda/pkg/contracts/domain"
)

// SummarizeColumns computes count, mean, median, standard deviation,
// skewness and kurtosis for every numeric column, in column order.
// Non-numeric columns are skipped.
func SummarizeColumns(ds *domain.Dataset) []domain.ColumnStatistics {
	columns := ds.NumericColumns()
	out := make([]domain.ColumnStatistics, 0, len(columns))
	for _, name := range columns {
		xs, _ := ds.Floats(name)
		out = append(out, columnStatistics(name, xs))
	}
	return out
}

// SummaryTable pivots SummarizeColumns into one entry per statistic, each
// carrying its description and a value for every numeric column. It always
// returns the six statistics in reporting order.
func SummaryTable(ds *domain.Dataset) []domain.SummaryStatistic {
	perColumn := SummarizeColumns(ds)

	table := make([]domain.SummaryStatistic, 0, len(domain.StatisticOrder))
	for _, stat := range domain.StatisticOrder {
		entry := domain.SummaryStatistic{
			Statistic:   stat,
			Description: domain.StatisticDescriptions[stat],
			Values:      make(map[string]domain.Metric, len(perColumn)),
		}
		for _, cs := range perColumn {
			entry.Values[cs.Column] = cs.Value(stat)
		}
		table = append(table, entry)
	}
	return table
}

// Describe returns count, mean, std, min, quartiles and max for every
// numeric column.
func Describe(ds *domain.Dataset) []domain.DescriptiveStatistics {
	columns := ds.NumericColumns()
	out := make([]domain.DescriptiveStatistics, 0, len(columns))
	for _, name := range columns {
		xs, _ := ds.Floats(name)
		out = append(out, describeColumn(name, xs))
	}
	return out
}

// DescribeColumns is Describe restricted to the named columns, which must
// exist and be numeric.
func DescribeColumns(ds *domain.Dataset, columns ...string) ([]domain.DescriptiveStatistics, error) {
	if err := RequireNumeric(ds, columns...); err != nil {
		return nil, err
	}
	out := make([]domain.DescriptiveStatistics, 0, len(columns))
	for _, name := range columns {
		xs, _ := ds.Floats(name)
		out = append(out, describeColumn(name, xs))
	}
	return out, nil
}

// Info returns the dataset's shape and per-column schema.
func Info(ds *domain.Dataset) domain.DatasetInfo {
	return domain.DatasetInfo{
		Name:    ds.Name(),
		Rows:    ds.Len(),
		Columns: ds.Width(),
		Schema:  ds.Schema(),
	}
}

// RequireColumns returns a schema error listing every absent column.
func RequireColumns(ds *domain.Dataset, columns ...string) error {
	var missing []string
	for _, c := range columns {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewSchemaError(missing...)
	}
	return nil
}

// RequireNumeric checks that every column exists and is numeric. Absent
// columns are reported before non-numeric ones.
func RequireNumeric(ds *domain.Dataset, columns ...string) error {
	if err := RequireColumns(ds, columns...); err != nil {
		return err
	}
	var wrong []string
	for _, c := range columns {
		if t, _ := ds.ColumnType(c); t != domain.ColumnNumeric {
			wrong = append(wrong, c)
		}
	}
	if len(wrong) > 0 {
		return apperrors.NewTypeError(wrong...)
	}
	return nil
}
