package dataprocessing

import (
	"strings"

	apperrors "solareda/internal/errors"
	"solareda/pkg/contracts/domain"
)

// MissingValues counts null cells per column. Every column is reported,
// including those without nulls. Percent is 0 for an empty dataset.
func MissingValues(ds *domain.Dataset) []domain.MissingValueReport {
	header := ds.Header()
	out := make([]domain.MissingValueReport, 0, len(header))
	rows := ds.Len()
	for _, name := range header {
		n := ds.NullCount(name)
		pct := 0.0
		if rows > 0 {
			pct = float64(n) / float64(rows) * 100
		}
		out = append(out, domain.MissingValueReport{Column: name, Count: n, Percent: pct})
	}
	return out
}

// NegativeValues counts cells below zero per column after numeric
// coercion. Cells that do not parse as numbers are not counted.
func NegativeValues(ds *domain.Dataset) []domain.NegativeValueReport {
	header := ds.Header()
	out := make([]domain.NegativeValueReport, 0, len(header))
	for _, name := range header {
		coerced, _ := ds.Coerced(name)
		n := 0
		for _, v := range coerced {
			if v.Valid && v.Value < 0 {
				n++
			}
		}
		out = append(out, domain.NegativeValueReport{Column: name, Count: n})
	}
	return out
}

// RemoveNegativeRows derives a dataset keeping only rows whose value is
// non-negative in every named column. A row whose value in a named column
// is null or not a number is dropped. The input is never modified, and an
// empty column list yields an equal copy.
func RemoveNegativeRows(ds *domain.Dataset, columns []string) (*domain.Dataset, error) {
	if err := RequireColumns(ds, columns...); err != nil {
		return nil, err
	}

	coerced := make([][]domain.NullFloat, len(columns))
	for i, name := range columns {
		coerced[i], _ = ds.Coerced(name)
	}

	keep := make([]int, 0, ds.Len())
	for r := 0; r < ds.Len(); r++ {
		ok := true
		for _, col := range coerced {
			if !col[r].Valid || col[r].Value < 0 {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, r)
		}
	}
	return ds.SelectRows(cleanedName(ds.Name(), columns), keep), nil
}

func cleanedName(name string, columns []string) string {
	if len(columns) == 0 {
		return name
	}
	return name + " [non-negative " + strings.Join(columns, ",") + "]"
}

// ValidateCleanColumns rejects blank and repeated column names.
func ValidateCleanColumns(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			return apperrors.NewAppValidationError("column names must not be blank")
		}
		if seen[c] {
			return apperrors.NewAppValidationError("column " + c + " is listed twice")
		}
		seen[c] = true
	}
	return nil
}
