package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NullMarkers are the cell spellings treated as missing after trimming.
var NullMarkers = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL"}

// TimestampLayouts lists the accepted timestamp spellings, most common first.
var TimestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006",
}

// IsNull reports whether a raw cell represents a missing value.
func IsNull(raw string) bool {
	s := strings.TrimSpace(raw)
	for _, m := range NullMarkers {
		if s == m {
			return true
		}
	}
	return false
}

// ParseNumber coerces a raw cell to a float. Null and non-numeric cells
// return ok=false. "inf" and "-Infinity" parse as ±Inf; chart builders
// leave them out.
func ParseNumber(raw string) (float64, bool) {
	if IsNull(raw) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseTimestamp parses a raw cell against TimestampLayouts.
func ParseTimestamp(raw string) (time.Time, bool) {
	if IsNull(raw) {
		return time.Time{}, false
	}
	s := strings.TrimSpace(raw)
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NullFloat is a coerced numeric cell.
type NullFloat struct {
	Value float64
	Valid bool
}

// inferColumnType picks the narrowest type that fits every non-null cell.
// A column with no values at all is numeric.
func inferColumnType(cells []string) ColumnType {
	numeric, timestamp := true, true
	for _, c := range cells {
		if IsNull(c) {
			continue
		}
		if numeric {
			if _, ok := ParseNumber(c); !ok {
				numeric = false
			}
		}
		if timestamp {
			if _, ok := ParseTimestamp(c); !ok {
				timestamp = false
			}
		}
		if !numeric && !timestamp {
			return ColumnText
		}
	}
	if numeric {
		return ColumnNumeric
	}
	return ColumnTimestamp
}
