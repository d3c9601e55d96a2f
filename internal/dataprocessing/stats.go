package dataprocessing

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"solareda/pkg/contracts/domain"
)

var nan = math.NaN()

// sortedSample copies xs into a sorted sample.
func sortedSample(xs []float64) *stats.Sample {
	s := &stats.Sample{Xs: append([]float64(nil), xs...)}
	return s.Sort()
}

func mean(s *stats.Sample) float64 {
	if len(s.Xs) == 0 {
		return nan
	}
	return s.Mean()
}

// stdDev is the sample (n-1) standard deviation; undefined below two values.
func stdDev(s *stats.Sample) float64 {
	if len(s.Xs) < 2 {
		return nan
	}
	return s.StdDev()
}

// quantile interpolates linearly between the closest ranks (R7, the
// estimator of DataFrame.describe). s must be sorted; q is in [0, 1].
func quantile(s *stats.Sample, q float64) float64 {
	n := len(s.Xs)
	if n == 0 {
		return nan
	}
	if q <= 0 || n == 1 {
		return s.Xs[0]
	}
	if q >= 1 {
		return s.Xs[n-1]
	}

	k, frac := math.Modf(q * float64(n-1))
	a := s.Xs[int(k)]
	if frac == 0 {
		return a
	}
	b := s.Xs[int(k)+1]
	if a == b {
		return a
	}
	// Weighted form stays finite for values near ±MaxFloat64.
	return (1-frac)*a + frac*b
}

func bounds(s *stats.Sample) (float64, float64) {
	if len(s.Xs) == 0 {
		return nan, nan
	}
	return s.Bounds()
}

// centralSums returns the sums of squared, cubed and fourth-power deviations
// from m.
func centralSums(xs []float64, m float64) (m2, m3, m4 float64) {
	for _, x := range xs {
		d := x - m
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	return m2, m3, m4
}

// skewness is the adjusted Fisher-Pearson coefficient G1. It is undefined
// below three values and zero for a constant column.
func skewness(xs []float64, m float64) float64 {
	n := float64(len(xs))
	if n < 3 {
		return nan
	}
	m2, m3, _ := centralSums(xs, m)
	if m2 == 0 {
		return 0
	}
	return n * math.Sqrt(n-1) / (n - 2) * m3 / math.Pow(m2, 1.5)
}

// kurtosis is the bias-corrected excess kurtosis G2. It is undefined below
// four values and zero for a constant column.
func kurtosis(xs []float64, m float64) float64 {
	n := float64(len(xs))
	if n < 4 {
		return nan
	}
	m2, _, m4 := centralSums(xs, m)
	if m2 == 0 {
		return 0
	}
	num := n * (n + 1) * (n - 1) * m4
	den := (n - 2) * (n - 3) * m2 * m2
	adj := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return num/den - adj
}

func columnStatistics(name string, xs []float64) domain.ColumnStatistics {
	s := sortedSample(xs)
	m := mean(s)
	return domain.ColumnStatistics{
		Column:   name,
		Count:    len(xs),
		Mean:     domain.Metric(m),
		Median:   domain.Metric(quantile(s, 0.5)),
		StdDev:   domain.Metric(stdDev(s)),
		Skewness: domain.Metric(skewness(xs, m)),
		Kurtosis: domain.Metric(kurtosis(xs, m)),
	}
}

func describeColumn(name string, xs []float64) domain.DescriptiveStatistics {
	s := sortedSample(xs)
	lo, hi := bounds(s)
	return domain.DescriptiveStatistics{
		Column: name,
		Count:  len(xs),
		Mean:   domain.Metric(mean(s)),
		StdDev: domain.Metric(stdDev(s)),
		Min:    domain.Metric(lo),
		Q25:    domain.Metric(quantile(s, 0.25)),
		Median: domain.Metric(quantile(s, 0.5)),
		Q75:    domain.Metric(quantile(s, 0.75)),
		Max:    domain.Metric(hi),
	}
}

// pearson computes the correlation of the pairs where both values are
// present. It is NaN with fewer than two pairs or a constant side.
func pearson(x, y []domain.NullFloat) float64 {
	var xs, ys []float64
	for i := range x {
		if x[i].Valid && y[i].Valid {
			xs = append(xs, x[i].Value)
			ys = append(ys, y[i].Value)
		}
	}
	if len(xs) < 2 {
		return nan
	}
	mx := stats.Mean(xs)
	my := stats.Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return nan
	}
	return sxy / math.Sqrt(sxx*syy)
}
