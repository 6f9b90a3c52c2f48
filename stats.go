package main

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const defaultConfidence = 0.95

// MeanConfidenceInterval returns the two-sided confidence interval for the
// true mean of the samples, using the Student-t distribution with
// len(samples)-1 degrees of freedom. A series with zero variance yields the
// degenerate interval [mean, mean].
func MeanConfidenceInterval(samples []float64, confidence float64) (float64, float64) {
	mean := stat.Mean(samples, nil)
	if len(samples) < 2 {
		return mean, mean
	}
	stddev := math.Sqrt(stat.Variance(samples, nil))
	if stddev == 0 {
		return mean, mean
	}
	student := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(samples) - 1)}
	margin := student.Quantile(1-(1-confidence)/2) * stddev / math.Sqrt(float64(len(samples)))
	return mean - margin, mean + margin
}

// RoundToSignificantDigits rounds x to the given number of significant
// digits, e.g. 123.45 with 2 digits becomes 120. Zero has no defined
// magnitude and is returned as is.
func RoundToSignificantDigits(x float64, digits int) float64 {
	if x == 0 {
		return 0
	}
	magnitude := int(math.Floor(math.Log10(math.Abs(x))))
	decimals := digits - magnitude - 1
	if decimals >= 0 {
		scale := math.Pow(10, float64(decimals))
		return math.Round(x*scale) / scale
	}
	scale := math.Pow(10, float64(-decimals))
	return math.Round(x/scale) * scale
}
