package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundToSignificantDigits(t *testing.T) {
	require.Equal(t, 0.0, RoundToSignificantDigits(0, 2))
	require.Equal(t, 120.0, RoundToSignificantDigits(123.45, 2))
	require.Equal(t, 0.012, RoundToSignificantDigits(0.012345, 2))
	require.Equal(t, -120.0, RoundToSignificantDigits(-123.45, 2))
	require.Equal(t, 5.0, RoundToSignificantDigits(5, 2))
	require.Equal(t, 123.0, RoundToSignificantDigits(123.45, 3))
}

func TestMeanConfidenceIntervalKnownData(t *testing.T) {
	// t(0.975, df=2) = 4.3027, stddev 1, so the margin is 4.3027/sqrt(3).
	low, high := MeanConfidenceInterval([]float64{1, 2, 3}, 0.95)
	require.InDelta(t, -0.4841, low, 1e-3)
	require.InDelta(t, 4.4841, high, 1e-3)
}

func TestMeanConfidenceIntervalZeroVariance(t *testing.T) {
	low, high := MeanConfidenceInterval([]float64{5, 5, 5}, 0.95)
	require.Equal(t, 5.0, low)
	require.Equal(t, 5.0, high)
}

func TestMeanConfidenceIntervalNarrowsWithMoreSamples(t *testing.T) {
	few := []float64{1.0, 1.4, 1.2}
	many := append([]float64{}, few...)
	for i := 0; i < 20; i++ {
		many = append(many, 1.2)
	}
	fewLow, fewHigh := MeanConfidenceInterval(few, 0.95)
	manyLow, manyHigh := MeanConfidenceInterval(many, 0.95)
	require.Less(t, manyHigh-manyLow, fewHigh-fewLow)
}
