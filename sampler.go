package main

import (
	"fmt"
	"math"
	"slices"

	"golang.org/x/exp/maps"
)

const (
	defaultMinRuns    = 3
	significantDigits = 2
)

// Bounds rounded to two significant digits may still differ by a few ulps.
var convergenceTolerance = 10 * (math.Nextafter(1, 2) - 1)

// Interval is a rounded two-sided confidence bound on a metric's mean,
// serialized as [low, high].
type Interval [2]float64

// Sampler repeats a driver's measurement until every metric is known
// precisely enough. It runs at least MinRuns times, then keeps running while
// some metric's confidence interval, rounded to two significant digits,
// still has distinguishable bounds - but never more than MaxRuns times.
type Sampler struct {
	MinRuns int
	MaxRuns int
}

// Sample prepares the driver once and measures it repeatedly. The decision
// to keep sampling depends only on the values returned by Run, never on wall
// clock time, so a scripted driver reproduces the exact same number of
// calls. Failing to converge within MaxRuns is not an error: the metric gets
// a warning and the widest available interval is still reported.
func (s *Sampler) Sample(driver BenchmarkDriver) (map[string]Interval, error) {
	series := make(map[string][]float64)
	runs := 0
	runOnce := func() error {
		result, err := driver.Run()
		if err != nil {
			return err
		}
		runs++
		for metric, value := range result {
			series[metric] = append(series[metric], value)
		}
		Logger.Infof("measured %v", result)
		return nil
	}

	Logger.Infof("preparing benchmark")
	if err := driver.Prepare(); err != nil {
		return nil, err
	}
	for i := 0; i < s.MinRuns; i++ {
		if err := runOnce(); err != nil {
			return nil, err
		}
	}

	for {
		again := false
		metrics := maps.Keys(series)
		slices.Sort(metrics)
		for _, metric := range metrics {
			samples := series[metric]
			if allEqual(samples) {
				// Bit-identical samples are as precise as it gets; the
				// interval math would degenerate on zero variance.
				continue
			}
			low, high := MeanConfidenceInterval(samples, defaultConfidence)
			roundedLow := RoundToSignificantDigits(low, significantDigits)
			roundedHigh := RoundToSignificantDigits(high, significantDigits)
			if math.Abs(roundedHigh-roundedLow) <= convergenceTolerance {
				continue
			}
			// The bound is on driver invocations, not on this metric's series
			// length; the two differ when Run reports varying metric sets.
			if runs < s.MaxRuns {
				Logger.Infof("running again to get more precision on the metric %v, current confidence interval: [%.3g, %.3g]", metric, low, high)
				again = true
				break
			}
			Logger.Warnf("couldn't determine a precise result for the metric %v, confidence interval: [%.3g, %.3g]", metric, low, high)
		}
		if !again {
			break
		}
		if err := runOnce(); err != nil {
			return nil, err
		}
	}

	intervals := make(map[string]Interval, len(series))
	for metric, samples := range series {
		low, high := MeanConfidenceInterval(samples, defaultConfidence)
		intervals[metric] = Interval{
			RoundToSignificantDigits(low, significantDigits),
			RoundToSignificantDigits(high, significantDigits),
		}
	}
	if len(intervals) == 0 {
		return nil, fmt.Errorf("benchmark produced no metrics")
	}
	return intervals, nil
}

func allEqual(samples []float64) bool {
	for _, sample := range samples {
		if sample != samples[0] {
			return false
		}
	}
	return true
}
