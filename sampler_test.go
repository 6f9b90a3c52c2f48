package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedDriver struct {
	description Description
	script      []map[string]float64
	runErr      error
	prepares    int
	runs        int
}

func (d *scriptedDriver) Prepare() error {
	d.prepares++
	return nil
}

func (d *scriptedDriver) Run() (map[string]float64, error) {
	if d.runErr != nil {
		return nil, d.runErr
	}
	if d.runs >= len(d.script) {
		return nil, fmt.Errorf("unexpected run #%v", d.runs)
	}
	result := d.script[d.runs]
	d.runs++
	return result, nil
}

func (d *scriptedDriver) Describe() Description {
	return d.description
}

func constantScript(value float64, count int) []map[string]float64 {
	script := make([]map[string]float64, 0, count)
	for i := 0; i < count; i++ {
		script = append(script, map[string]float64{"time": value})
	}
	return script
}

func TestSamplerStopsOnConstantSeries(t *testing.T) {
	driver := &scriptedDriver{script: constantScript(5.0, 10)}
	sampler := &Sampler{MinRuns: 3, MaxRuns: 10}
	results, err := sampler.Sample(driver)
	require.NoError(t, err)
	require.Equal(t, 1, driver.prepares)
	require.Equal(t, 3, driver.runs)
	require.Equal(t, map[string]Interval{"time": {5.0, 5.0}}, results)
}

func TestSamplerNeverExceedsMaxRuns(t *testing.T) {
	script := make([]map[string]float64, 0, 20)
	for i := 0; i < 20; i++ {
		script = append(script, map[string]float64{"time": float64(i * i)})
	}
	driver := &scriptedDriver{script: script}
	sampler := &Sampler{MinRuns: 3, MaxRuns: 7}
	results, err := sampler.Sample(driver)
	require.NoError(t, err)
	require.Equal(t, 7, driver.runs)
	require.Contains(t, results, "time")
}

func TestSamplerBoundsTotalRunsAcrossMetricSets(t *testing.T) {
	// A driver that reports different metric sets on different runs must
	// still be invoked at most MaxRuns times in total, even though every
	// individual series stays shorter than that.
	script := make([]map[string]float64, 0, 12)
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			script = append(script, map[string]float64{"a": float64(i * i)})
		} else {
			script = append(script, map[string]float64{"b": float64(1000 + i*i)})
		}
	}
	driver := &scriptedDriver{script: script}
	sampler := &Sampler{MinRuns: 3, MaxRuns: 4}
	results, err := sampler.Sample(driver)
	require.NoError(t, err)
	require.Equal(t, 4, driver.runs)
	require.Contains(t, results, "a")
	require.Contains(t, results, "b")
}

func TestSamplerStopsOnceRoundedBoundsAgree(t *testing.T) {
	// Samples 10, 10.0001, 10.0002 are not identical, but both interval
	// bounds round to 10 at two significant digits. Three runs suffice.
	driver := &scriptedDriver{script: []map[string]float64{
		{"time": 10},
		{"time": 10.0001},
		{"time": 10.0002},
		{"time": 10},
	}}
	sampler := &Sampler{MinRuns: 3, MaxRuns: 30}
	results, err := sampler.Sample(driver)
	require.NoError(t, err)
	require.Equal(t, 3, driver.runs)
	require.Equal(t, map[string]Interval{"time": {10.0, 10.0}}, results)
}

func TestSamplerRunCountIsExactlyReproducible(t *testing.T) {
	// Two noisy samples around a mean of 1.2, then a constant tail. The
	// interval narrows with each run and both bounds first round to 1.2 at
	// the 13th sample.
	script := []map[string]float64{{"time": 1.0}, {"time": 1.4}}
	for i := 0; i < 30; i++ {
		script = append(script, map[string]float64{"time": 1.2})
	}
	sampler := &Sampler{MinRuns: 3, MaxRuns: 30}

	first := &scriptedDriver{script: script}
	firstResults, err := sampler.Sample(first)
	require.NoError(t, err)
	require.Equal(t, 13, first.runs)

	second := &scriptedDriver{script: script}
	secondResults, err := sampler.Sample(second)
	require.NoError(t, err)
	require.Equal(t, first.runs, second.runs)
	require.Equal(t, firstResults, secondResults)
	require.Equal(t, map[string]Interval{"time": {1.2, 1.2}}, firstResults)
}

func TestSamplerTracksMetricsIndependently(t *testing.T) {
	script := make([]map[string]float64, 0, 10)
	for i := 0; i < 10; i++ {
		script = append(script, map[string]float64{
			"num_bytes": 40960,
			"time":      float64(i),
		})
	}
	driver := &scriptedDriver{script: script}
	sampler := &Sampler{MinRuns: 3, MaxRuns: 5}
	results, err := sampler.Sample(driver)
	require.NoError(t, err)
	require.Equal(t, 5, driver.runs)
	require.Equal(t, Interval{41000, 41000}, results["num_bytes"])
	require.Contains(t, results, "time")
}

func TestSamplerPropagatesRunFailure(t *testing.T) {
	failure := &CommandError{Command: []string{"make"}, ExitCode: 2}
	driver := &scriptedDriver{runErr: failure}
	sampler := &Sampler{MinRuns: 3, MaxRuns: 10}
	_, err := sampler.Sample(driver)
	require.ErrorIs(t, err, failure)
	require.Equal(t, 1, driver.prepares)
}
