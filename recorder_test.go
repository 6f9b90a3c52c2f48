package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorderResumeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	recorder, err := OpenRecorder(path, false)
	require.NoError(t, err)
	first := Description{"name": "new_delete_run_time", "num_classes": 100}
	second := Description{"name": "new_delete_run_time", "num_classes": 250}
	require.NoError(t, recorder.Record(first, map[string]Interval{"time": {1.2, 1.3}}))
	require.NoError(t, recorder.Close())

	resumed, err := OpenRecorder(path, true)
	require.NoError(t, err)
	defer resumed.Close()
	require.True(t, resumed.AlreadyRecorded(first))
	require.False(t, resumed.AlreadyRecorded(second))
}

func TestRecorderResumeMatchesAcrossNumericTypes(t *testing.T) {
	// Descriptions loaded back from the file carry float64 values while fresh
	// ones decoded from config may carry int or uint64. The skip set must
	// treat them as the same benchmark.
	path := filepath.Join(t.TempDir(), "results.json")

	recorder, err := OpenRecorder(path, false)
	require.NoError(t, err)
	recorded := Description{"name": "fruit_compile_time", "num_classes": uint64(100), "compiler": "g++"}
	require.NoError(t, recorder.Record(recorded, map[string]Interval{"time": {3.1, 3.2}}))
	require.NoError(t, recorder.Close())

	resumed, err := OpenRecorder(path, true)
	require.NoError(t, err)
	defer resumed.Close()
	require.True(t, resumed.AlreadyRecorded(Description{"name": "fruit_compile_time", "num_classes": 100, "compiler": "g++"}))
	require.True(t, resumed.AlreadyRecorded(Description{"name": "fruit_compile_time", "num_classes": 100.0, "compiler": "g++"}))
}

func TestRecorderWithoutResumeDiscardsPreviousResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	recorder, err := OpenRecorder(path, false)
	require.NoError(t, err)
	description := Description{"name": "boost_di_run_time", "num_classes": 1000}
	require.NoError(t, recorder.Record(description, map[string]Interval{"time": {0.5, 0.6}}))
	require.NoError(t, recorder.Close())

	restarted, err := OpenRecorder(path, false)
	require.NoError(t, err)
	defer restarted.Close()
	require.False(t, restarted.AlreadyRecorded(description))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestRecorderRejectsCorruptedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"benchmark": {"name": "x"`+"\n"), 0o644))

	_, err := OpenRecorder(path, true)
	require.ErrorContains(t, err, "corrupted record")
}

func TestRecorderWritesOneRecordPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	recorder, err := OpenRecorder(path, false)
	require.NoError(t, err)
	require.NoError(t, recorder.Record(Description{"name": "a"}, map[string]Interval{"time": {1, 2}}))
	require.NoError(t, recorder.Record(Description{"name": "b"}, map[string]Interval{"num_bytes": {4096, 4096}}))
	require.NoError(t, recorder.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.JSONEq(t, `{"benchmark": {"name": "a"}, "results": {"time": [1, 2]}}`, lines[0])
	require.JSONEq(t, `{"benchmark": {"name": "b"}, "results": {"num_bytes": [4096, 4096]}}`, lines[1])
}

func TestRecordedBenchmarksAreNotMeasuredAgain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	sampler := &Sampler{MinRuns: 3, MaxRuns: 10}
	description := Description{"name": "new_delete_run_time", "num_classes": 100}

	recorder, err := OpenRecorder(path, false)
	require.NoError(t, err)
	driver := &scriptedDriver{description: description, script: constantScript(2.0, 10)}
	results, err := sampler.Sample(driver)
	require.NoError(t, err)
	require.NoError(t, recorder.Record(driver.Describe(), results))
	require.NoError(t, recorder.Close())

	resumed, err := OpenRecorder(path, true)
	require.NoError(t, err)
	defer resumed.Close()
	skipped := &scriptedDriver{description: description}
	if !resumed.AlreadyRecorded(skipped.Describe()) {
		_, err := sampler.Sample(skipped)
		require.NoError(t, err)
	}
	require.Equal(t, 0, skipped.prepares)
	require.Equal(t, 0, skipped.runs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimRight(string(data), "\n"), "\n"), 1)
}
