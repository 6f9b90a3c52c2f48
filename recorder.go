package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type resultRecord struct {
	Benchmark Description         `json:"benchmark"`
	Results   map[string]Interval `json:"results"`
}

// Recorder appends one self-contained JSON record per completed benchmark to
// the output file and remembers which descriptions a previous run of the
// same file already covered.
type Recorder struct {
	path string
	file *os.File
	done map[string]bool
}

// OpenRecorder opens the append-only results file. With resume enabled every
// previously recorded description is loaded into the skip set; otherwise any
// previous content is discarded and the run starts from scratch.
func OpenRecorder(path string, resume bool) (*Recorder, error) {
	done := make(map[string]bool)
	if resume {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read previous results from %v: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			var record resultRecord
			if err := json.Unmarshal([]byte(line), &record); err != nil {
				return nil, fmt.Errorf("results file %v contains a corrupted record: %w", path, err)
			}
			done[record.Benchmark.Key()] = true
		}
	} else if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove previous results file %v: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file %v: %w", path, err)
	}
	return &Recorder{path: path, file: file, done: done}, nil
}

// AlreadyRecorded reports whether this description was completed in a
// previous run of the same lineage. Equality is structural: identical
// dimension to value mappings, nothing fuzzier.
func (r *Recorder) AlreadyRecorded(description Description) bool {
	return r.done[description.Key()]
}

// Record appends the results for one description. Each record is written in
// a single call so an interrupted run leaves at worst a trailing partial
// line which the next resume rejects loudly.
func (r *Recorder) Record(description Description, results map[string]Interval) error {
	data, err := json.Marshal(resultRecord{Benchmark: description, Results: results})
	if err != nil {
		return fmt.Errorf("failed to serialize results for %v: %w", description.Key(), err)
	}
	if _, err := r.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append results to %v: %w", r.path, err)
	}
	r.done[description.Key()] = true
	return nil
}

func (r *Recorder) Close() error {
	return r.file.Close()
}
