package main

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// newDeleteRunTimeDriver measures the run time of a fixed micro-benchmark
// that allocates and frees the generated class graph with plain new/delete.
// It only needs one compilation during Prepare; no project generation, no
// subject library.
type newDeleteRunTimeDriver struct {
	description         Description
	benchmarkSourcesDir string
	scratchDir          string
	compiler            string
	cxxStd              string
	numClasses          int
	loopFactor          float64
}

func newNewDeleteRunTimeDriver(description Description, opts DriverOptions) (BenchmarkDriver, error) {
	compiler, err := description.StringDim("compiler")
	if err != nil {
		return nil, err
	}
	cxxStd, err := description.StringDim("cxx_std")
	if err != nil {
		return nil, err
	}
	numClasses, err := description.IntDim("num_classes")
	if err != nil {
		return nil, err
	}
	loopFactor, err := description.FloatDim("loop_factor")
	if err != nil {
		return nil, err
	}
	enriched, err := WithDerivedDimensions(description, "")
	if err != nil {
		return nil, err
	}
	return &newDeleteRunTimeDriver{
		description:         enriched,
		benchmarkSourcesDir: opts.FruitBenchmarkSourcesDir,
		scratchDir:          opts.ScratchDir,
		compiler:            compiler,
		cxxStd:              cxxStd,
		numClasses:          numClasses,
		loopFactor:          loopFactor,
	}, nil
}

func (d *newDeleteRunTimeDriver) Prepare() error {
	if err := ensureEmptyDir(d.scratchDir); err != nil {
		return err
	}
	args := append([]string{}, compileFlags...)
	args = append(args,
		fmt.Sprintf("-std=%v", d.cxxStd),
		fmt.Sprintf("-DMULTIPLIER=%v", d.numClasses),
		filepath.Join(d.benchmarkSourcesDir, "extras", "benchmark", "new_delete_benchmark.cpp"),
		"-o", filepath.Join(d.scratchDir, "main"),
	)
	_, _, err := RunCommand(d.compiler, args, "", nil)
	return err
}

func (d *newDeleteRunTimeDriver) Run() (map[string]float64, error) {
	loops := int(5000000 * d.loopFactor)
	stdout, _, err := RunCommand(filepath.Join(d.scratchDir, "main"), []string{strconv.Itoa(loops)}, "", nil)
	if err != nil {
		return nil, err
	}
	return parseMetricLines(stdout)
}

func (d *newDeleteRunTimeDriver) Describe() Description {
	return d.description
}
