package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// singleFileCompileTimeDriver measures how long the compiler takes to
// compile one translation unit that instantiates num_bindings bindings
// against the library headers. The measured operation is the compilation
// itself, so Run does the compiling and Prepare only has to leave a clean
// scratch directory behind.
type singleFileCompileTimeDriver struct {
	description         Description
	sourcesDir          string
	buildDir            string
	benchmarkSourcesDir string
	scratchDir          string
	compiler            string
	cxxStd              string
	numBindings         int
}

func newSingleFileCompileTimeDriver(description Description, opts DriverOptions) (BenchmarkDriver, error) {
	compiler, err := description.StringDim("compiler")
	if err != nil {
		return nil, err
	}
	cxxStd, err := description.StringDim("cxx_std")
	if err != nil {
		return nil, err
	}
	numBindings, err := description.IntDim("num_bindings")
	if err != nil {
		return nil, err
	}
	// The benchmark source expands five bindings per MULTIPLIER step.
	if numBindings%5 != 0 {
		return nil, configError("num_bindings must be a multiple of 5, got %v", numBindings)
	}
	enriched, err := WithDerivedDimensions(description, opts.FruitSourcesDir)
	if err != nil {
		return nil, err
	}
	return &singleFileCompileTimeDriver{
		description:         enriched,
		sourcesDir:          opts.FruitSourcesDir,
		buildDir:            opts.FruitBuildDir,
		benchmarkSourcesDir: opts.FruitBenchmarkSourcesDir,
		scratchDir:          opts.ScratchDir,
		compiler:            compiler,
		cxxStd:              cxxStd,
		numBindings:         numBindings,
	}, nil
}

func (d *singleFileCompileTimeDriver) Prepare() error {
	return ensureEmptyDir(d.scratchDir)
}

func (d *singleFileCompileTimeDriver) Run() (map[string]float64, error) {
	args := append([]string{}, compileFlags...)
	args = append(args,
		fmt.Sprintf("-std=%v", d.cxxStd),
		fmt.Sprintf("-DMULTIPLIER=%v", d.numBindings/5),
		"-I", filepath.Join(d.sourcesDir, "include"),
		"-I", filepath.Join(d.buildDir, "include"),
		"-ftemplate-depth=1000",
		"-c", filepath.Join(d.benchmarkSourcesDir, "extras", "benchmark", "compile_time_benchmark.cpp"),
		"-o", os.DevNull,
	)
	start := time.Now()
	if _, _, err := RunCommand(d.compiler, args, "", nil); err != nil {
		return nil, err
	}
	return map[string]float64{"compile_time": time.Since(start).Seconds()}, nil
}

func (d *singleFileCompileTimeDriver) Describe() Description {
	return d.description
}
