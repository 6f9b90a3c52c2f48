package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type measurement int

const (
	measureCompileTime measurement = iota
	measureRunTime
	measureExecutableSize
)

const (
	libraryFruit   = "fruit"
	libraryBoostDI = "boost_di"
)

// generatedSourcesDriver benchmarks a generated multi-file project wired
// through a subject dependency injection library. The three measurement
// modes share the generation and build logic: compile time regenerates and
// rebuilds, run time additionally needs the binary built during Prepare,
// executable size also strips it. Only the measurement taken in Run
// differs.
type generatedSourcesDriver struct {
	description Description
	library     string
	mode        measurement
	opts        DriverOptions
	projectDir  string
	compiler    string
	cxxStd      string
	numClasses  int
	loopFactor  float64
}

func newGeneratedSourcesDriver(library string, mode measurement) driverConstructor {
	return func(description Description, opts DriverOptions) (BenchmarkDriver, error) {
		codeUnderTestDir := opts.FruitSourcesDir
		if library == libraryBoostDI {
			codeUnderTestDir = opts.BoostDISourcesDir
		}
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
		// One component without dependencies per ten classes; below ten there
		// is no root to hang the graph on.
		if numClasses < 10 {
			return nil, configError("num_classes must be at least 10, got %v", numClasses)
		}
		enriched, err := WithDerivedDimensions(description, codeUnderTestDir)
		if err != nil {
			return nil, err
		}
		driver := &generatedSourcesDriver{
			description: enriched,
			library:     library,
			mode:        mode,
			opts:        opts,
			projectDir:  opts.ScratchDir,
			compiler:    compiler,
			cxxStd:      cxxStd,
			numClasses:  numClasses,
		}
		if mode == measureRunTime {
			driver.loopFactor, err = description.FloatDim("loop_factor")
			if err != nil {
				return nil, err
			}
		}
		return driver, nil
	}
}

func (d *generatedSourcesDriver) Prepare() error {
	if err := ensureEmptyDir(d.projectDir); err != nil {
		return err
	}
	componentsWithNoDeps := d.numClasses / 10
	err := GenerateProject(ProjectParams{
		OutputDir:            d.projectDir,
		Library:              d.library,
		Compiler:             d.compiler,
		CxxStd:               d.cxxStd,
		FruitSourcesDir:      d.opts.FruitSourcesDir,
		FruitBuildDir:        d.opts.FruitBuildDir,
		BoostDISourcesDir:    d.opts.BoostDISourcesDir,
		ComponentsWithNoDeps: componentsWithNoDeps,
		ComponentsWithDeps:   d.numClasses - componentsWithNoDeps,
		DepsPerComponent:     10,
	})
	if err != nil {
		return err
	}
	if d.mode == measureCompileTime {
		return nil
	}
	if _, _, err := RunCommand("make", makeArgs(), d.projectDir, nil); err != nil {
		return err
	}
	if d.mode == measureRunTime {
		return nil
	}
	_, _, err = RunCommand("strip", []string{filepath.Join(d.projectDir, "main")}, "", nil)
	return err
}

func (d *generatedSourcesDriver) Run() (map[string]float64, error) {
	switch d.mode {
	case measureCompileTime:
		if _, _, err := RunCommand("make", append(makeArgs(), "clean"), d.projectDir, nil); err != nil {
			return nil, err
		}
		start := time.Now()
		if _, _, err := RunCommand("make", makeArgs(), d.projectDir, nil); err != nil {
			return nil, err
		}
		return map[string]float64{"compile_time": time.Since(start).Seconds()}, nil
	case measureRunTime:
		// 10M loops with 100 classes, 1M with 1000.
		loops := int(1000 * 1000 * 1000 * d.loopFactor / float64(d.numClasses))
		stdout, _, err := RunCommand(filepath.Join(d.projectDir, "main"), []string{strconv.Itoa(loops)}, "", nil)
		if err != nil {
			return nil, err
		}
		return parseMetricLines(stdout)
	case measureExecutableSize:
		info, err := os.Stat(filepath.Join(d.projectDir, "main"))
		if err != nil {
			return nil, err
		}
		return map[string]float64{"num_bytes": float64(info.Size())}, nil
	}
	return nil, fmt.Errorf("unknown measurement mode: %v", d.mode)
}

func (d *generatedSourcesDriver) Describe() Description {
	return d.description
}
