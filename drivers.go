package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// BenchmarkDriver is one measurable unit.
type BenchmarkDriver interface {
	// Prepare performs the scoped one-time setup for this description. It
	// assumes nothing about previous scratch directory contents: the scratch
	// directory is destroyed and recreated before anything else happens.
	Prepare() error
	// Run executes the measured operation exactly once and returns only this
	// invocation's metrics. Safe to call repeatedly after one Prepare.
	Run() (map[string]float64, error)
	// Describe returns the description augmented with derived dimensions,
	// computed once at construction so repeated calls are cheap and
	// byte-identical.
	Describe() Description
}

// DriverOptions carries the external paths shared by every driver of a run.
type DriverOptions struct {
	FruitSourcesDir          string
	FruitBenchmarkSourcesDir string
	BoostDISourcesDir        string
	// FruitBuildDir holds the support library built once per group.
	FruitBuildDir string
	ScratchDir    string
}

type driverConstructor func(description Description, opts DriverOptions) (BenchmarkDriver, error)

type driverKind struct {
	construct driverConstructor
	// validate rejects a kind whose external prerequisites are not
	// configured, before any measurement starts.
	validate func(opts DriverOptions) error
}

func requireFruitSources(opts DriverOptions) error {
	if opts.FruitSourcesDir == "" {
		return configError("you need to specify the fruit sources dir in order to run this benchmark")
	}
	return nil
}

func requireFruitBenchmarkSources(opts DriverOptions) error {
	if opts.FruitBenchmarkSourcesDir == "" {
		return configError("you need to specify the fruit benchmark sources dir in order to run this benchmark")
	}
	return nil
}

func requireBoostDISources(opts DriverOptions) error {
	if err := requireFruitSources(opts); err != nil {
		return err
	}
	if opts.BoostDISourcesDir == "" {
		return configError("you need to specify the boost-di sources dir in order to run boost_di benchmarks")
	}
	return nil
}

// driverRegistry maps a declared benchmark kind to its constructor. The set
// of kinds is closed: anything not listed here fails immediately instead of
// being skipped.
var driverRegistry = map[string]driverKind{
	"new_delete_run_time": {
		construct: newNewDeleteRunTimeDriver,
		validate:  requireFruitBenchmarkSources,
	},
	"fruit_single_file_compile_time": {
		construct: newSingleFileCompileTimeDriver,
		validate: func(opts DriverOptions) error {
			if err := requireFruitSources(opts); err != nil {
				return err
			}
			return requireFruitBenchmarkSources(opts)
		},
	},
	"fruit_compile_time":       {construct: newGeneratedSourcesDriver(libraryFruit, measureCompileTime), validate: requireFruitSources},
	"fruit_run_time":           {construct: newGeneratedSourcesDriver(libraryFruit, measureRunTime), validate: requireFruitSources},
	"fruit_executable_size":    {construct: newGeneratedSourcesDriver(libraryFruit, measureExecutableSize), validate: requireFruitSources},
	"boost_di_compile_time":    {construct: newGeneratedSourcesDriver(libraryBoostDI, measureCompileTime), validate: requireBoostDISources},
	"boost_di_run_time":        {construct: newGeneratedSourcesDriver(libraryBoostDI, measureRunTime), validate: requireBoostDISources},
	"boost_di_executable_size": {construct: newGeneratedSourcesDriver(libraryBoostDI, measureExecutableSize), validate: requireBoostDISources},
}

// NewDriver dispatches a description's declared kind to the registered
// constructor.
func NewDriver(description Description, opts DriverOptions) (BenchmarkDriver, error) {
	name, err := description.StringDim("name")
	if err != nil {
		return nil, err
	}
	kind, ok := driverRegistry[name]
	if !ok {
		return nil, configError("unrecognized benchmark kind: %v", name)
	}
	if err := kind.validate(opts); err != nil {
		return nil, err
	}
	return kind.construct(description, opts)
}

// ValidateDriverPrerequisites fails the run before any measurement when some
// expanded description names an unknown kind or a kind whose source
// directories were not supplied.
func ValidateDriverPrerequisites(descriptions []Description, opts DriverOptions) error {
	for _, description := range descriptions {
		name, err := description.StringDim("name")
		if err != nil {
			return err
		}
		kind, ok := driverRegistry[name]
		if !ok {
			return configError("unrecognized benchmark kind: %v", name)
		}
		if err := kind.validate(opts); err != nil {
			return err
		}
	}
	return nil
}

// WithDerivedDimensions copies the description and augments it with the
// dimensions synthesized from the environment: the resolved compiler name
// and, when the code under test lives in a repository, its revision
// identity. The same compiler value can point at different installed
// versions over time, so the results record what actually ran.
func WithDerivedDimensions(description Description, codeUnderTestDir string) (Description, error) {
	enriched := make(Description, len(description)+3)
	for dim, value := range description {
		enriched[dim] = value
	}
	compiler, err := description.StringDim("compiler")
	if err != nil {
		return nil, err
	}
	compilerName, err := ResolveCompilerName(compiler)
	if err != nil {
		return nil, err
	}
	enriched["compiler_name"] = compilerName
	if codeUnderTestDir != "" {
		revision, err := InspectRevision(codeUnderTestDir)
		if err != nil {
			return nil, err
		}
		enriched["library_commit_hash"] = revision.CommitHash
		if revision.VersionTag != "" {
			enriched["library_version_name"] = revision.VersionTag
		}
	}
	return enriched, nil
}

var compileFlags = []string{"-O2", "-DNDEBUG"}

func makeArgs() []string {
	return []string{"-j", strconv.Itoa(runtime.NumCPU() + 1)}
}

// ensureEmptyDir recreates dir from scratch. Creating before removing makes
// a failed removal surface as an error instead of proceeding over leftover
// artifacts from a previous description.
func ensureEmptyDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// parseMetricLines parses benchmark binary output of the form
//
//	Total time       = 123.4
//	Setup time       = 23.45
//
// into a metric name to value mapping.
func parseMetricLines(output string) (map[string]float64, error) {
	results := make(map[string]float64)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		metric, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("unexpected metric line %q", line)
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected value in metric line %q: %w", line, err)
		}
		results[strings.TrimSpace(metric)] = parsed
	}
	return results, nil
}
