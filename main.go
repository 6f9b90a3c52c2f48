package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type runOptions struct {
	definitionPath           string
	outputPath               string
	resume                   bool
	fruitSourcesDir          string
	fruitBenchmarkSourcesDir string
	boostDISourcesDir        string
}

func main() {
	_ = godotenv.Load()
	viper.SetEnvPrefix("DIBENCH")
	viper.AutomaticEnv()

	opts := runOptions{}
	cmd := &cobra.Command{
		Use:          "dibench",
		Short:        "Runs a set of C++ dependency injection benchmarks defined in a YAML file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.definitionPath, "benchmark-definition", viper.GetString("BENCHMARK_DEFINITION"), "The YAML file that defines the benchmarks")
	flags.StringVar(&opts.outputPath, "output-file", viper.GetString("OUTPUT_FILE"), "The output file where benchmark results will be stored, one JSON record per line")
	flags.BoolVar(&opts.resume, "continue-benchmark", viper.GetBool("CONTINUE_BENCHMARK"), "Continue a previous benchmark run, skipping benchmarks already present in the output file")
	flags.StringVar(&opts.fruitSourcesDir, "fruit-sources-dir", viper.GetString("FRUIT_SOURCES_DIR"), "Path to the fruit sources")
	flags.StringVar(&opts.fruitBenchmarkSourcesDir, "fruit-benchmark-sources-dir", viper.GetString("FRUIT_BENCHMARK_SOURCES_DIR"), "Path to the fruit sources used for benchmarking code only")
	flags.StringVar(&opts.boostDISourcesDir, "boost-di-sources-dir", viper.GetString("BOOST_DI_SOURCES_DIR"), "Path to the Boost.DI sources")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts runOptions) error {
	if opts.outputPath == "" {
		return configError("you must specify --output-file")
	}
	if opts.definitionPath == "" {
		return configError("you must specify --benchmark-definition")
	}

	Logger.Infof("host stat: %+v", HostStat())

	config, err := LoadConfig(opts.definitionPath)
	if err != nil {
		return err
	}

	descriptions := ExpandTemplates(config.Benchmarks)
	Logger.Infof("expanded %v templates into %v benchmarks", len(config.Benchmarks), len(descriptions))

	driverOpts := DriverOptions{
		FruitSourcesDir:          opts.fruitSourcesDir,
		FruitBenchmarkSourcesDir: opts.fruitBenchmarkSourcesDir,
		BoostDISourcesDir:        opts.boostDISourcesDir,
		FruitBuildDir:            filepath.Join(os.TempDir(), "dibench-build-dir"),
		ScratchDir:               filepath.Join(os.TempDir(), "dibench-scratch-dir"),
	}
	if err := ValidateDriverPrerequisites(descriptions, driverOpts); err != nil {
		return err
	}

	groups, err := GroupDescriptions(descriptions)
	if err != nil {
		return err
	}

	recorder, err := OpenRecorder(opts.outputPath, opts.resume)
	if err != nil {
		return err
	}
	defer recorder.Close()

	sampler := &Sampler{MinRuns: defaultMinRuns, MaxRuns: config.Global.MaxRuns}

	index := 0
	for _, group := range groups {
		Logger.Infof("preparing for benchmarks with the compiler %v, with additional cmake args %v", group.Compiler, group.CmakeArgs)
		// Resolve eagerly so that Describe hits the cache for every
		// description in the group.
		if _, err := ResolveCompilerName(group.Compiler); err != nil {
			return err
		}
		if err := buildSupportLibrary(opts.fruitSourcesDir, driverOpts.FruitBuildDir, group); err != nil {
			return err
		}
		for _, description := range group.Members {
			index++
			Logger.Infof("%v/%v: %v", index, len(descriptions), description.Key())
			driver, err := NewDriver(description, driverOpts)
			if err != nil {
				return err
			}
			if recorder.AlreadyRecorded(driver.Describe()) {
				Logger.Infof("skipping benchmark that was already run previously: %v", driver.Describe().Key())
				continue
			}
			results, err := sampler.Sample(driver)
			if err != nil {
				return err
			}
			if err := recorder.Record(driver.Describe(), results); err != nil {
				return err
			}
			Logger.Infof("benchmark finished, results: %v", results)
		}
	}
	return nil
}

// buildSupportLibrary builds the fruit support project once per group, so
// that the build dir points at a complete build (the generated config header
// included) for every description sharing this compiler and flags.
func buildSupportLibrary(sourcesDir string, buildDir string, group Group) error {
	if sourcesDir == "" {
		// Prerequisite validation already proved no configured kind touches
		// the support library.
		return nil
	}
	if err := ensureEmptyDir(buildDir); err != nil {
		return err
	}
	args := append([]string{sourcesDir, "-DCMAKE_BUILD_TYPE=Release"}, group.CmakeArgs...)
	if _, _, err := RunCommand("cmake", args, buildDir, map[string]string{"CXX": group.Compiler}); err != nil {
		return err
	}
	_, _, err := RunCommand("make", makeArgs(), buildDir, nil)
	return err
}
