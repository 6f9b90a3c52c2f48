package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ConfigError marks input that is missing or inconsistent. It is fatal and
// reported before any measurement starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

func configError(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

type GlobalConfig struct {
	MaxRuns int `yaml:"max_runs"`
}

// Config is the benchmark definition document: a global section plus the
// ordered list of templates declaring the benchmark space.
//
// Each template must declare a name (the benchmark kind) and a compiler; any
// other dimension is free-form. A dimension whose value is a list declares
// candidates for expansion, so a dimension whose single value is itself a
// list has to be wrapped once more (additional_cmake_args: [[]] declares one
// candidate: the empty flag list).
type Config struct {
	Global     GlobalConfig `yaml:"global"`
	Benchmarks []Template   `yaml:"benchmarks"`
}

// LoadConfig reads and validates a benchmark definition file. An empty
// candidate list is rejected here rather than silently expanding to zero
// benchmarks: a declared dimension with nothing to measure is a typo, not a
// request.
func LoadConfig(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open benchmark definition %v: %w", path, err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("failed to decode benchmark definition %v: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Global.MaxRuns <= 0 {
		return configError("global.max_runs must be a positive number of runs")
	}
	if c.Global.MaxRuns < defaultMinRuns {
		return configError("global.max_runs must be at least %v", defaultMinRuns)
	}
	if len(c.Benchmarks) == 0 {
		return configError("the benchmarks section declares no benchmark templates")
	}
	for i, template := range c.Benchmarks {
		if _, ok := template["name"]; !ok {
			return configError("benchmark template #%v declares no name", i)
		}
		if _, ok := template["compiler"]; !ok {
			return configError("benchmark template #%v declares no compiler", i)
		}
		for dim, value := range template {
			list, ok := value.([]any)
			if ok && len(list) == 0 {
				return configError("dimension %v of benchmark template #%v has an empty candidate list", dim, i)
			}
		}
	}
	return nil
}
