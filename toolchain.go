package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Resolving a compiler executable to its pretty name costs a cmake run, and
// the same executable is resolved for every description in a group. The
// resolution is a pure function of the executable, so the cache never needs
// invalidation.
var compilerNames = map[string]string{}

var compilerProbePattern = regexp.MustCompile(`@@@(.*)@@@`)

// ResolveCompilerName resolves a compiler executable to a stable
// human-readable "<family> <version>" string by configuring a one-line CMake
// project with CXX pointed at it.
func ResolveCompilerName(compiler string) (string, error) {
	if name, ok := compilerNames[compiler]; ok {
		return name, nil
	}
	probeDir := filepath.Join(os.TempDir(), "dibench-compiler-probe-dir")
	if err := ensureEmptyDir(probeDir); err != nil {
		return "", err
	}
	probe := `message("@@@${CMAKE_CXX_COMPILER_ID} ${CMAKE_CXX_COMPILER_VERSION}@@@")` + "\n"
	if err := os.WriteFile(filepath.Join(probeDir, "CMakeLists.txt"), []byte(probe), 0o644); err != nil {
		return "", err
	}
	_, stderr, err := RunCommand("cmake", []string{"."}, probeDir, map[string]string{"CXX": compiler})
	if err != nil {
		return "", fmt.Errorf("failed to probe compiler %v: %w", compiler, err)
	}
	matches := compilerProbePattern.FindStringSubmatch(stderr)
	if matches == nil {
		return "", fmt.Errorf("unable to determine the name of compiler %v, cmake output was:\n%v", compiler, stderr)
	}
	// CMake reports GCC as GNU.
	name := strings.Replace(matches[1], "GNU ", "GCC ", 1)
	compilerNames[compiler] = name
	return name, nil
}
