package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectParams are the structural parameters of a generated benchmark
// project: how many components to materialize, how they depend on each
// other, and which subject library wires them together.
type ProjectParams struct {
	OutputDir            string
	Library              string
	Compiler             string
	CxxStd               string
	FruitSourcesDir      string
	FruitBuildDir        string
	BoostDISourcesDir    string
	ComponentsWithNoDeps int
	ComponentsWithDeps   int
	DepsPerComponent     int
}

// GenerateProject materializes a buildable C++ project in OutputDir: one
// header and one translation unit per component, a main that repeatedly
// instantiates the whole graph, and a Makefile. The output is a pure
// function of the parameters, so regenerating for the same description
// produces byte-identical sources.
func GenerateProject(params ProjectParams) error {
	if params.ComponentsWithNoDeps < 1 {
		return fmt.Errorf("a generated project needs at least one component without dependencies")
	}
	if params.DepsPerComponent < 1 {
		return fmt.Errorf("components with dependencies need at least one dependency each")
	}
	total := params.ComponentsWithNoDeps + params.ComponentsWithDeps
	for i := 0; i < total; i++ {
		deps := componentDeps(i, params)
		header, source := generateComponent(i, deps, params)
		if err := writeSource(params.OutputDir, fmt.Sprintf("component%v.h", i), header); err != nil {
			return err
		}
		if err := writeSource(params.OutputDir, fmt.Sprintf("component%v.cpp", i), source); err != nil {
			return err
		}
	}
	if err := writeSource(params.OutputDir, "main.cpp", generateMain(total-1, params)); err != nil {
		return err
	}
	return writeSource(params.OutputDir, "Makefile", generateMakefile(total, params))
}

// componentDeps returns the indices a component depends on: the
// DepsPerComponent closest earlier components, fewer for the first ones.
// The first ComponentsWithNoDeps components depend on nothing.
func componentDeps(index int, params ProjectParams) []int {
	if index < params.ComponentsWithNoDeps {
		return nil
	}
	first := index - params.DepsPerComponent
	if first < 0 {
		first = 0
	}
	deps := make([]int, 0, index-first)
	for j := first; j < index; j++ {
		deps = append(deps, j)
	}
	return deps
}

func generateComponent(index int, deps []int, params ProjectParams) (string, string) {
	var header, source bytes.Buffer
	fmt.Fprintf(&header, "#ifndef COMPONENT%v_H\n#define COMPONENT%v_H\n\n", index, index)
	for _, dep := range deps {
		fmt.Fprintf(&header, "#include \"component%v.h\"\n", dep)
	}
	fmt.Fprintf(&source, "#include \"component%v.h\"\n\n", index)

	switch params.Library {
	case libraryFruit:
		fmt.Fprintf(&header, "#include <fruit/fruit.h>\n\n")
		fmt.Fprintf(&header, "struct Interface%v {\n  virtual ~Interface%v() = default;\n};\n\n", index, index)
		fmt.Fprintf(&header, "fruit::Component<Interface%v> getComponent%v();\n", index, index)

		fmt.Fprintf(&source, "struct X%v : public Interface%v {\n", index, index)
		fmt.Fprintf(&source, "  INJECT(X%v(%v)) {}\n", index, joinMapped(deps, func(dep int) string {
			return fmt.Sprintf("Interface%v&", dep)
		}))
		fmt.Fprintf(&source, "};\n\n")
		fmt.Fprintf(&source, "fruit::Component<Interface%v> getComponent%v() {\n", index, index)
		fmt.Fprintf(&source, "  return fruit::createComponent()\n      .bind<Interface%v, X%v>()", index, index)
		for _, dep := range deps {
			fmt.Fprintf(&source, "\n      .install(getComponent%v)", dep)
		}
		fmt.Fprintf(&source, ";\n}\n")

	case libraryBoostDI:
		fmt.Fprintf(&header, "\nstruct X%v {\n  X%v(%v);\n};\n", index, index, joinMapped(deps, func(dep int) string {
			return fmt.Sprintf("X%v&", dep)
		}))
		fmt.Fprintf(&source, "X%v::X%v(%v) {}\n", index, index, joinMapped(deps, func(dep int) string {
			return fmt.Sprintf("X%v&", dep)
		}))
	}

	fmt.Fprintf(&header, "\n#endif\n")
	return header.String(), source.String()
}

func generateMain(rootIndex int, params ProjectParams) string {
	var main bytes.Buffer
	fmt.Fprintf(&main, "#include \"component%v.h\"\n", rootIndex)
	fmt.Fprintf(&main, "#include <chrono>\n#include <cstdio>\n#include <cstdlib>\n")
	if params.Library == libraryBoostDI {
		fmt.Fprintf(&main, "#include <boost/di.hpp>\n")
	}
	fmt.Fprintf(&main, "\nint main(int argc, char* argv[]) {\n")
	fmt.Fprintf(&main, "  if (argc != 2) {\n    return 1;\n  }\n")
	fmt.Fprintf(&main, "  long loops = std::atol(argv[1]);\n")
	fmt.Fprintf(&main, "  auto start = std::chrono::high_resolution_clock::now();\n")
	fmt.Fprintf(&main, "  for (long i = 0; i < loops; i++) {\n")
	switch params.Library {
	case libraryFruit:
		fmt.Fprintf(&main, "    fruit::Injector<Interface%v> injector(getComponent%v);\n", rootIndex, rootIndex)
		fmt.Fprintf(&main, "    (void)injector.get<Interface%v*>();\n", rootIndex)
	case libraryBoostDI:
		fmt.Fprintf(&main, "    auto injector = boost::di::make_injector();\n")
		fmt.Fprintf(&main, "    (void)injector.create<X%v>();\n", rootIndex)
	}
	fmt.Fprintf(&main, "  }\n")
	fmt.Fprintf(&main, "  double total = std::chrono::duration<double>(std::chrono::high_resolution_clock::now() - start).count();\n")
	fmt.Fprintf(&main, "  printf(\"Total time      = %%f\\n\", total);\n")
	fmt.Fprintf(&main, "  printf(\"Time per loop   = %%e\\n\", total / loops);\n")
	fmt.Fprintf(&main, "  return 0;\n}\n")
	return main.String()
}

func generateMakefile(total int, params ProjectParams) string {
	var makefile bytes.Buffer
	flags := append([]string{}, compileFlags...)
	flags = append(flags, fmt.Sprintf("-std=%v", params.CxxStd))
	linkFlags := []string{}
	switch params.Library {
	case libraryFruit:
		flags = append(flags,
			"-I"+filepath.Join(params.FruitSourcesDir, "include"),
			"-I"+filepath.Join(params.FruitBuildDir, "include"),
		)
		fruitLibDir := filepath.Join(params.FruitBuildDir, "src")
		linkFlags = append(linkFlags, "-L"+fruitLibDir, "-lfruit", "-Wl,-rpath,"+fruitLibDir)
	case libraryBoostDI:
		flags = append(flags,
			"-I"+filepath.Join(params.BoostDISourcesDir, "include"),
			"-ftemplate-depth=1000",
		)
	}
	objects := make([]string, 0, total+1)
	for i := 0; i < total; i++ {
		objects = append(objects, fmt.Sprintf("component%v.o", i))
	}
	objects = append(objects, "main.o")

	fmt.Fprintf(&makefile, "CXX = %v\n", params.Compiler)
	fmt.Fprintf(&makefile, "CXXFLAGS = %v\n", strings.Join(flags, " "))
	fmt.Fprintf(&makefile, "LDFLAGS = %v\n", strings.Join(linkFlags, " "))
	fmt.Fprintf(&makefile, "OBJECTS = %v\n\n", strings.Join(objects, " "))
	fmt.Fprintf(&makefile, "main: $(OBJECTS)\n\t$(CXX) $(CXXFLAGS) -o main $(OBJECTS) $(LDFLAGS)\n\n")
	fmt.Fprintf(&makefile, "%%.o: %%.cpp\n\t$(CXX) $(CXXFLAGS) -c $< -o $@\n\n")
	fmt.Fprintf(&makefile, "clean:\n\trm -f main $(OBJECTS)\n\n")
	fmt.Fprintf(&makefile, ".PHONY: clean\n")
	return makefile.String()
}

func joinMapped(deps []int, format func(int) string) string {
	parts := make([]string, 0, len(deps))
	for _, dep := range deps {
		parts = append(parts, format(dep))
	}
	return strings.Join(parts, ", ")
}

func writeSource(dir string, name string, content string) error {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write generated file %v: %w", name, err)
	}
	return nil
}
