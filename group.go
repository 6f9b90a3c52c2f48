package main

import (
	"encoding/json"
	"fmt"
)

// Group collects the descriptions that share one expensive setup: the same
// compiler and the same immutable cmake flags for the support library build.
// Resolving the compiler identity and building the support library happen
// once per group, never once per description.
type Group struct {
	Compiler  string
	CmakeArgs []string
	Members   []Description
}

func groupKey(compiler string, cmakeArgs []string) string {
	key, err := json.Marshal([]any{compiler, cmakeArgs})
	if err != nil {
		panic(fmt.Errorf("group key is not serializable: %w", err))
	}
	return string(key)
}

// GroupDescriptions partitions the expanded descriptions by their
// (compiler, additional_cmake_args) key. Every description lands in exactly
// one group and the union of all groups is the input; groups come out in
// first-seen order so progress output follows the declaration order.
func GroupDescriptions(descriptions []Description) ([]Group, error) {
	groups := make([]Group, 0)
	indexByKey := make(map[string]int)
	for _, description := range descriptions {
		compiler, err := description.StringDim("compiler")
		if err != nil {
			return nil, err
		}
		cmakeArgs, err := description.StringsDim("additional_cmake_args")
		if err != nil {
			return nil, err
		}
		if cmakeArgs == nil {
			// A missing dimension and an explicit empty list declare the same
			// build config; nil and [] must not key different groups.
			cmakeArgs = []string{}
		}
		key := groupKey(compiler, cmakeArgs)
		index, ok := indexByKey[key]
		if !ok {
			index = len(groups)
			indexByKey[key] = index
			groups = append(groups, Group{Compiler: compiler, CmakeArgs: cmakeArgs})
		}
		groups[index].Members = append(groups[index].Members, description)
	}
	return groups, nil
}
