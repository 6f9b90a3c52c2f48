package main

import (
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// Template declares a sub-space of the benchmark configuration space: every
// dimension maps either to one candidate value or to a list of candidates.
type Template map[string]any

// Description is one fully resolved point of that space: every dimension
// maps to exactly one value. It identifies a single measurable unit and is
// recorded verbatim next to the results.
type Description map[string]any

// Key returns the canonical form of the description: its JSON encoding, with
// keys in lexicographic order. Two descriptions refer to the same measurable
// unit iff their keys are byte-equal; the encoding also survives a round
// trip through the results file (integers and floats of the same value
// encode identically).
func (d Description) Key() string {
	data, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Errorf("description is not serializable: %w", err))
	}
	return string(data)
}

// StringDim returns the value of a dimension that must hold a string.
func (d Description) StringDim(name string) (string, error) {
	value, ok := d[name]
	if !ok {
		return "", fmt.Errorf("benchmark %v has no %v dimension", d.Key(), name)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("dimension %v of benchmark %v is not a string: %v", name, d.Key(), value)
	}
	return str, nil
}

// IntDim returns the value of a dimension that must hold an integer. YAML
// and JSON decoding produce different numeric types for the same literal, so
// every lossless representation is accepted.
func (d Description) IntDim(name string) (int, error) {
	value, ok := d[name]
	if !ok {
		return 0, fmt.Errorf("benchmark %v has no %v dimension", d.Key(), name)
	}
	switch typed := value.(type) {
	case int:
		return typed, nil
	case int64:
		return int(typed), nil
	case uint64:
		return int(typed), nil
	case float64:
		if typed != float64(int(typed)) {
			return 0, fmt.Errorf("dimension %v of benchmark %v is not an integer: %v", name, d.Key(), typed)
		}
		return int(typed), nil
	}
	return 0, fmt.Errorf("dimension %v of benchmark %v is not an integer: %v", name, d.Key(), value)
}

// FloatDim returns the value of a dimension that must hold a number.
func (d Description) FloatDim(name string) (float64, error) {
	value, ok := d[name]
	if !ok {
		return 0, fmt.Errorf("benchmark %v has no %v dimension", d.Key(), name)
	}
	switch typed := value.(type) {
	case int:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case uint64:
		return float64(typed), nil
	case float64:
		return typed, nil
	}
	return 0, fmt.Errorf("dimension %v of benchmark %v is not a number: %v", name, d.Key(), value)
}

// StringsDim returns the value of a dimension holding a list of strings. A
// missing dimension counts as an empty list.
func (d Description) StringsDim(name string) ([]string, error) {
	value, ok := d[name]
	if !ok {
		return nil, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("dimension %v of benchmark %v is not a list: %v", name, d.Key(), value)
	}
	result := make([]string, 0, len(list))
	for _, item := range list {
		result = append(result, fmt.Sprintf("%v", item))
	}
	return result, nil
}

// ExpandTemplate expands one template into the descriptions it declares: the
// cartesian product of the per-dimension candidate lists, with scalar values
// treated as one-element lists. Dimension names are visited in lexicographic
// order, earlier dimensions varying slowest, so identical input always
// yields identical output in identical order.
func ExpandTemplate(template Template) []Description {
	dims := maps.Keys(template)
	slices.Sort(dims)
	candidates := make([][]any, len(dims))
	total := 1
	for i, dim := range dims {
		if list, ok := template[dim].([]any); ok {
			candidates[i] = list
		} else {
			candidates[i] = []any{template[dim]}
		}
		total *= len(candidates[i])
	}
	if total == 0 {
		// An empty candidate list declares an empty sub-space. Rejected at
		// config load; kept well-defined here so expansion stays total.
		return nil
	}
	descriptions := make([]Description, 0, total)
	indices := make([]int, len(dims))
	for n := 0; n < total; n++ {
		description := make(Description, len(dims))
		for i, dim := range dims {
			description[dim] = candidates[i][indices[i]]
		}
		descriptions = append(descriptions, description)
		for i := len(indices) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(candidates[i]) {
				break
			}
			indices[i] = 0
		}
	}
	return descriptions
}

// ExpandTemplates expands every template in declaration order and
// concatenates the results.
func ExpandTemplates(templates []Template) []Description {
	descriptions := make([]Description, 0)
	for _, template := range templates {
		descriptions = append(descriptions, ExpandTemplate(template)...)
	}
	return descriptions
}
