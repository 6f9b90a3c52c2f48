package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandTemplateScalarAndList(t *testing.T) {
	descriptions := ExpandTemplate(Template{"a": []any{1, 2}, "b": 3})
	require.Equal(t, []Description{{"a": 1, "b": 3}, {"a": 2, "b": 3}}, descriptions)
}

func TestExpandTemplateSortedKeyOrder(t *testing.T) {
	descriptions := ExpandTemplate(Template{"b": []any{1, 2}, "a": []any{3, 4}})
	require.Equal(t, []Description{
		{"a": 3, "b": 1},
		{"a": 3, "b": 2},
		{"a": 4, "b": 1},
		{"a": 4, "b": 2},
	}, descriptions)
}

func TestExpandTemplatesConcatenatesInDeclarationOrder(t *testing.T) {
	descriptions := ExpandTemplates([]Template{
		{"name": "foo", "compiler": []any{"g++-5", "g++-6"}},
		{"name": []any{"bar", "baz"}, "compiler": "g++-5", "cxx_std": "c++14"},
	})
	require.Equal(t, []Description{
		{"name": "foo", "compiler": "g++-5"},
		{"name": "foo", "compiler": "g++-6"},
		{"name": "bar", "compiler": "g++-5", "cxx_std": "c++14"},
		{"name": "baz", "compiler": "g++-5", "cxx_std": "c++14"},
	}, descriptions)
}

func TestExpandTemplateEmptyCandidateList(t *testing.T) {
	require.Empty(t, ExpandTemplate(Template{"a": []any{}, "b": 3}))
}

func TestExpandTemplateDeterminism(t *testing.T) {
	template := Template{"a": []any{1, 2, 3}, "b": []any{"x", "y"}, "c": 7}
	require.Equal(t, ExpandTemplate(template), ExpandTemplate(template))
}

func TestDescriptionKeyNormalizesNumbers(t *testing.T) {
	require.Equal(t, Description{"a": 3}.Key(), Description{"a": 3.0}.Key())
	require.Equal(t, Description{"a": 3}.Key(), Description{"a": uint64(3)}.Key())
	require.NotEqual(t, Description{"a": 3}.Key(), Description{"a": 4}.Key())
}

func TestDescriptionDimAccessors(t *testing.T) {
	description := Description{"n": uint64(100), "f": 1.5, "s": "x", "l": []any{"a", 1}}

	n, err := description.IntDim("n")
	require.NoError(t, err)
	require.Equal(t, 100, n)

	f, err := description.FloatDim("f")
	require.NoError(t, err)
	require.Equal(t, 1.5, f)

	s, err := description.StringDim("s")
	require.NoError(t, err)
	require.Equal(t, "x", s)

	l, err := description.StringsDim("l")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "1"}, l)

	missing, err := description.StringsDim("missing")
	require.NoError(t, err)
	require.Empty(t, missing)

	_, err = description.IntDim("f")
	require.Error(t, err)
	_, err = description.IntDim("missing")
	require.Error(t, err)
	_, err = description.StringDim("n")
	require.Error(t, err)
}
