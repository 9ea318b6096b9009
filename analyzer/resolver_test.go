package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/scalpel/inspector/graph"
)

func TestResolver_Resolve(t *testing.T) {
	testCases := []struct {
		description string
		files       map[string]string
		from        *graph.File
		typeName    string
		expected    string
		expectOK    bool
	}{
		{
			description: "explicit import",
			from:        &graph.File{Package: "com.y", Imports: []graph.Import{{Path: "com.x.Foo"}}},
			typeName:    "Foo",
			expected:    "com.x.Foo",
			expectOK:    true,
		},
		{
			description: "explicit import with generic arguments",
			from:        &graph.File{Package: "com.y", Imports: []graph.Import{{Path: "com.x.Foo"}}},
			typeName:    "Foo<String>",
			expected:    "com.x.Foo",
			expectOK:    true,
		},
		{
			description: "explicit import requires exact suffix",
			from:        &graph.File{Package: "com.y", Imports: []graph.Import{{Path: "com.x.BigFoo"}}},
			typeName:    "Foo",
		},
		{
			description: "wildcard import with existing file",
			files:       map[string]string{"com/x/Foo.java": "package com.x; public class Foo {}"},
			from:        &graph.File{Package: "com.y", Imports: []graph.Import{{Path: "com.x", IsWildcard: true}}},
			typeName:    "Foo",
			expected:    "com.x.Foo",
			expectOK:    true,
		},
		{
			description: "wildcard import without file",
			from:        &graph.File{Package: "com.y", Imports: []graph.Import{{Path: "com.x", IsWildcard: true}}},
			typeName:    "Foo",
		},
		{
			description: "explicit import wins over wildcard",
			files:       map[string]string{"com/x/Foo.java": "package com.x; public class Foo {}"},
			from: &graph.File{Package: "com.y", Imports: []graph.Import{
				{Path: "com.x", IsWildcard: true},
				{Path: "com.a.Foo"},
			}},
			typeName: "Foo",
			expected: "com.a.Foo",
			expectOK: true,
		},
		{
			description: "same package",
			files:       map[string]string{"com/y/Bar.java": "package com.y; class Bar {}"},
			from:        &graph.File{Package: "com.y"},
			typeName:    "Bar",
			expected:    "com.y.Bar",
			expectOK:    true,
		},
		{
			description: "default package",
			files:       map[string]string{"Baz.java": "class Baz {}"},
			from:        &graph.File{Package: "com.y"},
			typeName:    "Baz",
			expected:    "Baz",
			expectOK:    true,
		},
		{
			description: "unresolvable",
			from:        &graph.File{Package: "com.y"},
			typeName:    "Foo",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, testCase.files)
			resolver := NewResolver(root)
			actual, ok := resolver.Resolve(context.Background(), testCase.typeName, testCase.from)
			assert.Equal(t, testCase.expectOK, ok)
			assert.Equal(t, testCase.expected, actual)
		})
	}
}

func TestResolver_Unit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, donorTree)
	resolver := NewResolver(root)
	ctx := context.Background()

	unit, err := resolver.Unit(ctx, "com.acme.util.UtilityClass")
	require.NoError(t, err)
	assert.Equal(t, "com.acme.util", unit.Package)
	cached, err := resolver.Unit(ctx, "com.acme.util.UtilityClass")
	require.NoError(t, err)
	assert.Same(t, unit, cached)

	_, err = resolver.Unit(ctx, "com.acme.repo.Repo")
	assert.ErrorIs(t, err, ErrMissingDependencyFile)
}
