package fitness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/scalpel/organ"
)

func testOrgan() *organ.Organ {
	return &organ.Organ{
		TypeName: "Calc",
		Lines: []string{
			"package com.acme;",
			"",
			"public class Calc {",
			"    int base;",
			"    int add(int x) {",
			"        return base + x;",
			"    }",
			"    int unused;",
			"    // note",
			"}",
		},
		DeclarationLine: 3,
	}
}

type countingCompiler struct {
	calls  int32
	accept bool
}

func (c *countingCompiler) Compile(ctx context.Context, sourcePath, outputDir string) error {
	atomic.AddInt32(&c.calls, 1)
	if c.accept {
		return nil
	}
	return ErrCompile
}

func TestEvaluator_Evaluate(t *testing.T) {
	o := testOrgan()
	testCases := []struct {
		description string
		lines       []int
		accept      bool
		total       int
		mapped      int
		expected    *Score
	}{
		{
			description: "seed individual has zero size score",
			lines:       o.Universe(),
			accept:      true,
			total:       10,
			mapped:      5,
			expected:    &Score{Size: 0, Mapping: 0.5, Compile: 1, Total: 0.45},
		},
		{
			description: "missing declaration line never compiles",
			lines:       []int{1, 4, 5, 6, 7, 10},
			accept:      true,
			total:       4,
			mapped:      4,
			expected:    &Score{Size: 0.4, Mapping: 1, Compile: 0, Total: 0.46},
		},
		{
			description: "compiler rejection",
			lines:       []int{1, 3, 10},
			accept:      false,
			total:       0,
			mapped:      0,
			expected:    &Score{Size: 0.7, Mapping: 0, Compile: 0, Total: 0.28},
		},
		{
			description: "mapped above total is clamped",
			lines:       []int{1, 3, 4, 5, 6, 7, 10},
			accept:      true,
			total:       2,
			mapped:      3,
			expected:    &Score{Size: 0.3, Mapping: 1, Compile: 1, Total: 0.72},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			compiler := &countingCompiler{accept: testCase.accept}
			evaluator := New(o, compiler)
			outputDir := t.TempDir()
			ind := organ.NewIndividual(1, testCase.lines)
			actual, err := evaluator.Score(context.Background(), ind, testCase.total, testCase.mapped, outputDir)
			require.NoError(t, err)
			assert.InDelta(t, testCase.expected.Size, actual.Size, 1e-9)
			assert.InDelta(t, testCase.expected.Mapping, actual.Mapping, 1e-9)
			assert.InDelta(t, testCase.expected.Compile, actual.Compile, 1e-9)
			assert.InDelta(t, testCase.expected.Total, actual.Total, 1e-9)
			assert.GreaterOrEqual(t, actual.Total, 0.0)
			assert.LessOrEqual(t, actual.Total, 1.0)

			total, err := evaluator.Evaluate(context.Background(), ind, testCase.total, testCase.mapped, outputDir)
			require.NoError(t, err)
			assert.InDelta(t, actual.Total, total, 1e-9)
		})
	}
}

func TestEvaluator_CandidateRetained(t *testing.T) {
	o := testOrgan()
	outputDir := t.TempDir()
	evaluator := New(o, &countingCompiler{accept: true})
	_, err := evaluator.Evaluate(context.Background(), organ.NewIndividual(1, []int{10, 3, 1}), 1, 1, outputDir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outputDir, "Calc.java"))
	require.NoError(t, err)
	assert.Equal(t, "package com.acme;\npublic class Calc {\n}\n", string(data))
}

func TestEvaluator_DeclarationGuardSkipsCompiler(t *testing.T) {
	compiler := &countingCompiler{accept: true}
	evaluator := New(testOrgan(), compiler)
	_, err := evaluator.Evaluate(context.Background(), organ.NewIndividual(1, []int{1, 2}), 1, 1, t.TempDir())
	require.NoError(t, err)
	assert.EqualValues(t, 0, compiler.calls)
}

func TestEvaluator_EmptyUniverse(t *testing.T) {
	evaluator := New(&organ.Organ{TypeName: "Empty"}, &countingCompiler{})
	_, err := evaluator.Evaluate(context.Background(), organ.NewIndividual(1, nil), 1, 1, t.TempDir())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEvaluator_InvalidIndividual(t *testing.T) {
	compiler := &countingCompiler{accept: true}
	evaluator := New(testOrgan(), compiler)
	_, err := evaluator.Evaluate(context.Background(), organ.NewIndividual(1, []int{3, 11}), 1, 1, t.TempDir())
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.EqualValues(t, 0, compiler.calls)
}

func TestEvaluator_Cache(t *testing.T) {
	compiler := &countingCompiler{accept: true}
	cache := NewCache()
	evaluator := New(testOrgan(), compiler, WithCache(cache), WithWeights(Weights{Compile: 1}))
	for i, lines := range [][]int{{1, 3, 10}, {10, 3, 1}} {
		total, err := evaluator.Evaluate(context.Background(), organ.NewIndividual(i, lines), 0, 0, t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, 1.0, total)
	}
	assert.EqualValues(t, 1, compiler.calls)
	assert.Equal(t, 1, cache.Hits())
	assert.Equal(t, 1, cache.Len())
}

func TestEvaluator_CacheHitWritesNoCandidate(t *testing.T) {
	compiler := &countingCompiler{accept: true}
	evaluator := New(testOrgan(), compiler, WithCache(NewCache()))
	first, second := t.TempDir(), t.TempDir()
	for _, dir := range []string{first, second} {
		_, err := evaluator.Evaluate(context.Background(), organ.NewIndividual(1, []int{1, 3, 10}), 0, 0, dir)
		require.NoError(t, err)
	}
	assert.FileExists(t, filepath.Join(first, "Calc.java"))
	assert.NoFileExists(t, filepath.Join(second, "Calc.java"))
}

func TestEvaluator_CacheSkippedWithoutFingerprint(t *testing.T) {
	testCases := []struct {
		description   string
		fingerprint   func(*organ.Individual) (uint64, error)
		expectedCalls int32
		expectedLen   int
	}{
		{
			description:   "fingerprint succeeds",
			fingerprint:   (*organ.Individual).Fingerprint,
			expectedCalls: 1,
			expectedLen:   1,
		},
		{
			description: "fingerprint fails",
			fingerprint: func(*organ.Individual) (uint64, error) {
				return 0, errors.New("hash unavailable")
			},
			expectedCalls: 2,
			expectedLen:   0,
		},
	}
	for _, testCase := range testCases {
		compiler := &countingCompiler{accept: true}
		cache := NewCache()
		evaluator := New(testOrgan(), compiler, WithCache(cache))
		evaluator.fingerprint = testCase.fingerprint
		for i := 0; i < 2; i++ {
			_, err := evaluator.Evaluate(context.Background(), organ.NewIndividual(i, []int{1, 3, 10}), 0, 0, t.TempDir())
			require.NoError(t, err, testCase.description)
		}
		assert.EqualValues(t, testCase.expectedCalls, compiler.calls, testCase.description)
		assert.Equal(t, testCase.expectedLen, cache.Len(), testCase.description)
		_, zeroCached := cache.Get(0)
		assert.False(t, zeroCached, testCase.description)
	}
}

func TestWeights_Validate(t *testing.T) {
	testCases := []struct {
		description string
		weights     Weights
		expectErr   bool
	}{
		{description: "defaults", weights: DefaultWeights()},
		{description: "compile only", weights: Weights{Compile: 1}},
		{description: "sum above one", weights: Weights{Size: 1, Mapping: 1, Compile: 1}, expectErr: true},
		{description: "sum below one", weights: Weights{Size: 0.2, Mapping: 0.2}, expectErr: true},
		{description: "negative weight", weights: Weights{Size: 1.5, Mapping: -0.5}, expectErr: true},
		{description: "zero weights", weights: Weights{}, expectErr: true},
	}
	for _, testCase := range testCases {
		err := testCase.weights.Validate()
		if testCase.expectErr {
			assert.ErrorIs(t, err, ErrInvalidState, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestMappingScore(t *testing.T) {
	assert.Equal(t, 0.0, MappingScore(0, 3))
	assert.Equal(t, 0.0, MappingScore(-1, 0))
	assert.Equal(t, 0.25, MappingScore(4, 1))
	assert.Equal(t, 1.0, MappingScore(2, 5))
	assert.Equal(t, 0.0, MappingScore(2, -1))
}
