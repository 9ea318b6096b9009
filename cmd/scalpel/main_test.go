package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/scalpel/genetic"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/organ"
)

const calcSource = `package com.acme.calc;

import com.acme.util.MathUtil;

public class Calc {
    private MathUtil math;
    private int unused;

    public int add(int a, int b) {
        return math.sum(a, b);
    }
}
`

const mathSource = `package com.acme.util;

public class MathUtil {
    public int sum(int a, int b) {
        return a + b;
    }
}
`

func write(t *testing.T, location, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "scalpel.log")))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestCommands_FindExtractImplant(t *testing.T) {
	donor := filepath.Join(t.TempDir(), "src", "main", "java")
	write(t, filepath.Join(donor, "com", "acme", "calc", "Calc.java"), calcSource)
	write(t, filepath.Join(donor, "com", "acme", "util", "MathUtil.java"), mathSource)
	iceBox := t.TempDir()

	output := run(t, "find", donor, "sum")
	assert.Contains(t, output, "com.acme.util.MathUtil#sum")

	output = run(t, "extract", filepath.Join(donor, "com", "acme", "calc", "Calc.java"), "add", "--icebox", iceBox)
	assert.Contains(t, output, "staged com.acme.calc.Calc#add")
	assert.Contains(t, output, "com.acme.util.MathUtil#sum")
	assert.FileExists(t, filepath.Join(iceBox, "com", "acme", "calc", "Calc.java"))
	assert.FileExists(t, filepath.Join(iceBox, "com", "acme", "util", "MathUtil.java"))
	assert.FileExists(t, filepath.Join(iceBox, "icebox.yaml"))

	staged, err := os.ReadFile(filepath.Join(iceBox, "com", "acme", "calc", "Calc.java"))
	require.NoError(t, err)
	assert.NotContains(t, string(staged), "unused")

	receiver := t.TempDir()
	output = run(t, "implant", iceBox, receiver)
	assert.Contains(t, output, filepath.Join(receiver, "com", "acme", "calc", "Calc.java"))
	assert.FileExists(t, filepath.Join(receiver, "com", "acme", "util", "MathUtil.java"))
}

func TestDonorRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "src")
	location := filepath.Join(root, "com", "acme", "calc", "Calc.java")
	write(t, location, calcSource)
	unit, err := java.NewInspector(nil).InspectFile(location)
	require.NoError(t, err)

	actual, err := donorRoot(location, unit)
	require.NoError(t, err)
	assert.Equal(t, root, actual)
}

func TestWriteReport(t *testing.T) {
	best := organ.NewIndividual(3, []int{1, 2})
	best.Fitness = 0.75
	result := &genetic.Result{
		RunID:     "run-1",
		BestSoFar: best,
		History: []genetic.Stats{
			{Generation: 0, Best: 0.5, Mean: 0.25, Worst: 0.1, Compiled: 1, BestSize: 4},
			{Generation: 1, Best: 0.75, Mean: 0.5, Worst: 0.2, Compiled: 3, BestSize: 2},
		},
	}
	var out bytes.Buffer
	writeReport(&out, result)
	text := out.String()
	assert.Contains(t, text, "GENERATION")
	assert.Contains(t, text, "0.7500")
	assert.Contains(t, text, "RUN RUN-1")
}

func TestSearchConfig(t *testing.T) {
	config := searchConfig()
	defaults := genetic.DefaultConfig()
	assert.Equal(t, defaults.PopulationSize, config.PopulationSize)
	assert.Equal(t, defaults.Weights, config.Weights)
	assert.Equal(t, defaults.CompileTimeout, config.CompileTimeout)
}

func TestSaveBest(t *testing.T) {
	o := &organ.Organ{TypeName: "Calc", Lines: []string{"public class Calc {", "    int unused;", "}"}, DeclarationLine: 1}
	best := organ.NewIndividual(7, []int{3, 1})
	result := &genetic.Result{OutputDir: t.TempDir(), BestSoFar: best, Generations: 2}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text, location, err := saveBest(context.WithoutCancel(ctx), afs.New(), o, result)
	require.NoError(t, err)
	assert.Equal(t, "public class Calc {\n}\n", text)
	assert.Equal(t, filepath.Join(result.OutputDir, "best", "Calc.java"), location)
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, text, string(data))
}
