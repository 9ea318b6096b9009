package icebox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/scalpel/analyzer"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/organ"
)

const calcSource = `package com.acme.calc;

import com.acme.util.MathUtil;

public class Calc {
    private MathUtil math;
    private int base;
    private int scale;

    public int add(int a, int b) {
        return math.sum(a, b) + base;
    }

    public int sub(int a, int b) {
        return a - b + scale;
    }
}
`

const mathSource = `package com.acme.util;

public class MathUtil {
    public int sum(int a, int b) {
        return a + b;
    }

    public int unused() {
        return 0;
    }
}
`

func donor(t *testing.T) (string, *analyzer.Closure) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"com/acme/calc/Calc.java":     calcSource,
		"com/acme/util/MathUtil.java": mathSource,
	}
	for name, content := range files {
		location := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	}
	return root, analyzer.NewClosure(analyzer.NewResolver(root))
}

func compute(t *testing.T, root string, closure *analyzer.Closure, method string) *analyzer.DependencyClosure {
	t.Helper()
	unit, err := java.NewInspector(nil).InspectFile(filepath.Join(root, "com", "acme", "calc", "Calc.java"))
	require.NoError(t, err)
	result, err := closure.ComputeFor(context.Background(), unit, method)
	require.NoError(t, err)
	return result
}

func read(t *testing.T, location string) string {
	t.Helper()
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	return string(data)
}

func TestStager_Stage(t *testing.T) {
	root, closure := donor(t)
	stager := New(t.TempDir())
	ctx := context.Background()

	entry, err := stager.Stage(ctx, compute(t, root, closure, "add"))
	require.NoError(t, err)
	assert.Equal(t, "com.acme.calc.Calc#add", entry.Target)
	assert.Equal(t, "com/acme/calc/Calc.java", entry.Path)
	assert.Equal(t, []string{"com/acme/calc/Calc.java", "com/acme/util/MathUtil.java"}, entry.Files)
	assert.Equal(t, []string{"com.acme.calc.Calc#add", "com.acme.util.MathUtil#sum"}, entry.Methods)
	assert.Equal(t, []string{"math", "base"}, entry.Fields)
	assert.Len(t, entry.Hash, 16)

	assert.Equal(t, `package com.acme.calc;

import com.acme.util.MathUtil;

public class Calc {
    private MathUtil math;
    private int base;

    public int add(int a, int b) {
        return math.sum(a, b) + base;
    }
}
`, read(t, stager.Path("com.acme.calc", "Calc")))

	assert.Equal(t, `package com.acme.util;

public class MathUtil {

    public int sum(int a, int b) {
        return a + b;
    }
}
`, read(t, stager.Path("com.acme.util", "MathUtil")))

	staged, err := organ.Load(ctx, stager.fs, stager.Path("com.acme.calc", "Calc"))
	require.NoError(t, err)
	assert.Equal(t, 5, staged.DeclarationLine)
}

func TestStager_Idempotent(t *testing.T) {
	root, closure := donor(t)
	stager := New(t.TempDir())
	ctx := context.Background()

	first, err := stager.Stage(ctx, compute(t, root, closure, "add"))
	require.NoError(t, err)
	before := read(t, stager.Path("com.acme.calc", "Calc"))

	second, err := stager.Stage(ctx, compute(t, root, closure, "add"))
	require.NoError(t, err)
	assert.Equal(t, before, read(t, stager.Path("com.acme.calc", "Calc")))
	assert.Equal(t, first.Hash, second.Hash)

	manifest, err := stager.Manifest(ctx)
	require.NoError(t, err)
	require.Len(t, manifest.Entries, 1)
	assert.Equal(t, "com.acme.calc.Calc#add", manifest.Entries[0].Target)
}

func TestStager_AppendsMissingMembers(t *testing.T) {
	root, closure := donor(t)
	stager := New(t.TempDir())
	ctx := context.Background()

	_, err := stager.Stage(ctx, compute(t, root, closure, "add"))
	require.NoError(t, err)
	_, err = stager.Stage(ctx, compute(t, root, closure, "sub"))
	require.NoError(t, err)

	assert.Equal(t, `package com.acme.calc;

import com.acme.util.MathUtil;

public class Calc {
    private MathUtil math;
    private int base;

    public int add(int a, int b) {
        return math.sum(a, b) + base;
    }
    private int scale;

    public int sub(int a, int b) {
        return a - b + scale;
    }
}
`, read(t, stager.Path("com.acme.calc", "Calc")))

	manifest, err := stager.Manifest(ctx)
	require.NoError(t, err)
	require.Len(t, manifest.Entries, 2)
	assert.NotNil(t, manifest.Lookup("com.acme.calc.Calc#sub"))
	assert.Nil(t, manifest.Lookup("com.acme.calc.Calc#mul"))
}

func TestStager_ManifestEntry(t *testing.T) {
	root, closure := donor(t)
	stager := New(t.TempDir())
	ctx := context.Background()

	staged, err := stager.Stage(ctx, compute(t, root, closure, "add"))
	require.NoError(t, err)
	manifest, err := stager.Manifest(ctx)
	require.NoError(t, err)

	expected := &Entry{
		Target:        "com.acme.calc.Calc#add",
		Path:          "com/acme/calc/Calc.java",
		Files:         []string{"com/acme/calc/Calc.java", "com/acme/util/MathUtil.java"},
		Methods:       []string{"com.acme.calc.Calc#add", "com.acme.util.MathUtil#sum"},
		Fields:        []string{"math", "base"},
		RequiredTypes: []string{"MathUtil"},
		Hash:          staged.Hash,
	}
	if diff := cmp.Diff(expected, manifest.Lookup("com.acme.calc.Calc#add"), cmpopts.IgnoreFields(Entry{}, "StagedAt", "Donor")); diff != "" {
		t.Errorf("manifest entry mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, staged.Donor)
	assert.True(t, strings.HasSuffix(staged.Donor.File, "Calc.java"), staged.Donor.File)
	assert.NotEmpty(t, staged.Donor.Root)
}

func TestStager_Manifest_Empty(t *testing.T) {
	stager := New(t.TempDir())
	manifest, err := stager.Manifest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, manifest.Entries)
}

func TestStager_Stage_Nil(t *testing.T) {
	_, err := New(t.TempDir()).Stage(context.Background(), nil)
	assert.Error(t, err)
}
