package java_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/scalpel/inspector/java"
)

func TestInspector_InspectSource(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantPackage string
		wantTypes   []string
		wantErr     bool
	}{
		{
			name: "Simple class",
			source: `package com.example;
@SuppressWarnings("unused")
public class Person {
    private String name;
    private int age;

    public Person(String name, int age) {
        this.name = name;
        this.age = age;
    }

    public String getName() {
        return name;
    }
}`,
			wantPackage: "com.example",
			wantTypes:   []string{"Person"},
		},
		{
			name: "Interface",
			source: `package com.example.interfaces;

public interface UserService {
    User findById(Long id);
    void delete(Long id);
}`,
			wantPackage: "com.example.interfaces",
			wantTypes:   []string{"UserService"},
		},
		{
			name: "Enum",
			source: `package com.example.enums;

public enum Day {
    MONDAY, TUESDAY;
    public boolean weekend() { return false; }
}`,
			wantPackage: "com.example.enums",
			wantTypes:   []string{"Day"},
		},
		{
			name:        "Default package",
			source:      `class Helper { int x; }`,
			wantPackage: "",
			wantTypes:   []string{"Helper"},
		},
		{
			name:    "Garbage",
			source:  `%%% ??? !!!`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inspector := java.NewInspector(&java.Config{IncludeUnexported: true})
			aFile, err := inspector.InspectSource([]byte(tt.source))
			if tt.wantErr {
				assert.ErrorIs(t, err, java.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPackage, aFile.Package)
			var names []string
			for _, typ := range aFile.Types {
				names = append(names, typ.Name)
			}
			assert.Equal(t, tt.wantTypes, names)
			assert.NotZero(t, aFile.Hash)
		})
	}
}

const serviceSource = `package com.acme.service;

import com.acme.util.UtilityClass;
import com.acme.model.*;
import static com.acme.util.Constants.MAX;

/**
 * Service under test.
 */
@Service
public class ServiceClass extends Base implements Runnable, Cloneable {
    @Autowired
    private UtilityClass utilityClass;
    private int counter = 0, limit;
    private static final String PREFIX = "p";

    public String process(String input, Item... items) {
        String reversed = utilityClass.reverseString(input);
        for (Item item : items) {
            counter++;
        }
        Helper helper = new Helper(reversed);
        this.limit = helper.size();
        return format(reversed);
    }

    private String format(String value) {
        return PREFIX + value;
    }

    public void run() {
        try {
            process("x");
        } catch (IllegalStateException e) {
            Runnable r = () -> counter++;
        }
    }
}
`

func TestInspector_Members(t *testing.T) {
	inspector := java.NewInspector(nil)
	aFile, err := inspector.InspectSource([]byte(serviceSource))
	require.NoError(t, err)

	require.Len(t, aFile.Imports, 3)
	assert.Equal(t, "com.acme.util.UtilityClass", aFile.Imports[0].Path)
	assert.False(t, aFile.Imports[0].IsWildcard)
	assert.Equal(t, "com.acme.model", aFile.Imports[1].Path)
	assert.True(t, aFile.Imports[1].IsWildcard)
	assert.True(t, aFile.Imports[2].IsStatic)
	assert.Equal(t, "import com.acme.model.*;", aFile.Imports[1].String())

	typ := aFile.LookupType("ServiceClass")
	require.NotNil(t, typ)
	assert.Equal(t, "com.acme.service.ServiceClass", typ.QualifiedName())
	assert.True(t, typ.IsExported)
	assert.Equal(t, []string{"@Service"}, typ.Annotations)
	assert.Equal(t, "Service under test.", typ.Comment)
	assert.Equal(t, []string{"Base"}, typ.Extends)
	assert.Equal(t, []string{"Runnable", "Cloneable"}, typ.Implements)
	assert.Equal(t, 10, typ.Location.Line)
	assert.Contains(t, typ.Header, "public class ServiceClass")

	require.Len(t, typ.Fields, 4)
	utility := typ.LookupField("utilityClass")
	require.NotNil(t, utility)
	assert.True(t, utility.IsInjected())
	assert.Equal(t, "UtilityClass", utility.TypeName)
	assert.NotNil(t, typ.LookupField("limit"))
	assert.True(t, typ.LookupField("PREFIX").IsConstant)

	process := typ.LookupMethod("process")
	require.NotNil(t, process)
	assert.Equal(t, "String", process.ResultType)
	require.Len(t, process.Parameters, 2)
	assert.Equal(t, "input", process.Parameters[0].Name)
	assert.True(t, process.Parameters[1].Variadic)
	assert.Equal(t, "String process(String input, Item... items)", process.Signature)

	var calls []string
	for _, site := range process.CallSites {
		calls = append(calls, site.Receiver+"."+site.Name)
	}
	assert.Equal(t, []string{"utilityClass.reverseString", "helper.size", ".format"}, calls)
	require.Len(t, process.Instantiations, 1)
	assert.Equal(t, "Helper", process.Instantiations[0].TypeName)

	require.Len(t, process.Statements, 5)
	first := process.Statements[0]
	assert.Equal(t, []string{"utilityClass", "input"}, first.Names)
	assert.Equal(t, "reversed", first.Bindings[0].Name)
	assert.Equal(t, "String", first.Bindings[0].TypeName)
	assert.Contains(t, process.Statements[1].Names, "counter")
	assert.Equal(t, "Item", process.Statements[1].Bindings[0].TypeName)
	assert.Equal(t, []string{"limit"}, process.Statements[3].FieldRefs)
	assert.Equal(t, "Helper", process.LocalType("helper"))
	assert.Equal(t, "String", process.ParameterType("input"))

	run := typ.LookupMethod("run")
	require.NotNil(t, run)
	require.Len(t, run.Statements, 1)
	var bound []string
	for _, binding := range run.Statements[0].Bindings {
		bound = append(bound, binding.Name)
	}
	assert.Equal(t, []string{"e", "r"}, bound)
}

func TestInspector_InspectTree(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "com", "acme")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.java"), []byte("package com.acme;\npublic class A { void a() {} }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ATest.java"), []byte("package com.acme;\npublic class ATest {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.java"), []byte("@@@ ###"), 0o644))

	inspector := java.NewInspector(&java.Config{IncludeUnexported: true, SkipTests: true})
	files, err := inspector.InspectTree(root)
	assert.ErrorIs(t, err, java.ErrParse)
	require.Len(t, files, 1)
	assert.Equal(t, "A.java", files[0].Name)
}

func TestIdentifiers(t *testing.T) {
	src := []byte(`    String reversed = utilityClass.reverseString(input);`)
	ids := java.Identifiers(src)
	assert.Equal(t, []string{"String", "input", "reverseString", "reversed", "utilityClass"}, ids)
}
