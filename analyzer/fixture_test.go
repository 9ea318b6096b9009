package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		location := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	}
}

var donorTree = map[string]string{
	"com/acme/service/ServiceClass.java": `package com.acme.service;

import com.acme.util.UtilityClass;
import com.acme.repo.Repo;
import com.acme.model.*;

public class ServiceClass {
    @Autowired
    private UtilityClass utilityClass;
    private int counter;
    private String unused;
    private Repo repo;
    private Broken broken;

    public String process(String input) {
        String reversed = utilityClass.reverseString(input);
        counter++;
        Item item = new Item(reversed);
        return helper(reversed);
    }

    private String helper(String value) {
        if (value.isEmpty()) {
            return ping(value);
        }
        return value;
    }

    private String ping(String value) {
        return pong(value);
    }

    private String pong(String value) {
        return ping(value);
    }

    public String shadow(int counter) {
        return String.valueOf(counter) + Formatter.format("x") + missing.call();
    }

    public void save() {
        repo.store();
    }

    public void fix() {
        broken.run();
    }
}
`,
	"com/acme/util/UtilityClass.java": `package com.acme.util;

public class UtilityClass {
    private String prefix;
    private String suffix;

    public String reverseString(String s) {
        return prefix + normalize(s);
    }

    private String normalize(String s) {
        return s.trim();
    }

    public String other() {
        return suffix;
    }
}
`,
	"com/acme/model/Item.java": `package com.acme.model;

public class Item {
    private final String value;

    public Item(String value) {
        this.value = value;
    }
}
`,
	"com/acme/model/Formatter.java": `package com.acme.model;

public class Formatter {
    public static String format(String value) {
        return "[" + value + "]";
    }
}
`,
	"com/acme/model/Broken.java": `@@@ ###`,
}

var callbackTree = map[string]string{
	"com/a/A.java": `package com.a;

import com.b.B;

public class A {
    private B b;
    private int count;
    private int idle;

    public void run() {
        b.go(this);
    }

    public void back() {
        count++;
    }
}
`,
	"com/b/B.java": `package com.b;

import com.a.A;

public class B {
    private A a;

    public void go(A caller) {
        a.back();
    }
}
`,
}
