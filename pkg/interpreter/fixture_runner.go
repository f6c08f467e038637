package interpreter

import (
	"fmt"
	"path/filepath"
	"sort"

	"let/interpreter-go/pkg/runtime"
)

// testingT captures the subset of testing.T used by fixture helpers.
type testingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// runFixture replays one fixture directory against a fresh interpreter.
func runFixture(t testingT, dir string) {
	t.Helper()
	manifest := readManifest(t, dir)
	entry := manifest.Entry
	if entry == "" {
		entry = "program.json"
	}
	program := readProgram(t, filepath.Join(dir, entry))

	interp := New()
	globals := make([]string, 0, len(manifest.Globals))
	for name := range manifest.Globals {
		globals = append(globals, name)
	}
	sort.Strings(globals)
	for _, name := range globals {
		val, err := globalValue(manifest.Globals[name])
		if err != nil {
			t.Fatalf("global %q: %v", name, err)
		}
		interp.GlobalEnvironment().Define(name, val)
	}

	value, err := interp.Evaluate(program, nil)

	if manifest.Expect.Error != "" {
		if err == nil {
			t.Fatalf("expected %s error, got value %s", manifest.Expect.Error, value)
		}
		kind, ok := errorKindsByName[manifest.Expect.Error]
		if !ok {
			t.Fatalf("manifest names unknown error kind %q", manifest.Expect.Error)
		}
		if !runtime.IsKind(err, kind) {
			t.Fatalf("expected %s error, got %v", manifest.Expect.Error, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("evaluation error: %v", err)
	}
	if manifest.Expect.Result == nil {
		return
	}
	expected, err := expectedValue(manifest.Expect.Result.Kind, manifest.Expect.Result.Value)
	if err != nil {
		t.Fatalf("manifest expectation: %v", err)
	}
	if !runtime.ValuesEqual(expected, value) {
		t.Fatalf("expected %s, got %s", expected, value)
	}
}

func expectedValue(kind string, raw any) (runtime.Value, error) {
	val, err := globalValue(raw)
	if err != nil {
		return nil, err
	}
	if kind != "" && val.Kind().String() != kind {
		return nil, fmt.Errorf("expectation kind %q does not match value kind %s", kind, val.Kind())
	}
	return val, nil
}
