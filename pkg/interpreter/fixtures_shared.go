package interpreter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"let/interpreter-go/pkg/ast"
	"let/interpreter-go/pkg/runtime"
)

type fixtureManifest struct {
	Description string         `json:"description"`
	Entry       string         `json:"entry"`
	Globals     map[string]any `json:"globals"`
	Expect      struct {
		Result *struct {
			Kind  string `json:"kind"`
			Value any    `json:"value"`
		} `json:"result"`
		Error string `json:"error"`
	} `json:"expect"`
}

func readManifest(t testingT, dir string) fixtureManifest {
	t.Helper()
	manifestPath := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fixtureManifest{}
		}
		t.Fatalf("read manifest %s: %v", manifestPath, err)
	}
	var manifest fixtureManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("parse manifest %s: %v", manifestPath, err)
	}
	return manifest
}

func readProgram(t testingT, path string) ast.Expression {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read program %s: %v", path, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("parse program %s: %v", path, err)
	}
	expr, err := ast.DecodeExpression(raw)
	if err != nil {
		t.Fatalf("decode program %s: %v", path, err)
	}
	return expr
}

// globalValue converts a manifest global into a runtime value. Numbers,
// bools, and flat numeric lists cover the fixtures we replay.
func globalValue(raw any) (runtime.Value, error) {
	switch v := raw.(type) {
	case float64:
		return runtime.NumberValue{Val: int64(v)}, nil
	case bool:
		return runtime.BoolValue{Val: v}, nil
	case []any:
		elements := make([]runtime.Value, 0, len(v))
		for _, el := range v {
			val, err := globalValue(el)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return &runtime.ListValue{Elements: elements}, nil
	default:
		return nil, fmt.Errorf("unsupported global value %T", raw)
	}
}

var errorKindsByName = map[string]runtime.ErrorKind{
	"UnboundVariable":  runtime.UnboundVariable,
	"TypeMismatch":     runtime.TypeMismatch,
	"ArityMismatch":    runtime.ArityMismatch,
	"EmptyListAccess":  runtime.EmptyListAccess,
	"NoMatchingClause": runtime.NoMatchingClause,
}
