package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "package.yml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: demo
version: 0.1.0
license: MIT
authors:
  - Ada
targets:
  app:
    type: executable
    main: src/main.json
  lib:
    type: library
dependencies:
  prelude: "1.0.0"
  vendored:
    path: ../vendored
  upstream:
    git: https://example.com/upstream.git
    tag: v2
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "demo" || manifest.Version != "0.1.0" {
		t.Fatalf("unexpected header fields: %#v", manifest)
	}
	if len(manifest.TargetOrder) != 2 || manifest.TargetOrder[0] != "app" {
		t.Fatalf("unexpected target order %v", manifest.TargetOrder)
	}
	target, ok := manifest.FindTarget("app")
	if !ok || target.Main != "src/main.json" {
		t.Fatalf("unexpected app target %#v", target)
	}
	if dep := manifest.Dependencies["prelude"]; dep == nil || dep.Version != "1.0.0" {
		t.Fatalf("string dependency not treated as version: %#v", dep)
	}
	if dep := manifest.Dependencies["upstream"]; dep == nil || dep.Git == "" || dep.Tag != "v2" {
		t.Fatalf("git dependency lost fields: %#v", dep)
	}
}

func TestLoadManifestValidationIssues(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: ""
targets:
  app:
    type: executable
dependencies:
  broken:
    git: https://example.com/x.git
    version: "1.0"
`)
	_, err := LoadManifest(path)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) < 3 {
		t.Fatalf("expected name, main, and dependency issues, got %v", verr.Issues)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: demo
banana: true
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected unknown-field failure")
	}
}

func TestDefaultExecutableTarget(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: demo
targets:
  helpers:
    type: library
  cli:
    type: executable
    main: main.json
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	target, err := manifest.DefaultExecutableTarget()
	if err != nil {
		t.Fatalf("DefaultExecutableTarget: %v", err)
	}
	if target.Name != "cli" {
		t.Fatalf("expected cli target, got %q", target.Name)
	}
}

func TestDefaultExecutableTargetMissing(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: demo
targets:
  helpers:
    type: library
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if _, err := manifest.DefaultExecutableTarget(); !errors.Is(err, ErrNoExecutableTarget) {
		t.Fatalf("expected ErrNoExecutableTarget, got %v", err)
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "package.lock")

	lock := NewLockfile("demo", "let-cli test")
	if changed := lock.Upsert(LockedPackage{Name: "b", Version: "1.0", Source: "path:../b"}); !changed {
		t.Fatalf("expected first upsert to change the lock")
	}
	lock.Upsert(LockedPackage{Name: "a", Source: "git:https://example.com/a.git", Revision: "abc123"})
	if changed := lock.Upsert(LockedPackage{Name: "b", Version: "1.0", Source: "path:../b"}); changed {
		t.Fatalf("identical upsert reported a change")
	}

	if err := WriteLockfile(lock, lockPath); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}
	loaded, err := LoadLockfile(lockPath)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.Root != "demo" || len(loaded.Packages) != 2 {
		t.Fatalf("unexpected lock contents: %#v", loaded)
	}
	if loaded.Packages[0].Name != "a" {
		t.Fatalf("packages not sorted: %#v", loaded.Packages)
	}
	if pkg, ok := loaded.Find("a"); !ok || pkg.Revision != "abc123" {
		t.Fatalf("missing git revision: %#v", pkg)
	}
}

func TestLoadLockfileMissing(t *testing.T) {
	_, err := LoadLockfile(filepath.Join(t.TempDir(), "package.lock"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
