package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"let/interpreter-go/pkg/driver"
)

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	oldOut, oldErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout, os.Stderr = outW, errW
	code := run(args)
	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = oldOut, oldErr
	outData, _ := io.ReadAll(outR)
	errData, _ := io.ReadAll(errR)
	return code, string(outData), string(errData)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("chdir back: %v", err)
		}
	})
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.yml"), "name: test")
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := findManifest(child)
	if err != nil {
		t.Fatalf("findManifest returned error: %v", err)
	}
	if want := filepath.Join(root, "package.yml"); found != want {
		t.Fatalf("findManifest = %q, want %q", found, want)
	}
}

func TestResolveLetHomeEnv(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cache")
	t.Setenv("LET_HOME", target)

	got, err := resolveLetHome()
	if err != nil {
		t.Fatalf("resolveLetHome error: %v", err)
	}
	if got != target {
		t.Fatalf("resolveLetHome = %q, want %q", got, target)
	}
}

func TestResolveLetHomeDefault(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("LET_HOME", "")
	t.Setenv("HOME", tmp)

	got, err := resolveLetHome()
	if err != nil {
		t.Fatalf("resolveLetHome error: %v", err)
	}
	if want := filepath.Join(tmp, ".let"); got != want {
		t.Fatalf("resolveLetHome = %q, want %q", got, want)
	}
}

func TestVersionFlag(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"--version"})
	if code != 0 {
		t.Fatalf("expected success, exit %d", code)
	}
	if !strings.Contains(stdout, cliToolVersion) {
		t.Fatalf("expected version output, got %q", stdout)
	}
}

func TestRunDirectProgramFile(t *testing.T) {
	dir := t.TempDir()
	programPath := filepath.Join(dir, "program.json")
	writeFile(t, programPath, `{
  "type": "BinaryOp", "op": "+",
  "first": { "type": "Const", "value": 2 },
  "second": { "type": "Const", "value": 3 }
}`)

	chdir(t, dir)
	code, stdout, stderr := captureCLI(t, []string{"run", "program.json"})
	if code != 0 {
		t.Fatalf("expected success, exit %d (stderr: %q)", code, stderr)
	}
	if strings.TrimSpace(stdout) != "5" {
		t.Fatalf("expected result 5, got %q", stdout)
	}
}

func TestRunManifestDefaultTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.yml"), `
name: demo
targets:
  app:
    type: executable
    main: src/main.json
`)
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir, "src", "main.json"), `{
  "type": "Let",
  "bindings": [
    { "type": "LetBinding", "name": { "type": "Var", "name": "x" }, "value": { "type": "Const", "value": 6 } }
  ],
  "body": {
    "type": "BinaryOp", "op": "*",
    "first": { "type": "Var", "name": "x" },
    "second": { "type": "Var", "name": "x" }
  }
}`)

	chdir(t, dir)
	code, stdout, stderr := captureCLI(t, []string{"run"})
	if code != 0 {
		t.Fatalf("expected success, exit %d (stderr: %q)", code, stderr)
	}
	if strings.TrimSpace(stdout) != "36" {
		t.Fatalf("expected result 36, got %q", stdout)
	}

	// Running the named target goes through the same entrypoint.
	code, stdout, _ = captureCLI(t, []string{"app"})
	if code != 0 || strings.TrimSpace(stdout) != "36" {
		t.Fatalf("named target run = (%d, %q)", code, stdout)
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	dir := t.TempDir()
	programPath := filepath.Join(dir, "program.json")
	writeFile(t, programPath, `{ "type": "Var", "name": "ghost" }`)

	chdir(t, dir)
	code, _, stderr := captureCLI(t, []string{"run", "program.json"})
	if code == 0 {
		t.Fatalf("expected failure for unbound variable")
	}
	if !strings.Contains(stderr, "UnboundVariable") {
		t.Fatalf("expected typed error on stderr, got %q", stderr)
	}
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if _, err := worktree.Add(rel); err != nil {
			return err
		}
		return nil
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Let CLI",
			Email: "let@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestDependencyInstallerPathDependency(t *testing.T) {
	root := t.TempDir()
	mainDir := filepath.Join(root, "app")
	depDir := filepath.Join(root, "dep")
	for _, dir := range []string{mainDir, depDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	writeFile(t, filepath.Join(mainDir, "package.yml"), `
name: app
version: 0.1.0
dependencies:
  dep:
    path: ../dep
`)
	writeFile(t, filepath.Join(depDir, "package.yml"), `
name: dep
version: 0.2.0
`)

	manifest, err := driver.LoadManifest(filepath.Join(mainDir, "package.yml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	installer := newDependencyInstaller(manifest, filepath.Join(root, ".let"))

	changed, logs, err := installer.Install(lock)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile to change for new dependency")
	}
	if len(logs) == 0 {
		t.Fatalf("expected logging output for dependency resolution")
	}
	pkg, ok := lock.Find("dep")
	if !ok || pkg.Version != "0.2.0" {
		t.Fatalf("lock entry unexpected: %#v", lock.Packages)
	}
	if !strings.HasPrefix(pkg.Source, "path:") {
		t.Fatalf("expected path source, got %q", pkg.Source)
	}

	changed, _, err = installer.Install(lock)
	if err != nil {
		t.Fatalf("second Install returned error: %v", err)
	}
	if changed {
		t.Fatalf("repeated install should not change the lock")
	}
}

func TestDependencyInstallerGitDependency(t *testing.T) {
	root := t.TempDir()
	mainDir := filepath.Join(root, "app")
	depDir := filepath.Join(root, "upstream")
	for _, dir := range []string{mainDir, depDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	writeFile(t, filepath.Join(depDir, "package.yml"), `
name: upstream
version: 1.0.0
`)
	commit := initGitRepo(t, depDir)

	writeFile(t, filepath.Join(mainDir, "package.yml"), `
name: app
dependencies:
  upstream:
    git: `+depDir+`
`)

	manifest, err := driver.LoadManifest(filepath.Join(mainDir, "package.yml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	cacheDir := filepath.Join(root, ".let")
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	installer := newDependencyInstaller(manifest, cacheDir)

	changed, _, err := installer.Install(lock)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile to change for git dependency")
	}
	pkg, ok := lock.Find("upstream")
	if !ok {
		t.Fatalf("git dependency not locked: %#v", lock.Packages)
	}
	if pkg.Revision != commit {
		t.Fatalf("locked revision %q, want %q", pkg.Revision, commit)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "deps", "upstream", "package.yml")); err != nil {
		t.Fatalf("cached clone missing manifest: %v", err)
	}

	// A cached clone is reused without re-fetching.
	changed, _, err = installer.Install(lock)
	if err != nil {
		t.Fatalf("second Install returned error: %v", err)
	}
	if changed {
		t.Fatalf("repeated install should not change the lock")
	}
}
