package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"let/interpreter-go/pkg/ast"
	"let/interpreter-go/pkg/driver"
	"let/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "let-cli 0.0.0-dev"

var errManifestNotFound = errors.New("package.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  let run [target|program.json]   evaluate a program
  let deps install                resolve manifest dependencies
  let deps update [names...]      refresh resolved dependencies
  let --version`)
}

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	manifest, manifestErr := loadManifestFrom(".")
	if manifestErr != nil && !errors.Is(manifestErr, errManifestNotFound) {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", manifestErr)
		return 1
	}

	if len(args) == 0 {
		if manifest == nil {
			fmt.Fprintln(os.Stderr, "let run requires a manifest target or program file (package.yml not found)")
			return 1
		}
		target, err := manifest.DefaultExecutableTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
		return executeEntry(resolveTargetMain(manifest, target))
	}

	candidate := args[0]
	if manifest != nil {
		if target, ok := manifest.FindTarget(candidate); ok {
			if target.Main == "" {
				fmt.Fprintf(os.Stderr, "target %q has no main entrypoint\n", candidate)
				return 1
			}
			return executeEntry(resolveTargetMain(manifest, target))
		}
	}
	return executeEntry(candidate)
}

func executeEntry(entry string) int {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		fmt.Fprintln(os.Stderr, "let run requires a program file")
		return 1
	}
	program, err := loadProgram(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}

	interp := interpreter.New()
	value, err := interp.Evaluate(program, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, value.String())
	return 0
}

// loadProgram reads a JSON-encoded expression tree.
func loadProgram(path string) (ast.Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	expr, err := ast.DecodeExpression(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return expr, nil
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	manifestPath, err := findManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func resolveTargetMain(manifest *driver.Manifest, target *driver.TargetSpec) string {
	mainPath := filepath.FromSlash(strings.TrimSpace(target.Main))
	if filepath.IsAbs(mainPath) {
		return filepath.Clean(mainPath)
	}
	return filepath.Join(filepath.Dir(manifest.Path), mainPath)
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, "package.yml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no package.yml found from %s upwards: %w", origin, errManifestNotFound)
		}
		dir = parent
	}
}

func resolveLetHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("LET_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve LET_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".let"), nil
}

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "let deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "let deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall(nil)
	case "update":
		return runDepsInstall(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

// runDepsInstall resolves dependencies and rewrites package.lock. A non-nil
// refresh list discards the cached copies of those dependencies first.
func runDepsInstall(refresh []string) int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	cacheDir, err := resolveLetHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LET_HOME: %v\n", err)
		return 1
	}

	lockPath := filepath.Join(filepath.Dir(manifest.Path), "package.lock")
	lock, err := driver.LoadLockfile(lockPath)
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	lock.Tool = cliToolVersion

	installer := newDependencyInstaller(manifest, cacheDir)
	if len(refresh) > 0 {
		if err := installer.Discard(refresh); err != nil {
			fmt.Fprintf(os.Stderr, "failed to refresh dependencies: %v\n", err)
			return 1
		}
	}
	changed, logs, err := installer.Install(lock)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "dependency resolution failed: %v\n", err)
		return 1
	}

	if changed {
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Updated package.lock: %s\n", lockPath)
	} else {
		fmt.Fprintln(os.Stdout, "Dependencies already up to date.")
	}
	return 0
}

type dependencyInstaller struct {
	manifest *driver.Manifest
	cacheDir string
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string) *dependencyInstaller {
	return &dependencyInstaller{manifest: manifest, cacheDir: cacheDir}
}

func (di *dependencyInstaller) depCachePath(name string) string {
	return filepath.Join(di.cacheDir, "deps", name)
}

// Discard removes cached copies so the next install re-fetches them.
func (di *dependencyInstaller) Discard(names []string) error {
	for _, name := range names {
		if _, ok := di.manifest.Dependencies[name]; !ok {
			return fmt.Errorf("unknown dependency %q", name)
		}
		if err := os.RemoveAll(di.depCachePath(name)); err != nil {
			return fmt.Errorf("discard %s: %w", name, err)
		}
	}
	return nil
}

// Install resolves every manifest dependency, reporting whether the lockfile
// changed and a human-readable log of what happened.
func (di *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	names := make([]string, 0, len(di.manifest.Dependencies))
	for name := range di.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := false
	var logs []string
	for _, name := range names {
		dep := di.manifest.Dependencies[name]
		switch {
		case dep.Path != "":
			pkg, err := di.resolvePathDependency(name, dep)
			if err != nil {
				return changed, logs, err
			}
			logs = append(logs, fmt.Sprintf("resolved %s -> %s", name, pkg.Source))
			if lock.Upsert(*pkg) {
				changed = true
			}
		case dep.Git != "":
			pkg, err := di.resolveGitDependency(name, dep)
			if err != nil {
				return changed, logs, err
			}
			logs = append(logs, fmt.Sprintf("resolved %s -> %s@%s", name, pkg.Source, pkg.Revision))
			if lock.Upsert(*pkg) {
				changed = true
			}
		default:
			logs = append(logs, fmt.Sprintf("skipped %s: no registry configured for version dependencies", name))
		}
	}
	return changed, logs, nil
}

func (di *dependencyInstaller) resolvePathDependency(name string, dep *driver.DependencySpec) (*driver.LockedPackage, error) {
	depDir := dep.Path
	if !filepath.IsAbs(depDir) {
		depDir = filepath.Join(filepath.Dir(di.manifest.Path), filepath.FromSlash(dep.Path))
	}
	depManifest, err := driver.LoadManifest(filepath.Join(depDir, "package.yml"))
	if err != nil {
		return nil, fmt.Errorf("dependency %s: %w", name, err)
	}
	return &driver.LockedPackage{
		Name:    depManifest.Name,
		Version: depManifest.Version,
		Source:  "path:" + filepath.ToSlash(dep.Path),
	}, nil
}

// resolveGitDependency clones (or reuses) the repository in the cache and
// pins the revision the worktree ends up on.
func (di *dependencyInstaller) resolveGitDependency(name string, dep *driver.DependencySpec) (*driver.LockedPackage, error) {
	cachePath := di.depCachePath(name)

	repo, err := git.PlainOpen(cachePath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		opts := &git.CloneOptions{URL: dep.Git}
		switch {
		case dep.Branch != "":
			opts.ReferenceName = plumbing.NewBranchReferenceName(dep.Branch)
			opts.SingleBranch = true
		case dep.Tag != "":
			opts.ReferenceName = plumbing.NewTagReferenceName(dep.Tag)
			opts.SingleBranch = true
		}
		repo, err = git.PlainClone(cachePath, false, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("dependency %s: clone %s: %w", name, dep.Git, err)
	}

	if dep.Rev != "" {
		worktree, err := repo.Worktree()
		if err != nil {
			return nil, fmt.Errorf("dependency %s: worktree: %w", name, err)
		}
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(dep.Rev)}); err != nil {
			return nil, fmt.Errorf("dependency %s: checkout %s: %w", name, dep.Rev, err)
		}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("dependency %s: resolve HEAD: %w", name, err)
	}
	return &driver.LockedPackage{
		Name:     name,
		Source:   "git:" + dep.Git,
		Revision: head.Hash().String(),
	}, nil
}
