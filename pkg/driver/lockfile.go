package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Lockfile pins resolved dependency sources in package.lock.
type Lockfile struct {
	Path     string          `yaml:"-"`
	Root     string          `yaml:"root"`
	Tool     string          `yaml:"tool"`
	Packages []LockedPackage `yaml:"packages"`
}

// LockedPackage records one resolved dependency.
type LockedPackage struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version,omitempty"`
	Source   string `yaml:"source"`
	Revision string `yaml:"revision,omitempty"`
}

// NewLockfile returns an empty lockfile for the given root package.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{Root: root, Tool: tool}
}

// LoadLockfile reads and parses package.lock.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	lock.Path = path
	return &lock, nil
}

// WriteLockfile serializes the lockfile with packages in name order.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nothing to write")
	}
	sort.Slice(lock.Packages, func(i, j int) bool {
		return lock.Packages[i].Name < lock.Packages[j].Name
	})
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lockfile: prepare %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", path, err)
	}
	lock.Path = path
	return nil
}

// Find returns the locked entry for a dependency name.
func (l *Lockfile) Find(name string) (*LockedPackage, bool) {
	if l == nil {
		return nil, false
	}
	for idx := range l.Packages {
		if l.Packages[idx].Name == name {
			return &l.Packages[idx], true
		}
	}
	return nil, false
}

// Upsert records a resolved package, reporting whether the lock changed.
func (l *Lockfile) Upsert(pkg LockedPackage) bool {
	existing, ok := l.Find(pkg.Name)
	if ok {
		if *existing == pkg {
			return false
		}
		*existing = pkg
		return true
	}
	l.Packages = append(l.Packages, pkg)
	return true
}
