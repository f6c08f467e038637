package interpreter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFixtures(t *testing.T) {
	root := filepath.Join("..", "..", "fixtures")
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fixtureDir := filepath.Join(root, entry.Name())
		t.Run(entry.Name(), func(t *testing.T) {
			runFixture(t, fixtureDir)
		})
	}
}
