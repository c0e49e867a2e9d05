// Package storetest copies the sample league in data/ into a temp directory
// so tests can write results without touching the checked-in files.
package storetest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

var sampleFiles = []string{"groups.json", "teams.json", "fixtures.json", "results.json"}

// SampleDir returns the repository's data/ directory.
func SampleDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "data")
}

// CopySample copies the sample league into a fresh temp directory and
// returns its path.
func CopySample(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range sampleFiles {
		data, err := os.ReadFile(filepath.Join(SampleDir(), name))
		if err != nil {
			t.Fatalf("read sample %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write sample %s: %v", name, err)
		}
	}
	return dir
}
