package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestResolveExecutable_FirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "build", "dht_crawler")
	third := filepath.Join(dir, "dht_crawler")
	touch(t, second)
	touch(t, third)

	got, err := ResolveExecutable([]string{
		filepath.Join(dir, "missing", "dht_crawler"),
		second,
		third,
	}, "")
	if err != nil {
		t.Fatalf("ResolveExecutable() error = %v", err)
	}
	if got != second {
		t.Errorf("ResolveExecutable() = %q, want %q", got, second)
	}
}

func TestResolveExecutable_RelativeToWorkdir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "build", "dht_crawler"))

	got, err := ResolveExecutable([]string{"./build/dht_crawler"}, dir)
	if err != nil {
		t.Fatalf("ResolveExecutable() error = %v", err)
	}
	if got != filepath.Join(dir, "build", "dht_crawler") {
		t.Errorf("ResolveExecutable() = %q", got)
	}
}

func TestResolveExecutable_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "dht_crawler"), 0o755); err != nil {
		t.Fatal(err)
	}
	real := filepath.Join(dir, "bin", "dht_crawler")
	touch(t, real)

	got, err := ResolveExecutable([]string{
		filepath.Join(dir, "dht_crawler"), // a directory, not a binary
		real,
	}, "")
	if err != nil {
		t.Fatalf("ResolveExecutable() error = %v", err)
	}
	if got != real {
		t.Errorf("ResolveExecutable() = %q, want %q", got, real)
	}
}

func TestResolveExecutable_NotFound(t *testing.T) {
	_, err := ResolveExecutable([]string{filepath.Join(t.TempDir(), "nope")}, "")
	if err == nil {
		t.Fatal("ResolveExecutable() error = nil, want spawn error")
	}
	if !core.IsSpawnFailure(err) {
		t.Errorf("error category = %v, want spawn", core.GetCategory(err))
	}
}
