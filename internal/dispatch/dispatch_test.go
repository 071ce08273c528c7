package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/73ai/ru/internal/pattern"
	"github.com/73ai/ru/internal/scanner"
	"github.com/73ai/ru/internal/walker"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunProducesOneResultPerFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "foo\nbar\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "baz\nfoo\n")

	re, err := pattern.Compile("foo", pattern.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}

	files := make(chan walker.Result, 2)
	files <- walker.Result{Path: filepath.Join(dir, "a.txt"), Display: "a.txt"}
	files <- walker.Result{Path: filepath.Join(dir, "b.txt"), Display: "b.txt"}
	close(files)

	out := Run(context.Background(), files, re, scanner.Options{}, 2)

	seen := map[string]int{}
	for r := range out {
		seen[r.Fname] = len(r.Matches)
	}
	if len(seen) != 2 {
		t.Fatalf("expected results for 2 files, got %+v", seen)
	}
	if seen["a.txt"] != 1 || seen["b.txt"] != 1 {
		t.Fatalf("unexpected match counts: %+v", seen)
	}
}

func TestRunSkipsWalkerErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "foo\n")

	re, err := pattern.Compile("foo", pattern.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}

	files := make(chan walker.Result, 2)
	files <- walker.Result{Error: os.ErrPermission}
	files <- walker.Result{Path: filepath.Join(dir, "a.txt"), Display: "a.txt"}
	close(files)

	out := Run(context.Background(), files, re, scanner.Options{}, 1)

	var results []string
	for r := range out {
		results = append(results, r.Fname)
	}
	if len(results) != 1 || results[0] != "a.txt" {
		t.Fatalf("expected only a.txt, got %+v", results)
	}
}

func TestRunDropsMissingFilesSilently(t *testing.T) {
	dir := t.TempDir()
	re, err := pattern.Compile("foo", pattern.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}

	files := make(chan walker.Result, 1)
	files <- walker.Result{Path: filepath.Join(dir, "missing.txt"), Display: "missing.txt"}
	close(files)

	out := Run(context.Background(), files, re, scanner.Options{}, 1)

	count := 0
	for range out {
		count++
	}
	if count != 0 {
		t.Fatalf("expected no results for a missing file, got %d", count)
	}
}
