package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func mkfile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func drain(t *testing.T, w *Walker, root string) []Result {
	t.Helper()
	ch, err := w.Walk(root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	var got []Result
	for r := range ch {
		got = append(got, r)
	}
	return got
}

func TestWalkSkipsHiddenByDefault(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "visible.go"), "package a\n")
	mkfile(t, filepath.Join(root, ".hidden.go"), "package a\n")

	results := drain(t, New(DefaultConfig()), root)
	if len(results) != 1 || filepath.Base(results[0].Path) != "visible.go" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestWalkIncludesHiddenWhenRequested(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "visible.go"), "package a\n")
	mkfile(t, filepath.Join(root, ".hidden.go"), "package a\n")

	cfg := DefaultConfig()
	cfg.DoHidden = true
	results := drain(t, New(cfg), root)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
}

func TestWalkPrunesIgnoredDirectorySubtree(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, ".gitignore"), "build\n")
	mkfile(t, filepath.Join(root, "build", "out.o"), "x")
	mkfile(t, filepath.Join(root, "build", "nested", "deep.o"), "x")
	mkfile(t, filepath.Join(root, "main.go"), "package a\n")

	results := drain(t, New(DefaultConfig()), root)
	if len(results) != 1 || filepath.Base(results[0].Path) != "main.go" {
		t.Fatalf("expected only main.go, got %+v", results)
	}
}

func TestWalkIgnoreStackTracksDescentAndAscent(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, ".gitignore"), "*.log\n")
	mkfile(t, filepath.Join(root, "sub", ".gitignore"), "*.tmp\n")
	mkfile(t, filepath.Join(root, "sub", "a.log"), "x")
	mkfile(t, filepath.Join(root, "sub", "a.tmp"), "x")
	mkfile(t, filepath.Join(root, "sub", "a.keep"), "x")
	// A sibling directory must not see sub's ignore rules once the walker
	// ascends back out of sub.
	mkfile(t, filepath.Join(root, "other", "b.tmp"), "x")

	results := drain(t, New(DefaultConfig()), root)
	var names []string
	for _, r := range results {
		names = append(names, r.Display)
	}

	wantPresent := map[string]bool{"sub/a.keep": false, "other/b.tmp": false}
	for _, n := range names {
		if _, ok := wantPresent[n]; ok {
			wantPresent[n] = true
		}
		if n == "sub/a.log" || n == "sub/a.tmp" {
			t.Fatalf("expected %s to be ignored, got results %+v", n, results)
		}
	}
	for n, seen := range wantPresent {
		if !seen {
			t.Fatalf("expected %s to survive the walk, got %+v", n, results)
		}
	}
}

func TestWalkMaxDepthRootOnly(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "top.go"), "package a\n")
	mkfile(t, filepath.Join(root, "sub", "deep.go"), "package a\n")

	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	results := drain(t, New(cfg), root)
	if len(results) != 1 || results[0].Display != "top.go" {
		t.Fatalf("max_depth=0 should yield only the root file, got %+v", results)
	}
}

func TestWalkMaxDepthOneLevel(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "top.go"), "package a\n")
	mkfile(t, filepath.Join(root, "sub", "deep.go"), "package a\n")
	mkfile(t, filepath.Join(root, "sub", "nested", "deeper.go"), "package a\n")

	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	results := drain(t, New(cfg), root)
	if len(results) != 2 {
		t.Fatalf("max_depth=1 should yield root+1 level, got %+v", results)
	}
}

func TestNormalizeDisplayPath(t *testing.T) {
	cases := map[string]string{
		"./foo/bar": "foo/bar",
		"//foo":     "/foo",
		"foo//bar":  "foo//bar",
		"foo":       "foo",
	}
	for in, want := range cases {
		if got := normalizeDisplay(in); got != want {
			t.Errorf("normalizeDisplay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWalkSkipsDirectoryErrorsWithoutAbortingSiblings(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "ok.go"), "package a\n")
	unreadable := filepath.Join(root, "locked")
	if err := os.MkdirAll(unreadable, 0o000); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(unreadable, 0o755)

	results := drain(t, New(DefaultConfig()), root)
	var sawOK bool
	for _, r := range results {
		if r.Display == "ok.go" {
			sawOK = true
		}
	}
	if !sawOK {
		t.Fatalf("expected ok.go to still be found despite a sibling directory error, got %+v", results)
	}
}
