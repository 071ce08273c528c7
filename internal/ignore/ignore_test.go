package ignore

import (
	"os"
	"path/filepath"
	"testing"
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

func TestLiteralExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, gitignoreName), "*.log\n")

	set := ReadDir(dir)
	stack := Stack{set}

	if !IsIgnored(filepath.Join(dir, "drop.log"), stack) {
		t.Fatal("expected drop.log to be ignored")
	}
	if IsIgnored(filepath.Join(dir, "keep.txt"), stack) {
		t.Fatal("expected keep.txt not to be ignored")
	}
}

func TestLiteralName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, gitignoreName), "secrets.env\n")

	set := ReadDir(dir)
	stack := Stack{set}

	if !IsIgnored(filepath.Join(dir, "secrets.env"), stack) {
		t.Fatal("expected literal name match")
	}
}

func TestGlobAtAnyDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, gitignoreName), "build/*.o\n")

	set := ReadDir(dir)
	stack := Stack{set}

	if !IsIgnored(filepath.Join(dir, "sub", "build", "x.o"), stack) {
		t.Fatal("expected nested build/*.o match via ** anchoring")
	}
	if IsIgnored(filepath.Join(dir, "build", "x.c"), stack) {
		t.Fatal("did not expect x.c to match")
	}
}

func TestAnchoredPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, gitignoreName), "/only_root.txt\n")

	set := ReadDir(dir)
	stack := Stack{set}

	if !IsIgnored(filepath.Join(dir, "only_root.txt"), stack) {
		t.Fatal("expected root-anchored match")
	}
	if IsIgnored(filepath.Join(dir, "sub", "only_root.txt"), stack) {
		t.Fatal("anchored pattern must not match at depth")
	}
}

func TestNegationRescues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, gitignoreName), "*.log\n!keep.log\n")

	set := ReadDir(dir)
	stack := Stack{set}

	if IsIgnored(filepath.Join(dir, "keep.log"), stack) {
		t.Fatal("expected negated pattern to rescue keep.log")
	}
	if !IsIgnored(filepath.Join(dir, "drop.log"), stack) {
		t.Fatal("expected drop.log still ignored")
	}
}

func TestCommentsAndBlankLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, gitignoreName), "# comment\n\n*.tmp\n")

	set := ReadDir(dir)
	stack := Stack{set}

	if !IsIgnored(filepath.Join(dir, "a.tmp"), stack) {
		t.Fatal("expected *.tmp to be parsed despite leading comment/blank line")
	}
}

func TestDirectoryOnlyMarkerIsNotSpecialCased(t *testing.T) {
	// spec.md 9: trailing "/" directory markers are a known, preserved
	// limitation -- the slash stays part of the literal text and so such a
	// rule will not match ordinary file paths.
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, gitignoreName), "build/\n")

	set := ReadDir(dir)
	stack := Stack{set}

	if IsIgnored(filepath.Join(dir, "build", "x.o"), stack) {
		t.Fatal("trailing-slash rules are not expected to match nested files")
	}
}

func TestStackDepthMatchesTraversalDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, gitignoreName), "*.log\n")
	sub := filepath.Join(root, "sub")
	writeFile(t, filepath.Join(sub, gitignoreName), "*.tmp\n")

	stack := Stack{ReadDir(root), ReadDir(sub)}
	if len(stack) != 2 {
		t.Fatalf("expected stack depth 2, got %d", len(stack))
	}

	if !IsIgnored(filepath.Join(sub, "a.log"), stack) {
		t.Fatal("expected outer rule to apply at depth")
	}
	if !IsIgnored(filepath.Join(sub, "b.tmp"), stack) {
		t.Fatal("expected inner rule to apply")
	}
}
