package lineindex

import "testing"

func TestBasicLineLookup(t *testing.T) {
	buf := []byte("foo\nbar\nfoo baz\n")
	idx := New(buf)

	if got := idx.LineAt(0); got != 0 {
		t.Fatalf("LineAt(0) = %d, want 0", got)
	}
	if got := idx.LineAt(4); got != 1 {
		t.Fatalf("LineAt(4) = %d, want 1", got)
	}
	if got := idx.LineAt(8); got != 2 {
		t.Fatalf("LineAt(8) = %d, want 2", got)
	}

	line, ok := idx.LineText(2)
	if !ok || string(line) != "foo baz" {
		t.Fatalf("LineText(2) = %q, %v", line, ok)
	}
}

func TestOffsetOfPastEOF(t *testing.T) {
	buf := []byte("a\nb\n")
	idx := New(buf)

	if got := idx.OffsetOf(5); got != len(buf) {
		t.Fatalf("OffsetOf past EOF = %d, want %d", got, len(buf))
	}
	if _, ok := idx.LineText(5); ok {
		t.Fatal("LineText past EOF should report false")
	}
}

func TestNoTrailingNewline(t *testing.T) {
	buf := []byte("a\nb")
	idx := New(buf)

	line, ok := idx.LineText(1)
	if !ok || string(line) != "b" {
		t.Fatalf("LineText(1) = %q, %v", line, ok)
	}
	if _, ok := idx.LineText(2); ok {
		t.Fatal("expected no line 2")
	}
}

func TestRandomAccessOrder(t *testing.T) {
	buf := []byte("1\n2\n3\n4\n5\n")
	idx := New(buf)

	// Query out of order to exercise the additive frontier growth.
	line, _ := idx.LineText(4)
	if string(line) != "5" {
		t.Fatalf("LineText(4) = %q", line)
	}
	line, _ = idx.LineText(0)
	if string(line) != "1" {
		t.Fatalf("LineText(0) = %q", line)
	}
	line, _ = idx.LineText(2)
	if string(line) != "3" {
		t.Fatalf("LineText(2) = %q", line)
	}
}

func TestLineAtEndOfBuffer(t *testing.T) {
	buf := []byte("a\nb\n")
	idx := New(buf)

	if got := idx.LineAt(len(buf)); got != 2 {
		t.Fatalf("LineAt(len(buf)) = %d, want 2", got)
	}
}
