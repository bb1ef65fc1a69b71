package checkls

import (
	"testing"
)

func TestContentSpan(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantStart int
		wantEnd   int
	}{
		{"leading and trailing spaces", "  foo := bar()  ", 2, 14},
		{"no whitespace", "foo()", 0, 5},
		{"tab indent", "\tx", 1, 2},
		{"blank line", "", 0, 0},
		{"whitespace only", "   \t", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := contentSpan(tt.line)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("contentSpan(%q) = (%d, %d), want (%d, %d)", tt.line, start, end, tt.wantStart, tt.wantEnd)
			}
			if start > end || end > len(tt.line) {
				t.Errorf("contentSpan(%q) = (%d, %d): span out of bounds", tt.line, start, end)
			}
		})
	}
}

func TestDocument_SpanForLine(t *testing.T) {
	doc := newDocument(pathToURI("/tmp/main.go"), 1, "package main\n\n  foo := bar()  \n")

	tests := []struct {
		name      string
		line      int
		wantStart int
		wantEnd   int
	}{
		{"first line", 1, 0, 12},
		{"blank line", 2, 0, 0},
		{"indented line", 3, 2, 14},
		{"stale line number", 1000, 0, 1},
		{"zero line", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := doc.SpanForLine(tt.line)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("SpanForLine(%d) = (%d, %d), want (%d, %d)", tt.line, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}

	t.Run("missing document", func(t *testing.T) {
		var missing *Document
		start, end := missing.SpanForLine(1)
		if start != 0 || end != 1 {
			t.Errorf("SpanForLine(1) = (%d, %d), want (0, 1)", start, end)
		}
	})
}

func TestDocumentStore(t *testing.T) {
	s := NewDocumentStore()
	uri := pathToURI("/tmp/main.go")

	if got := s.Get(uri); got != nil {
		t.Fatalf("Get() = %v, want nil before open", got)
	}

	s.Open(uri, 1, "package main\n")
	doc := s.Get(uri)
	if doc == nil {
		t.Fatal("Get() = nil after open")
	}
	if line, ok := doc.Line(0); !ok || line != "package main" {
		t.Errorf("Line(0) = %q, %v", line, ok)
	}

	s.Update(uri, 2, "package main\n\nfunc main() {}\n")
	if got := s.Get(uri); got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
	if doc.Version != 1 {
		t.Errorf("snapshot mutated: Version = %d, want 1", doc.Version)
	}

	s.Close(uri)
	if got := s.Get(uri); got != nil {
		t.Errorf("Get() = %v, want nil after close", got)
	}
}
