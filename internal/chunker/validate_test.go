package chunker

import (
	"fmt"
	"testing"

	"github.com/dgallion1/semchunk/internal/document"
)

func validChunk(content string) document.Chunk {
	return BuildChunk(content, []string{"Section"}, "doc.pdf", 1, document.KindText)
}

func TestValidator_AcceptsValidChunk(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)
	if !v.Accept(validChunk("A perfectly ordinary paragraph.")) {
		t.Fatal("expected valid chunk to be accepted")
	}
	if v.ValidationFailures() != 0 || v.DuplicatesPrevented() != 0 {
		t.Errorf("unexpected counters: failures=%d dups=%d", v.ValidationFailures(), v.DuplicatesPrevented())
	}
}

func TestValidator_HardFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*document.Chunk)
	}{
		{"empty id", func(c *document.Chunk) { c.ID = "" }},
		{"empty text", func(c *document.Chunk) { c.Text = "" }},
		{"empty content", func(c *document.Chunk) { c.ContentOnly = "" }},
		{"whitespace content", func(c *document.Chunk) { c.ContentOnly = "   \n\t" }},
		{"missing source", func(c *document.Chunk) { c.Metadata.Source = "" }},
		{"zero page", func(c *document.Chunk) { c.Metadata.PageNumber = 0 }},
		{"missing type", func(c *document.Chunk) { c.Metadata.Type = "" }},
		{"nil breadcrumbs", func(c *document.Chunk) { c.Metadata.Breadcrumbs = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(DefaultConfig(), nil)
			c := validChunk("Some content for validation.")
			tt.mutate(&c)

			if v.Accept(c) {
				t.Error("expected rejection")
			}
			if v.ValidationFailures() != 1 {
				t.Errorf("expected 1 failure, got %d", v.ValidationFailures())
			}
		})
	}
}

func TestValidator_DuplicateWithinWindow(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)
	c := validChunk("Repeated content.")

	if !v.Accept(c) {
		t.Fatal("first copy should be accepted")
	}
	if v.Accept(c) {
		t.Fatal("second copy within the window should be dropped")
	}
	if v.DuplicatesPrevented() != 1 {
		t.Errorf("expected 1 duplicate prevented, got %d", v.DuplicatesPrevented())
	}
	if v.ValidationFailures() != 0 {
		t.Errorf("duplicates are not validation failures, got %d", v.ValidationFailures())
	}
}

func TestValidator_DuplicateBeyondWindow(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil)
	c := validChunk("Recurring boilerplate.")

	if !v.Accept(c) {
		t.Fatal("first copy should be accepted")
	}
	for i := 0; i < DedupWindow; i++ {
		if !v.Accept(validChunk(fmt.Sprintf("Filler paragraph number %d.", i))) {
			t.Fatalf("filler %d unexpectedly rejected", i)
		}
	}

	// The original id has been evicted from the trailing window.
	if !v.Accept(c) {
		t.Error("expected re-acceptance once the id left the window")
	}
	if v.DuplicatesPrevented() != 0 {
		t.Errorf("expected 0 duplicates prevented, got %d", v.DuplicatesPrevented())
	}
}

func TestValidator_OversizedAcceptedWithWarning(t *testing.T) {
	cfg := Config{TargetSize: 30, MinSize: 10, MaxSize: 60}
	v := NewValidator(cfg, nil)

	big := make([]byte, cfg.MaxSize*2)
	for i := range big {
		big[i] = 'x'
	}
	c := BuildChunk(string(big), []string{"S"}, "doc.pdf", 1, document.KindTable)

	if !v.Accept(c) {
		t.Error("oversized protected chunk must be accepted, not rejected")
	}
}
