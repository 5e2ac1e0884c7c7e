package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, meta string, pages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(dir, "pages", name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	meta := `{
		"document": "report.pdf",
		"pages": [
			{"page_number": 1, "file_name": "p1.md"},
			{"page_number": 2, "file_name": "p2.md"}
		]
	}`
	dir := writeDoc(t, meta, map[string]string{
		"p1.md": "# Quarterly Report\n\nBody text.\n",
		"p2.md": "More text.\n",
	})

	doc, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "report.pdf" {
		t.Errorf("expected name report.pdf, got %q", doc.Name)
	}
	if doc.Title != "Quarterly Report" {
		t.Errorf("expected title from first heading, got %q", doc.Title)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 || doc.Pages[0].File != "p1.md" {
		t.Errorf("unexpected page 1: %+v", doc.Pages[0])
	}
	if doc.Pages[1].Text != "More text.\n" {
		t.Errorf("unexpected page 2 text %q", doc.Pages[1].Text)
	}
}

func TestLoad_NameFallsBackToDirectory(t *testing.T) {
	meta := `{"pages": [{"page_number": 1, "file_name": "p1.md"}]}`
	dir := writeDoc(t, meta, map[string]string{"p1.md": "No heading here.\n"})

	doc, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != filepath.Base(dir) {
		t.Errorf("expected directory-name fallback, got %q", doc.Name)
	}
	if doc.Title != doc.Name {
		t.Errorf("expected title fallback to name, got %q", doc.Title)
	}
}

func TestLoad_MissingMetadata(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing metadata.json")
	}
}

func TestLoad_MissingPageFile(t *testing.T) {
	meta := `{"document": "x.pdf", "pages": [{"page_number": 1, "file_name": "absent.md"}]}`
	dir := writeDoc(t, meta, nil)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for missing page file")
	}
}

func TestLoad_NoPages(t *testing.T) {
	dir := writeDoc(t, `{"document": "x.pdf", "pages": []}`, nil)
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for empty pages list")
	}
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"# The Title\n\nBody.\n", "The Title"},
		{"Some prose first.\n\n## Later Heading\n", "Later Heading"},
		{"no headings at all\n", ""},
	}
	for _, tt := range tests {
		if got := DocumentTitle([]byte(tt.src)); got != tt.want {
			t.Errorf("DocumentTitle(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
