package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/semchunk/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// pageRef is one entry of the metadata.json pages array.
type pageRef struct {
	PageNumber int    `json:"page_number"`
	FileName   string `json:"file_name"`
}

type metadata struct {
	Document string    `json:"document"`
	Pages    []pageRef `json:"pages"`
}

// Load reads an extracted-document directory: metadata.json plus the
// referenced markdown files under pages/. A missing metadata file or page
// file is fatal for the document.
func Load(dir string) (*document.Extracted, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	if len(meta.Pages) == 0 {
		return nil, fmt.Errorf("metadata lists no pages")
	}

	doc := &document.Extracted{Name: meta.Document}
	if doc.Name == "" {
		doc.Name = filepath.Base(dir)
	}

	for _, ref := range meta.Pages {
		data, err := os.ReadFile(filepath.Join(dir, "pages", ref.FileName))
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", ref.PageNumber, err)
		}
		doc.Pages = append(doc.Pages, document.Page{
			Number: ref.PageNumber,
			File:   ref.FileName,
			Text:   string(data),
		})
	}

	if title := DocumentTitle([]byte(doc.Pages[0].Text)); title != "" {
		doc.Title = title
	} else {
		doc.Title = doc.Name
	}

	return doc, nil
}

// DocumentTitle returns the text of the first ATX heading in the markdown
// source, or "" if there is none.
func DocumentTitle(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := strings.TrimSpace(string(h.Text(src)))
			if title != "" {
				return title
			}
		}
	}
	return ""
}
