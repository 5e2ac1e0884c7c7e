package document

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Kind classifies regions, sections, and chunks.
type Kind string

const (
	KindText        Kind = "text"
	KindTable       Kind = "table"
	KindImage       Kind = "image"
	KindCode        Kind = "code"
	KindList        Kind = "list"
	KindMajorHeader Kind = "major_header"
	KindMinorHeader Kind = "minor_header"
)

// IsProtected reports whether the kind marks an atomic region that must
// never be split across chunks.
func (k Kind) IsProtected() bool {
	return k == KindTable || k == KindImage || k == KindCode
}

// ChunkType maps a section kind to the chunk metadata type. Lists and
// headers carry plain text downstream.
func (k Kind) ChunkType() Kind {
	if k.IsProtected() {
		return k
	}
	return KindText
}

// Page is one page of an extracted document, resolved to its markdown text.
type Page struct {
	Number int    `json:"page_number"`
	File   string `json:"file_name,omitempty"`
	Text   string `json:"text"`
}

// Extracted is a whole extracted document as handed over by the upstream
// extraction stage.
type Extracted struct {
	Name  string `json:"document"`
	Title string `json:"title,omitempty"`
	Pages []Page `json:"pages"`
}

// ProtectedRegion is a contiguous span of page text that must appear whole
// in exactly one chunk. Regions returned by the detector are sorted by
// Start and mutually non-overlapping.
type ProtectedRegion struct {
	Start   int
	End     int
	Kind    Kind
	Content string
}

// SemanticSection is one classified unit of document structure produced by
// the section parser before accumulation.
type SemanticSection struct {
	Kind        Kind
	Content     string
	Breadcrumbs []string
	Start       int
	End         int
}

// Hierarchy is the typed rendering of a chunk's breadcrumb path.
type Hierarchy struct {
	Levels   []string `json:"levels"`
	FullPath string   `json:"full_path"`
	Depth    int      `json:"depth"`
}

// QualityMetrics are cheap content heuristics carried on every chunk.
type QualityMetrics struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	HasNumericalData  bool    `json:"has_numerical_data"`
	HasDates          bool    `json:"has_dates"`
	HasNamedEntities  bool    `json:"has_named_entities"`
	HasExhibits       bool    `json:"has_exhibits"`
}

// Metadata carries the fixed, explicitly typed chunk metadata.
type Metadata struct {
	Source            string         `json:"source"`
	PageNumber        int            `json:"page_number"`
	Type              Kind           `json:"type"`
	Breadcrumbs       []string       `json:"breadcrumbs"`
	Hierarchy         Hierarchy      `json:"hierarchical_context"`
	ImagePath         string         `json:"image_path,omitempty"`
	SourceAttribution string         `json:"source_attribution,omitempty"`
	HasCitations      bool           `json:"has_citations"`
	CharCount         int            `json:"char_count"`
	Quality           QualityMetrics `json:"quality_metrics"`
	MergedFromPages   []int          `json:"merged_from_pages,omitempty"`
	IsMerged          bool           `json:"is_merged"`
}

// Chunk is the unit handed downstream for embedding and retrieval.
type Chunk struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	ContentOnly string   `json:"content_only"`
	Metadata    Metadata `json:"metadata"`
}

// BreadcrumbPath renders a breadcrumb stack as a single path string.
func BreadcrumbPath(crumbs []string) string {
	return strings.Join(crumbs, " > ")
}

// NewHierarchy builds the typed hierarchy view of a breadcrumb stack.
func NewHierarchy(crumbs []string) Hierarchy {
	levels := make([]string, len(crumbs))
	copy(levels, crumbs)
	return Hierarchy{
		Levels:   levels,
		FullPath: BreadcrumbPath(crumbs),
		Depth:    len(crumbs),
	}
}

// RenderText produces the embedded text for a chunk: the content prefixed
// with its breadcrumb context when one exists.
func RenderText(content string, crumbs []string) string {
	if len(crumbs) == 0 {
		return content
	}
	return "Context: " + BreadcrumbPath(crumbs) + "\n\n" + content
}

// ContentID computes the stable chunk id: a sha256 digest of the rendered
// text. Collisions are treated as impossible.
func ContentID(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h[:])
}
