package chunker

import (
	"strings"

	"github.com/dgallion1/semchunk/internal/document"
)

// accumulator greedily packs consolidated sections into size-bounded chunk
// drafts. Protected blocks and list runs always stand alone; text gathers
// in the buffer until target size or a major semantic boundary.
type accumulator struct {
	cfg    Config
	source string
	page   int

	buf    []string
	bufLen int
	crumbs []string

	// pending holds the breadcrumb path of a major header whose flush was
	// deferred because the buffer was still under min size. The old path
	// stays active until that flush happens.
	pending    []string
	pendingSet bool

	drafts []document.Chunk
}

// AccumulateChunks converts consolidated sections into chunk drafts for one
// page. Drafts still need validation before acceptance.
func AccumulateChunks(sections []document.SemanticSection, cfg Config, source string, page int) []document.Chunk {
	a := &accumulator{cfg: cfg, source: source, page: page}

	for _, s := range sections {
		switch {
		case s.Kind.IsProtected() || s.Kind == document.KindList:
			a.flushBuffer()
			a.adoptPending()
			a.emit(s.Content, s.Breadcrumbs, s.Kind)

		case s.Kind == document.KindMajorHeader:
			switch {
			case a.bufLen == 0:
				a.crumbs = s.Breadcrumbs
				a.pendingSet = false
			case a.bufLen >= cfg.MinSize:
				a.flushBuffer()
				a.crumbs = s.Breadcrumbs
				a.pendingSet = false
			default:
				// Sub-minimum buffer carries forward under the old path
				// until it reaches min size. Keeps short trailing content
				// from becoming an orphan chunk.
				a.pending = s.Breadcrumbs
				a.pendingSet = true
			}

		case s.Kind == document.KindMinorHeader:
			if a.pendingSet {
				a.pending = s.Breadcrumbs
			} else {
				a.crumbs = s.Breadcrumbs
			}

		default: // text
			if a.bufLen > 0 {
				a.bufLen += 2
			}
			a.buf = append(a.buf, s.Content)
			a.bufLen += len(s.Content)

			if a.pendingSet && a.bufLen >= cfg.MinSize {
				a.flushBuffer()
				a.adoptPending()
			} else if a.bufLen >= cfg.TargetSize {
				a.flushBuffer()
				a.adoptPending()
			}
		}
	}

	a.flushBuffer()
	return a.drafts
}

// flushBuffer closes the accumulation buffer under the currently active
// breadcrumb path, splitting at sentence boundaries if the buffered text
// exceeds max size.
func (a *accumulator) flushBuffer() {
	if a.bufLen == 0 {
		return
	}
	text := strings.Join(a.buf, "\n\n")
	a.buf = nil
	a.bufLen = 0

	if len(text) <= a.cfg.MaxSize {
		a.emit(text, a.crumbs, document.KindText)
		return
	}
	for _, part := range splitOversized(text, a.cfg) {
		a.emit(part, a.crumbs, document.KindText)
	}
}

func (a *accumulator) adoptPending() {
	if a.pendingSet {
		a.crumbs = a.pending
		a.pendingSet = false
	}
}

func (a *accumulator) emit(content string, crumbs []string, kind document.Kind) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	a.drafts = append(a.drafts, BuildChunk(content, crumbs, a.source, a.page, kind))
}

// splitOversized breaks text that exceeds max size into sentence-bounded
// parts. A part closes once adding the next sentence would push it past
// target size and it already holds at least min size.
func splitOversized(text string, cfg Config) []string {
	sentences := splitSentences(text)

	var parts []string
	var current []string
	curLen := 0

	for _, sent := range sentences {
		add := len(sent)
		if curLen > 0 {
			add++
		}
		if curLen+add > cfg.TargetSize && curLen >= cfg.MinSize {
			parts = append(parts, strings.Join(current, " "))
			current = nil
			curLen = 0
			add = len(sent)
		}
		current = append(current, sent)
		curLen += add
	}
	if curLen > 0 {
		parts = append(parts, strings.Join(current, " "))
	}
	return parts
}

// BuildChunk renders one chunk draft: content hash id, context-prefixed
// text, and fully populated metadata.
func BuildChunk(content string, crumbs []string, source string, page int, kind document.Kind) document.Chunk {
	text := document.RenderText(content, crumbs)

	breadcrumbs := copyCrumbs(crumbs)
	if breadcrumbs == nil {
		breadcrumbs = []string{}
	}

	meta := document.Metadata{
		Source:            source,
		PageNumber:        page,
		Type:              kind.ChunkType(),
		Breadcrumbs:       breadcrumbs,
		Hierarchy:         document.NewHierarchy(crumbs),
		SourceAttribution: extractSourceAttribution(content),
		HasCitations:      hasCitations(content),
		CharCount:         len(content),
		Quality:           ComputeQuality(content),
	}
	if kind == document.KindImage {
		meta.ImagePath = extractImagePath(content)
	}

	return document.Chunk{
		ID:          document.ContentID(text),
		Text:        text,
		ContentOnly: content,
		Metadata:    meta,
	}
}
