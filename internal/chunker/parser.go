package chunker

import (
	"regexp"
	"strings"

	"github.com/dgallion1/semchunk/internal/document"
)

var (
	headerLine   = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	listItemLine = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s+`)
	pageArtifact = regexp.MustCompile(`(?i)^page\s+\d+$`)
)

// sectionParser walks page text with a cursor, honoring protected-region
// boundaries and maintaining the breadcrumb stack.
type sectionParser struct {
	text     string
	regions  []document.ProtectedRegion
	crumbs   []string
	sections []document.SemanticSection

	listBuf   []string
	listStart int
	listEnd   int
}

// ParseSections classifies page text into ordered semantic sections.
// Emission order equals document order; blank lines and HTML comment lines
// are the only intentional drops.
func ParseSections(text string, regions []document.ProtectedRegion) []document.SemanticSection {
	p := &sectionParser{text: text, regions: regions}
	p.run()
	return p.sections
}

func (p *sectionParser) run() {
	pos := 0
	ri := 0

	for pos < len(p.text) {
		// Protected region at the cursor takes priority over line reads.
		if ri < len(p.regions) && pos >= p.regions[ri].Start {
			r := p.regions[ri]
			p.flushList()
			p.sections = append(p.sections, document.SemanticSection{
				Kind:        r.Kind,
				Content:     strings.TrimSpace(r.Content),
				Breadcrumbs: copyCrumbs(p.crumbs),
				Start:       r.Start,
				End:         r.End,
			})
			if r.End > pos {
				pos = r.End
			} else {
				pos++ // zero-width safety
			}
			ri++
			continue
		}

		lineEnd := strings.IndexByte(p.text[pos:], '\n')
		next := len(p.text)
		if lineEnd >= 0 {
			lineEnd += pos
			next = lineEnd + 1
		} else {
			lineEnd = len(p.text)
		}
		// Never read across an upcoming region start.
		if ri < len(p.regions) && p.regions[ri].Start > pos && p.regions[ri].Start < next {
			lineEnd = p.regions[ri].Start
			next = p.regions[ri].Start
		}
		line := p.text[pos:lineEnd]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "<!--"):
			// Dropped.

		case headerLine.MatchString(trimmed):
			p.flushList()
			m := headerLine.FindStringSubmatch(trimmed)
			level := len(m[1])
			title := m[2]
			if level == 1 && pageArtifact.MatchString(title) {
				break // extractor page-number artifact, not a real section
			}
			if level == 1 {
				p.crumbs = []string{title}
			} else {
				keep := level - 1
				if keep > len(p.crumbs) {
					keep = len(p.crumbs)
				}
				p.crumbs = append(copyCrumbs(p.crumbs[:keep]), title)
			}
			kind := document.KindMinorHeader
			if level <= 2 {
				kind = document.KindMajorHeader
			}
			p.sections = append(p.sections, document.SemanticSection{
				Kind:        kind,
				Content:     title,
				Breadcrumbs: copyCrumbs(p.crumbs),
				Start:       pos,
				End:         lineEnd,
			})

		case listItemLine.MatchString(line):
			if len(p.listBuf) == 0 {
				p.listStart = pos
			}
			p.listBuf = append(p.listBuf, line)
			p.listEnd = lineEnd

		default:
			p.flushList()
			p.sections = append(p.sections, document.SemanticSection{
				Kind:        document.KindText,
				Content:     trimmed,
				Breadcrumbs: copyCrumbs(p.crumbs),
				Start:       pos,
				End:         lineEnd,
			})
		}

		pos = next
	}

	p.flushList()
}

// flushList closes an open list run as a single List section.
func (p *sectionParser) flushList() {
	if len(p.listBuf) == 0 {
		return
	}
	p.sections = append(p.sections, document.SemanticSection{
		Kind:        document.KindList,
		Content:     strings.Join(p.listBuf, "\n"),
		Breadcrumbs: copyCrumbs(p.crumbs),
		Start:       p.listStart,
		End:         p.listEnd,
	})
	p.listBuf = nil
}

func copyCrumbs(crumbs []string) []string {
	if len(crumbs) == 0 {
		return nil
	}
	out := make([]string, len(crumbs))
	copy(out, crumbs)
	return out
}
