package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/semchunk/internal/document"
)

// boundaryWindow is how much raw text around a page break the continuation
// detector inspects.
const boundaryWindow = 200

// continuationWords are conjunctions and prepositions that, when they end a
// page, signal a sentence truncated by the page boundary.
var continuationWords = map[string]bool{
	"and": true, "or": true, "but": true, "nor": true, "so": true,
	"the": true, "a": true, "an": true,
	"of": true, "to": true, "in": true, "on": true, "for": true,
	"at": true, "by": true, "from": true, "with": true, "as": true,
	"that": true, "which": true, "while": true, "because": true,
	"although": true, "however": true, "including": true, "such": true,
}

var (
	numberedListStart = regexp.MustCompile(`^\s*\d+\.\s`)
	bulletListStart   = regexp.MustCompile(`^\s*[-*+]\s`)
	headerTailLine    = regexp.MustCompile(`^#{1,6}\s`)
	horizontalRule    = regexp.MustCompile(`^(?:---+|\*\*\*+|___+)\s*$`)
)

// DetectContinuation inspects the boundary between two consecutive pages
// and reports whether any continuation signal fires. Signals are combined
// with a logical OR, not a weighted score.
func DetectContinuation(tail, head string) bool {
	tail = strings.TrimSpace(tail)
	head = strings.TrimSpace(head)
	if tail == "" || head == "" {
		return false
	}

	if endsWithContinuationWord(tail) {
		return true
	}
	if lacksTerminalPunctuation(tail) {
		return true
	}
	if numberedListStart.MatchString(head) || bulletListStart.MatchString(head) {
		return true
	}
	if isTableRow(lastLine(tail)) && isTableRow(firstLine(head)) {
		return true
	}
	if headerTailLine.MatchString(lastLine(tail)) {
		return true
	}
	return false
}

// MergeAcrossPages walks adjacent pages and merges the boundary chunks
// wherever a continuation signal fires and both chunks are plain text.
// Protected-block integrity outranks continuation merging: if either
// boundary chunk is a table, image, or code block, both are kept as-is.
// perPage is modified in place; the return value is the merge count.
func MergeAcrossPages(pages []document.Page, perPage [][]document.Chunk, source string) int {
	merges := 0

	for i := 0; i+1 < len(pages); i++ {
		prev := perPage[i]
		next := perPage[i+1]
		if len(prev) == 0 || len(next) == 0 {
			continue
		}
		if !DetectContinuation(pageTail(pages[i].Text), pageHead(pages[i+1].Text)) {
			continue
		}

		last := prev[len(prev)-1]
		first := next[0]
		if last.Metadata.Type != document.KindText || first.Metadata.Type != document.KindText {
			continue
		}

		merged := mergeChunks(last, first, source, pages[i].Number, pages[i+1].Number)
		perPage[i] = prev[:len(prev)-1]
		perPage[i+1] = append([]document.Chunk{merged}, next[1:]...)
		merges++
	}

	return merges
}

// mergeChunks retires the two boundary chunks and builds their replacement.
// The deeper breadcrumb stack wins since it carries the more specific
// context.
func mergeChunks(last, first document.Chunk, source string, pageN, pageN1 int) document.Chunk {
	content := last.ContentOnly + "\n\n" + first.ContentOnly

	crumbs := last.Metadata.Breadcrumbs
	if len(first.Metadata.Breadcrumbs) > len(crumbs) {
		crumbs = first.Metadata.Breadcrumbs
	}

	merged := BuildChunk(content, crumbs, source, pageN, document.KindText)
	merged.Metadata.MergedFromPages = []int{pageN, pageN1}
	merged.Metadata.IsMerged = true
	return merged
}

func endsWithContinuationWord(tail string) bool {
	fields := strings.Fields(tail)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToLower(strings.Trim(fields[len(fields)-1], `*_"'()`))
	return continuationWords[last]
}

func lacksTerminalPunctuation(tail string) bool {
	if horizontalRule.MatchString(lastLine(tail)) {
		return false
	}
	trimmed := strings.TrimRight(tail, "*_\"') \t\n")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?', ':':
		return false
	}
	return true
}

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return strings.TrimSpace(lines[i])
		}
	}
	return ""
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// pageTail returns the last boundaryWindow bytes of page text, aligned to a
// rune boundary.
func pageTail(text string) string {
	if len(text) <= boundaryWindow {
		return text
	}
	start := len(text) - boundaryWindow
	for start < len(text) && !utf8.RuneStart(text[start]) {
		start++
	}
	return text[start:]
}

// pageHead returns the first boundaryWindow bytes of page text, aligned to
// a rune boundary.
func pageHead(text string) string {
	if len(text) <= boundaryWindow {
		return text
	}
	end := boundaryWindow
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end]
}
